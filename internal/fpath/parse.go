package fpath

import (
	"fmt"
	"strings"
)

const prototypeKeyword = "prototype("

// ParseAbsolute parses a path in Fusion notation. An empty string is the root.
func ParseAbsolute(s string) (AbsolutePath, error) {
	segments, err := parseSegments(s)
	if err != nil {
		return AbsolutePath{}, err
	}

	return AbsolutePath{segments: segments}, nil
}

// ParseRelative parses a non-empty relative path.
func ParseRelative(s string) (RelativePath, error) {
	segments, err := parseSegments(s)
	if err != nil {
		return RelativePath{}, err
	}

	if len(segments) == 0 {
		return RelativePath{}, ErrEmptyRelativePath
	}

	return RelativePath{segments: segments}, nil
}

// MustAbsolute is ParseAbsolute that panics on error. Intended for tests and
// static tables.
func MustAbsolute(s string) AbsolutePath {
	p, err := ParseAbsolute(s)
	if err != nil {
		panic(err)
	}

	return p
}

// MustRelative is ParseRelative that panics on error.
func MustRelative(s string) RelativePath {
	p, err := ParseRelative(s)
	if err != nil {
		panic(err)
	}

	return p
}

func parseSegments(s string) ([]Segment, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var segments []Segment

	for pos := 0; pos < len(s); {
		seg, next, err := parseSegment(s, pos)
		if err != nil {
			return nil, err
		}

		segments = append(segments, seg)

		if next == len(s) {
			break
		}

		if s[next] != '.' {
			return nil, fmt.Errorf("invalid path %q: expected '.' at offset %d", s, next)
		}

		pos = next + 1
		if pos == len(s) {
			return nil, fmt.Errorf("invalid path %q: trailing '.'", s)
		}
	}

	return segments, nil
}

// parseSegment reads one segment starting at pos and returns the offset just
// after it.
func parseSegment(s string, pos int) (Segment, int, error) {
	switch {
	case s[pos] == '"' || s[pos] == '\'':
		quote := s[pos]

		end := strings.IndexByte(s[pos+1:], quote)
		if end < 0 {
			return Segment{}, 0, fmt.Errorf("invalid path %q: unterminated quote at offset %d", s, pos)
		}

		name := s[pos+1 : pos+1+end]

		quoting := QuotingDouble
		if quote == '\'' {
			quoting = QuotingSingle
		}

		return QuotedProperty(name, quoting), pos + end + 2, nil

	case strings.HasPrefix(s[pos:], prototypeKeyword):
		start := pos + len(prototypeKeyword)

		end := strings.IndexByte(s[start:], ')')
		if end < 0 {
			return Segment{}, 0, fmt.Errorf("invalid path %q: unterminated prototype call at offset %d", s, pos)
		}

		name := strings.TrimSpace(s[start : start+end])
		if name == "" {
			return Segment{}, 0, fmt.Errorf("invalid path %q: empty prototype name", s)
		}

		return PrototypeCall(ParseQualifiedName(name)), start + end + 1, nil

	case s[pos] == '@':
		name, next := readName(s, pos+1)
		if name == "" {
			return Segment{}, 0, fmt.Errorf("invalid path %q: empty meta-property at offset %d", s, pos)
		}

		return Meta(name), next, nil
	}

	name, next := readName(s, pos)
	if name == "" {
		return Segment{}, 0, fmt.Errorf("invalid path %q: empty segment at offset %d", s, pos)
	}

	return Property(name), next, nil
}

func readName(s string, pos int) (string, int) {
	end := pos
	for end < len(s) && !strings.ContainsRune(`.()"'`, rune(s[end])) {
		end++
	}

	return s[pos:end], end
}
