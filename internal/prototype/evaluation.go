package prototype

import (
	"errors"
	"fmt"
	"strings"

	"fusion-engine/internal/fpath"
)

// EvaluationSegment is one segment of an evaluation path. Prototype is set
// when the segment is evaluated as an instance of a prototype.
type EvaluationSegment struct {
	Segment   fpath.Segment
	Prototype *fpath.QualifiedName
}

// String renders the segment as "name" or "name<Namespace:Name>".
func (s EvaluationSegment) String() string {
	if s.Prototype == nil {
		return s.Segment.String()
	}

	return s.Segment.String() + "<" + s.Prototype.String() + ">"
}

// EvaluationPath is the typed path a prototype is evaluated at.
type EvaluationPath struct {
	segments []EvaluationSegment
}

// NewEvaluationPath builds a path from segments.
func NewEvaluationPath(segments ...EvaluationSegment) EvaluationPath {
	return EvaluationPath{segments: append([]EvaluationSegment(nil), segments...)}
}

// Len returns the number of segments.
func (e EvaluationPath) Len() int {
	return len(e.segments)
}

// Segment returns the i-th segment.
func (e EvaluationPath) Segment(i int) EvaluationSegment {
	return e.segments[i]
}

// Child appends a segment. proto may be nil.
func (e EvaluationPath) Child(seg fpath.Segment, proto *fpath.QualifiedName) EvaluationPath {
	out := make([]EvaluationSegment, 0, len(e.segments)+1)
	out = append(out, e.segments...)

	return EvaluationPath{segments: append(out, EvaluationSegment{Segment: seg, Prototype: proto})}
}

// String renders the path in the notation accepted by ParseEvaluationPath.
func (e EvaluationPath) String() string {
	parts := make([]string, len(e.segments))
	for i, s := range e.segments {
		parts[i] = s.String()
	}

	return strings.Join(parts, ".")
}

// ParseEvaluationPath parses "page<Acme.Site:Page>.body.content<Acme.Site:Content>".
// The part in angle brackets types the segment before it.
func ParseEvaluationPath(s string) (EvaluationPath, error) {
	var (
		plain strings.Builder
		types = make(map[int]fpath.QualifiedName)
		quote byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				return EvaluationPath{}, fmt.Errorf("evaluation path %q: unterminated prototype annotation", s)
			}

			name := strings.TrimSpace(s[i+1 : i+end])
			if name == "" {
				return EvaluationPath{}, fmt.Errorf("evaluation path %q: empty prototype annotation", s)
			}

			prefix, err := fpath.ParseRelative(plain.String())
			if err != nil {
				return EvaluationPath{}, fmt.Errorf("evaluation path %q: annotation without segment: %w", s, err)
			}

			types[prefix.Len()-1] = fpath.ParseQualifiedName(name)
			i += end

			continue
		}

		plain.WriteByte(c)
	}

	if quote != 0 {
		return EvaluationPath{}, errors.New("evaluation path " + s + ": unterminated quote")
	}

	if strings.TrimSpace(plain.String()) == "" {
		return EvaluationPath{}, nil
	}

	rel, err := fpath.ParseRelative(plain.String())
	if err != nil {
		return EvaluationPath{}, fmt.Errorf("evaluation path %q: %w", s, err)
	}

	segments := make([]EvaluationSegment, rel.Len())
	for i := range segments {
		segments[i].Segment = rel.Segment(i)

		if name, ok := types[i]; ok {
			segments[i].Prototype = &name
		}
	}

	return EvaluationPath{segments: segments}, nil
}

// MustEvaluationPath is ParseEvaluationPath that panics on error.
func MustEvaluationPath(s string) EvaluationPath {
	e, err := ParseEvaluationPath(s)
	if err != nil {
		panic(err)
	}

	return e
}
