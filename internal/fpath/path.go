package fpath

import (
	"errors"
	"strings"
)

// ErrEmptyRelativePath is returned when a relative path would have no segments.
var ErrEmptyRelativePath = errors.New("relative path must have at least one segment")

const keySeparator = "\x1f"

// AbsolutePath is a path rooted at the top of the declaration tree.
// The zero value is the root path.
type AbsolutePath struct {
	segments []Segment
}

// RelativePath is a non-empty path relative to some base.
type RelativePath struct {
	segments []Segment
}

// Root returns the root path.
func Root() AbsolutePath {
	return AbsolutePath{}
}

// NewAbsolute builds an absolute path from segments.
func NewAbsolute(segments ...Segment) AbsolutePath {
	return AbsolutePath{segments: cloneSegments(segments)}
}

// NewRelative builds a relative path. It fails when no segment is given.
func NewRelative(segments ...Segment) (RelativePath, error) {
	if len(segments) == 0 {
		return RelativePath{}, ErrEmptyRelativePath
	}

	return RelativePath{segments: cloneSegments(segments)}, nil
}

// Len returns the number of segments.
func (p AbsolutePath) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path has no segments.
func (p AbsolutePath) IsRoot() bool {
	return len(p.segments) == 0
}

// Segment returns the i-th segment.
func (p AbsolutePath) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p AbsolutePath) Segments() []Segment {
	return cloneSegments(p.segments)
}

// Last returns the final segment. The second result is false for the root.
func (p AbsolutePath) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}

	return p.segments[len(p.segments)-1], true
}

// Parent returns the path without its final segment. The parent of the root
// is the root.
func (p AbsolutePath) Parent() AbsolutePath {
	if len(p.segments) == 0 {
		return p
	}

	return p.Head(len(p.segments) - 1)
}

// Head returns the first n segments as an absolute path.
func (p AbsolutePath) Head(n int) AbsolutePath {
	if n >= len(p.segments) {
		return p
	}

	return AbsolutePath{segments: p.segments[:n:n]}
}

// Child appends one segment.
func (p AbsolutePath) Child(s Segment) AbsolutePath {
	out := make([]Segment, 0, len(p.segments)+1)
	out = append(out, p.segments...)

	return AbsolutePath{segments: append(out, s)}
}

// Append appends a relative path.
func (p AbsolutePath) Append(rel RelativePath) AbsolutePath {
	out := make([]Segment, 0, len(p.segments)+len(rel.segments))
	out = append(out, p.segments...)

	return AbsolutePath{segments: append(out, rel.segments...)}
}

// HasPrefix reports whether base is p itself or one of its ancestors.
func (p AbsolutePath) HasPrefix(base AbsolutePath) bool {
	if len(base.segments) > len(p.segments) {
		return false
	}

	for i, s := range base.segments {
		if !s.Equal(p.segments[i]) {
			return false
		}
	}

	return true
}

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p AbsolutePath) IsAncestorOf(other AbsolutePath) bool {
	return len(p.segments) < len(other.segments) && other.HasPrefix(p)
}

// IsDescendantOf reports whether p is a strict descendant of other.
func (p AbsolutePath) IsDescendantOf(other AbsolutePath) bool {
	return other.IsAncestorOf(p)
}

// Equal reports structural equality.
func (p AbsolutePath) Equal(other AbsolutePath) bool {
	return len(p.segments) == len(other.segments) && p.HasPrefix(other)
}

// Relativize returns p relative to base. The second result is false unless
// base is a strict ancestor of p.
func (p AbsolutePath) Relativize(base AbsolutePath) (RelativePath, bool) {
	if !base.IsAncestorOf(p) {
		return RelativePath{}, false
	}

	return p.Tail(base.Len())
}

// Tail returns the segments from index n on. It reports false when nothing
// remains.
func (p AbsolutePath) Tail(n int) (RelativePath, bool) {
	n = max(n, 0)
	if n >= len(p.segments) {
		return RelativePath{}, false
	}

	return RelativePath{segments: p.segments[n:len(p.segments):len(p.segments)]}, true
}

// Ancestors returns the strict ancestors of p from the root down, root
// excluded.
func (p AbsolutePath) Ancestors() []AbsolutePath {
	if len(p.segments) < 2 {
		return nil
	}

	out := make([]AbsolutePath, 0, len(p.segments)-1)
	for n := 1; n < len(p.segments); n++ {
		out = append(out, p.Head(n))
	}

	return out
}

// IndexOfPrototypeCall returns the position of the first prototype call at or
// after start, or -1.
func (p AbsolutePath) IndexOfPrototypeCall(start int) int {
	for i := start; i < len(p.segments); i++ {
		if p.segments[i].IsPrototypeCall() {
			return i
		}
	}

	return -1
}

// ContainsPrototypeCall reports whether any segment is a prototype call.
func (p AbsolutePath) ContainsPrototypeCall() bool {
	return p.IndexOfPrototypeCall(0) >= 0
}

// Key returns the structural identity of the path.
func (p AbsolutePath) Key() string {
	return segmentsKey(p.segments)
}

// String renders the path in Fusion notation. The root renders as "".
func (p AbsolutePath) String() string {
	return segmentsString(p.segments)
}

// Len returns the number of segments.
func (r RelativePath) Len() int {
	return len(r.segments)
}

// Segment returns the i-th segment.
func (r RelativePath) Segment(i int) Segment {
	return r.segments[i]
}

// Segments returns a copy of the segments.
func (r RelativePath) Segments() []Segment {
	return cloneSegments(r.segments)
}

// First returns the leading segment.
func (r RelativePath) First() Segment {
	return r.segments[0]
}

// Rest drops the leading segment. The second result is false when nothing
// would remain.
func (r RelativePath) Rest() (RelativePath, bool) {
	if len(r.segments) < 2 {
		return RelativePath{}, false
	}

	return RelativePath{segments: r.segments[1:]}, true
}

// Append concatenates two relative paths.
func (r RelativePath) Append(other RelativePath) RelativePath {
	out := make([]Segment, 0, len(r.segments)+len(other.segments))
	out = append(out, r.segments...)

	return RelativePath{segments: append(out, other.segments...)}
}

// HasPrefix reports whether base is r itself or a leading part of r.
func (r RelativePath) HasPrefix(base RelativePath) bool {
	if len(base.segments) > len(r.segments) {
		return false
	}

	for i, s := range base.segments {
		if !s.Equal(r.segments[i]) {
			return false
		}
	}

	return true
}

// Relativize returns r relative to base when base is a strict prefix of r.
func (r RelativePath) Relativize(base RelativePath) (RelativePath, bool) {
	if len(base.segments) >= len(r.segments) || !r.HasPrefix(base) {
		return RelativePath{}, false
	}

	return RelativePath{segments: r.segments[len(base.segments):]}, true
}

// ContainsPrototypeCall reports whether any segment is a prototype call.
func (r RelativePath) ContainsPrototypeCall() bool {
	for _, s := range r.segments {
		if s.IsPrototypeCall() {
			return true
		}
	}

	return false
}

// Equal reports structural equality.
func (r RelativePath) Equal(other RelativePath) bool {
	return len(r.segments) == len(other.segments) && r.HasPrefix(other)
}

// Key returns the structural identity of the path.
func (r RelativePath) Key() string {
	return segmentsKey(r.segments)
}

// String renders the path in Fusion notation.
func (r RelativePath) String() string {
	return segmentsString(r.segments)
}

func segmentsKey(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Key()
	}

	return strings.Join(parts, keySeparator)
}

func segmentsString(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.String()
	}

	return strings.Join(parts, ".")
}

func cloneSegments(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}

	out := make([]Segment, len(segments))
	copy(out, segments)

	return out
}
