package prototype

import (
	"slices"

	"fusion-engine/internal/fpath"
)

// ScopePart is either a run of property segments or a prototype boundary.
type ScopePart struct {
	// Run holds the segments of a property run.
	Run []fpath.Segment
	// Prototype is set for prototype boundaries.
	Prototype fpath.QualifiedName
	// Chain is the inheritance chain of Prototype, Prototype first.
	Chain []fpath.QualifiedName
}

// IsPrototype reports whether the part is a prototype boundary.
func (p ScopePart) IsPrototype() bool {
	return !p.Prototype.IsZero()
}

// ExtensionScope is the path in front of a non-root prototype(Name) segment,
// split into parts.
type ExtensionScope struct {
	Path  fpath.AbsolutePath
	Parts []ScopePart
}

// ChainFunc returns the inheritance chain of a prototype, the prototype
// itself first.
type ChainFunc func(fpath.QualifiedName) []fpath.QualifiedName

// NewExtensionScope splits path into property runs and prototype parts.
func NewExtensionScope(path fpath.AbsolutePath, chainOf ChainFunc) ExtensionScope {
	scope := ExtensionScope{Path: path}

	var run []fpath.Segment

	flush := func() {
		if len(run) > 0 {
			scope.Parts = append(scope.Parts, ScopePart{Run: run})
			run = nil
		}
	}

	for _, seg := range path.Segments() {
		name, ok := seg.PrototypeName()
		if !ok {
			run = append(run, seg)
			continue
		}

		flush()

		scope.Parts = append(scope.Parts, ScopePart{Prototype: name, Chain: chainOf(name)})
	}

	flush()

	return scope
}

// Len is the number of path segments the scope spans.
func (s ExtensionScope) Len() int {
	return s.Path.Len()
}

// String renders the scope path.
func (s ExtensionScope) String() string {
	return s.Path.String()
}

// IsInScope matches the scope against an evaluation path. Parts are consumed
// left to right without backtracking: a property run must match contiguous
// segments, a prototype part matches the next segment evaluated as that
// prototype or one inheriting from it.
func (s ExtensionScope) IsInScope(ev EvaluationPath, chainOf ChainFunc) bool {
	pos := 0

	for _, part := range s.Parts {
		var next int

		if part.IsPrototype() {
			next = matchPrototype(ev, pos, part.Prototype, chainOf)
		} else {
			next = matchRun(ev, pos, part.Run)
		}

		if next < 0 {
			return false
		}

		pos = next
	}

	return true
}

// matchRun returns the position after the first occurrence of run at or
// after pos, or -1. Segments in front of the run may be skipped; the run
// itself matches without gaps.
func matchRun(ev EvaluationPath, pos int, run []fpath.Segment) int {
	for start := pos; start+len(run) <= ev.Len(); start++ {
		matched := true

		for i, seg := range run {
			if !ev.Segment(start + i).Segment.Equal(seg) {
				matched = false
				break
			}
		}

		if matched {
			return start + len(run)
		}
	}

	return -1
}

func matchPrototype(ev EvaluationPath, pos int, name fpath.QualifiedName, chainOf ChainFunc) int {
	for i := pos; i < ev.Len(); i++ {
		proto := ev.Segment(i).Prototype
		if proto == nil {
			continue
		}

		if *proto == name || slices.Contains(chainOf(*proto), name) {
			return i + 1
		}
	}

	return -1
}

// compareSpecificity orders two scopes of the same prototype. A positive
// result means a is more specific; zero means the scopes cannot be told
// apart by their shape.
func compareSpecificity(a, b ExtensionScope) int {
	if a.Len() != b.Len() {
		return a.Len() - b.Len()
	}

	for i := 0; i < len(a.Parts) && i < len(b.Parts); i++ {
		pa, pb := a.Parts[i], b.Parts[i]
		if !pa.IsPrototype() || !pb.IsPrototype() || pa.Prototype == pb.Prototype {
			continue
		}

		// the part whose chain contains the other is less abstract
		switch {
		case slices.Contains(pa.Chain, pb.Prototype):
			return 1
		case slices.Contains(pb.Chain, pa.Prototype):
			return -1
		}
	}

	return 0
}
