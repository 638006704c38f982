package resolve

import (
	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

//go:generate go tool stringer -type=State -trimprefix=State -output=state_string.go

// State is the outcome kind of a resolution.
type State int

const (
	StateValue State = iota
	StateUntyped
	StateErased
	// StateVirtual is only produced by the children view for intermediate
	// paths that have no declaration of their own.
	StateVirtual
)

// Result is the effective value of one path.
type Result struct {
	State State
	// Value is set when State is StateValue.
	Value decl.Value
	// Decl is the declaration that decided the result. It is nil for
	// virtual placeholders.
	Decl *decl.Declaration
	// Via lists the copies followed to reach Decl, outermost first.
	Via []*decl.Declaration
}

// IsPresent reports whether the path exists in the effective tree.
func (r Result) IsPresent() bool {
	return r.State != StateErased
}

// String renders the result for logs and reports.
func (r Result) String() string {
	switch r.State {
	case StateValue:
		return r.Value.String()
	case StateUntyped:
		return "<untyped>"
	case StateErased:
		return "<erased>"
	case StateVirtual:
		return "<virtual>"
	default:
		return r.State.String()
	}
}

func (r Result) via(copyDecl *decl.Declaration) Result {
	out := r
	out.Via = make([]*decl.Declaration, 0, len(r.Via)+1)
	out.Via = append(out.Via, copyDecl)
	out.Via = append(out.Via, r.Via...)

	return out
}

// Descendant is one entry of a descendants or children view.
type Descendant struct {
	Path fpath.RelativePath
	Result
}
