package decl

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind is the variant of a path declaration.
type Kind int

const (
	// KindAssignment gives the path an explicit value.
	KindAssignment Kind = iota
	// KindConfiguration marks the path present without a value so that it
	// anchors children.
	KindConfiguration
	// KindErasure removes the path and its subtree.
	KindErasure
	// KindCopy redirects the path to another path.
	KindCopy
)
