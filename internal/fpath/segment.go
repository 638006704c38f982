package fpath

import (
	"strings"
)

//go:generate go tool stringer -type=SegmentKind -trimprefix=Segment -output=segmentkind_string.go

// SegmentKind identifies the variant of a path segment.
type SegmentKind int

const (
	SegmentProperty SegmentKind = iota
	SegmentMetaProperty
	SegmentPrototypeCall
)

// Quoting records how a property name was written in source.
type Quoting int

const (
	QuotingNone Quoting = iota
	QuotingSingle
	QuotingDouble
)

// Segment is a single element of a path.
type Segment struct {
	Kind SegmentKind
	// Name is the property name, the meta-property name without "@", or the
	// qualified prototype name for prototype calls.
	Name string
	// Quoting is only meaningful for SegmentProperty.
	Quoting Quoting
}

// Property returns an unquoted property segment.
func Property(name string) Segment {
	return Segment{Kind: SegmentProperty, Name: name}
}

// QuotedProperty returns a property segment written with the given quoting.
func QuotedProperty(name string, quoting Quoting) Segment {
	return Segment{Kind: SegmentProperty, Name: name, Quoting: quoting}
}

// Meta returns a meta-property segment (@name).
func Meta(name string) Segment {
	return Segment{Kind: SegmentMetaProperty, Name: name}
}

// PrototypeCall returns a prototype(name) segment.
func PrototypeCall(name QualifiedName) Segment {
	return Segment{Kind: SegmentPrototypeCall, Name: name.String()}
}

// Equal reports structural equality. Quoting is ignored.
func (s Segment) Equal(other Segment) bool {
	return s.Kind == other.Kind && s.Name == other.Name
}

// IsPrototypeCall reports whether the segment is a prototype(...) call.
func (s Segment) IsPrototypeCall() bool {
	return s.Kind == SegmentPrototypeCall
}

// PrototypeName returns the qualified name of a prototype call segment.
// The second result is false for other segment kinds.
func (s Segment) PrototypeName() (QualifiedName, bool) {
	if s.Kind != SegmentPrototypeCall {
		return QualifiedName{}, false
	}

	return ParseQualifiedName(s.Name), true
}

// Key returns the structural identity of the segment.
func (s Segment) Key() string {
	switch s.Kind {
	case SegmentMetaProperty:
		return "@" + s.Name
	case SegmentPrototypeCall:
		return "prototype(" + s.Name + ")"
	default:
		return "." + s.Name
	}
}

// String renders the segment in Fusion notation.
func (s Segment) String() string {
	switch s.Kind {
	case SegmentMetaProperty:
		return "@" + s.Name
	case SegmentPrototypeCall:
		return "prototype(" + s.Name + ")"
	}

	switch s.Quoting {
	case QuotingSingle:
		return "'" + s.Name + "'"
	case QuotingDouble:
		return `"` + s.Name + `"`
	}

	if needsQuoting(s.Name) {
		return `"` + s.Name + `"`
	}

	return s.Name
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}

	return strings.ContainsAny(name, `.()"' `+"\t\n") || strings.HasPrefix(name, "@")
}
