package prototype

import (
	"errors"
	"fmt"
	"strings"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

var (
	// ErrUnknownPrototype is returned for names the store does not know.
	ErrUnknownPrototype = errors.New("unknown prototype")
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrAmbiguousScope is returned when two matching extension scopes cannot
	// be ordered.
	ErrAmbiguousScope = errors.New("ambiguous extension scope")
	// ErrInheritanceCycle is returned when prototypes inherit from each other.
	ErrInheritanceCycle = errors.New("prototype inheritance cycle")
	// ErrInheritanceConflict is returned in strict mode when a prototype
	// declares more than one distinct parent.
	ErrInheritanceConflict = errors.New("conflicting prototype inheritance")
)

// UnknownPrototypeError reports a lookup of an undeclared prototype.
type UnknownPrototypeError struct {
	Name        fpath.QualifiedName
	Suggestions []string
}

// Error returns the error string.
func (e *UnknownPrototypeError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrUnknownPrototype, e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

// Unwrap returns ErrUnknownPrototype.
func (e *UnknownPrototypeError) Unwrap() error {
	return ErrUnknownPrototype
}

// MissingAttributeError reports a required attribute that does not resolve.
type MissingAttributeError struct {
	Prototype fpath.QualifiedName
	Path      fpath.RelativePath
	At        EvaluationPath
}

// Error returns the error string.
func (e *MissingAttributeError) Error() string {
	msg := fmt.Sprintf("%s: %s of %s", ErrMissingAttribute, e.Path, e.Prototype)
	if e.At.Len() > 0 {
		msg += " at " + e.At.String()
	}

	return msg
}

// Unwrap returns ErrMissingAttribute.
func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingAttribute
}

// InheritanceCycleError reports prototypes that inherit from each other.
// Cycle starts and ends with the same name.
type InheritanceCycleError struct {
	Cycle []fpath.QualifiedName
}

// Error returns the error string.
func (e *InheritanceCycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = n.String()
	}

	return ErrInheritanceCycle.Error() + ": " + strings.Join(parts, " -> ")
}

// Unwrap returns ErrInheritanceCycle.
func (e *InheritanceCycleError) Unwrap() error {
	return ErrInheritanceCycle
}

// InheritanceConflictError reports a prototype declaring distinct parents.
// Declarations are ordered most-overriding first.
type InheritanceConflictError struct {
	Name         fpath.QualifiedName
	Declarations []*decl.PrototypeDeclaration
}

// Error returns the error string.
func (e *InheritanceConflictError) Error() string {
	parts := make([]string, len(e.Declarations))
	for i, d := range e.Declarations {
		parts[i] = fmt.Sprintf("%s (%s)", d.Inherits, d.Source)
	}

	return fmt.Sprintf("%s: %s extends %s", ErrInheritanceConflict, e.Name, strings.Join(parts, ", "))
}

// Unwrap returns ErrInheritanceConflict.
func (e *InheritanceConflictError) Unwrap() error {
	return ErrInheritanceConflict
}
