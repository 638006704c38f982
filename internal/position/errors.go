package position

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPosition is returned for directives that cannot be parsed.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrReferenceCycle is returned when before/after references loop.
	ErrReferenceCycle = errors.New("position reference cycle")
	// ErrUnknownReference is returned when a before/after reference names a
	// key that is not being sorted.
	ErrUnknownReference = errors.New("unknown position reference")
)

// InvalidPositionError reports an unparsable directive.
type InvalidPositionError struct {
	Key   string
	Value string
}

// Error returns the error string.
func (e *InvalidPositionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %q", ErrInvalidPosition, e.Value)
	}

	return fmt.Sprintf("%s: %q for key %q", ErrInvalidPosition, e.Value, e.Key)
}

// Unwrap returns ErrInvalidPosition.
func (e *InvalidPositionError) Unwrap() error {
	return ErrInvalidPosition
}

// ReferenceCycleError reports keys referencing each other. Cycle starts and
// ends with the same key.
type ReferenceCycleError struct {
	Cycle []string
}

// Error returns the error string.
func (e *ReferenceCycleError) Error() string {
	return ErrReferenceCycle.Error() + ": " + strings.Join(e.Cycle, " -> ")
}

// Unwrap returns ErrReferenceCycle.
func (e *ReferenceCycleError) Unwrap() error {
	return ErrReferenceCycle
}

// UnknownReferenceError reports a before/after directive whose reference is
// not among the sorted keys.
type UnknownReferenceError struct {
	Key       string
	Reference string
}

// Error returns the error string.
func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s: key %q refers to %q", ErrUnknownReference, e.Key, e.Reference)
}

// Unwrap returns ErrUnknownReference.
func (e *UnknownReferenceError) Unwrap() error {
	return ErrUnknownReference
}
