package resolve

import (
	"errors"
	"fmt"
	"strings"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

var (
	// ErrNotFound is returned for paths nothing declares.
	ErrNotFound = errors.New("path not found")
	// ErrCyclicCopy is returned when copy redirection does not terminate.
	ErrCyclicCopy = errors.New("cyclic copy")
)

// NotFoundError reports an undeclared path.
type NotFoundError struct {
	Path        fpath.AbsolutePath
	Suggestions []string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// CyclicCopyError reports a copy chain that revisits a path or exceeds the
// maximum redirection depth.
type CyclicCopyError struct {
	// Chain lists the paths being resolved, the repeated one last.
	Chain []fpath.AbsolutePath
	// Depth is set when the chain was cut by the depth limit instead of a
	// repeated path.
	Depth int
	// Decl is the copy that closed the chain, when known.
	Decl *decl.Declaration
}

// Error returns the error string.
func (e *CyclicCopyError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, p := range e.Chain {
		parts[i] = p.String()
	}

	var b strings.Builder

	b.WriteString(ErrCyclicCopy.Error())
	b.WriteString(": ")
	b.WriteString(strings.Join(parts, " -> "))

	if e.Depth > 0 {
		fmt.Fprintf(&b, " (depth limit %d reached)", e.Depth)
	}

	if e.Decl != nil {
		fmt.Fprintf(&b, " at %s", e.Decl.Source)
	}

	return b.String()
}

// Unwrap returns ErrCyclicCopy.
func (e *CyclicCopyError) Unwrap() error {
	return ErrCyclicCopy
}
