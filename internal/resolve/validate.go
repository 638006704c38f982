package resolve

import (
	"errors"
	"fmt"
)

// ValidateCopies resolves the path and the descendants of every copy once so
// that copy cycles are reported when the model is built rather than on a
// later query.
func ValidateCopies(r *Resolver) error {
	for _, c := range r.index.Copies() {
		if _, err := r.Resolve(c.Path); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("copy %s at %s: %w", c, c.Source, err)
		}

		if _, err := r.ResolveDescendants(c.Path); err != nil {
			return fmt.Errorf("copy %s at %s: %w", c, c.Source, err)
		}
	}

	return nil
}
