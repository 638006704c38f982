package loadorder

import (
	"errors"
	"fmt"
	"sort"

	"fusion-engine/internal/decl"
)

var (
	// ErrEmptyPackageOrder is returned when no package load order is configured.
	ErrEmptyPackageOrder = errors.New("package load order is empty")
	// ErrUnknownPackage is returned when an item belongs to a package that is
	// not part of the load order.
	ErrUnknownPackage = errors.New("package not in load order")
)

// Item is anything that sits at a position in a source file.
type Item interface {
	Origin() decl.SourceFile
	Position() int
}

// Comparator orders items. A negative result means a overrides b.
type Comparator interface {
	Compare(a, b Item) (int, error)
}

// PackageOrder ranks packages by their position in the load order list.
type PackageOrder struct {
	names []string
	rank  map[string]int
}

// NewPackageOrder builds the package comparator. Later packages win.
func NewPackageOrder(names []string) (*PackageOrder, error) {
	if len(names) == 0 {
		return nil, ErrEmptyPackageOrder
	}

	rank := make(map[string]int, len(names))
	for i, n := range names {
		if _, dup := rank[n]; dup {
			return nil, fmt.Errorf("package %q listed twice in load order", n)
		}

		rank[n] = i
	}

	return &PackageOrder{names: append([]string(nil), names...), rank: rank}, nil
}

// Names returns the configured order.
func (p *PackageOrder) Names() []string {
	return append([]string(nil), p.names...)
}

// Contains reports whether the package is part of the order.
func (p *PackageOrder) Contains(pkg string) bool {
	_, ok := p.rank[pkg]
	return ok
}

// Compare implements Comparator.
func (p *PackageOrder) Compare(a, b Item) (int, error) {
	ra, ok := p.rank[a.Origin().Package]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPackage, a.Origin().Package)
	}

	rb, ok := p.rank[b.Origin().Package]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPackage, b.Origin().Package)
	}

	return rb - ra, nil
}

// InFileOrder orders items of the same file by code index. Items from
// different files compare equal.
type InFileOrder struct{}

// Compare implements Comparator.
func (InFileOrder) Compare(a, b Item) (int, error) {
	if a.Origin() != b.Origin() {
		return 0, nil
	}

	return b.Position() - a.Position(), nil
}

// Chain composes comparators; the first non-zero result wins.
type Chain []Comparator

// Compare implements Comparator.
func (c Chain) Compare(a, b Item) (int, error) {
	for _, cmp := range c {
		r, err := cmp.Compare(a, b)
		if err != nil {
			return 0, err
		}

		if r != 0 {
			return r, nil
		}
	}

	return 0, nil
}

// Sort orders items most-overriding first. It reports the first comparison
// error; the slice order is unspecified in that case.
func Sort[T Item](c Comparator, items []T) error {
	var firstErr error

	sort.SliceStable(items, func(i, j int) bool {
		r, err := c.Compare(items[i], items[j])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			return false
		}

		return r < 0
	})

	return firstErr
}

// Winner returns the most-overriding item. ok is false for an empty slice.
func Winner[T Item](c Comparator, items []T) (winner T, ok bool, err error) {
	for i, it := range items {
		if i == 0 {
			winner = it
			continue
		}

		r, cmpErr := c.Compare(it, winner)
		if cmpErr != nil {
			var zero T
			return zero, false, cmpErr
		}

		if r < 0 {
			winner = it
		}
	}

	return winner, len(items) > 0, nil
}
