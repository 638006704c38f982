// Package pathindex groups declarations by absolute path and keeps, per path,
// each declaration kind sorted by load order with the most-overriding
// declaration first.
package pathindex

import (
	"fmt"
	"sort"

	"fusion-engine/internal/common"
	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/loadorder"
)

// Entry holds the declarations made at one path.
type Entry struct {
	Path           fpath.AbsolutePath
	Assignments    []*decl.Declaration
	Configurations []*decl.Declaration
	Erasures       []*decl.Declaration
	Copies         []*decl.Declaration
}

// EffectiveAssignment returns the most-overriding assignment, or nil.
func (e *Entry) EffectiveAssignment() *decl.Declaration {
	return head(e.Assignments)
}

// EffectiveConfiguration returns the most-overriding configuration, or nil.
func (e *Entry) EffectiveConfiguration() *decl.Declaration {
	return head(e.Configurations)
}

// EffectiveErasure returns the most-overriding erasure, or nil.
func (e *Entry) EffectiveErasure() *decl.Declaration {
	return head(e.Erasures)
}

// EffectiveCopy returns the most-overriding copy, or nil.
func (e *Entry) EffectiveCopy() *decl.Declaration {
	return head(e.Copies)
}

// IsEmpty reports whether nothing is declared at the path.
func (e *Entry) IsEmpty() bool {
	return len(e.Assignments)+len(e.Configurations)+len(e.Erasures)+len(e.Copies) == 0
}

func head(list []*decl.Declaration) *decl.Declaration {
	d, _ := common.First(list)

	return d
}

// Index is the immutable path index of one declaration set.
type Index struct {
	order    *loadorder.Order
	entries  map[string]*Entry
	paths    map[string]fpath.AbsolutePath
	children map[string][]string
	copies   []*decl.Declaration
}

// New indexes decls. Every declaration must belong to a package known to
// order.
func New(order *loadorder.Order, decls []*decl.Declaration) (*Index, error) {
	idx := &Index{
		order:    order,
		entries:  make(map[string]*Entry),
		paths:    map[string]fpath.AbsolutePath{"": fpath.Root()},
		children: make(map[string][]string),
	}

	for _, d := range decls {
		e := idx.entry(d.Path)

		switch d.Kind {
		case decl.KindAssignment:
			e.Assignments = append(e.Assignments, d)
		case decl.KindConfiguration:
			e.Configurations = append(e.Configurations, d)
		case decl.KindErasure:
			e.Erasures = append(e.Erasures, d)
		case decl.KindCopy:
			e.Copies = append(e.Copies, d)
			idx.copies = append(idx.copies, d)
		default:
			return nil, fmt.Errorf("%s: unknown declaration kind %v", d.Source, d.Kind)
		}
	}

	for _, e := range idx.entries {
		for _, list := range [][]*decl.Declaration{e.Assignments, e.Configurations, e.Erasures, e.Copies} {
			if err := loadorder.Sort(order, list); err != nil {
				return nil, fmt.Errorf("sorting declarations at %s: %w", e.Path, err)
			}
		}
	}

	if err := loadorder.Sort(order, idx.copies); err != nil {
		return nil, err
	}

	for k := range idx.children {
		sort.Strings(idx.children[k])
	}

	return idx, nil
}

func (idx *Index) entry(p fpath.AbsolutePath) *Entry {
	key := p.Key()
	if e, ok := idx.entries[key]; ok {
		return e
	}

	e := &Entry{Path: p}
	idx.entries[key] = e
	idx.register(p)

	return e
}

// register records p and all its ancestors in the child map.
func (idx *Index) register(p fpath.AbsolutePath) {
	for !p.IsRoot() {
		key := p.Key()
		if _, known := idx.paths[key]; known {
			return
		}

		idx.paths[key] = p
		parent := p.Parent()
		idx.children[parent.Key()] = append(idx.children[parent.Key()], key)
		p = parent
	}
}

// Order returns the load order the index was sorted with.
func (idx *Index) Order() *loadorder.Order {
	return idx.order
}

// Entry returns the declarations at p. ok is false when nothing is declared
// exactly at p.
func (idx *Index) Entry(p fpath.AbsolutePath) (*Entry, bool) {
	e, ok := idx.entries[p.Key()]
	return e, ok
}

// Known reports whether p is declared or is an ancestor of a declared path.
func (idx *Index) Known(p fpath.AbsolutePath) bool {
	_, ok := idx.paths[p.Key()]
	return ok
}

// Children returns the paths one level below p that are declared or lead to
// declared paths, sorted by key.
func (idx *Index) Children(p fpath.AbsolutePath) []fpath.AbsolutePath {
	keys := idx.children[p.Key()]

	out := make([]fpath.AbsolutePath, len(keys))
	for i, k := range keys {
		out[i] = idx.paths[k]
	}

	return out
}

// Descendants returns every path strictly below p that is declared or leads to
// a declared path, depth first.
func (idx *Index) Descendants(p fpath.AbsolutePath) []fpath.AbsolutePath {
	var out []fpath.AbsolutePath

	var walk func(key string)

	walk = func(key string) {
		for _, child := range idx.children[key] {
			out = append(out, idx.paths[child])
			walk(child)
		}
	}

	walk(p.Key())

	return out
}

// DeclaredDescendants returns the descendants of p that carry at least one
// declaration.
func (idx *Index) DeclaredDescendants(p fpath.AbsolutePath) []fpath.AbsolutePath {
	var out []fpath.AbsolutePath

	for _, d := range idx.Descendants(p) {
		if _, ok := idx.entries[d.Key()]; ok {
			out = append(out, d)
		}
	}

	return out
}

// Paths returns every declared path, sorted by key.
func (idx *Index) Paths() []fpath.AbsolutePath {
	keys := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	out := make([]fpath.AbsolutePath, len(keys))
	for i, k := range keys {
		out[i] = idx.entries[k].Path
	}

	return out
}

// Copies returns all copy declarations, most-overriding first.
func (idx *Index) Copies() []*decl.Declaration {
	return append([]*decl.Declaration(nil), idx.copies...)
}

// CopiesAt returns the copies declared exactly at p, most-overriding first.
func (idx *Index) CopiesAt(p fpath.AbsolutePath) []*decl.Declaration {
	if e, ok := idx.entries[p.Key()]; ok {
		return e.Copies
	}

	return nil
}

// ErasuresAt returns the erasures declared exactly at p, most-overriding
// first.
func (idx *Index) ErasuresAt(p fpath.AbsolutePath) []*decl.Declaration {
	if e, ok := idx.entries[p.Key()]; ok {
		return e.Erasures
	}

	return nil
}
