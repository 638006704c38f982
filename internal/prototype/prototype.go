package prototype

import (
	"fmt"
	"slices"
	"strings"

	"fusion-engine/internal/common"
	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/resolve"
)

// Extension holds the attributes declared for a prototype under one scope.
type Extension struct {
	Scope      ExtensionScope
	Attributes map[string]resolve.Descendant
	// Decl is the most-overriding declaration made under the scope.
	Decl *decl.Declaration
}

// Prototype is a fully linked prototype. It must not be modified.
type Prototype struct {
	Name fpath.QualifiedName
	// Declarations are the root prototype declarations, most-overriding first.
	Declarations []*decl.PrototypeDeclaration
	Inherited    *Prototype
	// Implicit is set for prototypes that are only referenced, never declared.
	Implicit   bool
	Own        map[string]resolve.Descendant
	Extensions []*Extension

	store *Store
}

// Chain returns the prototype name followed by its ancestors.
func (p *Prototype) Chain() []fpath.QualifiedName {
	var out []fpath.QualifiedName
	for cur := p; cur != nil; cur = cur.Inherited {
		out = append(out, cur.Name)
	}

	return out
}

// InheritsFrom reports whether name is p itself or one of its ancestors.
func (p *Prototype) InheritsFrom(name fpath.QualifiedName) bool {
	return slices.Contains(p.Chain(), name)
}

// AttributesFor returns the attributes of p evaluated at ev, keyed by
// relative path key. Erased attributes are left out.
func (p *Prototype) AttributesFor(ev EvaluationPath) (map[string]resolve.Descendant, error) {
	layers, err := p.layers(ev)
	if err != nil {
		return nil, err
	}

	view := make(map[string]resolve.Descendant)
	for _, layer := range layers {
		overlay(view, layer)
	}

	return view, nil
}

// Attribute returns one attribute of p evaluated at ev.
func (p *Prototype) Attribute(ev EvaluationPath, rel fpath.RelativePath) (resolve.Descendant, bool, error) {
	view, err := p.AttributesFor(ev)
	if err != nil {
		return resolve.Descendant{}, false, err
	}

	d, ok := view[rel.Key()]

	return d, ok, nil
}

// RequireAttribute is Attribute that reports a missing attribute as a
// *MissingAttributeError.
func (p *Prototype) RequireAttribute(ev EvaluationPath, rel fpath.RelativePath) (resolve.Descendant, error) {
	d, ok, err := p.Attribute(ev, rel)
	if err != nil {
		return resolve.Descendant{}, err
	}

	if !ok {
		return resolve.Descendant{}, &MissingAttributeError{Prototype: p.Name, Path: rel, At: ev}
	}

	return d, nil
}

// ChildPathsFor returns the keys directly below base among the attributes of
// p evaluated at ev, ordered by key. A zero base lists the top-level keys.
func (p *Prototype) ChildPathsFor(ev EvaluationPath, base fpath.RelativePath) ([]fpath.Segment, error) {
	view, err := p.AttributesFor(ev)
	if err != nil {
		return nil, err
	}

	children := make(map[string]fpath.Segment)

	for _, d := range view {
		if d.Path.Len() <= base.Len() || !d.Path.HasPrefix(base) {
			continue
		}

		seg := d.Path.Segment(base.Len())
		children[seg.Key()] = seg
	}

	keys := common.SortedKeys(children)

	out := make([]fpath.Segment, len(keys))
	for i, k := range keys {
		out[i] = children[k]
	}

	return out, nil
}

// String returns "Name extends Parent".
func (p *Prototype) String() string {
	if p.Inherited == nil {
		return p.Name.String()
	}

	return p.Name.String() + " extends " + p.Inherited.Name.String()
}

// layers returns the attribute layers for ev, lowest first: the inherited
// layers, the own attributes, then the matching extensions by ascending
// specificity.
func (p *Prototype) layers(ev EvaluationPath) ([]map[string]resolve.Descendant, error) {
	var out []map[string]resolve.Descendant

	if p.Inherited != nil {
		inherited, err := p.Inherited.layers(ev)
		if err != nil {
			return nil, err
		}

		out = inherited
	}

	out = append(out, p.Own)

	matching, err := p.matchingExtensions(ev)
	if err != nil {
		return nil, err
	}

	for _, ext := range matching {
		out = append(out, ext.Attributes)
	}

	return out, nil
}

func (p *Prototype) matchingExtensions(ev EvaluationPath) ([]*Extension, error) {
	var matching []*Extension

	for _, ext := range p.Extensions {
		if ext.Scope.IsInScope(ev, p.store.chainOf) {
			matching = append(matching, ext)
		}
	}

	if common.IsMultiple(matching) {
		if err := p.store.sortBySpecificity(matching); err != nil {
			return nil, fmt.Errorf("prototype %s at %s: %w", p.Name, ev, err)
		}
	}

	return matching, nil
}

// overlay applies layer on top of view. An erased key removes the key and
// everything below it from view.
func overlay(view, layer map[string]resolve.Descendant) {
	for _, d := range layer {
		if d.State != resolve.StateErased {
			continue
		}

		for k, v := range view {
			if v.Path.HasPrefix(d.Path) {
				delete(view, k)
			}
		}
	}

	for k, d := range layer {
		if d.State != resolve.StateErased {
			view[k] = d
		}
	}
}

// Describe renders a view one attribute per line, ordered by key.
func Describe(view map[string]resolve.Descendant) string {
	var b strings.Builder

	for _, d := range resolve.Sorted(view) {
		fmt.Fprintf(&b, "%s = %s\n", d.Path, d.Result)
	}

	return b.String()
}
