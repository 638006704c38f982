package prototype

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/diagnostic"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/graph"
	"fusion-engine/internal/loadorder"
	"fusion-engine/internal/match"
	"fusion-engine/internal/resolve"
)

// Config configures the store build.
type Config struct {
	// Strict turns conflicting inheritance declarations into an error
	// instead of a warning.
	Strict bool
}

// Store holds every prototype of one declaration set. It is immutable and
// safe for concurrent use.
type Store struct {
	prototypes map[fpath.QualifiedName]*Prototype
	names      []fpath.QualifiedName
	chains     map[fpath.QualifiedName][]fpath.QualifiedName
	order      *loadorder.Order
}

type draft struct {
	name       fpath.QualifiedName
	decls      []*decl.PrototypeDeclaration
	parent     *fpath.QualifiedName
	implicit   bool
	own        map[string]resolve.Descendant
	extensions []*Extension
}

type builder struct {
	set    *decl.Set
	r      *resolve.Resolver
	order  *loadorder.Order
	cfg    Config
	diags  *diagnostic.Diagnostics
	drafts map[fpath.QualifiedName]*draft
	store  *Store
}

// Build links the prototypes of set. Non-fatal findings are added to diags,
// which may be nil.
func Build(set *decl.Set, r *resolve.Resolver, cfg Config, diags *diagnostic.Diagnostics) (*Store, error) {
	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	b := &builder{
		set:    set,
		r:      r,
		order:  r.Index().Order(),
		cfg:    cfg,
		diags:  diags,
		drafts: make(map[fpath.QualifiedName]*draft),
	}

	b.store = &Store{
		prototypes: make(map[fpath.QualifiedName]*Prototype),
		chains:     make(map[fpath.QualifiedName][]fpath.QualifiedName),
		order:      b.order,
	}

	if err := b.collect(); err != nil {
		return nil, err
	}

	if err := b.computeChains(); err != nil {
		return nil, err
	}

	if err := b.collectExtensions(); err != nil {
		return nil, err
	}

	if err := b.link(); err != nil {
		return nil, err
	}

	return b.store, nil
}

func (b *builder) draft(name fpath.QualifiedName) *draft {
	if d, ok := b.drafts[name]; ok {
		return d
	}

	d := &draft{name: name, implicit: true}
	b.drafts[name] = d

	return d
}

// suggest attaches declared prototype names close to an implicit one to the
// latest info diagnostic.
func (b *builder) suggest(name fpath.QualifiedName) {
	var declared []string

	for n, d := range b.drafts {
		if !d.implicit && n != name {
			declared = append(declared, n.String())
		}
	}

	sort.Strings(declared)

	if s := match.Suggest(name.String(), declared, match.DefaultSuggestionLimit); len(s) > 0 {
		b.diags.Suggest(diagnostic.DiagnosticInfo, s...)
	}
}

func (b *builder) sortedNames() []fpath.QualifiedName {
	names := make([]fpath.QualifiedName, 0, len(b.drafts))
	for n := range b.drafts {
		names = append(names, n)
	}

	sortNames(names)

	return names
}

// collect builds one draft per declared prototype with its own attributes
// and inherited name.
func (b *builder) collect() error {
	for _, pd := range b.set.Prototypes {
		d := b.draft(pd.Name)
		d.implicit = false
		d.decls = append(d.decls, pd)
	}

	for _, dc := range b.set.Declarations {
		if dc.Path.Len() == 0 {
			continue
		}

		if name, ok := dc.Path.Segment(0).PrototypeName(); ok {
			b.draft(name).implicit = false
		}
	}

	for _, name := range b.sortedNames() {
		d := b.drafts[name]

		if err := loadorder.Sort(b.order, d.decls); err != nil {
			return fmt.Errorf("prototype %s: %w", name, err)
		}

		if err := b.inherit(d); err != nil {
			return err
		}

		if err := b.resolveOwn(d); err != nil {
			return err
		}
	}

	// parents that are referenced but never declared
	for _, name := range b.sortedNames() {
		parent := b.drafts[name].parent
		if parent == nil {
			continue
		}

		if _, ok := b.drafts[*parent]; ok {
			continue
		}

		p := b.draft(*parent)
		b.diags.AddInfo(diagnostic.CodeImplicitPrototype,
			fmt.Sprintf("prototype %s is inherited by %s but never declared", parent, name),
			parent.String(), "")
		b.suggest(*parent)

		if err := b.resolveOwn(p); err != nil {
			return err
		}
	}

	return nil
}

// inherit picks the parent from the most-overriding declaration naming one.
func (b *builder) inherit(d *draft) error {
	var naming []*decl.PrototypeDeclaration

	for _, pd := range d.decls {
		if pd.Inherits != nil {
			naming = append(naming, pd)
		}
	}

	if len(naming) == 0 {
		return nil
	}

	d.parent = naming[0].Inherits

	distinct := slices.ContainsFunc(naming[1:], func(pd *decl.PrototypeDeclaration) bool {
		return *pd.Inherits != *d.parent
	})
	if !distinct {
		return nil
	}

	conflict := &InheritanceConflictError{Name: d.name, Declarations: naming}
	if b.cfg.Strict {
		return conflict
	}

	b.diags.AddWarning(diagnostic.CodeMultipleInheritance,
		fmt.Sprintf("%s; using %s", conflict.Error(), d.parent),
		d.name.String(), naming[0].Source.String())

	return nil
}

func (b *builder) resolveOwn(d *draft) error {
	own, err := b.r.ResolveDescendants(decl.PrototypePath(d.name))
	if err != nil {
		return fmt.Errorf("prototype %s: %w", d.name, err)
	}

	d.own = own

	return nil
}

// computeChains rejects inheritance cycles and records every chain.
func (b *builder) computeChains() error {
	names := b.sortedNames()

	err := graph.DetectCycle(graph.Config[fpath.QualifiedName]{
		Starts: names,
		Next: func(n fpath.QualifiedName) ([]fpath.QualifiedName, error) {
			if d, ok := b.drafts[n]; ok && d.parent != nil {
				return []fpath.QualifiedName{*d.parent}, nil
			}

			return nil, nil
		},
	})

	var cyc *graph.CycleError[fpath.QualifiedName]
	if errors.As(err, &cyc) {
		return &InheritanceCycleError{Cycle: cyc.Path}
	}

	if err != nil {
		return err
	}

	for _, n := range names {
		var chain []fpath.QualifiedName

		for cur := n; ; {
			chain = append(chain, cur)

			d := b.drafts[cur]
			if d == nil || d.parent == nil {
				break
			}

			cur = *d.parent
		}

		b.store.chains[n] = chain
	}

	return nil
}

type scopeGroup struct {
	name  fpath.QualifiedName
	scope fpath.AbsolutePath
	decls []*decl.Declaration
}

// collectExtensions groups every non-root prototype(Name) occurrence by name
// and scope path.
func (b *builder) collectExtensions() error {
	groups := make(map[string]*scopeGroup)

	for _, dc := range b.set.Declarations {
		p := dc.Path

		for i := p.IndexOfPrototypeCall(1); i >= 0; i = p.IndexOfPrototypeCall(i + 1) {
			name, _ := p.Segment(i).PrototypeName()
			scope := p.Head(i)
			key := name.String() + "\x00" + scope.Key()

			g, ok := groups[key]
			if !ok {
				g = &scopeGroup{name: name, scope: scope}
				groups[key] = g
			}

			g.decls = append(g.decls, dc)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		g := groups[k]

		winner, _, err := loadorder.Winner(b.order, g.decls)
		if err != nil {
			return fmt.Errorf("extension %s of %s: %w", g.scope, g.name, err)
		}

		attrs, err := b.r.ResolveDescendants(g.scope.Child(fpath.PrototypeCall(g.name)))
		if err != nil {
			return fmt.Errorf("extension %s of %s: %w", g.scope, g.name, err)
		}

		if _, known := b.drafts[g.name]; !known {
			b.diags.AddInfo(diagnostic.CodeImplicitPrototype,
				fmt.Sprintf("prototype %s is only extended under %s", g.name, g.scope),
				g.name.String(), winner.Source.String())
			b.suggest(g.name)

			d := b.draft(g.name)
			if err := b.resolveOwn(d); err != nil {
				return err
			}

			b.store.chains[g.name] = []fpath.QualifiedName{g.name}
		}

		d := b.drafts[g.name]
		d.extensions = append(d.extensions, &Extension{
			Scope:      NewExtensionScope(g.scope, b.store.chainOf),
			Attributes: attrs,
			Decl:       winner,
		})
	}

	return nil
}

// link finalizes drafts whose parent is final until none are left.
func (b *builder) link() error {
	remaining := b.sortedNames()

	for len(remaining) > 0 {
		var pending []fpath.QualifiedName

		for _, n := range remaining {
			d := b.drafts[n]

			var parent *Prototype

			if d.parent != nil {
				p, ok := b.store.prototypes[*d.parent]
				if !ok {
					pending = append(pending, n)
					continue
				}

				parent = p
			}

			b.store.prototypes[n] = &Prototype{
				Name:         n,
				Declarations: d.decls,
				Inherited:    parent,
				Implicit:     d.implicit,
				Own:          d.own,
				Extensions:   d.extensions,
				store:        b.store,
			}
		}

		if len(pending) == len(remaining) {
			return &InheritanceCycleError{Cycle: pending}
		}

		remaining = pending
	}

	b.store.names = b.sortedNames()

	return nil
}

func sortNames(names []fpath.QualifiedName) {
	sort.Slice(names, func(i, j int) bool {
		return names[i].String() < names[j].String()
	})
}

// Get returns the prototype called name.
func (s *Store) Get(name fpath.QualifiedName) (*Prototype, error) {
	if p, ok := s.prototypes[name]; ok {
		return p, nil
	}

	known := make([]string, len(s.names))
	for i, n := range s.names {
		known[i] = n.String()
	}

	return nil, &UnknownPrototypeError{
		Name:        name,
		Suggestions: match.Suggest(name.String(), known, match.DefaultSuggestionLimit),
	}
}

// Names returns every prototype name, sorted.
func (s *Store) Names() []fpath.QualifiedName {
	return append([]fpath.QualifiedName(nil), s.names...)
}

// Len returns the number of prototypes.
func (s *Store) Len() int {
	return len(s.names)
}

// Chain returns name followed by its ancestors.
func (s *Store) Chain(name fpath.QualifiedName) ([]fpath.QualifiedName, error) {
	if _, err := s.Get(name); err != nil {
		return nil, err
	}

	return append([]fpath.QualifiedName(nil), s.chains[name]...), nil
}

func (s *Store) chainOf(name fpath.QualifiedName) []fpath.QualifiedName {
	if c, ok := s.chains[name]; ok {
		return c
	}

	return []fpath.QualifiedName{name}
}

// sortBySpecificity orders matching extensions least specific first.
func (s *Store) sortBySpecificity(exts []*Extension) error {
	var firstErr error

	sort.SliceStable(exts, func(i, j int) bool {
		c, err := s.compareExtensions(exts[i], exts[j])
		if err != nil && firstErr == nil {
			firstErr = err
		}

		return c < 0
	})

	return firstErr
}

// compareExtensions returns a positive number when a is more specific.
func (s *Store) compareExtensions(a, b *Extension) (int, error) {
	if c := compareSpecificity(a.Scope, b.Scope); c != 0 {
		return c, nil
	}

	c, err := s.order.Compare(a.Decl, b.Decl)
	if err != nil {
		return 0, err
	}

	if c == 0 {
		return 0, fmt.Errorf("%w: %s and %s", ErrAmbiguousScope, a.Scope, b.Scope)
	}

	// the scope whose declaration overrides is more specific
	return -c, nil
}
