package resolve

import (
	"errors"
	"maps"

	"fusion-engine/internal/common"
	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

type descendantsOutcome struct {
	view map[string]Descendant
	err  error
}

// ResolveDescendants resolves every path below base that is declared or
// reachable through copies on base, its ancestors, or its descendants. The
// map is keyed by the relative path key. Paths that run through a
// prototype(...) segment below base are left out; erased entries are kept.
func (r *Resolver) ResolveDescendants(base fpath.AbsolutePath) (map[string]Descendant, error) {
	key := base.Key()
	if o, ok := r.descendants.Load(key); ok {
		out := o.(descendantsOutcome)
		return maps.Clone(out.view), out.err
	}

	v, _, _ := r.flights.Do("d"+key, func() (any, error) {
		view, err := r.resolveDescendants(base)

		out := descendantsOutcome{view: view, err: err}
		if err == nil {
			r.descendants.Store(key, out)
		}

		return out, nil
	})

	out := v.(descendantsOutcome)

	return maps.Clone(out.view), out.err
}

// Children folds the descendants of base to its direct children. Children
// that are only implied by deeper declarations get a StateVirtual
// placeholder; erased children are dropped.
func (r *Resolver) Children(base fpath.AbsolutePath) (map[string]Descendant, error) {
	all, err := r.ResolveDescendants(base)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Descendant)
	erased := make(map[string]struct{})

	for k, d := range all {
		if d.Path.Len() != 1 {
			continue
		}

		if d.State == StateErased {
			erased[k] = struct{}{}
			continue
		}

		out[k] = d
	}

	for _, d := range all {
		if d.Path.Len() == 1 || d.State == StateErased {
			continue
		}

		child, _ := fpath.NewRelative(d.Path.First())
		k := child.Key()

		if _, gone := erased[k]; gone {
			continue
		}

		if _, ok := out[k]; !ok {
			out[k] = Descendant{Path: child, Result: Result{State: StateVirtual}}
		}
	}

	return out, nil
}

// Sorted returns the entries of a view ordered by path key.
func Sorted(view map[string]Descendant) []Descendant {
	keys := common.SortedKeys(view)

	out := make([]Descendant, len(keys))
	for i, k := range keys {
		out[i] = view[k]
	}

	return out
}

func (r *Resolver) resolveDescendants(base fpath.AbsolutePath) (map[string]Descendant, error) {
	c := &collector{r: r, base: base, found: make(map[string]fpath.AbsolutePath)}
	if err := c.visit(base, base, nil); err != nil {
		return nil, err
	}

	view := make(map[string]Descendant, len(c.found))

	for _, k := range common.SortedKeys(c.found) {
		p := c.found[k]

		res, err := r.resolve(p, nil)
		if errors.Is(err, ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		rel, _ := p.Relativize(base)
		view[rel.Key()] = Descendant{Path: rel, Result: res}
	}

	return view, nil
}

// collector walks the declared tree below a source path and mirrors it at a
// destination path, following copies.
type collector struct {
	r     *Resolver
	base  fpath.AbsolutePath
	found map[string]fpath.AbsolutePath
	stack []fpath.AbsolutePath
}

func (c *collector) visit(src, dst fpath.AbsolutePath, via *decl.Declaration) error {
	for i, s := range c.stack {
		if s.Equal(src) {
			chain := append(append([]fpath.AbsolutePath(nil), c.stack[i:]...), src)
			return &CyclicCopyError{Chain: chain, Decl: via}
		}
	}

	if len(c.stack) >= c.r.maxDepth {
		chain := append(append([]fpath.AbsolutePath(nil), c.stack...), src)
		return &CyclicCopyError{Chain: chain, Depth: c.r.maxDepth, Decl: via}
	}

	c.stack = append(c.stack, src)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	idx := c.r.index

	for _, d := range idx.DeclaredDescendants(src) {
		rel, _ := d.Relativize(src)
		at := dst.Append(rel)
		c.add(at)

		for _, cp := range idx.CopiesAt(d) {
			if err := c.visit(cp.Target.Resolve(cp.Path), at, cp); err != nil {
				return err
			}
		}
	}

	scopes := append(src.Ancestors(), src)
	for _, a := range scopes {
		for _, cp := range idx.CopiesAt(a) {
			target := cp.Target.Resolve(cp.Path)
			if tail, ok := src.Relativize(a); ok {
				target = target.Append(tail)
			}

			if err := c.visit(target, dst, cp); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *collector) add(p fpath.AbsolutePath) {
	rel, ok := p.Relativize(c.base)
	if !ok || rel.ContainsPrototypeCall() {
		return
	}

	c.found[p.Key()] = p
}
