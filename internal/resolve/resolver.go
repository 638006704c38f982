package resolve

import (
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/loadorder"
	"fusion-engine/internal/match"
	"fusion-engine/internal/pathindex"
)

// DefaultMaxDepth bounds nested copy redirection.
const DefaultMaxDepth = 64

// Config configures a Resolver.
type Config struct {
	// MaxDepth is the maximum number of nested resolutions a single query may
	// open through copies. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Resolver answers path queries over one path index.
type Resolver struct {
	index    *pathindex.Index
	maxDepth int

	results     sync.Map // path key -> outcome
	descendants sync.Map // path key -> descendantsOutcome
	flights     singleflight.Group
}

type outcome struct {
	result Result
	err    error
}

// New creates a resolver over index.
func New(index *pathindex.Index, cfg Config) *Resolver {
	depth := cfg.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	return &Resolver{index: index, maxDepth: depth}
}

// Index returns the underlying path index.
func (r *Resolver) Index() *pathindex.Index {
	return r.index
}

// Resolve returns the effective value at p. Undeclared paths yield a
// *NotFoundError.
func (r *Resolver) Resolve(p fpath.AbsolutePath) (Result, error) {
	key := p.Key()
	if o, ok := r.results.Load(key); ok {
		out := o.(outcome)
		return out.result, out.err
	}

	v, _, _ := r.flights.Do("r"+key, func() (any, error) {
		res, err := r.resolve(p, nil)

		out := outcome{result: res, err: err}
		if err == nil || errors.Is(err, ErrNotFound) {
			r.results.Store(key, out)
		}

		return out, nil
	})

	out := v.(outcome)

	return out.result, out.err
}

// candidate is a declaration competing for a path. derived is set for copies
// on ancestors whose redirected target resolved.
type candidate struct {
	d       *decl.Declaration
	derived *Result
}

func (c candidate) Origin() decl.SourceFile { return c.d.Origin() }

func (c candidate) Position() int { return c.d.Position() }

// trail is the stack of paths currently being resolved by one query.
type trail []fpath.AbsolutePath

func (r *Resolver) enter(t trail, p fpath.AbsolutePath, via *decl.Declaration) (trail, error) {
	for i, q := range t {
		if q.Equal(p) {
			chain := append(append([]fpath.AbsolutePath(nil), t[i:]...), p)
			return nil, &CyclicCopyError{Chain: chain, Decl: via}
		}
	}

	if len(t) >= r.maxDepth {
		chain := append(append([]fpath.AbsolutePath(nil), t...), p)
		return nil, &CyclicCopyError{Chain: chain, Depth: r.maxDepth, Decl: via}
	}

	return append(t[:len(t):len(t)], p), nil
}

// resolve computes p without waiting on other flights. Successful results are
// cached; they do not depend on the trail.
func (r *Resolver) resolve(p fpath.AbsolutePath, t trail) (Result, error) {
	return r.resolveVia(p, t, nil)
}

func (r *Resolver) resolveVia(p fpath.AbsolutePath, t trail, via *decl.Declaration) (Result, error) {
	key := p.Key()
	if o, ok := r.results.Load(key); ok {
		out := o.(outcome)
		return out.result, out.err
	}

	t, err := r.enter(t, p, via)
	if err != nil {
		return Result{}, err
	}

	cands, err := r.candidates(p, t)
	if err != nil {
		return Result{}, err
	}

	if len(cands) == 0 {
		return Result{}, &NotFoundError{Path: p, Suggestions: r.suggest(p)}
	}

	if err := loadorder.Sort(r.index.Order(), cands); err != nil {
		return Result{}, err
	}

	res, err := r.decide(cands, t)
	if err != nil {
		return Result{}, err
	}

	r.results.Store(key, outcome{result: res})

	return res, nil
}

// candidates gathers the declarations competing for p.
func (r *Resolver) candidates(p fpath.AbsolutePath, t trail) ([]candidate, error) {
	var cands []candidate

	if e, ok := r.index.Entry(p); ok {
		for _, d := range []*decl.Declaration{e.EffectiveAssignment(), e.EffectiveErasure(), e.EffectiveCopy()} {
			if d != nil {
				cands = append(cands, candidate{d: d})
			}
		}

		for _, d := range e.Configurations {
			cands = append(cands, candidate{d: d})
		}
	}

	for _, anc := range p.Ancestors() {
		for _, d := range r.index.ErasuresAt(anc) {
			cands = append(cands, candidate{d: d})
		}

		for _, c := range r.index.CopiesAt(anc) {
			tail, _ := p.Relativize(anc)
			target := c.Target.Resolve(c.Path).Append(tail)

			res, err := r.resolveVia(target, t, c)
			if errors.Is(err, ErrNotFound) {
				continue
			}

			if err != nil {
				return nil, err
			}

			if res.State != StateValue && res.State != StateUntyped {
				continue
			}

			derived := res.via(c)
			cands = append(cands, candidate{d: c, derived: &derived})
		}
	}

	return cands, nil
}

// decide applies the erasure cutoff and picks the winning candidate. cands
// must be sorted most-overriding first.
func (r *Resolver) decide(cands []candidate, t trail) (Result, error) {
	cut := len(cands)

	for i, c := range cands {
		if c.derived == nil && c.d.Kind == decl.KindErasure {
			cut = i
			break
		}
	}

	live := cands[:cut]
	if len(live) == 0 {
		return Result{State: StateErased, Decl: cands[cut].d}, nil
	}

	for i, c := range live {
		if c.derived != nil {
			return *c.derived, nil
		}

		switch c.d.Kind {
		case decl.KindConfiguration:
			continue
		case decl.KindAssignment:
			return Result{State: StateValue, Value: c.d.Value, Decl: c.d}, nil
		case decl.KindCopy:
			if i > 0 {
				// a configuration at the path overrides its own copy
				return Result{State: StateUntyped, Decl: live[0].d}, nil
			}

			return r.follow(c.d, t)
		}
	}

	return Result{State: StateUntyped, Decl: live[0].d}, nil
}

// follow resolves the target of a copy declared at the path being resolved.
// A target that does not exist or is erased leaves the path untyped.
func (r *Resolver) follow(c *decl.Declaration, t trail) (Result, error) {
	target := c.Target.Resolve(c.Path)

	res, err := r.resolveVia(target, t, c)
	if errors.Is(err, ErrNotFound) {
		return Result{State: StateUntyped, Decl: c}, nil
	}

	if err != nil {
		return Result{}, err
	}

	if res.State == StateErased {
		return Result{State: StateUntyped, Decl: c}, nil
	}

	return res.via(c), nil
}

// suggest lists known siblings close to the first unknown segment of p.
func (r *Resolver) suggest(p fpath.AbsolutePath) []string {
	known := p
	for !known.IsRoot() && !r.index.Known(known) {
		known = known.Parent()
	}

	if known.Len() == p.Len() {
		return nil
	}

	missing := p.Segment(known.Len())
	children := r.index.Children(known)

	names := make([]string, len(children))
	byName := make(map[string]fpath.AbsolutePath, len(children))

	for i, c := range children {
		last, _ := c.Last()
		names[i] = last.Key()
		byName[names[i]] = c
	}

	best := match.Suggest(missing.Key(), names, match.DefaultSuggestionLimit)

	out := make([]string, len(best))
	for i, n := range best {
		out[i] = byName[n].String()
	}

	return out
}
