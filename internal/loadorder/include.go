package loadorder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/graph"
)

// ErrIncludeCycle is wrapped by every *IncludeCycleError.
var ErrIncludeCycle = errors.New("include cycle")

// IncludeCycleError reports self-inclusion, inclusion of the entrypoint or a
// cycle between files of one package.
type IncludeCycleError struct {
	Package string
	// Files is the offending chain of resources; the first and last entries
	// name the same file for proper cycles.
	Files  []string
	Reason string
}

// Error returns the error string.
func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("%s in package %s: %s", e.Reason, e.Package, strings.Join(e.Files, " -> "))
}

// Unwrap returns ErrIncludeCycle.
func (e *IncludeCycleError) Unwrap() error {
	return ErrIncludeCycle
}

// edge is one "including file -> included file" step of an include chain.
type edge struct {
	include *decl.Include
	target  string
}

type fileChain struct {
	edges     []edge
	reachable bool
}

type includer struct {
	include *decl.Include
	from    string
}

// packageIncludes is the include graph of one package.
type packageIncludes struct {
	name       string
	entrypoint string
	chains     map[string]*fileChain
}

// IncludeOrder compares files of the same package by include chain.
type IncludeOrder struct {
	packages map[string]*packageIncludes
}

// NewIncludeOrder builds the include graph of every package in the set.
// Packages without an entrypoint order their files by the reverse filename
// fallback only.
func NewIncludeOrder(set *decl.Set, entrypoints map[string]string) (*IncludeOrder, error) {
	filesByPackage := make(map[string][]string)
	for _, f := range set.AllFiles() {
		filesByPackage[f.Package] = append(filesByPackage[f.Package], f.Resource)
	}

	includesByFile := make(map[string][]*decl.Include)
	for _, inc := range set.Includes {
		includesByFile[inc.File.Key()] = append(includesByFile[inc.File.Key()], inc)
	}

	order := &IncludeOrder{packages: make(map[string]*packageIncludes, len(filesByPackage))}

	pkgNames := make([]string, 0, len(filesByPackage))
	for name := range filesByPackage {
		pkgNames = append(pkgNames, name)
	}

	sort.Strings(pkgNames)

	for _, name := range pkgNames {
		pkg, err := buildPackageIncludes(name, entrypoints[name], filesByPackage[name], includesByFile)
		if err != nil {
			return nil, err
		}

		order.packages[name] = pkg
	}

	return order, nil
}

func buildPackageIncludes(
	name, entrypoint string,
	resources []string,
	includesByFile map[string][]*decl.Include,
) (*packageIncludes, error) {
	pkg := &packageIncludes{
		name:       name,
		entrypoint: entrypoint,
		chains:     make(map[string]*fileChain, len(resources)),
	}

	if entrypoint == "" {
		for _, r := range resources {
			pkg.chains[r] = &fileChain{reachable: true}
		}

		return pkg, nil
	}

	known := make(map[string]bool, len(resources))
	for _, r := range resources {
		known[r] = true
	}

	if !known[entrypoint] {
		return nil, fmt.Errorf("package %s: entrypoint %q is not a known file", name, entrypoint)
	}

	includers := make(map[string][]includer)
	includes := make(map[string][]string)

	for _, from := range resources {
		file := decl.SourceFile{Package: name, Resource: from}
		for _, inc := range includesByFile[file.Key()] {
			pattern, ok := resolvePattern(file, inc.Pattern)
			if !ok {
				continue
			}

			if !doublestar.ValidatePattern(pattern) {
				return nil, fmt.Errorf("package %s: include %q in %s: %w",
					name, inc.Pattern, from, doublestar.ErrBadPattern)
			}

			for _, target := range resources {
				if matched, _ := matchPattern(pattern, target); !matched {
					continue
				}

				if target == from {
					return nil, &IncludeCycleError{
						Package: name,
						Files:   []string{from, from},
						Reason:  "file includes itself",
					}
				}

				if target == entrypoint {
					return nil, &IncludeCycleError{
						Package: name,
						Files:   []string{from, entrypoint},
						Reason:  "entrypoint is included by another file",
					}
				}

				includers[target] = append(includers[target], includer{include: inc, from: from})
				includes[from] = append(includes[from], target)
			}
		}
	}

	err := graph.DetectCycle(graph.Config[string]{
		Starts: resources,
		Next: func(r string) ([]string, error) {
			return includes[r], nil
		},
	})
	if err != nil {
		var cycle *graph.CycleError[string]
		if errors.As(err, &cycle) {
			return nil, &IncludeCycleError{Package: name, Files: cycle.Path, Reason: "include cycle"}
		}

		return nil, err
	}

	pkg.chains[entrypoint] = &fileChain{reachable: true}

	for _, r := range resources {
		if err := pkg.resolveChain(r, includers); err != nil {
			return nil, err
		}
	}

	return pkg, nil
}

// resolveChain computes the chain of r from its most-overriding includer. The
// graph is acyclic at this point, so the recursion terminates.
func (p *packageIncludes) resolveChain(r string, includers map[string][]includer) error {
	if _, done := p.chains[r]; done {
		return nil
	}

	var (
		best      *includer
		bestChain *fileChain
	)

	for i := range includers[r] {
		cand := &includers[r][i]
		if err := p.resolveChain(cand.from, includers); err != nil {
			return err
		}

		candChain := p.chains[cand.from]
		if !candChain.reachable {
			continue
		}

		if best == nil || compareChains(
			chainPos{edges: candChain.edges, file: cand.from, pos: cand.include.CodeIndex},
			chainPos{edges: bestChain.edges, file: best.from, pos: best.include.CodeIndex},
		) < 0 {
			best = cand
			bestChain = candChain
		}
	}

	if best == nil {
		p.chains[r] = &fileChain{}
		return nil
	}

	edges := make([]edge, 0, len(bestChain.edges)+1)
	edges = append(edges, bestChain.edges...)
	edges = append(edges, edge{include: best.include, target: r})
	p.chains[r] = &fileChain{edges: edges, reachable: true}

	return nil
}

type chainPos struct {
	edges []edge
	file  string
	pos   int
}

// compareChains orders two positions inside one package. Negative means a
// overrides b.
func compareChains(a, b chainPos) int {
	n := min(len(a.edges), len(b.edges))

	for i := range n {
		ea, eb := a.edges[i], b.edges[i]
		if ea.target == eb.target {
			continue
		}

		if ea.include.CodeIndex != eb.include.CodeIndex {
			return eb.include.CodeIndex - ea.include.CodeIndex
		}

		return reverseFilename(ea.target, eb.target)
	}

	switch {
	case len(a.edges) == len(b.edges):
		if a.file == b.file {
			return 0
		}

		return reverseFilename(a.file, b.file)

	case len(a.edges) < len(b.edges):
		if a.pos > b.edges[n].include.CodeIndex {
			return -1
		}

		return 1

	default:
		if b.pos > a.edges[n].include.CodeIndex {
			return 1
		}

		return -1
	}
}

// reverseFilename is the fallback for files the include graph cannot order:
// the greater resource name wins. It reproduces the reference behavior and
// carries no meaning of its own.
func reverseFilename(a, b string) int {
	return strings.Compare(b, a)
}

// Compare implements Comparator. Items of different packages or of the same
// file compare equal.
func (o *IncludeOrder) Compare(a, b Item) (int, error) {
	fa, fb := a.Origin(), b.Origin()
	if fa.Package != fb.Package || fa.Resource == fb.Resource {
		return 0, nil
	}

	pkg, ok := o.packages[fa.Package]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPackage, fa.Package)
	}

	ca, cb := pkg.chain(fa.Resource), pkg.chain(fb.Resource)

	if ca.reachable != cb.reachable {
		if ca.reachable {
			return -1, nil
		}

		return 1, nil
	}

	return compareChains(
		chainPos{edges: ca.edges, file: fa.Resource, pos: a.Position()},
		chainPos{edges: cb.edges, file: fb.Resource, pos: b.Position()},
	), nil
}

func (p *packageIncludes) chain(resource string) *fileChain {
	if c, ok := p.chains[resource]; ok {
		return c
	}

	// Files unknown at build time behave like files no include reaches.
	return &fileChain{reachable: p.entrypoint == ""}
}

// Reachable reports whether the file is loaded from its package entrypoint.
// Every file of a package without an entrypoint is reachable.
func (o *IncludeOrder) Reachable(f decl.SourceFile) bool {
	pkg, ok := o.packages[f.Package]
	if !ok {
		return false
	}

	return pkg.chain(f.Resource).reachable
}

// IncludeChain returns the resources from the entrypoint down to f. It is
// empty for the entrypoint and for unreachable files.
func (o *IncludeOrder) IncludeChain(f decl.SourceFile) []string {
	pkg, ok := o.packages[f.Package]
	if !ok {
		return nil
	}

	c := pkg.chain(f.Resource)
	if len(c.edges) == 0 {
		return nil
	}

	out := make([]string, 0, len(c.edges)+1)
	out = append(out, pkg.entrypoint)

	for _, e := range c.edges {
		out = append(out, e.target)
	}

	return out
}
