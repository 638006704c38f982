package loadorder

import (
	"fmt"

	"fusion-engine/internal/decl"
)

// Config is the externally supplied part of the load order.
type Config struct {
	// PackageOrder lists packages from least to most overriding.
	PackageOrder []string
	// Entrypoints maps a package to the resource its include graph starts at.
	Entrypoints map[string]string
}

// Order is the composed load order of one declaration set. It is immutable
// and safe for concurrent use.
type Order struct {
	packages *PackageOrder
	includes *IncludeOrder
	chain    Chain
}

// New builds the load order for set. Every package referenced by the set must
// appear in cfg.PackageOrder.
func New(set *decl.Set, cfg Config) (*Order, error) {
	packages, err := NewPackageOrder(cfg.PackageOrder)
	if err != nil {
		return nil, err
	}

	for _, pkg := range set.Packages() {
		if !packages.Contains(pkg) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, pkg)
		}
	}

	includes, err := NewIncludeOrder(set, cfg.Entrypoints)
	if err != nil {
		return nil, err
	}

	return &Order{
		packages: packages,
		includes: includes,
		chain:    Chain{packages, includes, InFileOrder{}},
	}, nil
}

// Compare implements Comparator.
func (o *Order) Compare(a, b Item) (int, error) {
	return o.chain.Compare(a, b)
}

// Packages returns the configured package order.
func (o *Order) Packages() []string {
	return o.packages.Names()
}

// Reachable reports whether the file is loaded at all.
func (o *Order) Reachable(f decl.SourceFile) bool {
	return o.includes.Reachable(f)
}

// IncludeChain returns the resources from the entrypoint down to f.
func (o *Order) IncludeChain(f decl.SourceFile) []string {
	return o.includes.IncludeChain(f)
}

// fileHead stands for the start of a file when whole files are ordered.
type fileHead decl.SourceFile

func (f fileHead) Origin() decl.SourceFile { return decl.SourceFile(f) }

func (fileHead) Position() int { return -1 }

// Files returns the files of set in load sequence: least overriding first,
// an including file before the files it includes.
func (o *Order) Files(set *decl.Set) ([]decl.SourceFile, error) {
	files := set.AllFiles()

	heads := make([]fileHead, len(files))
	for i, f := range files {
		heads[i] = fileHead(f)
	}

	if err := Sort(o, heads); err != nil {
		return nil, err
	}

	out := make([]decl.SourceFile, len(heads))
	for i := range heads {
		out[len(heads)-1-i] = decl.SourceFile(heads[i])
	}

	return out, nil
}
