package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/diagnostic"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/loadorder"
	"fusion-engine/internal/pathindex"
	"fusion-engine/internal/position"
	"fusion-engine/internal/prototype"
	"fusion-engine/internal/resolve"
)

// Model is the resolved view of one declaration set.
type Model struct {
	set         *decl.Set
	loaded      *decl.Set
	order       *loadorder.Order
	resolver    *resolve.Resolver
	prototypes  *prototype.Store
	diagnostics diagnostic.Diagnostics
	fingerprint string
}

// Build validates set and links it into a model. Declarations of files that
// no include reaches are dropped with a warning.
func Build(set *decl.Set, cfg Config) (*Model, error) {
	log := cfg.logger()
	start := time.Now()

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid declaration set: %w", err)
	}

	m := &Model{set: set, fingerprint: set.Fingerprint()}
	log = log.With("fingerprint", shortFingerprint(m.fingerprint))

	order, err := loadorder.New(set, loadorder.Config{
		PackageOrder: cfg.PackageOrder,
		Entrypoints:  cfg.Entrypoints,
	})
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	m.order = order
	m.loaded = m.reachable()

	log.Debug("Load order built",
		"packages", len(order.Packages()),
		"files", len(set.AllFiles()),
		"declarations", len(m.loaded.Declarations),
		"dropped", len(set.Declarations)-len(m.loaded.Declarations))

	index, err := pathindex.New(order, m.loaded.Declarations)
	if err != nil {
		return nil, fmt.Errorf("path index: %w", err)
	}

	m.resolver = resolve.New(index, resolve.Config{MaxDepth: cfg.MaxCopyDepth})

	if !cfg.SkipCopyValidation {
		if err := resolve.ValidateCopies(m.resolver); err != nil {
			return nil, err
		}

		log.Debug("Copies validated", "copies", len(index.Copies()))
	}

	var protoDiags diagnostic.Diagnostics

	m.prototypes, err = prototype.Build(m.loaded, m.resolver, prototype.Config{Strict: cfg.StrictInheritance}, &protoDiags)
	if err != nil {
		return nil, fmt.Errorf("prototypes: %w", err)
	}

	m.diagnostics.Merge(protoDiags)

	log.Debug("Prototypes linked", "prototypes", m.prototypes.Len())

	for _, d := range m.diagnostics.Warnings {
		log.Warn(d.Message, "code", d.Code, "path", d.Path, "source", d.Source)
	}

	log.Debug("Model built", "paths", len(index.Paths()), "elapsed", time.Since(start))

	return m, nil
}

// reachable returns the loaded part of the set and reports dropped files.
func (m *Model) reachable() *decl.Set {
	dropped := make(map[decl.SourceFile]bool)

	for _, f := range m.set.AllFiles() {
		if !m.order.Reachable(f) {
			dropped[f] = true

			m.diagnostics.AddWarning(diagnostic.CodeUnreachableFile,
				"file is not included from its package entrypoint; its declarations are ignored",
				"", f.String())
		}
	}

	if len(dropped) == 0 {
		return m.set
	}

	loaded := &decl.Set{Files: m.set.Files, Includes: m.set.Includes}

	for _, d := range m.set.Declarations {
		if !dropped[d.File] {
			loaded.Declarations = append(loaded.Declarations, d)
		}
	}

	for _, p := range m.set.Prototypes {
		if !dropped[p.File] {
			loaded.Prototypes = append(loaded.Prototypes, p)
		}
	}

	return loaded
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}

	return fp
}

// Resolve returns the effective state of an absolute path.
func (m *Model) Resolve(p fpath.AbsolutePath) (resolve.Result, error) {
	return m.resolver.Resolve(p)
}

// ResolveString parses p and resolves it.
func (m *Model) ResolveString(p string) (resolve.Result, error) {
	abs, err := fpath.ParseAbsolute(p)
	if err != nil {
		return resolve.Result{}, err
	}

	return m.Resolve(abs)
}

// ResolveDescendants returns every descendant of base keyed by relative
// path key.
func (m *Model) ResolveDescendants(base fpath.AbsolutePath) (map[string]resolve.Descendant, error) {
	return m.resolver.ResolveDescendants(base)
}

// Children returns the direct children of base.
func (m *Model) Children(base fpath.AbsolutePath) (map[string]resolve.Descendant, error) {
	return m.resolver.Children(base)
}

// OrderedChildren returns the property children of base ordered by their
// @position meta-properties. Meta-property children are left out.
func (m *Model) OrderedChildren(base fpath.AbsolutePath) ([]resolve.Descendant, error) {
	children, err := m.Children(base)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]resolve.Descendant, len(children))
	names := make([]string, 0, len(children))
	positions := make(map[string]string)

	for _, d := range resolve.Sorted(children) {
		seg := d.Path.First()
		if seg.Kind != fpath.SegmentProperty {
			continue
		}

		byName[seg.Name] = d
		names = append(names, seg.Name)

		directive, err := m.positionOf(base.Child(seg), seg.Name)
		if err != nil {
			return nil, err
		}

		positions[seg.Name] = directive
	}

	sorted, err := position.Sort(names, positions)
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", base, err)
	}

	out := make([]resolve.Descendant, len(sorted))
	for i, name := range sorted {
		out[i] = byName[name]
	}

	return out, nil
}

func (m *Model) positionOf(child fpath.AbsolutePath, name string) (string, error) {
	res, err := m.Resolve(child.Child(fpath.Meta("position")))
	if errors.Is(err, resolve.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	if res.State != resolve.StateValue {
		return "", nil
	}

	switch res.Value.Kind {
	case decl.ValueString:
		return res.Value.Text, nil
	case decl.ValueNumber:
		return res.Value.String(), nil
	default:
		return "", &position.InvalidPositionError{Key: name, Value: res.Value.String()}
	}
}

// Prototype returns a linked prototype by qualified name.
func (m *Model) Prototype(name string) (*prototype.Prototype, error) {
	return m.prototypes.Get(fpath.ParseQualifiedName(name))
}

// Prototypes returns every prototype name in sorted order.
func (m *Model) Prototypes() []fpath.QualifiedName {
	return m.prototypes.Names()
}

// Sort linearizes keys by position directives.
func (m *Model) Sort(keys []string, positions map[string]string) ([]string, error) {
	return position.Sort(keys, positions)
}

// Diagnostics returns the non-fatal findings of the build.
func (m *Model) Diagnostics() diagnostic.Diagnostics {
	return m.diagnostics
}

// Order returns the load order.
func (m *Model) Order() *loadorder.Order {
	return m.order
}

// Files returns every file of the set in load sequence.
func (m *Model) Files() ([]decl.SourceFile, error) {
	return m.order.Files(m.set)
}

// Set returns the declaration set the model was built from.
func (m *Model) Set() *decl.Set {
	return m.set
}

// Fingerprint identifies the declaration set.
func (m *Model) Fingerprint() string {
	return m.fingerprint
}

// Logger returns a logger tagged with the model fingerprint.
func (m *Model) Logger(base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}

	return base.With("fingerprint", shortFingerprint(m.fingerprint))
}
