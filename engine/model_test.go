package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/diagnostic"
	"fusion-engine/internal/fpath"
	"fusion-engine/internal/position"
	"fusion-engine/internal/prototype"
	"fusion-engine/internal/resolve"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PackageOrder = []string{"Neos.Fusion", "Acme.Site"}

	return cfg
}

func mustBuild(t *testing.T, b *decl.Builder, cfg Config) *Model {
	t.Helper()

	m, err := Build(b.MustSet(), cfg)
	require.NoError(t, err)

	return m
}

func valueAt(t *testing.T, m *Model, path string) string {
	t.Helper()

	res, err := m.ResolveString(path)
	require.NoError(t, err, path)

	return res.String()
}

func TestBuild_LaterPackageWins(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Neos.Fusion", "Root.fusion").
		Assign("page.title", decl.String("base")).
		Assign("page.lang", decl.String("en"))
	b.File("Acme.Site", "Root.fusion").Assign("page.title", decl.String("site"))

	m := mustBuild(t, b, testConfig())

	assert.Equal(t, `"site"`, valueAt(t, m, "page.title"))
	assert.Equal(t, `"en"`, valueAt(t, m, "page.lang"))

	_, err := m.ResolveString("page")
	require.ErrorIs(t, err, resolve.ErrNotFound, "implied ancestors are not declared")

	assert.Equal(t, m.Set().Fingerprint(), m.Fingerprint())
	diags := m.Diagnostics()
	assert.Empty(t, diags.All())
}

func TestBuild_IncludeOrder(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Assign("x", decl.String("root before")).
		Include("a.fusion").
		Include("b.fusion")
	b.File("Acme.Site", "a.fusion").Assign("x", decl.String("a")).Assign("y", decl.String("a"))
	b.File("Acme.Site", "b.fusion").Assign("x", decl.String("b"))

	cfg := testConfig()
	cfg.Entrypoints = map[string]string{"Acme.Site": "Root.fusion"}

	m := mustBuild(t, b, cfg)

	assert.Equal(t, `"b"`, valueAt(t, m, "x"))
	assert.Equal(t, `"a"`, valueAt(t, m, "y"))

	files, err := m.Files()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Resource)
	}

	assert.Equal(t, []string{"Root.fusion", "a.fusion", "b.fusion"}, names)
}

func TestBuild_DropsUnreachableFiles(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").Assign("x", decl.String("root"))
	b.File("Acme.Site", "Orphan.fusion").
		Assign("x", decl.String("orphan")).
		Assign("orphanOnly", decl.Number(1)).
		Prototype("Acme.Site:Orphan", "")

	var logs bytes.Buffer

	cfg := testConfig()
	cfg.Entrypoints = map[string]string{"Acme.Site": "Root.fusion"}
	cfg.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := mustBuild(t, b, cfg)

	assert.Equal(t, `"root"`, valueAt(t, m, "x"))

	_, err := m.ResolveString("orphanOnly")
	require.ErrorIs(t, err, resolve.ErrNotFound)

	_, err = m.Prototype("Acme.Site:Orphan")
	require.ErrorIs(t, err, prototype.ErrUnknownPrototype)

	diags := m.Diagnostics()
	require.Len(t, diags.Warnings, 1, spew.Sdump(diags))
	assert.Equal(t, diagnostic.CodeUnreachableFile, diags.Warnings[0].Code)
	assert.Equal(t, "Acme.Site/Orphan.fusion", diags.Warnings[0].Source)

	assert.Len(t, m.Set().Declarations, 3, "the input set is left untouched")
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "code=unreachable_file")
	assert.Contains(t, logs.String(), `msg="Model built"`)
}

func TestBuild_CyclicCopy(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Assign("a.x", decl.Number(1)).
		Copy("a.b", "a")

	_, err := Build(b.MustSet(), testConfig())
	require.ErrorIs(t, err, resolve.ErrCyclicCopy)

	cfg := testConfig()
	cfg.SkipCopyValidation = true

	m := mustBuild(t, b, cfg)

	_, err = m.ResolveDescendants(fpath.MustAbsolute("a"))
	require.ErrorIs(t, err, resolve.ErrCyclicCopy)

	var cyc *resolve.CyclicCopyError
	require.ErrorAs(t, err, &cyc)
	assert.NotEmpty(t, cyc.Chain)
}

func TestBuild_ZeroConfigValidatesCopies(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").Copy("a.b", "a.b")

	_, err := Build(b.MustSet(), Config{PackageOrder: []string{"Acme.Site"}})
	require.ErrorIs(t, err, resolve.ErrCyclicCopy)
}

func TestBuild_SelfCopy(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").Copy("a", "a")

	_, err := Build(b.MustSet(), testConfig())
	require.ErrorIs(t, err, resolve.ErrCyclicCopy)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("invalid set", func(t *testing.T) {
		b := decl.NewBuilder()
		b.File("Acme.Site", "Root.fusion").Assign("", decl.Number(1))

		_, err := Build(b.MustSet(), testConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid declaration set")
	})

	t.Run("unknown package", func(t *testing.T) {
		b := decl.NewBuilder()
		b.File("Other", "Root.fusion").Assign("a", decl.Number(1))

		_, err := Build(b.MustSet(), testConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load order")
	})
}

func TestBuild_Prototypes(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Neos.Fusion", "Root.fusion").
		Prototype("Neos.Fusion:Template", "").
		Assign("prototype(Neos.Fusion:Template).templatePath", decl.String("default.html"))
	b.File("Acme.Site", "Root.fusion").
		Prototype("Acme.Site:Page", "Neos.Fusion:Template").
		Assign("prototype(Acme.Site:Page).title", decl.String("Page")).
		Assign("page.prototype(Acme.Site:Page).title", decl.String("Home"))

	m := mustBuild(t, b, testConfig())

	assert.Equal(t, []fpath.QualifiedName{
		fpath.ParseQualifiedName("Acme.Site:Page"),
		fpath.ParseQualifiedName("Neos.Fusion:Template"),
	}, m.Prototypes())

	page, err := m.Prototype("Acme.Site:Page")
	require.NoError(t, err)

	view, err := page.AttributesFor(prototype.MustEvaluationPath("other<Acme.Site:Page>"))
	require.NoError(t, err)
	assert.Equal(t, "templatePath = \"default.html\"\ntitle = \"Page\"\n", prototype.Describe(view), spew.Sdump(view))

	view, err = page.AttributesFor(prototype.MustEvaluationPath("page<Acme.Site:Page>"))
	require.NoError(t, err)
	assert.Equal(t, `"Home"`, view[fpath.MustRelative("title").Key()].String())
}

func TestBuild_InheritanceConflict(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Prototype("Acme.Site:A", "").
		Prototype("Acme.Site:B", "").
		Prototype("Acme.Site:X", "Acme.Site:A").
		Prototype("Acme.Site:X", "Acme.Site:B")

	m := mustBuild(t, b, testConfig())

	diags := m.Diagnostics()
	require.Len(t, diags.Warnings, 1, spew.Sdump(diags))
	assert.Equal(t, diagnostic.CodeMultipleInheritance, diags.Warnings[0].Code)

	x, err := m.Prototype("Acme.Site:X")
	require.NoError(t, err)
	assert.True(t, x.InheritsFrom(fpath.ParseQualifiedName("Acme.Site:B")))

	cfg := testConfig()
	cfg.StrictInheritance = true

	_, err = Build(b.MustSet(), cfg)
	require.ErrorIs(t, err, prototype.ErrInheritanceConflict)
}

func TestModel_OrderedChildren(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Assign("page.a", decl.String("A")).
		Assign("page.a.@position", decl.String("end")).
		Assign("page.b", decl.String("B")).
		Assign("page.b.@position", decl.String("start")).
		Assign("page.c", decl.String("C")).
		Assign("page.d", decl.String("D")).
		Assign("page.d.@position", decl.String("before c")).
		Assign("page.e.inner", decl.String("E")).
		Assign("page.e.@position", decl.Number(10)).
		Assign("page.@if.visible", decl.Bool(true))

	m := mustBuild(t, b, testConfig())

	children, err := m.OrderedChildren(fpath.MustAbsolute("page"))
	require.NoError(t, err)

	var names []string
	for _, c := range children {
		names = append(names, c.Path.String())
	}

	assert.Equal(t, []string{"b", "e", "d", "c", "a"}, names, spew.Sdump(children))
	assert.Equal(t, resolve.StateValue, children[0].State)
	assert.Equal(t, resolve.StateVirtual, children[1].State)
}

func TestModel_OrderedChildrenErrors(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Assign("list.a", decl.String("A")).
		Assign("list.a.@position", decl.String("after missing")).
		Assign("flags.a", decl.String("A")).
		Assign("flags.a.@position", decl.Bool(true))

	m := mustBuild(t, b, testConfig())

	_, err := m.OrderedChildren(fpath.MustAbsolute("list"))
	require.ErrorIs(t, err, position.ErrUnknownReference)

	_, err = m.OrderedChildren(fpath.MustAbsolute("flags"))
	require.ErrorIs(t, err, position.ErrInvalidPosition)
}

func TestModel_Sort(t *testing.T) {
	m := mustBuild(t, decl.NewBuilder(), testConfig())

	got, err := m.Sort([]string{"x", "y", "z", "w"}, map[string]string{"x": "start", "y": "end", "w": "before z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "w", "z", "y"}, got)
}

func TestModel_Logger(t *testing.T) {
	var logs bytes.Buffer

	m := mustBuild(t, decl.NewBuilder(), testConfig())
	m.Logger(slog.New(slog.NewTextHandler(&logs, nil))).Info("hello")

	assert.Contains(t, logs.String(), "fingerprint="+m.Fingerprint()[:12])
}
