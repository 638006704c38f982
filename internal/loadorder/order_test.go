package loadorder

import (
	"errors"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/decl"
)

// declAt returns the first declaration at path p declared in resource r.
func declAt(t *testing.T, set *decl.Set, r, p string) *decl.Declaration {
	t.Helper()

	for _, d := range set.Declarations {
		if d.File.Resource == r && d.Path.String() == p {
			return d
		}
	}

	t.Fatalf("no declaration %s in %s", p, r)

	return nil
}

func mustOrder(t *testing.T, set *decl.Set, cfg Config) *Order {
	t.Helper()

	o, err := New(set, cfg)
	require.NoError(t, err)

	return o
}

func TestPackageOrderLaterWins(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Neos.Fusion", "Root.fusion").Assign("a", decl.Number(1))
	b.File("Acme.Site", "Root.fusion").Assign("a", decl.Number(2))
	set := b.MustSet()

	o := mustOrder(t, set, Config{PackageOrder: []string{"Neos.Fusion", "Acme.Site"}})

	base := set.Declarations[0]
	site := set.Declarations[1]

	r, err := o.Compare(site, base)
	require.NoError(t, err)
	assert.Negative(t, r)

	r, err = o.Compare(base, site)
	require.NoError(t, err)
	assert.Positive(t, r)
}

func TestNewRejectsMissingPackage(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Acme.Site", "Root.fusion").Assign("a", decl.Number(1))

	_, err := New(b.MustSet(), Config{PackageOrder: []string{"Neos.Fusion"}})
	require.ErrorIs(t, err, ErrUnknownPackage)

	_, err = New(b.MustSet(), Config{})
	require.ErrorIs(t, err, ErrEmptyPackageOrder)
}

func TestPackageOrderCompareUnknownPackage(t *testing.T) {
	p, err := NewPackageOrder([]string{"A"})
	require.NoError(t, err)

	known := &decl.Declaration{File: decl.SourceFile{Package: "A", Resource: "x"}}
	unknown := &decl.Declaration{File: decl.SourceFile{Package: "B", Resource: "x"}}

	_, err = p.Compare(known, unknown)
	require.ErrorIs(t, err, ErrUnknownPackage)
}

func TestInFileOrder(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "Root.fusion").Assign("a", decl.Number(1)).Assign("a", decl.Number(2))
	set := b.MustSet()

	o := mustOrder(t, set, Config{PackageOrder: []string{"P"}})

	items := append([]*decl.Declaration(nil), set.Declarations...)
	require.NoError(t, Sort(o, items))
	assert.Equal(t, 1, items[0].CodeIndex)
}

func TestLaterIncludeWins(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "root.fusion").Include("a.fusion").Include("b.fusion")
	b.File("P", "a.fusion").Assign("x", decl.String("a"))
	b.File("P", "b.fusion").Assign("x", decl.String("b"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "root.fusion"},
	})

	items := append([]*decl.Declaration(nil), set.Declarations...)
	require.NoError(t, Sort(o, items))
	assert.Equal(t, "b.fusion", items[0].File.Resource)

	assert.Equal(t, []string{"root.fusion", "b.fusion"}, o.IncludeChain(items[0].File))
}

func TestIncludingFileAroundIncludeDirective(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "root.fusion").
		Assign("before", decl.String("root")).
		Include("a.fusion").
		Assign("after", decl.String("root"))
	b.File("P", "a.fusion").
		Assign("before", decl.String("a")).
		Assign("after", decl.String("a"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "root.fusion"},
	})

	r, err := o.Compare(declAt(t, set, "a.fusion", "before"), declAt(t, set, "root.fusion", "before"))
	require.NoError(t, err)
	assert.Negative(t, r, "included file overrides what was declared before the include")

	r, err = o.Compare(declAt(t, set, "root.fusion", "after"), declAt(t, set, "a.fusion", "after"))
	require.NoError(t, err)
	assert.Negative(t, r, "declarations after the include override the included file")
}

func TestMostOverridingIncluderDefinesChain(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "root.fusion").Include("shared.fusion").Include("late.fusion")
	b.File("P", "late.fusion").Assign("x", decl.String("late")).Include("shared.fusion")
	b.File("P", "shared.fusion").Assign("x", decl.String("shared"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "root.fusion"},
	})

	shared := decl.SourceFile{Package: "P", Resource: "shared.fusion"}
	assert.Equal(t, []string{"root.fusion", "late.fusion", "shared.fusion"}, o.IncludeChain(shared))

	r, err := o.Compare(declAt(t, set, "shared.fusion", "x"), declAt(t, set, "late.fusion", "x"))
	require.NoError(t, err)
	assert.Negative(t, r)
}

func TestGlobIncludeFallsBackToReverseFilename(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "Root.fusion").Include("Components/**/*.fusion")
	b.File("P", "Components/Button.fusion").Assign("x", decl.String("button"))
	b.File("P", "Components/Nested/Card.fusion").Assign("x", decl.String("card"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "Root.fusion"},
	})

	assert.True(t, o.Reachable(decl.SourceFile{Package: "P", Resource: "Components/Nested/Card.fusion"}))

	items := append([]*decl.Declaration(nil), set.Declarations...)
	require.NoError(t, Sort(o, items))
	assert.Equal(t, "Components/Nested/Card.fusion", items[0].File.Resource)
}

func TestUnreachableFilesLose(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "Root.fusion").Assign("x", decl.String("root"))
	b.File("P", "Zzz.fusion").Assign("x", decl.String("orphan"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "Root.fusion"},
	})

	orphan := decl.SourceFile{Package: "P", Resource: "Zzz.fusion"}
	assert.False(t, o.Reachable(orphan))
	assert.Empty(t, o.IncludeChain(orphan))

	r, err := o.Compare(declAt(t, set, "Root.fusion", "x"), declAt(t, set, "Zzz.fusion", "x"))
	require.NoError(t, err)
	assert.Negative(t, r)
}

func TestPackageWithoutEntrypointUsesFilenameFallback(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "a.fusion").Assign("x", decl.String("a"))
	b.File("P", "b.fusion").Assign("x", decl.String("b"))
	set := b.MustSet()

	o := mustOrder(t, set, Config{PackageOrder: []string{"P"}})

	r, err := o.Compare(declAt(t, set, "b.fusion", "x"), declAt(t, set, "a.fusion", "x"))
	require.NoError(t, err)
	assert.Negative(t, r)
}

func TestIncludeErrors(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *decl.Builder)
		reason string
		files  []string
	}{
		{
			name: "self inclusion",
			build: func(b *decl.Builder) {
				b.File("P", "Root.fusion").Include("*.fusion")
			},
			reason: "file includes itself",
			files:  []string{"Root.fusion", "Root.fusion"},
		},
		{
			name: "entrypoint included",
			build: func(b *decl.Builder) {
				b.File("P", "Root.fusion").Include("a.fusion")
				b.File("P", "a.fusion").Include("Root.fusion")
			},
			reason: "entrypoint is included by another file",
			files:  []string{"a.fusion", "Root.fusion"},
		},
		{
			name: "cycle",
			build: func(b *decl.Builder) {
				b.File("P", "Root.fusion").Include("a.fusion")
				b.File("P", "a.fusion").Include("b.fusion")
				b.File("P", "b.fusion").Include("a.fusion")
			},
			reason: "include cycle",
			files:  []string{"a.fusion", "b.fusion", "a.fusion"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := decl.NewBuilder()
			tt.build(b)

			_, err := New(b.MustSet(), Config{
				PackageOrder: []string{"P"},
				Entrypoints:  map[string]string{"P": "Root.fusion"},
			})
			require.ErrorIs(t, err, ErrIncludeCycle)

			var cycle *IncludeCycleError
			require.True(t, errors.As(err, &cycle))
			assert.Equal(t, tt.reason, cycle.Reason)
			assert.Equal(t, tt.files, cycle.Files)
			assert.Equal(t, "P", cycle.Package)
		})
	}
}

func TestMissingEntrypointFile(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "a.fusion")

	_, err := New(b.MustSet(), Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "Root.fusion"},
	})
	require.Error(t, err)
}

func TestOrderIsStrictAndTotal(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "root.fusion").Assign("x", decl.Number(0)).Include("a.fusion").Include("dir/*.fusion").Assign("x", decl.Number(1))
	b.File("P", "a.fusion").Assign("x", decl.Number(2)).Assign("x", decl.Number(3))
	b.File("P", "dir/b.fusion").Assign("x", decl.Number(4))
	b.File("P", "dir/c.fusion").Assign("x", decl.Number(5))
	b.File("Q", "root.fusion").Assign("x", decl.Number(6))
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"P", "Q"},
		Entrypoints:  map[string]string{"P": "root.fusion", "Q": "root.fusion"},
	})

	items := set.Declarations
	for _, a := range items {
		r, err := o.Compare(a, a)
		require.NoError(t, err)
		assert.Zero(t, r)

		for _, c := range items {
			if a == c {
				continue
			}

			ab, err := o.Compare(a, c)
			require.NoError(t, err)
			ba, err := o.Compare(c, a)
			require.NoError(t, err)

			assert.True(t, (ab < 0) != (ba < 0), "%s vs %s", a.Value, c.Value)
			assert.NotZero(t, ab)
		}
	}

	sorted := append([]*decl.Declaration(nil), items...)
	require.NoError(t, Sort(o, sorted))

	var got []string
	for _, d := range sorted {
		got = append(got, d.Value.String())
	}

	assert.Equal(t, []string{"6", "1", "5", "4", "3", "2", "0"}, got)
}

func TestFilesInLoadSequence(t *testing.T) {
	b := decl.NewBuilder()
	b.File("Base", "Root.fusion")
	b.File("Site", "Root.fusion").Include("a.fusion").Include("b.fusion")
	b.File("Site", "a.fusion")
	b.File("Site", "b.fusion")
	set := b.MustSet()

	o := mustOrder(t, set, Config{
		PackageOrder: []string{"Base", "Site"},
		Entrypoints:  map[string]string{"Site": "Root.fusion"},
	})

	files, err := o.Files(set)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.String())
	}

	assert.Equal(t, []string{"Base/Root.fusion", "Site/Root.fusion", "Site/a.fusion", "Site/b.fusion"}, names)
}

func TestWinner(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "Root.fusion").Assign("a", decl.Number(1)).Assign("a", decl.Number(2)).Assign("a", decl.Number(3))
	set := b.MustSet()

	o := mustOrder(t, set, Config{PackageOrder: []string{"P"}})

	w, ok, err := Winner(o, set.Declarations)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, w.CodeIndex)

	_, ok, err = Winner[*decl.Declaration](o, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"a.fusion", "a.fusion", true},
		{"*.fusion", "a.fusion", true},
		{"*.fusion", "dir/a.fusion", false},
		{"**/*.fusion", "a.fusion", true},
		{"**/*.fusion", "dir/sub/a.fusion", true},
		{"dir/**", "dir/sub/a.fusion", true},
		{"dir/**/a.fusion", "dir/a.fusion", true},
		{"dir/**/a.fusion", "other/a.fusion", false},
		{"{a,b}.fusion", "b.fusion", true},
		{"dir/?.fusion", "dir/a.fusion", true},
		{"dir/[!a].fusion", "dir/a.fusion", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.name, func(t *testing.T) {
			matched, err := matchPattern(tt.pattern, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matched)
		})
	}

	matched, _ := matchPattern("[", "a")
	assert.False(t, matched)
	assert.False(t, doublestar.ValidatePattern("["))
}

func TestMalformedIncludePattern(t *testing.T) {
	b := decl.NewBuilder()
	b.File("P", "Root.fusion").Include("Components/[.fusion")
	b.File("P", "Components/a.fusion")

	_, err := New(b.MustSet(), Config{
		PackageOrder: []string{"P"},
		Entrypoints:  map[string]string{"P": "Root.fusion"},
	})
	require.ErrorIs(t, err, doublestar.ErrBadPattern)
	assert.Contains(t, err.Error(), `include "Components/[.fusion" in Root.fusion`)
}

func TestResolvePattern(t *testing.T) {
	f := decl.SourceFile{Package: "Acme.Site", Resource: "Private/Fusion/Root.fusion"}

	p, ok := resolvePattern(f, "Components/*.fusion")
	require.True(t, ok)
	assert.Equal(t, "Private/Fusion/Components/*.fusion", p)

	p, ok = resolvePattern(f, "/Other/*.fusion")
	require.True(t, ok)
	assert.Equal(t, "Other/*.fusion", p)

	p, ok = resolvePattern(f, "resource://Acme.Site/Private/x.fusion")
	require.True(t, ok)
	assert.Equal(t, "Private/x.fusion", p)

	_, ok = resolvePattern(f, "resource://Neos.Fusion/Private/x.fusion")
	assert.False(t, ok)
}
