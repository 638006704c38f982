package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

func declarationsOf(set *decl.Set, file string) []string {
	var out []string

	for _, d := range set.Declarations {
		if d.File.String() == file {
			out = append(out, d.String())
		}
	}

	return out
}

func TestLoadFileYAML(t *testing.T) {
	set, opts, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	assert.Equal(t, []string{"Neos.Fusion", "Acme.Site"}, opts.PackageOrder)
	assert.Equal(t, "Root.fusion", opts.Entrypoints["Acme.Site"])
	assert.False(t, opts.Strict)
	assert.Equal(t, opts.PackageOrder, opts.LoadOrder().PackageOrder)

	assert.Equal(t, []string{
		"page = Acme.Site:Page",
		`page.title = "Hello"`,
		"page.count = 3",
		"page.visible = true",
		"page.body = ${q(node).property('text')}",
		"page.header < .title",
		"page.footer >",
		`prototype(Acme.Site:Page).title = "Default"`,
		"prototype(Acme.Site:Page).prototype(Neos.Fusion:Value) { }",
		`prototype(Acme.Site:Page).prototype(Neos.Fusion:Value).value = "inside page"`,
	}, declarationsOf(set, "Acme.Site/Root.fusion"))

	assert.Equal(t, []string{
		`prototype(Neos.Fusion:Template).templatePath = "resource://Neos.Fusion/Template.html"`,
		"prototype(Neos.Fusion:Value).value = null",
	}, declarationsOf(set, "Neos.Fusion/Root.fusion"))

	require.Len(t, set.Prototypes, 3)
	page := set.Prototypes[2]
	assert.Equal(t, "Acme.Site:Page", page.Name.String())
	require.NotNil(t, page.Inherits)
	assert.Equal(t, "Neos.Fusion:Template", page.Inherits.String())
	assert.Nil(t, set.Prototypes[0].Inherits)

	require.Len(t, set.Includes, 1)
	assert.Equal(t, "Components/*.fusion", set.Includes[0].Pattern)
	assert.Equal(t, 0, set.Includes[0].CodeIndex)
}

func TestLoadCodeIndicesAreDepthFirst(t *testing.T) {
	set, _, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)

	indices := map[string]int{}
	for _, d := range set.Declarations {
		if d.File.Resource == "Root.fusion" && d.File.Package == "Acme.Site" {
			indices[d.Path.String()+"|"+d.Kind.String()] = d.CodeIndex
		}
	}

	// include=0, page=1, title..body=2..5, header=6, footer=7, prototype=8
	assert.Equal(t, 1, indices["page|Assignment"])
	assert.Equal(t, 2, indices["page.title|Assignment"])
	assert.Equal(t, 5, indices["page.body|Assignment"])
	assert.Equal(t, 6, indices["page.header|Copy"])
	assert.Equal(t, 7, indices["page.footer|Erasure"])
	assert.Equal(t, 9, indices["prototype(Acme.Site:Page).title|Assignment"])
	assert.Equal(t, 8, set.Prototypes[2].CodeIndex)
}

func TestLoadLines(t *testing.T) {
	set, _, err := LoadFile("testdata/site.yaml")
	require.NoError(t, err)

	for _, d := range set.Declarations {
		if d.File.Resource == "Components/Card.fusion" {
			assert.Equal(t, 12, d.Source.Line)
			assert.Equal(t, "Acme.Site/Components/Card.fusion:12:1", d.Source.String())

			return
		}
	}

	t.Fatal("card declaration not loaded")
}

func TestLoadFileJSONC(t *testing.T) {
	set, opts, err := LoadFile("testdata/site.jsonc")
	require.NoError(t, err)

	assert.True(t, opts.Strict)
	assert.Equal(t, []string{
		`page.title = "Hello"`,
		"page.subtitle = null",
		"page.count = 2.5",
		"page { }",
		"page.header < page.title",
	}, declarationsOf(set, "Acme.Site/Root.fusion"))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("a.yml"))
	assert.Equal(t, FormatJSONC, FormatOf("a.JSON"))
	assert.Equal(t, FormatJSONC, FormatOf("a.jsonc"))
}

func TestLoadInvalidStatements(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "two actions",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, value: 1, erase: true}]}]",
			want: "more than one action on a",
		},
		{
			name: "no action",
			doc:  "files: [{package: P, resource: a, statements: [{path: a}]}]",
			want: "no action on a",
		},
		{
			name: "path and include",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, include: b}]}]",
			want: "expected exactly one of include, path or prototype",
		},
		{
			name: "erasure with block",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, erase: true, statements: [{path: b, value: 1}]}]}]",
			want: "erasure with a block",
		},
		{
			name: "nested include",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, statements: [{include: '*.fusion'}]}]}]",
			want: "include inside a block",
		},
		{
			name: "nested extends",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, statements: [{prototype: 'X:Y', extends: 'X:Z'}]}]}]",
			want: "extends on a nested prototype",
		},
		{
			name: "non scalar value",
			doc:  "files: [{package: P, resource: a, statements: [{path: a, value: [1, 2]}]}]",
			want: "value must be a scalar",
		},
		{
			name: "missing resource",
			doc:  "files: [{package: P}]",
			want: "missing package or resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.doc), FormatYAML)
			require.NoError(t, err)

			_, _, err = Load(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadInvalidPath(t *testing.T) {
	doc, err := Parse([]byte("files: [{package: P, resource: a, statements: [{path: 'a..b', value: 1}]}]"), FormatYAML)
	require.NoError(t, err)

	_, _, err = Load(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P/a: line 1")
}

func TestStatementValuePresence(t *testing.T) {
	doc, err := Parse([]byte(`{"files":[{"package":"P","resource":"a","statements":[{"path":"x","value":null},{"path":"y","configure":true}]}]}`), FormatJSONC)
	require.NoError(t, err)

	stmts := doc.Files[0].Statements
	assert.True(t, stmts[0].HasValue())
	assert.False(t, stmts[1].HasValue())

	set, _, err := Load(doc)
	require.NoError(t, err)
	require.Len(t, set.Declarations, 2)
	assert.Equal(t, decl.Null(), set.Declarations[0].Value)
	assert.Equal(t, fpath.MustAbsolute("y"), set.Declarations[1].Path)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("files: ["), FormatYAML)
	require.Error(t, err)

	_, err = Parse([]byte("{"), FormatJSONC)
	require.Error(t, err)

	_, err = Parse(nil, Format("toml"))
	require.Error(t, err)

	_, _, err = LoadFile("testdata/missing.yaml")
	require.Error(t, err)
}
