package prototype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/fpath"
)

func chains(m map[string][]string) ChainFunc {
	return func(n fpath.QualifiedName) []fpath.QualifiedName {
		names, ok := m[n.String()]
		if !ok {
			return []fpath.QualifiedName{n}
		}

		out := make([]fpath.QualifiedName, len(names))
		for i, s := range names {
			out[i] = fpath.ParseQualifiedName(s)
		}

		return out
	}
}

func TestNewExtensionScope(t *testing.T) {
	chainOf := chains(map[string][]string{"Acme:Special": {"Acme:Special", "Acme:Page"}})

	scope := NewExtensionScope(fpath.MustAbsolute("prototype(Acme:Special).body.main.prototype(Acme:Column)"), chainOf)

	require.Len(t, scope.Parts, 3)
	assert.True(t, scope.Parts[0].IsPrototype())
	assert.Equal(t, "Acme:Special", scope.Parts[0].Prototype.String())
	assert.Len(t, scope.Parts[0].Chain, 2)
	assert.False(t, scope.Parts[1].IsPrototype())
	assert.Len(t, scope.Parts[1].Run, 2)
	assert.Equal(t, "Acme:Column", scope.Parts[2].Prototype.String())
	assert.Equal(t, 4, scope.Len())
}

func TestExtensionScope_IsInScope(t *testing.T) {
	chainOf := chains(map[string][]string{
		"Acme:Special": {"Acme:Special", "Acme:Page"},
	})

	tests := []struct {
		scope    string
		at       string
		expected bool
	}{
		{scope: "some.path", at: "some.path", expected: true},
		{scope: "some.path", at: "root.some.path.deeper", expected: true},
		{scope: "some.path", at: "some.x.path", expected: false},
		{scope: "some.path", at: "path.some", expected: false},
		{scope: "prototype(Acme:Page)", at: "a<Acme:Page>", expected: true},
		{scope: "prototype(Acme:Page)", at: "a<Acme:Special>", expected: true},
		{scope: "prototype(Acme:Special)", at: "a<Acme:Page>", expected: false},
		{scope: "prototype(Acme:Page).body", at: "a<Acme:Page>.body", expected: true},
		{scope: "prototype(Acme:Page).body", at: "body.a<Acme:Page>", expected: false},
		{scope: "main.prototype(Acme:Page).body", at: "main.x<Acme:Page>.y.body", expected: true},
		{scope: "a.b", at: "a.c.a.b", expected: true},
		{scope: "a.b.a", at: "a.b", expected: false},
		{scope: "page.body", at: "site.page.x.page.body", expected: true},
		{scope: "page.body.content", at: "page.body.x.content", expected: false},
		{scope: "prototype(Acme:Page).body.main", at: "a<Acme:Page>.x.body.main", expected: true},
		{scope: "prototype(Acme:Page).body.main", at: "a<Acme:Page>.body.x.main", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.scope+"@"+tt.at, func(t *testing.T) {
			scope := NewExtensionScope(fpath.MustAbsolute(tt.scope), chainOf)
			assert.Equal(t, tt.expected, scope.IsInScope(MustEvaluationPath(tt.at), chainOf))
		})
	}
}

func TestCompareSpecificity(t *testing.T) {
	chainOf := chains(map[string][]string{
		"Acme:Special": {"Acme:Special", "Acme:Page"},
	})

	scope := func(s string) ExtensionScope {
		return NewExtensionScope(fpath.MustAbsolute(s), chainOf)
	}

	assert.Positive(t, compareSpecificity(scope("a.b"), scope("b")))
	assert.Negative(t, compareSpecificity(scope("b"), scope("a.b")))
	assert.Positive(t, compareSpecificity(scope("prototype(Acme:Special)"), scope("prototype(Acme:Page)")))
	assert.Negative(t, compareSpecificity(scope("prototype(Acme:Page)"), scope("prototype(Acme:Special)")))
	assert.Zero(t, compareSpecificity(scope("a"), scope("b")))
	assert.Zero(t, compareSpecificity(scope("prototype(Acme:X)"), scope("prototype(Acme:Y)")))
}
