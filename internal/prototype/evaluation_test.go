package prototype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/fpath"
)

func TestParseEvaluationPath(t *testing.T) {
	ev, err := ParseEvaluationPath("page<Acme.Site:Page>.body.content<Acme.Site:Content>")
	require.NoError(t, err)
	require.Equal(t, 3, ev.Len())

	assert.Equal(t, "page", ev.Segment(0).Segment.Name)
	require.NotNil(t, ev.Segment(0).Prototype)
	assert.Equal(t, fpath.QualifiedName{Namespace: "Acme.Site", Name: "Page"}, *ev.Segment(0).Prototype)
	assert.Nil(t, ev.Segment(1).Prototype)
	assert.Equal(t, "Acme.Site:Content", ev.Segment(2).Prototype.String())

	assert.Equal(t, "page<Acme.Site:Page>.body.content<Acme.Site:Content>", ev.String())
}

func TestParseEvaluationPath_Quoted(t *testing.T) {
	ev, err := ParseEvaluationPath(`'a<b'.c<Acme:X>`)
	require.NoError(t, err)
	require.Equal(t, 2, ev.Len())
	assert.Equal(t, "a<b", ev.Segment(0).Segment.Name)
	assert.Nil(t, ev.Segment(0).Prototype)
	assert.Equal(t, "Acme:X", ev.Segment(1).Prototype.String())
}

func TestParseEvaluationPath_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated annotation", input: "page<Acme:Page"},
		{name: "empty annotation", input: "page<>"},
		{name: "annotation first", input: "<Acme:Page>.body"},
		{name: "unterminated quote", input: `'page.body`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvaluationPath(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestEvaluationPath_Child(t *testing.T) {
	base := MustEvaluationPath("page")
	name := fpath.ParseQualifiedName("Acme:Text")

	child := base.Child(fpath.Property("body"), &name)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "page.body<Acme:Text>", child.String())
	assert.Empty(t, MustEvaluationPath("").String())
}
