package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusion-engine/internal/fpath"
)

func TestBuilderAssignsCodeIndices(t *testing.T) {
	b := NewBuilder()
	b.File("Acme.Site", "Root.fusion").
		Include("Components/*.fusion").
		Assign("page.title", String("Hello")).
		Prototype("Acme.Site:Page", "Neos.Fusion:Template").
		Copy("page.header", ".title")

	set := b.MustSet()

	require.Len(t, set.Includes, 1)
	require.Len(t, set.Declarations, 2)
	require.Len(t, set.Prototypes, 1)

	assert.Equal(t, 0, set.Includes[0].CodeIndex)
	assert.Equal(t, 1, set.Declarations[0].CodeIndex)
	assert.Equal(t, 2, set.Prototypes[0].CodeIndex)
	assert.Equal(t, 3, set.Declarations[1].CodeIndex)

	copyDecl := set.Declarations[1]
	assert.Equal(t, KindCopy, copyDecl.Kind)
	assert.Equal(t, "page.title", copyDecl.Target.Resolve(copyDecl.Path).String())

	require.NotNil(t, set.Prototypes[0].Inherits)
	assert.Equal(t, "Neos.Fusion:Template", set.Prototypes[0].Inherits.String())
	assert.Equal(t, "prototype(Acme.Site:Page)", set.Prototypes[0].Path().String())

	require.NoError(t, set.Validate())
}

func TestBuilderCollectsParseErrors(t *testing.T) {
	b := NewBuilder()
	b.File("Acme.Site", "Root.fusion").Assign("page..title", String("x"))

	_, err := b.Set()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Acme.Site/Root.fusion")
}

func TestValidateRejectsDuplicateCodeIndex(t *testing.T) {
	file := SourceFile{Package: "P", Resource: "a.fusion"}
	set := &Set{
		Declarations: []*Declaration{
			{Kind: KindAssignment, Path: fpath.MustAbsolute("a"), File: file, CodeIndex: 3},
			{Kind: KindErasure, Path: fpath.MustAbsolute("b"), File: file, CodeIndex: 3},
		},
	}

	err := set.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code index 3")
}

func TestValidateRejectsRootDeclarations(t *testing.T) {
	set := &Set{
		Declarations: []*Declaration{
			{Kind: KindConfiguration, Path: fpath.Root(), File: SourceFile{Package: "P", Resource: "a.fusion"}},
		},
	}

	require.Error(t, set.Validate())
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	b := NewBuilder()
	b.File("P", "a.fusion").Assign("a", Number(1)).Assign("b", Bool(true))
	b.File("P", "b.fusion").Erase("a")

	set := b.MustSet()
	fp := set.Fingerprint()
	assert.Len(t, fp, 64)

	reversed := &Set{Files: set.Files}
	for i := len(set.Declarations) - 1; i >= 0; i-- {
		reversed.Declarations = append(reversed.Declarations, set.Declarations[i])
	}

	assert.Equal(t, fp, reversed.Fingerprint())

	b2 := NewBuilder()
	b2.File("P", "a.fusion").Assign("a", Number(2)).Assign("b", Bool(true))
	b2.File("P", "b.fusion").Erase("a")
	assert.NotEqual(t, fp, b2.MustSet().Fingerprint())
}

func TestAllFilesAndPackages(t *testing.T) {
	b := NewBuilder()
	b.File("Zeta", "Root.fusion")
	b.File("Alpha", "b.fusion")
	b.File("Alpha", "a.fusion")

	set := b.MustSet()
	files := set.AllFiles()
	require.Len(t, files, 3)
	assert.Equal(t, "Alpha/a.fusion", files[0].String())
	assert.Equal(t, []string{"Alpha", "Zeta"}, set.Packages())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, `"x"`, String("x").String())
	assert.Equal(t, "1.5", Number(1.5).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "${a.b}", Expression("a.b").String())
	assert.Equal(t, "Neos.Fusion:Value", Object(fpath.ParseQualifiedName("Neos.Fusion:Value")).String())

	name, ok := Object(fpath.ParseQualifiedName("Neos.Fusion:Value")).ObjectName()
	require.True(t, ok)
	assert.Equal(t, "Value", name.Name)
	assert.Equal(t, "Erasure", KindErasure.String())
	assert.Equal(t, "Expression", ValueExpression.String())
}
