package decl

import (
	"fmt"

	"fusion-engine/internal/fpath"
)

// Declaration is one path declaration. It must not be modified after the
// loader has produced it.
type Declaration struct {
	Kind Kind
	Path fpath.AbsolutePath
	File SourceFile
	// CodeIndex is the position of the declaration in its file. Declarations,
	// prototype declarations and includes of one file share the index space.
	CodeIndex int
	Source    SourceRef
	// Value is set for assignments.
	Value Value
	// Target is set for copies.
	Target fpath.Reference
}

// Origin returns the file the declaration belongs to.
func (d *Declaration) Origin() SourceFile {
	return d.File
}

// Position returns the code index.
func (d *Declaration) Position() int {
	return d.CodeIndex
}

// String renders the declaration in Fusion-like notation.
func (d *Declaration) String() string {
	switch d.Kind {
	case KindAssignment:
		return fmt.Sprintf("%s = %s", d.Path, d.Value)
	case KindConfiguration:
		return fmt.Sprintf("%s { }", d.Path)
	case KindErasure:
		return fmt.Sprintf("%s >", d.Path)
	case KindCopy:
		return fmt.Sprintf("%s < %s", d.Path, d.Target)
	default:
		return d.Path.String()
	}
}

// PrototypeDeclaration is one root-level prototype(Name) occurrence, with the
// optional prototype it inherits from.
type PrototypeDeclaration struct {
	Name      fpath.QualifiedName
	Inherits  *fpath.QualifiedName
	File      SourceFile
	CodeIndex int
	Source    SourceRef
}

// Origin returns the file the declaration belongs to.
func (p *PrototypeDeclaration) Origin() SourceFile {
	return p.File
}

// Position returns the code index.
func (p *PrototypeDeclaration) Position() int {
	return p.CodeIndex
}

// Path returns root.prototype(Name).
func (p *PrototypeDeclaration) Path() fpath.AbsolutePath {
	return PrototypePath(p.Name)
}

// PrototypePath returns the root path of a prototype.
func PrototypePath(name fpath.QualifiedName) fpath.AbsolutePath {
	return fpath.NewAbsolute(fpath.PrototypeCall(name))
}

// Include is an include directive. Pattern is relative to the directory of
// the including resource.
type Include struct {
	File      SourceFile
	Pattern   string
	CodeIndex int
	Source    SourceRef
}

// Origin returns the file the directive belongs to.
func (i *Include) Origin() SourceFile {
	return i.File
}

// Position returns the code index.
func (i *Include) Position() int {
	return i.CodeIndex
}
