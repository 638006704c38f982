package decl

import (
	"errors"
	"fmt"

	"fusion-engine/internal/fpath"
)

// Builder assembles a Set file by file, assigning code indices in call order.
// Parse errors are collected and reported by Set.
type Builder struct {
	set   Set
	files map[string]*FileBuilder
	errs  []error
}

// FileBuilder appends statements to one file.
type FileBuilder struct {
	owner *Builder
	file  SourceFile
	next  int
	line  int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{files: make(map[string]*FileBuilder)}
}

// File returns the builder for a file, registering the file on first use.
func (b *Builder) File(pkg, resource string) *FileBuilder {
	f := SourceFile{Package: pkg, Resource: resource}
	if fb, ok := b.files[f.Key()]; ok {
		return fb
	}

	fb := &FileBuilder{owner: b, file: f}
	b.files[f.Key()] = fb
	b.set.Files = append(b.set.Files, f)

	return fb
}

// Set returns the assembled set, or the joined parse errors.
func (b *Builder) Set() (*Set, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	out := b.set

	return &out, nil
}

// MustSet is Set that panics on error.
func (b *Builder) MustSet() *Set {
	s, err := b.Set()
	if err != nil {
		panic(err)
	}

	return s
}

// Line sets the source line reported for the next statement.
func (f *FileBuilder) Line(line int) *FileBuilder {
	f.line = line
	return f
}

// NextIndex returns the code index the next statement will receive.
func (f *FileBuilder) NextIndex() int {
	return f.next
}

func (f *FileBuilder) claim() (int, SourceRef) {
	index := f.next
	f.next++

	line := f.line
	if line == 0 {
		line = index + 1
	}

	f.line = 0

	return index, SourceRef{File: f.file, Line: line, Column: 1}
}

func (f *FileBuilder) path(s string) (fpath.AbsolutePath, bool) {
	p, err := fpath.ParseAbsolute(s)
	if err != nil {
		f.owner.errs = append(f.owner.errs, fmt.Errorf("%s: %w", f.file, err))
		return fpath.AbsolutePath{}, false
	}

	return p, true
}

func (f *FileBuilder) add(kind Kind, p fpath.AbsolutePath) *Declaration {
	index, ref := f.claim()
	d := &Declaration{Kind: kind, Path: p, File: f.file, CodeIndex: index, Source: ref}
	f.owner.set.Declarations = append(f.owner.set.Declarations, d)

	return d
}

// AssignAt adds an assignment at an already parsed path.
func (f *FileBuilder) AssignAt(p fpath.AbsolutePath, v Value) *FileBuilder {
	f.add(KindAssignment, p).Value = v
	return f
}

// ConfigureAt adds a configuration at an already parsed path.
func (f *FileBuilder) ConfigureAt(p fpath.AbsolutePath) *FileBuilder {
	f.add(KindConfiguration, p)
	return f
}

// EraseAt adds an erasure at an already parsed path.
func (f *FileBuilder) EraseAt(p fpath.AbsolutePath) *FileBuilder {
	f.add(KindErasure, p)
	return f
}

// CopyAt adds a copy at an already parsed path.
func (f *FileBuilder) CopyAt(p fpath.AbsolutePath, target fpath.Reference) *FileBuilder {
	f.add(KindCopy, p).Target = target
	return f
}

// Assign adds "path = value".
func (f *FileBuilder) Assign(path string, v Value) *FileBuilder {
	if p, ok := f.path(path); ok {
		f.AssignAt(p, v)
	}

	return f
}

// Configure adds "path { }".
func (f *FileBuilder) Configure(path string) *FileBuilder {
	if p, ok := f.path(path); ok {
		f.ConfigureAt(p)
	}

	return f
}

// Erase adds "path >".
func (f *FileBuilder) Erase(path string) *FileBuilder {
	if p, ok := f.path(path); ok {
		f.EraseAt(p)
	}

	return f
}

// Copy adds "path < target". A leading dot makes the target relative.
func (f *FileBuilder) Copy(path, target string) *FileBuilder {
	p, ok := f.path(path)
	if !ok {
		return f
	}

	ref, err := fpath.ParseReference(target)
	if err != nil {
		f.owner.errs = append(f.owner.errs, fmt.Errorf("%s: %w", f.file, err))
		return f
	}

	return f.CopyAt(p, ref)
}

// Prototype adds a root prototype declaration. An empty inherits means the
// declaration names no parent.
func (f *FileBuilder) Prototype(name, inherits string) *FileBuilder {
	index, ref := f.claim()
	p := &PrototypeDeclaration{
		Name:      fpath.ParseQualifiedName(name),
		File:      f.file,
		CodeIndex: index,
		Source:    ref,
	}

	if inherits != "" {
		parent := fpath.ParseQualifiedName(inherits)
		p.Inherits = &parent
	}

	f.owner.set.Prototypes = append(f.owner.set.Prototypes, p)

	return f
}

// Include adds an include directive.
func (f *FileBuilder) Include(pattern string) *FileBuilder {
	index, ref := f.claim()
	f.owner.set.Includes = append(f.owner.set.Includes, &Include{
		File:      f.file,
		Pattern:   pattern,
		CodeIndex: index,
		Source:    ref,
	})

	return f
}
