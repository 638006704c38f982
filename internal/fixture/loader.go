package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"fusion-engine/internal/decl"
	"fusion-engine/internal/fpath"
)

// Format is the encoding of a fixture document.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// ErrInvalidStatement is returned for statements that mix or miss actions.
var ErrInvalidStatement = errors.New("invalid statement")

// FormatOf derives the format from a file extension. Unknown extensions
// are read as YAML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSONC
	default:
		return FormatYAML
	}
}

// LoadFile reads and loads a fixture file.
func LoadFile(path string) (*decl.Set, Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Options{}, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	doc, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, Options{}, fmt.Errorf("%s: %w", path, err)
	}

	return Load(doc)
}

// Parse decodes a document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatJSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse fixture JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse fixture YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown fixture format %q", format)
	}

	return &doc, nil
}

// Load converts a document into a declaration set.
func Load(doc *Document) (*decl.Set, Options, error) {
	b := decl.NewBuilder()

	var errs []error

	for _, f := range doc.Files {
		if f.Package == "" || f.Resource == "" {
			errs = append(errs, fmt.Errorf("file %s/%s: missing package or resource", f.Package, f.Resource))
			continue
		}

		fb := b.File(f.Package, f.Resource)
		for i := range f.Statements {
			if err := emit(fb, fpath.Root(), &f.Statements[i]); err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", f.Package, f.Resource, err))
			}
		}
	}

	set, err := b.Set()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, Options{}, errors.Join(errs...)
	}

	opts := Options{
		PackageOrder: doc.PackageOrder,
		Entrypoints:  doc.Entrypoints,
		Strict:       doc.Strict,
	}

	return set, opts, nil
}

func emit(fb *decl.FileBuilder, base fpath.AbsolutePath, s *Statement) error {
	switch {
	case s.Include != "" && s.Path == "" && s.Prototype == "":
		if base.Len() > 0 {
			return invalid(s, "include inside a block")
		}

		fb.Line(s.Line).Include(s.Include)

		return nil

	case s.Path != "" && s.Include == "" && s.Prototype == "":
		rel, err := fpath.ParseRelative(s.Path)
		if err != nil {
			return fmt.Errorf("line %d: %w", s.Line, err)
		}

		return emitPath(fb, base.Append(rel), s)

	case s.Prototype != "" && s.Include == "" && s.Path == "":
		return emitPrototype(fb, base, s)

	default:
		return invalid(s, "expected exactly one of include, path or prototype")
	}
}

func emitPath(fb *decl.FileBuilder, p fpath.AbsolutePath, s *Statement) error {
	if s.Extends != "" {
		return invalid(s, "extends outside a prototype statement")
	}

	actions := 0
	for _, set := range []bool{
		s.HasValue(), s.Expression != "", s.DSL != "", s.Object != "",
		s.Configure, s.Erase, s.Copy != "",
	} {
		if set {
			actions++
		}
	}

	switch {
	case actions > 1:
		return invalid(s, "more than one action on "+p.String())
	case actions == 0 && len(s.Statements) == 0:
		return invalid(s, "no action on "+p.String())
	}

	var (
		value  decl.Value
		target fpath.Reference
		err    error
	)

	if s.HasValue() {
		if value, err = literal(s.Value); err != nil {
			return fmt.Errorf("line %d: %s: %w", s.Line, p, err)
		}
	}

	if s.Copy != "" {
		if target, err = fpath.ParseReference(s.Copy); err != nil {
			return fmt.Errorf("line %d: copy target: %w", s.Line, err)
		}
	}

	if s.Erase && len(s.Statements) > 0 {
		return invalid(s, "erasure with a block")
	}

	fb.Line(s.Line)

	switch {
	case s.HasValue():
		fb.AssignAt(p, value)
	case s.Expression != "":
		fb.AssignAt(p, decl.Expression(strings.TrimSuffix(strings.TrimPrefix(s.Expression, "${"), "}")))
	case s.DSL != "":
		fb.AssignAt(p, decl.DSL(s.DSL))
	case s.Object != "":
		fb.AssignAt(p, decl.Object(fpath.ParseQualifiedName(s.Object)))
	case s.Erase:
		fb.EraseAt(p)
	case s.Copy != "":
		fb.CopyAt(p, target)
	case s.Configure || len(s.Statements) > 0:
		fb.ConfigureAt(p)
	}

	return emitBlock(fb, p, s.Statements)
}

func emitPrototype(fb *decl.FileBuilder, base fpath.AbsolutePath, s *Statement) error {
	name := fpath.ParseQualifiedName(s.Prototype)
	if name.Name == "" {
		return invalid(s, "empty prototype name")
	}

	// a nested prototype(...) block extends the prototype in scope
	if !base.IsRoot() && s.Extends != "" {
		return invalid(s, "extends on a nested prototype")
	}

	fb.Line(s.Line)

	var p fpath.AbsolutePath

	if base.IsRoot() {
		fb.Prototype(s.Prototype, s.Extends)
		p = decl.PrototypePath(name)
	} else {
		p = base.Child(fpath.PrototypeCall(name))
		fb.ConfigureAt(p)
	}

	return emitBlock(fb, p, s.Statements)
}

func emitBlock(fb *decl.FileBuilder, base fpath.AbsolutePath, block []Statement) error {
	var errs []error

	for i := range block {
		if err := emit(fb, base, &block[i]); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func literal(v any) (decl.Value, error) {
	switch x := v.(type) {
	case nil:
		return decl.Null(), nil
	case string:
		return decl.String(x), nil
	case bool:
		return decl.Bool(x), nil
	case int:
		return decl.Number(float64(x)), nil
	case int64:
		return decl.Number(float64(x)), nil
	case uint64:
		return decl.Number(float64(x)), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decl.Value{}, fmt.Errorf("non-finite number %v", x)
		}

		return decl.Number(x), nil
	default:
		return decl.Value{}, fmt.Errorf("value must be a scalar, got %T", v)
	}
}

func invalid(s *Statement, msg string) error {
	return fmt.Errorf("line %d: %w: %s", s.Line, ErrInvalidStatement, msg)
}
