package decl

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/zeebo/blake3"
)

// Set is the frozen declaration universe of one model build.
type Set struct {
	// Files lists every known file, including files that declare nothing but
	// may still be matched by include patterns.
	Files        []SourceFile
	Declarations []*Declaration
	Prototypes   []*PrototypeDeclaration
	Includes     []*Include
}

// AllFiles returns Files plus any file referenced by a declaration, sorted by
// package then resource.
func (s *Set) AllFiles() []SourceFile {
	seen := make(map[string]SourceFile)

	add := func(f SourceFile) {
		seen[f.Key()] = f
	}

	for _, f := range s.Files {
		add(f)
	}

	for _, d := range s.Declarations {
		add(d.File)
	}

	for _, p := range s.Prototypes {
		add(p.File)
	}

	for _, i := range s.Includes {
		add(i.File)
	}

	out := make([]SourceFile, 0, len(seen))
	for _, f := range seen {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Package != out[j].Package {
			return out[i].Package < out[j].Package
		}

		return out[i].Resource < out[j].Resource
	})

	return out
}

// Packages returns the distinct package names referenced by the set.
func (s *Set) Packages() []string {
	var out []string

	last := ""
	for i, f := range s.AllFiles() {
		if i == 0 || f.Package != last {
			out = append(out, f.Package)
			last = f.Package
		}
	}

	return out
}

// Validate checks structural sanity of the set.
func (s *Set) Validate() error {
	var errs []error

	type slot struct {
		file  string
		index int
	}

	used := make(map[slot]string)

	claim := func(f SourceFile, index int, what string) {
		if f.Package == "" || f.Resource == "" {
			errs = append(errs, fmt.Errorf("%s: missing package or resource", what))
			return
		}

		k := slot{file: f.Key(), index: index}
		if prev, ok := used[k]; ok {
			errs = append(errs, fmt.Errorf("%s: code index %d in %s already used by %s", what, index, f, prev))
			return
		}

		used[k] = what
	}

	for _, d := range s.Declarations {
		what := d.String()
		claim(d.File, d.CodeIndex, what)

		if d.Path.IsRoot() {
			errs = append(errs, fmt.Errorf("%s: declaration at root path", what))
		}

		if d.Kind == KindCopy && !d.Target.IsRelative() && d.Target.Resolve(d.Path).IsRoot() {
			errs = append(errs, fmt.Errorf("%s: copy without target", what))
		}
	}

	for _, p := range s.Prototypes {
		claim(p.File, p.CodeIndex, "prototype("+p.Name.String()+")")

		if p.Name.Name == "" {
			errs = append(errs, fmt.Errorf("prototype declaration in %s: empty name", p.File))
		}
	}

	for _, i := range s.Includes {
		claim(i.File, i.CodeIndex, "include: "+i.Pattern)

		if i.Pattern == "" {
			errs = append(errs, fmt.Errorf("include in %s: empty pattern", i.File))
		}
	}

	return errors.Join(errs...)
}

// Fingerprint returns a BLAKE3 digest over a canonical encoding of the set.
// Two sets with the same declarations produce the same fingerprint regardless
// of slice order.
func (s *Set) Fingerprint() string {
	records := make([]string, 0, len(s.Declarations)+len(s.Prototypes)+len(s.Includes))

	for _, d := range s.Declarations {
		records = append(records, fmt.Sprintf("d|%s|%08d|%d|%s|%d|%s|%s|%s",
			d.File.Key(), d.CodeIndex, d.Kind, d.Path.Key(),
			d.Value.Kind, d.Value.Text, numberBits(d.Value), d.Target))
	}

	for _, p := range s.Prototypes {
		inherits := ""
		if p.Inherits != nil {
			inherits = p.Inherits.String()
		}

		records = append(records, fmt.Sprintf("p|%s|%08d|%s|%s", p.File.Key(), p.CodeIndex, p.Name, inherits))
	}

	for _, i := range s.Includes {
		records = append(records, fmt.Sprintf("i|%s|%08d|%s", i.File.Key(), i.CodeIndex, i.Pattern))
	}

	for _, f := range s.AllFiles() {
		records = append(records, "f|"+f.Key())
	}

	sort.Strings(records)

	hasher := blake3.New()

	var length [8]byte
	for _, r := range records {
		binary.BigEndian.PutUint64(length[:], uint64(len(r)))
		hasher.Write(length[:])
		hasher.Write([]byte(r))
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

func numberBits(v Value) string {
	return fmt.Sprintf("%016x/%t", math.Float64bits(v.Number), v.Bool)
}
