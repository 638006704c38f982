package decl

import "fmt"

// SourceFile identifies a Fusion file inside a package.
type SourceFile struct {
	Package  string
	Resource string
}

// String returns "Package/Resource".
func (f SourceFile) String() string {
	return f.Package + "/" + f.Resource
}

// Key is the map key for the file.
func (f SourceFile) Key() string {
	return f.Package + "\x00" + f.Resource
}

// SourceRef points at a location in source. It is used for messages only and
// never influences resolution.
type SourceRef struct {
	File   SourceFile
	Line   int
	Column int
}

// String returns "Package/Resource:line:column".
func (r SourceRef) String() string {
	if r.Line == 0 {
		return r.File.String()
	}

	return fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column)
}
