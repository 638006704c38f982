package loadorder

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"fusion-engine/internal/decl"
)

const resourcePrefix = "resource://"

// resolvePattern turns an include pattern into a package-relative pattern.
// Patterns are relative to the including resource's directory; a leading
// slash anchors at the package root; resource://Package/ anchors at the root
// of the named package. ok is false for patterns that point into another
// package.
func resolvePattern(includer decl.SourceFile, pattern string) (string, bool) {
	pattern = strings.TrimSpace(pattern)

	if rest, found := strings.CutPrefix(pattern, resourcePrefix); found {
		pkg, inner, _ := strings.Cut(rest, "/")
		if pkg != includer.Package {
			return "", false
		}

		return path.Clean(inner), true
	}

	if rest, found := strings.CutPrefix(pattern, "/"); found {
		return path.Clean(rest), true
	}

	return path.Join(path.Dir(includer.Resource), pattern), true
}

// matchPattern matches a package-relative resource name. "*", "?", character
// classes and "{a,b}" never cross "/"; "**" matches any number of whole
// segments, including none.
func matchPattern(pattern, resource string) (bool, error) {
	return doublestar.Match(pattern, resource)
}
