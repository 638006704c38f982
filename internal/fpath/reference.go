package fpath

import "strings"

// Reference is a copy target: absolute, or relative to the block that
// contains the copy declaration.
type Reference struct {
	absolute AbsolutePath
	relative RelativePath
	isRel    bool
}

// AbsoluteReference wraps an absolute target.
func AbsoluteReference(p AbsolutePath) Reference {
	return Reference{absolute: p}
}

// RelativeReference wraps a relative target.
func RelativeReference(p RelativePath) Reference {
	return Reference{relative: p, isRel: true}
}

// ParseReference parses a copy target. A leading dot marks a relative path.
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "."); ok {
		rel, err := ParseRelative(rest)
		if err != nil {
			return Reference{}, err
		}

		return RelativeReference(rel), nil
	}

	abs, err := ParseAbsolute(s)
	if err != nil {
		return Reference{}, err
	}

	return AbsoluteReference(abs), nil
}

// IsRelative reports whether the reference is relative.
func (r Reference) IsRelative() bool {
	return r.isRel
}

// Resolve returns the absolute target for a copy declared at declaredAt.
// Relative references are resolved against the parent of declaredAt.
func (r Reference) Resolve(declaredAt AbsolutePath) AbsolutePath {
	if !r.isRel {
		return r.absolute
	}

	return declaredAt.Parent().Append(r.relative)
}

// String renders the reference as written.
func (r Reference) String() string {
	if r.isRel {
		return "." + r.relative.String()
	}

	return r.absolute.String()
}
