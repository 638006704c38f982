package fpath

import "strings"

// QualifiedName is a prototype name such as "Neos.Fusion:Value".
// Names without a colon have an empty namespace.
type QualifiedName struct {
	Namespace string
	Name      string
}

// ParseQualifiedName splits "Namespace:Name" at the last colon.
func ParseQualifiedName(s string) QualifiedName {
	s = strings.TrimSpace(s)

	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return QualifiedName{Name: s}
	}

	return QualifiedName{Namespace: s[:idx], Name: s[idx+1:]}
}

// String returns the "Namespace:Name" form.
func (q QualifiedName) String() string {
	if q.Namespace == "" {
		return q.Name
	}

	return q.Namespace + ":" + q.Name
}

// IsZero reports whether the name is empty.
func (q QualifiedName) IsZero() bool {
	return q.Namespace == "" && q.Name == ""
}
