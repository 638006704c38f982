// Package diagnostic provides structured errors, warnings, and infos
// collected while building a resolution model.
//
// Key capabilities:
//   - Conflicting inheritance reports (non-strict mode)
//   - Implicit prototype notices
//   - Unreachable file warnings
//   - Suggestions attached to unknown names
package diagnostic
