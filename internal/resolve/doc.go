// Package resolve computes the effective value of absolute Fusion paths.
//
// A path resolves to one of three states:
//   - StateValue: an assignment decides the path
//   - StateUntyped: the path is present (configured or copied) without a
//     scalar or object value
//   - StateErased: an erasure cuts the path off
//
// Undeclared paths are reported with ErrNotFound, which is distinct from
// StateErased. Copies are followed through a visited-path trail bounded by a
// maximum depth; cycles surface as *CyclicCopyError.
//
// Results are memoized. A Resolver is safe for concurrent use.
package resolve
