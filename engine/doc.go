// Package engine builds a queryable model from a frozen declaration set.
//
// Build composes the load order, the path index, the path resolver and the
// prototype store. The returned Model is immutable and safe for concurrent
// use; resolution results are memoized on first access.
package engine
