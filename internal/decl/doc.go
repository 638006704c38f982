// Package decl holds the declaration universe the engine resolves: value
// assignments, configurations, erasures and copies at absolute paths, root
// prototype declarations, and include directives, each tagged with the
// source file it came from and its position in that file.
//
// Declarations are produced once by a loader (see internal/fixture) and never
// mutated afterwards; every index the engine builds is derived from them.
package decl
