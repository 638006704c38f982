// Package match provides name normalization and Levenshtein distance
// calculation used to suggest close alternatives for unknown paths and
// prototype names.
//
// Key functions:
//   - Words, NormalizeName: split and fold Fusion names for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
