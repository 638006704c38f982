// Package position linearizes keys carrying start, end, before, after or
// numeric position directives.
//
// Keys are first placed in a base sequence: start keys, numeric keys, other
// keys without a directive, end keys. Keys positioned relative to another key
// are then spliced around their reference. Within a start, before or after
// group the highest weight ends up closest to its anchor.
package position
