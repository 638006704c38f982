// Package loadorder implements the total order over declarations that decides
// which declaration wins on conflict.
//
// Three comparators are composed in priority order:
//
//  1. PackageOrder: a package later in the configured list overrides every
//     package before it.
//  2. IncludeOrder: inside a package, files are ordered by their include chain
//     from the package entrypoint. The include directive that appears later
//     wins at the first point where two chains diverge.
//  3. InFileOrder: inside a file, the declaration with the higher code index
//     wins.
//
// Compare returns a negative number when the first item overrides the second,
// so sorting with it puts the winning declaration first.
package loadorder
