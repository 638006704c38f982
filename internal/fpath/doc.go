// Package fpath models Fusion paths: absolute and relative sequences of typed
// segments (properties, meta-properties and prototype calls).
//
// Paths are plain values. Two paths are equal when their segments are equal;
// quoting of a property name is presentation only. Key returns a string that
// reflects exactly that identity and is the form used for map keys throughout
// the engine.
//
// # Notation
//
//	page.body                       two properties
//	page.body.@process.wrap         meta-property "process"
//	prototype(Acme.Site:Page).title prototype call followed by a property
//	page."my key"                   quoted property
//
// Copy targets are References: an absolute path, or a relative path written
// with a leading dot (".sibling") that is resolved against the parent of the
// declaring path.
package fpath
