// Package prototype builds fully linked Fusion prototypes.
//
// A Store is built once from a declaration set and a path resolver:
//
//  1. own attributes and the inherited name are collected per prototype,
//  2. inheritance is checked for cycles and chains are computed,
//  3. extension scopes (prototype(Name) below the root) are grouped,
//  4. drafts are linked into immutable *Prototype values by a fixpoint pass.
//
// Attribute lookups take an EvaluationPath, the typed path at which the
// prototype is evaluated, and overlay own attributes and matching extensions
// on the inherited view.
package prototype
