// Package cli implements the fusion-engine command line: loading a
// declaration fixture, building the model and printing query results as a
// table, YAML, JSON or CBOR.
package cli
