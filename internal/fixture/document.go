package fixture

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"fusion-engine/internal/loadorder"
)

// Document is the root of a fixture file.
type Document struct {
	PackageOrder []string          `yaml:"packageOrder" json:"packageOrder"`
	Entrypoints  map[string]string `yaml:"entrypoints"  json:"entrypoints"`
	Strict       bool              `yaml:"strict"       json:"strict"`
	Files        []File            `yaml:"files"        json:"files"`
}

// File holds the statements of one resource.
type File struct {
	Package    string      `yaml:"package"    json:"package"`
	Resource   string      `yaml:"resource"   json:"resource"`
	Statements []Statement `yaml:"statements" json:"statements"`
}

// Statement is one include, path or prototype statement. Exactly one of
// Include, Path and Prototype is set.
type Statement struct {
	Line int `yaml:"line" json:"line"`

	Include string `yaml:"include" json:"include"`

	Path       string `yaml:"path"       json:"path"`
	Value      any    `yaml:"value"      json:"value"`
	Expression string `yaml:"expression" json:"expression"`
	DSL        string `yaml:"dsl"        json:"dsl"`
	Object     string `yaml:"object"     json:"object"`
	Configure  bool   `yaml:"configure"  json:"configure"`
	Erase      bool   `yaml:"erase"      json:"erase"`
	Copy       string `yaml:"copy"       json:"copy"`

	Prototype string `yaml:"prototype" json:"prototype"`
	Extends   string `yaml:"extends"   json:"extends"`

	Statements []Statement `yaml:"statements" json:"statements"`

	// hasValue distinguishes "value: null" from an absent value.
	hasValue bool
}

// HasValue reports whether the statement carries a literal value, null
// included.
func (s *Statement) HasValue() bool {
	return s.hasValue
}

// UnmarshalYAML records value presence and defaults Line to the line of the
// statement in the document.
func (s *Statement) UnmarshalYAML(node *yaml.Node) error {
	type plain Statement

	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: statement must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" {
			s.hasValue = true
		}
	}

	if s.Line == 0 {
		s.Line = node.Line
	}

	return nil
}

// UnmarshalJSON records value presence.
func (s *Statement) UnmarshalJSON(data []byte) error {
	type plain Statement

	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	_, s.hasValue = keys["value"]

	return nil
}

// Options is the load order configuration carried by a document.
type Options struct {
	PackageOrder []string
	Entrypoints  map[string]string
	Strict       bool
}

// LoadOrder returns the load order configuration.
func (o Options) LoadOrder() loadorder.Config {
	return loadorder.Config{PackageOrder: o.PackageOrder, Entrypoints: o.Entrypoints}
}
