package decl

import (
	"strconv"

	"fusion-engine/internal/fpath"
)

//go:generate go tool stringer -type=ValueKind -trimprefix=Value -output=valuekind_string.go

// ValueKind is the variant of an assigned value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueNull
	// ValueExpression is an expression body, evaluated by the runtime.
	ValueExpression
	// ValueDSL is an embedded DSL block, evaluated by the runtime.
	ValueDSL
	// ValueObject instantiates a prototype.
	ValueObject
)

// Value is an assigned value. The engine treats it as opaque data; only the
// runtime evaluator interprets expressions and objects.
type Value struct {
	Kind ValueKind
	// Text holds the string literal, the expression or DSL body, or the
	// qualified prototype name of an object.
	Text   string
	Number float64
	Bool   bool
}

// String returns a string literal value.
func String(s string) Value {
	return Value{Kind: ValueString, Text: s}
}

// Number returns a numeric literal value.
func Number(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// Bool returns a boolean literal value.
func Bool(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// Null returns the null literal.
func Null() Value {
	return Value{Kind: ValueNull}
}

// Expression returns an expression value.
func Expression(body string) Value {
	return Value{Kind: ValueExpression, Text: body}
}

// DSL returns an embedded DSL value.
func DSL(body string) Value {
	return Value{Kind: ValueDSL, Text: body}
}

// Object returns a prototype instantiation.
func Object(name fpath.QualifiedName) Value {
	return Value{Kind: ValueObject, Text: name.String()}
}

// ObjectName returns the prototype an object value instantiates.
func (v Value) ObjectName() (fpath.QualifiedName, bool) {
	if v.Kind != ValueObject {
		return fpath.QualifiedName{}, false
	}

	return fpath.ParseQualifiedName(v.Text), true
}

// Interface returns the literal as a plain Go value for encoders.
func (v Value) Interface() any {
	switch v.Kind {
	case ValueNumber:
		return v.Number
	case ValueBool:
		return v.Bool
	case ValueNull:
		return nil
	default:
		return v.Text
	}
}

// String renders the value the way it would be written in source.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	case ValueNull:
		return "null"
	case ValueExpression:
		return "${" + v.Text + "}"
	case ValueDSL:
		return "`" + v.Text + "`"
	case ValueObject:
		return v.Text
	default:
		return strconv.Quote(v.Text)
	}
}
