// Package expression parses, builds and prints pipeline expressions of the
// form `fn arg=value | fn {sub | expression}`.
package expression

import "strconv"

// Kind is the type of an argument value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	KindExpression
)

// Value is a single argument value.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Expr *AST
}

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Sub wraps a sub-expression as a value.
func Sub(ast *AST) Value { return Value{Kind: KindExpression, Expr: ast} }

// Arg is a named argument with one or more values. Positional arguments use
// the name "_".
type Arg struct {
	Name   string
	Values []Value
}

// Function is one step of a chain.
type Function struct {
	Name string
	Args []Arg
}

// Arg returns the values of the named argument.
func (f Function) Arg(name string) []Value {
	for _, a := range f.Args {
		if a.Name == name {
			return a.Values
		}
	}
	return nil
}

// AST is a parsed expression.
type AST struct {
	Chain []Function
}

// Call builds a function with ordered named arguments.
func Call(name string, args ...Arg) Function {
	return Function{Name: name, Args: args}
}

// Named builds an argument.
func Named(name string, values ...Value) Arg {
	return Arg{Name: name, Values: values}
}

func literal(word string) Value {
	switch word {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Value{Kind: KindNull}
	}
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return Number(n)
	}
	return String(word)
}
