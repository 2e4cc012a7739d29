package interpreter

import "strconv"

// Kind is the runtime type of a Value
type Kind int

const (
	KindInt Kind = iota
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating an expression. Variables only ever hold
// integers; booleans exist only as comparison results.
type Value struct {
	Kind Kind
	Int  int
	Bool bool
}

// IntValue wraps an integer
func IntValue(n int) Value {
	return Value{Kind: KindInt, Int: n}
}

// BoolValue wraps a boolean
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func (v Value) String() string {
	if v.Kind == KindBool {
		return strconv.FormatBool(v.Bool)
	}
	return strconv.Itoa(v.Int)
}
