package eval

import "fmt"

// ValueKind tags a runtime value.
type ValueKind uint8

const (
	Int ValueKind = iota
	Float
	Bool
	Char
	String
	Unit
)

func (k ValueKind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case String:
		return "string"
	case Unit:
		return "unit"
	default:
		return "invalid"
	}
}

// Value is the tagged union the evaluator produces. Most values live
// for one REPL statement's evaluation; values bound by val stay in the
// evaluator's binding table for the rest of the session.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Char  byte
	Str   string
}

// UnitValue is the absent result.
var UnitValue = Value{Kind: Unit}

func (v Value) String() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.Int)
	case Float:
		return fmt.Sprintf("%f", v.Float)
	case Bool:
		if v.Bool {
			return "true"
		}
		return "false"
	case Char:
		return fmt.Sprintf("%c", v.Char)
	case String:
		return v.Str
	case Unit:
		return "()"
	default:
		return "<invalid>"
	}
}
