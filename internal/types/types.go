// Package types implements the Vex type system: descriptors, the
// annotation grammar, the persistent environment chain and the
// two-phase checker.
package types

import (
	"fmt"
	"strings"
)

// Kind tags a type descriptor.
type Kind uint8

const (
	Int Kind = iota
	Float
	Bool
	Char
	String
	List
	Func
	Error
)

// KindName returns the source-level spelling of a kind; Error and Func
// render as diagnostic placeholders.
func KindName(k Kind) string {
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
	case List:
		return "list"
	case Func:
		return "function"
	case Error:
		return "<error>"
	default:
		return "<invalid>"
	}
}

// Type is an immutable, arena-allocated type descriptor. Elem is set
// for List; Params and Return for Func.
type Type struct {
	Kind   Kind
	Elem   *Type
	Params []*Type
	Return *Type
}

func (t *Type) String() string {
	switch t.Kind {
	case List:
		return fmt.Sprintf("list<%s>", t.Elem)
	case Func:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Return)
	default:
		return KindName(t.Kind)
	}
}

// Equal reports structural equality on fully expanded types.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case List:
		return t.Elem.Equal(o.Elem)
	case Func:
		if len(t.Params) != len(o.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return t.Return.Equal(o.Return)
	default:
		return true
	}
}

var primitives = map[string]Kind{
	"int":    Int,
	"float":  Float,
	"bool":   Bool,
	"char":   Char,
	"string": String,
}

// maxInnerAnnotation caps the inner name of a list annotation.
const maxInnerAnnotation = 15
