// Package eval is the tree-walking evaluator behind the REPL. Runtime
// failures are diagnostics, not aborts: the offending expression
// yields Unit and the session continues.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/PeterGriffinSr/Vex/internal/ast"
)

// Evaluator walks a checked AST producing Values. Print output goes to
// out, runtime diagnostics to errw. Val bindings live in vars, which
// persists across Eval calls so a REPL session keeps its bindings from
// one line to the next.
type Evaluator struct {
	out  io.Writer
	errw io.Writer
	vars map[string]Value
}

// New creates an evaluator writing to stdout and stderr.
func New() *Evaluator {
	return NewWithOutput(os.Stdout, os.Stderr)
}

// NewWithOutput creates an evaluator with explicit streams.
func NewWithOutput(out, errw io.Writer) *Evaluator {
	return &Evaluator{out: out, errw: errw, vars: make(map[string]Value)}
}

func (e *Evaluator) runtimeError(format string, args ...interface{}) Value {
	fmt.Fprintf(e.errw, "Runtime error: "+format+"\n", args...)
	return UnitValue
}

// Eval evaluates one statement's tree.
func (e *Evaluator) Eval(n *ast.Node) Value {
	if n == nil {
		return UnitValue
	}

	switch n.Kind {
	case ast.IntLit:
		return Value{Kind: Int, Int: n.Int}
	case ast.FloatLit:
		return Value{Kind: Float, Float: n.Float}
	case ast.BoolLit:
		return Value{Kind: Bool, Bool: n.Bool}
	case ast.CharLit:
		return Value{Kind: Char, Char: n.Char}
	case ast.StringLit:
		return Value{Kind: String, Str: n.Str}

	case ast.Identifier:
		v, ok := e.vars[n.Str]
		if !ok {
			return e.runtimeError("unknown identifier '%s'", n.Str)
		}
		return v

	case ast.VarDecl:
		v := e.Eval(n.X)
		e.vars[n.Name] = v
		return v

	case ast.BinaryExpr:
		return e.evalBinary(n)

	case ast.Block:
		result := UnitValue
		for _, stmt := range n.Kids {
			result = e.Eval(stmt)
		}
		return result

	case ast.If:
		cond := e.Eval(n.Cond)
		if cond.Kind != Bool {
			return e.runtimeError("if condition is not a bool")
		}
		if cond.Bool {
			return e.Eval(n.Then)
		}
		if n.Else != nil {
			return e.Eval(n.Else)
		}
		return UnitValue

	case ast.Print:
		return e.evalPrint(n)

	default:
		return e.runtimeError("%s is not supported in the REPL", n.Kind)
	}
}

func (e *Evaluator) evalBinary(n *ast.Node) Value {
	left := e.Eval(n.Left)
	right := e.Eval(n.Right)
	op := n.Op

	switch {
	case left.Kind == Int && right.Kind == Int:
		switch op {
		case "+":
			return Value{Kind: Int, Int: left.Int + right.Int}
		case "-":
			return Value{Kind: Int, Int: left.Int - right.Int}
		case "*":
			return Value{Kind: Int, Int: left.Int * right.Int}
		case "/":
			if right.Int == 0 {
				return e.runtimeError("division by zero")
			}
			return Value{Kind: Int, Int: left.Int / right.Int}
		case "==":
			return Value{Kind: Bool, Bool: left.Int == right.Int}
		case "!=":
			return Value{Kind: Bool, Bool: left.Int != right.Int}
		case "<":
			return Value{Kind: Bool, Bool: left.Int < right.Int}
		case "<=":
			return Value{Kind: Bool, Bool: left.Int <= right.Int}
		case ">":
			return Value{Kind: Bool, Bool: left.Int > right.Int}
		case ">=":
			return Value{Kind: Bool, Bool: left.Int >= right.Int}
		}
		return e.runtimeError("unknown operator '%s'", op)

	case left.Kind == Float && right.Kind == Float:
		switch op {
		case "+.":
			return Value{Kind: Float, Float: left.Float + right.Float}
		case "-.":
			return Value{Kind: Float, Float: left.Float - right.Float}
		case "*.":
			return Value{Kind: Float, Float: left.Float * right.Float}
		case "/.":
			if right.Float == 0 {
				return e.runtimeError("division by zero")
			}
			return Value{Kind: Float, Float: left.Float / right.Float}
		case "==":
			return Value{Kind: Bool, Bool: left.Float == right.Float}
		case "!=":
			return Value{Kind: Bool, Bool: left.Float != right.Float}
		case "<":
			return Value{Kind: Bool, Bool: left.Float < right.Float}
		case "<=":
			return Value{Kind: Bool, Bool: left.Float <= right.Float}
		case ">":
			return Value{Kind: Bool, Bool: left.Float > right.Float}
		case ">=":
			return Value{Kind: Bool, Bool: left.Float >= right.Float}
		}
		return e.runtimeError("unknown operator '%s'", op)

	case left.Kind == Bool && right.Kind == Bool:
		switch op {
		case "&&":
			return Value{Kind: Bool, Bool: left.Bool && right.Bool}
		case "||":
			return Value{Kind: Bool, Bool: left.Bool || right.Bool}
		}
		return e.runtimeError("unknown operator '%s'", op)

	default:
		return e.runtimeError("unsupported operands to '%s'", op)
	}
}

func (e *Evaluator) evalPrint(n *ast.Node) Value {
	val := e.Eval(n.X)

	ok := false
	switch n.Annot {
	case "int":
		ok = val.Kind == Int
	case "float":
		ok = val.Kind == Float
	case "bool":
		ok = val.Kind == Bool
	case "char":
		ok = val.Kind == Char
	case "string":
		ok = val.Kind == String
	}
	if !ok {
		return e.runtimeError("print type <%s> does not match evaluated value kind", n.Annot)
	}

	fmt.Fprintf(e.out, "- : %s = %s\n", n.Annot, val)
	return UnitValue
}
