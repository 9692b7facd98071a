package types

import (
	"strings"

	"github.com/PeterGriffinSr/Vex/internal/arena"
	"github.com/PeterGriffinSr/Vex/internal/ast"
)

// Checker validates an AST against the Vex typing rules. Descriptors
// and environment frames are drawn from the compilation's arena, so
// everything the checker builds shares the tree's lifetime.
//
// Checking is abort-on-first: the first rule violation is returned
// immediately and no Error type ever escapes to the caller.
type Checker struct {
	arena  *arena.Arena
	types  *arena.Pool[Type]
	frames *arena.Pool[Env]
}

// NewChecker creates a checker allocating from a.
func NewChecker(a *arena.Arena) *Checker {
	return &Checker{
		arena:  a,
		types:  arena.NewPool[Type](a),
		frames: arena.NewPool[Env](a),
	}
}

func (c *Checker) make(k Kind) *Type {
	t := c.types.New()
	t.Kind = k
	return t
}

func (c *Checker) makeList(elem *Type) *Type {
	t := c.make(List)
	t.Elem = elem
	return t
}

func (c *Checker) bind(env *Env, name string, t *Type) *Env {
	frame := c.frames.New()
	frame.name = name
	frame.typ = t
	frame.next = env
	return frame
}

// ParseAnnotation resolves a type annotation string: one of the five
// primitive names, list<T>, or the <T> shorthand, where T is a
// primitive name of at most 15 characters.
func (c *Checker) ParseAnnotation(s string) (*Type, error) {
	if k, ok := primitives[s]; ok {
		return c.make(k), nil
	}

	var inner string
	switch {
	case strings.HasPrefix(s, "list<") && strings.HasSuffix(s, ">"):
		inner = s[len("list<") : len(s)-1]
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		inner = s[1 : len(s)-1]
	default:
		return nil, errf(UnknownAnnotation, "Unknown type annotation: %s", s)
	}

	if len(inner) > maxInnerAnnotation {
		return nil, errf(UnknownAnnotation, "Unknown inner list type")
	}
	k, ok := primitives[inner]
	if !ok {
		return nil, errf(UnknownAnnotation, "Unknown inner list type")
	}
	return c.makeList(c.make(k)), nil
}

// Check validates the tree rooted at root. When root is a Block the
// top level is checked in two phases: a pre-binding pass registers
// function and value bindings so later siblings (and simple
// self-recursion) can refer to them, then every child is checked in
// order. Any other root is checked directly under an empty
// environment.
func (c *Checker) Check(root *ast.Node) (*Type, error) {
	if root == nil {
		return nil, errf(Unsupported, "Nothing to check")
	}
	if root.Kind == ast.Block {
		env, err := c.prebind(root)
		if err != nil {
			return nil, err
		}
		return c.checkBlock(root, env)
	}
	return c.checkExpr(root, nil)
}

// prebind scans the direct children of the root block and registers
// their top-level bindings without descending into function bodies.
func (c *Checker) prebind(root *ast.Node) (*Env, error) {
	var env *Env
	for _, stmt := range root.Kids {
		switch stmt.Kind {
		case ast.Function:
			ft, err := c.functionType(stmt)
			if err != nil {
				return nil, err
			}
			env = c.bind(env, stmt.Name, ft)
		case ast.VarDecl:
			if stmt.Annot != "" {
				t, err := c.ParseAnnotation(stmt.Annot)
				if err != nil {
					return nil, err
				}
				env = c.bind(env, stmt.Name, t)
			} else {
				t, err := c.checkExpr(stmt.X, env)
				if err != nil {
					return nil, err
				}
				env = c.bind(env, stmt.Name, t)
			}
		}
	}
	return env, nil
}

// functionType builds a function's declared type from its annotations.
// A parameter without an annotation gets the Error placeholder that
// back-inference later resolves.
func (c *Checker) functionType(n *ast.Node) (*Type, error) {
	if n.Annot == "" {
		return nil, errf(UnknownAnnotation, "Function '%s' is missing a return type annotation", n.Name)
	}
	ret, err := c.ParseAnnotation(n.Annot)
	if err != nil {
		return nil, err
	}
	if len(n.ParamNames) == 0 {
		return nil, errf(ArityMismatch, "Function '%s' must declare at least one parameter", n.Name)
	}

	params := arena.Slice[*Type](c.arena, len(n.ParamNames))
	for i, annot := range n.ParamAnnots {
		if annot == "" {
			params[i] = c.make(Error)
			continue
		}
		if params[i], err = c.ParseAnnotation(annot); err != nil {
			return nil, err
		}
	}

	ft := c.make(Func)
	ft.Params = params
	ft.Return = ret
	return ft, nil
}

func (c *Checker) checkBlock(n *ast.Node, env *Env) (*Type, error) {
	if len(n.Kids) == 0 {
		return nil, errf(Unsupported, "Empty block has no type")
	}

	var last *Type
	for _, stmt := range n.Kids {
		t, err := c.checkExpr(stmt, env)
		if err != nil {
			return nil, err
		}
		last = t

		if stmt.Kind == ast.VarDecl {
			binding := t
			if stmt.Annot != "" {
				if binding, err = c.ParseAnnotation(stmt.Annot); err != nil {
					return nil, err
				}
			}
			env = c.bind(env, stmt.Name, binding)
		}
	}
	return last, nil
}

func (c *Checker) checkExpr(n *ast.Node, env *Env) (*Type, error) {
	switch n.Kind {
	case ast.IntLit:
		return c.make(Int), nil
	case ast.FloatLit:
		return c.make(Float), nil
	case ast.BoolLit:
		return c.make(Bool), nil
	case ast.CharLit:
		return c.make(Char), nil
	case ast.StringLit:
		return c.make(String), nil

	case ast.Identifier:
		t := env.Lookup(n.Str)
		if t == nil {
			return nil, errf(UndefinedIdentifier, "Undefined identifier: %s", n.Str)
		}
		return t, nil

	case ast.BinaryExpr:
		return c.checkBinary(n, env)

	case ast.UnaryExpr:
		return nil, errf(Unsupported, "Unary operator '%s' is not supported", n.Op)

	case ast.VarDecl:
		vt, err := c.checkExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		if n.Annot != "" {
			at, err := c.ParseAnnotation(n.Annot)
			if err != nil {
				return nil, err
			}
			if at.Kind != vt.Kind {
				return nil, errf(KindMismatch, "Type mismatch in val binding")
			}
			return at, nil
		}
		return vt, nil

	case ast.Block:
		return c.checkBlock(n, env)

	case ast.If:
		return c.checkIf(n, env)

	case ast.List:
		if len(n.Kids) == 0 {
			return nil, errf(EmptyList, "Cannot infer type of empty list")
		}
		first, err := c.checkExpr(n.Kids[0], env)
		if err != nil {
			return nil, err
		}
		for _, elem := range n.Kids[1:] {
			t, err := c.checkExpr(elem, env)
			if err != nil {
				return nil, err
			}
			if t.Kind != first.Kind {
				return nil, errf(KindMismatch, "All list elements must have the same type")
			}
		}
		return c.makeList(first), nil

	case ast.Print:
		vt, err := c.checkExpr(n.X, env)
		if err != nil {
			return nil, err
		}
		at, err := c.ParseAnnotation(n.Annot)
		if err != nil {
			return nil, err
		}
		if at.Kind != vt.Kind {
			return nil, errf(KindMismatch, "Print type <%s> does not match value of type %s", n.Annot, vt)
		}
		return vt, nil

	case ast.Function:
		return c.checkFunction(n, env)

	case ast.Call:
		return c.checkCall(n, env)

	default:
		return nil, errf(Unsupported, "Unsupported expression kind %s", n.Kind)
	}
}

func (c *Checker) checkBinary(n *ast.Node, env *Env) (*Type, error) {
	lt, err := c.checkExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	rt, err := c.checkExpr(n.Right, env)
	if err != nil {
		return nil, err
	}

	// Back-inference: an Error placeholder paired with a concrete
	// operand takes the kind the operator table demands of it. The
	// environment rewrite happens at most once per parameter.
	if lt.Kind == Error && rt.Kind != Error && n.Left.Kind == ast.Identifier {
		if inf := c.inferFromOp(n.Op, rt); inf != nil && env.update(n.Left.Str, inf) {
			lt = inf
		}
	}
	if rt.Kind == Error && lt.Kind != Error && n.Right.Kind == ast.Identifier {
		if inf := c.inferFromOp(n.Op, lt); inf != nil && env.update(n.Right.Str, inf) {
			rt = inf
		}
	}

	return c.binaryType(n.Op, lt, rt)
}

// inferFromOp reads the operator table in reverse: given one concrete
// operand, it yields the type the other side must have, or nil when
// the operator fixes nothing.
func (c *Checker) inferFromOp(op string, other *Type) *Type {
	switch op {
	case "+", "-", "*", "/":
		return c.make(Int)
	case "+.", "-.", "*.", "/.":
		return c.make(Float)
	case "==", "!=", "<", "<=", ">", ">=":
		if other.Kind == Int || other.Kind == Float {
			return c.make(other.Kind)
		}
		return nil
	case "&&", "||":
		return c.make(Bool)
	}
	return nil
}

func (c *Checker) binaryType(op string, lt, rt *Type) (*Type, error) {
	switch op {
	case "+", "-", "*", "/":
		if lt.Kind == Int && rt.Kind == Int {
			return c.make(Int), nil
		}
		return nil, errf(KindMismatch, "Operands to '%s' must both be int", op)
	case "+.", "-.", "*.", "/.":
		if lt.Kind == Float && rt.Kind == Float {
			return c.make(Float), nil
		}
		return nil, errf(KindMismatch, "Operands to '%s' must both be float", op)
	case "==", "!=", "<", "<=", ">", ">=":
		if (lt.Kind == Int && rt.Kind == Int) || (lt.Kind == Float && rt.Kind == Float) {
			return c.make(Bool), nil
		}
		return nil, errf(KindMismatch, "Comparison operators require int or float operands")
	case "&&", "||":
		if lt.Kind == Bool && rt.Kind == Bool {
			return c.make(Bool), nil
		}
		return nil, errf(KindMismatch, "Logical operators require bool operands")
	default:
		return nil, errf(UnsupportedOperator, "Unsupported binary operator '%s'", op)
	}
}

func (c *Checker) checkIf(n *ast.Node, env *Env) (*Type, error) {
	ct, err := c.checkExpr(n.Cond, env)
	if err != nil {
		return nil, err
	}
	if ct.Kind != Bool {
		return nil, errf(KindMismatch, "If condition must be bool")
	}
	tt, err := c.checkExpr(n.Then, env)
	if err != nil {
		return nil, err
	}
	if n.Else != nil {
		et, err := c.checkExpr(n.Else, env)
		if err != nil {
			return nil, err
		}
		if et.Kind != tt.Kind {
			return nil, errf(KindMismatch, "If branches must have the same type")
		}
	}
	return tt, nil
}

// checkFunction validates a function definition. The function's
// declared type is bound in the outer environment first so the body
// can call it; the body is then checked under the parameters, and any
// placeholder a parameter still carries afterwards is a failure.
func (c *Checker) checkFunction(n *ast.Node, env *Env) (*Type, error) {
	// The pre-binding pass may already have registered this function;
	// resolving that same descriptor lets later siblings observe
	// back-inferred parameter types.
	ft := env.Lookup(n.Name)
	outer := env
	if ft == nil || ft.Kind != Func || len(ft.Params) != len(n.ParamNames) {
		var err error
		if ft, err = c.functionType(n); err != nil {
			return nil, err
		}
		outer = c.bind(env, n.Name, ft)
	}

	body := outer
	for i, name := range n.ParamNames {
		body = c.bind(body, name, ft.Params[i])
	}

	bt, err := c.checkExpr(n.X, body)
	if err != nil {
		return nil, err
	}

	for i, name := range n.ParamNames {
		resolved := body.Lookup(name)
		if resolved == nil || resolved.Kind == Error {
			return nil, errf(UninferredParameter, "Could not infer a type for parameter '%s'", name)
		}
		ft.Params[i] = resolved
	}

	if bt.Kind != ft.Return.Kind {
		return nil, errf(KindMismatch, "Body of function '%s' does not match its return type", n.Name)
	}
	return ft, nil
}

func (c *Checker) checkCall(n *ast.Node, env *Env) (*Type, error) {
	ct, err := c.checkExpr(n.X, env)
	if err != nil {
		return nil, err
	}
	if ct.Kind != Func {
		return nil, errf(KindMismatch, "Called value is not a function")
	}
	if len(n.Kids) != len(ct.Params) {
		return nil, errf(ArityMismatch, "Call expects %d arguments, got %d", len(ct.Params), len(n.Kids))
	}
	for i, arg := range n.Kids {
		at, err := c.checkExpr(arg, env)
		if err != nil {
			return nil, err
		}
		if at.Kind != ct.Params[i].Kind {
			return nil, errf(KindMismatch, "Argument %d has kind %s, expected %s",
				i+1, KindName(at.Kind), KindName(ct.Params[i].Kind))
		}
	}
	return ct.Return, nil
}
