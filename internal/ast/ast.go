// Package ast defines the Vex abstract syntax tree. Nodes form a
// closed tagged variant allocated from a single arena; they are built
// by the parser through a Factory and never mutated afterwards.
package ast

import "github.com/PeterGriffinSr/Vex/internal/arena"

// Kind tags a Node with the variant it carries.
type Kind uint8

const (
	IntLit Kind = iota
	FloatLit
	BoolLit
	CharLit
	StringLit
	Identifier
	VarDecl
	UnaryExpr
	BinaryExpr
	Block
	If
	List
	Print
	Function
	Call
)

var kindNames = [...]string{
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	BoolLit:    "BoolLit",
	CharLit:    "CharLit",
	StringLit:  "StringLit",
	Identifier: "Identifier",
	VarDecl:    "VarDecl",
	UnaryExpr:  "UnaryExpr",
	BinaryExpr: "BinaryExpr",
	Block:      "Block",
	If:         "If",
	List:       "List",
	Print:      "Print",
	Function:   "Function",
	Call:       "Call",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is one tagged variant of the tree. Only the fields belonging to
// the Kind are meaningful; everything else stays zero. Every pointer
// and string payload is arena-owned and shares the tree's lifetime.
//
//	IntLit      Int
//	FloatLit    Float
//	BoolLit     Bool
//	CharLit     Char
//	StringLit   Str
//	Identifier  Str
//	VarDecl     Name, Annot (may be empty), X (initializer)
//	UnaryExpr   Op, X
//	BinaryExpr  Op, Left, Right
//	Block       Kids
//	If          Cond, Then, Else (Else may be nil)
//	List        Kids
//	Print       X, Annot
//	Function    Name, ParamNames, ParamAnnots, Annot (return), X (body), Recursive
//	Call        X (callee), Kids (arguments)
type Node struct {
	Kind Kind

	Int   int64
	Float float64
	Bool  bool
	Char  byte
	Str   string

	Name  string
	Annot string
	Op    string

	Left  *Node
	Right *Node
	X     *Node
	Cond  *Node
	Then  *Node
	Else  *Node
	Kids  []*Node

	ParamNames  []string
	ParamAnnots []string
	Recursive   bool
}

// Param pairs a parameter name with its optional type annotation. An
// empty Annot means the annotation was omitted and is subject to
// back-inference during type checking.
type Param struct {
	Name  string
	Annot string
}

// Factory builds arena-allocated nodes. String payloads are always
// copied into the arena; the caller keeps its buffers.
type Factory struct {
	arena *arena.Arena
	nodes *arena.Pool[Node]
}

// NewFactory creates a factory allocating from a.
func NewFactory(a *arena.Arena) *Factory {
	return &Factory{arena: a, nodes: arena.NewPool[Node](a)}
}

// Arena returns the arena the factory allocates from.
func (f *Factory) Arena() *arena.Arena { return f.arena }

func (f *Factory) node(k Kind) *Node {
	n := f.nodes.New()
	n.Kind = k
	return n
}

func (f *Factory) kids(children []*Node) []*Node {
	if len(children) == 0 {
		return nil
	}
	ks := arena.Slice[*Node](f.arena, len(children))
	copy(ks, children)
	return ks
}

// IntLit builds a 64-bit integer literal.
func (f *Factory) IntLit(v int64) *Node {
	n := f.node(IntLit)
	n.Int = v
	return n
}

// FloatLit builds a floating-point literal.
func (f *Factory) FloatLit(v float64) *Node {
	n := f.node(FloatLit)
	n.Float = v
	return n
}

// BoolLit builds a boolean literal.
func (f *Factory) BoolLit(v bool) *Node {
	n := f.node(BoolLit)
	n.Bool = v
	return n
}

// CharLit builds an 8-bit character literal.
func (f *Factory) CharLit(c byte) *Node {
	n := f.node(CharLit)
	n.Char = c
	return n
}

// StringLit builds a string literal, copying the payload.
func (f *Factory) StringLit(s string) *Node {
	n := f.node(StringLit)
	n.Str = f.arena.String(s)
	return n
}

// Ident builds an identifier reference, copying the name.
func (f *Factory) Ident(name string) *Node {
	n := f.node(Identifier)
	n.Str = f.arena.String(name)
	return n
}

// VarDecl builds a val binding. annot may be empty when the declaration
// carries no type annotation.
func (f *Factory) VarDecl(name, annot string, init *Node) *Node {
	n := f.node(VarDecl)
	n.Name = f.arena.String(name)
	if annot != "" {
		n.Annot = f.arena.String(annot)
	}
	n.X = init
	return n
}

// Unary builds a unary expression.
func (f *Factory) Unary(op string, operand *Node) *Node {
	n := f.node(UnaryExpr)
	n.Op = f.arena.String(op)
	n.X = operand
	return n
}

// Binary builds a binary expression.
func (f *Factory) Binary(op string, left, right *Node) *Node {
	n := f.node(BinaryExpr)
	n.Op = f.arena.String(op)
	n.Left = left
	n.Right = right
	return n
}

// Block builds an ordered statement sequence. Empty blocks are legal.
func (f *Factory) Block(stmts []*Node) *Node {
	n := f.node(Block)
	n.Kids = f.kids(stmts)
	return n
}

// If builds a conditional. els may be nil when the branch is absent.
func (f *Factory) If(cond, then, els *Node) *Node {
	n := f.node(If)
	n.Cond = cond
	n.Then = then
	n.Else = els
	return n
}

// List builds a list literal. Empty lists are legal at parse time; the
// type checker rejects them.
func (f *Factory) List(elems []*Node) *Node {
	n := f.node(List)
	n.Kids = f.kids(elems)
	return n
}

// Print builds a print statement with its expected-type annotation.
func (f *Factory) Print(value *Node, annot string) *Node {
	n := f.node(Print)
	n.X = value
	n.Annot = f.arena.String(annot)
	return n
}

// Function builds a function definition. Parameter names and
// annotations are stored as two parallel arena arrays sized by the
// parameter count; zero parameters yield nil arrays. ret may be empty
// when the return annotation was omitted.
func (f *Factory) Function(name string, params []Param, ret string, body *Node, recursive bool) *Node {
	n := f.node(Function)
	n.Name = f.arena.String(name)
	if ret != "" {
		n.Annot = f.arena.String(ret)
	}
	if len(params) > 0 {
		names := arena.Slice[string](f.arena, len(params))
		annots := arena.Slice[string](f.arena, len(params))
		for i, p := range params {
			names[i] = f.arena.String(p.Name)
			annots[i] = f.arena.String(p.Annot)
		}
		n.ParamNames = names
		n.ParamAnnots = annots
	}
	n.X = body
	n.Recursive = recursive
	return n
}

// Call builds a function application.
func (f *Factory) Call(callee *Node, args []*Node) *Node {
	n := f.node(Call)
	n.X = callee
	n.Kids = f.kids(args)
	return n
}
