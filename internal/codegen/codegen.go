// Package codegen lowers a type-checked Vex AST to LLVM IR. The
// checker has already excluded malformed programs, so lowering errors
// are diagnostics only: the offending node yields no value and the
// traversal continues.
package codegen

import (
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/PeterGriffinSr/Vex/internal/ast"
)

// Lowerer drives one module's lowering. It owns the insertion cursor,
// the name-to-slot table for the current function body, and the global
// string interner shared by literals and print format strings.
type Lowerer struct {
	mod    *ir.Module
	printf *ir.Func

	block *ir.Block
	vars  map[string]*ir.InstAlloca
	funcs map[string]*ir.Func

	strs map[string]*ir.Global
	nstr int

	errw io.Writer
}

// New creates a lowerer with a fresh module.
func New() *Lowerer {
	return &Lowerer{
		mod:   ir.NewModule(),
		vars:  make(map[string]*ir.InstAlloca),
		funcs: make(map[string]*ir.Func),
		strs:  make(map[string]*ir.Global),
		errw:  os.Stderr,
	}
}

// SetErrorOutput redirects lowering diagnostics, which default to
// stderr.
func (l *Lowerer) SetErrorOutput(w io.Writer) { l.errw = w }

// Module returns the module under construction.
func (l *Lowerer) Module() *ir.Module { return l.mod }

// Compile lowers the whole tree into a main function and returns the
// finished module. If the lowered root produced a value it becomes
// main's return value; otherwise main returns a 64-bit zero.
func (l *Lowerer) Compile(root *ast.Node) *ir.Module {
	main := l.mod.NewFunc("main", irtypes.I64)
	l.block = main.NewBlock("entry")

	v := l.lower(root)
	if v != nil {
		l.block.NewRet(v)
	} else {
		l.block.NewRet(constant.NewInt(irtypes.I64, 0))
	}
	return l.mod
}

// WriteFile serializes the module as textual IR.
func (l *Lowerer) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(l.mod.String()), 0o644); err != nil {
		return fmt.Errorf("writing IR to %s: %w", path, err)
	}
	return nil
}

func (l *Lowerer) errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.errw, "codegen error: "+format+"\n", args...)
}

// irType maps an annotation to its IR representation. Only the five
// primitives have one.
func (l *Lowerer) irType(annot string) irtypes.Type {
	switch annot {
	case "int":
		return irtypes.I64
	case "float":
		return irtypes.Double
	case "char":
		return irtypes.I8
	case "string":
		return irtypes.NewPointer(irtypes.I8)
	case "bool":
		return irtypes.I1
	default:
		return nil
	}
}

// internString returns a pointer to the first byte of a NUL-terminated
// global holding s, reusing the global when the same bytes were
// interned before.
func (l *Lowerer) internString(s string) value.Value {
	g, ok := l.strs[s]
	if !ok {
		name := ".str"
		if l.nstr > 0 {
			name = fmt.Sprintf(".str.%d", l.nstr)
		}
		l.nstr++
		g = l.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
		g.Linkage = enum.LinkagePrivate
		g.Immutable = true
		l.strs[s] = g
	}
	zero := constant.NewInt(irtypes.I64, 0)
	return l.block.NewGetElementPtr(g.ContentType, g, zero, zero)
}

// getPrintf returns the variadic printf declaration, creating it on
// first use.
func (l *Lowerer) getPrintf() *ir.Func {
	if l.printf == nil {
		l.printf = l.mod.NewFunc("printf", irtypes.I32,
			ir.NewParam("format", irtypes.NewPointer(irtypes.I8)))
		l.printf.Sig.Variadic = true
	}
	return l.printf
}

// lower walks the tree emitting instructions at the current cursor.
// A nil return means the node produced no value.
func (l *Lowerer) lower(n *ast.Node) value.Value {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case ast.IntLit:
		return constant.NewInt(irtypes.I64, n.Int)

	case ast.FloatLit:
		return constant.NewFloat(irtypes.Double, n.Float)

	case ast.CharLit:
		return constant.NewInt(irtypes.I8, int64(n.Char))

	case ast.BoolLit:
		v := int64(0)
		if n.Bool {
			v = 1
		}
		return constant.NewInt(irtypes.I1, v)

	case ast.StringLit:
		return l.internString(n.Str)

	case ast.BinaryExpr:
		return l.lowerBinary(n)

	case ast.Block:
		var result value.Value
		for _, stmt := range n.Kids {
			if v := l.lower(stmt); v != nil {
				result = v
			}
		}
		return result

	case ast.VarDecl:
		return l.lowerVarDecl(n)

	case ast.Identifier:
		slot, ok := l.vars[n.Str]
		if !ok {
			l.errorf("unknown identifier '%s'", n.Str)
			return nil
		}
		return l.block.NewLoad(slot.ElemType, slot)

	case ast.Print:
		return l.lowerPrint(n)

	case ast.If:
		return l.lowerIf(n)

	case ast.Function:
		l.lowerFunction(n)
		return nil

	case ast.Call:
		return l.lowerCall(n)

	default:
		l.errorf("unsupported node kind %s", n.Kind)
		return nil
	}
}

// lowerBinary selects the instruction from the operator symbol alone:
// the checker already guaranteed that '+' operands are ints and '+.'
// operands floats. Comparisons carry no int/float marker in their
// spelling, so they inspect the operand type instead.
func (l *Lowerer) lowerBinary(n *ast.Node) value.Value {
	left := l.lower(n.Left)
	right := l.lower(n.Right)
	if left == nil || right == nil {
		return nil
	}

	switch n.Op {
	case "+":
		return l.block.NewAdd(left, right)
	case "-":
		return l.block.NewSub(left, right)
	case "*":
		return l.block.NewMul(left, right)
	case "/":
		return l.block.NewSDiv(left, right)
	case "+.":
		return l.block.NewFAdd(left, right)
	case "-.":
		return l.block.NewFSub(left, right)
	case "*.":
		return l.block.NewFMul(left, right)
	case "/.":
		return l.block.NewFDiv(left, right)
	case "&&":
		return l.block.NewAnd(left, right)
	case "||":
		return l.block.NewOr(left, right)
	}

	isFloat := left.Type().Equal(irtypes.Double)
	if ipred, fpred, ok := comparePreds(n.Op); ok {
		if isFloat {
			return l.block.NewFCmp(fpred, left, right)
		}
		return l.block.NewICmp(ipred, left, right)
	}

	l.errorf("unsupported binary operator '%s'", n.Op)
	return nil
}

func comparePreds(op string) (enum.IPred, enum.FPred, bool) {
	switch op {
	case "==":
		return enum.IPredEQ, enum.FPredOEQ, true
	case "!=":
		return enum.IPredNE, enum.FPredONE, true
	case "<":
		return enum.IPredSLT, enum.FPredOLT, true
	case "<=":
		return enum.IPredSLE, enum.FPredOLE, true
	case ">":
		return enum.IPredSGT, enum.FPredOGT, true
	case ">=":
		return enum.IPredSGE, enum.FPredOGE, true
	}
	return 0, 0, false
}

// lowerVarDecl materializes a stack slot typed by the annotation (or
// by the initializer when the annotation was inferred), stores the
// initializer and records the slot.
func (l *Lowerer) lowerVarDecl(n *ast.Node) value.Value {
	init := l.lower(n.X)
	if init == nil {
		return nil
	}

	var typ irtypes.Type
	if n.Annot != "" {
		if typ = l.irType(n.Annot); typ == nil {
			l.errorf("unknown variable type '%s'", n.Annot)
			return nil
		}
	} else {
		typ = init.Type()
	}

	slot := l.block.NewAlloca(typ)
	slot.SetName(n.Name)
	l.block.NewStore(init, slot)
	l.vars[n.Name] = slot
	return slot
}

var printFormats = map[string]string{
	"int":    "%ld\n",
	"float":  "%lf\n",
	"char":   "%c\n",
	"string": "%s\n",
	"bool":   "%d\n",
}

func (l *Lowerer) lowerPrint(n *ast.Node) value.Value {
	val := l.lower(n.X)
	if val == nil {
		return nil
	}

	format, ok := printFormats[n.Annot]
	if !ok {
		l.errorf("unsupported print type '%s'", n.Annot)
		return nil
	}
	if n.Annot == "bool" {
		val = l.block.NewZExt(val, irtypes.I32)
	}

	printf := l.getPrintf()
	l.block.NewCall(printf, l.internString(format), val)
	return constant.NewInt(irtypes.I64, 0)
}

// lowerIf emits the usual diamond: both branches jump to a merge block
// whose phi carries the branch values.
func (l *Lowerer) lowerIf(n *ast.Node) value.Value {
	if n.Else == nil {
		l.errorf("if without else cannot be compiled")
		return nil
	}
	cond := l.lower(n.Cond)
	if cond == nil {
		return nil
	}

	f := l.block.Parent
	thenBlock := f.NewBlock("")
	elseBlock := f.NewBlock("")
	mergeBlock := f.NewBlock("")
	l.block.NewCondBr(cond, thenBlock, elseBlock)

	l.block = thenBlock
	thenVal := l.lower(n.Then)
	thenEnd := l.block
	thenEnd.NewBr(mergeBlock)

	l.block = elseBlock
	elseVal := l.lower(n.Else)
	elseEnd := l.block
	elseEnd.NewBr(mergeBlock)

	l.block = mergeBlock
	if thenVal == nil || elseVal == nil {
		return nil
	}
	return mergeBlock.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd))
}

// lowerFunction emits a definition: one stack slot per parameter, the
// body lowered under a fresh local table, and a return of the body's
// value. The caller's cursor and table are restored afterwards.
func (l *Lowerer) lowerFunction(n *ast.Node) {
	if n.Annot == "" {
		l.errorf("unsupported return type '%s'", n.Annot)
		return
	}
	retType := l.irType(n.Annot)
	if retType == nil {
		l.errorf("unsupported return type '%s'", n.Annot)
		return
	}

	params := make([]*ir.Param, len(n.ParamNames))
	for i, name := range n.ParamNames {
		pt := l.irType(n.ParamAnnots[i])
		if pt == nil {
			l.errorf("unsupported parameter type '%s'", n.ParamAnnots[i])
			return
		}
		params[i] = ir.NewParam(name, pt)
	}

	f := l.mod.NewFunc(n.Name, retType, params...)
	l.funcs[n.Name] = f

	savedBlock, savedVars := l.block, l.vars
	l.block = f.NewBlock("entry")
	l.vars = make(map[string]*ir.InstAlloca)

	for i, param := range params {
		slot := l.block.NewAlloca(param.Typ)
		slot.SetName(n.ParamNames[i])
		l.block.NewStore(param, slot)
		l.vars[n.ParamNames[i]] = slot
	}

	body := l.lower(n.X)
	if body == nil {
		l.errorf("function '%s' body produced no value", n.Name)
		body = zeroValue(retType)
	}
	l.block.NewRet(body)

	l.block, l.vars = savedBlock, savedVars
}

func zeroValue(t irtypes.Type) value.Value {
	switch {
	case t.Equal(irtypes.Double):
		return constant.NewFloat(irtypes.Double, 0)
	case t.Equal(irtypes.NewPointer(irtypes.I8)):
		return constant.NewNull(irtypes.NewPointer(irtypes.I8))
	default:
		it, ok := t.(*irtypes.IntType)
		if !ok {
			return constant.NewInt(irtypes.I64, 0)
		}
		return constant.NewInt(it, 0)
	}
}

func (l *Lowerer) lowerCall(n *ast.Node) value.Value {
	if n.X == nil || n.X.Kind != ast.Identifier {
		l.errorf("callee is not a function reference")
		return nil
	}
	f, ok := l.funcs[n.X.Str]
	if !ok {
		l.errorf("unknown function '%s'", n.X.Str)
		return nil
	}

	args := make([]value.Value, 0, len(n.Kids))
	for i, argNode := range n.Kids {
		arg := l.lower(argNode)
		if arg == nil {
			l.errorf("failed to lower argument %d", i)
			return nil
		}
		args = append(args, arg)
	}
	return l.block.NewCall(f, args...)
}
