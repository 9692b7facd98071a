package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint pretty-prints the tree rooted at n to w, indenting two spaces
// per level.
func Fprint(w io.Writer, n *Node, indent int) {
	if n == nil {
		return
	}

	pad := strings.Repeat("  ", indent)

	switch n.Kind {
	case IntLit:
		fmt.Fprintf(w, "%sIntLiteral: %d\n", pad, n.Int)
	case FloatLit:
		fmt.Fprintf(w, "%sFloatLiteral: %f\n", pad, n.Float)
	case BoolLit:
		v := 0
		if n.Bool {
			v = 1
		}
		fmt.Fprintf(w, "%sBoolLiteral: %d\n", pad, v)
	case CharLit:
		fmt.Fprintf(w, "%sCharLiteral: '%c'\n", pad, n.Char)
	case StringLit:
		fmt.Fprintf(w, "%sStringLiteral: %s\n", pad, n.Str)
	case Identifier:
		fmt.Fprintf(w, "%sIdentifier: %s\n", pad, n.Str)
	case UnaryExpr:
		fmt.Fprintf(w, "%sUnaryExpr: '%s'\n", pad, n.Op)
		Fprint(w, n.X, indent+1)
	case BinaryExpr:
		fmt.Fprintf(w, "%sBinaryOp: '%s'\n", pad, n.Op)
		Fprint(w, n.Left, indent+1)
		Fprint(w, n.Right, indent+1)
	case VarDecl:
		annot := n.Annot
		if annot == "" {
			annot = "<inferred>"
		}
		fmt.Fprintf(w, "%sVarDecl: Type: %s, Identifier: %s", pad, annot, n.Name)
		if n.X != nil {
			fmt.Fprintf(w, " =\n")
			Fprint(w, n.X, indent+1)
		} else {
			fmt.Fprintln(w)
		}
	case Block:
		fmt.Fprintf(w, "%sBlock:\n", pad)
		for _, stmt := range n.Kids {
			Fprint(w, stmt, indent+1)
		}
	case If:
		fmt.Fprintf(w, "%sIf:\n", pad)
		fmt.Fprintf(w, "%s  Condition:\n", pad)
		Fprint(w, n.Cond, indent+2)
		fmt.Fprintf(w, "%s  Then:\n", pad)
		Fprint(w, n.Then, indent+2)
		if n.Else != nil {
			fmt.Fprintf(w, "%s  Else:\n", pad)
			Fprint(w, n.Else, indent+2)
		}
	case List:
		fmt.Fprintf(w, "%sList:\n", pad)
		for _, elem := range n.Kids {
			Fprint(w, elem, indent+1)
		}
	case Print:
		fmt.Fprintf(w, "%sPrint:\n", pad)
		fmt.Fprintf(w, "%s  Type: %s\n", pad, n.Annot)
		Fprint(w, n.X, indent+2)
	case Function:
		fmt.Fprintf(w, "%sFunction: %s\n", pad, n.Name)
		ret := n.Annot
		if ret == "" {
			ret = "<inferred>"
		}
		fmt.Fprintf(w, "%s  Return Type: %s\n", pad, ret)
		fmt.Fprintf(w, "%s  Parameters:\n", pad)
		for i, name := range n.ParamNames {
			fmt.Fprintf(w, "%s    %s: %s\n", pad, name, n.ParamAnnots[i])
		}
		fmt.Fprintf(w, "%s  Body:\n", pad)
		Fprint(w, n.X, indent+2)
	case Call:
		fmt.Fprintf(w, "%sCall:\n", pad)
		Fprint(w, n.X, indent+1)
		for i, arg := range n.Kids {
			fmt.Fprintf(w, "%s  Arg %d:\n", pad, i)
			Fprint(w, arg, indent+2)
		}
	}
}

// Sprint renders the tree to a string; handy in tests and --emit-ast.
func Sprint(n *Node) string {
	var sb strings.Builder
	Fprint(&sb, n, 0)
	return sb.String()
}
