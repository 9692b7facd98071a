package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGriffinSr/Vex/internal/arena"
	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/lexer"
)

func parse(t *testing.T, input string) *ast.Node {
	t.Helper()
	fac := ast.NewFactory(arena.New(1 << 20))
	p := New(lexer.New(input, "test.vex"), fac)
	root, err := p.Parse()
	require.NoError(t, err)
	require.NotNil(t, root)
	require.Equal(t, ast.Block, root.Kind)
	return root
}

func parseErr(t *testing.T, input string) error {
	t.Helper()
	fac := ast.NewFactory(arena.New(1 << 20))
	p := New(lexer.New(input, "test.vex"), fac)
	_, err := p.Parse()
	require.Error(t, err)
	return err
}

func TestValDecl(t *testing.T) {
	root := parse(t, "val x : int = 1 + 2")
	require.Len(t, root.Kids, 1)

	decl := root.Kids[0]
	assert.Equal(t, ast.VarDecl, decl.Kind)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, "int", decl.Annot)

	init := decl.X
	require.Equal(t, ast.BinaryExpr, init.Kind)
	assert.Equal(t, "+", init.Op)
	assert.Equal(t, int64(1), init.Left.Int)
	assert.Equal(t, int64(2), init.Right.Int)
}

func TestValDeclWithoutAnnotation(t *testing.T) {
	root := parse(t, "val y = 3.5")
	decl := root.Kids[0]
	assert.Empty(t, decl.Annot)
	assert.Equal(t, ast.FloatLit, decl.X.Kind)
}

func TestListAnnotations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		annot string
	}{
		{"list form", "val xs : list<int> = [1,2,3]", "list<int>"},
		{"bare form", "val xs : <int> = [1,2,3]", "<int>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parse(t, tt.input)
			decl := root.Kids[0]
			assert.Equal(t, tt.annot, decl.Annot)
			require.Equal(t, ast.List, decl.X.Kind)
			assert.Len(t, decl.X.Kids, 3)
		})
	}
}

func TestFunction(t *testing.T) {
	root := parse(t, "fn rec fact(n: int) : int = if n <= 1 then 1 else n * fact(n-1)")
	fn := root.Kids[0]

	require.Equal(t, ast.Function, fn.Kind)
	assert.Equal(t, "fact", fn.Name)
	assert.True(t, fn.Recursive)
	assert.Equal(t, []string{"n"}, fn.ParamNames)
	assert.Equal(t, []string{"int"}, fn.ParamAnnots)
	assert.Equal(t, "int", fn.Annot)

	body := fn.X
	require.Equal(t, ast.If, body.Kind)
	assert.Equal(t, "<=", body.Cond.Op)
	require.Equal(t, ast.BinaryExpr, body.Else.Kind)
	require.Equal(t, ast.Call, body.Else.Right.Kind)
	assert.Equal(t, "fact", body.Else.Right.X.Str)
	require.Len(t, body.Else.Right.Kids, 1)
}

func TestFunctionUnannotatedParam(t *testing.T) {
	root := parse(t, "fn inc(x) : int = x + 1")
	fn := root.Kids[0]
	assert.Equal(t, []string{"x"}, fn.ParamNames)
	assert.Equal(t, []string{""}, fn.ParamAnnots)
	assert.False(t, fn.Recursive)
}

func TestPrint(t *testing.T) {
	root := parse(t, `print<string>("hi")`)
	pr := root.Kids[0]

	require.Equal(t, ast.Print, pr.Kind)
	assert.Equal(t, "string", pr.Annot)
	assert.Equal(t, ast.StringLit, pr.X.Kind)
	assert.Equal(t, "hi", pr.X.Str)
}

func TestPrintListAnnotation(t *testing.T) {
	root := parse(t, "print<list<int>>(xs)")
	pr := root.Kids[0]
	assert.Equal(t, "list<int>", pr.Annot)
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "BinaryOp: '+'\n  IntLiteral: 1\n  BinaryOp: '*'\n    IntLiteral: 2\n    IntLiteral: 3\n"},
		{"(1 + 2) * 3", "BinaryOp: '*'\n  BinaryOp: '+'\n    IntLiteral: 1\n    IntLiteral: 2\n  IntLiteral: 3\n"},
		{"1 < 2 && 3 < 4", "BinaryOp: '&&'\n  BinaryOp: '<'\n    IntLiteral: 1\n    IntLiteral: 2\n  BinaryOp: '<'\n    IntLiteral: 3\n    IntLiteral: 4\n"},
		{"1 - 2 - 3", "BinaryOp: '-'\n  BinaryOp: '-'\n    IntLiteral: 1\n    IntLiteral: 2\n  IntLiteral: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parse(t, tt.input)
			require.Len(t, root.Kids, 1)
			assert.Equal(t, tt.want, ast.Sprint(root.Kids[0]))
		})
	}
}

func TestUnary(t *testing.T) {
	root := parse(t, "-x")
	u := root.Kids[0]
	require.Equal(t, ast.UnaryExpr, u.Kind)
	assert.Equal(t, "-", u.Op)
	assert.Equal(t, "x", u.X.Str)
}

func TestMultipleStatements(t *testing.T) {
	root := parse(t, `
val x : int = 1
val y : int = 2
print<int>(x)
`)
	require.Len(t, root.Kids, 3)
	assert.Equal(t, ast.VarDecl, root.Kids[0].Kind)
	assert.Equal(t, ast.VarDecl, root.Kids[1].Kind)
	assert.Equal(t, ast.Print, root.Kids[2].Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing assign", "val x : int 1"},
		{"missing name", "val = 1"},
		{"unclosed list", "val xs = [1, 2"},
		{"unclosed call", "f(1"},
		{"bad token", "val x = $"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseErr(t, tt.input)
		})
	}
}
