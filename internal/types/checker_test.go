package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PeterGriffinSr/Vex/internal/arena"
	"github.com/PeterGriffinSr/Vex/internal/ast"
	"github.com/PeterGriffinSr/Vex/internal/lexer"
	"github.com/PeterGriffinSr/Vex/internal/parser"
)

// checkString parses and type-checks one program.
func checkString(t *testing.T, input string) (*Type, error) {
	t.Helper()
	a := arena.New(1 << 20)
	p := parser.New(lexer.New(input, "test.vex"), ast.NewFactory(a))
	root, err := p.Parse()
	require.NoError(t, err)
	return NewChecker(a).Check(root)
}

func TestLiteralKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{"1", Int},
		{"3.14", Float},
		{"true", Bool},
		{"'c'", Char},
		{`"hi"`, String},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := checkString(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, typ.Kind)
		})
	}
}

func TestIntAddition(t *testing.T) {
	typ, err := checkString(t, "val x : int = 1 + 2")
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)
}

func TestMixedArithmeticFails(t *testing.T) {
	_, err := checkString(t, "val x : int = 1 +. 2.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands to '+.' must both be float")
}

func TestOperatorTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    Kind
		wantErr string
	}{
		{"int arith", "1 * 2 - 3 / 4", Int, ""},
		{"float arith", "1.0 *. 2.0 -. 3.0 /. 4.0", Float, ""},
		{"int comparison", "1 < 2", Bool, ""},
		{"float comparison", "1.0 >= 2.0", Bool, ""},
		{"logic", "true && false || true", Bool, ""},
		{"int op on floats", "1.0 + 2.0", 0, "must both be int"},
		{"comparison on strings", `"a" == "b"`, 0, "Comparison operators require int or float operands"},
		{"mixed comparison", "1 < 2.0", 0, "Comparison operators require int or float operands"},
		{"logic on ints", "1 && 2", 0, "Logical operators require bool operands"},
		{"modulo unsupported", "1 % 2", 0, "Unsupported binary operator '%'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := checkString(t, tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, typ.Kind)
		})
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	_, err := checkString(t, "x + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined identifier: x")

	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, UndefinedIdentifier, cerr.Kind)
}

func TestValBindingVisibleToSiblings(t *testing.T) {
	typ, err := checkString(t, `
val x : int = 1
val y : int = x + 1
`)
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)
}

func TestValAnnotationMismatch(t *testing.T) {
	_, err := checkString(t, "val x : int = 1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Type mismatch in val binding")
}

func TestListHomogeneity(t *testing.T) {
	typ, err := checkString(t, "val xs : list<int> = [1,2,3]")
	require.NoError(t, err)
	require.Equal(t, List, typ.Kind)
	assert.Equal(t, Int, typ.Elem.Kind)

	_, err = checkString(t, "[1, 2.0]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "All list elements must have the same type")
}

func TestEmptyList(t *testing.T) {
	_, err := checkString(t, "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot infer type of empty list")
}

func TestPrintMismatch(t *testing.T) {
	_, err := checkString(t, `print<int>("hi")`)
	require.Error(t, err)

	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindMismatch, cerr.Kind)
}

func TestPrintOk(t *testing.T) {
	typ, err := checkString(t, "print<int>(1 + 2)")
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)
}

func TestRecursiveFunction(t *testing.T) {
	typ, err := checkString(t, "fn rec fact(n: int) : int = if n <= 1 then 1 else n * fact(n-1)")
	require.NoError(t, err)
	require.Equal(t, Func, typ.Kind)
	require.Len(t, typ.Params, 1)
	assert.Equal(t, Int, typ.Params[0].Kind)
	assert.Equal(t, Int, typ.Return.Kind)
}

func TestParameterBackInference(t *testing.T) {
	typ, err := checkString(t, "fn inc(x) : int = x + 1")
	require.NoError(t, err)
	require.Equal(t, Func, typ.Kind)
	assert.Equal(t, Int, typ.Params[0].Kind)
}

func TestBackInferenceFlowsToCallSites(t *testing.T) {
	typ, err := checkString(t, `
fn inc(x) : int = x + 1
val y : int = inc(2)
`)
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)
}

func TestUninferrableParameter(t *testing.T) {
	_, err := checkString(t, "fn id(x) : int = 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not infer a type for parameter 'x'")
}

func TestFunctionBodyReturnMismatch(t *testing.T) {
	_, err := checkString(t, "fn f(n: int) : float = n + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match its return type")
}

func TestMissingReturnAnnotation(t *testing.T) {
	_, err := checkString(t, "fn f(n: int) = n + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a return type annotation")
}

func TestCallArity(t *testing.T) {
	_, err := checkString(t, `
fn add(a: int, b: int) : int = a + b
val x = add(1)
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Call expects 2 arguments, got 1")
}

func TestCallArgumentKind(t *testing.T) {
	_, err := checkString(t, `
fn add(a: int, b: int) : int = a + b
val x = add(1, 2.0)
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Argument 2")
}

func TestCallNonFunction(t *testing.T) {
	_, err := checkString(t, `
val x : int = 3
val y = x(1)
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Called value is not a function")
}

func TestForwardReference(t *testing.T) {
	// The pre-binding pass makes later siblings visible.
	typ, err := checkString(t, `
val y : int = double(4)
fn double(n: int) : int = n * 2
`)
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)
}

func TestIfRules(t *testing.T) {
	typ, err := checkString(t, "if 1 < 2 then 10 else 20")
	require.NoError(t, err)
	assert.Equal(t, Int, typ.Kind)

	_, err = checkString(t, "if 1 then 2 else 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "If condition must be bool")

	_, err = checkString(t, "if true then 2 else 3.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "If branches must have the same type")
}

func TestUnaryUnsupported(t *testing.T) {
	_, err := checkString(t, "-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestBlockTypeIsLastStatement(t *testing.T) {
	typ, err := checkString(t, `
val x : int = 1
3.14
`)
	require.NoError(t, err)
	assert.Equal(t, Float, typ.Kind)
}

func TestAnnotationRoundTrip(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	for _, name := range []string{"int", "float", "bool", "char", "string"} {
		t.Run(name, func(t *testing.T) {
			typ, err := c.ParseAnnotation(name)
			require.NoError(t, err)
			assert.Equal(t, name, typ.String())

			listTyp, err := c.ParseAnnotation("list<" + name + ">")
			require.NoError(t, err)
			assert.Equal(t, "list<"+name+">", listTyp.String())
		})
	}
}

func TestAnnotationErrors(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	tests := []struct {
		name  string
		annot string
	}{
		{"unknown name", "integer"},
		{"unknown inner", "list<frob>"},
		{"overlong inner", "list<aaaaaaaaaaaaaaaaaaaaaaaa>"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseAnnotation(tt.annot)
			require.Error(t, err)
		})
	}
}

func TestBareListAnnotation(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	typ, err := c.ParseAnnotation("<int>")
	require.NoError(t, err)
	require.Equal(t, List, typ.Kind)
	assert.Equal(t, Int, typ.Elem.Kind)
}

func TestTypeEquality(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	li1, err := c.ParseAnnotation("list<int>")
	require.NoError(t, err)
	li2, err := c.ParseAnnotation("list<int>")
	require.NoError(t, err)
	lf, err := c.ParseAnnotation("list<float>")
	require.NoError(t, err)

	assert.True(t, li1.Equal(li2))
	assert.False(t, li1.Equal(lf))
}

func TestEnvShadowing(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	var env *Env
	env = c.bind(env, "x", c.make(Int))
	inner := c.bind(env, "x", c.make(Float))

	assert.Equal(t, Float, inner.Lookup("x").Kind)
	// The original chain is untouched.
	assert.Equal(t, Int, env.Lookup("x").Kind)
}

func TestEnvUpdateOnlyRewritesPlaceholders(t *testing.T) {
	a := arena.New(1 << 20)
	c := NewChecker(a)

	var env *Env
	env = c.bind(env, "x", c.make(Error))
	require.True(t, env.update("x", c.make(Int)))
	assert.Equal(t, Int, env.Lookup("x").Kind)

	// A second rewrite must be refused.
	assert.False(t, env.update("x", c.make(Float)))
	assert.Equal(t, Int, env.Lookup("x").Kind)
}
