package diff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symjit/symjit/internal/expr"
)

// evalNode evaluates an AST numerically; the tests use it to check
// derivative trees against closed-form expectations.
func evalNode(t *testing.T, n expr.Node, x float64) float64 {
	t.Helper()
	switch v := n.(type) {
	case *expr.Constant:
		return v.Value
	case *expr.Variable:
		return x
	case *expr.Unary:
		return -evalNode(t, v.Operand, x)
	case *expr.Binary:
		l, r := evalNode(t, v.Left, x), evalNode(t, v.Right, x)
		switch v.Op {
		case expr.OpAdd:
			return l + r
		case expr.OpSub:
			return l - r
		case expr.OpMul:
			return l * r
		case expr.OpDiv:
			return l / r
		case expr.OpPow:
			return math.Pow(l, r)
		}
	case *expr.Call:
		a := evalNode(t, v.Arg, x)
		switch v.Fn {
		case expr.FuncSin:
			return math.Sin(a)
		case expr.FuncCos:
			return math.Cos(a)
		case expr.FuncTan:
			return math.Tan(a)
		case expr.FuncExp:
			return math.Exp(a)
		case expr.FuncLog:
			return math.Log(a)
		case expr.FuncSqrt:
			return math.Sqrt(a)
		}
	}
	t.Fatalf("unexpected node %T", n)
	return 0
}

func mustParse(t *testing.T, input string) expr.Node {
	t.Helper()
	node, err := expr.Parse(input, "x")
	require.NoError(t, err)
	return node
}

func TestForward_KnownDerivatives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		at    float64
		want  float64
	}{
		{"constant", "42", 1, 0},
		{"variable", "x", 7, 1},
		{"square", "x^2", 3, 6},
		{"x^2 minus cos at 1", "x^2 - cos(x)", 1, 2 + math.Sin(1)},
		{"sin chain", "sin(x^2)", 1.5, math.Cos(2.25) * 3},
		{"cos", "cos(x)", 1, -math.Sin(1)},
		{"tan", "tan(x)", 0.5, 1 / (math.Cos(0.5) * math.Cos(0.5))},
		{"exp", "exp(x)", 2, math.Exp(2)},
		{"log", "log(x)", 2, 0.5},
		{"sqrt", "sqrt(x)", 4, 0.25},
		{"quotient", "x / (x + 1)", 1, 0.25},
		{"product", "x * sin(x)", 2, math.Sin(2) + 2*math.Cos(2)},
		{"constant base power", "2^x", 1, 2 * math.Log(2)},
		{"general power", "x^x", 2, 4 * (math.Log(2) + 1)},
		{"negation", "-x^2", 3, -6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Differentiate(mustParse(t, tt.input), "x", Forward)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, evalNode(t, d, tt.at), 1e-9)
		})
	}
}

func TestForwardReverse_Agree(t *testing.T) {
	// The two strategies exist to validate each other: their derivative
	// trees differ structurally but must agree numerically everywhere.
	exprs := []string{
		"x^2 - cos(x)",
		"sin(x^2)",
		"exp(x) * log(x)",
		"x^x",
		"sqrt(x) / (x + 2)",
		"tan(x / 4)",
		"(x + 1) * (x - 2) / (x*x + 1)",
		"2^x + x^3",
		"-sin(x) * cos(x)",
	}
	points := []float64{0.5, 1.0, 1.5, 2.0, 3.0, 4.5}

	for _, input := range exprs {
		t.Run(input, func(t *testing.T) {
			ast := mustParse(t, input)

			fwd, err := Differentiate(ast, "x", Forward)
			require.NoError(t, err)
			rev, err := Differentiate(ast, "x", Reverse)
			require.NoError(t, err)

			for _, x := range points {
				f := evalNode(t, fwd, x)
				r := evalNode(t, rev, x)
				assert.InDelta(t, f, r, 1e-9, "at x=%v", x)
			}
		})
	}
}

func TestDifferentiate_DoesNotMutateInput(t *testing.T) {
	ast := mustParse(t, "x^2 - cos(x)")
	before := ast.Normalize()

	_, err := Differentiate(ast, "x", Forward)
	require.NoError(t, err)
	_, err = Differentiate(ast, "x", Reverse)
	require.NoError(t, err)

	assert.Equal(t, before, ast.Normalize())
}

func TestDifferentiate_OtherVariableIsConstant(t *testing.T) {
	ast := mustParse(t, "x^2")
	d, err := Differentiate(ast, "y", Forward)
	require.NoError(t, err)
	assert.Equal(t, 0.0, evalNode(t, d, 3))

	d, err = Differentiate(ast, "y", Reverse)
	require.NoError(t, err)
	assert.Equal(t, 0.0, evalNode(t, d, 3))
}

func TestDifferentiate_SymbolicZeroDenominator(t *testing.T) {
	for _, mode := range []Mode{Forward, Reverse} {
		_, err := Differentiate(mustParse(t, "x / 0"), "x", mode)
		require.Error(t, err, mode.String())

		derr, ok := err.(*Error)
		require.True(t, ok)
		assert.Equal(t, DivisionByZeroSymbolic, derr.Kind)
	}
}

func TestDifferentiate_UnsupportedFunction(t *testing.T) {
	// The parser's closed enum makes this unreachable from text, but a
	// hand-built node with a rule-less variant must fail cleanly, not
	// panic.
	bad := &expr.Call{Fn: expr.Func(99), Arg: &expr.Variable{Name: "x"}}
	for _, mode := range []Mode{Forward, Reverse} {
		_, err := Differentiate(bad, "x", mode)
		require.Error(t, err, mode.String())

		derr, ok := err.(*Error)
		require.True(t, ok)
		assert.Equal(t, UnsupportedFunction, derr.Kind)
	}
}

func TestModeRoundTrip(t *testing.T) {
	assert.Equal(t, Forward, ParseMode("forward"))
	assert.Equal(t, Reverse, ParseMode("reverse"))
	assert.Equal(t, Forward, ParseMode("anything else"))
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "reverse", Reverse.String())
}
