package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalF64(t *testing.T, e Expr) float64 {
	t.Helper()
	v, err := EvalFloat(e, 0)
	require.NoError(t, err)
	f, _ := v.Float64()
	return f
}

func TestEvalFloat(t *testing.T) {
	a := Symbol("a")

	tests := []struct {
		name string
		expr Expr
		want float64
	}{
		{"rational", Rat(1, 3), 1.0 / 3.0},
		{"sum", AddOf(Int(2), Rat(1, 2)), 2.5},
		{"power", PowOf(Int(2), Int(10)), 1024},
		{"sqrt", SqrtOf(Int(2)), math.Sqrt2},
		{"pi", Pi, math.Pi},
		{"euler", E, math.E},
		{"sin", CallOf("sin", DivOf(Pi, Int(2))), 1},
		{"ln", LnOf(E), 1},
		{"exp", ExpOf(Int(1)), math.E},
		{"abs", AbsOf(Int(-3)), 3},
		{"negative base integer exp", PowOf(Int(-2), Int(3)), -8},
		{"substituted", PowOf(a, Int(2)).Sub("a", Int(7)), 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, evalF64(t, tt.expr), 1e-12)
		})
	}
}

func TestEvalFloatErrors(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
	}{
		{"unbound symbol", Symbol("a")},
		{"division by zero", &Pow{base: Int(0), exp: Int(-1)}},
		{"ln of negative", &Call{name: "ln", arg: Int(-1)}},
		{"negative base fractional exp", &Pow{base: Int(-2), exp: Rat(1, 2)}},
		{"asin domain", &Call{name: "asin", arg: Int(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvalFloat(tt.expr, 0)
			require.Error(t, err)
			if tt.name != "unbound symbol" {
				var everr *EvaluationError
				assert.ErrorAs(t, err, &everr)
			}
		})
	}
}

func TestRoundSig(t *testing.T) {
	v, err := EvalFloat(DivOf(Int(2), Int(3)), 0)
	require.NoError(t, err)
	rounded := RoundSig(v, 3)
	assert.Equal(t, "0.667", NewFloat(rounded, 3).String())

	v, err = EvalFloat(MulOf(Pi, Int(1000)), 0)
	require.NoError(t, err)
	assert.Equal(t, "3.14e+03", NewFloat(RoundSig(v, 3), 3).String())
}

func TestContainsInexact(t *testing.T) {
	a := Symbol("a")
	assert.False(t, ContainsInexact(AddOf(Int(1), Rat(1, 2), a)))
	assert.True(t, ContainsInexact(AddOf(a, Pi)))
	assert.True(t, ContainsInexact(FloatFrom(1.5, 0)))
	assert.True(t, ContainsInexact(SqrtOf(Int(2))))
	assert.True(t, ContainsInexact(CallOf("sin", a)))
}
