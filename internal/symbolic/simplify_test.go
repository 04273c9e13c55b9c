package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSimplify(t *testing.T) {
	a, b := Symbol("a"), Symbol("b")

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"identity", AddOf(a, Int(0)), "a"},
		{"fold constants", AddOf(Int(2), Int(3)), "5"},
		{"collect like terms", AddOf(a, a, a), "3*a"},
		{"cancel", AddOf(a, NegOf(a)), "0"},
		{"mixed", AddOf(MulOf(Int(2), a), b, MulOf(Int(-2), a)), "b"},
		{"constant last", AddOf(Int(1), a), "a + 1"},
		{"nested flatten", AddOf(AddOf(a, b), AddOf(a, Int(1))), "2*a + b + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestMulSimplify(t *testing.T) {
	a, b, c := Symbol("a"), Symbol("b"), Symbol("c")

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"identity", MulOf(a, Int(1)), "a"},
		{"zero annihilates", MulOf(a, Int(0), b), "0"},
		{"fold coefficient", MulOf(Int(2), a, Int(3)), "6*a"},
		{"merge like bases", MulOf(a, a), "a^2"},
		{"cancel reciprocal", MulOf(a, PowOf(a, Int(-1))), "1"},
		{"deterministic order", MulOf(c, a, b), "a*b*c"},
		{"negative coefficient", MulOf(Int(-1), a), "-a"},
		{"rational coefficient", MulOf(Rat(2, 3), a), "2*a/3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestMulMergesSymbolicExponents(t *testing.T) {
	a, b := Symbol("a"), Symbol("b")

	// a^(b-1) * a^(-b) = a^(-1)
	e := MulOf(PowOf(a, SubOf(b, Int(1))), PowOf(a, NegOf(b)))
	assert.Equal(t, "1/a", e.String())

	// sqrt roots recombine to an exact value
	r := MulOf(SqrtOf(Int(2)), SqrtOf(Int(2)))
	assert.Equal(t, "2", r.String())
}

func TestPowSimplify(t *testing.T) {
	a, b := Symbol("a"), Symbol("b")

	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"exp zero", PowOf(a, Int(0)), "1"},
		{"exp one", PowOf(a, Int(1)), "a"},
		{"base one", PowOf(Int(1), b), "1"},
		{"base zero", PowOf(Int(0), Int(3)), "0"},
		{"exact fold", PowOf(Int(2), Int(10)), "1024"},
		{"exact negative fold", PowOf(Int(2), Int(-2)), "1/4"},
		{"distribute over product", PowOf(MulOf(a, b), Int(2)), "a^2*b^2"},
		{"power of power", PowOf(PowOf(a, b), Int(-1)), "a^(-b)"},
		{"irrational stays exact", PowOf(Int(2), Rat(1, 2)), "sqrt(2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestZeroToZeroStaysPut(t *testing.T) {
	e := PowOf(Int(0), Int(0))
	assert.Equal(t, KindPow, e.Kind())
}

func TestSimplifyIsDeterministic(t *testing.T) {
	a, b, c := Symbol("a"), Symbol("b"), Symbol("c")
	x := MulOf(c, PowOf(b, Int(-1)), a, AddOf(b, c, a))
	y := MulOf(AddOf(a, c, b), a, PowOf(b, Int(-1)), c)
	assert.Equal(t, x.String(), y.String())
	assert.True(t, x.Equal(y))
}

func TestSubstitution(t *testing.T) {
	a, b := Symbol("a"), Symbol("b")

	e := AddOf(MulOf(a, b), PowOf(a, Int(2)))
	got := e.Sub("a", Int(2))
	assert.Equal(t, "2*b + 4", got.String())

	// unknown names are a no-op
	same := e.Sub("zz", Int(5))
	assert.True(t, e.Equal(same))
}

func TestFreeSymbols(t *testing.T) {
	e := AddOf(MulOf(Symbol("a"), Symbol("b")), CallOf("sin", Symbol("c")), Pi)
	got := FreeSymbols(e)
	assert.Len(t, got, 3)
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "b")
	assert.Contains(t, got, "c")
	assert.True(t, HasSymbols(e))
	assert.False(t, HasSymbols(Pi))
}
