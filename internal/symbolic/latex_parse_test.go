package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLaTeX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"frac", `\frac{a \cdot b}{c}`, "a*b/c"},
		{"nested frac", `\frac{1}{2}`, "1/2"},
		{"sqrt", `\sqrt{a}`, "sqrt(a)"},
		{"indexed root", `\sqrt[3]{a}`, "root(a, 3)"},
		{"brace exponent", `x^{a + b}`, "x^(a + b)"},
		{"bare exponent", `x^2`, "x^2"},
		{"adjacency", `x^2 y`, "x^2*y"},
		{"number adjacency", `2\pi`, "2*pi"},
		{"delimited group", `\left(a + b\right)^{2}`, "(a + b)^2"},
		{"absolute value", `\left|a - b\right|`, "abs(a - b)"},
		{"trig command", `\sin\left(a\right)`, "sin(a)"},
		{"inverse trig alias", `\arcsin\left(x\right)`, "asin(x)"},
		{"operatorname", `\operatorname{sign}\left(x\right)`, "sign(x)"},
		{"exp as power of e", `e^{x}`, "e^x"},
		{"floor", `\left\lfloor x \right\rfloor`, "floor(x)"},
		{"leading minus", `-a + b`, "-a + b"},
		{"decimal", `1.5 \cdot a`, "1.5*a"},
		{"delta symbol", `\frac{Δa}{a}`, "Δa/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseLaTeX(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Simplify().String())
		})
	}
}

// Everything the renderer emits must parse back to an equal tree.
func TestParseLaTeXRoundTrip(t *testing.T) {
	inputs := []string{
		"a*b/c",
		"a/(b*c)",
		"sqrt(a)",
		"root(a, 3)",
		"a^(b - 1)",
		"(a + b)^2",
		"abs(a)",
		"sin(a)",
		"Δa/a + Δb/b",
		"1.5*a",
		"pi*r^2",
		"a - b*c",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			orig, err := Parse(in)
			require.NoError(t, err)
			want := orig.Simplify()

			back, err := ParseLaTeX(want.LaTeX())
			require.NoError(t, err)
			assert.True(t, want.Equal(back.Simplify()),
				"markup %q parsed back as %q", want.LaTeX(), back.Simplify())
		})
	}
}

func TestParseLaTeXErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   "},
		{"unclosed frac", `\frac{a}{`},
		{"unknown command", `\foo{x}`},
		{"dangling operator", `a +`},
		{"missing exponent", `a^`},
		{"mismatched right delimiter", `\left(a\right]`},
		{"operatorname with unknown name", `\operatorname{frob}(x)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLaTeX(tt.input)
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Positive(t, perr.Col)
		})
	}
}

func TestParseLaTeXPowerOfTenLiteral(t *testing.T) {
	f := FloatFrom(6.02e23, 3)

	back, err := ParseLaTeX(f.LaTeX())
	require.NoError(t, err)

	v, err := EvalFloat(back.Simplify(), 0)
	require.NoError(t, err)
	got, _ := v.Float64()
	assert.InEpsilon(t, 6.02e23, got, 1e-12)
}
