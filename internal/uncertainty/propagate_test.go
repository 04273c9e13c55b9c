package uncertainty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/deltaphys/errorlab/backend/internal/symbolic"
)

func derive(t *testing.T, vars []string, text string, positive []string) (abs, frac *Expression) {
	t.Helper()
	e, err := FromText(vars, text)
	require.NoError(t, err)
	abs, err = Absolute(e, positive, nil)
	require.NoError(t, err)
	frac, err = Fractional(e, abs)
	require.NoError(t, err)
	return abs, frac
}

func TestPropagation(t *testing.T) {
	tests := []struct {
		name     string
		vars     []string
		text     string
		positive []string
		wantAbs  string
		wantFrac string
	}{
		{
			name: "product and quotient",
			vars: []string{"a", "b", "c"}, text: "a*b/c",
			wantAbs:  "a*b*Δc/c^2 + a*Δb/c + b*Δa/c",
			wantFrac: "Δa/a + Δb/b + Δc/c",
		},
		{
			name: "symbolic exponent",
			vars: []string{"a"}, text: "a^b", positive: []string{"b"},
			wantAbs:  "a^(b - 1)*b*Δa",
			wantFrac: "b*Δa/a",
		},
		{
			name: "sums pass deltas through",
			vars: []string{"a", "b", "c"}, text: "a + b - c",
			wantAbs:  "Δa + Δb + Δc",
			wantFrac: "Δa/(a + b - c) + Δb/(a + b - c) + Δc/(a + b - c)",
		},
		{
			name: "constant coefficient collapses",
			vars: []string{"a"}, text: "c*a", positive: []string{"c"},
			wantAbs:  "c*Δa",
			wantFrac: "Δa/a",
		},
		{
			name: "unknown sign keeps the absolute value",
			vars: []string{"a"}, text: "c*a",
			wantAbs:  "abs(c)*Δa",
			wantFrac: "abs(c)*Δa/(a*c)",
		},
		{
			name: "square root",
			vars: []string{"a"}, text: "sqrt(a)",
			wantAbs:  "Δa/(2*sqrt(a))",
			wantFrac: "Δa/(2*a)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, frac := derive(t, tt.vars, tt.text, tt.positive)
			assert.Equal(t, tt.wantAbs, abs.DisplayString())
			assert.Equal(t, tt.wantFrac, frac.DisplayString())

			wantDeltas := make([]string, len(tt.vars))
			for i, v := range tt.vars {
				wantDeltas[i] = Delta(v)
			}
			assert.Equal(t, wantDeltas, abs.Vars())
			assert.Equal(t, wantDeltas, frac.Vars())
		})
	}
}

func TestAbsoluteNoVariables(t *testing.T) {
	e, err := FromText(nil, "pi")
	require.NoError(t, err)
	abs, err := Absolute(e, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "0", abs.DisplayString())
	assert.Empty(t, abs.Vars())
}

func TestAbsoluteErrors(t *testing.T) {
	t.Run("no derivative rule", func(t *testing.T) {
		e, err := FromText([]string{"a"}, "sign(a)")
		require.NoError(t, err)
		_, err = Absolute(e, nil, nil)
		require.Error(t, err)
		var derr *symbolic.DifferentiationError
		assert.ErrorAs(t, err, &derr)
	})

	t.Run("sign conflict with declared variable", func(t *testing.T) {
		e, err := FromText([]string{"a"}, "a^2")
		require.NoError(t, err)
		_, err = Absolute(e, nil, []string{"a"})
		require.Error(t, err)
		var cerr *symbolic.AssumptionConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "a", cerr.Name)
	})
}

// The derived absolute uncertainty must agree with a finite-difference
// gradient of the underlying function.
func TestAbsoluteMatchesNumericGradient(t *testing.T) {
	tests := []struct {
		name   string
		vars   []string
		text   string
		fn     func(x []float64) float64
		point  []float64
		deltas []float64
	}{
		{
			name: "quotient",
			vars: []string{"a", "b", "c"}, text: "a*b/c",
			fn:     func(x []float64) float64 { return x[0] * x[1] / x[2] },
			point:  []float64{2, 3, 4},
			deltas: []float64{0.1, 0.2, 0.3},
		},
		{
			name: "root times exponential",
			vars: []string{"a", "b"}, text: "sqrt(a)*exp(b)",
			fn:     func(x []float64) float64 { return math.Sqrt(x[0]) * math.Exp(x[1]) },
			point:  []float64{2.5, 0.5},
			deltas: []float64{0.05, 0.02},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := FromText(tt.vars, tt.text)
			require.NoError(t, err)
			abs, err := Absolute(e, nil, nil)
			require.NoError(t, err)

			values := make(map[string]float64, 2*len(tt.vars))
			for i, v := range tt.vars {
				values[v] = tt.point[i]
				values[Delta(v)] = tt.deltas[i]
			}
			res, err := abs.Evaluate(values, 12)
			require.NoError(t, err)
			fl, ok := res.(*symbolic.Float)
			require.True(t, ok, "expected a numeric result, got %s", res)
			got, _ := fl.Float().Float64()

			grad := fd.Gradient(nil, tt.fn, tt.point, nil)
			var want float64
			for i, g := range grad {
				want += math.Abs(g) * tt.deltas[i]
			}
			assert.InEpsilon(t, want, got, 1e-4)
		})
	}
}
