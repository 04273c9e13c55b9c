package uncertainty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltaphys/errorlab/backend/internal/symbolic"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		vars []string
	}{
		{"blank name", []string{"a", " "}},
		{"duplicate name", []string{"a", "b", "a"}},
		{"delta collision", []string{"a", "Δa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vars, symbolic.Symbol("a"))
			require.Error(t, err)
			var merr *MalformedExpressionError
			assert.ErrorAs(t, err, &merr)
		})
	}

	e, err := New(nil, symbolic.Int(42))
	require.NoError(t, err)
	assert.Empty(t, e.Vars())
}

func TestFromText(t *testing.T) {
	e, err := FromText([]string{"a", "b"}, "a*b + 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.Vars())
	assert.Equal(t, "f(a, b) = a*b + 1", e.String())

	_, err = FromText([]string{"a"}, "a*(")
	require.Error(t, err)
	var perr *symbolic.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		vars   []string
		text   string
		values map[string]float64
		prec   int
		want   string
	}{
		{
			name: "exact integer result",
			vars: []string{"a", "b"}, text: "a*b",
			values: map[string]float64{"a": 2, "b": 3},
			want:   "6",
		},
		{
			name: "partial substitution stays symbolic",
			vars: []string{"a", "b"}, text: "a*b",
			values: map[string]float64{"a": 2},
			want:   "2*b",
		},
		{
			name: "exact rational stays exact",
			vars: []string{"a", "b"}, text: "a/b",
			values: map[string]float64{"a": 2, "b": 3},
			prec:   3,
			want:   "2/3",
		},
		{
			name: "inexact input",
			vars: []string{"a", "b"}, text: "a*b",
			values: map[string]float64{"a": 1.5, "b": 2},
			prec:   3,
			want:   "3",
		},
		{
			name: "inexact quotient rounds to significant figures",
			vars: []string{"a", "b"}, text: "a/b",
			values: map[string]float64{"a": 2.5, "b": 3},
			prec:   3,
			want:   "0.833",
		},
		{
			name: "precision widens",
			vars: []string{"a", "b"}, text: "a/b",
			values: map[string]float64{"a": 2.5, "b": 3},
			prec:   5,
			want:   "0.83333",
		},
		{
			name: "irrational result rounds",
			vars: []string{"a"}, text: "sqrt(a)",
			values: map[string]float64{"a": 2},
			prec:   3,
			want:   "1.41",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := FromText(tt.vars, tt.text)
			require.NoError(t, err)
			got, err := e.Evaluate(tt.values, tt.prec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestEvaluateDomainFault(t *testing.T) {
	e, err := FromText([]string{"a"}, "ln(a)")
	require.NoError(t, err)
	_, err = e.Evaluate(map[string]float64{"a": -1}, 3)
	require.Error(t, err)
	var eerr *symbolic.EvaluationError
	assert.ErrorAs(t, err, &eerr)
}
