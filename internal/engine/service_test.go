package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltaphys/errorlab/backend/internal/symbolic"
	"github.com/deltaphys/errorlab/backend/internal/uncertainty"
)

func TestParse(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	res, err := svc.Parse("a*b + Δc")
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"a", "a"}, {"b", "b"}, {"Δc", "Δc"}}, res.Symbols)
	assert.Equal(t, `a \cdot b + Δc`, res.LaTeX)
}

func TestParseKeepsShape(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	// The rendering mirrors the input instead of normalizing a*a to a^2.
	res, err := svc.Parse("a*a")
	require.NoError(t, err)
	assert.Equal(t, `a \cdot a`, res.LaTeX)
	assert.Equal(t, [][2]string{{"a", "a"}}, res.Symbols)
}

func TestParseErrors(t *testing.T) {
	svc := NewService(Config{MaxExpressionLength: 10}, nil)

	_, err := svc.Parse("a*(")
	require.Error(t, err)
	assert.Equal(t, "parse", ErrorKind(err))

	_, err = svc.Parse("a + b + c + d + e")
	require.Error(t, err)
	assert.Equal(t, "parse", ErrorKind(err))
}

func TestCalculate(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	res, err := svc.Calculate(context.Background(), CalcRequest{
		Expr: "a*b/c",
		Args: []string{"a", "b", "c"},
		Values: map[string]float64{
			"a": 2, "b": 3, "c": 1,
			"Δa": 1, "Δb": 1, "Δc": 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "6", res.Value)
	assert.Equal(t, `\frac{a \cdot b \cdot Δc}{c^{2}} + \frac{a \cdot Δb}{c} + \frac{b \cdot Δa}{c}`, res.AbsoluteExpr)
	assert.Equal(t, "11", res.Absolute)
	assert.Equal(t, `\frac{Δa}{a} + \frac{Δb}{b} + \frac{Δc}{c}`, res.FractionalExpr)
	// 1/2 + 1/3 + 1 stays an exact rational, so the percentage does too.
	assert.Equal(t, `\frac{550}{3}`, res.Percentage)
}

func TestCalculatePartialValues(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)

	res, err := svc.Calculate(context.Background(), CalcRequest{
		Expr:   "a*b",
		Args:   []string{"a", "b"},
		Values: map[string]float64{"a": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `2 \cdot b`, res.Value)
	assert.NotEmpty(t, res.Absolute)
	assert.NotEmpty(t, res.Percentage)
}

func TestCalculateRefine(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	req := CalcRequest{Expr: "a*a", Args: []string{"a"}}

	res, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `a \cdot a`, res.Value)

	req.Refine = true
	res, err = svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `a^{2}`, res.Value)
}

func TestCalculateErrors(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CalcRequest
		kind string
	}{
		{"syntax", CalcRequest{Expr: "a*("}, "parse"},
		{"duplicate variable", CalcRequest{Expr: "a", Args: []string{"a", "a"}}, "malformed"},
		{"no derivative rule", CalcRequest{Expr: "sign(a)", Args: []string{"a"}}, "differentiation"},
		{"domain fault", CalcRequest{Expr: "ln(a)", Args: []string{"a"}, Values: map[string]float64{"a": -1}}, "evaluation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Calculate(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, ErrorKind(err))
		})
	}
}

func TestCalculateCanceledContext(t *testing.T) {
	svc := NewService(DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Calculate(ctx, CalcRequest{Expr: "a", Args: []string{"a"}})
	require.Error(t, err)
	assert.Equal(t, "timeout", ErrorKind(err))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"parse", &symbolic.ParseError{Col: 1, Msg: "x"}, "parse"},
		{"malformed", &uncertainty.MalformedExpressionError{Msg: "x"}, "malformed"},
		{"differentiation", &symbolic.DifferentiationError{Op: "sign"}, "differentiation"},
		{"assumption conflict", &symbolic.AssumptionConflictError{Name: "a"}, "assumption_conflict"},
		{"evaluation", &symbolic.EvaluationError{Op: "ln"}, "evaluation"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"canceled", context.Canceled, "timeout"},
		{"wrapped", fmt.Errorf("calculating: %w", &symbolic.ParseError{Col: 2}), "parse"},
		{"unknown", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
