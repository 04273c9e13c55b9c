// Package uncertainty models measured expressions and propagates their
// first-order measurement uncertainty.
//
// An Expression pairs a formula with the ordered list of measured variables
// it depends on. Absolute derives the worst-case first-order uncertainty
// Σ|∂f/∂v|·Δv over those variables and Fractional divides it back through
// the formula, choosing a display shape that keeps per-variable
// contributions readable. Expressions are immutable; every operation returns
// a new value, so they are safe to share across goroutines.
package uncertainty

import (
	"math"
	"math/big"
	"strings"

	"github.com/deltaphys/errorlab/backend/internal/symbolic"
)

// DefaultPrecision is the number of significant figures used for numeric
// results when the caller does not ask for a specific precision.
const DefaultPrecision = 3

// DeltaPrefix is prepended to a variable name to form the name of its
// uncertainty variable.
const DeltaPrefix = "Δ"

// Delta returns the uncertainty-variable name for a measured variable.
func Delta(name string) string { return DeltaPrefix + name }

// Expression is a formula together with the ordered list of measured
// variables it is differentiated against. Free symbols that are not
// declared are treated as exactly-known parameters and contribute no
// uncertainty.
type Expression struct {
	vars    []string
	formula symbolic.Expr
}

// New builds an Expression over the declared variables. The variable list
// may be empty (a constant expression). It fails with
// *MalformedExpressionError on blank or duplicate names, or when a declared
// name collides with the uncertainty name of another declared variable.
func New(vars []string, formula symbolic.Expr) (*Expression, error) {
	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if strings.TrimSpace(v) == "" {
			return nil, &MalformedExpressionError{Msg: "blank variable name"}
		}
		if _, ok := seen[v]; ok {
			return nil, &MalformedExpressionError{Msg: "duplicate variable " + v}
		}
		seen[v] = struct{}{}
	}
	for _, v := range vars {
		if _, ok := seen[Delta(v)]; ok {
			return nil, &MalformedExpressionError{Msg: "variable " + Delta(v) + " collides with the uncertainty of " + v}
		}
	}
	return &Expression{vars: append([]string(nil), vars...), formula: formula}, nil
}

// FromText parses text into a formula over the declared variables. Parsing
// is structure-preserving: the tree is kept exactly as written, without
// arithmetic normalization. Syntax faults surface as *symbolic.ParseError,
// variable-list faults as *MalformedExpressionError.
func FromText(vars []string, text string) (*Expression, error) {
	formula, err := symbolic.Parse(text)
	if err != nil {
		return nil, err
	}
	return New(vars, formula)
}

// Vars returns the declared variables in order.
func (e *Expression) Vars() []string {
	return append([]string(nil), e.vars...)
}

// Formula returns the underlying expression tree.
func (e *Expression) Formula() symbolic.Expr { return e.formula }

// String renders the expression in functional notation, e.g.
// "f(a, b) = a*b".
func (e *Expression) String() string {
	return "f(" + strings.Join(e.vars, ", ") + ") = " + e.formula.String()
}

// DisplayString renders the formula as plain text.
func (e *Expression) DisplayString() string { return e.formula.String() }

// LaTeX renders the formula as typesettable markup.
func (e *Expression) LaTeX() string { return e.formula.LaTeX() }

// Evaluate substitutes the given values into the formula and simplifies.
// Substitution is partial: variables missing from values stay symbolic and
// the simplified tree is returned as-is. When every symbol is bound the
// result is numeric: exact when the arithmetic stays rational, otherwise
// evaluated and rounded to prec significant figures (DefaultPrecision when
// prec <= 0). Numeric faults such as division by zero surface as
// *symbolic.EvaluationError.
func (e *Expression) Evaluate(values map[string]float64, prec int) (symbolic.Expr, error) {
	if prec <= 0 {
		prec = DefaultPrecision
	}
	tree := e.formula
	for name, v := range values {
		tree = tree.Sub(name, numeric(v))
	}
	tree = tree.Simplify()
	if symbolic.HasSymbols(tree) {
		return tree, nil
	}
	if !symbolic.ContainsInexact(tree) {
		return tree, nil
	}
	val, err := symbolic.EvalFloat(tree, 0)
	if err != nil {
		return nil, err
	}
	return symbolic.NewFloat(symbolic.RoundSig(val, prec), prec), nil
}

// numeric converts a measurement into a literal: integral values become
// exact integers, everything else an inexact literal that displays in its
// shortest form.
func numeric(v float64) symbolic.Expr {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1e15 {
		r, _ := new(big.Rat).SetString(big.NewFloat(v).Text('f', 0))
		return symbolic.NewNum(r)
	}
	return symbolic.FloatFrom(v, 0)
}
