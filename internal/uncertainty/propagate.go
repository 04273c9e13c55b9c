package uncertainty

import (
	"github.com/deltaphys/errorlab/backend/internal/symbolic"
)

// Absolute derives the first-order absolute uncertainty of e, treating the
// declared variables as independent measurements:
//
//	Δf = Σ |∂f/∂v| · Δv
//
// positive and negative name symbols whose sign the caller can vouch for;
// on top of those, every declared variable is assumed positive so that the
// absolute-value wrappers around the partial derivatives can collapse. The
// assumptions live only for the duration of this call. The result is an
// Expression over the uncertainty variables Δv, in the declared order; with
// no declared variables the formula is zero.
//
// It fails with *symbolic.DifferentiationError when the formula contains a
// term with no derivative rule and with *symbolic.AssumptionConflictError
// when a caller-supplied sign contradicts another assumption on the same
// name.
func Absolute(e *Expression, positive, negative []string) (*Expression, error) {
	assume := symbolic.NewAssumptions()
	for _, name := range positive {
		if err := assume.AssumePositive(name); err != nil {
			return nil, err
		}
	}
	for _, name := range negative {
		if err := assume.AssumeNegative(name); err != nil {
			return nil, err
		}
	}
	for _, v := range e.vars {
		if err := assume.AssumePositive(v); err != nil {
			return nil, err
		}
	}

	total := symbolic.Expr(symbolic.Int(0))
	deltas := make([]string, len(e.vars))
	for i, v := range e.vars {
		deltas[i] = Delta(v)
		d, err := e.formula.Diff(v)
		if err != nil {
			return nil, err
		}
		term := symbolic.MulOf(symbolic.AbsOf(d.Simplify()), symbolic.Symbol(deltas[i]))
		total = symbolic.AddOf(total, term)
	}
	total = symbolic.Refine(total, assume)

	return New(deltas, total)
}

// Fractional divides the absolute uncertainty through the original formula
// to obtain the relative uncertainty Δf/f. The division shape follows the
// absolute uncertainty's top-level form so the result stays readable:
//
//   - a sum divides addend by addend, so a product's uncertainty reads
//     Δa/a + Δb/b + Δc/c;
//   - a product or power divides as a whole and cancels against f;
//   - anything else (a lone Δv, zero) is left as an unevaluated quotient.
//
// The result shares the absolute uncertainty's Δ-variable list.
func Fractional(e, absolute *Expression) (*Expression, error) {
	f := e.formula
	a := absolute.formula

	var frac symbolic.Expr
	switch a.Kind() {
	case symbolic.KindAdd:
		terms := a.(*symbolic.Add).Terms()
		parts := make([]symbolic.Expr, len(terms))
		for i, t := range terms {
			parts[i] = symbolic.DivOf(t, f)
		}
		frac = symbolic.AddOf(parts...)
	case symbolic.KindMul, symbolic.KindPow:
		frac = symbolic.DivOf(a, f)
	default:
		frac = symbolic.Quotient(a, f)
	}

	return New(absolute.Vars(), frac)
}
