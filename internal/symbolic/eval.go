package symbolic

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultEvalPrec is the mantissa precision, in bits, used for numeric
// evaluation unless the caller asks for more.
const DefaultEvalPrec = 96

// EvalFloat numerically evaluates a closed expression (no free symbols) at
// the given mantissa precision. Division by zero and arguments outside a
// function's real domain are reported as *EvaluationError.
func EvalFloat(e Expr, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = DefaultEvalPrec
	}
	switch v := e.(type) {
	case *Num:
		return new(big.Float).SetPrec(prec).SetRat(v.rat), nil
	case *Float:
		return new(big.Float).SetPrec(prec).Set(v.val), nil
	case *Const:
		out := new(big.Float).SetPrec(prec)
		if v.name == "pi" {
			return bigfloat.Pi(out), nil
		}
		one := new(big.Float).SetPrec(prec).SetInt64(1)
		return bigfloat.Exp(out, one), nil
	case *Sym:
		return nil, &EvaluationError{Msg: "unbound symbol " + v.name}
	case *Add:
		acc := new(big.Float).SetPrec(prec)
		for _, t := range v.terms {
			x, err := EvalFloat(t, prec)
			if err != nil {
				return nil, err
			}
			acc.Add(acc, x)
		}
		return acc, nil
	case *Mul:
		acc := new(big.Float).SetPrec(prec).SetInt64(1)
		for _, f := range v.factors {
			x, err := EvalFloat(f, prec)
			if err != nil {
				return nil, err
			}
			acc.Mul(acc, x)
		}
		return acc, nil
	case *Pow:
		return evalPow(v, prec)
	case *Call:
		return evalCall(v, prec)
	}
	return nil, &EvaluationError{Msg: "cannot evaluate " + e.String()}
}

func evalPow(p *Pow, prec uint) (*big.Float, error) {
	base, err := EvalFloat(p.base, prec)
	if err != nil {
		return nil, err
	}
	exp, err := EvalFloat(p.exp, prec)
	if err != nil {
		return nil, err
	}
	if base.Sign() == 0 {
		if exp.Sign() > 0 {
			return new(big.Float).SetPrec(prec), nil
		}
		return nil, &EvaluationError{Op: "^", Msg: "division by zero"}
	}
	if base.Sign() < 0 {
		// bigfloat.Pow requires a positive base; negative bases are only
		// defined over the reals for integer exponents.
		if !exp.IsInt() {
			return nil, &EvaluationError{Op: "^", Msg: "negative base with non-integer exponent"}
		}
		abs := new(big.Float).SetPrec(prec).Abs(base)
		out := new(big.Float).SetPrec(prec)
		bigfloat.Pow(out, abs, exp)
		ei, _ := exp.Int(nil)
		if ei.Bit(0) == 1 {
			out.Neg(out)
		}
		return out, nil
	}
	out := new(big.Float).SetPrec(prec)
	bigfloat.Pow(out, base, exp)
	return out, nil
}

func evalCall(c *Call, prec uint) (*big.Float, error) {
	arg, err := EvalFloat(c.arg, prec)
	if err != nil {
		return nil, err
	}
	out := new(big.Float).SetPrec(prec)
	switch c.name {
	case "exp":
		return bigfloat.Exp(out, arg), nil
	case "ln":
		if arg.Sign() <= 0 {
			return nil, &EvaluationError{Op: "ln", Msg: "argument must be positive"}
		}
		return bigfloat.Log(out, arg), nil
	case "abs":
		return out.Abs(arg), nil
	case "sign":
		return out.SetInt64(int64(arg.Sign())), nil
	}

	// The remaining functions have no arbitrary-precision implementation;
	// float64 accuracy is sufficient for measurement arithmetic.
	x, _ := arg.Float64()
	var y float64
	switch c.name {
	case "sin":
		y = math.Sin(x)
	case "cos":
		y = math.Cos(x)
	case "tan":
		y = math.Tan(x)
	case "asin":
		y = math.Asin(x)
	case "acos":
		y = math.Acos(x)
	case "atan":
		y = math.Atan(x)
	case "sinh":
		y = math.Sinh(x)
	case "cosh":
		y = math.Cosh(x)
	case "tanh":
		y = math.Tanh(x)
	case "floor":
		y = math.Floor(x)
	case "ceil":
		y = math.Ceil(x)
	default:
		return nil, &EvaluationError{Op: c.name, Msg: "unknown function"}
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return nil, &EvaluationError{Op: c.name, Msg: "argument outside domain"}
	}
	return out.SetFloat64(y), nil
}

// RoundSig rounds v to the given number of significant decimal digits.
func RoundSig(v *big.Float, digits int) *big.Float {
	if digits <= 0 {
		return new(big.Float).Copy(v)
	}
	out, _, err := big.ParseFloat(v.Text('g', digits), 10, DefaultEvalPrec, big.ToNearestEven)
	if err != nil {
		return new(big.Float).Copy(v)
	}
	return out
}

// ContainsInexact reports whether e carries a Float literal, a named
// constant, or a function call, i.e. whether its value is not an exact
// rational.
func ContainsInexact(e Expr) bool {
	switch v := e.(type) {
	case *Float, *Const, *Call:
		return true
	case *Add:
		for _, t := range v.terms {
			if ContainsInexact(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if ContainsInexact(f) {
				return true
			}
		}
	case *Pow:
		if ContainsInexact(v.base) || ContainsInexact(v.exp) {
			return true
		}
		// Non-integer rational exponents (roots) evaluate inexactly.
		if en, ok := v.exp.(*Num); ok && !en.rat.IsInt() {
			return true
		}
	}
	return false
}
