package symbolic

// Assumptions records provable sign facts about symbols for one derivation.
// Instances are scoped to a single call chain and never shared; concurrent
// derivations each build their own.
type Assumptions struct {
	sign map[string]int // +1 positive, -1 negative
}

// NewAssumptions returns an empty assumption set.
func NewAssumptions() *Assumptions {
	return &Assumptions{sign: map[string]int{}}
}

// AssumePositive asserts name > 0. Asserting a symbol already assumed
// negative is an *AssumptionConflictError.
func (a *Assumptions) AssumePositive(name string) error {
	if a.sign[name] == -1 {
		return &AssumptionConflictError{Name: name}
	}
	a.sign[name] = 1
	return nil
}

// AssumeNegative asserts name < 0.
func (a *Assumptions) AssumeNegative(name string) error {
	if a.sign[name] == 1 {
		return &AssumptionConflictError{Name: name}
	}
	a.sign[name] = -1
	return nil
}

// Sign reports the provable sign of e under the assumptions: +1 strictly
// positive, -1 strictly negative, 0 unknown.
func (a *Assumptions) Sign(e Expr) int {
	switch v := e.(type) {
	case *Num, *Float:
		return numberSign(v)
	case *Const:
		return 1
	case *Sym:
		return a.sign[v.name]
	case *Add:
		s := a.Sign(v.terms[0])
		if s == 0 {
			return 0
		}
		for _, t := range v.terms[1:] {
			if a.Sign(t) != s {
				return 0
			}
		}
		return s
	case *Mul:
		s := 1
		for _, f := range v.factors {
			fs := a.Sign(f)
			if fs == 0 {
				return 0
			}
			s *= fs
		}
		return s
	case *Pow:
		bs := a.Sign(v.base)
		if bs == 0 {
			return 0
		}
		if bs > 0 {
			return 1
		}
		// Negative base: only integer exponents have a provable sign.
		if en, ok := v.exp.(*Num); ok && en.rat.IsInt() {
			if en.rat.Num().Bit(0) == 0 {
				return 1
			}
			return -1
		}
		return 0
	case *Call:
		switch v.name {
		case "exp", "cosh":
			return 1
		case "abs":
			if a.Sign(v.arg) != 0 {
				return 1
			}
		case "sinh", "tanh", "atan", "sign":
			return a.Sign(v.arg)
		}
	}
	return 0
}

// Refine rewrites e using the assumptions: abs(u) collapses to u or -u and
// sign(u) to ±1 wherever the sign of u is provable.
func Refine(e Expr, a *Assumptions) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Refine(t, a)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Refine(f, a)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(Refine(v.base, a), Refine(v.exp, a))
	case *Call:
		arg := Refine(v.arg, a)
		switch v.name {
		case "abs":
			switch a.Sign(arg) {
			case 1:
				return arg
			case -1:
				return NegOf(arg)
			}
		case "sign":
			switch a.Sign(arg) {
			case 1:
				return Int(1)
			case -1:
				return Int(-1)
			}
		}
		return CallOf(v.name, arg)
	}
	return e
}
