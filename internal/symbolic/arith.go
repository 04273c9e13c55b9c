package symbolic

import "sort"

// ============================================================
// Add - n-ary sum
// ============================================================

// Add is a flattened sum of terms.
type Add struct{ terms []Expr }

// AddOf builds and simplifies a sum.
func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// SubOf builds a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf builds -e.
func NegOf(e Expr) Expr { return MulOf(Int(-1), e) }

func (a *Add) Kind() Kind { return KindAdd }

// Terms returns the addends. The slice must not be modified.
func (a *Add) Terms() []Expr { return a.terms }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	// Collect numeric terms exactly and group the rest by their non-numeric
	// part, summing coefficients.
	numAcc := Expr(Int(0))
	type group struct {
		rest  Expr
		coeff Expr
	}
	groups := map[string]*group{}
	keys := []string{}
	for _, t := range flat {
		if isNumber(t) {
			numAcc = addNumbers(numAcc, t)
			continue
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		g, ok := groups[key]
		if !ok {
			g = &group{rest: rest, coeff: Int(0)}
			groups[key] = g
			keys = append(keys, key)
		}
		g.coeff = addNumbers(g.coeff, coeff)
	}
	sort.Strings(keys)

	result := make([]Expr, 0, len(keys)+1)
	for _, key := range keys {
		g := groups[key]
		switch {
		case numberIsZero(g.coeff):
			continue
		case numberIsOne(g.coeff):
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !numberIsZero(numAcc) {
		result = append(result, numAcc)
	}

	switch len(result) {
	case 0:
		return Int(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

// splitCoeff separates the numeric coefficient from a simplified term.
func splitCoeff(t Expr) (coeff, rest Expr) {
	m, ok := t.(*Mul)
	if !ok || len(m.factors) == 0 || !isNumber(m.factors[0]) {
		return Int(1), t
	}
	switch len(m.factors) {
	case 1:
		return m.factors[0], Int(1)
	case 2:
		return m.factors[0], m.factors[1]
	}
	return m.factors[0], &Mul{factors: m.factors[1:]}
}

func (a *Add) Sub(name string, value Expr) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Sub(name, value)
	}
	return AddOf(terms...)
}

func (a *Add) Diff(name string) (Expr, error) {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d, err := t.Diff(name)
		if err != nil {
			return nil, err
		}
		terms[i] = d
	}
	return AddOf(terms...), nil
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Mul - n-ary product
// ============================================================

// Mul is a flattened product of factors. After simplification the numeric
// coefficient, if any, is the first factor and the rest are ordered
// deterministically with like bases merged.
type Mul struct{ factors []Expr }

// MulOf builds and simplifies a product.
func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// DivOf builds a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, Int(-1))) }

// Quotient builds an unevaluated a/b without structural simplification, for
// callers that want the quotient displayed exactly as composed.
func Quotient(a, b Expr) Expr {
	return &Mul{factors: []Expr{a, &Pow{base: b, exp: Int(-1)}}}
}

func (m *Mul) Kind() Kind { return KindMul }

// Factors returns the factors. The slice must not be modified.
func (m *Mul) Factors() []Expr { return m.factors }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	// Fold the numeric coefficient and merge powers of like bases.
	coeff := Expr(Int(1))
	type group struct {
		base Expr
		exps []Expr
	}
	groups := map[string]*group{}
	keys := []string{}
	for _, f := range flat {
		if isNumber(f) {
			coeff = mulNumbers(coeff, f)
			continue
		}
		base, exp := Expr(f), Expr(Int(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		g, ok := groups[key]
		if !ok {
			g = &group{base: base}
			groups[key] = g
			keys = append(keys, key)
		}
		g.exps = append(g.exps, exp)
	}
	if numberIsZero(coeff) {
		return Int(0)
	}
	sort.Strings(keys)

	factors := make([]Expr, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		e := AddOf(g.exps...)
		switch {
		case numberIsZero(e):
			continue
		case numberIsOne(e):
			factors = append(factors, g.base)
		default:
			factors = append(factors, PowOf(g.base, e))
		}
	}

	// Merging powers can reintroduce numeric or nested products
	// (e.g. sqrt(2)*sqrt(2) -> 2), so renormalize once if it did.
	renorm := false
	for _, f := range factors {
		if isNumber(f) || f.Kind() == KindMul {
			renorm = true
			break
		}
	}
	if renorm {
		return MulOf(append([]Expr{coeff}, factors...)...)
	}

	if len(factors) == 0 {
		return coeff
	}
	if numberIsOne(coeff) {
		if len(factors) == 1 {
			return factors[0]
		}
		return &Mul{factors: factors}
	}
	return &Mul{factors: append([]Expr{coeff}, factors...)}
}

func (m *Mul) Sub(name string, value Expr) Expr {
	factors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Sub(name, value)
	}
	return MulOf(factors...)
}

// Diff applies the product rule across all factors.
func (m *Mul) Diff(name string) (Expr, error) {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi, err := fi.Diff(name)
		if err != nil {
			return nil, err
		}
		rest := make([]Expr, 0, len(m.factors))
		rest = append(rest, dfi)
		for j, fj := range m.factors {
			if j != i {
				rest = append(rest, fj)
			}
		}
		terms[i] = MulOf(rest...)
	}
	return AddOf(terms...), nil
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Pow - base^exponent
// ============================================================

// Pow is an exponentiation node.
type Pow struct{ base, exp Expr }

// PowOf builds and simplifies base^exp.
func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// SqrtOf builds the square root of e.
func SqrtOf(e Expr) Expr { return PowOf(e, Rat(1, 2)) }

// RootOf builds the n-th root of e.
func RootOf(e, n Expr) Expr {
	if num, ok := n.(*Num); ok && !num.isZero() {
		r := num.Rat()
		return PowOf(e, numFromRat(r.Inv(r)))
	}
	return PowOf(e, PowOf(n, Int(-1)))
}

func (p *Pow) Kind() Kind { return KindPow }

// Base returns the base operand.
func (p *Pow) Base() Expr { return p.base }

// Exp returns the exponent operand.
func (p *Pow) Exp() Expr { return p.exp }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if numberIsZero(exp) {
		// 0^0 stays unevaluated.
		if numberIsZero(base) {
			return &Pow{base: base, exp: exp}
		}
		return Int(1)
	}
	if numberIsOne(exp) {
		return base
	}
	if numberIsOne(base) {
		return Int(1)
	}
	if numberIsZero(base) {
		if numberSign(exp) > 0 {
			return Int(0)
		}
		// 0^negative is a division by zero; leave it for evaluation to
		// report.
		return &Pow{base: base, exp: exp}
	}

	// Exact integer powers of exact rationals fold.
	if bn, ok := base.(*Num); ok {
		if en, ok := exp.(*Num); ok {
			if v, ok := en.intExp(); ok {
				return numIntPow(bn, v)
			}
		}
	}

	if en, ok := exp.(*Num); ok && en.rat.IsInt() {
		// (x^a)^n -> x^(a*n) and (x*y)^n -> x^n*y^n are sound for
		// integer n.
		if inner, ok := base.(*Pow); ok {
			return PowOf(inner.base, MulOf(inner.exp, en))
		}
		if m, ok := base.(*Mul); ok {
			factors := make([]Expr, len(m.factors))
			for i, f := range m.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}

	return &Pow{base: base, exp: exp}
}

func numIntPow(b *Num, e int64) Expr {
	neg := e < 0
	if neg {
		e = -e
	}
	acc := Expr(Int(1))
	for i := int64(0); i < e; i++ {
		acc = mulNumbers(acc, b)
	}
	if neg {
		r := acc.(*Num).Rat()
		return numFromRat(r.Inv(r))
	}
	return acc
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

// Diff applies the generalized power rule
// d(u^v) = u^v * (v'*ln(u) + v*u'/u), with the familiar special cases when
// the exponent or base is constant.
func (p *Pow) Diff(name string) (Expr, error) {
	du, err := p.base.Diff(name)
	if err != nil {
		return nil, err
	}
	dv, err := p.exp.Diff(name)
	if err != nil {
		return nil, err
	}
	expConst := numberIsZero(dv) || isNumber(p.exp)
	baseConst := numberIsZero(du)
	switch {
	case expConst && baseConst:
		return Int(0), nil
	case expConst:
		// v * u^(v-1) * u'
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, Int(-1))), du), nil
	case baseConst:
		// u^v * ln(u) * v'
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv), nil
	}
	logTerm := MulOf(dv, LnOf(p.base))
	ratioTerm := MulOf(p.exp, du, PowOf(p.base, Int(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, ratioTerm)), nil
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}
