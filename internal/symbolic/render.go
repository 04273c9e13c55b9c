package symbolic

import (
	"math/big"
	"strings"
)

// Rendering for composite nodes. Products render in quotient form: factors
// carrying a negative numeric exponent move into the denominator, so
// b*Δa*a^-1 prints as "b*Δa/a" and typesets as \frac{b \cdot Δa}{a}.

func render(e Expr, latex bool) string {
	if latex {
		return e.LaTeX()
	}
	return e.String()
}

func (a *Add) String() string { return renderSum(a, false) }
func (a *Add) LaTeX() string  { return renderSum(a, true) }

func renderSum(a *Add, latex bool) string {
	var sb strings.Builder
	for i, t := range a.terms {
		body, neg := stripNegative(t)
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
		case i > 0 && neg:
			sb.WriteString(" - ")
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(render(body, latex))
	}
	return sb.String()
}

// stripNegative factors a leading minus out of a term for display.
func stripNegative(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num, *Float:
		if numberSign(v) < 0 {
			return negNumber(v), true
		}
	case *Mul:
		if len(v.factors) > 0 && numberSign(v.factors[0]) < 0 {
			c := negNumber(v.factors[0])
			if numberIsOne(c) {
				if len(v.factors) == 2 {
					return v.factors[1], true
				}
				return &Mul{factors: v.factors[1:]}, true
			}
			return &Mul{factors: append([]Expr{c}, v.factors[1:]...)}, true
		}
	}
	return t, false
}

func (m *Mul) String() string { return renderProduct(m, false) }
func (m *Mul) LaTeX() string  { return renderProduct(m, true) }

var bigIntOne = big.NewInt(1)

func renderProduct(m *Mul, latex bool) string {
	var num, den []string
	neg := false
	for _, f := range m.factors {
		switch v := f.(type) {
		case *Num:
			r := v.rat
			if r.Sign() < 0 {
				neg = !neg
			}
			p := new(big.Int).Abs(r.Num())
			if p.Cmp(bigIntOne) != 0 {
				num = append(num, p.String())
			}
			if q := r.Denom(); q.Cmp(bigIntOne) != 0 {
				den = append(den, q.String())
			}
		case *Float:
			if v.val.Sign() < 0 {
				neg = !neg
			}
			num = append(num, render(absNumber(v), latex))
		case *Pow:
			if en, ok := v.exp.(*Num); ok && en.rat.Sign() < 0 {
				inv := negNumber(en)
				inner := Expr(v.base)
				if !numberIsOne(inv) {
					inner = &Pow{base: v.base, exp: inv}
				}
				den = append(den, renderFactor(inner, latex))
				continue
			}
			num = append(num, renderFactor(v, latex))
		default:
			num = append(num, renderFactor(f, latex))
		}
	}
	if len(num) == 0 {
		num = []string{"1"}
	}

	sign := ""
	if neg {
		sign = "-"
	}
	if latex {
		n := strings.Join(num, " \\cdot ")
		if len(den) == 0 {
			return sign + n
		}
		return sign + "\\frac{" + n + "}{" + strings.Join(den, " \\cdot ") + "}"
	}
	n := strings.Join(num, "*")
	switch len(den) {
	case 0:
		return sign + n
	case 1:
		return sign + n + "/" + den[0]
	}
	return sign + n + "/(" + strings.Join(den, "*") + ")"
}

// renderFactor parenthesizes sums when they appear inside a product.
func renderFactor(e Expr, latex bool) string {
	s := render(e, latex)
	if e.Kind() == KindAdd {
		if latex {
			return "\\left(" + s + "\\right)"
		}
		return "(" + s + ")"
	}
	return s
}

func (p *Pow) String() string { return renderPow(p, false) }
func (p *Pow) LaTeX() string  { return renderPow(p, true) }

func renderPow(p *Pow, latex bool) string {
	if en, ok := p.exp.(*Num); ok {
		r := en.rat
		if r.Sign() < 0 {
			inv := negNumber(en).(*Num)
			inner := Expr(p.base)
			if !inv.isOne() {
				inner = &Pow{base: p.base, exp: inv}
			}
			if latex {
				return "\\frac{1}{" + render(inner, true) + "}"
			}
			return "1/" + renderFactor(inner, false)
		}
		// Fractional exponents with unit numerator render as roots.
		if !r.IsInt() && r.Num().Cmp(bigIntOne) == 0 {
			q := r.Denom()
			if latex {
				if q.Cmp(big.NewInt(2)) == 0 {
					return "\\sqrt{" + p.base.LaTeX() + "}"
				}
				return "\\sqrt[" + q.String() + "]{" + p.base.LaTeX() + "}"
			}
			if q.Cmp(big.NewInt(2)) == 0 {
				return "sqrt(" + p.base.String() + ")"
			}
			return "root(" + p.base.String() + ", " + q.String() + ")"
		}
	}

	baseStr := render(p.base, latex)
	if powBaseNeedsParens(p.base) {
		if latex {
			baseStr = "\\left(" + baseStr + "\\right)"
		} else {
			baseStr = "(" + baseStr + ")"
		}
	}
	if latex {
		return baseStr + "^{" + p.exp.LaTeX() + "}"
	}
	expStr := p.exp.String()
	if powExpNeedsParens(p.exp) {
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func powBaseNeedsParens(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.rat.Sign() < 0 || !v.rat.IsInt()
	case *Float:
		// Exponent-form values render as a product of powers of ten.
		return v.val.Sign() < 0 || strings.ContainsAny(v.String(), "eE")
	}
	return false
}

func powExpNeedsParens(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.rat.Sign() < 0 || !v.rat.IsInt()
	case *Float:
		return v.val.Sign() < 0
	}
	return false
}
