package symbolic

import (
	"math/big"
	"strings"
)

// Kind tags the variant of an expression node. Code that needs to branch on
// formula shape (e.g. display policies) switches on this tag rather than on
// concrete types.
type Kind int8

const (
	KindNum Kind = iota
	KindFloat
	KindSym
	KindConst
	KindAdd
	KindMul
	KindPow
	KindCall
)

// Expr is an immutable symbolic expression node.
type Expr interface {
	// Kind reports the variant tag of the node.
	Kind() Kind
	// Simplify returns a structurally simplified copy. Simplification is
	// deterministic and cheap: it flattens nested sums/products, folds
	// numeric coefficients, and applies identity elements. It never
	// introduces inexact values into an exact tree.
	Simplify() Expr
	// String renders the expression as plain text.
	String() string
	// LaTeX renders the expression as typesettable math markup.
	LaTeX() string
	// Sub returns a copy with every occurrence of the named symbol
	// replaced by value. Substitution is partial: unknown names are a
	// no-op.
	Sub(name string, value Expr) Expr
	// Diff returns the partial derivative with respect to the named
	// symbol, or a *DifferentiationError if some term has no rule.
	Diff(name string) (Expr, error)
	// Equal reports structural equality.
	Equal(other Expr) bool
}

// ============================================================
// Num - exact rational literal
// ============================================================

// Num is an exact rational number.
type Num struct{ rat *big.Rat }

// Int returns an exact integer literal.
func Int(n int64) *Num { return &Num{rat: new(big.Rat).SetInt64(n)} }

// Rat returns an exact rational literal p/q. Panics on a zero denominator.
func Rat(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Num{rat: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NewNum wraps an exact rational literal.
func NewNum(r *big.Rat) *Num { return &Num{rat: new(big.Rat).Set(r)} }

func numFromRat(r *big.Rat) *Num { return &Num{rat: r} }

func (n *Num) Kind() Kind     { return KindNum }
func (n *Num) Simplify() Expr { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) (Expr, error) { return Int(0), nil }

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.rat.Cmp(o.rat) == 0
}

func (n *Num) String() string {
	if n.rat.IsInt() {
		return n.rat.Num().String()
	}
	return n.rat.RatString()
}

func (n *Num) LaTeX() string {
	if n.rat.IsInt() {
		return n.rat.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.rat)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return sign + "\\frac{" + v.Num().String() + "}{" + v.Denom().String() + "}"
}

// Rat returns a copy of the underlying rational.
func (n *Num) Rat() *big.Rat { return new(big.Rat).Set(n.rat) }

func (n *Num) isZero() bool { return n.rat.Sign() == 0 }

func (n *Num) isOne() bool {
	return n.rat.IsInt() && n.rat.Num().IsInt64() && n.rat.Num().Int64() == 1
}

func (n *Num) isNegOne() bool {
	return n.rat.IsInt() && n.rat.Num().IsInt64() && n.rat.Num().Int64() == -1
}

// intExp reports the value of an integer exponent small enough to expand.
func (n *Num) intExp() (int64, bool) {
	if !n.rat.IsInt() || !n.rat.Num().IsInt64() {
		return 0, false
	}
	v := n.rat.Num().Int64()
	if v < -64 || v > 64 {
		return 0, false
	}
	return v, true
}

// ============================================================
// Float - inexact numeric literal
// ============================================================

// Float is an inexact number produced by numeric evaluation or supplied as
// a measurement value. It carries the number of significant digits used for
// display.
type Float struct {
	val    *big.Float
	digits int
}

// NewFloat wraps a big.Float literal displayed with the given number of
// significant digits (digits <= 0 selects the shortest representation).
func NewFloat(v *big.Float, digits int) *Float {
	return &Float{val: v, digits: digits}
}

// FloatFrom converts a float64 measurement into a literal.
func FloatFrom(v float64, digits int) *Float {
	return &Float{val: big.NewFloat(v), digits: digits}
}

func (f *Float) Kind() Kind     { return KindFloat }
func (f *Float) Simplify() Expr { return f }
func (f *Float) Sub(string, Expr) Expr { return f }
func (f *Float) Diff(string) (Expr, error) { return Int(0), nil }

func (f *Float) Equal(other Expr) bool {
	o, ok := other.(*Float)
	return ok && f.val.Cmp(o.val) == 0
}

func (f *Float) String() string {
	d := f.digits
	if d <= 0 {
		d = -1
	}
	return f.val.Text('g', d)
}

// LaTeX renders the value as typesettable markup. Values whose decimal form
// needs an exponent typeset as a power of ten (6.02 \cdot 10^{23}) so the
// output stays inside the grammar ParseLaTeX accepts.
func (f *Float) LaTeX() string {
	s := f.String()
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return s
	}
	mant, exp := s[:i], s[i+1:]
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(strings.TrimLeft(exp, "+-"), "0")
	if exp == "" {
		return mant
	}
	if neg {
		exp = "-" + exp
	}
	return mant + " \\cdot 10^{" + exp + "}"
}

// Float returns a copy of the underlying value.
func (f *Float) Float() *big.Float { return new(big.Float).Copy(f.val) }

// ============================================================
// Sym - named symbol
// ============================================================

// Sym is a named symbolic placeholder. Identity is by name.
type Sym struct{ name string }

// Symbol returns the symbol with the given name.
func Symbol(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Kind() Kind     { return KindSym }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return s.name }
func (s *Sym) Name() string   { return s.name }

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Diff(name string) (Expr, error) {
	if s.name == name {
		return Int(1), nil
	}
	return Int(0), nil
}

// ============================================================
// Const - named irrational constant
// ============================================================

// Const is a known irrational constant (pi or e). It is never substituted
// and keeps expressions exact until numeric evaluation.
type Const struct{ name string }

var (
	// Pi is the circle constant.
	Pi = &Const{name: "pi"}
	// E is Euler's number.
	E = &Const{name: "e"}
)

func (c *Const) Kind() Kind     { return KindConst }
func (c *Const) Simplify() Expr { return c }
func (c *Const) String() string { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) (Expr, error) { return Int(0), nil }

func (c *Const) LaTeX() string {
	if c.name == "pi" {
		return "\\pi"
	}
	return "e"
}

func (c *Const) Equal(other Expr) bool {
	o, ok := other.(*Const)
	return ok && c.name == o.name
}

// ============================================================
// Numeric folding helpers
// ============================================================

// isNumber reports whether e is a numeric literal (exact or inexact).
func isNumber(e Expr) bool {
	k := e.Kind()
	return k == KindNum || k == KindFloat
}

func numberSign(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return v.rat.Sign()
	case *Float:
		return v.val.Sign()
	}
	return 0
}

// toFloat widens a numeric literal to big.Float.
func toFloat(e Expr) *big.Float {
	switch v := e.(type) {
	case *Num:
		return new(big.Float).SetPrec(floatFoldPrec).SetRat(v.rat)
	case *Float:
		return new(big.Float).Copy(v.val)
	}
	panic("symbolic: not a number: " + e.String())
}

// floatFoldPrec is the working mantissa precision for folding arithmetic on
// inexact literals. Final display rounding happens at evaluation time.
const floatFoldPrec = 96

func foldDigits(a, b Expr) int {
	d := 0
	if f, ok := a.(*Float); ok && f.digits > d {
		d = f.digits
	}
	if f, ok := b.(*Float); ok && f.digits > d {
		d = f.digits
	}
	return d
}

// addNumbers folds two numeric literals. The result is exact only when both
// inputs are exact.
func addNumbers(a, b Expr) Expr {
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			return numFromRat(new(big.Rat).Add(x.rat, y.rat))
		}
	}
	v := new(big.Float).SetPrec(floatFoldPrec).Add(toFloat(a), toFloat(b))
	return &Float{val: v, digits: foldDigits(a, b)}
}

func mulNumbers(a, b Expr) Expr {
	if x, ok := a.(*Num); ok {
		if y, ok := b.(*Num); ok {
			return numFromRat(new(big.Rat).Mul(x.rat, y.rat))
		}
	}
	v := new(big.Float).SetPrec(floatFoldPrec).Mul(toFloat(a), toFloat(b))
	return &Float{val: v, digits: foldDigits(a, b)}
}

func negNumber(a Expr) Expr {
	switch v := a.(type) {
	case *Num:
		return numFromRat(new(big.Rat).Neg(v.rat))
	case *Float:
		return &Float{val: new(big.Float).Neg(v.val), digits: v.digits}
	}
	panic("symbolic: not a number: " + a.String())
}

func absNumber(a Expr) Expr {
	if numberSign(a) < 0 {
		return negNumber(a)
	}
	return a
}

func numberIsZero(e Expr) bool { return isNumber(e) && numberSign(e) == 0 }

func numberIsOne(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.isOne()
	case *Float:
		return v.val.Cmp(big.NewFloat(1)) == 0
	}
	return false
}

// ============================================================
// Symbol collection
// ============================================================

// FreeSymbols returns the set of symbol names referenced by e.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Call:
		collectSymbols(v.arg, out)
	}
}

// HasSymbols reports whether e references any free symbol.
func HasSymbols(e Expr) bool {
	return len(FreeSymbols(e)) > 0
}
