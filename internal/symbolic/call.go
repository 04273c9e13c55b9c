package symbolic

// Call applies a named unary function to an argument.
type Call struct {
	name string
	arg  Expr
}

// Function names accepted by CallOf and the parsers. sqrt and root are not
// listed: they normalize to Pow at construction time.
var knownCalls = map[string]struct{}{
	"sin": {}, "cos": {}, "tan": {},
	"asin": {}, "acos": {}, "atan": {},
	"sinh": {}, "cosh": {}, "tanh": {},
	"exp": {}, "ln": {},
	"abs": {}, "sign": {},
	"floor": {}, "ceil": {},
}

// KnownCall reports whether name is a recognized unary function.
func KnownCall(name string) bool {
	switch name {
	case "log", "sqrt":
		return true
	}
	_, ok := knownCalls[name]
	return ok
}

// CallOf builds and simplifies a function application. log is an alias for
// the natural logarithm and sqrt normalizes to a power node.
func CallOf(name string, arg Expr) Expr {
	switch name {
	case "log":
		name = "ln"
	case "sqrt":
		return SqrtOf(arg)
	}
	return (&Call{name: name, arg: arg}).Simplify()
}

// LnOf builds the natural logarithm of e.
func LnOf(e Expr) Expr { return CallOf("ln", e) }

// ExpOf builds the exponential of e.
func ExpOf(e Expr) Expr { return CallOf("exp", e) }

// AbsOf builds the absolute value of e.
func AbsOf(e Expr) Expr { return CallOf("abs", e) }

// SignOf builds the sign of e.
func SignOf(e Expr) Expr { return CallOf("sign", e) }

func (c *Call) Kind() Kind { return KindCall }

// Name returns the function name.
func (c *Call) Name() string { return c.name }

// Arg returns the argument expression.
func (c *Call) Arg() Expr { return c.arg }

func (c *Call) Simplify() Expr {
	arg := c.arg.Simplify()
	switch c.name {
	case "abs":
		if isNumber(arg) {
			return absNumber(arg)
		}
		if inner, ok := arg.(*Call); ok && inner.name == "abs" {
			return inner
		}
	case "sign":
		if isNumber(arg) {
			return Int(int64(numberSign(arg)))
		}
	case "ln":
		if numberIsOne(arg) {
			return Int(0)
		}
		if arg.Equal(E) {
			return Int(1)
		}
	case "exp":
		if numberIsZero(arg) {
			return Int(1)
		}
	case "sin", "tan", "sinh", "tanh", "asin", "atan":
		if numberIsZero(arg) {
			return Int(0)
		}
	case "cos", "cosh":
		if numberIsZero(arg) {
			return Int(1)
		}
	}
	return &Call{name: c.name, arg: arg}
}

func (c *Call) Sub(name string, value Expr) Expr {
	return CallOf(c.name, c.arg.Sub(name, value))
}

// Diff applies the chain rule. Functions with no derivative everywhere on
// their domain report a *DifferentiationError.
func (c *Call) Diff(name string) (Expr, error) {
	du, err := c.arg.Diff(name)
	if err != nil {
		return nil, err
	}
	if numberIsZero(du) {
		return Int(0), nil
	}
	u := c.arg
	switch c.name {
	case "sin":
		return MulOf(CallOf("cos", u), du), nil
	case "cos":
		return MulOf(Int(-1), CallOf("sin", u), du), nil
	case "tan":
		return MulOf(du, PowOf(CallOf("cos", u), Int(-2))), nil
	case "asin":
		return MulOf(du, PowOf(SubOf(Int(1), PowOf(u, Int(2))), Rat(-1, 2))), nil
	case "acos":
		return MulOf(Int(-1), du, PowOf(SubOf(Int(1), PowOf(u, Int(2))), Rat(-1, 2))), nil
	case "atan":
		return MulOf(du, PowOf(AddOf(Int(1), PowOf(u, Int(2))), Int(-1))), nil
	case "sinh":
		return MulOf(CallOf("cosh", u), du), nil
	case "cosh":
		return MulOf(CallOf("sinh", u), du), nil
	case "tanh":
		return MulOf(du, PowOf(CallOf("cosh", u), Int(-2))), nil
	case "exp":
		return MulOf(ExpOf(u), du), nil
	case "ln":
		return MulOf(du, PowOf(u, Int(-1))), nil
	case "abs":
		return MulOf(SignOf(u), du), nil
	}
	return nil, &DifferentiationError{Op: c.name}
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.name == o.name && c.arg.Equal(o.arg)
}

func (c *Call) String() string {
	return c.name + "(" + c.arg.String() + ")"
}

func (c *Call) LaTeX() string {
	inner := c.arg.LaTeX()
	switch c.name {
	case "abs":
		return "\\left|" + inner + "\\right|"
	case "exp":
		return "e^{" + inner + "}"
	case "sign":
		return "\\operatorname{sign}\\left(" + inner + "\\right)"
	case "floor":
		return "\\left\\lfloor " + inner + " \\right\\rfloor"
	case "ceil":
		return "\\left\\lceil " + inner + " \\right\\rceil"
	case "asin", "acos", "atan":
		return "\\" + "arc" + c.name[1:] + "\\left(" + inner + "\\right)"
	}
	return "\\" + c.name + "\\left(" + inner + "\\right)"
}
