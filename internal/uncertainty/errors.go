package uncertainty

// MalformedExpressionError indicates that an expression tree is structurally
// valid but its declared variable list is not usable: empty or duplicate
// names, or a name that collides with the uncertainty name (Δ-prefixed) of
// another declared variable.
type MalformedExpressionError struct {
	Msg string
}

func (e *MalformedExpressionError) Error() string {
	return "malformed expression: " + e.Msg
}
