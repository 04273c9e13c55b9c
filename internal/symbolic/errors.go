package symbolic

import "strconv"

// ParseError indicates that input text is not valid expression syntax.
type ParseError struct {
	// Col is the 1-based rune column where scanning failed.
	Col int
	// Msg describes what the parser expected or rejected.
	Msg string
}

func (e *ParseError) Error() string {
	return "parse error at column " + strconv.Itoa(e.Col) + ": " + e.Msg
}

// DifferentiationError indicates a term with no defined derivative.
type DifferentiationError struct {
	// Op is the function or operator that has no derivative rule.
	Op string
}

func (e *DifferentiationError) Error() string {
	return "no derivative rule for " + e.Op
}

// AssumptionConflictError indicates contradictory sign assumptions on the
// same symbol.
type AssumptionConflictError struct {
	Name string
}

func (e *AssumptionConflictError) Error() string {
	return "conflicting sign assumptions for " + e.Name
}

// EvaluationError indicates that numeric evaluation failed, e.g. division
// by zero or a function argument outside its domain.
type EvaluationError struct {
	Op  string
	Msg string
}

func (e *EvaluationError) Error() string {
	if e.Op == "" {
		return "evaluation failed: " + e.Msg
	}
	return "evaluation failed in " + e.Op + ": " + e.Msg
}
