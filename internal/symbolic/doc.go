// Package symbolic implements a small deterministic algebra kernel: an
// immutable expression tree over exact rationals, symbols, and the
// elementary functions, with structural simplification, partial
// differentiation, positivity-scoped refinement, precision-controlled
// numeric evaluation, and parsing/rendering for plain text and LaTeX.
//
// Expressions are tagged variants (Num, Float, Sym, Const, Add, Mul, Pow,
// Call). Every operation returns a new expression; nothing in this package
// holds mutable state across calls, so all functions are safe for
// concurrent use.
package symbolic
