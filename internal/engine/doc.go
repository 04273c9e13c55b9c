// Package engine orchestrates the expression workflow behind the API:
// parsing user text, propagating uncertainty, evaluating at measured values
// and rendering results as typeset markup.
package engine
