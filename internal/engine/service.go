package engine

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/deltaphys/errorlab/backend/internal/logging"
	"github.com/deltaphys/errorlab/backend/internal/symbolic"
	"github.com/deltaphys/errorlab/backend/internal/uncertainty"
)

// Config bounds the work a single request may do.
type Config struct {
	// DefaultPrecision is the significant-figure count used when a request
	// does not specify one.
	DefaultPrecision int
	// MaxExpressionLength rejects oversized inputs before parsing.
	MaxExpressionLength int
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		DefaultPrecision:    uncertainty.DefaultPrecision,
		MaxExpressionLength: 10000,
	}
}

// Service exposes the parse and calculate operations to transport layers.
type Service struct {
	cfg Config
	log *logging.Logger
}

// NewService creates a service with the given limits.
func NewService(cfg Config, log *logging.Logger) *Service {
	if cfg.DefaultPrecision <= 0 {
		cfg.DefaultPrecision = uncertainty.DefaultPrecision
	}
	if cfg.MaxExpressionLength <= 0 {
		cfg.MaxExpressionLength = DefaultConfig().MaxExpressionLength
	}
	if log == nil {
		log = logging.NewDefault()
	}
	return &Service{cfg: cfg, log: log}
}

// ParseResult is the outcome of symbol extraction.
type ParseResult struct {
	// Symbols lists each free symbol as a (plain, markup) pair, sorted by
	// plain name.
	Symbols [][2]string
	// LaTeX is the markup rendering of the whole parsed expression.
	LaTeX string
}

// Parse extracts the free symbols of free-form expression text and renders
// it as markup. The parse is structure-preserving, so the markup mirrors
// the input's shape.
func (s *Service) Parse(text string) (*ParseResult, error) {
	if len(text) > s.cfg.MaxExpressionLength {
		return nil, &symbolic.ParseError{Col: s.cfg.MaxExpressionLength + 1, Msg: "expression too long"}
	}
	tree, err := symbolic.Parse(text)
	if err != nil {
		return nil, err
	}
	names := symbolic.FreeSymbols(tree)
	symbols := make([][2]string, 0, len(names))
	for name := range names {
		sym := symbolic.Symbol(name)
		symbols = append(symbols, [2]string{sym.String(), sym.LaTeX()})
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i][0] < symbols[j][0] })
	return &ParseResult{Symbols: symbols, LaTeX: tree.LaTeX()}, nil
}

// CalcRequest carries one uncertainty calculation.
type CalcRequest struct {
	// Expr is the formula text.
	Expr string
	// Args is the ordered list of measured variables.
	Args []string
	// Positive names additional symbols the caller asserts are positive.
	Positive []string
	// Values maps variable names to measured values. Missing variables stay
	// symbolic in the results.
	Values map[string]float64
	// Precision is the number of significant figures for numeric results.
	Precision int
	// Refine requests algebraic normalization of the formula before
	// propagation.
	Refine bool
}

// CalcResult carries the rendered outcome of a calculation. All fields are
// typeset markup; value fields may stay symbolic when Values binds only a
// subset of the variables.
type CalcResult struct {
	Value          string
	AbsoluteExpr   string
	Absolute       string
	FractionalExpr string
	Percentage     string
}

// Calculate evaluates the expression and derives its absolute and
// fractional uncertainties. Stages check ctx so an expired deadline aborts
// the remaining work.
func (s *Service) Calculate(ctx context.Context, req CalcRequest) (*CalcResult, error) {
	if len(req.Expr) > s.cfg.MaxExpressionLength {
		return nil, &symbolic.ParseError{Col: s.cfg.MaxExpressionLength + 1, Msg: "expression too long"}
	}
	prec := req.Precision
	if prec <= 0 {
		prec = s.cfg.DefaultPrecision
	}

	expr, err := uncertainty.FromText(req.Args, req.Expr)
	if err != nil {
		return nil, err
	}
	if req.Refine {
		expr, err = uncertainty.New(expr.Vars(), expr.Formula().Simplify())
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absolute, err := uncertainty.Absolute(expr, req.Positive, nil)
	if err != nil {
		return nil, err
	}
	fractional, err := uncertainty.Fractional(expr, absolute)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := expr.Evaluate(req.Values, prec)
	if err != nil {
		return nil, err
	}
	absValue, err := absolute.Evaluate(req.Values, prec)
	if err != nil {
		return nil, err
	}
	fracValue, err := fractional.Evaluate(req.Values, prec)
	if err != nil {
		return nil, err
	}
	percent := symbolic.MulOf(fracValue, symbolic.Int(100))

	s.log.Debug("calculation complete",
		zap.String("expr", req.Expr),
		zap.Strings("args", req.Args),
		zap.Int("precision", prec),
	)
	return &CalcResult{
		Value:          value.LaTeX(),
		AbsoluteExpr:   absolute.LaTeX(),
		Absolute:       absValue.LaTeX(),
		FractionalExpr: fractional.LaTeX(),
		Percentage:     percent.LaTeX(),
	}, nil
}

// ErrorKind classifies a failure for logs and metrics.
func ErrorKind(err error) string {
	var (
		parseErr      *symbolic.ParseError
		malformedErr  *uncertainty.MalformedExpressionError
		diffErr       *symbolic.DifferentiationError
		assumptionErr *symbolic.AssumptionConflictError
		evalErr       *symbolic.EvaluationError
	)
	switch {
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &malformedErr):
		return "malformed"
	case errors.As(err, &diffErr):
		return "differentiation"
	case errors.As(err, &assumptionErr):
		return "assumption_conflict"
	case errors.As(err, &evalErr):
		return "evaluation"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	}
	return "internal"
}
