package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deltaphys/errorlab/backend/internal/engine"
	"github.com/deltaphys/errorlab/backend/internal/logging"
	"github.com/deltaphys/errorlab/backend/internal/monitoring"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	engine      *engine.Service
	metrics     *monitoring.Metrics
	log         *logging.Logger
	calcTimeout time.Duration
}

// NewHandlers creates a new handler set. calcTimeout bounds a single
// calculation; zero means no limit.
func NewHandlers(eng *engine.Service, metrics *monitoring.Metrics, log *logging.Logger, calcTimeout time.Duration) *Handlers {
	return &Handlers{
		engine:      eng,
		metrics:     metrics,
		log:         log,
		calcTimeout: calcTimeout,
	}
}

// Root reports basic service information.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "uncertainty-engine",
	})
}

// Health handles health checks.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

type parseRequest struct {
	Expr string `json:"expr"`
}

type parseResponse struct {
	Success bool        `json:"success"`
	Symbols [][2]string `json:"symbols"`
	LaTeX   string      `json:"latex"`
}

// Parse extracts the free symbols of an expression and renders it as
// markup. Failures of any kind collapse to success=false with blank
// outputs; the error detail goes to logs and metrics only.
func (h *Handlers) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordParse("bad_request")
		c.JSON(http.StatusOK, parseResponse{Symbols: [][2]string{}})
		return
	}

	result, err := h.engine.Parse(req.Expr)
	if err != nil {
		kind := engine.ErrorKind(err)
		h.log.Info("parse failed",
			zap.String("kind", kind),
			zap.Error(err),
			zap.String("request_id", c.GetString("request_id")),
		)
		h.metrics.RecordParse(kind)
		c.JSON(http.StatusOK, parseResponse{Symbols: [][2]string{}})
		return
	}

	h.metrics.RecordParse("")
	c.JSON(http.StatusOK, parseResponse{
		Success: true,
		Symbols: result.Symbols,
		LaTeX:   result.LaTeX,
	})
}

type calculateRequest struct {
	Expr   string             `json:"expr"`
	Args   []string           `json:"args"`
	Vars   []string           `json:"vars"`
	Values map[string]float64 `json:"values"`
	Prec   int                `json:"prec"`
	Refine bool               `json:"refine"`
}

type calculateResponse struct {
	Success                   bool   `json:"success"`
	Value                     string `json:"value"`
	AbsoluteUncertaintyExpr   string `json:"absoluteUncertaintyExpr"`
	AbsoluteUncertainty       string `json:"absoluteUncertainty"`
	FractionalUncertaintyExpr string `json:"fractionalUncertaintyExpr"`
	PercentageUncertainty     string `json:"percentageUncertainty"`
}

// Calculate evaluates an expression at the given values and derives the
// absolute and fractional uncertainty expressions and their values. All
// result fields are typeset markup. On any failure the response is
// success=false with every field blank.
func (h *Handlers) Calculate(c *gin.Context) {
	start := time.Now()

	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordCalculation("bad_request", time.Since(start))
		c.JSON(http.StatusOK, calculateResponse{})
		return
	}

	ctx := c.Request.Context()
	if h.calcTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.calcTimeout)
		defer cancel()
	}

	result, err := h.engine.Calculate(ctx, engine.CalcRequest{
		Expr:      req.Expr,
		Args:      req.Args,
		Positive:  req.Vars,
		Values:    req.Values,
		Precision: req.Prec,
		Refine:    req.Refine,
	})
	if err != nil {
		kind := engine.ErrorKind(err)
		h.log.Info("calculation failed",
			zap.String("kind", kind),
			zap.Error(err),
			zap.String("request_id", c.GetString("request_id")),
		)
		h.metrics.RecordCalculation(kind, time.Since(start))
		c.JSON(http.StatusOK, calculateResponse{})
		return
	}

	h.metrics.RecordCalculation("", time.Since(start))
	c.JSON(http.StatusOK, calculateResponse{
		Success:                   true,
		Value:                     result.Value,
		AbsoluteUncertaintyExpr:   result.AbsoluteExpr,
		AbsoluteUncertainty:       result.Absolute,
		FractionalUncertaintyExpr: result.FractionalExpr,
		PercentageUncertainty:     result.Percentage,
	})
}
