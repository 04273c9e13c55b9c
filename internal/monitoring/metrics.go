package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine metrics
	Parses       *prometheus.CounterVec
	Calculations *prometheus.CounterVec
	CalcDuration prometheus.Histogram
	Failures     *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector registered on reg. Callers that
// want the default registry pass prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		Parses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_parses_total",
				Help: "Total number of symbol-extraction requests",
			},
			[]string{"status"},
		),
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_calculations_total",
				Help: "Total number of uncertainty calculations",
			},
			[]string{"status"},
		),
		CalcDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "backend_calculation_duration_seconds",
				Help:    "Uncertainty calculation duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_engine_failures_total",
				Help: "Engine failures by operation and error kind",
			},
			[]string{"operation", "kind"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordParse records the outcome of a symbol-extraction request. kind is
// empty on success.
func (m *Metrics) RecordParse(kind string) {
	if kind == "" {
		m.Parses.WithLabelValues("ok").Inc()
		return
	}
	m.Parses.WithLabelValues("error").Inc()
	m.Failures.WithLabelValues("parse", kind).Inc()
}

// RecordCalculation records the outcome and duration of a calculation. kind
// is empty on success.
func (m *Metrics) RecordCalculation(kind string, duration time.Duration) {
	m.CalcDuration.Observe(duration.Seconds())
	if kind == "" {
		m.Calculations.WithLabelValues("ok").Inc()
		return
	}
	m.Calculations.WithLabelValues("error").Inc()
	m.Failures.WithLabelValues("calculate", kind).Inc()
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
