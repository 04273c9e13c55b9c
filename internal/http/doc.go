// Package http provides HTTP handlers and routing for the uncertainty REST
// API.
//
// Endpoints:
//   - Health: / and /health
//   - Symbol extraction: POST /parse
//   - Uncertainty calculation: POST /calculate
//   - Metrics: GET /metrics (Prometheus exposition)
//
// The API contract deliberately hides error detail from clients: any
// failure (bad JSON, a syntax error, a missing derivative rule, division
// by zero) produces a 200 response with success=false and blank result
// fields. Typed errors are classified and surfaced through logs and
// metrics instead.
package http
