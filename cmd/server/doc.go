// Package main is the entry point for the uncertainty service.
//
// The server exposes a small REST API over the expression engine: symbol
// extraction for free-form formula text and first-order uncertainty
// propagation at measured values.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown with a drain timeout
package main
