// Package server assembles the HTTP server for the uncertainty service.
//
// It wires the middleware stack (request ID, logging, CORS, rate limiting,
// metrics), the engine service and the API handlers onto a Gin router, and
// owns the listener lifecycle.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Assemble router, middleware and handlers
//  4. Serve until a shutdown signal, then drain gracefully
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv := server.New(cfg, log)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
