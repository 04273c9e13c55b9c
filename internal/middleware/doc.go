// Package middleware provides the HTTP middleware stack for the uncertainty
// service.
//
// Middleware stack includes:
//   - CORS: cross-origin resource sharing with configurable origins
//   - RateLimit: per-IP token bucket rate limiting with idle-entry cleanup
//   - RequestID: unique ID per request, honored from X-Request-ID
//   - RequestLogger: one structured log line per request
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.RequestID())
//	router.Use(middleware.RequestLogger(log))
package middleware
