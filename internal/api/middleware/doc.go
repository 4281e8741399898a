// Package middleware provides the HTTP middleware stack of the session service.
//
// Middleware stack includes:
//   - CORS: Cross-origin access for the desktop front end
//   - RateLimit: Per-IP token bucket limiting with idle client pruning
//   - RequestID: X-Request-ID propagation
//   - Logger: Structured request logging via zap
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
