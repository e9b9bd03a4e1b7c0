// Package middleware provides HTTP middleware for request logging and
// Prometheus metrics.
//
// The metrics middleware normalizes record ids out of paths to keep
// label cardinality bounded, and skips scrape and health endpoints.
// The logger writes one line per request with client IP, status, bytes
// and duration, sanitized against log injection.
package middleware
