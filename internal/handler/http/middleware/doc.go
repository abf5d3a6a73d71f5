// Package middleware provides browser-facing HTTP middleware for the news API:
// CORS for the UI origin, security response headers and request size limits.
package middleware
