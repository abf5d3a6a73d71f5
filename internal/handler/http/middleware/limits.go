package middleware

import (
	"errors"
	"net/http"

	"news-digest/internal/handler/http/respond"
)

const (
	// MaxURILength bounds path plus query. The longest legitimate request is
	// /api/prompt?date=YYYY-MM-DD.
	MaxURILength = 2048

	// MaxBodyBytes bounds request bodies. Every route is GET, so bodies are never read.
	MaxBodyBytes = 64 << 10
)

var errURITooLong = errors.New("request URI must be at most 2048 bytes")

// InputLimits returns middleware that rejects oversized URIs with 414 and caps
// request bodies.
func InputLimits() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.RequestURI()) > MaxURILength {
				respond.Error(w, http.StatusRequestURITooLong, errURITooLong)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
