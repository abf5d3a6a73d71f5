package http

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that attaches a deadline to the request context.
// Handlers observe it through ctx; the news pipeline turns an expired deadline
// into a canceled run, which the news handler answers with 504.
//
// Unlike http.TimeoutHandler the handler keeps ownership of the response
// writer, so the error body still carries the pipeline's kind.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
