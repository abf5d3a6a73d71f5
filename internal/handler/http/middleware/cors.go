package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// Validator decides which origins may read responses.
	Validator OriginValidator

	// AllowedMethods lists the methods advertised in preflight responses.
	// Default: ["GET", "OPTIONS"]
	AllowedMethods []string

	// AllowedHeaders lists the request headers advertised in preflight responses.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string

	// ExposedHeaders lists the response headers scripts may read.
	// Default: ["X-Request-ID", "X-Trace-Id", "Retry-After"]
	ExposedHeaders []string

	// MaxAge is how long, in seconds, browsers may cache a preflight result.
	MaxAge int

	// Logger receives policy violations. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultCORSConfig returns a config allowing the given origins with the
// methods and headers the news API uses.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		Validator:      NewWhitelistValidator(origins),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Trace-Id", "Retry-After"},
		MaxAge:         86400,
	}
}

// CORS returns an HTTP middleware that handles cross-origin requests from the UI.
//
// Behavior:
//   - No Origin header: same-origin request, passed through untouched
//   - Origin not allowed: logged and passed through without CORS headers, so
//     the browser blocks the response
//   - Allowed preflight (OPTIONS with Access-Control-Request-Method): answered
//     with 204 and never reaches the router
//   - Allowed actual request: Access-Control-Allow-Origin echoes the origin
//
// The API carries no cookies, so Access-Control-Allow-Credentials is never sent.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if !config.Validator.IsAllowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				logger.Debug("CORS: preflight request",
					slog.String("origin", origin),
					slog.String("requested_method", r.Header.Get("Access-Control-Request-Method")))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}
