package http

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"news-digest/internal/handler/http/respond"
	"news-digest/internal/observability/logging"
	"news-digest/internal/observability/metrics"
	"news-digest/internal/observability/tracing"
)

// errTooManyRequests is the user-facing message for locally limited requests.
var errTooManyRequests = errors.New("too many requests, please retry later")

// TokenBucket returns middleware that admits requests through a single
// process-wide token bucket refilled at perSecond with the given burst.
// Rejected requests get 429 with a Retry-After header and never reach the handler.
//
// It protects the upstream quota: every admitted /api/news request costs at
// least one completion call.
func TokenBucket(perSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / perSecond)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				route := tracing.RoutePattern(r)
				if route == "" {
					route = r.URL.Path
				}
				metrics.RecordRateLimited(route)
				logging.FromContext(r.Context()).WarnContext(r.Context(), "request rejected by local rate limiter",
					slog.String("route", route),
					slog.Float64("rate", perSecond),
					slog.Int("burst", burst))

				w.Header().Set("Retry-After", retryAfter)
				respond.SafeErrorV2(w, http.StatusTooManyRequests,
					respond.NewAppError(http.StatusTooManyRequests, errTooManyRequests.Error(), nil).
						WithKind("local_rate_limited"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
