package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"news-digest/internal/handler/http/middleware"
	"news-digest/internal/handler/http/news"
	"news-digest/internal/handler/http/requestid"
	"news-digest/internal/observability/tracing"
)

// RouterConfig carries the dependencies and limits of the API router.
type RouterConfig struct {
	News    news.Service
	Breaker BreakerState
	Model   string
	Version string
	Logger  *slog.Logger

	// NewsRate and NewsBurst configure the /api/news token bucket when
	// RateLimitEnabled is set.
	RateLimitEnabled bool
	NewsRate         float64
	NewsBurst        int

	// NewsTimeout bounds one /api/news request. Zero disables it.
	NewsTimeout time.Duration

	// CORSOrigins lists the browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string
}

// NewRouter builds the chi router serving /api/news, /api/prompt, /health and /metrics.
//
// Middleware order: request id, request-scoped logger, tracing, metrics,
// access log, panic recovery, security headers, input limits, CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(RequestLogger(logger))
	r.Use(tracing.Middleware)
	r.Use(MetricsMiddleware)
	r.Use(Logging(logger))
	r.Use(Recover(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.InputLimits())
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig(cfg.CORSOrigins)
		corsCfg.Logger = logger
		r.Use(middleware.CORS(corsCfg))
	}

	r.Method(http.MethodGet, "/health", &HealthHandler{
		Breaker: cfg.Breaker,
		Model:   cfg.Model,
		Version: cfg.Version,
	})
	r.Method(http.MethodGet, "/metrics", MetricsHandler())

	var newsMiddleware []func(http.Handler) http.Handler
	if cfg.RateLimitEnabled {
		newsMiddleware = append(newsMiddleware, TokenBucket(cfg.NewsRate, cfg.NewsBurst))
	}
	if cfg.NewsTimeout > 0 {
		newsMiddleware = append(newsMiddleware, Timeout(cfg.NewsTimeout))
	}
	news.Register(r, cfg.News, newsMiddleware...)

	return r
}
