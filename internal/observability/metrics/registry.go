// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, route, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	// /api/news waits on the upstream model, so buckets reach two minutes.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestsInFlight tracks the current number of HTTP requests being processed.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPRateLimitedTotal counts requests rejected by the local limiter.
	HTTPRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of HTTP requests rejected by the local rate limiter",
		},
		[]string{"route"},
	)
)

// Pipeline metrics track news fetch runs
var (
	// NewsFetchTotal counts pipeline runs by outcome ("success" or an error kind)
	NewsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_fetch_total",
			Help: "Total number of news fetch runs by outcome",
		},
		[]string{"outcome"},
	)

	// NewsFetchDuration measures a whole run including backoff waits
	NewsFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_fetch_duration_seconds",
			Help:    "Duration of news fetch runs including retries",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"outcome"},
	)

	// NewsFetchAttemptsTotal counts upstream calls made by the pipeline
	NewsFetchAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_fetch_attempts_total",
			Help: "Total number of completion API calls made by the news pipeline",
		},
	)

	// NewsItemsReturned observes how many items a successful run returned
	NewsItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "news_items_returned",
			Help:    "Number of validated news items per successful run",
			Buckets: []float64{1, 2, 3, 5, 7, 10, 15},
		},
	)

	// NewsItemsRejectedTotal counts candidates dropped by validation, by failing field
	NewsItemsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_rejected_total",
			Help: "Total number of candidate news items dropped by validation",
		},
		[]string{"field"},
	)
)

// Completion API metrics track calls to the upstream chat completion endpoint
var (
	// CompletionRequestsTotal counts upstream calls by result status
	CompletionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_requests_total",
			Help: "Total number of chat completion API calls by status",
		},
		[]string{"status"},
	)

	// CompletionRequestDuration measures upstream call latency
	CompletionRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "completion_request_duration_seconds",
			Help:    "Chat completion API call latency",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// CircuitBreakerState reports breaker state (0 closed, 1 half-open, 2 open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		},
		[]string{"circuit"},
	)
)
