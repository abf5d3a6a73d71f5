// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, in-flight)
//   - News pipeline metrics (runs by outcome, upstream attempts, filtered candidates)
//   - Completion API metrics (calls by status, latency, circuit breaker state)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "news-digest/internal/observability/metrics"
//
//	recorder := metrics.NewPipelineRecorder()
//	recorder.RecordOutcome("success", 7, time.Since(start))
package metrics
