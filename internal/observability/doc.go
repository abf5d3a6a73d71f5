// Package observability groups the logging, metrics and tracing infrastructure.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus collectors and recorders for the news pipeline and HTTP API
//   - tracing: OpenTelemetry tracer and HTTP middleware
//
// Example usage:
//
//	import (
//	    "news-digest/internal/observability/logging"
//	    "news-digest/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    svc := news.NewService(client, prompts, retryCfg, metrics.NewPipelineRecorder())
//	}
package observability
