// Package tracing provides OpenTelemetry tracing integration.
//
// Setup installs the SDK tracer provider and W3C propagators. Middleware opens
// a server span per HTTP request, and the news use case opens a child span per
// fetch run through GetTracer.
//
// Example usage:
//
//	import "news-digest/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Setup()
//	    defer shutdown(context.Background())
//	}
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	}
package tracing
