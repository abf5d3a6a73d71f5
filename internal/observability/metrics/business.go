package metrics

import (
	"strconv"
	"time"
)

// PipelineRecorder records news pipeline observations into the package collectors.
// It satisfies the news use case's MetricsRecorder interface.
type PipelineRecorder struct{}

// NewPipelineRecorder returns a recorder backed by the default registry.
func NewPipelineRecorder() *PipelineRecorder {
	return &PipelineRecorder{}
}

// RecordAttempt counts one upstream call.
func (PipelineRecorder) RecordAttempt() {
	NewsFetchAttemptsTotal.Inc()
}

// RecordRejected counts one dropped candidate.
func (PipelineRecorder) RecordRejected(field string) {
	NewsItemsRejectedTotal.WithLabelValues(field).Inc()
}

// RecordOutcome records the end of a run.
func (PipelineRecorder) RecordOutcome(outcome string, items int, duration time.Duration) {
	NewsFetchTotal.WithLabelValues(outcome).Inc()
	NewsFetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == "success" {
		NewsItemsReturned.Observe(float64(items))
	}
}

// RecordCompletionRequest records one upstream call. statusCode 0 means no
// HTTP response was received.
func RecordCompletionRequest(statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	CompletionRequestsTotal.WithLabelValues(status).Inc()
	CompletionRequestDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerState publishes a breaker state (0 closed, 1 half-open, 2 open).
func RecordCircuitBreakerState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, route, s).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, s).Observe(duration.Seconds())
}

// RecordRateLimited counts a request rejected by the local limiter.
func RecordRateLimited(route string) {
	HTTPRateLimitedTotal.WithLabelValues(route).Inc()
}
