// Package resilience groups the fault tolerance patterns used around the completion API.
//
// The package supports:
//   - Circuit breaking for upstream outages (circuitbreaker)
//   - Bounded retry with exponential backoff on rate limiting (retry)
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.CompletionAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callExternalService()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func(attempt int) error {
//	    return performOperation()
//	})
package resilience
