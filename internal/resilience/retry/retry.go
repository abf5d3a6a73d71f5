// Package retry provides retry logic with exponential backoff.
// Only errors accepted by the configured predicate are retried; by default that is
// a rate-limit signal from an upstream HTTP API.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// Config holds the configuration for retry logic.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first one.
	MaxAttempts int

	// InitialDelay is the delay before the second attempt.
	InitialDelay time.Duration

	// Multiplier is the multiplier for exponential backoff.
	Multiplier float64

	// MaxDelay caps a single backoff wait. Zero means uncapped.
	MaxDelay time.Duration

	// ShouldRetry decides whether an error is worth another attempt.
	// Defaults to IsRateLimited.
	ShouldRetry func(error) bool

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the retry policy used for completion API calls:
// three attempts starting at one second, doubling, no cap and no jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
	}
}

// Validate checks that the policy can drive a retry loop.
func (c Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("initial delay must be non-negative, got %v", c.InitialDelay)
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %v", c.Multiplier)
	}
	if c.MaxDelay < 0 {
		return fmt.Errorf("max delay must be non-negative, got %v", c.MaxDelay)
	}
	return nil
}

// Delay returns the wait before the attempt following the given one.
// Attempts are numbered from 1, so Delay(1) == InitialDelay.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
	if c.MaxDelay > 0 && d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("max retry attempts (%d) exceeded: %v", e.Attempts, e.Err)
}

// Unwrap returns the error of the last attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// WithBackoff executes fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The attempt number (starting at 1) is passed to fn.
// A non-retryable error is returned as-is; exhaustion returns *ExhaustedError.
func WithBackoff(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsRateLimited
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(attempt)

		if lastErr == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "operation succeeded after retry",
					slog.Int("attempt", attempt))
			}
			return nil
		}

		if !shouldRetry(lastErr) {
			return lastErr
		}

		// Don't wait after last attempt
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.Delay(attempt)
		slog.WarnContext(ctx, "rate limited, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	return &ExhaustedError{Attempts: cfg.MaxAttempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRateLimited reports whether err carries a rate-limit signal: an HTTP 429
// status or a provider error code of 429 embedded in the error payload.
func IsRateLimited(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusTooManyRequests ||
		httpErr.ProviderCode == http.StatusTooManyRequests
}

// HTTPError represents a failed upstream HTTP call.
type HTTPError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// ProviderCode is the numeric error.code from the response payload, 0 if absent.
	ProviderCode int
	// Message is the provider-supplied error message, if any.
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	if e.ProviderCode != 0 && e.ProviderCode != e.StatusCode {
		return fmt.Sprintf("HTTP %d (code %d): %s", e.StatusCode, e.ProviderCode, msg)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}
