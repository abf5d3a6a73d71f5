// Package news implements the "today's news" use case: it builds a dated prompt,
// asks a chat completion API for news items with bounded retry on rate limiting,
// and validates the JSON embedded in the model's free-form answer.
package news

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"news-digest/internal/domain/entity"
	"news-digest/internal/observability/logging"
	"news-digest/internal/observability/tracing"
	"news-digest/internal/resilience/retry"
	"news-digest/internal/utils/text"
)

// Completer sends a single-message prompt to a chat completion API and returns
// the raw content of the first choice.
//
// Implementations report upstream HTTP failures as *retry.HTTPError so that
// rate limiting can be recognised, and return ErrMissingContent when an OK
// response has no message content.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MetricsRecorder receives pipeline observations.
type MetricsRecorder interface {
	// RecordAttempt counts one upstream call.
	RecordAttempt()
	// RecordRejected counts one dropped candidate, labelled by the failing field.
	RecordRejected(field string)
	// RecordOutcome records the end of a run. outcome is "success" or a Kind name.
	RecordOutcome(outcome string, items int, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordAttempt()                            {}
func (noopMetrics) RecordRejected(string)                     {}
func (noopMetrics) RecordOutcome(string, int, time.Duration) {}

// Service runs the fetch-validate pipeline. It is safe for concurrent use;
// concurrent runs do not share retry state. The prompt builder may be swapped
// at runtime, and each run uses the builder current when it starts.
type Service struct {
	completer Completer
	prompts   atomic.Pointer[PromptBuilder]
	retry     retry.Config
	metrics   MetricsRecorder

	// Now supplies the date the prompt asks for. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a Service. A nil metrics recorder disables metrics.
func NewService(completer Completer, prompts PromptBuilder, retryCfg retry.Config, metrics MetricsRecorder) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Service{
		completer: completer,
		retry:     retryCfg,
		metrics:   metrics,
		Now:       time.Now,
	}
	s.SetPromptBuilder(prompts)
	return s
}

// SetPromptBuilder replaces the builder used by subsequent runs.
func (s *Service) SetPromptBuilder(b PromptBuilder) {
	s.prompts.Store(&b)
}

// PromptBuilder returns the builder currently in use.
func (s *Service) PromptBuilder() PromptBuilder {
	return *s.prompts.Load()
}

// Prompt returns the prompt the service would send for the given date.
func (s *Service) Prompt(date time.Time) string {
	return s.PromptBuilder().Build(date)
}

// FetchNews performs one "get today's news" run. On failure the error is always
// a *PipelineError.
func (s *Service) FetchNews(ctx context.Context) (*entity.NewsResponse, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "news.FetchNews")
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()
	date := s.Now()
	prompt := s.PromptBuilder().Build(date)

	span.SetAttributes(attribute.String("news.date", FormatDate(date)))
	logger.InfoContext(ctx, "fetching news",
		slog.String("date", FormatDate(date)),
		slog.Int("prompt_length", len(prompt)))

	attempts := 0
	var content string
	err := retry.WithBackoff(ctx, s.retry, func(attempt int) error {
		attempts = attempt
		s.metrics.RecordAttempt()

		var callErr error
		content, callErr = s.completer.Complete(ctx, prompt)
		return callErr
	})
	span.SetAttributes(attribute.Int("news.attempts", attempts))

	if err != nil {
		return nil, s.fail(ctx, span, start, classifyCompletionError(ctx, err, attempts))
	}

	parsed, err := ParseNews(content)
	if err != nil {
		var pErr *PipelineError
		if errors.As(err, &pErr) {
			pErr.Attempts = attempts
			if pErr.Kind == KindNoJSONFound || pErr.Kind == KindInvalidJSON {
				logger.ErrorContext(ctx, "failed to extract json from response",
					slog.String("content", text.Truncate(content, 500)))
			}
		}
		return nil, s.fail(ctx, span, start, err)
	}

	for _, r := range parsed.Rejected {
		field := "object"
		var vErr *entity.ValidationError
		if errors.As(r.Err, &vErr) {
			field = vErr.Field
		}
		s.metrics.RecordRejected(field)
		logger.WarnContext(ctx, "filtered out invalid news item",
			slog.Int("index", r.Index),
			slog.String("field", field),
			slog.Any("error", r.Err))
	}

	if len(parsed.Items) == 0 {
		return nil, s.fail(ctx, span, start, &PipelineError{
			Kind:     KindEmptyResult,
			Message:  "all candidates were filtered out",
			Attempts: attempts,
		})
	}

	duration := time.Since(start)
	s.metrics.RecordOutcome("success", len(parsed.Items), duration)
	span.SetAttributes(
		attribute.Int("news.items", len(parsed.Items)),
		attribute.Int("news.rejected", len(parsed.Rejected)))
	logger.InfoContext(ctx, "news fetched",
		slog.Int("items", len(parsed.Items)),
		slog.Int("rejected", len(parsed.Rejected)),
		slog.Int("attempts", attempts),
		slog.Duration("duration", duration))

	return &entity.NewsResponse{Date: date, News: parsed.Items}, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, start time.Time, err error) error {
	kind := KindOf(err)
	s.metrics.RecordOutcome(kind.String(), 0, time.Since(start))
	span.RecordError(err)
	span.SetStatus(codes.Error, kind.String())
	logging.FromContext(ctx).ErrorContext(ctx, "news fetch failed",
		slog.String("kind", kind.String()),
		slog.Any("error", err))
	return err
}

// classifyCompletionError maps the retry loop's error to a PipelineError.
// Only the caller's own context ending counts as cancellation; a per-call
// timeout inside the completer is an upstream failure.
func classifyCompletionError(ctx context.Context, err error, attempts int) *PipelineError {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return &PipelineError{Kind: KindCanceled, Message: err.Error(), Attempts: attempts, Err: err}
	}

	if errors.Is(err, ErrMissingContent) {
		return &PipelineError{Kind: KindMalformedResponse, Message: err.Error(), Attempts: attempts, Err: err}
	}

	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		kind := KindAPI
		if retry.IsRateLimited(httpErr) {
			kind = KindRateLimitExceeded
		}
		return &PipelineError{
			Kind:         kind,
			StatusCode:   httpErr.StatusCode,
			ProviderCode: httpErr.ProviderCode,
			Message:      httpErr.Message,
			Attempts:     attempts,
			Err:          err,
		}
	}

	return &PipelineError{Kind: KindAPI, Message: err.Error(), Attempts: attempts, Err: err}
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f(ctx, prompt).
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
