// Package completion implements the news use case's Completer on top of an
// OpenAI-compatible chat completion API (OpenRouter by default).
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"news-digest/internal/observability/logging"
	"news-digest/internal/observability/metrics"
	"news-digest/internal/resilience/circuitbreaker"
	"news-digest/internal/resilience/retry"
	"news-digest/internal/usecase/news"
)

// headerTransport adds the attribution headers OpenRouter expects.
type headerTransport struct {
	base    http.RoundTripper
	title   string
	referer string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

// Client sends single-message prompts to the chat completion endpoint through
// a circuit breaker. It does not retry; retry is the caller's policy.
type Client struct {
	client  *openai.Client
	breaker *circuitbreaker.CircuitBreaker
	cfg     Config
}

// New creates a Client. cbCfg's IsSuccessful and OnStateChange are replaced so
// that rate limits and empty answers do not trip the breaker and state changes
// are published as metrics.
func New(cfg Config, cbCfg circuitbreaker.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid completion config: %w", err)
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			title:   cfg.Title,
			referer: cfg.Referer,
		},
	}

	cbCfg.IsSuccessful = breakerSuccess
	cbCfg.OnStateChange = func(name string, _, to gobreaker.State) {
		metrics.RecordCircuitBreakerState(name, int(to))
	}
	metrics.RecordCircuitBreakerState(cbCfg.Name, int(gobreaker.StateClosed))

	slog.Info("initialized completion client",
		slog.String("base_url", cfg.BaseURL),
		slog.String("model", cfg.Model),
		slog.Duration("timeout", cfg.Timeout))

	return &Client{
		client:  openai.NewClientWithConfig(oc),
		breaker: circuitbreaker.New(cbCfg),
		cfg:     cfg,
	}, nil
}

// Breaker exposes the circuit breaker for health reporting.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete posts prompt as a single user message with a JSON-object response
// format and returns the first choice's content.
//
// Non-OK responses become *retry.HTTPError carrying the HTTP status and the
// provider's error.code when it is numeric. A response without content yields
// news.ErrMissingContent.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doComplete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.FromContext(ctx).WarnContext(ctx, "completion api circuit breaker open, request rejected",
				slog.String("circuit", c.breaker.Name()),
				slog.String("state", c.breaker.State().String()))
			return "", fmt.Errorf("completion api unavailable: %w", err)
		}
		return "", err
	}

	return result.(string), nil
}

func (c *Client) doComplete(ctx context.Context, prompt string) (string, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{{
				Type: openai.ChatMessagePartTypeText,
				Text: prompt,
			}},
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	duration := time.Since(start)

	if err != nil {
		mapped := mapError(err)
		status := 0
		var httpErr *retry.HTTPError
		if errors.As(mapped, &httpErr) {
			status = httpErr.StatusCode
		}
		metrics.RecordCompletionRequest(status, duration)
		logger.ErrorContext(ctx, "completion request failed",
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("error", mapped.Error()))
		return "", mapped
	}

	metrics.RecordCompletionRequest(http.StatusOK, duration)

	if len(resp.Choices) == 0 {
		logger.ErrorContext(ctx, "completion api returned no choices",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("%w: no choices", news.ErrMissingContent)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		logger.ErrorContext(ctx, "completion api returned empty content",
			slog.String("finish_reason", string(resp.Choices[0].FinishReason)),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("%w: empty message content", news.ErrMissingContent)
	}

	logger.InfoContext(ctx, "completion received",
		slog.String("model", resp.Model),
		slog.Int("content_length", len(content)),
		slog.Int("total_tokens", resp.Usage.TotalTokens),
		slog.Duration("duration", duration))

	return content, nil
}

// mapError converts go-openai errors into *retry.HTTPError. Transport and
// context errors are wrapped unchanged.
func mapError(err error) error {
	// go-openai returns a RequestError when the error body does not decode
	// into its APIError shape, e.g. when "message" is missing. Its Err may be
	// a half-decoded *APIError without status or code, so it is checked first
	// and the body is decoded here.
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		httpErr := &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode}
		var body struct {
			Error struct {
				Code    any    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(reqErr.Body, &body) == nil {
			httpErr.ProviderCode = providerCode(body.Error.Code)
			httpErr.Message = body.Error.Message
		}
		return httpErr
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{
			StatusCode:   apiErr.HTTPStatusCode,
			ProviderCode: providerCode(apiErr.Code),
			Message:      apiErr.Message,
		}
	}

	return fmt.Errorf("completion request failed: %w", err)
}

// providerCode returns the numeric value of an error.code field, or 0.
func providerCode(code any) int {
	switch v := code.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// breakerSuccess reports which outcomes do not count against the breaker.
// Rate limits are handled by backoff, and empty answers or caller
// cancellations say nothing about upstream health.
func breakerSuccess(err error) bool {
	return err == nil ||
		retry.IsRateLimited(err) ||
		errors.Is(err, news.ErrMissingContent) ||
		errors.Is(err, context.Canceled)
}
