package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-digest/internal/resilience/circuitbreaker"
	"news-digest/internal/resilience/retry"
	"news-digest/internal/usecase/news"
)

const okBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"model": "meta-llama/llama-3.3-70b-instruct",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"news\":[]}"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	cfg.Timeout = 5 * time.Second

	c, err := New(cfg, circuitbreaker.CompletionAPIConfig())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_Complete_RequestShape(t *testing.T) {
	var captured struct {
		path    string
		auth    string
		title   string
		referer string
		body    map[string]any
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.title = r.Header.Get("X-Title")
		captured.referer = r.Header.Get("HTTP-Referer")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		writeJSON(w, http.StatusOK, okBody)
	})

	content, err := c.Complete(context.Background(), "give me news")
	require.NoError(t, err)
	assert.Equal(t, `{"news":[]}`, content)

	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer test-key", captured.auth)
	assert.Equal(t, DefaultTitle, captured.title)
	assert.Equal(t, DefaultReferer, captured.referer)

	assert.Equal(t, DefaultModel, captured.body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured.body["response_format"])

	messages, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, []any{map[string]any{"type": "text", "text": "give me news"}}, msg["content"])
}

func TestClient_Complete_HTTPErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantStatus   int
		wantProvider int
		wantMessage  string
		rateLimited  bool
	}{
		{
			name:         "429 status",
			status:       http.StatusTooManyRequests,
			body:         `{"error":{"message":"Rate limit exceeded","code":429}}`,
			wantStatus:   429,
			wantProvider: 429,
			wantMessage:  "Rate limit exceeded",
			rateLimited:  true,
		},
		{
			name:         "provider code 429 on 400 status",
			status:       http.StatusBadRequest,
			body:         `{"error":{"message":"slow down","code":429}}`,
			wantStatus:   400,
			wantProvider: 429,
			wantMessage:  "slow down",
			rateLimited:  true,
		},
		{
			name:         "string provider code",
			status:       http.StatusBadRequest,
			body:         `{"error":{"message":"slow down","code":"429"}}`,
			wantStatus:   400,
			wantProvider: 429,
			wantMessage:  "slow down",
			rateLimited:  true,
		},
		{
			name:         "server error",
			status:       http.StatusInternalServerError,
			body:         `{"error":{"message":"Internal Server Error","code":500}}`,
			wantStatus:   500,
			wantProvider: 500,
			wantMessage:  "Internal Server Error",
		},
		{
			name:         "error without message",
			status:       http.StatusServiceUnavailable,
			body:         `{"error":{"code":503}}`,
			wantStatus:   503,
			wantProvider: 503,
		},
		{
			name:         "rate limit without message",
			status:       http.StatusTooManyRequests,
			body:         `{"error":{"code":429}}`,
			wantStatus:   429,
			wantProvider: 429,
			rateLimited:  true,
		},
		{
			name:       "non json body",
			status:     http.StatusBadGateway,
			body:       `upstream exploded`,
			wantStatus: 502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Complete(context.Background(), "prompt")
			require.Error(t, err)

			var httpErr *retry.HTTPError
			require.True(t, errors.As(err, &httpErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantProvider, httpErr.ProviderCode)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, tt.rateLimited, retry.IsRateLimited(err))
		})
	}
}

func TestClient_Complete_MissingContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"id":"x","choices":[]}`},
		{name: "empty content", body: `{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			_, err := c.Complete(context.Background(), "prompt")
			assert.ErrorIs(t, err, news.ErrMissingContent)
		})
	}
}

func TestClient_Complete_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var httpErr *retry.HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestClient_RateLimitsDoNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusTooManyRequests, `{"error":{"message":"Rate limit exceeded","code":429}}`)
	})

	for i := 0; i < 10; i++ {
		_, _ = c.Complete(context.Background(), "prompt")
	}

	assert.Equal(t, gobreaker.StateClosed, c.Breaker().State())
	assert.Equal(t, int32(10), calls.Load())
}

func TestClient_ServerErrorsTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{"error":{"message":"boom","code":500}}`)
	})

	cb := circuitbreaker.CompletionAPIConfig()
	for i := uint32(0); i < cb.MinRequests; i++ {
		_, _ = c.Complete(context.Background(), "prompt")
	}
	require.True(t, c.Breaker().IsOpen())

	_, err := c.Complete(context.Background(), "prompt")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(cb.MinRequests), calls.Load())

	var httpErr *retry.HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestService_RetriesRateLimitWithoutMessage(t *testing.T) {
	const newsBody = `{
		"id": "gen-2",
		"choices": [{"index": 0, "message": {"role": "assistant",
			"content": "{\"news\":[{\"title\":\"A\",\"summary\":\"B\",\"link\":\"C\",\"image\":\"D\"}]}"}}]
	}`

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusTooManyRequests, `{"error":{"code":429}}`)
			return
		}
		writeJSON(w, http.StatusOK, newsBody)
	})

	var waits []time.Duration
	svc := news.NewService(c, news.DefaultPromptBuilder(), retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		Multiplier:   2,
		Sleep: func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}, nil)

	resp, err := svc.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.News, 1)
	assert.Equal(t, "A", resp.News[0].Title)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{time.Second}, waits)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig(), circuitbreaker.CompletionAPIConfig())
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()
	valid.APIKey = "k"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "missing key", mutate: func(c *Config) { c.APIKey = "" }, wantErr: true},
		{name: "missing model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "/v1" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProviderCode(t *testing.T) {
	assert.Equal(t, 429, providerCode(429))
	assert.Equal(t, 429, providerCode(float64(429)))
	assert.Equal(t, 429, providerCode("429"))
	assert.Equal(t, 0, providerCode("rate_limited"))
	assert.Equal(t, 0, providerCode(nil))
}
