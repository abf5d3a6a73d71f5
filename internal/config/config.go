// Package config assembles the application configuration from environment
// variables and the optional prompt file.
package config

import (
	"errors"
	"fmt"
	"time"

	"news-digest/internal/handler/http/middleware"
	"news-digest/internal/infra/completion"
	"news-digest/internal/resilience/circuitbreaker"
	"news-digest/internal/resilience/retry"
	"news-digest/internal/usecase/news"
	envconfig "news-digest/pkg/config"
)

// ErrMissingAPIKey is returned when OPENROUTER_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY is required")

// AppConfig holds everything the CLI and the HTTP server need to wire the pipeline.
type AppConfig struct {
	// Completion configures the upstream chat completion client.
	Completion completion.Config

	// Retry is the rate-limit backoff policy of the news pipeline.
	Retry retry.Config

	// CircuitBreaker guards the completion API.
	CircuitBreaker circuitbreaker.Config

	// Prompt holds the sources and topics listed in the prompt.
	Prompt news.PromptBuilder

	// PromptFile is the YAML file the prompt lists were read from, if any.
	PromptFile string

	// HTTP configures the API server.
	HTTP HTTPConfig
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string

	// NewsRate is the sustained /api/news request rate per second. Default: 0.2
	NewsRate float64

	// NewsBurst is the /api/news token bucket size. Default: 2
	NewsBurst int

	// NewsRateLimitEnabled toggles the /api/news limiter. Default: true
	NewsRateLimitEnabled bool

	// NewsTimeout bounds one /api/news request. Zero disables it. Default: 4m
	NewsTimeout time.Duration

	// CORSAllowedOrigins lists the UI origins allowed to call the API.
	// Default: ["http://localhost:5173"]
	CORSAllowedOrigins []string

	// ReadHeaderTimeout bounds reading request headers. Default: 10s
	ReadHeaderTimeout time.Duration

	// WriteTimeout must exceed a full pipeline run including backoff. Default: 5m
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration
}

// LoadConfig reads configuration from environment variables, applies the
// prompt file named by NEWS_PROMPT_FILE and validates the result.
//
// Environment variables:
//   - OPENROUTER_API_KEY: bearer credential (required)
//   - OPENROUTER_BASE_URL: API root (default: https://openrouter.ai/api/v1)
//   - NEWS_MODEL, NEWS_APP_TITLE, NEWS_APP_REFERER, NEWS_REQUEST_TIMEOUT
//   - NEWS_RETRY_MAX_ATTEMPTS, NEWS_RETRY_INITIAL_DELAY, NEWS_RETRY_MULTIPLIER, NEWS_RETRY_MAX_DELAY
//   - NEWS_CB_MAX_REQUESTS, NEWS_CB_INTERVAL, NEWS_CB_TIMEOUT, NEWS_CB_FAILURE_THRESHOLD, NEWS_CB_MIN_REQUESTS
//   - NEWS_PROMPT_FILE, NEWS_SOURCES, NEWS_TOPICS
//   - HTTP_ADDR, NEWS_API_RATE, NEWS_API_BURST, NEWS_API_RATE_LIMIT_ENABLED, NEWS_API_TIMEOUT
//   - CORS_ALLOWED_ORIGINS
func LoadConfig() (*AppConfig, error) {
	cfg, err := loadWithoutKey()
	if err != nil {
		return nil, err
	}
	if cfg.Completion.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadPromptOnly loads the prompt settings without requiring a credential.
// The prompt command uses it to print prompts offline.
func LoadPromptOnly() (news.PromptBuilder, error) {
	cfg, err := loadWithoutKey()
	if err != nil {
		return news.PromptBuilder{}, err
	}
	return cfg.Prompt, nil
}

func loadWithoutKey() (*AppConfig, error) {
	defRetry := retry.DefaultConfig()
	defCB := circuitbreaker.CompletionAPIConfig()

	cfg := &AppConfig{
		Completion: completion.Config{
			APIKey:  envconfig.GetEnvString("OPENROUTER_API_KEY", ""),
			BaseURL: envconfig.GetEnvString("OPENROUTER_BASE_URL", completion.DefaultBaseURL),
			Model:   envconfig.GetEnvString("NEWS_MODEL", completion.DefaultModel),
			Title:   envconfig.GetEnvString("NEWS_APP_TITLE", completion.DefaultTitle),
			Referer: envconfig.GetEnvString("NEWS_APP_REFERER", completion.DefaultReferer),
			Timeout: envconfig.GetEnvDuration("NEWS_REQUEST_TIMEOUT", completion.DefaultTimeout),
		},
		Retry: retry.Config{
			MaxAttempts:  envconfig.GetEnvInt("NEWS_RETRY_MAX_ATTEMPTS", defRetry.MaxAttempts),
			InitialDelay: envconfig.GetEnvDuration("NEWS_RETRY_INITIAL_DELAY", defRetry.InitialDelay),
			Multiplier:   envconfig.GetEnvFloat("NEWS_RETRY_MULTIPLIER", defRetry.Multiplier),
			MaxDelay:     envconfig.GetEnvDuration("NEWS_RETRY_MAX_DELAY", defRetry.MaxDelay),
		},
		CircuitBreaker: circuitbreaker.Config{
			Name:             defCB.Name,
			MaxRequests:      uint32(envconfig.GetEnvInt("NEWS_CB_MAX_REQUESTS", int(defCB.MaxRequests))),
			Interval:         envconfig.GetEnvDuration("NEWS_CB_INTERVAL", defCB.Interval),
			Timeout:          envconfig.GetEnvDuration("NEWS_CB_TIMEOUT", defCB.Timeout),
			FailureThreshold: envconfig.GetEnvFloat("NEWS_CB_FAILURE_THRESHOLD", defCB.FailureThreshold),
			MinRequests:      uint32(envconfig.GetEnvInt("NEWS_CB_MIN_REQUESTS", int(defCB.MinRequests))),
		},
		PromptFile: envconfig.GetEnvString("NEWS_PROMPT_FILE", ""),
		HTTP: HTTPConfig{
			Addr:                 envconfig.GetEnvString("HTTP_ADDR", ":8080"),
			NewsRate:             envconfig.GetEnvFloat("NEWS_API_RATE", 0.2),
			NewsBurst:            envconfig.GetEnvInt("NEWS_API_BURST", 2),
			NewsRateLimitEnabled: envconfig.GetEnvBool("NEWS_API_RATE_LIMIT_ENABLED", true),
			NewsTimeout:          envconfig.GetEnvDuration("NEWS_API_TIMEOUT", 4*time.Minute),
			CORSAllowedOrigins:   envconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{completion.DefaultReferer}),
			ReadHeaderTimeout:    envconfig.GetEnvDuration("HTTP_READ_HEADER_TIMEOUT", 10*time.Second),
			WriteTimeout:         envconfig.GetEnvDuration("HTTP_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout:      envconfig.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	prompt, err := ResolvePrompt(cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	cfg.Prompt = prompt

	return cfg, nil
}

// ResolvePrompt builds the prompt lists from the defaults, the prompt file at
// path (skipped when empty) and NEWS_SOURCES / NEWS_TOPICS. Env lists override
// the file, which overrides the defaults.
func ResolvePrompt(path string) (news.PromptBuilder, error) {
	b := news.DefaultPromptBuilder()
	if path != "" {
		pf, err := LoadPromptFile(path)
		if err != nil {
			return news.PromptBuilder{}, err
		}
		b = pf.Apply(b)
	}

	b.Sources = envconfig.GetEnvStringList("NEWS_SOURCES", b.Sources)
	b.Topics = envconfig.GetEnvStringList("NEWS_TOPICS", b.Topics)
	return b, nil
}

// Validate checks configuration correctness.
func (c *AppConfig) Validate() error {
	if err := c.Completion.Validate(); err != nil {
		return fmt.Errorf("completion: %w", err)
	}

	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("retry: %w", err)
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("NEWS_CB_MAX_REQUESTS must be positive")
	}
	if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Interval); err != nil {
		return fmt.Errorf("NEWS_CB_INTERVAL: %w", err)
	}
	if err := envconfig.ValidatePositiveDuration(c.CircuitBreaker.Timeout); err != nil {
		return fmt.Errorf("NEWS_CB_TIMEOUT: %w", err)
	}
	if c.CircuitBreaker.FailureThreshold <= 0 || c.CircuitBreaker.FailureThreshold > 1 {
		return fmt.Errorf("NEWS_CB_FAILURE_THRESHOLD must be in (0, 1]")
	}

	if len(c.Prompt.Sources) == 0 {
		return fmt.Errorf("at least one news source is required")
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if c.HTTP.NewsRateLimitEnabled {
		if c.HTTP.NewsRate <= 0 {
			return fmt.Errorf("NEWS_API_RATE must be positive")
		}
		if c.HTTP.NewsBurst <= 0 {
			return fmt.Errorf("NEWS_API_BURST must be positive")
		}
	}
	if err := envconfig.ValidatePositiveDuration(c.HTTP.ShutdownTimeout); err != nil {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT: %w", err)
	}
	if err := envconfig.ValidateNonNegativeDuration(c.HTTP.WriteTimeout); err != nil {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}
	if err := envconfig.ValidateNonNegativeDuration(c.HTTP.NewsTimeout); err != nil {
		return fmt.Errorf("NEWS_API_TIMEOUT: %w", err)
	}
	if err := middleware.ValidateOrigins(c.HTTP.CORSAllowedOrigins); err != nil {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS: %w", err)
	}

	return nil
}
