package completion

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Defaults for the OpenRouter chat completion endpoint.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "meta-llama/llama-3.3-70b-instruct"
	DefaultTitle   = "News Summarizer"
	DefaultReferer = "http://localhost:5173"
	DefaultTimeout = 120 * time.Second
)

// Config holds the connection settings for the completion client.
type Config struct {
	// APIKey is sent as a bearer token. It is always injected by configuration.
	APIKey string

	// BaseURL is the API root; the client posts to BaseURL + "/chat/completions".
	BaseURL string

	// Model is the model identifier sent with every request.
	Model string

	// Title is sent as the X-Title attribution header.
	Title string

	// Referer is sent as the HTTP-Referer attribution header.
	Referer string

	// Timeout bounds a single upstream call.
	Timeout time.Duration
}

// DefaultConfig returns a Config with every default filled in except the API key.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Title:   DefaultTitle,
		Referer: DefaultReferer,
		Timeout: DefaultTimeout,
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("api key is required")
	}
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
