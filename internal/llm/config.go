package llm

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ClientConfig holds what every provider client needs. Zero values fall back
// to the package defaults.
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
	Logger  *slog.Logger
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

func (c ClientConfig) withDefaults(provider string) (ClientConfig, error) {
	if c.APIKey == "" {
		return c, errors.New(provider + " API key cannot be empty")
	}
	c.Model = modelOrDefault(provider, c.Model)
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = DefaultRetryPolicy()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c, nil
}

func (c ClientConfig) transport(provider, defaultURL string, headers map[string]string) *httpJSON {
	url := c.BaseURL
	if url == "" {
		url = defaultURL
	}
	return &httpJSON{
		provider:   provider,
		url:        url,
		headers:    headers,
		httpClient: c.HTTPClient,
		retry:      c.Retry,
		logger:     c.Logger,
	}
}
