// In file: internal/llm/retry.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryPolicy retries a call only when the provider answered HTTP 429. Every
// other failure is returned immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy waits 1s then 2s between three attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: maxRetries, BaseDelay: initialRetryDelay}
}

// Delay returns the wait before the retry that follows attempt (0-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// Do runs fn until it succeeds, fails with a non-429 error, the attempts are
// used up, or ctx is done.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, provider string, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil || !IsRateLimited(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		delay := p.Delay(attempt)
		logger.Warn("provider rate limited, backing off",
			"provider", provider, "attempt", attempt+1, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("rate limited after %d attempts: %w", attempts, err)
}

// httpJSON is the shared transport for the plain-HTTP providers.
type httpJSON struct {
	provider   string
	url        string
	headers    map[string]string
	httpClient *http.Client
	retry      RetryPolicy
	logger     *slog.Logger
}

// post sends payload as JSON and decodes a 2xx body into out.
func (h *httpJSON) post(ctx context.Context, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request payload: %w", h.provider, err)
	}

	var respBody []byte
	err = h.retry.Do(ctx, h.logger, h.provider, func(ctx context.Context) error {
		respBody, err = h.doRequest(ctx, body)
		return err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", h.provider, err)
	}
	return nil
}

func (h *httpJSON) doRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", h.provider, err)
	}
	body, readErr := io.ReadAll(resp.Body)
	if err := resp.Body.Close(); err != nil {
		h.logger.Warn("failed to close response body", "provider", h.provider, "error", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: h.provider, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}
