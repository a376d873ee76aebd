package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoProvider is returned when no configured provider can serve a request.
var ErrNoProvider = errors.New("no enhanced analysis provider available")

// APIError is a non-2xx answer from a provider endpoint.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// ProviderUnavailableError marks a provider call that failed for any reason.
// Callers fall back to the basic analysis when they see it.
type ProviderUnavailableError struct {
	Provider string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pu *ProviderUnavailableError
	if errors.As(err, &pu) {
		return err
	}
	return &ProviderUnavailableError{Provider: provider, Err: err}
}

// IsProviderUnavailable reports whether err came from a failed provider call.
func IsProviderUnavailable(err error) bool {
	var pu *ProviderUnavailableError
	return errors.As(err, &pu) || errors.Is(err, ErrNoProvider)
}

// IsRateLimited reports whether err carries an HTTP 429 from a provider.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}
