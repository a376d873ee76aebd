// In file: internal/llm/constants.go
package llm

import "time"

// Constants shared across the provider clients.
const (
	defaultTimeout    = 30 * time.Second
	defaultMaxTokens  = 1024
	maxRetries        = 3
	initialRetryDelay = time.Second
	maxErrorBody      = 512
)
