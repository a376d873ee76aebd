// In file: internal/llm/client.go

// Package llm contains the provider clients used for enhanced prompt analysis,
// together with the retry policy, usage tracking and routing between them.
package llm

import (
	"context"
)

// Usage holds token counts reported by a provider for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request is a single-turn completion request. JSON asks the provider to
// answer with a bare JSON object when it has a native mode for that.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	JSON      bool
}

// Completion is the complete, non-streamed output of a provider call.
type Completion struct {
	Content string
	Usage   Usage
}

// Provider is the interface every model client implements.
type Provider interface {
	// Name is the stable provider id used in config, routing and metrics.
	Name() string
	// Complete performs one blocking request. Rate-limit retries happen inside;
	// any other failure is returned as a *ProviderUnavailableError.
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Provider ids.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderCohere    = "cohere"
	ProviderMistral   = "mistral"
	ProviderGemini    = "gemini"
)

// DefaultModels is the model used per provider when config names none.
var DefaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderCohere:    "command-r-08-2024",
	ProviderMistral:   "mistral-small-latest",
	ProviderGemini:    "gemini-1.5-flash",
}

func modelOrDefault(provider, model string) string {
	if model != "" {
		return model
	}
	return DefaultModels[provider]
}

func maxTokensOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return defaultMaxTokens
}
