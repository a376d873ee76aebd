package llm

import (
	"context"
	"fmt"
)

// APIKeyEnv maps each provider id to the environment variable holding its key.
var APIKeyEnv = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderCohere:    "COHERE_API_KEY",
	ProviderMistral:   "MISTRAL_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
}

// NewProvider creates the client for a provider id.
func NewProvider(ctx context.Context, name string, cfg ClientConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch name {
	case ProviderOpenAI:
		p, err = NewOpenAIClient(cfg)
	case ProviderAnthropic:
		p, err = NewAnthropicClient(cfg)
	case ProviderCohere:
		p, err = NewCohereClient(cfg)
	case ProviderMistral:
		p, err = NewMistralClient(cfg)
	case ProviderGemini:
		p, err = NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", name, err)
	}
	return p, nil
}
