// In file: internal/llm/anthropic_client.go
package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// --- API Data Structures ---

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Usage   anthropicUsage          `json:"usage"`
}

// AnthropicClient calls the Messages API over plain HTTP.
type AnthropicClient struct {
	model string
	http  *httpJSON
}

var _ Provider = (*AnthropicClient)(nil)

func NewAnthropicClient(cfg ClientConfig) (*AnthropicClient, error) {
	cfg, err := cfg.withDefaults(ProviderAnthropic)
	if err != nil {
		return nil, err
	}
	return &AnthropicClient{
		model: cfg.Model,
		http: cfg.transport(ProviderAnthropic, anthropicAPIURL, map[string]string{
			"x-api-key":         cfg.APIKey,
			"anthropic-version": anthropicVersion,
		}),
	}, nil
}

func (c *AnthropicClient) Name() string { return ProviderAnthropic }

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	payload := anthropicRequest{
		Model:     c.model,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
		System:    req.System,
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
	}
	var resp anthropicResponse
	if err := c.http.post(ctx, payload, &resp); err != nil {
		return nil, unavailable(ProviderAnthropic, err)
	}
	out, err := parseAnthropicResponse(resp)
	return out, unavailable(ProviderAnthropic, err)
}

func parseAnthropicResponse(resp anthropicResponse) (*Completion, error) {
	var contentBuilder strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			contentBuilder.WriteString(block.Text)
		}
	}
	if contentBuilder.Len() == 0 {
		return nil, errors.New("no content returned from Anthropic")
	}
	return &Completion{
		Content: strings.TrimSpace(contentBuilder.String()),
		Usage: Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}
