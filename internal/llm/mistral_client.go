// In file: internal/llm/mistral_client.go
package llm

import (
	"context"
	"errors"
	"strings"
)

const mistralAPIURL = "https://api.mistral.ai/v1/chat/completions"

// --- API Data Structures ---

type mistralRequest struct {
	Model          string                 `json:"model"`
	Messages       []mistralMessage       `json:"messages"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	ResponseFormat *mistralResponseFormat `json:"response_format,omitempty"`
}
type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type mistralResponseFormat struct {
	Type string `json:"type"`
}
type mistralResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// MistralClient calls the chat completions API over plain HTTP.
type MistralClient struct {
	model string
	http  *httpJSON
}

var _ Provider = (*MistralClient)(nil)

func NewMistralClient(cfg ClientConfig) (*MistralClient, error) {
	cfg, err := cfg.withDefaults(ProviderMistral)
	if err != nil {
		return nil, err
	}
	return &MistralClient{
		model: cfg.Model,
		http: cfg.transport(ProviderMistral, mistralAPIURL, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
	}, nil
}

func (c *MistralClient) Name() string { return ProviderMistral }

func (c *MistralClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	payload := mistralRequest{
		Model:     c.model,
		Messages:  toMistralMessages(req),
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
	}
	if req.JSON {
		payload.ResponseFormat = &mistralResponseFormat{Type: "json_object"}
	}
	var resp mistralResponse
	if err := c.http.post(ctx, payload, &resp); err != nil {
		return nil, unavailable(ProviderMistral, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, unavailable(ProviderMistral, errors.New("no content returned from Mistral"))
	}
	return &Completion{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage:   resp.Usage,
	}, nil
}

func toMistralMessages(req Request) []mistralMessage {
	var msgs []mistralMessage
	if req.System != "" {
		msgs = append(msgs, mistralMessage{Role: "system", Content: req.System})
	}
	return append(msgs, mistralMessage{Role: "user", Content: req.Prompt})
}
