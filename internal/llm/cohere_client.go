// In file: internal/llm/cohere_client.go
package llm

import (
	"context"
	"errors"
	"strings"
)

const cohereAPIURL = "https://api.cohere.com/v2/chat"

type cohereRequest struct {
	Model          string                `json:"model"`
	Messages       []cohereMessage       `json:"messages"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *cohereResponseFormat `json:"response_format,omitempty"`
}
type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type cohereResponseFormat struct {
	Type string `json:"type"`
}
type cohereResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Usage struct {
		Tokens struct {
			InputTokens  float64 `json:"input_tokens"`
			OutputTokens float64 `json:"output_tokens"`
		} `json:"tokens"`
	} `json:"usage"`
}

// CohereClient calls the v2 chat API over plain HTTP.
type CohereClient struct {
	model string
	http  *httpJSON
}

var _ Provider = (*CohereClient)(nil)

func NewCohereClient(cfg ClientConfig) (*CohereClient, error) {
	cfg, err := cfg.withDefaults(ProviderCohere)
	if err != nil {
		return nil, err
	}
	return &CohereClient{
		model: cfg.Model,
		http: cfg.transport(ProviderCohere, cohereAPIURL, map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
			"Accept":        "application/json",
		}),
	}, nil
}

func (c *CohereClient) Name() string { return ProviderCohere }

func (c *CohereClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	payload := cohereRequest{
		Model:     c.model,
		MaxTokens: maxTokensOrDefault(req.MaxTokens),
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, cohereMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, cohereMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		payload.ResponseFormat = &cohereResponseFormat{Type: "json_object"}
	}

	var resp cohereResponse
	if err := c.http.post(ctx, payload, &resp); err != nil {
		return nil, unavailable(ProviderCohere, err)
	}
	var sb strings.Builder
	for _, part := range resp.Message.Content {
		if part.Type == "text" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, unavailable(ProviderCohere, errors.New("no content returned from Cohere"))
	}
	in, out := int(resp.Usage.Tokens.InputTokens), int(resp.Usage.Tokens.OutputTokens)
	return &Completion{
		Content: strings.TrimSpace(sb.String()),
		Usage:   Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out},
	}, nil
}
