// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient is the client for Google's Gemini models. JSON requests set the
// response MIME type instead of a schema.
type GeminiClient struct {
	client *genai.Client
	model  string
	cfg    ClientConfig
}

var _ Provider = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, cfg ClientConfig) (*GeminiClient, error) {
	cfg, err := cfg.withDefaults(ProviderGemini)
	if err != nil {
		return nil, err
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, cfg: cfg}, nil
}

func (c *GeminiClient) Name() string { return ProviderGemini }

// Close releases the underlying gRPC/HTTP connections.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetMaxOutputTokens(int32(maxTokensOrDefault(req.MaxTokens)))
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	var resp *genai.GenerateContentResponse
	err := c.cfg.Retry.Do(ctx, c.cfg.Logger, ProviderGemini, func(ctx context.Context) error {
		var callErr error
		ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		resp, callErr = model.GenerateContent(ctx, genai.Text(req.Prompt))
		return fromGoogleError(callErr)
	})
	if err != nil {
		return nil, unavailable(ProviderGemini, err)
	}
	out, err := parseGeminiResponse(resp)
	return out, unavailable(ProviderGemini, err)
}

// fromGoogleError converts googleapi errors so a 429 is seen by RetryPolicy.
func fromGoogleError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &APIError{Provider: ProviderGemini, StatusCode: gErr.Code, Body: gErr.Message}
	}
	return err
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) (*Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from Gemini")
	}
	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}
	result := &Completion{Content: strings.TrimSpace(contentBuilder.String())}
	if result.Content == "" {
		return nil, errors.New("no content returned from Gemini")
	}
	if resp.UsageMetadata != nil {
		result.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return result, nil
}
