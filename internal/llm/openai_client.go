// In file: internal/llm/openai_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

// OpenAIClient calls the Responses API. JSON requests use a strict schema
// generated from analysis.Enhanced so the model cannot drift from it.
type OpenAIClient struct {
	client openai.Client
	model  string
	cfg    ClientConfig
}

var _ Provider = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg ClientConfig) (*OpenAIClient, error) {
	cfg, err := cfg.withDefaults(ProviderOpenAI)
	if err != nil {
		return nil, err
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		// Retries are owned by RetryPolicy so only 429s are retried.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		cfg:    cfg,
	}, nil
}

func (c *OpenAIClient) Name() string { return ProviderOpenAI }

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	params := responses.ResponseNewParams{
		Model:           c.model,
		MaxOutputTokens: openai.Int(int64(maxTokensOrDefault(req.MaxTokens))),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.System != "" {
		params.Instructions = openai.String(req.System)
	}
	if req.JSON {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "PromptAnalysis",
					Schema:      enhancedSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Prompt quality analysis JSON"),
					Type:        "json_schema",
				},
			},
		}
	}

	var resp *responses.Response
	err := c.cfg.Retry.Do(ctx, c.cfg.Logger, ProviderOpenAI, func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.client.Responses.New(ctx, params)
		return fromOpenAIError(callErr)
	})
	if err != nil {
		return nil, unavailable(ProviderOpenAI, err)
	}

	content := strings.TrimSpace(resp.OutputText())
	if content == "" {
		return nil, unavailable(ProviderOpenAI, errors.New("no content returned from OpenAI"))
	}
	return &Completion{
		Content: content,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// fromOpenAIError converts SDK errors into *APIError so IsRateLimited works
// the same way for every provider.
func fromOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &APIError{Provider: ProviderOpenAI, StatusCode: apiErr.StatusCode, Body: apiErr.Message}
	}
	return err
}

var enhancedSchema = GenerateSchema[analysis.Enhanced]()

// GenerateSchema reflects T into a JSON schema that satisfies OpenAI's strict
// structured-output rules.
func GenerateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schemaObj, err := schemaToMap(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("generate schema: %v", err))
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureOpenAICompliance marks every object closed and every property
// required, recursively.
func ensureOpenAICompliance(schema map[string]any) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]any); ok {
			if required := slices.Sorted(maps.Keys(props)); len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				ensureOpenAICompliance(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		ensureOpenAICompliance(items)
	}
}
