package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

// statusSequence answers with the given statuses in order, then repeats the last.
func statusSequence(t *testing.T, calls *atomic.Int32, statuses []int, body string, check func(*http.Request, map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if check != nil {
			raw, _ := io.ReadAll(r.Body)
			var payload map[string]any
			_ = json.Unmarshal(raw, &payload)
			check(r, payload)
		}
		status := statuses[min(n, len(statuses)-1)]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = io.WriteString(w, body)
			return
		}
		_, _ = io.WriteString(w, `{"error":{"message":"nope"}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const anthropicOK = `{"content":[{"type":"text","text":" {\"intent\":\"creative\"} "}],"usage":{"input_tokens":12,"output_tokens":8}}`

func TestAnthropicClient_Complete(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := statusSequence(t, &calls, []int{http.StatusOK}, anthropicOK, func(r *http.Request, payload map[string]any) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.Equal(t, "sys", payload["system"])
		assert.Equal(t, DefaultModels[ProviderAnthropic], payload["model"])
	})

	c, err := NewAnthropicClient(ClientConfig{APIKey: "key", BaseURL: srv.URL, Retry: fastRetry()})
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hi", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"creative"}`, out.Content)
	assert.Equal(t, Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20}, out.Usage)
}

func TestNewClient_RequiresKey(t *testing.T) {
	t.Parallel()
	_, err := NewAnthropicClient(ClientConfig{})
	assert.Error(t, err)
	_, err = NewMistralClient(ClientConfig{})
	assert.Error(t, err)
	_, err = NewCohereClient(ClientConfig{})
	assert.Error(t, err)
	_, err = NewOpenAIClient(ClientConfig{})
	assert.Error(t, err)
}

func TestRetry_OnlyOn429(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statuses    []int
		wantCalls   int32
		wantErr     bool
		rateLimited bool
	}{
		{"recovers after rate limits", []int{429, 429, 200}, 3, false, false},
		{"gives up after three attempts", []int{429}, 3, true, true},
		{"server error is not retried", []int{500, 200}, 1, true, false},
		{"client error is not retried", []int{400, 200}, 1, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			srv := statusSequence(t, &calls, tt.statuses, anthropicOK, nil)
			c, err := NewAnthropicClient(ClientConfig{APIKey: "k", BaseURL: srv.URL, Retry: fastRetry()})
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), Request{Prompt: "hi"})
			assert.Equal(t, tt.wantCalls, calls.Load())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsProviderUnavailable(err))
			assert.Equal(t, tt.rateLimited, IsRateLimited(err))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statuses[0], apiErr.StatusCode)
		})
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	t.Parallel()
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}
	err := p.Do(ctx, loggerOrDefault(nil), "x", func(context.Context) error {
		return &APIError{Provider: "x", StatusCode: http.StatusTooManyRequests}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMistralClient_Complete(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	body := `{"choices":[{"message":{"role":"assistant","content":"{}"}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`
	srv := statusSequence(t, &calls, []int{http.StatusOK}, body, func(r *http.Request, payload map[string]any) {
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, map[string]any{"type": "json_object"}, payload["response_format"])
		msgs := payload["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	})

	c, err := NewMistralClient(ClientConfig{APIKey: "k", BaseURL: srv.URL, Retry: fastRetry()})
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), Request{System: "s", Prompt: "p", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "{}", out.Content)
	assert.Equal(t, 4, out.Usage.TotalTokens)
}

func TestCohereClient_Complete(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	body := `{"message":{"role":"assistant","content":[{"type":"text","text":"{\"clarity\":7}"}]},"usage":{"tokens":{"input_tokens":10,"output_tokens":5}}}`
	srv := statusSequence(t, &calls, []int{http.StatusOK}, body, func(r *http.Request, payload map[string]any) {
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, DefaultModels[ProviderCohere], payload["model"])
	})

	c, err := NewCohereClient(ClientConfig{APIKey: "k", BaseURL: srv.URL, Retry: fastRetry()})
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, `{"clarity":7}`, out.Content)
	assert.Equal(t, Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, out.Usage)
}

func TestCohereClient_EmptyContent(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := statusSequence(t, &calls, []int{http.StatusOK}, `{"message":{"content":[]}}`, nil)
	c, err := NewCohereClient(ClientConfig{APIKey: "k", BaseURL: srv.URL, Retry: fastRetry()})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), Request{Prompt: "p"})
	assert.True(t, IsProviderUnavailable(err))
	assert.False(t, IsRateLimited(err))
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	body := `{"id":"resp_1","object":"response","created_at":0,"status":"completed","model":"gpt-4o-mini",
"output":[{"type":"message","id":"msg_1","role":"assistant","status":"completed",
"content":[{"type":"output_text","text":"{\"intent\":\"analytical\"}","annotations":[]}]}],
"usage":{"input_tokens":20,"output_tokens":6,"total_tokens":26}}`
	srv := statusSequence(t, &calls, []int{http.StatusTooManyRequests, http.StatusOK}, body, func(r *http.Request, payload map[string]any) {
		assert.Equal(t, "/responses", r.URL.Path)
		text := payload["text"].(map[string]any)["format"].(map[string]any)
		assert.Equal(t, "json_schema", text["type"])
		assert.Equal(t, true, text["strict"])
	})

	c, err := NewOpenAIClient(ClientConfig{APIKey: "k", BaseURL: srv.URL + "/", Retry: fastRetry()})
	require.NoError(t, err)
	out, err := c.Complete(context.Background(), Request{System: "s", Prompt: "p", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, `{"intent":"analytical"}`, out.Content)
	assert.Equal(t, 26, out.Usage.TotalTokens)
}

func TestGenerateSchema_Strict(t *testing.T) {
	t.Parallel()
	schema := enhancedSchema
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t,
		[]string{"intent", "complexity", "domain", "clarity", "specificity", "effectiveness", "issues", "suggestions"},
		schema["required"])
}
