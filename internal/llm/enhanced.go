package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

const enhancedSystemPrompt = `You are an expert prompt engineer. Analyze the user's prompt and answer with a single JSON object and nothing else.

Fields:
- intent: one of informational, creative, problem_solving, persuasive, analytical, instructional
- complexity: one of simple, moderate, complex, expert
- domain: one of technology, business, creative, academic, medical, legal, finance, education, scientific, general
- clarity, specificity, effectiveness: numbers from 0 to 10
- issues: short descriptions of concrete problems with the prompt
- suggestions: short, actionable improvements`

const enhancedMaxTokens = 800

// Completer is the routing surface the enhanced analyzer needs. *Router
// implements it.
type Completer interface {
	Complete(ctx context.Context, req Request, preference string) (*Completion, string, error)
}

// EnhancedAnalyzer asks an external model for a second opinion on a prompt.
// Every failure is reported as provider-unavailable so callers can fall back
// to the basic analysis.
type EnhancedAnalyzer struct {
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
}

func NewEnhancedAnalyzer(c Completer, timeout time.Duration, logger *slog.Logger) *EnhancedAnalyzer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &EnhancedAnalyzer{completer: c, timeout: timeout, logger: loggerOrDefault(logger)}
}

// Analyze returns the provider's analysis and the id of the provider that
// produced it. base only steers routing and may be nil.
func (e *EnhancedAnalyzer) Analyze(ctx context.Context, prompt string, base *analysis.PromptAnalysis, preference string) (analysis.Enhanced, string, error) {
	if e == nil || e.completer == nil {
		return analysis.Enhanced{}, "", ErrNoProvider
	}
	if preference == "" {
		preference = StrategyFor(prompt, base)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, provider, err := e.completer.Complete(ctx, Request{
		System:    enhancedSystemPrompt,
		Prompt:    fmt.Sprintf("Prompt to analyze:\n\"\"\"\n%s\n\"\"\"", prompt),
		MaxTokens: enhancedMaxTokens,
		JSON:      true,
	}, preference)
	if err != nil {
		if errors.Is(err, ErrNoProvider) {
			return analysis.Enhanced{}, "", err
		}
		return analysis.Enhanced{}, provider, unavailable(provider, err)
	}

	result, err := ParseEnhanced(out.Content)
	if err != nil {
		e.logger.Warn("unparseable enhanced analysis", "provider", provider, "error", err)
		return analysis.Enhanced{}, provider, unavailable(provider, err)
	}
	e.logger.Debug("enhanced analysis complete", "provider", provider, "tokens", out.Usage.TotalTokens)
	return result, provider, nil
}

// ParseEnhanced decodes a model answer into analysis.Enhanced.
func ParseEnhanced(content string) (analysis.Enhanced, error) {
	raw := ExtractJSON(content)
	if raw == "" {
		return analysis.Enhanced{}, errors.New("no JSON object in model output")
	}
	var out analysis.Enhanced
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return analysis.Enhanced{}, fmt.Errorf("decode enhanced analysis: %w", err)
	}
	if strings.TrimSpace(out.Intent) == "" && strings.TrimSpace(out.Complexity) == "" &&
		out.Clarity == 0 && out.Specificity == 0 && out.Effectiveness == 0 {
		return analysis.Enhanced{}, errors.New("enhanced analysis is empty")
	}
	return out, nil
}
