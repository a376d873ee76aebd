// In file: internal/api/types.go

// Package api defines the request and response envelopes shared by the HTTP
// gateway, the CLI and the MCP server.
package api

import (
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
)

// AnalyzeRequest asks for the analysis of one prompt.
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
	Domain string `json:"domain,omitempty"`
	Tone   string `json:"tone,omitempty"`
	// Enhanced asks an external model for a second opinion.
	Enhanced bool `json:"enhanced,omitempty"`
	// Strategy is the provider routing preference for the enhanced call.
	Strategy string `json:"strategy,omitempty"`
}

// AnalyzeResponse carries the analysis and, for enhanced requests, which
// provider answered or why none did.
type AnalyzeResponse struct {
	RequestID     string                   `json:"requestId,omitempty"`
	Analysis      *analysis.PromptAnalysis `json:"analysis"`
	Provider      string                   `json:"provider,omitempty"`
	EnhancedError string                   `json:"enhancedError,omitempty"`
	Cached        bool                     `json:"cached"`
}

// OptimizeRequest asks for an optimized prompt.
type OptimizeRequest struct {
	Prompt   string           `json:"prompt"`
	Domain   string           `json:"domain,omitempty"`
	Mode     string           `json:"mode,omitempty"`
	Options  optimize.Options `json:"options"`
	Enhanced bool             `json:"enhanced,omitempty"`
	Strategy string           `json:"strategy,omitempty"`
	// Format selects the response body: json (default), markdown or text.
	Format string `json:"format,omitempty"`
}

// OptimizeResponse wraps the optimization result.
type OptimizeResponse struct {
	RequestID     string           `json:"requestId,omitempty"`
	Result        *optimize.Result `json:"result"`
	Provider      string           `json:"provider,omitempty"`
	EnhancedError string           `json:"enhancedError,omitempty"`
}

// PatternApplyRequest renders a domain pattern from a prompt and variables.
type PatternApplyRequest struct {
	Prompt    string            `json:"prompt"`
	Variables map[string]string `json:"variables,omitempty"`
}

// PatternApplyResponse reports the rendered output. When Applied is false the
// output is the original prompt and Error says why.
type PatternApplyResponse struct {
	PatternID string `json:"patternId"`
	Output    string `json:"output"`
	Applied   bool   `json:"applied"`
	Error     string `json:"error,omitempty"`
}

// PatternInfo is the listing view of a pattern.
type PatternInfo struct {
	patterns.Pattern
	Variables []string `json:"variables"`
}

// CacheClearResponse reports how many cached results were removed.
type CacheClearResponse struct {
	Removed int `json:"removed"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// Patterns returns every library pattern with its variable list.
func Patterns() []PatternInfo {
	list := patterns.List()
	out := make([]PatternInfo, len(list))
	for i, p := range list {
		out[i] = PatternInfo{Pattern: p, Variables: p.Variables()}
	}
	return out
}

// ApplyPattern renders pattern id for the request. Failures never lose the
// prompt: the output falls back to it and the error is reported alongside.
func ApplyPattern(id string, req PatternApplyRequest) PatternApplyResponse {
	resp := PatternApplyResponse{PatternID: id, Output: req.Prompt}
	p, ok := patterns.Lookup(id)
	if !ok {
		resp.Error = patterns.ErrUnknownPattern.Error()
		return resp
	}
	out, err := patterns.Render(id, patterns.Fill(p, req.Prompt, req.Variables))
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Output, resp.Applied = out, true
	return resp
}
