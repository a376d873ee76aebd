package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	switch format {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Render serializes an optimization result for export. An empty format means
// JSON.
func Render(res *optimize.Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}
		return string(b), nil
	case FormatMarkdown, "md":
		return renderMarkdown(res), nil
	case FormatText, "txt":
		return renderText(res), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func renderMarkdown(res *optimize.Result) string {
	var b strings.Builder
	b.WriteString("# Optimized Prompt\n\n")
	fmt.Fprintf(&b, "- **Mode:** %s\n", res.Mode)
	fmt.Fprintf(&b, "- **Platform:** %s\n", res.Platform)
	fmt.Fprintf(&b, "- **Estimated improvement:** %d%%\n", res.EstimatedImprovement)
	fmt.Fprintf(&b, "- **Tokens:** %d -> %d\n", res.TokenCount.Original, res.TokenCount.Optimized)
	if len(res.AppliedTechniques) > 0 {
		fmt.Fprintf(&b, "- **Techniques:** %s\n", strings.Join(res.AppliedTechniques, ", "))
	}
	b.WriteString("\n## Original\n\n")
	b.WriteString(fence(res.OriginalPrompt))
	b.WriteString("\n## Optimized\n\n")
	b.WriteString(fence(res.OptimizedPrompt))
	if a := res.Analysis; a != nil {
		b.WriteString("\n## Analysis\n\n")
		writeAnalysis(&b, a, "- ")
	}
	return b.String()
}

func renderText(res *optimize.Result) string {
	var b strings.Builder
	b.WriteString(res.OptimizedPrompt)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Mode: %s | Platform: %s | Estimated improvement: %d%%\n",
		res.Mode, res.Platform, res.EstimatedImprovement)
	if len(res.AppliedTechniques) > 0 {
		fmt.Fprintf(&b, "Techniques: %s\n", strings.Join(res.AppliedTechniques, ", "))
	}
	return b.String()
}

// RenderAnalysis is the plain-text view of an analysis used by the CLI.
func RenderAnalysis(a *analysis.PromptAnalysis) string {
	var b strings.Builder
	writeAnalysis(&b, a, "")
	return b.String()
}

func writeAnalysis(b *strings.Builder, a *analysis.PromptAnalysis, bullet string) {
	fmt.Fprintf(b, "%sIntent: %s\n", bullet, a.Intent)
	fmt.Fprintf(b, "%sComplexity: %s\n", bullet, a.Complexity)
	fmt.Fprintf(b, "%sDomain: %s\n", bullet, a.Domain)
	fmt.Fprintf(b, "%sQuality: %d/100 (clarity %d, specificity %d, effectiveness %d)\n",
		bullet, a.Quality.Overall(), a.Quality.Clarity, a.Quality.Specificity, a.Quality.Effectiveness)
	fmt.Fprintf(b, "%sContext completeness: %d/100\n", bullet, a.Context.CompletenessScore)
	fmt.Fprintf(b, "%sTone: %s (appropriateness %d/100)\n", bullet, a.Emotion.EvaluatedTone, a.Emotion.Appropriateness)
	fmt.Fprintf(b, "%sEstimated tokens: %d\n", bullet, a.EstimatedTokens)
	if len(a.RecommendedTechniques) > 0 {
		fmt.Fprintf(b, "%sRecommended techniques: %s\n", bullet, strings.Join(a.RecommendedTechniques, ", "))
	}
	for _, s := range a.Suggestions {
		fmt.Fprintf(b, "%sSuggestion: %s\n", bullet, s)
	}
}

// fence wraps s in a code block whose fence is longer than any backtick run
// inside s.
func fence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	f := strings.Repeat("`", max(3, longest+1))
	return f + "\n" + strings.TrimRight(s, "\n") + "\n" + f + "\n"
}
