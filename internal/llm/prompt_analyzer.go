// In file: internal/llm/prompt_analyzer.go
package llm

import (
	"regexp"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

// codeBlockRegex spots fenced code, which always routes to the coding strategy.
var codeBlockRegex = regexp.MustCompile("(?s)```.*```")

// StrategyFor picks a routing preference for the enhanced call from the basic
// analysis when the caller did not name one. Coding prompts go to the
// best-for-coding strategy; everything else scales with complexity.
func StrategyFor(prompt string, a *analysis.PromptAnalysis) string {
	if a == nil {
		return StrategyDefault
	}
	if codeBlockRegex.MatchString(prompt) || a.Intent == analysis.IntentCode {
		return StrategyCoding
	}
	switch a.Complexity {
	case analysis.ComplexityExpert:
		return StrategyMaxQuality
	case analysis.ComplexityComplex:
		return StrategyDefault
	case analysis.ComplexityModerate:
		return StrategyBalanced
	default:
		return StrategyFast
	}
}
