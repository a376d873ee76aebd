package analysis

import (
	"regexp"
	"strings"
)

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SentenceCount counts non-empty segments between sentence terminators.
func SentenceCount(text string) int {
	n := 0
	for _, part := range sentenceSplitter.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}

// EstimateTokens returns ceil(wordCount * 1.3), computed in integers so the
// result never drifts by float rounding. Empty input yields 0.
func EstimateTokens(text string) int {
	return (WordCount(text)*13 + 9) / 10
}

// countMatches sums every non-overlapping match of each pattern.
func countMatches(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
