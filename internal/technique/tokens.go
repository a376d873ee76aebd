package technique

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	fillerRegex       = regexp.MustCompile(`(?i)\b(please|kindly|if you could|would you mind|very|really|quite|extremely)\b`)
	spacePunctRegex   = regexp.MustCompile(` +([,.;:!?])`)
	leadingPunctRegex = regexp.MustCompile(`^[,;:]\s*`)
)

// OptimizeTokens collapses whitespace, drops filler words and trims. It must
// run after every pass that can add text.
func OptimizeTokens(text string) string {
	text = fillerRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = spacePunctRegex.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)
	return leadingPunctRegex.ReplaceAllString(text, "")
}
