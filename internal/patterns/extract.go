package patterns

import (
	"regexp"
	"strings"
)

var (
	objectiveRegex    = regexp.MustCompile(`(?i)\b(?:objective|goal|aim)\s*(?:is|:)\s*([^.\n]+)`)
	requirementsRegex = regexp.MustCompile(`(?i)\brequirements?\s*(?:are|is|:)\s*([^.\n]+)`)
	labeledLineRegex  = regexp.MustCompile(`(?m)^\s*([A-Za-z][A-Za-z ]{0,30}?)\s*:\s*(\S.*?)\s*$`)
)

// Extract pulls template variables out of free text. It is best effort: a
// variable without a match is simply absent from the result.
func Extract(text string) map[string]string {
	vars := map[string]string{}

	for _, m := range labeledLineRegex.FindAllStringSubmatch(text, -1) {
		if key := camelKey(m[1]); key != "" {
			vars[key] = m[2]
		}
	}
	if m := objectiveRegex.FindStringSubmatch(text); m != nil {
		vars["objective"] = strings.TrimSpace(m[1])
	}
	if m := requirementsRegex.FindStringSubmatch(text); m != nil {
		vars["requirements"] = strings.TrimSpace(m[1])
	}
	return vars
}

// camelKey turns "target audience" into "targetAudience".
func camelKey(label string) string {
	words := strings.Fields(strings.ToLower(label))
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
