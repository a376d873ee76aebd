// Package patterns holds the static library of domain prompt templates and the
// helpers that fill them.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

var (
	ErrUnknownPattern     = errors.New("unknown pattern")
	ErrTemplateIncomplete = errors.New("template has unresolved placeholders")
)

var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Pattern is a reusable template for one domain.
type Pattern struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Domain      analysis.Domain `json:"domain" yaml:"domain"`
	Description string          `json:"description" yaml:"description"`
	Template    string          `json:"template" yaml:"template"`
	// Primary receives the whole prompt when filling from free text.
	Primary  string            `json:"primary" yaml:"primary"`
	Defaults map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
}

// Variables returns the placeholder names in order of first appearance.
func (p Pattern) Variables() []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRegex.FindAllStringSubmatch(p.Template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Signature is the longest literal run of the template. Rendered output
// always contains it, which lets callers detect text already rewritten.
func (p Pattern) Signature() string {
	var best string
	for _, part := range placeholderRegex.Split(p.Template, -1) {
		if part = strings.TrimSpace(part); len(part) > len(best) {
			best = part
		}
	}
	return best
}

// IncompleteError lists the placeholders left after substitution.
type IncompleteError struct {
	PatternID string
	Missing   []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("pattern %s: missing variables %s", e.PatternID, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrTemplateIncomplete }

// Lookup returns the pattern registered under id.
func Lookup(id string) (Pattern, bool) {
	p, ok := registry[id]
	return p, ok
}

// List returns every pattern sorted by domain order, then id.
func List() []Pattern {
	out := make([]Pattern, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return domainRank(out[i].Domain) < domainRank(out[j].Domain)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ForDomain returns the default pattern for domain.
func ForDomain(d analysis.Domain) (Pattern, bool) {
	id, ok := domainDefaults[d]
	if !ok {
		return Pattern{}, false
	}
	return Lookup(id)
}

// Render substitutes vars into the pattern. It fails when the id is unknown or
// when any placeholder survives substitution.
func Render(id string, vars map[string]string) (string, error) {
	p, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPattern, id)
	}

	// One pass over the template, so placeholder text inside a value is kept
	// literally.
	var missing []string
	out := placeholderRegex.ReplaceAllStringFunc(p.Template, func(m string) string {
		name := placeholderRegex.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return m
	})
	if len(missing) > 0 {
		return "", &IncompleteError{PatternID: id, Missing: missing}
	}
	return out, nil
}

// Apply renders the pattern, or returns prompt unchanged when the pattern is
// unknown or the template cannot be completed.
func Apply(prompt, id string, vars map[string]string) string {
	out, err := Render(id, vars)
	if err != nil {
		return prompt
	}
	return out
}

// ApplyFromText fills the pattern from the pattern defaults, variables
// extracted from prompt, and then the supplied vars, in increasing priority.
// The primary variable falls back to the whole prompt.
func ApplyFromText(prompt, id string, vars map[string]string) string {
	p, ok := Lookup(id)
	if !ok {
		return prompt
	}
	return Apply(prompt, id, Fill(p, prompt, vars))
}

// Fill merges the variable sources used by ApplyFromText.
func Fill(p Pattern, prompt string, vars map[string]string) map[string]string {
	merged := make(map[string]string, len(p.Defaults)+len(vars)+1)
	for k, v := range p.Defaults {
		merged[k] = v
	}
	for k, v := range Extract(prompt) {
		merged[k] = v
	}
	if _, ok := merged[p.Primary]; !ok && p.Primary != "" {
		merged[p.Primary] = strings.TrimSpace(prompt)
	}
	for k, v := range vars {
		merged[k] = v
	}
	return merged
}

func domainRank(d analysis.Domain) int {
	for i, known := range analysis.Domains {
		if known == d {
			return i
		}
	}
	return len(analysis.Domains)
}
