package analysis

import (
	"slices"
	"strings"
)

// Enhanced is the analysis returned by an external model. Scores are on the
// provider's 0-10 scale and intents use the narrower six-value set.
type Enhanced struct {
	Intent        string   `json:"intent" jsonschema:"enum=informational,enum=creative,enum=problem_solving,enum=persuasive,enum=analytical,enum=instructional"`
	Complexity    string   `json:"complexity" jsonschema:"enum=simple,enum=moderate,enum=complex,enum=expert"`
	Domain        string   `json:"domain" jsonschema:"description=One of technology business creative academic medical legal finance education scientific general"`
	Clarity       float64  `json:"clarity" jsonschema:"minimum=0,maximum=10"`
	Specificity   float64  `json:"specificity" jsonschema:"minimum=0,maximum=10"`
	Effectiveness float64  `json:"effectiveness" jsonschema:"minimum=0,maximum=10"`
	Issues        []string `json:"issues"`
	Suggestions   []string `json:"suggestions"`
}

// modelIssueType marks issues reported by an external model.
const modelIssueType = "model"

// EnhancedScale converts provider scores to the canonical 0-100 scale.
const EnhancedScale = 10

// enhancedIntents maps the six-value provider intents onto Intent.
var enhancedIntents = map[string]Intent{
	"informational":   IntentInformational,
	"creative":        IntentCreative,
	"problem_solving": IntentProblemSolving,
	"persuasive":      IntentCreative,
	"analytical":      IntentAnalytical,
	"instructional":   IntentEducational,
}

// MapEnhancedIntent returns the basic intent for a provider intent.
func MapEnhancedIntent(s string) (Intent, bool) {
	i, ok := enhancedIntents[strings.ToLower(strings.TrimSpace(s))]
	return i, ok
}

// Merge overlays e onto a copy of base. Unknown or empty provider values keep
// the basic result; scores are converted and clamped to the canonical range.
func Merge(base *PromptAnalysis, e Enhanced) *PromptAnalysis {
	out := *base
	out.IdentifiedIssues = append([]Issue(nil), base.IdentifiedIssues...)
	out.Suggestions = append([]string(nil), base.Suggestions...)

	if i, ok := MapEnhancedIntent(e.Intent); ok {
		out.Intent = i
	}
	for _, c := range Complexities {
		if string(c) == strings.ToLower(e.Complexity) {
			out.Complexity = c
		}
	}
	if d := NormalizeDomain(strings.ToLower(e.Domain)); d != DomainGeneral || strings.EqualFold(e.Domain, string(DomainGeneral)) {
		out.Domain = d
	}

	out.Quality.Clarity = convertScore(e.Clarity, base.Quality.Clarity)
	out.Quality.Specificity = convertScore(e.Specificity, base.Quality.Specificity)
	out.Quality.Effectiveness = convertScore(e.Effectiveness, base.Quality.Effectiveness)
	out.QualityPrediction = Predict(out.Quality)

	for _, desc := range e.Issues {
		if desc = strings.TrimSpace(desc); desc != "" {
			out.IdentifiedIssues = append(out.IdentifiedIssues, Issue{
				Type:        modelIssueType,
				Severity:    SeverityMedium,
				Description: desc,
			})
		}
	}
	for _, s := range e.Suggestions {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(out.Suggestions, s) {
			out.Suggestions = append(out.Suggestions, s)
		}
	}
	out.Enhanced = true
	return &out
}

func convertScore(v float64, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return clamp(int(v*EnhancedScale+0.5), metricFloor*ScaleFactor, metricCeiling*ScaleFactor)
}
