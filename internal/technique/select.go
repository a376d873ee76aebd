package technique

import (
	"slices"
	"sort"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

const (
	// MinImprovementPotential gates selection: prompts at or below it are
	// already good enough.
	MinImprovementPotential = 30
	maxSelected             = 3
)

// Select returns up to three applicable techniques, highest effectiveness
// first. Equal effectiveness keeps catalog order.
func Select(a *analysis.PromptAnalysis) []Technique {
	if a == nil || a.QualityPrediction.ImprovementPotential <= MinImprovementPotential {
		return nil
	}

	var candidates []Technique
	for _, t := range catalog {
		if Applicable(t, a) {
			candidates = append(candidates, t)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Effectiveness > candidates[j].Effectiveness
	})
	if len(candidates) > maxSelected {
		candidates = candidates[:maxSelected]
	}
	return candidates
}

// Applicable reports whether t suits the complexity, intent and domain of a.
func Applicable(t Technique, a *analysis.PromptAnalysis) bool {
	app := t.Applicability
	if !slices.Contains(app.Complexity, a.Complexity) || !slices.Contains(app.Intent, a.Intent) {
		return false
	}
	return len(app.Domains) == 0 ||
		slices.Contains(app.Domains, a.Domain) ||
		slices.Contains(app.Domains, analysis.DomainGeneral)
}
