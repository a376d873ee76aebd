package optimize

import (
	"time"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

// Improvement weights.
const (
	improvementBase       = 60
	improvementComplex    = 15
	improvementPerApplied = 4
	improvementCoT        = 8
	improvementPersona    = 6
	improvementReAct      = 10
	improvementToT        = 12
	improvementSelfCheck  = 9
	improvementRolePlay   = 7
	improvementDomain     = 5
	MaxImprovement        = 95
)

// TokenCount holds word-based token estimates.
type TokenCount struct {
	Original  int `json:"original"`
	Optimized int `json:"optimized"`
}

// Metadata is attached for display only and is not part of result equality.
type Metadata struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	CatalogVersion  string    `json:"catalogVersion"`
	ComposerVersion string    `json:"composerVersion"`
	Cached          bool      `json:"cached"`
}

// Result is the outcome of one optimization.
type Result struct {
	OriginalPrompt       string                   `json:"originalPrompt"`
	OptimizedPrompt      string                   `json:"optimizedPrompt"`
	AppliedTechniques    []string                 `json:"appliedTechniques"`
	Analysis             *analysis.PromptAnalysis `json:"analysis"`
	TokenCount           TokenCount               `json:"tokenCount"`
	EstimatedImprovement int                      `json:"estimatedImprovement"`
	Mode                 Mode                     `json:"mode"`
	Platform             string                   `json:"platform"`
	Metadata             Metadata                 `json:"metadata"`
}

// EstimatedImprovement is the capped weighted bonus sum for a result.
func EstimatedImprovement(a *analysis.PromptAnalysis, applied int, opts Options) int {
	score := improvementBase
	if a.Complexity.AtLeast(analysis.ComplexityComplex) {
		score += improvementComplex
	}
	score += improvementPerApplied * applied
	for _, bonus := range []struct {
		on     bool
		weight int
	}{
		{opts.UseChainOfThought, improvementCoT},
		{opts.UsePersona, improvementPersona},
		{opts.UseReAct, improvementReAct},
		{opts.UseTreeOfThoughts, improvementToT},
		{opts.UseSelfConsistency, improvementSelfCheck},
		{opts.UseRolePlay, improvementRolePlay},
		{a.Domain != analysis.DomainGeneral, improvementDomain},
	} {
		if bonus.on {
			score += bonus.weight
		}
	}
	return min(score, MaxImprovement)
}

// Build assembles the result for one optimization.
func Build(original, optimized string, applied []string, a *analysis.PromptAnalysis, opts Options) *Result {
	if applied == nil {
		applied = []string{}
	}
	return &Result{
		OriginalPrompt:    original,
		OptimizedPrompt:   optimized,
		AppliedTechniques: applied,
		Analysis:          a,
		TokenCount: TokenCount{
			Original:  analysis.EstimateTokens(original),
			Optimized: analysis.EstimateTokens(optimized),
		},
		EstimatedImprovement: EstimatedImprovement(a, len(applied), opts),
	}
}
