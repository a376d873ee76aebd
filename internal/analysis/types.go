// Package analysis derives a structured, deterministic view of a raw prompt:
// intent, complexity, domain, quality scores, missing context and tone fit.
// Every analyzer in this package is a pure function of its input text.
package analysis

// Intent is the primary purpose detected in a prompt.
type Intent string

const (
	IntentCreative       Intent = "creative"
	IntentAnalytical     Intent = "analytical"
	IntentInformational  Intent = "informational"
	IntentProblemSolving Intent = "problem_solving"
	IntentCode           Intent = "code"
	IntentConversation   Intent = "conversation"
	IntentEducational    Intent = "educational"
	IntentResearch       Intent = "research"
)

// Intents lists every basic intent in declaration order. Ties during
// classification resolve to the earlier entry.
var Intents = []Intent{
	IntentCreative,
	IntentAnalytical,
	IntentInformational,
	IntentProblemSolving,
	IntentCode,
	IntentConversation,
	IntentEducational,
	IntentResearch,
}

// Complexity is an ordered scale; use Rank to compare levels.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityExpert   Complexity = "expert"
)

// Complexities lists every level from lowest to highest.
var Complexities = []Complexity{ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityExpert}

// Rank returns the position of c on the complexity scale, or -1 if unknown.
func (c Complexity) Rank() int {
	for i, level := range Complexities {
		if level == c {
			return i
		}
	}
	return -1
}

// AtLeast reports whether c is at or above other on the scale.
func (c Complexity) AtLeast(other Complexity) bool {
	return c.Rank() >= other.Rank() && c.Rank() >= 0
}

// Domain is a coarse subject-matter category.
type Domain string

const (
	DomainTechnology Domain = "technology"
	DomainBusiness   Domain = "business"
	DomainCreative   Domain = "creative"
	DomainAcademic   Domain = "academic"
	DomainMedical    Domain = "medical"
	DomainLegal      Domain = "legal"
	DomainFinance    Domain = "finance"
	DomainEducation  Domain = "education"
	DomainScientific Domain = "scientific"
	DomainGeneral    Domain = "general"
)

// Domains lists the classified domains in declaration order. DomainGeneral is
// the fallback and is never produced by keyword matching.
var Domains = []Domain{
	DomainTechnology,
	DomainBusiness,
	DomainCreative,
	DomainAcademic,
	DomainMedical,
	DomainLegal,
	DomainFinance,
	DomainEducation,
	DomainScientific,
}

// NormalizeDomain maps free-form input onto a known domain, falling back to
// DomainGeneral. A few common aliases are accepted.
func NormalizeDomain(s string) Domain {
	switch Domain(s) {
	case "":
		return DomainGeneral
	case "programming", "software", "tech":
		return DomainTechnology
	case "healthcare", "health":
		return DomainMedical
	case "science":
		return DomainScientific
	}
	for _, d := range Domains {
		if Domain(s) == d {
			return d
		}
	}
	return DomainGeneral
}

// Severity ranks an identified issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is a single detected weakness. Issues keep detection order.
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Solution    string   `json:"solution"`
}

// Classification is the classifier's output.
type Classification struct {
	Intent     Intent     `json:"intent"`
	Complexity Complexity `json:"complexity"`
	Domain     Domain     `json:"domain"`
	// IntentHits and DomainHits are the winning match counts.
	IntentHits int `json:"intentHits"`
	DomainHits int `json:"domainHits"`
}

// QualityScore holds the five quality metrics on the canonical 0-100 scale.
type QualityScore struct {
	Clarity       int `json:"clarity"`
	Specificity   int `json:"specificity"`
	Effectiveness int `json:"effectiveness"`
	Coherence     int `json:"coherence"`
	Completeness  int `json:"completeness"`
}

// Overall is the rounded mean of all five metrics.
func (q QualityScore) Overall() int {
	sum := q.Clarity + q.Specificity + q.Effectiveness + q.Coherence + q.Completeness
	return (sum + 2) / 5
}

// QualityPrediction summarises how much a prompt stands to gain from optimization.
type QualityPrediction struct {
	Overall              int `json:"overall"`
	ImprovementPotential int `json:"improvementPotential"`
}

// ContextFactors flags the kinds of supporting information present in a prompt.
type ContextFactors struct {
	HasBackground    bool `json:"hasBackground"`
	HasConstraints   bool `json:"hasConstraints"`
	HasExamples      bool `json:"hasExamples"`
	HasGoals         bool `json:"hasGoals"`
	HasSpecificTerms bool `json:"hasSpecificTerms"`
	EmotionalTone    Tone `json:"emotionalTone"`
}

// PromptAnalysis is the full snapshot produced for one prompt.
type PromptAnalysis struct {
	Intent                Intent            `json:"intent"`
	Complexity            Complexity        `json:"complexity"`
	Domain                Domain            `json:"domain"`
	WordCount             int               `json:"wordCount"`
	SentenceCount         int               `json:"sentenceCount"`
	EstimatedTokens       int               `json:"estimatedTokens"`
	Confidence            int               `json:"confidence"`
	Quality               QualityScore      `json:"qualityScore"`
	QualityPrediction     QualityPrediction `json:"qualityPrediction"`
	ContextFactors        ContextFactors    `json:"contextFactors"`
	Context               ContextReport     `json:"context"`
	Emotion               ToneReport        `json:"emotion"`
	IdentifiedIssues      []Issue           `json:"identifiedIssues"`
	Suggestions           []string          `json:"suggestions"`
	RecommendedTechniques []string          `json:"recommendedTechniques,omitempty"`
	Enhanced              bool              `json:"enhanced"`
}
