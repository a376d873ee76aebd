// Package technique is the static catalog of prompt optimization techniques,
// the rules that select them for an analysis and the text transforms that
// apply them.
package technique

import (
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

// CatalogVersion changes whenever a technique or scaffold text changes.
const CatalogVersion = "3"

// Category groups techniques by what they change in a prompt.
type Category string

const (
	CategoryReasoning  Category = "reasoning"
	CategoryStructure  Category = "structure"
	CategoryContext    Category = "context"
	CategoryRole       Category = "role"
	CategoryEmotional  Category = "emotional"
	CategoryEfficiency Category = "efficiency"
)

// Applicability lists the analysis values a technique is suited to. An empty
// Domains list matches every domain.
type Applicability struct {
	Complexity []analysis.Complexity `json:"complexity"`
	Intent     []analysis.Intent     `json:"intent"`
	Domains    []analysis.Domain     `json:"domains"`
}

// Context is what an implementation may read besides the text itself.
type Context struct {
	Domain     analysis.Domain
	Intent     analysis.Intent
	Complexity analysis.Complexity
	Tone       analysis.Tone
}

// ContextFrom builds a Context from an analysis.
func ContextFrom(a *analysis.PromptAnalysis) Context {
	return Context{
		Domain:     a.Domain,
		Intent:     a.Intent,
		Complexity: a.Complexity,
		Tone:       a.Emotion.EvaluatedTone,
	}
}

// Technique is one catalog entry. Implementation is pure.
type Technique struct {
	ID             string                              `json:"id"`
	Name           string                              `json:"name"`
	Category       Category                            `json:"category"`
	Description    string                              `json:"description"`
	Applicability  Applicability                       `json:"applicability"`
	Effectiveness  int                                 `json:"effectiveness"`
	Implementation func(text string, c Context) string `json:"-"`
}

const (
	IDChainOfThought    = "chain_of_thought"
	IDTreeOfThoughts    = "tree_of_thoughts"
	IDSelfConsistency   = "self_consistency"
	IDReAct             = "react"
	IDFewShot           = "few_shot"
	IDPersona           = "persona"
	IDConstraints       = "constraints"
	IDStructuredOutput  = "structured_output"
	IDContextEnrichment = "context_enrichment"
	IDRolePlay          = "role_play"
	IDDomainPattern     = "domain_pattern"
	IDEmotionalFraming  = "emotional_framing"
	IDTokenOptimization = "token_optimization"
)

var (
	allComplexities = analysis.Complexities
	allIntents      = analysis.Intents
	atLeastModerate = []analysis.Complexity{analysis.ComplexityModerate, analysis.ComplexityComplex, analysis.ComplexityExpert}
	atLeastComplex  = []analysis.Complexity{analysis.ComplexityComplex, analysis.ComplexityExpert}
)

// catalog is declared in tie-break order.
var catalog = []Technique{
	{
		ID:          IDChainOfThought,
		Name:        "Chain of Thought",
		Category:    CategoryReasoning,
		Description: "Asks for explicit intermediate reasoning steps before the answer",
		Applicability: Applicability{
			Complexity: atLeastModerate,
			Intent:     []analysis.Intent{analysis.IntentAnalytical, analysis.IntentProblemSolving, analysis.IntentCode, analysis.IntentResearch, analysis.IntentEducational},
		},
		Effectiveness:  90,
		Implementation: ChainOfThought,
	},
	{
		ID:          IDTreeOfThoughts,
		Name:        "Tree of Thoughts",
		Category:    CategoryReasoning,
		Description: "Explores several solution paths and compares them before committing",
		Applicability: Applicability{
			Complexity: atLeastComplex,
			Intent:     []analysis.Intent{analysis.IntentAnalytical, analysis.IntentProblemSolving, analysis.IntentCreative, analysis.IntentResearch},
		},
		Effectiveness:  88,
		Implementation: TreeOfThoughts,
	},
	{
		ID:          IDSelfConsistency,
		Name:        "Self-Consistency",
		Category:    CategoryReasoning,
		Description: "Solves the task independently more than once and reconciles the answers",
		Applicability: Applicability{
			Complexity: atLeastComplex,
			Intent:     []analysis.Intent{analysis.IntentAnalytical, analysis.IntentProblemSolving, analysis.IntentCode, analysis.IntentResearch},
		},
		Effectiveness:  85,
		Implementation: SelfConsistency,
	},
	{
		ID:          IDReAct,
		Name:        "ReAct",
		Category:    CategoryReasoning,
		Description: "Interleaves reasoning with actions and observations",
		Applicability: Applicability{
			Complexity: atLeastModerate,
			Intent:     []analysis.Intent{analysis.IntentProblemSolving, analysis.IntentCode, analysis.IntentResearch},
			Domains:    []analysis.Domain{analysis.DomainTechnology, analysis.DomainScientific, analysis.DomainBusiness},
		},
		Effectiveness:  84,
		Implementation: ReAct,
	},
	{
		ID:          IDFewShot,
		Name:        "Few-Shot Examples",
		Category:    CategoryStructure,
		Description: "Shows examples of the expected result",
		Applicability: Applicability{
			Complexity: allComplexities,
			Intent:     []analysis.Intent{analysis.IntentCreative, analysis.IntentCode, analysis.IntentInformational, analysis.IntentEducational, analysis.IntentConversation},
		},
		Effectiveness:  82,
		Implementation: FewShot,
	},
	{
		ID:          IDPersona,
		Name:        "Expert Persona",
		Category:    CategoryRole,
		Description: "Assigns a domain expert identity to the model",
		Applicability: Applicability{
			Complexity: allComplexities,
			Intent:     allIntents,
		},
		Effectiveness:  80,
		Implementation: PersonaScaffold,
	},
	{
		ID:          IDConstraints,
		Name:        "Explicit Constraints",
		Category:    CategoryStructure,
		Description: "States scope, accuracy and length requirements",
		Applicability: Applicability{
			Complexity: []analysis.Complexity{analysis.ComplexitySimple, analysis.ComplexityModerate, analysis.ComplexityComplex},
			Intent:     []analysis.Intent{analysis.IntentCreative, analysis.IntentAnalytical, analysis.IntentInformational, analysis.IntentProblemSolving, analysis.IntentCode, analysis.IntentEducational, analysis.IntentResearch},
		},
		Effectiveness:  78,
		Implementation: Constraints,
	},
	{
		ID:          IDStructuredOutput,
		Name:        "Structured Output",
		Category:    CategoryStructure,
		Description: "Defines the sections of the answer",
		Applicability: Applicability{
			Complexity: atLeastModerate,
			Intent:     []analysis.Intent{analysis.IntentAnalytical, analysis.IntentInformational, analysis.IntentResearch, analysis.IntentCode},
		},
		Effectiveness:  76,
		Implementation: StructuredOutput,
	},
	{
		ID:          IDContextEnrichment,
		Name:        "Context Enrichment",
		Category:    CategoryContext,
		Description: "Lists the domain considerations the answer should account for",
		Applicability: Applicability{
			Complexity: []analysis.Complexity{analysis.ComplexitySimple, analysis.ComplexityModerate},
			Intent:     allIntents,
		},
		Effectiveness:  74,
		Implementation: ContextEnrichment,
	},
	{
		ID:          IDRolePlay,
		Name:        "Role Play",
		Category:    CategoryRole,
		Description: "Frames the exchange as a scenario with a defined role",
		Applicability: Applicability{
			Complexity: allComplexities,
			Intent:     []analysis.Intent{analysis.IntentCreative, analysis.IntentConversation, analysis.IntentEducational},
		},
		Effectiveness:  72,
		Implementation: RolePlay,
	},
	{
		ID:          IDDomainPattern,
		Name:        "Domain Pattern",
		Category:    CategoryStructure,
		Description: "Rewrites the prompt into the domain's template",
		Applicability: Applicability{
			Complexity: atLeastModerate,
			Intent:     allIntents,
			Domains:    []analysis.Domain{analysis.DomainTechnology, analysis.DomainBusiness, analysis.DomainCreative, analysis.DomainAcademic, analysis.DomainEducation},
		},
		Effectiveness:  70,
		Implementation: DomainPattern,
	},
	{
		ID:          IDEmotionalFraming,
		Name:        "Emotional Framing",
		Category:    CategoryEmotional,
		Description: "Adds a tone-appropriate framing sentence",
		Applicability: Applicability{
			Complexity: allComplexities,
			Intent:     []analysis.Intent{analysis.IntentCreative, analysis.IntentConversation, analysis.IntentEducational},
			Domains:    []analysis.Domain{analysis.DomainCreative, analysis.DomainEducation, analysis.DomainMedical, analysis.DomainGeneral},
		},
		Effectiveness:  65,
		Implementation: EmotionalFraming,
	},
	{
		ID:          IDTokenOptimization,
		Name:        "Token Optimization",
		Category:    CategoryEfficiency,
		Description: "Removes filler words and redundant whitespace",
		Applicability: Applicability{
			Complexity: atLeastComplex,
			Intent:     allIntents,
		},
		Effectiveness: 60,
		Implementation: func(text string, _ Context) string {
			return OptimizeTokens(text)
		},
	},
}

var byID = func() map[string]Technique {
	m := make(map[string]Technique, len(catalog))
	for _, t := range catalog {
		m[t.ID] = t
	}
	return m
}()

// Catalog returns a copy of every technique in declaration order.
func Catalog() []Technique {
	return append([]Technique(nil), catalog...)
}

// Lookup returns the technique registered under id.
func Lookup(id string) (Technique, bool) {
	t, ok := byID[id]
	return t, ok
}

// Apply runs the techniques named by ids in the given order and returns the
// result with the names of the techniques that ran. Unknown ids are skipped.
func Apply(text string, ids []string, c Context) (string, []string) {
	applied := make([]string, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		text = t.Implementation(text, c)
		applied = append(applied, t.Name)
	}
	return text, applied
}

// IDs returns the ids of ts in order.
func IDs(ts []Technique) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

// Names returns the display names of ts in order.
func Names(ts []Technique) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}
