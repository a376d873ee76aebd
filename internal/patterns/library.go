package patterns

import "github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"

// LibraryVersion changes whenever a template below changes.
const LibraryVersion = "2"

var registry = map[string]Pattern{
	"technical_explainer": {
		ID:          "technical_explainer",
		Name:        "Technical Explainer",
		Domain:      analysis.DomainTechnology,
		Description: "Explains a technical concept for a chosen audience with an analogy and an example",
		Template: `Explain {{concept}} to {{audience}}.
Target depth: {{complexity}}.

Focus on {{aspectsToHighlight}}. Use a {{analogyType}} analogy to make the idea concrete, then give a {{exampleType}} example.

Structure the explanation as:
1. What {{concept}} is and the problem it solves
2. How it works
3. The analogy
4. The example
5. Common pitfalls and how to avoid them`,
		Primary: "concept",
		Defaults: map[string]string{
			"audience":           "a technical audience",
			"complexity":         "intermediate",
			"aspectsToHighlight": "the core ideas and their practical use",
			"analogyType":        "real-world",
			"exampleType":        "concrete",
		},
	},
	"code_review": {
		ID:          "code_review",
		Name:        "Code Review",
		Domain:      analysis.DomainTechnology,
		Description: "Structured review of a piece of code",
		Template: `Review the following {{language}} code with a focus on {{focus}}.

{{code}}

For each finding give the location, the problem, its severity and a concrete fix. Finish with a short summary of the overall quality.`,
		Primary: "code",
		Defaults: map[string]string{
			"language": "source",
			"focus":    "correctness, readability and performance",
		},
	},
	"business_analysis": {
		ID:          "business_analysis",
		Name:        "Business Analysis",
		Domain:      analysis.DomainBusiness,
		Description: "Frames a business question as an objective with requirements and a time horizon",
		Template: `Business objective: {{objective}}
Requirements: {{requirements}}
Time horizon: {{timeframe}}

Analyze the objective. Cover the current situation, options with their costs and benefits, risks, and a recommended course of action with measurable success criteria.`,
		Primary: "objective",
		Defaults: map[string]string{
			"requirements": "none stated beyond the objective",
			"timeframe":    "the next 12 months",
		},
	},
	"creative_story": {
		ID:          "creative_story",
		Name:        "Creative Story",
		Domain:      analysis.DomainCreative,
		Description: "Story brief with genre, length and tone",
		Template: `Write a {{genre}} story of about {{length}} based on this premise: {{premise}}

Tone: {{tone}}. Give the main character a clear goal and an obstacle, show rather than tell, and end with a resolution that follows from the character's choices.`,
		Primary: "premise",
		Defaults: map[string]string{
			"genre":  "literary",
			"length": "800 words",
			"tone":   "engaging",
		},
	},
	"research_summary": {
		ID:          "research_summary",
		Name:        "Research Summary",
		Domain:      analysis.DomainAcademic,
		Description: "Scoped literature summary with a citation style",
		Template: `Summarize the current research on {{topic}}.
Scope: {{scope}}.
Citation style: {{citationStyle}}.

Organize the summary into key findings, areas of disagreement, methodological limitations and open questions. Cite sources for every claim.`,
		Primary: "topic",
		Defaults: map[string]string{
			"scope":         "peer-reviewed work from the last ten years",
			"citationStyle": "APA",
		},
	},
	"lesson_plan": {
		ID:          "lesson_plan",
		Name:        "Lesson Plan",
		Domain:      analysis.DomainEducation,
		Description: "Lesson plan for a learning objective, level and duration",
		Template: `Create a lesson plan.
Learning objective: {{objective}}
Level: {{gradeLevel}}
Duration: {{duration}}

Include a warm-up activity, direct instruction, guided practice, independent practice and an assessment that checks the objective.`,
		Primary: "objective",
		Defaults: map[string]string{
			"gradeLevel": "general",
			"duration":   "45 minutes",
		},
	},
}

// domainDefaults picks the pattern used when only the domain is known.
var domainDefaults = map[analysis.Domain]string{
	analysis.DomainTechnology: "technical_explainer",
	analysis.DomainBusiness:   "business_analysis",
	analysis.DomainCreative:   "creative_story",
	analysis.DomainAcademic:   "research_summary",
	analysis.DomainEducation:  "lesson_plan",
}
