package technique

import (
	"fmt"
	"strings"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/patterns"
)

// Markers identify text a scaffold has already added. Every scaffold is a
// no-op when its marker is present.
const (
	ChainOfThoughtMarker    = "Think through this step by step:"
	TreeOfThoughtsMarker    = "Explore three distinct approaches before answering:"
	SelfConsistencyMarker   = "Solve this in two independent ways"
	ReActMarker             = "Work in a Thought / Action / Observation loop:"
	FewShotMarker           = "Examples of the expected result:"
	ConstraintsMarker       = "Constraints:\n"
	StructuredOutputMarker  = "Format the response with these sections:"
	ContextEnrichmentMarker = "Relevant considerations for this"
	RolePlayMarker          = "Let's role-play:"
)

func appendOnce(text, marker, block string) string {
	if strings.Contains(text, marker) {
		return text
	}
	text = strings.TrimRight(text, " \t\n")
	if text == "" {
		return block
	}
	return text + "\n\n" + block
}

func prependOnce(text, marker, block string) string {
	if strings.Contains(text, marker) {
		return text
	}
	return block + "\n\n" + strings.TrimLeft(text, " \t\n")
}

// ChainOfThought appends a numbered reasoning scaffold.
func ChainOfThought(text string, _ Context) string {
	return appendOnce(text, ChainOfThoughtMarker, ChainOfThoughtMarker+`
1. Restate the problem in your own words.
2. Identify the key facts and constraints.
3. Work through the reasoning one step at a time.
4. Check the result before giving the final answer.`)
}

// TreeOfThoughts appends a branch-and-compare scaffold.
func TreeOfThoughts(text string, _ Context) string {
	return appendOnce(text, TreeOfThoughtsMarker, TreeOfThoughtsMarker+`
- For each approach, outline the idea and evaluate its strengths and weaknesses.
- Compare the approaches against the goal.
- Continue with the most promising approach and explain why it was chosen.`)
}

// SelfConsistency asks for independent solutions and a reconciled answer.
func SelfConsistency(text string, _ Context) string {
	return appendOnce(text, SelfConsistencyMarker, SelfConsistencyMarker+
		", compare the results and report the answer they agree on. If they disagree, explain the discrepancy and resolve it.")
}

// ReAct appends a reasoning and acting loop.
func ReAct(text string, _ Context) string {
	return appendOnce(text, ReActMarker, ReActMarker+`
Thought: reason about what to do next.
Action: describe the concrete step you take.
Observation: record what the step revealed.
Repeat until the task is solved, then give the final answer.`)
}

var fewShotExamples = map[analysis.Domain][]string{
	analysis.DomainTechnology: {
		"Input: a function that reverses a string. Output: a short, tested implementation with a note on edge cases such as empty input.",
		"Input: a slow database query. Output: the cause, the fix and the measured improvement.",
	},
	analysis.DomainBusiness: {
		"Input: declining customer retention. Output: three likely causes, one metric per cause and a prioritized action plan.",
		"Input: a new market entry. Output: market size, competitors, risks and a go or no-go recommendation.",
	},
	analysis.DomainCreative: {
		"Input: a lighthouse keeper who finds a message in a bottle. Output: a scene that opens in action and ends on a question.",
		"Input: a product slogan for a bike shop. Output: five options under eight words, each with a different angle.",
	},
	analysis.DomainAcademic: {
		"Input: effects of sleep on memory. Output: a summary of findings with in-text citations and noted limitations.",
		"Input: a thesis statement. Output: the claim, the supporting arguments and the strongest counterargument.",
	},
	analysis.DomainEducation: {
		"Input: fractions for ten-year-olds. Output: an explanation with a pizza analogy and three practice questions.",
		"Input: photosynthesis. Output: a five-step explanation followed by a short quiz.",
	},
	analysis.DomainGeneral: {
		"Input: a question about a topic. Output: a direct answer followed by two supporting points.",
		"Input: a request for a list. Output: a numbered list with one line of explanation per item.",
	},
}

// FewShot appends domain examples of the expected result.
func FewShot(text string, c Context) string {
	examples, ok := fewShotExamples[c.Domain]
	if !ok {
		examples = fewShotExamples[analysis.DomainGeneral]
	}
	var b strings.Builder
	b.WriteString(FewShotMarker)
	for _, ex := range examples {
		b.WriteString("\n- ")
		b.WriteString(ex)
	}
	return appendOnce(text, FewShotMarker, b.String())
}

// PersonaScaffold prepends the domain expert identity.
func PersonaScaffold(text string, c Context) string {
	sentence := fmt.Sprintf("You are %s.", Persona(c.Domain))
	return prependOnce(text, sentence, sentence)
}

// Constraints appends general accuracy and scope requirements.
func Constraints(text string, _ Context) string {
	return appendOnce(text, ConstraintsMarker, ConstraintsMarker+`- Stay within the scope of the request.
- State any assumptions you make.
- Keep the answer accurate and concise.`)
}

// StructuredOutput appends a fixed answer layout.
func StructuredOutput(text string, _ Context) string {
	return appendOnce(text, StructuredOutputMarker, StructuredOutputMarker+`
1. Summary
2. Details
3. Next steps`)
}

var domainConsiderations = map[analysis.Domain][]string{
	analysis.DomainTechnology: {"versions and environment", "performance and security", "error handling"},
	analysis.DomainBusiness:   {"costs and expected return", "stakeholders", "measurable outcomes"},
	analysis.DomainCreative:   {"audience and tone", "originality", "structure and pacing"},
	analysis.DomainAcademic:   {"quality of sources", "methodology", "limitations"},
	analysis.DomainMedical:    {"patient safety", "current clinical guidance", "when to consult a professional"},
	analysis.DomainLegal:      {"jurisdiction", "applicable rules", "the need for qualified legal advice"},
	analysis.DomainFinance:    {"risk", "time horizon", "tax implications"},
	analysis.DomainEducation:  {"learner level", "learning objectives", "ways to check understanding"},
	analysis.DomainScientific: {"hypotheses", "evidence and measurement", "reproducibility"},
	analysis.DomainGeneral:    {"the goal of the request", "relevant background", "the expected level of detail"},
}

// ContextEnrichment appends the considerations the domain calls for.
func ContextEnrichment(text string, c Context) string {
	domain := c.Domain
	items, ok := domainConsiderations[domain]
	if !ok {
		domain = analysis.DomainGeneral
		items = domainConsiderations[domain]
	}
	block := fmt.Sprintf("%s %s request: %s.", ContextEnrichmentMarker, domain, strings.Join(items, ", "))
	return appendOnce(text, ContextEnrichmentMarker, block)
}

// RolePlay prepends a scenario framing with the domain persona.
func RolePlay(text string, c Context) string {
	block := fmt.Sprintf("%s you are %s, and I am someone who needs your help. Stay in that role for the whole answer.", RolePlayMarker, Persona(c.Domain))
	return prependOnce(text, RolePlayMarker, block)
}

// DomainPattern rewrites text into the domain's default pattern. Domains
// without a pattern, or templates that cannot be filled, leave text as is.
func DomainPattern(text string, c Context) string {
	p, ok := patterns.ForDomain(c.Domain)
	if !ok || strings.Contains(text, p.Signature()) {
		return text
	}
	return patterns.ApplyFromText(text, p.ID, nil)
}

var toneFraming = map[analysis.Tone]string{
	analysis.ToneNeutral:      "Take care to be accurate and complete.",
	analysis.ToneProfessional: "This is for a professional context, so precision matters.",
	analysis.ToneEncouraging:  "Your thoughtful answer will make a real difference here.",
	analysis.ToneEmpathetic:   "Keep in mind that the reader may find this topic difficult.",
	analysis.ToneConfident:    "Give a clear, decisive answer.",
	analysis.ToneEnthusiastic: "Bring energy and curiosity to the answer.",
	analysis.ToneUrgent:       "This is time-sensitive, so lead with the most important point.",
	analysis.ToneCasual:       "Keep it relaxed and easy to read.",
}

// EmotionalFraming appends one tone-appropriate sentence.
func EmotionalFraming(text string, c Context) string {
	sentence, ok := toneFraming[c.Tone]
	if !ok {
		sentence = toneFraming[analysis.ToneNeutral]
	}
	return appendOnce(text, sentence, sentence)
}
