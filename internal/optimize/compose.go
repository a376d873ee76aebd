package optimize

import (
	"fmt"
	"strings"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/technique"
)

var baseInstructions = []string{
	"Give accurate, well-organized answers.",
	"Ask for clarification when a request is ambiguous.",
	"State your assumptions explicitly.",
	"Keep every response focused on the task.",
}

const (
	cotInstruction     = "Reason step by step and show the key steps of your reasoning."
	personaInstruction = "Stay in the role described above for the whole conversation."
	thinkingBlock      = "Before responding, work through the problem internally: identify what is being asked, consider the relevant facts and check your conclusion. Then give the final answer."
)

var systemGuidelines = map[analysis.Domain][]string{
	analysis.DomainTechnology: {
		"Prefer working, idiomatic code over pseudo-code.",
		"Point out edge cases, security concerns and performance trade-offs.",
		"Name versions and dependencies when they matter.",
	},
	analysis.DomainBusiness: {
		"Tie recommendations to measurable outcomes.",
		"Weigh costs, risks and benefits explicitly.",
		"Consider every stakeholder affected by a decision.",
	},
	analysis.DomainCreative: {
		"Keep a consistent voice and tone.",
		"Favor concrete, sensory detail over abstraction.",
		"Offer alternatives when the brief leaves room for them.",
	},
}

var responseFormat = []string{
	"Start with a one-paragraph summary.",
	"Use headings and lists where they help readability.",
	"End with next steps or open questions.",
}

// ComposeSystem shapes prompt as a platform system prompt.
func ComposeSystem(prompt string, domain analysis.Domain, opts Options, p Platform) string {
	name := p.Name
	if name == "" {
		name = "Assistant"
	}
	sections := []string{
		fmt.Sprintf("# %s System Instructions", name),
		fmt.Sprintf("## Role\nYou are %s.", technique.Persona(domain)),
	}
	if p.SupportsThinking {
		sections = append(sections, "## Thinking Process\n"+thinkingBlock)
	}

	instructions := append([]string(nil), baseInstructions...)
	if opts.UseChainOfThought {
		instructions = append(instructions, cotInstruction)
	}
	if opts.UsePersona {
		instructions = append(instructions, personaInstruction)
	}
	sections = append(sections, "## Core Instructions\n"+bullets(instructions))

	if guidelines, ok := systemGuidelines[domain]; ok {
		sections = append(sections, "## Domain Guidelines\n"+bullets(guidelines))
	}
	sections = append(sections, "## Current Task\n"+strings.TrimSpace(prompt))
	if opts.UseConstraints {
		sections = append(sections, "## Response Format\n"+bullets(responseFormat))
	}
	return strings.Join(sections, "\n\n")
}

var roleIntros = map[analysis.Domain]string{
	analysis.DomainTechnology: "As an experienced software engineer, help me with the following.",
	analysis.DomainBusiness:   "As a seasoned business strategist, help me with the following.",
	analysis.DomainCreative:   "As a skilled creative writer, help me with the following.",
	analysis.DomainAcademic:   "As an academic researcher, help me with the following.",
	analysis.DomainMedical:    "As a knowledgeable medical professional, help me with the following.",
	analysis.DomainLegal:      "As an experienced legal analyst, help me with the following.",
	analysis.DomainFinance:    "As a financial analyst, help me with the following.",
	analysis.DomainEducation:  "As an experienced educator, help me with the following.",
	analysis.DomainScientific: "As a scientist, help me with the following.",
	analysis.DomainGeneral:    "As a knowledgeable assistant, help me with the following.",
}

var styleFraming = map[Style]string{
	StyleConversational: "I'd like your help with something.",
	StyleFormal:         "The following request calls for a thorough and precise response.",
	StyleTechnical:      "Treat the following as a technical specification and respond with precision.",
}

const (
	cotBullet         = "Work through the problem step by step and show your reasoning."
	selfCheckBullet   = "Check your answer by solving the problem a second way."
	constraintsBullet = "Be specific, accurate and concise."
	complexClosing    = "This is a multi-part request. Address every part and organize the answer so each part is easy to find."
)

var domainBullets = map[analysis.Domain]string{
	analysis.DomainTechnology: "Include working code examples and note edge cases.",
	analysis.DomainBusiness:   "Tie recommendations to measurable business outcomes.",
	analysis.DomainAcademic:   "Support claims with evidence and cite sources.",
	analysis.DomainCreative:   "Use vivid, original language and a consistent voice.",
}

// ComposeNormal shapes prompt as a conversational chat message.
func ComposeNormal(prompt string, a *analysis.PromptAnalysis, opts Options, p Platform) string {
	var sections, lead []string

	if opts.UsePersona || opts.UseRolePlay {
		intro, ok := roleIntros[a.Domain]
		if !ok {
			intro = roleIntros[analysis.DomainGeneral]
		}
		lead = append(lead, intro)
	}
	if framing, ok := styleFraming[p.Style]; ok {
		lead = append(lead, framing)
	}
	if len(lead) > 0 {
		sections = append(sections, strings.Join(lead, " "))
	}
	sections = append(sections, strings.TrimSpace(prompt))

	var guidelines []string
	if opts.UseChainOfThought {
		guidelines = append(guidelines, cotBullet)
	}
	if opts.UseSelfConsistency {
		guidelines = append(guidelines, selfCheckBullet)
	}
	if opts.UseConstraints {
		guidelines = append(guidelines, constraintsBullet)
	}
	if bullet, ok := domainBullets[a.Domain]; ok {
		guidelines = append(guidelines, bullet)
	}
	if len(guidelines) > 0 {
		sections = append(sections, "Guidelines:\n"+bullets(guidelines))
	}

	if a.Complexity.AtLeast(analysis.ComplexityComplex) {
		sections = append(sections, complexClosing)
	}
	if opts.UsePersona {
		sections = append(sections, fmt.Sprintf("Draw on your expertise as %s throughout your answer.", technique.Persona(a.Domain)))
	}
	return strings.Join(sections, "\n\n")
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
