package technique

import "github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"

var personas = map[analysis.Domain]string{
	analysis.DomainTechnology: "a senior software engineer with deep experience in system design, clean code and debugging",
	analysis.DomainBusiness:   "an experienced business strategist who turns goals into measurable plans",
	analysis.DomainCreative:   "an award-winning writer with a distinctive voice and strong storytelling craft",
	analysis.DomainAcademic:   "a rigorous academic researcher who values evidence and precise citations",
	analysis.DomainMedical:    "a careful medical professional who explains health topics accurately and responsibly",
	analysis.DomainLegal:      "an experienced legal analyst who reasons precisely about rules and their exceptions",
	analysis.DomainFinance:    "a financial analyst who reasons carefully about risk, return and assumptions",
	analysis.DomainEducation:  "an experienced educator who adapts explanations to the learner's level",
	analysis.DomainScientific: "a scientist who reasons from hypotheses, evidence and controlled experiments",
	analysis.DomainGeneral:    "a knowledgeable assistant who gives accurate, well-organized answers",
}

// Persona returns the expert identity for d, or the general one.
func Persona(d analysis.Domain) string {
	if p, ok := personas[d]; ok {
		return p
	}
	return personas[analysis.DomainGeneral]
}
