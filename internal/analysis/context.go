package analysis

import "strings"

// ContextType is one category of supporting information a prompt may lack.
type ContextType string

const (
	ContextSituational ContextType = "situational"
	ContextBackground  ContextType = "background"
	ContextDomain      ContextType = "domain"
	ContextTemporal    ContextType = "temporal"
	ContextAudience    ContextType = "audience"
)

// ContextTypes is the fixed evaluation order.
var ContextTypes = []ContextType{ContextSituational, ContextBackground, ContextDomain, ContextTemporal, ContextAudience}

// gapPenalty is subtracted from 100 for every missing context type.
const gapPenalty = 15

// ContextInfo is a suggestion to fill one missing context type.
type ContextInfo struct {
	Type        ContextType `json:"type"`
	Description string      `json:"description"`
	Example     string      `json:"example"`
	Relevance   float64     `json:"relevance"`
	Priority    Severity    `json:"priority"`
}

// ContextReport is the output of AnalyzeContext.
type ContextReport struct {
	MissingContext    []ContextType `json:"missingContext"`
	Suggestions       []ContextInfo `json:"suggestions"`
	CompletenessScore int           `json:"completenessScore"`
	ContextGaps       []string      `json:"contextGaps"`
}

type contextRule struct {
	keywords   []string
	suggestion ContextInfo
	// gap is empty for types that only produce a suggestion.
	gap string
}

var contextRules = map[ContextType]contextRule{
	ContextSituational: {
		keywords: []string{"situation", "scenario", "currently", "right now", "working on", "i am", "i'm", "we are", "we're", "my team", "our team", "project"},
		suggestion: ContextInfo{
			Description: "Describe the situation or scenario that prompted this request",
			Example:     "I'm preparing a presentation for our quarterly review...",
			Relevance:   0.8,
			Priority:    SeverityHigh,
		},
		gap: "No situational context: the model cannot tell why the request is being made",
	},
	ContextBackground: {
		keywords: []string{"background", "context", "previously", "history", "already", "so far", "given that", "assuming", "because"},
		suggestion: ContextInfo{
			Description: "Add relevant background information or prior work",
			Example:     "We previously tried X, which failed because...",
			Relevance:   0.7,
			Priority:    SeverityMedium,
		},
		gap: "No background information: prior attempts and known facts are missing",
	},
	ContextDomain: {
		suggestion: ContextInfo{
			Description: "Include domain-specific terminology or constraints",
			Example:     "Using the company's existing PostgreSQL schema...",
			Relevance:   0.75,
			Priority:    SeverityMedium,
		},
		gap: "No domain-specific detail: terminology and conventions of the field are absent",
	},
	ContextTemporal: {
		keywords: []string{"today", "tomorrow", "deadline", "by ", "week", "month", "year", "quarter", "2024", "2025", "2026", "recent", "latest", "current", "timeline", "schedule"},
		suggestion: ContextInfo{
			Description: "Specify timing, deadlines or the time period of interest",
			Example:     "This needs to be ready by the end of the month...",
			Relevance:   0.5,
			Priority:    SeverityLow,
		},
	},
	ContextAudience: {
		keywords: []string{"audience", "for beginners", "beginner", "expert", "students", "readers", "customers", "users", "stakeholders", "team", "children", "kids", "developers", "executives", "clients"},
		suggestion: ContextInfo{
			Description: "Identify who the response is for",
			Example:     "The audience is non-technical executives...",
			Relevance:   0.7,
			Priority:    SeverityMedium,
		},
		gap: "No target audience: tone and depth cannot be calibrated",
	},
}

// domainKeywords decide whether the domain context type is present.
var domainKeywords = map[Domain][]string{
	DomainTechnology: {"api", "database", "framework", "library", "server", "version", "stack", "architecture", "deploy", "language", "python", "javascript", "golang", "docker", "kubernetes", "sql"},
	DomainBusiness:   {"market", "revenue", "customer", "strategy", "kpi", "roi", "stakeholder", "budget", "competitor", "growth", "brand"},
	DomainCreative:   {"genre", "tone", "style", "character", "setting", "audience", "mood", "theme", "voice", "narrative"},
	DomainAcademic:   {"thesis", "citation", "methodology", "literature", "journal", "peer", "hypothesis", "apa", "mla", "research question"},
	DomainMedical:    {"patient", "symptom", "diagnosis", "treatment", "dosage", "clinical", "history", "condition"},
	DomainLegal:      {"jurisdiction", "contract", "clause", "statute", "regulation", "liability", "compliance", "court"},
	DomainFinance:    {"portfolio", "risk", "return", "interest", "tax", "investment", "cash flow", "valuation"},
	DomainEducation:  {"grade", "curriculum", "learning objective", "lesson", "students", "assessment", "age"},
	DomainScientific: {"experiment", "hypothesis", "variable", "sample", "data", "method", "measurement", "control group"},
}

// AnalyzeContext checks the five context types against fixed keyword lists.
// The domain type is always present for DomainGeneral.
func AnalyzeContext(text string, domain Domain) ContextReport {
	lower := strings.ToLower(text)
	report := ContextReport{
		MissingContext: []ContextType{},
		Suggestions:    []ContextInfo{},
		ContextGaps:    []string{},
	}

	for _, ct := range ContextTypes {
		rule := contextRules[ct]
		present := false
		if ct == ContextDomain {
			present = hasDomainContext(lower, domain)
		} else {
			present = containsAny(lower, rule.keywords)
		}
		if present {
			continue
		}

		report.MissingContext = append(report.MissingContext, ct)
		suggestion := rule.suggestion
		suggestion.Type = ct
		report.Suggestions = append(report.Suggestions, suggestion)
		if rule.gap != "" {
			report.ContextGaps = append(report.ContextGaps, rule.gap)
		}
	}

	report.CompletenessScore = max(0, 100-gapPenalty*len(report.MissingContext))
	return report
}

func hasDomainContext(lower string, domain Domain) bool {
	keywords, ok := domainKeywords[domain]
	if !ok {
		// General and unlisted domains need no extra terminology.
		return true
	}
	return containsAny(lower, keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
