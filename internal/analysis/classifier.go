package analysis

import (
	"regexp"
	"strings"
)

// Complexity thresholds. Only the word-count / sentence-length rule set is
// used; there is no keyword-scored variant.
const (
	expertWordCount       = 200
	expertAvgSentenceLen  = 25
	complexWordCount      = 100
	complexAvgSentenceLen = 20
	moderateWordCount     = 30
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

type domainRule struct {
	domain   Domain
	patterns []*regexp.Regexp
}

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

var (
	// Order matters: equal scores resolve to the earlier rule.
	intentRules = []intentRule{
		{IntentCreative, mustCompileAll(
			`\b(story|stories|poem|poetry|fiction|novel|narrative|lyrics|song|screenplay|script for a (film|movie|play))\b`,
			`\b(imagine|creative|character|plot|invent|brainstorm|slogan|tagline)\b`,
		)},
		{IntentAnalytical, mustCompileAll(
			`\b(analy[sz]e|analysis|evaluate|assess|compare|contrast|pros and cons|trade-?offs?)\b`,
			`\b(trend|metrics?|breakdown|interpret|critique|review the)\b`,
		)},
		{IntentInformational, mustCompileAll(
			`\b(what is|what are|who is|who was|when did|where is|define|definition of|tell me about)\b`,
			`\b(overview|summary|summari[sz]e|describe|list)\b`,
		)},
		{IntentProblemSolving, mustCompileAll(
			`\b(solve|fix|troubleshoot|resolve|issue|problem|bug|error|not working|broken)\b`,
			`\b(how (can|do|should) (i|we)|workaround|figure out|optimi[sz]e)\b`,
		)},
		{IntentCode, mustCompileAll(
			`\b(code|function|script|program|class|method|api|endpoint|algorithm|refactor|compile|regex|unit tests?)\b`,
			`\b(python|javascript|typescript|golang|java|rust|sql|html|css|react|node\.?js)\b`,
		)},
		{IntentConversation, mustCompileAll(
			`\b(hi|hello|hey|thanks|thank you|chat|talk|how are you|what do you think)\b`,
			`\b(opinion|feel about|your thoughts)\b`,
		)},
		{IntentEducational, mustCompileAll(
			`\b(teach|learn|lesson|explain|tutorial|beginner|student|course|curriculum|quiz)\b`,
			`\b(help me understand|step-by-step guide|for kids|eli5)\b`,
		)},
		{IntentResearch, mustCompileAll(
			`\b(research|study|studies|literature|sources|citations?|evidence|hypothesis|findings|survey)\b`,
			`\b(peer[- ]reviewed|meta-analysis|state of the art|investigate)\b`,
		)},
	}

	domainRules = []domainRule{
		{DomainTechnology, mustCompileAll(
			`\b(software|code|coding|programming|python|javascript|typescript|golang|java|rust|function|algorithm|api|database|server|cloud|devops|docker|kubernetes|app|application|computer|tech|technical|unit tests?|frontend|backend|deploy)\b`,
		)},
		{DomainBusiness, mustCompileAll(
			`\b(business|market|marketing|sales|customer|revenue|strategy|startup|company|brand|product launch|stakeholder|roi|kpi|management|competitor)\b`,
		)},
		{DomainCreative, mustCompileAll(
			`\b(story|poem|novel|fiction|character|plot|art|design|music|lyrics|creative|screenplay|painting)\b`,
		)},
		{DomainAcademic, mustCompileAll(
			`\b(research|thesis|dissertation|paper|academic|journal|citation|literature review|scholarly|peer[- ]review|essay)\b`,
		)},
		{DomainMedical, mustCompileAll(
			`\b(medical|medicine|health|patient|doctor|clinical|symptoms?|diagnos[ie]s|treatment|disease|therapy|nurse|hospital)\b`,
		)},
		{DomainLegal, mustCompileAll(
			`\b(legal|law|lawyer|contract|clause|court|regulation|compliance|lawsuit|attorney|statute|liability|gdpr)\b`,
		)},
		{DomainFinance, mustCompileAll(
			`\b(finance|financial|investment|invest|stock|portfolio|budget|tax|accounting|loan|interest rate|crypto|bank)\b`,
		)},
		{DomainEducation, mustCompileAll(
			`\b(teach|teacher|student|classroom|lesson|curriculum|school|course|learning objectives|pupil|grade level)\b`,
		)},
		{DomainScientific, mustCompileAll(
			`\b(experiment|hypothesis|physics|chemistry|biology|scientific|molecule|quantum|data set|dataset|laboratory|theory)\b`,
		)},
	}
)

// Classify derives intent, complexity and domain from raw text.
func Classify(text string) Classification {
	intent, intentHits := classifyIntent(text)
	domain, domainHits := classifyDomain(text)
	return Classification{
		Intent:     intent,
		Complexity: ClassifyComplexity(text),
		Domain:     domain,
		IntentHits: intentHits,
		DomainHits: domainHits,
	}
}

// ClassifyComplexity applies the word-count / average sentence length rule.
func ClassifyComplexity(text string) Complexity {
	words := WordCount(text)
	sentences := SentenceCount(text)
	if sentences < 1 {
		sentences = 1
	}
	avg := float64(words) / float64(sentences)

	switch {
	case words > expertWordCount || avg > expertAvgSentenceLen:
		return ComplexityExpert
	case words > complexWordCount || avg > complexAvgSentenceLen:
		return ComplexityComplex
	case words > moderateWordCount:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}

func classifyIntent(text string) (Intent, int) {
	best, bestScore := IntentInformational, 0
	for _, rule := range intentRules {
		if score := countMatches(text, rule.patterns); score > bestScore {
			best, bestScore = rule.intent, score
		}
	}
	return best, bestScore
}

func classifyDomain(text string) (Domain, int) {
	best, bestScore := DomainGeneral, 0
	for _, rule := range domainRules {
		if score := countMatches(text, rule.patterns); score > bestScore {
			best, bestScore = rule.domain, score
		}
	}
	return best, bestScore
}

// confidence is a display-only score in [0, 90].
func confidence(c Classification, text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 40 + 8*c.IntentHits + 6*c.DomainHits
	return clamp(score, 0, 90)
}
