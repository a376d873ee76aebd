package analysis

import (
	"fmt"
	"strings"
)

// Tone is an emotional register a prompt is written in or asks for.
type Tone string

const (
	ToneNeutral      Tone = "neutral"
	ToneProfessional Tone = "professional"
	ToneEncouraging  Tone = "encouraging"
	ToneEmpathetic   Tone = "empathetic"
	ToneConfident    Tone = "confident"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneUrgent       Tone = "urgent"
	ToneCasual       Tone = "casual"
)

// Tones lists every tone in matrix column order.
var Tones = []Tone{ToneNeutral, ToneProfessional, ToneEncouraging, ToneEmpathetic, ToneConfident, ToneEnthusiastic, ToneUrgent, ToneCasual}

// ParseTone returns the tone named by s, or false if s is not a known tone.
func ParseTone(s string) (Tone, bool) {
	for _, t := range Tones {
		if string(t) == strings.ToLower(strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

const (
	defaultAppropriateness = 70
	warningThreshold       = 50
	maxToneEffectiveness   = 95
	longPromptChars        = 200
	longPromptBonus        = 10
)

// ToneReport is the output of AnalyzeTone.
type ToneReport struct {
	CurrentTone     Tone     `json:"currentTone"`
	EvaluatedTone   Tone     `json:"evaluatedTone"`
	Appropriateness int      `json:"appropriateness"`
	Suggestions     []string `json:"suggestions"`
	Warnings        []string `json:"warnings"`
	Effectiveness   int      `json:"effectiveness"`
}

type toneRule struct {
	tone     Tone
	keywords []string
}

// First match wins.
var toneRules = []toneRule{
	{ToneUrgent, []string{"urgent", "asap", "immediately", "right away", "critical", "emergency", "deadline"}},
	{ToneEncouraging, []string{"you can do", "keep going", "great job", "believe", "encourage", "motivat", "support"}},
	{ToneEmpathetic, []string{"understand how", "feel", "struggling", "difficult", "sorry", "worried", "anxious", "frustrat"}},
	{ToneConfident, []string{"definitely", "certainly", "clearly", "without doubt", "confident", "absolutely", "guarantee"}},
	{ToneEnthusiastic, []string{"excited", "amazing", "awesome", "love", "fantastic", "can't wait", "thrilled", "!"}},
	{ToneProfessional, []string{"please provide", "kindly", "regarding", "pursuant", "professional", "formal", "report", "stakeholder"}},
}

// appropriateness is the domain x tone compatibility table. Columns follow Tones.
var appropriateness = map[Domain][8]int{
	DomainTechnology: {80, 90, 70, 45, 85, 60, 55, 60},
	DomainBusiness:   {75, 95, 75, 60, 90, 70, 65, 50},
	DomainCreative:   {65, 60, 85, 80, 75, 95, 50, 85},
	DomainAcademic:   {85, 95, 65, 55, 80, 40, 30, 35},
	DomainMedical:    {80, 90, 75, 95, 70, 45, 60, 40},
	DomainGeneral:    {75, 80, 80, 75, 80, 75, 55, 75},
}

// hardWarnings are raised for these pairs regardless of the table score.
var hardWarnings = map[Domain]map[Tone]string{
	DomainAcademic: {
		ToneEnthusiastic: "Enthusiastic language can undermine credibility in academic writing",
		ToneUrgent:       "Urgency is rarely appropriate in academic contexts",
	},
	DomainTechnology: {
		ToneEmpathetic: "Technical requests usually benefit from precise rather than emotional framing",
	},
}

var toneSuggestions = map[Tone]string{
	ToneNeutral:      "Keep the request neutral and factual",
	ToneProfessional: "Use precise, formal wording and avoid slang",
	ToneEncouraging:  "Frame the request positively and invite step-by-step progress",
	ToneEmpathetic:   "Acknowledge the reader's situation before giving direction",
	ToneConfident:    "State expectations directly and avoid hedging",
	ToneEnthusiastic: "Show energy, but keep the core request specific",
	ToneUrgent:       "State the deadline explicitly instead of relying on urgent wording",
	ToneCasual:       "Use plain, conversational language",
}

// DetectTone returns the first tone whose keywords appear in text.
func DetectTone(text string) Tone {
	lower := strings.ToLower(text)
	for _, rule := range toneRules {
		if containsAny(lower, rule.keywords) {
			return rule.tone
		}
	}
	return ToneNeutral
}

// Appropriateness looks up the compatibility of tone with domain. Domains
// without a row score defaultAppropriateness.
func Appropriateness(domain Domain, tone Tone) int {
	row, ok := appropriateness[domain]
	if !ok {
		return defaultAppropriateness
	}
	for i, t := range Tones {
		if t == tone {
			return row[i]
		}
	}
	return defaultAppropriateness
}

// AnalyzeTone detects the current tone and scores the declared tone, or the
// detected one when declared is empty, against the domain.
func AnalyzeTone(text string, domain Domain, declared Tone) ToneReport {
	current := DetectTone(text)
	evaluated := current
	if declared != "" {
		evaluated = declared
	}

	score := Appropriateness(domain, evaluated)
	report := ToneReport{
		CurrentTone:     current,
		EvaluatedTone:   evaluated,
		Appropriateness: score,
		Suggestions:     []string{},
		Warnings:        []string{},
	}

	if score < warningThreshold {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("The %s tone scores %d for %s prompts", evaluated, score, domain))
		if best := bestTone(domain); best != evaluated {
			report.Suggestions = append(report.Suggestions,
				fmt.Sprintf("Consider a %s tone instead", best))
		}
	}
	if msg, ok := hardWarnings[domain][evaluated]; ok {
		report.Warnings = append(report.Warnings, msg)
	}
	if s, ok := toneSuggestions[evaluated]; ok {
		report.Suggestions = append(report.Suggestions, s)
	}

	bonus := 0
	if len(text) > longPromptChars {
		bonus = longPromptBonus
	}
	report.Effectiveness = min(maxToneEffectiveness, score+bonus)
	return report
}

// bestTone is the highest scoring tone for domain; ties keep column order.
func bestTone(domain Domain) Tone {
	best, bestScore := ToneNeutral, -1
	for _, t := range Tones {
		if s := Appropriateness(domain, t); s > bestScore {
			best, bestScore = t, s
		}
	}
	return best
}
