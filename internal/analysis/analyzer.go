package analysis

import (
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Analyze builds the full analysis of prompt. A non-empty domain overrides the
// classified one. Empty or whitespace-only input returns the placeholder
// analysis together with ErrEmptyInput.
func Analyze(prompt, domain string) (*PromptAnalysis, error) {
	return AnalyzeWithTone(prompt, domain, "")
}

// AnalyzeWithTone is Analyze with a declared target tone for the
// appropriateness check.
func AnalyzeWithTone(prompt, domain string, tone Tone) (*PromptAnalysis, error) {
	if strings.TrimSpace(prompt) == "" {
		return Placeholder(domain), ErrEmptyInput
	}

	c := Classify(prompt)
	if domain != "" {
		c.Domain = NormalizeDomain(domain)
	}

	var (
		f       features
		quality QualityScore
		ctxRep  ContextReport
		toneRep ToneReport
		g       errgroup.Group
	)
	// The analyzers share no state and are joined before anything reads them.
	g.Go(func() error {
		f = extractFeatures(prompt)
		quality = scoreFeatures(f)
		return nil
	})
	g.Go(func() error {
		ctxRep = AnalyzeContext(prompt, c.Domain)
		return nil
	})
	g.Go(func() error {
		toneRep = AnalyzeTone(prompt, c.Domain, tone)
		return nil
	})
	_ = g.Wait()

	issues := detectIssues(f, c.Complexity)
	return &PromptAnalysis{
		Intent:            c.Intent,
		Complexity:        c.Complexity,
		Domain:            c.Domain,
		WordCount:         f.words,
		SentenceCount:     f.sentences,
		EstimatedTokens:   EstimateTokens(prompt),
		Confidence:        confidence(c, prompt),
		Quality:           quality,
		QualityPrediction: Predict(quality),
		ContextFactors: ContextFactors{
			HasBackground:    f.background,
			HasConstraints:   f.constraints,
			HasExamples:      f.examples,
			HasGoals:         f.goals,
			HasSpecificTerms: f.digits || f.capitalized,
			EmotionalTone:    toneRep.CurrentTone,
		},
		Context:          ctxRep,
		Emotion:          toneRep,
		IdentifiedIssues: issues,
		Suggestions:      suggestionsFor(issues),
	}, nil
}

// Placeholder is the fixed analysis reported for empty input: every metric at
// its floor and every issue flagged.
func Placeholder(domain string) *PromptAnalysis {
	d := NormalizeDomain(domain)
	quality := floorQuality()
	issues := detectIssues(features{}, ComplexitySimple)
	toneRep := AnalyzeTone("", d, "")
	return &PromptAnalysis{
		Intent:            IntentInformational,
		Complexity:        ComplexitySimple,
		Domain:            d,
		Quality:           quality,
		QualityPrediction: Predict(quality),
		ContextFactors:    ContextFactors{EmotionalTone: toneRep.CurrentTone},
		Context:           AnalyzeContext("", d),
		Emotion:           toneRep,
		IdentifiedIssues:  issues,
		Suggestions:       suggestionsFor(issues),
	}
}

// Refresh recomputes everything derived from the domain or complexity after
// either was changed, for example by Merge or a domain override. Issues of
// type "model" and the suggestions that came with them are kept.
func Refresh(a *PromptAnalysis, prompt string, tone Tone) {
	if strings.TrimSpace(prompt) == "" {
		return
	}
	f := extractFeatures(prompt)

	c := Classify(prompt)
	if c.Intent != a.Intent {
		c.IntentHits = 0
	}
	if c.Domain != a.Domain {
		c.DomainHits = 0
	}
	a.Confidence = confidence(c, prompt)

	a.Context = AnalyzeContext(prompt, a.Domain)
	a.Emotion = AnalyzeTone(prompt, a.Domain, tone)
	a.ContextFactors.EmotionalTone = a.Emotion.CurrentTone

	issues := detectIssues(f, a.Complexity)
	suggestions := suggestionsFor(issues)
	for _, issue := range a.IdentifiedIssues {
		if issue.Type == modelIssueType {
			issues = append(issues, issue)
		}
	}
	for _, s := range a.Suggestions {
		if !ruleSuggestions[s] && !slices.Contains(suggestions, s) {
			suggestions = append(suggestions, s)
		}
	}
	a.IdentifiedIssues = issues
	a.Suggestions = suggestions
}
