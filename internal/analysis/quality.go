package analysis

import (
	"regexp"
	"strings"
)

// Quality metrics are computed on a 1-10 heuristic scale and reported on the
// canonical 0-100 scale. ScaleFactor converts between the two.
const (
	ScaleFactor    = 10
	metricFloor    = 1
	metricCeiling  = 10
	metricBase     = 5
	completionBase = 4
)

var (
	actionVerbRegex     = regexp.MustCompile(`(?i)\b(create|write|generate|analy[sz]e|explain|describe|list|summari[sz]e|compare|design|build|develop|implement|draft|review|evaluate|calculate|translate|outline|plan|identify|suggest|recommend|sort)\b`)
	contextMarkerRegex  = regexp.MustCompile(`(?i)\b(context|background|given that|assuming)\b`)
	backgroundRegex     = regexp.MustCompile(`(?i)\b(background|context|currently|previously|i am|i'm|we are|we're|our|my|given that|assuming|situation)\b`)
	constraintRegex     = regexp.MustCompile(`(?i)\b(must|should|require[sd]?|requirements?|within|limit(s|ed)?|ensur(e|es|ing)|at least|at most|no more than|maximum|minimum|avoid|constraints?)\b`)
	exampleRegex        = regexp.MustCompile(`(?i)\b(for example|for instance|such as|examples?)\b|\be\.g\.`)
	goalRegex           = regexp.MustCompile(`(?i)\b(goal|objective|aim|want to|need to|so that|in order to|purpose|outcome)\b`)
	digitRegex          = regexp.MustCompile(`\d`)
	capitalizedRegex    = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	connectorRegex      = regexp.MustCompile(`(?i)\b(first|then|next|finally|because|therefore|however|additionally|also|steps?|after that)\b`)
	vagueRegex          = regexp.MustCompile(`(?i)\b(something|stuff|things?|somehow|whatever|etc|kind of|sort of)\b`)
	outputFormatRegex   = regexp.MustCompile(`(?i)\b(format|json|table|bullets?|bullet points|paragraphs?|markdown|csv|outline|words|sentences|steps)\b`)
)

// features are the boolean lexical detectors every scorer shares.
type features struct {
	words         int
	sentences     int
	avgSentence   float64
	actionVerb    bool
	contextMarker bool
	background    bool
	constraints   bool
	examples      bool
	goals         bool
	digits        bool
	capitalized   bool
	connectors    bool
	vague         bool
	outputFormat  bool
}

func extractFeatures(text string) features {
	f := features{
		words:         WordCount(text),
		sentences:     SentenceCount(text),
		actionVerb:    actionVerbRegex.MatchString(text),
		contextMarker: contextMarkerRegex.MatchString(text),
		background:    backgroundRegex.MatchString(text),
		constraints:   constraintRegex.MatchString(text),
		examples:      exampleRegex.MatchString(text),
		goals:         goalRegex.MatchString(text),
		digits:        digitRegex.MatchString(text),
		capitalized:   capitalizedRegex.MatchString(text),
		connectors:    connectorRegex.MatchString(text),
		vague:         vagueRegex.MatchString(text),
		outputFormat:  outputFormatRegex.MatchString(text),
	}
	sentences := f.sentences
	if sentences < 1 {
		sentences = 1
	}
	f.avgSentence = float64(f.words) / float64(sentences)
	return f
}

// floorQuality is reported for empty input.
func floorQuality() QualityScore {
	v := metricFloor * ScaleFactor
	return QualityScore{Clarity: v, Specificity: v, Effectiveness: v, Coherence: v, Completeness: v}
}

// ScoreQuality computes all five metrics on the 0-100 scale. Identical input
// always yields identical scores.
func ScoreQuality(text string) QualityScore {
	if strings.TrimSpace(text) == "" {
		return floorQuality()
	}
	return scoreFeatures(extractFeatures(text))
}

func scoreFeatures(f features) QualityScore {
	clarity := metricBase + min(3, f.words/10)
	if f.connectors {
		clarity++
	}
	if f.sentences > 0 && f.avgSentence <= expertAvgSentenceLen {
		clarity++
	}
	if f.vague {
		clarity -= 2
	}

	specificity := metricBase
	if f.digits {
		specificity++
	}
	if f.capitalized {
		specificity++
	}
	if f.constraints {
		specificity += 2
	}
	if f.examples {
		specificity++
	}

	effectiveness := metricBase
	if f.actionVerb {
		effectiveness += 2
	}
	if f.contextMarker {
		effectiveness += 2
	}
	if f.words >= 15 {
		effectiveness++
	}

	coherence := metricBase
	if f.connectors {
		coherence += 2
	}
	if f.sentences >= 2 {
		coherence++
	}
	if f.avgSentence <= expertAvgSentenceLen {
		coherence++
	}
	if f.vague {
		coherence--
	}

	completeness := completionBase
	for _, present := range []bool{f.background, f.constraints, f.examples, f.goals, f.outputFormat} {
		if present {
			completeness++
		}
	}
	if f.words >= 20 {
		completeness++
	}

	return QualityScore{
		Clarity:       scale(clarity),
		Specificity:   scale(specificity),
		Effectiveness: scale(effectiveness),
		Coherence:     scale(coherence),
		Completeness:  scale(completeness),
	}
}

func scale(v int) int {
	return clamp(v, metricFloor, metricCeiling) * ScaleFactor
}

// Predict derives the improvement potential used by the technique gate.
func Predict(q QualityScore) QualityPrediction {
	overall := q.Overall()
	return QualityPrediction{Overall: overall, ImprovementPotential: 100 - overall}
}
