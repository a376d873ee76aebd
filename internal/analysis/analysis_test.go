package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sortPrompt = "Write a Python function to sort a list of 10000 integers efficiently, handling duplicates and ensuring O(n log n) complexity, with unit tests."

func TestAnalyze_EmptyInput(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "\n\t "} {
		got, err := Analyze(in, "")
		require.ErrorIs(t, err, ErrEmptyInput)
		require.NotNil(t, got)

		assert.Equal(t, 10, got.Quality.Clarity)
		assert.Equal(t, 10, got.Quality.Specificity)
		assert.Equal(t, 10, got.Quality.Effectiveness)
		assert.Equal(t, 0, got.EstimatedTokens)
		assert.Len(t, got.IdentifiedIssues, len(issueRules))
		assert.NotEmpty(t, got.Suggestions)
		assert.Equal(t, DomainGeneral, got.Domain)
	}
}

func TestAnalyze_CodePrompt(t *testing.T) {
	t.Parallel()

	got, err := Analyze(sortPrompt, "")
	require.NoError(t, err)

	assert.Equal(t, DomainTechnology, got.Domain)
	assert.Equal(t, IntentCode, got.Intent)
	assert.True(t, got.Complexity.AtLeast(ComplexityComplex))
	assert.True(t, got.ContextFactors.HasConstraints)
	assert.True(t, got.ContextFactors.HasSpecificTerms)
	assert.Equal(t, 23, got.WordCount)
	assert.Equal(t, 30, got.EstimatedTokens)
	assert.False(t, got.Enhanced)
}

func TestAnalyze_DomainOverride(t *testing.T) {
	t.Parallel()

	got, err := Analyze(sortPrompt, "healthcare")
	require.NoError(t, err)
	assert.Equal(t, DomainMedical, got.Domain)
	assert.Equal(t, DomainMedical, NormalizeDomain("health"))
	assert.Equal(t, DomainGeneral, NormalizeDomain("astrology"))
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	prompts := []string{
		sortPrompt,
		"Tell me a story about a dragon.",
		"URGENT!!! fix the server now, it is broken",
	}
	for _, p := range prompts {
		a, err := Analyze(p, "")
		require.NoError(t, err)
		b, err := Analyze(p, "")
		require.NoError(t, err)
		assert.Equal(t, a, b, p)
	}
}

func TestScoreQuality_Bounds(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"?!?!...,,,;;;",
		strings.Repeat("very long prompt with many words ", 2000),
		"日本語のテキスト 😀😀😀 ünïcödé",
		"First, because Context: given that we must limit scope, for example JSON. Then Finally e.g. Foo Bar 42.",
		"something stuff things whatever etc",
	}
	for _, in := range inputs {
		q := ScoreQuality(in)
		for _, v := range []int{q.Clarity, q.Specificity, q.Effectiveness, q.Coherence, q.Completeness} {
			assert.GreaterOrEqual(t, v, metricFloor*ScaleFactor)
			assert.LessOrEqual(t, v, metricCeiling*ScaleFactor)
		}
		p := Predict(q)
		assert.Equal(t, 100-p.Overall, p.ImprovementPotential)
	}
}

func TestScoreQuality_DetailedBeatsVague(t *testing.T) {
	t.Parallel()

	vague := ScoreQuality("do something with stuff")
	detailed := ScoreQuality(sortPrompt)
	assert.Greater(t, detailed.Overall(), vague.Overall())
	assert.Greater(t, detailed.Specificity, vague.Specificity)
}

func TestClassifyComplexity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Complexity
	}{
		{"short", "Explain recursion.", ComplexitySimple},
		{"moderate", strings.Repeat("word. ", 31), ComplexityModerate},
		{"long sentence", strings.Repeat("word ", 21) + ".", ComplexityComplex},
		{"many words", strings.Repeat("word. ", 101), ComplexityComplex},
		{"expert words", strings.Repeat("word. ", 201), ComplexityExpert},
		{"expert sentence", strings.Repeat("word ", 26), ComplexityExpert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyComplexity(tt.text))
		})
	}
}

func TestClassify_IntentTieKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	// One creative hit and one analytical hit.
	c := Classify("story analysis")
	assert.Equal(t, IntentCreative, c.Intent)

	c = Classify("zzz")
	assert.Equal(t, IntentInformational, c.Intent)
	assert.Equal(t, DomainGeneral, c.Domain)
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 2},
		{"one two three", 4},
		{"a b c d e f g h i j", 13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateTokens(tt.text), tt.text)
	}
}

func TestAnalyzeContext(t *testing.T) {
	t.Parallel()

	t.Run("general domain counts as present", func(t *testing.T) {
		r := AnalyzeContext("", DomainGeneral)
		assert.Equal(t, []ContextType{ContextSituational, ContextBackground, ContextTemporal, ContextAudience}, r.MissingContext)
		assert.Equal(t, 40, r.CompletenessScore)
		assert.Len(t, r.Suggestions, 4)
		assert.Len(t, r.ContextGaps, 3)
	})

	t.Run("all missing", func(t *testing.T) {
		r := AnalyzeContext("", DomainTechnology)
		assert.Len(t, r.MissingContext, 5)
		assert.Equal(t, 25, r.CompletenessScore)
		assert.Len(t, r.ContextGaps, 4)
		for _, s := range r.Suggestions {
			assert.NotEmpty(t, s.Type)
			assert.Greater(t, s.Relevance, 0.0)
		}
	})

	t.Run("all present", func(t *testing.T) {
		text := "I'm working on a project with background in our Postgres database; the audience is developers and the deadline is next week."
		r := AnalyzeContext(text, DomainTechnology)
		assert.Empty(t, r.MissingContext)
		assert.Equal(t, 100, r.CompletenessScore)
	})
}

func TestDetectTone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Tone
	}{
		{"This is urgent, I'm excited", ToneUrgent},
		{"I'm so excited about this", ToneEnthusiastic},
		{"I feel stuck and worried", ToneEmpathetic},
		{"Summarize the article", ToneNeutral},
		{"Please provide a report regarding Q3", ToneProfessional},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectTone(tt.text), tt.text)
	}
}

func TestAnalyzeTone(t *testing.T) {
	t.Parallel()

	t.Run("matrix lookup", func(t *testing.T) {
		assert.Equal(t, 90, Appropriateness(DomainTechnology, ToneProfessional))
		assert.Equal(t, 95, Appropriateness(DomainCreative, ToneEnthusiastic))
		assert.Equal(t, 30, Appropriateness(DomainAcademic, ToneUrgent))
		assert.Equal(t, 70, Appropriateness(DomainLegal, ToneCasual))
	})

	t.Run("academic urgent warns twice", func(t *testing.T) {
		r := AnalyzeTone("Finish the paper", DomainAcademic, ToneUrgent)
		assert.Equal(t, 30, r.Appropriateness)
		assert.Len(t, r.Warnings, 2)
		assert.Equal(t, 30, r.Effectiveness)
	})

	t.Run("hardcoded domain tone pairs", func(t *testing.T) {
		r := AnalyzeTone("Debug my code", DomainAcademic, ToneEnthusiastic)
		assert.Len(t, r.Warnings, 2)

		r = AnalyzeTone("Debug my code", DomainTechnology, ToneEmpathetic)
		assert.Len(t, r.Warnings, 2)

		r = AnalyzeTone("Debug my code", DomainTechnology, ToneProfessional)
		assert.Empty(t, r.Warnings)
	})

	t.Run("long prompt bonus is capped", func(t *testing.T) {
		r := AnalyzeTone(strings.Repeat("word ", 50), DomainTechnology, ToneProfessional)
		assert.Equal(t, 95, r.Effectiveness)

		r = AnalyzeTone(strings.Repeat("word ", 50), DomainTechnology, ToneEncouraging)
		assert.Equal(t, 80, r.Effectiveness)
	})

	t.Run("detected tone used without declaration", func(t *testing.T) {
		r := AnalyzeTone("this is urgent", DomainGeneral, "")
		assert.Equal(t, ToneUrgent, r.EvaluatedTone)
		assert.Equal(t, 55, r.Appropriateness)
	})
}

func TestIssues_DetectionOrder(t *testing.T) {
	t.Parallel()

	got, err := Analyze("do stuff", "")
	require.NoError(t, err)

	var types []string
	for _, issue := range got.IdentifiedIssues {
		types = append(types, issue.Type)
	}
	assert.Equal(t, []string{"too_short", "clarity", "specificity", "context", "vague_language", "output_format"}, types)
	assert.Len(t, got.Suggestions, len(got.IdentifiedIssues))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base, err := Analyze(sortPrompt, "")
	require.NoError(t, err)

	merged := Merge(base, Enhanced{
		Intent:      "instructional",
		Complexity:  "expert",
		Domain:      "unknown",
		Clarity:     8.5,
		Issues:      []string{"Missing input size bounds"},
		Suggestions: []string{"State the expected input size"},
	})

	assert.True(t, merged.Enhanced)
	assert.Equal(t, IntentEducational, merged.Intent)
	assert.Equal(t, ComplexityExpert, merged.Complexity)
	assert.Equal(t, DomainTechnology, merged.Domain)
	assert.Equal(t, 85, merged.Quality.Clarity)
	assert.Equal(t, base.Quality.Specificity, merged.Quality.Specificity)
	assert.Len(t, merged.IdentifiedIssues, len(base.IdentifiedIssues)+1)
	assert.Contains(t, merged.Suggestions, "State the expected input size")

	// base is untouched
	assert.False(t, base.Enhanced)
	assert.Equal(t, IntentCode, base.Intent)

	intent, ok := MapEnhancedIntent("persuasive")
	assert.True(t, ok)
	assert.Equal(t, IntentCreative, intent)
}

func TestMerge_DomainChangeRefreshesDerivedFields(t *testing.T) {
	t.Parallel()

	base, err := Analyze(sortPrompt, "")
	require.NoError(t, err)
	require.Equal(t, DomainTechnology, base.Domain)

	merged := Merge(base, Enhanced{
		Domain:      "creative",
		Complexity:  "expert",
		Issues:      []string{"Missing input size bounds"},
		Suggestions: []string{"State the expected input size"},
	})
	Refresh(merged, sortPrompt, "")

	assert.Equal(t, DomainCreative, merged.Domain)
	assert.Equal(t, AnalyzeContext(sortPrompt, DomainCreative), merged.Context)
	assert.Equal(t, AnalyzeTone(sortPrompt, DomainCreative, ""), merged.Emotion)
	assert.Equal(t, merged.Emotion.CurrentTone, merged.ContextFactors.EmotionalTone)
	c := Classify(sortPrompt)
	c.DomainHits = 0
	assert.Equal(t, confidence(c, sortPrompt), merged.Confidence)

	want := detectIssues(extractFeatures(sortPrompt), ComplexityExpert)
	require.Len(t, merged.IdentifiedIssues, len(want)+1)
	assert.Equal(t, want, merged.IdentifiedIssues[:len(want)])
	assert.Equal(t, modelIssueType, merged.IdentifiedIssues[len(want)].Type)
	assert.Contains(t, merged.Suggestions, "State the expected input size")
	for _, issue := range want {
		assert.Contains(t, merged.Suggestions, issue.Solution)
	}

	// base is untouched
	assert.Equal(t, DomainTechnology, base.Domain)
	assert.Equal(t, AnalyzeContext(sortPrompt, DomainTechnology), base.Context)
}
