package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
)

type fakeProvider struct {
	name    string
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(context.Context, Request) (*Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, unavailable(f.name, f.err)
	}
	return &Completion{Content: f.content, Usage: Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}}, nil
}

func TestRouter_RankByQuality(t *testing.T) {
	t.Parallel()
	r := NewRouter([]Provider{
		&fakeProvider{name: ProviderCohere},
		&fakeProvider{name: ProviderOpenAI},
		&fakeProvider{name: ProviderMistral},
	}, nil, nil, nil)

	ranked, err := r.Rank(context.Background(), StrategyMaxQuality)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, ranked[0])
	assert.Len(t, ranked, 3)
	assert.Equal(t, []string{ProviderCohere, ProviderMistral, ProviderOpenAI}, r.Providers())
}

func TestRouter_FallsBackOnFailure(t *testing.T) {
	t.Parallel()
	bad := &fakeProvider{name: ProviderOpenAI, err: errors.New("boom")}
	good := &fakeProvider{name: ProviderMistral, content: "ok"}
	r := NewRouter([]Provider{bad, good}, nil, nil, nil)

	out, name, err := r.Complete(context.Background(), Request{Prompt: "p"}, StrategyDefault)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Content)
	assert.Equal(t, ProviderMistral, name)
	assert.Equal(t, 1, bad.calls)

	stats, err := r.Usage().Stats(context.Background(), ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, StatusDegraded, stats.Status)
	assert.Equal(t, int64(1), stats.Failures)
}

func TestRouter_AllFail(t *testing.T) {
	t.Parallel()
	r := NewRouter([]Provider{&fakeProvider{name: ProviderGemini, err: errors.New("down")}}, nil, nil, nil)
	_, _, err := r.Complete(context.Background(), Request{Prompt: "p"}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.True(t, IsProviderUnavailable(err))

	_, _, err = NewRouter(nil, nil, nil, nil).Complete(context.Background(), Request{}, "")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestRouter_CheckHealthExcludesOffline(t *testing.T) {
	t.Parallel()
	down := &fakeProvider{name: ProviderGemini, err: errors.New("down")}
	up := &fakeProvider{name: ProviderAnthropic, content: "OK"}
	r := NewRouter([]Provider{down, up}, nil, nil, nil)

	results := r.CheckHealth(context.Background(), time.Second)
	assert.Equal(t, map[string]bool{ProviderGemini: false, ProviderAnthropic: true}, results)

	ranked, err := r.Rank(context.Background(), StrategyDefault)
	require.NoError(t, err)
	assert.Equal(t, []string{ProviderAnthropic}, ranked)
}

func TestRouter_ErrorRateThreshold(t *testing.T) {
	t.Parallel()
	usage := NewMemoryUsageTracker()
	ctx := context.Background()
	for range 6 {
		usage.RecordFailure(ctx, ProviderCohere)
	}
	r := NewRouter([]Provider{&fakeProvider{name: ProviderCohere}, &fakeProvider{name: ProviderMistral}}, usage, nil, nil)
	ranked, err := r.Rank(ctx, StrategyFast)
	require.NoError(t, err)
	assert.Equal(t, []string{ProviderMistral}, ranked)
}

func TestUsageTrackers(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	trackers := map[string]UsageTracker{
		"memory": NewMemoryUsageTracker(),
		"redis":  NewRedisUsageTracker(rdb, nil),
	}
	for name, tr := range trackers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s, err := tr.Stats(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, int64(defaultLatencyMS), s.AvgLatencyMS)
			assert.Equal(t, StatusOnline, s.Status)

			tr.RecordSuccess(ctx, "p", 1000*time.Millisecond, Usage{PromptTokens: 10, CompletionTokens: 5})
			tr.RecordSuccess(ctx, "p", 1000*time.Millisecond, Usage{PromptTokens: 10, CompletionTokens: 5})
			tr.RecordSuccess(ctx, "p", 1000*time.Millisecond, Usage{PromptTokens: 10, CompletionTokens: 5})
			tr.RecordFailure(ctx, "p")

			s, err = tr.Stats(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, int64(3), s.Successes)
			assert.Equal(t, int64(1), s.Failures)
			assert.Equal(t, int64(30), s.InputTokens)
			assert.Equal(t, int64(15), s.OutputTokens)
			assert.InDelta(t, 0.25, s.ErrorRate, 1e-9)
			assert.Equal(t, StatusDegraded, s.Status)
			assert.Less(t, s.AvgLatencyMS, int64(defaultLatencyMS))

			tr.RecordHealth(ctx, "p", false)
			s, err = tr.Stats(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, StatusOffline, s.Status)
		})
	}
}

type fakeCompleter struct {
	content string
	err     error
	pref    string
}

func (f *fakeCompleter) Complete(_ context.Context, _ Request, preference string) (*Completion, string, error) {
	f.pref = preference
	if f.err != nil {
		return nil, "", f.err
	}
	return &Completion{Content: f.content}, ProviderOpenAI, nil
}

func TestEnhancedAnalyzer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fenced := "Here you go:\n```json\n{\"intent\":\"persuasive\",\"complexity\":\"complex\",\"domain\":\"business\",\"clarity\":7.5,\"specificity\":6,\"effectiveness\":8,\"issues\":[\"no audience\"],\"suggestions\":[\"name the audience\",],}\n```"
	fc := &fakeCompleter{content: fenced}
	e, provider, err := NewEnhancedAnalyzer(fc, time.Second, nil).Analyze(ctx, "Sell my product", nil, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, provider)
	assert.Equal(t, "persuasive", e.Intent)
	assert.Equal(t, 7.5, e.Clarity)
	assert.Equal(t, []string{"name the audience"}, e.Suggestions)
	assert.Equal(t, StrategyDefault, fc.pref)

	_, _, err = NewEnhancedAnalyzer(&fakeCompleter{content: "I cannot help"}, time.Second, nil).Analyze(ctx, "x", nil, "fast")
	assert.True(t, IsProviderUnavailable(err))

	_, _, err = NewEnhancedAnalyzer(&fakeCompleter{err: ErrNoProvider}, time.Second, nil).Analyze(ctx, "x", nil, "")
	assert.ErrorIs(t, err, ErrNoProvider)

	var nilAnalyzer *EnhancedAnalyzer
	_, _, err = nilAnalyzer.Analyze(ctx, "x", nil, "")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestStrategyFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prompt string
		a      *analysis.PromptAnalysis
		want   string
	}{
		{"x", nil, StrategyDefault},
		{"x", &analysis.PromptAnalysis{Intent: analysis.IntentCode, Complexity: analysis.ComplexitySimple}, StrategyCoding},
		{"see ```go\nfunc f(){}\n```", &analysis.PromptAnalysis{Intent: analysis.IntentCreative}, StrategyCoding},
		{"x", &analysis.PromptAnalysis{Complexity: analysis.ComplexityExpert}, StrategyMaxQuality},
		{"x", &analysis.PromptAnalysis{Complexity: analysis.ComplexityComplex}, StrategyDefault},
		{"x", &analysis.PromptAnalysis{Complexity: analysis.ComplexityModerate}, StrategyBalanced},
		{"x", &analysis.PromptAnalysis{Complexity: analysis.ComplexitySimple}, StrategyFast},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrategyFor(tt.prompt, tt.a))
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `{"a":1}`, ExtractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":[1]}`, ExtractJSON(`prefix {"a":[1,]} suffix`))
	assert.Equal(t, "", ExtractJSON("no json"))
}
