package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/cache"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/metrics"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
)

const sortPrompt = "Write a Python function to sort a list of 10000 integers efficiently, handling duplicates and ensuring O(n log n) complexity, with unit tests."

type fakeEnhanced struct {
	calls   atomic.Int32
	result  analysis.Enhanced
	err     error
	release chan struct{}
}

func (f *fakeEnhanced) Analyze(ctx context.Context, _ string, _ *analysis.PromptAnalysis, _ string) (analysis.Enhanced, string, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return analysis.Enhanced{}, llm.ProviderOpenAI, f.err
	}
	return f.result, llm.ProviderOpenAI, nil
}

func newService(t *testing.T, enhanced EnhancedAnalyzer) (*PromptService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opt := optimize.New(optimize.WithClock(func() time.Time { return fixed }))
	return New(opt, cache.NewMemory(), enhanced, m, nil, Config{CacheTTL: time.Minute}), m
}

func TestOptimize_CacheRoundTrip(t *testing.T) {
	t.Parallel()
	svc, m := newService(t, nil)
	ctx := context.Background()
	req := api.OptimizeRequest{
		Prompt:  sortPrompt,
		Domain:  "technology",
		Mode:    "normal",
		Options: optimize.Options{UseChainOfThought: true, UsePersona: true, UseConstraints: true},
	}

	first, err := svc.Optimize(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Result.Metadata.Cached)

	second, err := svc.Optimize(ctx, req)
	require.NoError(t, err)
	assert.True(t, second.Result.Metadata.Cached)
	assert.Equal(t, first.Result.OptimizedPrompt, second.Result.OptimizedPrompt)
	assert.Equal(t, first.Result.AppliedTechniques, second.Result.AppliedTechniques)
	assert.Equal(t, first.Result.EstimatedImprovement, second.Result.EstimatedImprovement)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("optimize", "ok")))

	system, err := svc.Optimize(ctx, api.OptimizeRequest{Prompt: sortPrompt, Mode: "system", Options: req.Options, Domain: "technology"})
	require.NoError(t, err)
	assert.False(t, system.Result.Metadata.Cached, "mode is part of the cache key")
	assert.Equal(t, optimize.ModeSystem, system.Result.Mode)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	t.Parallel()
	svc, m := newService(t, nil)

	resp, err := svc.Analyze(context.Background(), api.AnalyzeRequest{Prompt: "  \n "})
	require.ErrorIs(t, err, analysis.ErrEmptyInput)
	require.NotNil(t, resp)
	assert.Equal(t, 10, resp.Analysis.Quality.Clarity)
	assert.NotEmpty(t, resp.Analysis.Suggestions)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("analyze", "empty")))

	res, err := svc.Optimize(context.Background(), api.OptimizeRequest{Prompt: ""})
	require.ErrorIs(t, err, analysis.ErrEmptyInput)
	assert.Equal(t, "", res.Result.OptimizedPrompt)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: "x", Tone: "furious"})
	assert.ErrorIs(t, err, analysis.ErrUnknownTone)

	_, err = svc.Optimize(ctx, api.OptimizeRequest{Prompt: "x", Mode: "poetry"})
	assert.ErrorIs(t, err, optimize.ErrUnknownMode)
}

func TestAnalyze_Enhanced(t *testing.T) {
	t.Parallel()
	fe := &fakeEnhanced{result: analysis.Enhanced{
		Intent:        "instructional",
		Complexity:    "expert",
		Clarity:       8,
		Specificity:   7,
		Effectiveness: 9,
		Suggestions:   []string{"Name the target audience."},
	}}
	svc, m := newService(t, fe)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.True(t, resp.Analysis.Enhanced)
	assert.Equal(t, llm.ProviderOpenAI, resp.Provider)
	assert.Empty(t, resp.EnhancedError)
	assert.Equal(t, analysis.IntentEducational, resp.Analysis.Intent)
	assert.Equal(t, analysis.ComplexityExpert, resp.Analysis.Complexity)
	assert.Equal(t, 80, resp.Analysis.Quality.Clarity)
	assert.Contains(t, resp.Analysis.Suggestions, "Name the target audience.")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues(llm.ProviderOpenAI, "ok")))

	again, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, int32(1), fe.calls.Load())

	basic, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt})
	require.NoError(t, err)
	assert.False(t, basic.Analysis.Enhanced)
	assert.False(t, basic.Cached)
}

func TestAnalyze_EnhancedDomainRefreshesContext(t *testing.T) {
	t.Parallel()
	fe := &fakeEnhanced{result: analysis.Enhanced{Domain: "business", Clarity: 7}}
	svc, _ := newService(t, fe)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.Equal(t, analysis.DomainBusiness, resp.Analysis.Domain)
	assert.Equal(t, analysis.AnalyzeContext(sortPrompt, analysis.DomainBusiness), resp.Analysis.Context)
	assert.Equal(t, analysis.AnalyzeTone(sortPrompt, analysis.DomainBusiness, ""), resp.Analysis.Emotion)

	// An explicit domain wins over the provider's and drives the derived fields.
	resp, err = svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Domain: "legal", Tone: "professional", Enhanced: true})
	require.NoError(t, err)
	assert.Equal(t, analysis.DomainLegal, resp.Analysis.Domain)
	assert.Equal(t, analysis.AnalyzeContext(sortPrompt, analysis.DomainLegal), resp.Analysis.Context)
	assert.Equal(t, analysis.AnalyzeTone(sortPrompt, analysis.DomainLegal, analysis.ToneProfessional), resp.Analysis.Emotion)
}

func TestAnalyze_EnhancedFallback(t *testing.T) {
	t.Parallel()
	fe := &fakeEnhanced{err: &llm.ProviderUnavailableError{Provider: llm.ProviderOpenAI, Err: errors.New("status 503")}}
	svc, m := newService(t, fe)
	ctx := context.Background()

	resp, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.False(t, resp.Analysis.Enhanced)
	assert.Contains(t, resp.EnhancedError, "unavailable")
	assert.Equal(t, analysis.DomainTechnology, resp.Analysis.Domain)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues(llm.ProviderOpenAI, "unavailable")))

	_, err = svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), fe.calls.Load(), "degraded results are not cached")

	noProvider, _ := newService(t, nil)
	resp, err = noProvider.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true})
	require.NoError(t, err)
	assert.Equal(t, llm.ErrNoProvider.Error(), resp.EnhancedError)
}

func TestOptimize_ConcurrentRequestsShareWork(t *testing.T) {
	t.Parallel()
	fe := &fakeEnhanced{result: analysis.Enhanced{Clarity: 6}, release: make(chan struct{})}
	svc, _ := newService(t, fe)
	req := api.OptimizeRequest{Prompt: sortPrompt, Enhanced: true}

	const n = 8
	var started, done sync.WaitGroup
	started.Add(n)
	done.Add(n)
	results := make([]*api.OptimizeResponse, n)
	for i := range n {
		go func() {
			defer done.Done()
			started.Done()
			res, err := svc.Optimize(context.Background(), req)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(fe.release)
	done.Wait()

	assert.Equal(t, int32(1), fe.calls.Load())
	for i, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].Result.OptimizedPrompt, r.Result.OptimizedPrompt)
		if i > 0 {
			assert.NotSame(t, results[0], r)
		}
	}

	results[0].RequestID = "req-a"
	results[1].RequestID = "req-b"
	assert.Equal(t, "req-a", results[0].RequestID)
}

func TestAnalyze_ConcurrentRequestsGetOwnResponse(t *testing.T) {
	t.Parallel()
	fe := &fakeEnhanced{result: analysis.Enhanced{Clarity: 6}, release: make(chan struct{})}
	svc, _ := newService(t, fe)
	req := api.AnalyzeRequest{Prompt: sortPrompt, Enhanced: true}

	var wg sync.WaitGroup
	results := make([]*api.AnalyzeResponse, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Analyze(context.Background(), req)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(fe.release)
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.NotSame(t, results[0], results[1])
	results[0].RequestID = "req-a"
	assert.Empty(t, results[1].RequestID)
}

func TestClearCache(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt})
	require.NoError(t, err)
	_, err = svc.Optimize(ctx, api.OptimizeRequest{Prompt: sortPrompt})
	require.NoError(t, err)

	n, err := svc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	resp, err := svc.Analyze(ctx, api.AnalyzeRequest{Prompt: sortPrompt})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
}
