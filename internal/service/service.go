// Package service wires the analysis and optimization pipeline to the result
// cache, the enhanced-analysis providers and metrics. It is the single entry
// point used by the HTTP gateway, the CLI and the MCP server.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/analysis"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/api"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/cache"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/llm"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/metrics"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/optimize"
	"github.com/Kedhareswer/platform-prompt-alchemy-lab-sub000/internal/version"
)

const (
	analyzeKeyPrefix  = "alchemy:analyze"
	optimizeKeyPrefix = "alchemy:optimize"
)

// EnhancedAnalyzer produces a provider analysis for a prompt. *llm.EnhancedAnalyzer
// implements it.
type EnhancedAnalyzer interface {
	Analyze(ctx context.Context, prompt string, base *analysis.PromptAnalysis, preference string) (analysis.Enhanced, string, error)
}

// Config tunes the service.
type Config struct {
	CacheTTL time.Duration
}

// PromptService is safe for concurrent use.
type PromptService struct {
	optimizer *optimize.Optimizer
	cache     cache.Cache
	enhanced  EnhancedAnalyzer
	metrics   *metrics.Metrics
	logger    *slog.Logger
	ttl       time.Duration
	group     singleflight.Group
}

// New builds the service. enhanced may be nil, in which case enhanced requests
// degrade to the basic analysis. A nil cache disables caching.
func New(opt *optimize.Optimizer, c cache.Cache, enhanced EnhancedAnalyzer, m *metrics.Metrics, logger *slog.Logger, cfg Config) *PromptService {
	if opt == nil {
		opt = optimize.New()
	}
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	return &PromptService{
		optimizer: opt,
		cache:     c,
		enhanced:  enhanced,
		metrics:   m,
		logger:    logger,
		ttl:       cfg.CacheTTL,
	}
}

// Optimizer exposes the underlying optimizer for platform listings.
func (s *PromptService) Optimizer() *optimize.Optimizer {
	return s.optimizer
}

// Analyze returns the analysis for req, served from cache when possible.
// Empty input returns the placeholder analysis with analysis.ErrEmptyInput.
func (s *PromptService) Analyze(ctx context.Context, req api.AnalyzeRequest) (*api.AnalyzeResponse, error) {
	start := time.Now()
	defer func() { s.metrics.Duration.WithLabelValues("analyze").Observe(time.Since(start).Seconds()) }()

	tone, err := parseTone(req.Tone)
	if err != nil {
		s.metrics.Requests.WithLabelValues("analyze", "invalid").Inc()
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.metrics.Requests.WithLabelValues("analyze", "empty").Inc()
		return &api.AnalyzeResponse{Analysis: analysis.Placeholder(req.Domain)}, analysis.ErrEmptyInput
	}

	key, err := version.GenerateVersionedCacheKey(analyzeKeyPrefix, "analysis", req.Prompt, struct {
		Domain, Strategy string
		Tone             analysis.Tone
		Enhanced         bool
	}{req.Domain, req.Strategy, tone, req.Enhanced})
	if err != nil {
		return nil, err
	}

	var resp api.AnalyzeResponse
	if s.lookup(ctx, key, &resp) {
		resp.Cached = true
		s.metrics.Requests.WithLabelValues("analyze", "ok").Inc()
		return &resp, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		a, provider, enhErr, err := s.analyze(ctx, req.Prompt, req.Domain, tone, req.Enhanced, req.Strategy)
		if err != nil {
			return nil, err
		}
		out := &api.AnalyzeResponse{Analysis: a, Provider: provider, EnhancedError: enhErr}
		if enhErr == "" {
			s.store(ctx, key, out)
		}
		return out, nil
	})
	if err != nil {
		s.metrics.Requests.WithLabelValues("analyze", "error").Inc()
		return nil, err
	}
	if shared {
		s.logger.Debug("analysis shared with concurrent request", "key", key)
	}
	s.metrics.Requests.WithLabelValues("analyze", "ok").Inc()
	// Callers stamp their own request id, so each gets its own envelope.
	out := *v.(*api.AnalyzeResponse)
	return &out, nil
}

// Optimize returns the optimized prompt for req, served from cache when
// possible. Empty input echoes the prompt with analysis.ErrEmptyInput.
func (s *PromptService) Optimize(ctx context.Context, req api.OptimizeRequest) (*api.OptimizeResponse, error) {
	start := time.Now()
	defer func() { s.metrics.Duration.WithLabelValues("optimize").Observe(time.Since(start).Seconds()) }()

	mode, err := optimize.ParseMode(req.Mode)
	if err != nil {
		s.metrics.Requests.WithLabelValues("optimize", "invalid").Inc()
		return nil, err
	}
	tone, err := parseTone(string(req.Options.Tone))
	if err != nil {
		s.metrics.Requests.WithLabelValues("optimize", "invalid").Inc()
		return nil, err
	}
	req.Options.Tone = tone
	if strings.TrimSpace(req.Prompt) == "" {
		s.metrics.Requests.WithLabelValues("optimize", "empty").Inc()
		res, err := s.optimizer.Optimize(req.Prompt, req.Domain, req.Options, mode)
		return &api.OptimizeResponse{Result: res}, err
	}

	key, err := version.GenerateVersionedCacheKey(optimizeKeyPrefix, string(mode), req.Prompt, struct {
		Domain, Strategy string
		Options          optimize.Options
		Enhanced         bool
	}{req.Domain, req.Strategy, req.Options, req.Enhanced})
	if err != nil {
		return nil, err
	}

	var resp api.OptimizeResponse
	if s.lookup(ctx, key, &resp) && resp.Result != nil {
		resp.Result.Metadata.Cached = true
		s.metrics.Requests.WithLabelValues("optimize", "ok").Inc()
		return &resp, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		a, provider, enhErr, err := s.analyze(ctx, req.Prompt, req.Domain, req.Options.Tone, req.Enhanced, req.Strategy)
		if err != nil {
			return nil, err
		}
		res := s.optimizer.OptimizeAnalysis(req.Prompt, a, req.Options, mode)
		s.metrics.Improvement.Observe(float64(res.EstimatedImprovement))
		out := &api.OptimizeResponse{Result: res, Provider: provider, EnhancedError: enhErr}
		if enhErr == "" {
			s.store(ctx, key, out)
		}
		return out, nil
	})
	if err != nil {
		s.metrics.Requests.WithLabelValues("optimize", "error").Inc()
		return nil, err
	}
	s.metrics.Requests.WithLabelValues("optimize", "ok").Inc()
	out := *v.(*api.OptimizeResponse)
	return &out, nil
}

// ClearCache drops every cached result.
func (s *PromptService) ClearCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("result cache cleared", "removed", n)
	return n, nil
}

// analyze runs the basic analysis and, when asked, merges the provider's
// analysis on top. A provider failure is never fatal: its message is returned
// as enhErr and the basic analysis is used.
func (s *PromptService) analyze(ctx context.Context, prompt, domain string, tone analysis.Tone, enhanced bool, strategy string) (a *analysis.PromptAnalysis, provider, enhErr string, err error) {
	a, err = analysis.AnalyzeWithTone(prompt, domain, tone)
	if err != nil {
		return nil, "", "", err
	}

	if enhanced {
		a, provider, enhErr = s.enhance(ctx, prompt, a, strategy)
		if domain != "" {
			a.Domain = analysis.NormalizeDomain(domain)
		}
		if a.Enhanced {
			analysis.Refresh(a, prompt, tone)
		}
	}
	optimize.Recommend(a)
	return a, provider, enhErr, nil
}

func (s *PromptService) enhance(ctx context.Context, prompt string, base *analysis.PromptAnalysis, strategy string) (*analysis.PromptAnalysis, string, string) {
	if s.enhanced == nil {
		s.metrics.ProviderCalls.WithLabelValues("none", "unavailable").Inc()
		return base, "", llm.ErrNoProvider.Error()
	}
	e, provider, err := s.enhanced.Analyze(ctx, prompt, base, strategy)
	if err != nil {
		label := provider
		if label == "" {
			label = "none"
		}
		s.metrics.ProviderCalls.WithLabelValues(label, "unavailable").Inc()
		if !llm.IsProviderUnavailable(err) && !errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("enhanced analysis failed unexpectedly", "error", err)
		} else {
			s.logger.Warn("enhanced analysis unavailable, using basic analysis", "provider", provider, "error", err)
		}
		return base, provider, err.Error()
	}
	s.metrics.ProviderCalls.WithLabelValues(provider, "ok").Inc()
	return analysis.Merge(base, e), provider, ""
}

// parseTone accepts an empty tone, meaning "use the detected one".
func parseTone(s string) (analysis.Tone, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, ok := analysis.ParseTone(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", analysis.ErrUnknownTone, s)
	}
	return t, nil
}

// lookup reads key into dst. Cache errors count as misses.
func (s *PromptService) lookup(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("cache lookup failed, treating as miss", "error", err)
		return false
	}
	if !ok {
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
		s.logger.Debug("cache MISS", "key", key)
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		s.metrics.CacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("corrupt cache entry, treating as miss", "key", key, "error", err)
		return false
	}
	s.metrics.CacheLookups.WithLabelValues("hit").Inc()
	s.logger.Debug("cache HIT", "key", key)
	return true
}

func (s *PromptService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode result for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
		s.logger.Warn("failed to write result cache", "error", err)
	}
}
