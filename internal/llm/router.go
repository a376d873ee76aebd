// In file: internal/llm/router.go
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// =================================================================================
// Configuration Structs
// =================================================================================

// RoutingStrategy defines the weights for scoring providers under a preference.
type RoutingStrategy struct {
	UseCodingScore    bool    `yaml:"use_coding_score"`
	QualityWeight     float64 `yaml:"quality_weight"`
	LatencyWeight     float64 `yaml:"latency_weight"`
	ReliabilityWeight float64 `yaml:"reliability_weight"`
}

// ProviderMetadata holds static, configured information about a provider.
// Scores are on a 0-10 scale.
type ProviderMetadata struct {
	Model        string  `yaml:"model"`
	QualityScore float64 `yaml:"quality_score"`
	CodingScore  float64 `yaml:"coding_score"`
}

// Thresholds are the pre-checks a provider must pass to be considered. A zero
// HealthCheckStaleness disables the staleness check.
type Thresholds struct {
	HealthCheckStaleness time.Duration `yaml:"health_check_staleness"`
	MaxErrorRate         float64       `yaml:"max_error_rate"`
	MinRequestCount      int64         `yaml:"min_request_count"`
}

// RouterConfig holds the complete configuration for the router.
type RouterConfig struct {
	Thresholds Thresholds                  `yaml:"pre_check_thresholds"`
	Providers  map[string]ProviderMetadata `yaml:"providers"`
	Strategies map[string]RoutingStrategy  `yaml:"strategies"`
}

// Strategy names.
const (
	StrategyDefault    = "default"
	StrategyFast       = "fast"
	StrategyBalanced   = "balanced"
	StrategyMaxQuality = "max_quality"
	StrategyCoding     = "best-for-coding"
)

// DefaultRouterConfig is used when config.yaml has no router section.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Thresholds: Thresholds{
			MaxErrorRate:    0.5,
			MinRequestCount: 5,
		},
		Providers: map[string]ProviderMetadata{
			ProviderOpenAI:    {QualityScore: 9, CodingScore: 9},
			ProviderAnthropic: {QualityScore: 9, CodingScore: 9},
			ProviderGemini:    {QualityScore: 8, CodingScore: 8},
			ProviderMistral:   {QualityScore: 7, CodingScore: 7},
			ProviderCohere:    {QualityScore: 7, CodingScore: 6},
		},
		Strategies: map[string]RoutingStrategy{
			StrategyDefault:    {QualityWeight: 0.5, LatencyWeight: 0.3, ReliabilityWeight: 0.2},
			StrategyFast:       {QualityWeight: 0.2, LatencyWeight: 0.7, ReliabilityWeight: 0.1},
			StrategyBalanced:   {QualityWeight: 0.4, LatencyWeight: 0.4, ReliabilityWeight: 0.2},
			StrategyMaxQuality: {QualityWeight: 0.8, LatencyWeight: 0.1, ReliabilityWeight: 0.1},
			StrategyCoding:     {UseCodingScore: true, QualityWeight: 0.7, LatencyWeight: 0.2, ReliabilityWeight: 0.1},
		},
	}
}

// =================================================================================
// Router Service
// =================================================================================

// Router selects the best provider for a request and falls through to the
// next one when a call fails.
type Router struct {
	providers map[string]Provider
	usage     UsageTracker
	config    *RouterConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewRouter creates a configured router. A nil config uses DefaultRouterConfig
// and a nil tracker keeps stats in memory.
func NewRouter(providers []Provider, usage UsageTracker, config *RouterConfig, logger *slog.Logger) *Router {
	if config == nil {
		config = DefaultRouterConfig()
	}
	if usage == nil {
		usage = NewMemoryUsageTracker()
	}
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Router{
		providers: byName,
		usage:     usage,
		config:    config,
		logger:    loggerOrDefault(logger),
		now:       time.Now,
	}
}

// Providers lists the configured provider ids in sorted order.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage exposes the tracker for reporting.
func (r *Router) Usage() UsageTracker {
	return r.usage
}

// contender holds the stats and metadata for a provider that passed pre-checks.
type contender struct {
	name     string
	stats    *ProviderStats
	metadata ProviderMetadata
	score    float64
}

// Rank returns the providers that pass pre-checks, best first.
func (r *Router) Rank(ctx context.Context, preference string) ([]string, error) {
	var contenders []contender
	for _, name := range r.Providers() {
		stats, err := r.usage.Stats(ctx, name)
		if err != nil {
			r.logger.Warn("could not get usage stats, skipping provider", "provider", name, "error", err)
			continue
		}
		if ok, reason := r.passesPreChecks(stats); !ok {
			r.logger.Debug("filtering provider", "provider", name, "reason", reason)
			continue
		}
		meta, ok := r.config.Providers[name]
		if !ok {
			meta = ProviderMetadata{QualityScore: 5, CodingScore: 5}
		}
		contenders = append(contenders, contender{name: name, stats: stats, metadata: meta})
	}
	if len(contenders) == 0 {
		return nil, ErrNoProvider
	}

	strategy := r.strategy(preference)
	minLatency, maxLatency := latencyBounds(contenders)
	for i := range contenders {
		contenders[i].score = calculateNormalizedScore(contenders[i], strategy, minLatency, maxLatency)
	}
	sort.SliceStable(contenders, func(i, j int) bool {
		return contenders[i].score > contenders[j].score
	})

	ranked := make([]string, len(contenders))
	for i, c := range contenders {
		ranked[i] = c.name
	}
	return ranked, nil
}

// Complete routes req to the best provider, falling back down the ranking.
// It returns the provider that answered.
func (r *Router) Complete(ctx context.Context, req Request, preference string) (*Completion, string, error) {
	ranked, err := r.Rank(ctx, preference)
	if err != nil {
		return nil, "", err
	}

	var lastErr error
	for _, name := range ranked {
		start := r.now()
		out, err := r.providers[name].Complete(ctx, req)
		if err != nil {
			r.usage.RecordFailure(ctx, name)
			r.logger.Warn("provider call failed, trying next", "provider", name, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		r.usage.RecordSuccess(ctx, name, r.now().Sub(start), out.Usage)
		return out, name, nil
	}
	return nil, "", fmt.Errorf("%w: %w", ErrNoProvider, lastErr)
}

// CheckHealth sends a minimal request to every provider and records the result.
func (r *Router) CheckHealth(ctx context.Context, timeout time.Duration) map[string]bool {
	results := make(map[string]bool, len(r.providers))
	for _, name := range r.Providers() {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		_, err := r.providers[name].Complete(callCtx, Request{Prompt: "Reply with OK.", MaxTokens: 5})
		cancel()
		healthy := err == nil
		r.usage.RecordHealth(ctx, name, healthy)
		results[name] = healthy
		r.logger.Info("health check", "provider", name, "healthy", healthy)
	}
	return results
}

// strategy retrieves the weights for preference, falling back to default.
func (r *Router) strategy(preference string) RoutingStrategy {
	if s, ok := r.config.Strategies[preference]; ok {
		return s
	}
	if s, ok := r.config.Strategies[StrategyDefault]; ok {
		return s
	}
	return DefaultRouterConfig().Strategies[StrategyDefault]
}

// calculateNormalizedScore scores a contender with linear latency
// normalization. Reliability multiplies the weighted sum.
func calculateNormalizedScore(c contender, strategy RoutingStrategy, minLatency, maxLatency float64) float64 {
	latencyFactor := 0.5
	if maxLatency > minLatency {
		latencyFactor = (maxLatency - float64(c.stats.AvgLatencyMS)) / (maxLatency - minLatency)
	}

	qualityFactor := c.metadata.QualityScore / 10.0
	if strategy.UseCodingScore {
		qualityFactor = c.metadata.CodingScore / 10.0
	}

	reliabilityFactor := 1.0 - c.stats.ErrorRate

	return (strategy.QualityWeight*qualityFactor +
		strategy.LatencyWeight*latencyFactor +
		strategy.ReliabilityWeight*reliabilityFactor) * reliabilityFactor
}

func latencyBounds(contenders []contender) (minLatency, maxLatency float64) {
	minLatency = math.MaxFloat64
	for _, c := range contenders {
		l := float64(c.stats.AvgLatencyMS)
		minLatency = math.Min(minLatency, l)
		maxLatency = math.Max(maxLatency, l)
	}
	return
}

// passesPreChecks evaluates a provider against health and reliability thresholds.
func (r *Router) passesPreChecks(s *ProviderStats) (bool, string) {
	th := r.config.Thresholds
	if s.Status == StatusOffline {
		return false, "provider is marked as offline"
	}
	if th.HealthCheckStaleness > 0 && r.now().Sub(s.LastHealthCheck) > th.HealthCheckStaleness {
		return false, fmt.Sprintf("health check is stale (last check > %s ago)", th.HealthCheckStaleness)
	}
	if s.Requests() > th.MinRequestCount && th.MaxErrorRate > 0 && s.ErrorRate > th.MaxErrorRate {
		return false, fmt.Sprintf("error rate is too high (%.2f%% > %.2f%%)", s.ErrorRate*100, th.MaxErrorRate*100)
	}
	return true, ""
}
