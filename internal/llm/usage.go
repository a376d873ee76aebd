// In file: internal/llm/usage.go
package llm

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Provider status values.
const (
	StatusOnline   = "online"
	StatusDegraded = "degraded"
	StatusOffline  = "offline"
)

const (
	defaultLatencyMS = 2000
	latencyAlpha     = 0.1
)

// ProviderStats tracks performance and reliability for one provider.
type ProviderStats struct {
	Provider        string    `json:"provider" redis:"provider"`
	AvgLatencyMS    int64     `json:"avg_latency_ms" redis:"avg_latency_ms"`
	Status          string    `json:"status" redis:"status"`
	ErrorRate       float64   `json:"error_rate" redis:"error_rate"`
	Successes       int64     `json:"successes" redis:"successes"`
	Failures        int64     `json:"failures" redis:"failures"`
	InputTokens     int64     `json:"input_tokens" redis:"input_tokens"`
	OutputTokens    int64     `json:"output_tokens" redis:"output_tokens"`
	LastHealthCheck time.Time `json:"last_health_check" redis:"last_health_check"`
}

// Requests is the total number of recorded calls.
func (s *ProviderStats) Requests() int64 {
	return s.Successes + s.Failures
}

func defaultStats(provider string, now time.Time) *ProviderStats {
	return &ProviderStats{
		Provider:        provider,
		AvgLatencyMS:    defaultLatencyMS,
		Status:          StatusOnline,
		LastHealthCheck: now,
	}
}

func ewma(current int64, sample time.Duration) int64 {
	return int64(latencyAlpha*float64(sample.Milliseconds()) + (1.0-latencyAlpha)*float64(current))
}

func errorRate(successes, failures int64) float64 {
	if total := successes + failures; total > 0 {
		return float64(failures) / float64(total)
	}
	return 0
}

// UsageTracker records provider outcomes for routing and reporting.
// Record* methods never fail the caller; storage errors are logged.
type UsageTracker interface {
	Stats(ctx context.Context, provider string) (*ProviderStats, error)
	RecordSuccess(ctx context.Context, provider string, latency time.Duration, usage Usage)
	RecordFailure(ctx context.Context, provider string)
	RecordHealth(ctx context.Context, provider string, healthy bool)
}

// MemoryUsageTracker is the in-process UsageTracker used without Redis.
type MemoryUsageTracker struct {
	mu    sync.Mutex
	stats map[string]*ProviderStats
	now   func() time.Time
}

var _ UsageTracker = (*MemoryUsageTracker)(nil)

func NewMemoryUsageTracker() *MemoryUsageTracker {
	return &MemoryUsageTracker{stats: make(map[string]*ProviderStats), now: time.Now}
}

func (t *MemoryUsageTracker) get(provider string) *ProviderStats {
	s, ok := t.stats[provider]
	if !ok {
		s = defaultStats(provider, t.now())
		t.stats[provider] = s
	}
	return s
}

func (t *MemoryUsageTracker) Stats(_ context.Context, provider string) (*ProviderStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := *t.get(provider)
	return &s, nil
}

func (t *MemoryUsageTracker) RecordSuccess(_ context.Context, provider string, latency time.Duration, usage Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(provider)
	s.AvgLatencyMS = ewma(s.AvgLatencyMS, latency)
	s.Successes++
	s.InputTokens += int64(usage.PromptTokens)
	s.OutputTokens += int64(usage.CompletionTokens)
	s.Status = StatusOnline
	s.ErrorRate = errorRate(s.Successes, s.Failures)
}

func (t *MemoryUsageTracker) RecordFailure(_ context.Context, provider string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(provider)
	s.Failures++
	s.Status = StatusDegraded
	s.ErrorRate = errorRate(s.Successes, s.Failures)
}

func (t *MemoryUsageTracker) RecordHealth(_ context.Context, provider string, healthy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(provider)
	s.Status = StatusOffline
	if healthy {
		s.Status = StatusOnline
	}
	s.LastHealthCheck = t.now()
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
