// In file: internal/llm/profiler.go
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisUsageTracker keeps provider stats in one Redis hash per provider so
// every gateway replica routes on the same numbers.
type RedisUsageTracker struct {
	rdb    *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

var _ UsageTracker = (*RedisUsageTracker)(nil)

func NewRedisUsageTracker(rdb *redis.Client, logger *slog.Logger) *RedisUsageTracker {
	return &RedisUsageTracker{rdb: rdb, logger: loggerOrDefault(logger), now: time.Now}
}

func (t *RedisUsageTracker) key(provider string) string {
	return "alchemy:usage:" + provider
}

// Stats retrieves a provider's stats, creating a default record if none exists.
func (t *RedisUsageTracker) Stats(ctx context.Context, provider string) (*ProviderStats, error) {
	data, err := t.rdb.HGetAll(ctx, t.key(provider)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return t.createDefault(ctx, provider)
	}

	s := &ProviderStats{Provider: provider, Status: data["status"]}
	s.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	s.ErrorRate, _ = strconv.ParseFloat(data["error_rate"], 64)
	s.Successes, _ = strconv.ParseInt(data["successes"], 10, 64)
	s.Failures, _ = strconv.ParseInt(data["failures"], 10, 64)
	s.InputTokens, _ = strconv.ParseInt(data["input_tokens"], 10, 64)
	s.OutputTokens, _ = strconv.ParseInt(data["output_tokens"], 10, 64)
	s.LastHealthCheck, _ = time.Parse(time.RFC3339Nano, data["last_health_check"])
	return s, nil
}

func (t *RedisUsageTracker) createDefault(ctx context.Context, provider string) (*ProviderStats, error) {
	s := defaultStats(provider, t.now())
	_, err := t.rdb.HSet(ctx, t.key(provider),
		"provider", s.Provider,
		"avg_latency_ms", s.AvgLatencyMS,
		"status", s.Status,
		"error_rate", s.ErrorRate,
		"successes", s.Successes,
		"failures", s.Failures,
		"last_health_check", s.LastHealthCheck.Format(time.RFC3339Nano),
	).Result()
	if err == nil {
		t.logger.Info("created usage profile", "provider", provider)
	}
	return s, err
}

func (t *RedisUsageTracker) ensure(ctx context.Context, provider string) {
	if _, err := t.Stats(ctx, provider); err != nil {
		t.logger.Error("failed to ensure usage profile", "provider", provider, "error", err)
	}
}

func (t *RedisUsageTracker) RecordSuccess(ctx context.Context, provider string, latency time.Duration, usage Usage) {
	t.ensure(ctx, provider)
	key := t.key(provider)

	err := t.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, key, "avg_latency_ms").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", ewma(cur, latency))
			return nil
		})
		return err
	}, key)
	if err != nil {
		t.logger.Error("failed to update latency", "provider", provider, "error", err)
	}

	pipe := t.rdb.Pipeline()
	successes := pipe.HIncrBy(ctx, key, "successes", 1)
	failures := pipe.HGet(ctx, key, "failures")
	pipe.HIncrBy(ctx, key, "input_tokens", int64(usage.PromptTokens))
	pipe.HIncrBy(ctx, key, "output_tokens", int64(usage.CompletionTokens))
	pipe.HSet(ctx, key, "status", StatusOnline)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Error("success update pipeline failed", "provider", provider, "error", err)
		return
	}
	totalFailures, _ := strconv.ParseInt(failures.Val(), 10, 64)
	t.rdb.HSet(ctx, key, "error_rate", errorRate(successes.Val(), totalFailures))
}

func (t *RedisUsageTracker) RecordFailure(ctx context.Context, provider string) {
	t.ensure(ctx, provider)
	key := t.key(provider)

	pipe := t.rdb.Pipeline()
	failures := pipe.HIncrBy(ctx, key, "failures", 1)
	successes := pipe.HGet(ctx, key, "successes")
	pipe.HSet(ctx, key, "status", StatusDegraded)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Error("failure update pipeline failed", "provider", provider, "error", err)
		return
	}
	totalSuccesses, _ := strconv.ParseInt(successes.Val(), 10, 64)
	t.rdb.HSet(ctx, key, "error_rate", errorRate(totalSuccesses, failures.Val()))
}

// RecordHealth writes the result of a proactive check. The profile is created
// first so the health checker never leaves a partial hash behind.
func (t *RedisUsageTracker) RecordHealth(ctx context.Context, provider string, healthy bool) {
	t.ensure(ctx, provider)
	status := StatusOffline
	if healthy {
		status = StatusOnline
	}
	err := t.rdb.HSet(ctx, t.key(provider),
		"status", status,
		"last_health_check", t.now().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		t.logger.Error("failed to update health check", "provider", provider, "error", err)
	}
}
