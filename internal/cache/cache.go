// Package cache provides the short-TTL result cache used in front of the
// analysis and optimization pipeline.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used when a caller passes a zero TTL.
const DefaultTTL = 5 * time.Minute

// Cache stores serialized results by key. Get never returns an expired entry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}
