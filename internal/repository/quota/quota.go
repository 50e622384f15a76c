// Package quota enforces per-identity admission limits and tracks usage,
// both as windowed counters in the KV store (INCRBY + EXPIRE NX).
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/searchlight-ai/searchlight/internal/domain"
)

var (
	limitKeyPrefix = domain.KeyPrefix + "ratelimit:"
	usageKeyPrefix = domain.KeyPrefix + "usage:"
)

// store is the consumer interface for quota counters (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Limiter admits requests within a fixed window per identity and keeps an
// independent usage counter. Both keys expire a window after first touch
// (EXPIRE NX, not reset on repeat).
type Limiter struct {
	store  store
	limit  int64
	window time.Duration
}

// New creates a limiter allowing limit requests per window per identity.
func New(s store, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: s, limit: limit, window: window}
}

// Allow counts the request against the identity's window and reports whether
// it is within the limit. Returns domain.ErrRateLimited on denial.
func (l *Limiter) Allow(ctx context.Context, identity string) error {
	key := limitKeyPrefix + identity

	n, err := l.store.IncrBy(ctx, key, 1)
	if err != nil {
		return fmt.Errorf("ratelimit INCRBY %s: %w", key, err)
	}
	if err := l.store.Expire(ctx, key, l.window, true); err != nil {
		return fmt.Errorf("ratelimit EXPIRE %s: %w", key, err)
	}

	if n > l.limit {
		return domain.ErrRateLimited
	}
	return nil
}

// Incr increments the identity's usage counter for the current window.
func (l *Limiter) Incr(ctx context.Context, identity string) error {
	key := usageKeyPrefix + identity

	if _, err := l.store.IncrBy(ctx, key, 1); err != nil {
		return fmt.Errorf("usage INCRBY %s: %w", key, err)
	}
	if err := l.store.Expire(ctx, key, l.window, true); err != nil {
		return fmt.Errorf("usage EXPIRE %s: %w", key, err)
	}
	return nil
}
