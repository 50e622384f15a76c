// Package anscache stores materialized answers in a key-value store.
package anscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/searchlight-ai/searchlight/internal/db"
	"github.com/searchlight-ai/searchlight/internal/domain"
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache implements the answer ResultCache on top of the KV store.
// Entries are JSON documents stored under domain.CacheKey with a fixed TTL;
// last write wins on concurrent identical requests.
type Cache struct {
	store store
	ttl   time.Duration
}

// New creates an answer cache with the given entry TTL.
func New(s store, ttl time.Duration) *Cache {
	return &Cache{store: s, ttl: ttl}
}

// Get returns the cached result for the key.
// Returns domain.ErrCacheMiss when no entry exists.
func (c *Cache) Get(ctx context.Context, key string) (domain.CachedResult, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.CachedResult{}, domain.ErrCacheMiss
		}
		return domain.CachedResult{}, fmt.Errorf("cache GET %s: %w", key, err)
	}

	var result domain.CachedResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry behaves like a miss; the pipeline overwrites it.
		return domain.CachedResult{}, domain.ErrCacheMiss
	}
	return result, nil
}

// Set stores the result under the key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value domain.CachedResult) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("cache SET %s: %w", key, err)
	}
	return nil
}
