package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	KVStore
	VectorSearcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations. The answer cache uses
// Get/SetWithTTL, the quota counters use IncrBy/Expire.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// KNNQuery describes a vector similarity search over the personal index.
type KNNQuery struct {
	IndexName string
	Vector    []float32
	K         int
	// Identity restricts hits to documents tagged with this owner.
	Identity     string
	ReturnFields []string
}

// KNNHit is one scored document returned by a KNN search.
type KNNHit struct {
	Key string
	// Score is cosine similarity in [0,1], higher is closer.
	Score  float64
	Fields map[string]string
}

// VectorSearcher provides KNN search over an FT index.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) ([]KNNHit, error)
}
