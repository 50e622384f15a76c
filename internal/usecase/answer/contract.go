package answer

import (
	"context"

	"github.com/searchlight-ai/searchlight/internal/domain"
)

// WebSearcher searches a web index. Implementations truncate the query and
// degrade upstream failures to an empty result.
type WebSearcher interface {
	Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResult, error)
}

// VectorSearcher searches the personal vector index scoped to an identity.
type VectorSearcher interface {
	Search(ctx context.Context, identity, query string) (domain.SearchResult, error)
}

// ChatStreamer streams model tokens through onToken: zero or more calls with
// done=false, then exactly once with done=true (token may be empty on the
// final call). An error returned by onToken aborts the stream and propagates.
type ChatStreamer interface {
	ChatStream(ctx context.Context, model string, messages []domain.Message,
		onToken func(token string, done bool) error) error
}

// ResultCache stores materialized answers. Get returns domain.ErrCacheMiss
// for absent keys.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.CachedResult, error)
	Set(ctx context.Context, key string, value domain.CachedResult) error
}

// UsageCounter tracks per-identity usage. Failures are logged, never surfaced.
type UsageCounter interface {
	Incr(ctx context.Context, identity string) error
}

// EmitFunc delivers one stream event to the caller. A non-nil return is a
// cancellation signal: the pipeline unwinds without emitting further events.
type EmitFunc func(domain.StreamEvent) error
