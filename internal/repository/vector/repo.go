// Package vector searches the personal vector index: the query is embedded,
// then matched via KNN against documents owned by the requesting identity.
package vector

import (
	"context"

	"go.uber.org/zap"

	"github.com/searchlight-ai/searchlight/internal/db"
	"github.com/searchlight-ai/searchlight/internal/domain"
)

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// searcher is the consumer interface for KNN search (ISP).
type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) ([]db.KNNHit, error)
}

// Repo searches the per-identity vector index.
type Repo struct {
	search searcher
	embed  Embedder
	index  string
	topK   int
	logger *zap.Logger
}

// New creates a vector search repository over the given FT index.
func New(search searcher, embed Embedder, index string, topK int, logger *zap.Logger) *Repo {
	if topK <= 0 {
		topK = 5
	}
	return &Repo{search: search, embed: embed, index: index, topK: topK, logger: logger}
}

// Search embeds the query and returns the identity's closest documents as
// text sources. Capability contract: upstream failures degrade to an empty
// result, they are logged and never raised.
func (r *Repo) Search(ctx context.Context, identity, query string) (domain.SearchResult, error) {
	query = domain.TruncateQuery(query)

	vec, err := r.embed.Embed(ctx, query)
	if err != nil {
		r.logger.Warn("vector search: embed query failed", zap.Error(err))
		return domain.SearchResult{}, nil
	}

	hits, err := r.search.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vec,
		K:            r.topK,
		Identity:     identity,
		ReturnFields: []string{"title", "url", "content", "__vector_score"},
	})
	if err != nil {
		r.logger.Warn("vector search: knn failed", zap.Error(err))
		return domain.SearchResult{}, nil
	}

	var result domain.SearchResult
	for _, hit := range hits {
		content := hit.Fields["content"]
		if content == "" {
			continue
		}
		result.Texts = append(result.Texts, domain.TextSource{
			Title:   hit.Fields["title"],
			URL:     hit.Fields["url"],
			Content: content,
		})
	}
	return result, nil
}
