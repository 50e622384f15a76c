// Package answer orchestrates the query-answering pipeline: cache lookup,
// concurrent search fan-out, streamed answer and related-questions
// generation, and best-effort cache population.
package answer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/searchlight-ai/searchlight/internal/domain"
	"github.com/searchlight-ai/searchlight/internal/metrics"
	"github.com/searchlight-ai/searchlight/internal/prompt"
)

// MaxBackfillImages caps the image-backfill result.
const MaxBackfillImages = 8

// answerFallback is emitted when the model fails mid-answer. The stream
// degrades instead of aborting.
const answerFallback = "Sorry, something went wrong while generating the answer. Please try again."

// Request carries one Answer invocation.
type Request struct {
	Query    string
	UseCache bool
	// Identity is the authenticated user, empty for anonymous requests.
	// It scopes the personal vector index and the usage counter.
	Identity string
	Mode     domain.AnswerMode
	Model    string
	Category domain.Category
}

// Service is the answer pipeline orchestrator.
type Service struct {
	web    WebSearcher
	vector VectorSearcher
	chat   ChatStreamer
	cache  ResultCache
	usage  UsageCounter
	logger *zap.Logger

	// spawn runs background work detached from the response lifecycle.
	// Tests substitute a synchronous runner.
	spawn func(fn func())
}

// New creates the orchestrator. vector may be nil when no personal index is
// configured.
func New(
	web WebSearcher, vector VectorSearcher, chat ChatStreamer,
	cache ResultCache, usage UsageCounter, logger *zap.Logger,
) *Service {
	return &Service{
		web:    web,
		vector: vector,
		chat:   chat,
		cache:  cache,
		usage:  usage,
		logger: logger,
		spawn:  func(fn func()) { go fn() },
	}
}

// Answer runs the pipeline for one request, delivering results through emit.
// All effects surface in order: sources, images, answer tokens, optional
// backfilled images, related tokens, done. Provider failures degrade; only
// an emit failure (caller gone) unwinds early, and then without the terminal
// event. The returned error is the emit failure, nil otherwise.
func (s *Service) Answer(ctx context.Context, req Request, emit EmitFunc) error {
	key := domain.CacheKey(req.Model, req.Category, req.Query)

	cacheLabel := "bypass"
	if req.UseCache {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			metrics.AnswerCacheTotal.WithLabelValues("hit").Inc()
			metrics.AskRequestsTotal.WithLabelValues(string(req.Category), "hit").Inc()
			return s.replay(ctx, req, cached, emit)
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("answer cache lookup failed", zap.Error(err))
		}
		metrics.AnswerCacheTotal.WithLabelValues("miss").Inc()
		cacheLabel = "miss"
	}
	metrics.AskRequestsTotal.WithLabelValues(string(req.Category), cacheLabel).Inc()

	texts, images := s.gatherSources(ctx, req)

	if err := emit(domain.SourcesEvent(texts)); err != nil {
		return err
	}
	if err := emit(domain.ImagesEvent(images)); err != nil {
		return err
	}

	fullAnswer, backfilled, err := s.streamAnswer(ctx, req, texts, len(images) == 0, emit)
	if err != nil {
		return err
	}
	if len(backfilled) > 0 {
		images = backfilled
		if err := emit(domain.ImagesEvent(backfilled)); err != nil {
			return err
		}
	}

	fullRelated, err := s.streamRelated(ctx, req, texts, emit)
	if err != nil {
		return err
	}

	s.finishBackground(ctx, req.Identity, key, domain.CachedResult{
		Webs:    texts,
		Images:  images,
		Answer:  fullAnswer,
		Related: fullRelated,
	})

	return emit(domain.DoneEvent())
}

// replay delivers a cached result as the same four events plus the terminal
// signal, with no upstream calls. The usage increment still happens, detached.
func (s *Service) replay(ctx context.Context, req Request, cached domain.CachedResult, emit EmitFunc) error {
	events := []domain.StreamEvent{
		domain.SourcesEvent(cached.Webs),
		domain.ImagesEvent(cached.Images),
		domain.AnswerEvent(cached.Answer),
		domain.RelatedEvent(cached.Related),
	}
	for _, ev := range events {
		if err := emit(ev); err != nil {
			return err
		}
	}

	if req.Identity != "" {
		bg := context.WithoutCancel(ctx)
		identity := req.Identity
		s.spawn(func() {
			if err := s.usage.Incr(bg, identity); err != nil {
				s.logger.Warn("usage increment failed", zap.Error(err))
			}
		})
	}

	return emit(domain.DoneEvent())
}

// gatherSources runs the search phase: a concurrent vector+web fan-out when
// an identity requests the general category, then a single fallback web
// search when no texts were gathered. Vector results precede web results so
// citation indices stay stable.
func (s *Service) gatherSources(ctx context.Context, req Request) ([]domain.TextSource, []domain.ImageSource) {
	opts := domain.SearchOptions{Categories: []domain.Category{req.Category}}

	var texts []domain.TextSource
	var images []domain.ImageSource

	if req.Identity != "" && req.Category == domain.CategoryAll && s.vector != nil {
		var vecRes, webRes domain.SearchResult

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			res, err := s.vector.Search(gctx, req.Identity, req.Query)
			if err != nil {
				s.logger.Warn("vector search failed", zap.Error(err))
				return nil
			}
			vecRes = res
			return nil
		})
		g.Go(func() error {
			res, err := s.web.Search(gctx, req.Query, opts)
			if err != nil {
				s.logger.Warn("web search failed", zap.Error(err))
				return nil
			}
			webRes = res
			return nil
		})
		_ = g.Wait() // both goroutines swallow their errors

		texts = append(append(texts, vecRes.Texts...), webRes.Texts...)
		images = append(append(images, vecRes.Images...), webRes.Images...)
	}

	if len(texts) == 0 {
		res, err := s.web.Search(ctx, req.Query, opts)
		if err != nil {
			s.logger.Warn("fallback web search failed", zap.Error(err))
		} else {
			texts = res.Texts
			images = append(images, res.Images...)
		}
	}

	return texts, images
}

// streamAnswer runs the answer stream and the image backfill concurrently.
// Only the answer goroutine emits; the backfill result is returned for the
// caller to emit after the join, preserving event order. A provider failure
// degrades to the fallback answer; an emit failure propagates.
func (s *Service) streamAnswer(
	ctx context.Context, req Request, texts []domain.TextSource,
	needImages bool, emit EmitFunc,
) (string, []domain.ImageSource, error) {
	var full strings.Builder
	var backfilled []domain.ImageSource

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		messages := buildMessages(req.Category, prompt.PurposeAnswer, texts, req.Query)
		err := s.chat.ChatStream(gctx, req.Model, messages, func(token string, _ bool) error {
			if token == "" {
				return nil
			}
			full.WriteString(token)
			return emit(domain.AnswerEvent(token))
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrChatProviderError) {
			return err // emit failure, unwind
		}
		s.logger.Warn("answer generation failed", zap.String("model", req.Model), zap.Error(err))
		full.Reset()
		full.WriteString(answerFallback)
		return emit(domain.AnswerEvent(answerFallback))
	})

	g.Go(func() error {
		if !needImages {
			return nil
		}
		res, err := s.web.Search(gctx, req.Query, domain.SearchOptions{
			Categories: []domain.Category{domain.CategoryImages},
		})
		if err != nil {
			s.logger.Warn("image backfill search failed", zap.Error(err))
			return nil
		}
		backfilled = filterSecureImages(res.Images, MaxBackfillImages)
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	return full.String(), backfilled, nil
}

// streamRelated generates the follow-up questions sequentially. A provider
// failure degrades to an empty result; an emit failure propagates.
func (s *Service) streamRelated(
	ctx context.Context, req Request, texts []domain.TextSource, emit EmitFunc,
) (string, error) {
	var full strings.Builder

	messages := buildMessages(req.Category, prompt.PurposeRelated, texts, req.Query)
	err := s.chat.ChatStream(ctx, req.Model, messages, func(token string, _ bool) error {
		if token == "" {
			return nil
		}
		full.WriteString(token)
		return emit(domain.RelatedEvent(token))
	})
	if err != nil {
		if !errors.Is(err, domain.ErrChatProviderError) {
			return "", err
		}
		s.logger.Warn("related questions generation failed", zap.String("model", req.Model), zap.Error(err))
		return "", nil
	}

	return full.String(), nil
}

// finishBackground fires the usage increment and the cache write, detached
// from the request context. Neither blocks completion; failures are logged
// and dropped.
func (s *Service) finishBackground(ctx context.Context, identity, key string, result domain.CachedResult) {
	bg := context.WithoutCancel(ctx)
	s.spawn(func() {
		if identity != "" {
			if err := s.usage.Incr(bg, identity); err != nil {
				s.logger.Warn("usage increment failed", zap.Error(err))
			}
		}
		if err := s.cache.Set(bg, key, result); err != nil {
			s.logger.Warn("answer cache write failed", zap.Error(err))
		}
	})
}

// filterSecureImages keeps images with https URLs, capped at limit.
func filterSecureImages(images []domain.ImageSource, limit int) []domain.ImageSource {
	out := make([]domain.ImageSource, 0, min(limit, len(images)))
	for _, img := range images {
		if len(out) == limit {
			break
		}
		if !strings.HasPrefix(img.ImageURL, "https://") {
			continue
		}
		out = append(out, img)
	}
	return out
}
