package domain

import "errors"

var (
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnknownModel signals a model outside the configured allow-list.
	ErrUnknownModel = errors.New("unknown model")
	// ErrCacheMiss signals a missing answer-cache entry.
	ErrCacheMiss = errors.New("answer cache miss")
	// ErrChatProviderError signals a chat provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
