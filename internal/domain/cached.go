package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyPrefix namespaces every key this service writes to the store.
var KeyPrefix = "searchlight:"

var cacheKeyPrefix = KeyPrefix + "anscache:"

// CachedResult is the full materialized response for one cache key.
// It is written once, after the whole pipeline (search + answer + related)
// completed for an invocation, and is immutable thereafter. Expiry is
// delegated to the store.
type CachedResult struct {
	Webs    []TextSource  `json:"webs"`
	Images  []ImageSource `json:"images"`
	Answer  string        `json:"answer"`
	Related string        `json:"related"`
}

// CacheKey builds the deterministic composite key for a model, category and
// query. The query is normalized first, so surrounding whitespace does not
// split cache entries. Components are hashed with NUL separators to keep
// "a"+"bc" and "ab"+"c" apart.
func CacheKey(model string, category Category, query string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(NormalizeQuery(query)))
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
