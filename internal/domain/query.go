package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxQueryLen is the maximum query length (in bytes) any search provider accepts.
// Longer queries are truncated before they reach an upstream index.
const MaxQueryLen = 2000

// NormalizeQuery trims surrounding whitespace. Cache keys are always built
// from the normalized form so " hello " and "hello" share an entry.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// TruncateQuery caps a query at MaxQueryLen bytes without splitting a rune.
func TruncateQuery(q string) string {
	if len(q) <= MaxQueryLen {
		return q
	}
	cut := MaxQueryLen
	for cut > 0 && !utf8.RuneStart(q[cut]) {
		cut--
	}
	return q[:cut]
}
