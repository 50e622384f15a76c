package domain

import (
	"strings"
	"testing"
)

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey("gpt-4o", CategoryNews, "hello")
	b := CacheKey("gpt-4o", CategoryNews, "hello")
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, KeyPrefix) {
		t.Errorf("key %q missing namespace prefix", a)
	}
}

func TestCacheKey_NormalizesQuery(t *testing.T) {
	if CacheKey("m", CategoryAll, "hello") != CacheKey("m", CategoryAll, "  hello  ") {
		t.Error("surrounding whitespace must not split cache entries")
	}
}

func TestCacheKey_ComponentsAreSeparated(t *testing.T) {
	keys := map[string]string{
		"model":    CacheKey("other", CategoryNews, "hello"),
		"category": CacheKey("gpt-4o", CategoryAcademic, "hello"),
		"query":    CacheKey("gpt-4o", CategoryNews, "other"),
		// boundary shifts between adjacent components must not collide
		"shift": CacheKey("gpt-4on", Category("ews"), "hello"),
	}
	base := CacheKey("gpt-4o", CategoryNews, "hello")
	for name, k := range keys {
		if k == base {
			t.Errorf("varying %s did not change the key", name)
		}
	}
}
