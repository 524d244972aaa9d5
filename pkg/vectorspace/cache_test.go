package vectorspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := NewCache(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	c.Put("机器学习", CacheEntry{Vector: []float32{0.1, 0.2}})
	c.Put("伦理", CacheEntry{Vector: []float32{0.3, 0.4}, Degraded: true})
	if err := c.Flush(); err != nil {
		t.Fatalf("expected flush to succeed, got %v", err)
	}

	reloaded, err := NewCache(path)
	if err != nil {
		t.Fatalf("expected nil error on reload, got %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}
	entry, ok := reloaded.Get("伦理")
	if !ok || !entry.Degraded {
		t.Fatalf("expected degraded entry to survive reload, got %+v ok=%v", entry, ok)
	}
}

func TestCache_PutNeverReplacesRealVector(t *testing.T) {
	c, err := NewCache("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	c.Put("a", CacheEntry{Vector: []float32{1}})
	c.Put("a", CacheEntry{Vector: []float32{9}, Degraded: true})

	entry, _ := c.Get("a")
	if entry.Degraded || entry.Vector[0] != 1 {
		t.Fatalf("expected original real vector to be kept, got %+v", entry)
	}
}

func TestCache_PutUpgradesDegradedVector(t *testing.T) {
	c, err := NewCache("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	c.Put("a", CacheEntry{Vector: []float32{9}, Degraded: true})
	c.Put("a", CacheEntry{Vector: []float32{1}})

	entry, _ := c.Get("a")
	if entry.Degraded || entry.Vector[0] != 1 {
		t.Fatalf("expected degraded vector to be upgraded, got %+v", entry)
	}
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	c, err := NewCache(path)
	if err != nil {
		t.Fatalf("expected corrupt cache to start empty, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCache_MemoryOnlyFlushIsNoop(t *testing.T) {
	c, err := NewCache("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	c.Put("a", CacheEntry{Vector: []float32{1}})
	if err := c.Flush(); err != nil {
		t.Fatalf("expected noop flush, got %v", err)
	}
}
