package vectorspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stylemetry/engine/pkg/logger"
)

// CacheEntry is one cached embedding. Entries are immutable once written;
// Degraded marks vectors synthesized from a text hash while the embedding
// service was unavailable.
type CacheEntry struct {
	Vector   []float32 `json:"vector"`
	Degraded bool      `json:"degraded,omitempty"`
}

// Cache is the process-wide embedding cache, keyed by exact unit text.
// It is loaded once at startup and flushed after each encode batch. Entries
// are never evicted; unbounded growth is an accepted tradeoff. All methods
// are safe for concurrent use, with flushes serialized by the same mutex so
// concurrent encodes cannot lose updates.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]CacheEntry
}

// NewCache loads the cache from path, starting empty when the file does not
// exist yet. An empty path keeps the cache memory-only (tests, one-shot runs).
func NewCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]CacheEntry),
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read embedding cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		// A corrupt cache file is not worth failing startup over.
		logger.Warn("Embedding cache file unreadable, starting empty", "path", path, "err", err)
		c.entries = make(map[string]CacheEntry)
	}
	return c, nil
}

// Get returns the cached entry for text.
func (c *Cache) Get(text string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[text]
	return entry, ok
}

// Put stores an entry for text. Existing entries are kept as-is: cached
// vectors are immutable, and a real vector must never be replaced by a
// degraded one.
func (c *Cache) Put(text string, entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[text]; ok && !existing.Degraded {
		return
	}
	c.entries[text] = entry
}

// Flush persists the full cache to disk via an atomic rename. It is a no-op
// for memory-only caches.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" {
		return nil
	}

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write embedding cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace embedding cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
