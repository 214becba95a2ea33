package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"
)

var queryWhitespaceRe = regexp.MustCompile(`\s+`)

// normalizeQuery is the cache key function: lowercase, trimmed, collapsed
// whitespace.
func normalizeQuery(q string) string {
	return queryWhitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(q)), " ")
}

// Cache is an append-only query→coordinates store persisted as JSON beside
// the dataset. Concurrent-safe.
type Cache struct {
	path string

	mu      sync.Mutex
	entries map[string]Coordinates
}

// LoadCache reads the cache at path; a missing file yields an empty cache.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Coordinates)}
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read geocode cache: %w", err)
	}
	if err := json.Unmarshal(body, &c.entries); err != nil {
		return nil, fmt.Errorf("parse geocode cache %s: %w", path, err)
	}
	return c, nil
}

// Get looks up a query.
func (c *Cache) Get(query string) (Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coords, ok := c.entries[normalizeQuery(query)]
	return coords, ok
}

// Put records a result. Existing entries are never overwritten.
func (c *Cache) Put(query string, coords Coordinates) {
	key := normalizeQuery(query)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.entries[key] = coords
	}
}

// Save persists the cache to its path.
func (c *Cache) Save() error {
	c.mu.Lock()
	body, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode geocode cache: %w", err)
	}
	if err := os.WriteFile(c.path, append(body, '\n'), 0o644); err != nil {
		return fmt.Errorf("write geocode cache: %w", err)
	}
	return nil
}
