package render

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache memoizes artifacts across frames. Keys hash the block content
// together with the geometry and capability that produced the artifact,
// so a resize naturally misses. Reloads call Clear instead of trusting
// content hashes alone.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]Artifact

	hits   uint64
	misses uint64
}

// NewCache returns an empty artifact cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]Artifact)}
}

// Key derives a cache key from the given string and integer parts.
func Key(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// KeyInts stringifies integers for Key.
func KeyInts(vals ...int) string {
	out := ""
	for _, v := range vals {
		out += strconv.Itoa(v) + ","
	}
	return out
}

// Get returns the cached artifact for key, if present.
func (c *Cache) Get(key uint64) (Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return a, ok
}

// Put stores an artifact under key.
func (c *Cache) Put(key uint64, a Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = a
}

// Clear drops every entry. Called when a new document generation
// arrives or the terminal geometry changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]Artifact)
}

// Len returns the number of cached artifacts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
