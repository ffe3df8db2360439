package embedding

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// EmbeddingCache is a concurrency-safe LRU of embeddings keyed by text.
// A capacity <= 0 disables caching.
type EmbeddingCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewEmbeddingCache creates a cache holding at most capacity embeddings.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	c := &EmbeddingCache{}
	if capacity > 0 {
		c.lru = lru.New(capacity)
	}
	return c
}

// Get returns the cached embedding for text and marks it most recently used.
func (c *EmbeddingCache) Get(text string) ([]float32, bool) {
	if c.lru == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(text)
	if !ok {
		return nil, false
	}
	return v.([]float32), true
}

// Set stores the embedding for text, evicting the least recently used entry when full.
func (c *EmbeddingCache) Set(text string, embedding []float32) {
	if c.lru == nil {
		return
	}
	c.mu.Lock()
	c.lru.Add(text, embedding)
	c.mu.Unlock()
}

// Len returns the number of cached embeddings.
func (c *EmbeddingCache) Len() int {
	if c.lru == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
