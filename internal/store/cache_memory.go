package store

import (
	"bytes"
	"context"
	"sync"
)

type memoryResponseCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryResponseCache returns a process-local [ResponseCache].
func NewMemoryResponseCache() ResponseCache {
	return &memoryResponseCache{entries: make(map[string][]byte)}
}

func (c *memoryResponseCache) SaveResponse(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	c.entries[key] = bytes.Clone(payload)
	c.mu.Unlock()
	return nil
}

func (c *memoryResponseCache) LoadResponse(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return bytes.Clone(payload), nil
}
