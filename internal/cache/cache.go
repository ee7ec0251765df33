// Package cache provides the document cache injected into the content
// store client. The cache is an explicit dependency scoped by the caller
// — typically one CLI invocation — rather than process-wide state, so
// eviction and testing stay under the caller's control.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a cached document stays valid.
const DefaultTTL = 5 * time.Minute

// Cache stores serialized documents by key. Implementations must be
// safe for concurrent use. Failures are swallowed: a cache that errors
// behaves like a cache that misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Delete(ctx context.Context, key string)
}

// Memory is an in-process TTL cache for cache-less deployments and tests.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	val     []byte
	expires time.Time
}

// NewMemory creates an in-memory cache. A zero ttl uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value, expiring stale entries lazily.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.val, true
}

// Set stores a value with the configured TTL.
func (m *Memory) Set(_ context.Context, key string, val []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{val: val, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
