package catalog

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	table   *Table
	expires time.Time
}

// MemoryCache is an in-process SessionCache used when Redis is not
// configured.  Entries older than ttl are treated as misses; a zero ttl
// keeps entries for the life of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

// Get returns the table cached for sessionID.
func (c *MemoryCache) Get(_ context.Context, sessionID string) (*Table, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[sessionID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, sessionID)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.table, true, nil
}

// Put stores t for sessionID, replacing any previous table.
func (c *MemoryCache) Put(_ context.Context, sessionID string, t *Table) error {
	e := memoryEntry{table: t}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[sessionID] = e
	c.mu.Unlock()
	return nil
}

// Delete drops the table cached for sessionID.
func (c *MemoryCache) Delete(_ context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()
	return nil
}
