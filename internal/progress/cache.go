package progress

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/XPEngine_Go/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema.
// Increment this when the cached data structure changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedProgressEntry wraps a progress record with version metadata
type cachedProgressEntry struct {
	Version  string               `json:"version"`
	Progress *domain.UserProgress `json:"progress"`
	CachedAt time.Time            `json:"cached_at"`
}

// progressCache is an in-memory LRU of user totals with time-based expiration.
// Writes never move a cached total backwards.
type progressCache struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *cachedProgressEntry]
}

// newProgressCache creates a cache holding up to size users for ttl
func newProgressCache(size int, ttl time.Duration) *progressCache {
	return &progressCache{
		lru: expirable.NewLRU[string, *cachedProgressEntry](size, nil, ttl),
	}
}

// Get returns (progress, true) if found and the schema version matches
func (c *progressCache) Get(userID string) (*domain.UserProgress, bool) {
	entry, found := c.lru.Get(userID)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		return nil, false
	}

	p := *entry.Progress
	return &p, true
}

// Set stores progress unless a higher total is already cached.
// It reports whether the entry was written.
func (c *progressCache) Set(p *domain.UserProgress) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, found := c.lru.Peek(p.UserID); found && existing.Version == CacheSchemaVersion {
		if existing.Progress.TotalXP > p.TotalXP {
			return false
		}
	}

	stored := *p
	c.lru.Add(p.UserID, &cachedProgressEntry{
		Version:  CacheSchemaVersion,
		Progress: &stored,
		CachedAt: time.Now(),
	})
	return true
}

// Invalidate removes a user from the cache
func (c *progressCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

// Clear removes all entries from the cache
func (c *progressCache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached users
func (c *progressCache) Len() int {
	return c.lru.Len()
}
