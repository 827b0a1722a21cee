// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"sync"
	"time"
)

// cacheKey identifies one ranked response.
type cacheKey struct {
	algorithm string
	username  string
	limit     int
}

// cacheEntry holds either a scored or a hybrid result, never both.
type cacheEntry struct {
	scored  []ScoredCandidate
	hybrid  []HybridCandidate
	expires time.Time
}

// responseCache is a small TTL cache for ranked recommendation lists.
// Entries are evicted lazily on read and wholesale when the entry cap is
// reached; per-user invalidation runs on every rating write, so precision
// matters more than eviction cleverness here. All methods are nil-safe so
// a disabled cache costs the engine nothing.
type responseCache struct {
	mu         sync.RWMutex
	entries    map[cacheKey]cacheEntry
	ttl        time.Duration
	maxEntries int
}

func newResponseCache(ttl time.Duration, maxEntries int) *responseCache {
	return &responseCache{
		entries:    make(map[cacheKey]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *responseCache) getScored(algorithm, username string, limit int) ([]ScoredCandidate, bool) {
	entry, ok := c.get(cacheKey{algorithm, username, limit})
	if !ok {
		return nil, false
	}
	return entry.scored, true
}

func (c *responseCache) getHybrid(username string, limit int) ([]HybridCandidate, bool) {
	entry, ok := c.get(cacheKey{AlgorithmHybrid, username, limit})
	if !ok {
		return nil, false
	}
	return entry.hybrid, true
}

func (c *responseCache) putScored(algorithm, username string, limit int, ranked []ScoredCandidate) {
	c.put(cacheKey{algorithm, username, limit}, cacheEntry{scored: ranked})
}

func (c *responseCache) putHybrid(username string, limit int, ranked []HybridCandidate) {
	c.put(cacheKey{AlgorithmHybrid, username, limit}, cacheEntry{hybrid: ranked})
}

func (c *responseCache) get(key cacheKey) (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return cacheEntry{}, false
	}

	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return cacheEntry{}, false
	}
	return entry, true
}

func (c *responseCache) put(key cacheKey, entry cacheEntry) {
	if c == nil {
		return
	}

	entry.expires = time.Now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		// Full reset beats tracking LRU order for a cache this small.
		c.entries = make(map[cacheKey]cacheEntry)
	}
	c.entries[key] = entry
}

func (c *responseCache) invalidateUser(username string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.username == username {
			delete(c.entries, key)
		}
	}
}
