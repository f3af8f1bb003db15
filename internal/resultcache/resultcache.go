// Package resultcache caches ranked search results per session. An entry is
// valid only while its age is under the configured TTL and the session's
// registry size is unchanged; both conditions are checked lazily on read,
// never swept proactively.
package resultcache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/domlocate/domlocate/internal/types"
)

// entry holds one ranked result list with its validity guards.
type entry struct {
	matches      []types.ElementMatch
	storedAt     time.Time
	registrySize int
}

// Cache is a thread-safe result cache keyed by session and hashed
// description.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]map[uint64]entry

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty result cache.
func New() *Cache {
	return &Cache{sessions: make(map[string]map[uint64]entry)}
}

// Key hashes a normalized description into a compact cache key.
func Key(normalizedDescription string) uint64 {
	return xxhash.Sum64String(normalizedDescription)
}

// Get returns the cached matches for (session, key) when the entry is still
// valid: younger than ttl and stored at the same registry size. Invalid
// entries are removed on the spot. The returned slice is a copy.
func (c *Cache) Get(session string, key uint64, ttl time.Duration, registrySize int, now time.Time) ([]types.ElementMatch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byKey, ok := c.sessions[session]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	e, ok := byKey[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if now.Sub(e.storedAt) >= ttl || e.registrySize != registrySize {
		delete(byKey, key)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	out := make([]types.ElementMatch, len(e.matches))
	copy(out, e.matches)
	return out, true
}

// Put stores a ranked result list for (session, key). The slice is copied so
// later reads cannot observe caller mutation.
func (c *Cache) Put(session string, key uint64, matches []types.ElementMatch, registrySize int, now time.Time) {
	stored := make([]types.ElementMatch, len(matches))
	copy(stored, matches)

	c.mu.Lock()
	defer c.mu.Unlock()
	byKey, ok := c.sessions[session]
	if !ok {
		byKey = make(map[uint64]entry)
		c.sessions[session] = byKey
	}
	byKey[key] = entry{matches: stored, storedAt: now, registrySize: registrySize}
}

// InvalidateSession drops every cached result for one session.
func (c *Cache) InvalidateSession(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, session)
}

// Clear drops every cached result.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = make(map[string]map[uint64]entry)
}

// Hits returns the number of valid cache reads since creation.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Misses returns the number of cache reads that found no valid entry.
func (c *Cache) Misses() int64 { return c.misses.Load() }
