// Package cache provides the query result cache: a TTL-bounded
// memoization of list query results keyed by the exact query
// parameters, with O(1) bulk invalidation.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// DefaultTTL bounds the lifetime of a cache entry when the caller does
// not configure one.
const DefaultTTL = 300 * time.Second

// Key identifies one cached result page: the owner plus the exact
// query parameters. Empty filter strings mean "no filter". Key is
// comparable, so it can be used directly as a map key.
type Key struct {
	OwnerID  uuid.UUID
	Page     int
	Limit    int
	Status   domain.Status
	Priority domain.Priority
}

// Result is the computed page stored under a Key.
type Result struct {
	Tasks      []*domain.Task `json:"tasks"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	TotalTasks int            `json:"totalTasks"`
}

type entry struct {
	result     Result
	generation uint64
	expiresAt  time.Time
}

// ResultCache memoizes list query results. Entries expire after the
// configured TTL or when InvalidateAll bumps the cache generation,
// whichever comes first. Invalidation is a single atomic increment:
// entries stamped with an older generation are treated as misses and
// lazily overwritten, so no key enumeration is ever needed.
//
// ResultCache is safe for concurrent use.
type ResultCache struct {
	mu         sync.RWMutex
	entries    map[Key]entry
	generation atomic.Uint64
	ttl        time.Duration
	timeFunc   func() time.Time // injectable for tests
}

// New creates a ResultCache with the given TTL. A non-positive TTL
// falls back to DefaultTTL.
func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		entries:  make(map[Key]entry),
		ttl:      ttl,
		timeFunc: time.Now,
	}
}

// Get returns the cached result for the key. The boolean is false when
// no entry exists, the entry has expired, or the cache has been
// invalidated since the entry was stored.
func (c *ResultCache) Get(key Key) (Result, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Result{}, false
	}
	if e.generation != c.generation.Load() {
		return Result{}, false
	}
	if c.timeFunc().After(e.expiresAt) {
		return Result{}, false
	}
	return e.result, true
}

// Generation returns the current cache generation. Callers populating
// the cache must read it before taking the store snapshot the result
// is computed from; see Set.
func (c *ResultCache) Generation() uint64 {
	return c.generation.Load()
}

// Set stores the result under the key, stamped with the given
// generation and the cache TTL. The generation must be the value
// Generation returned before the underlying data was read: if a
// mutation invalidated the cache between that observation and this
// Set, the entry is stamped stale and will never be served. A result
// computed from a pre-mutation snapshot therefore cannot outlive the
// mutation.
func (c *ResultCache) Set(key Key, result Result, generation uint64) {
	e := entry{
		result:     result,
		generation: generation,
		expiresAt:  c.timeFunc().Add(c.ttl),
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// InvalidateAll discards every cached entry in O(1) by advancing the
// cache generation. Stale map entries are overwritten on subsequent
// Sets; Purge reclaims them eagerly if needed.
func (c *ResultCache) InvalidateAll() {
	c.generation.Add(1)
}

// Purge drops all stored entries, reclaiming memory. Functionally
// equivalent to InvalidateAll but O(n).
func (c *ResultCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[Key]entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including ones that are
// expired or invalidated but not yet overwritten.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
