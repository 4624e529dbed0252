package soago

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/soago/value"
)

// cacheEntry memoizes one derived column together with the version
// snapshot of its dependencies at computation time. A stored dependency
// contributes its real counter; a derived dependency contributes a fixed
// placeholder, because derived fields carry no counter of their own —
// staleness across nested derived chains is handled by the invalidation
// cascade in Set/Apply, not by this snapshot.
type cacheEntry struct {
	value    value.Value
	versions []uint64
}

// derivedCache is the per-Bulk memoization cache for derived fields.
//
// It is the one piece of interior mutability on an otherwise-immutable
// Bulk. Reads and writes are serialized behind an RWMutex; the (pure)
// recomputation itself runs outside the lock, deduplicated per field by a
// singleflight group so concurrent Gets against one snapshot compute once.
type derivedCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group

	hits     atomic.Int64
	misses   atomic.Int64
	computes atomic.Int64
}

// CacheStats reports derived-cache effectiveness for one Bulk snapshot.
type CacheStats struct {
	Hits     int64
	Misses   int64
	Computes int64
}

func newDerivedCache() *derivedCache {
	return &derivedCache{entries: make(map[string]cacheEntry)}
}

// lookup returns the cached column for field if its recorded snapshot
// equals want.
func (c *derivedCache) lookup(field string, want []uint64) (value.Value, bool) {
	c.mu.RLock()
	ent, ok := c.entries[field]
	c.mu.RUnlock()

	if ok && versionsEqual(ent.versions, want) {
		c.hits.Add(1)
		return ent.value, true
	}
	c.misses.Add(1)
	return value.Value{}, false
}

func (c *derivedCache) store(field string, v value.Value, versions []uint64) {
	c.mu.Lock()
	c.entries[field] = cacheEntry{value: v, versions: versions}
	c.mu.Unlock()
}

func (c *derivedCache) invalidate(field string) {
	c.mu.Lock()
	delete(c.entries, field)
	c.mu.Unlock()
}

// do runs fn for field, collapsing concurrent callers onto one execution.
func (c *derivedCache) do(field string, fn func() (value.Value, error)) (value.Value, error) {
	v, err, _ := c.group.Do(field, func() (any, error) {
		return fn()
	})
	if err != nil {
		return value.Value{}, err
	}
	return v.(value.Value), nil
}

// clone copies the entries into a fresh cache with zeroed counters and its
// own flight group. Column values are shared; they are immutable by
// convention.
func (c *derivedCache) clone() *derivedCache {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cp := newDerivedCache()
	for k, v := range c.entries {
		versions := make([]uint64, len(v.versions))
		copy(versions, v.versions)
		cp.entries[k] = cacheEntry{value: v.value, versions: versions}
	}
	return cp
}

func (c *derivedCache) stats() CacheStats {
	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Computes: c.computes.Load(),
	}
}

func versionsEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
