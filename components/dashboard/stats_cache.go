package dashboard

import (
	"context"
	"sync"
	"time"
)

// SnapshotStore persists aggregated statistics so the cache survives restarts.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, key string) (AggregatedStats, time.Time, bool, error)
	SaveSnapshot(ctx context.Context, key string, stats AggregatedStats, at time.Time) error
}

// StatsCache memoizes aggregated statistics per date range.
type StatsCache struct {
	ttl       time.Duration
	snapshots SnapshotStore
	now       func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedStats
}

type cachedStats struct {
	stats   AggregatedStats
	fetched time.Time
}

// NewStatsCache builds a cache with the provided TTL. A nil store keeps entries in memory only.
func NewStatsCache(ttl time.Duration, snapshots SnapshotStore) *StatsCache {
	return &StatsCache{
		ttl:       ttl,
		snapshots: snapshots,
		now:       time.Now,
		entries:   make(map[string]cachedStats),
	}
}

// Get returns a fresh cached entry for the key, consulting the snapshot store on a memory miss.
func (c *StatsCache) Get(ctx context.Context, key string) (AggregatedStats, bool) {
	if c == nil {
		return AggregatedStats{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.fresh(entry.fetched) {
		return entry.stats, true
	}
	if c.snapshots == nil {
		return AggregatedStats{}, false
	}
	stats, at, found, err := c.snapshots.LoadSnapshot(ctx, key)
	if err != nil || !found || !c.fresh(at) {
		return AggregatedStats{}, false
	}
	c.mu.Lock()
	c.entries[key] = cachedStats{stats: stats, fetched: at}
	c.mu.Unlock()
	return stats, true
}

// Stale returns the last known value regardless of age, used when a refresh fails.
func (c *StatsCache) Stale(ctx context.Context, key string) (AggregatedStats, bool) {
	if c == nil {
		return AggregatedStats{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return entry.stats, true
	}
	if c.snapshots == nil {
		return AggregatedStats{}, false
	}
	stats, _, found, err := c.snapshots.LoadSnapshot(ctx, key)
	if err != nil || !found {
		return AggregatedStats{}, false
	}
	return stats, true
}

// Put stores a fresh value in memory and in the snapshot store.
func (c *StatsCache) Put(ctx context.Context, key string, stats AggregatedStats) error {
	if c == nil {
		return nil
	}
	at := c.now()
	c.mu.Lock()
	c.entries[key] = cachedStats{stats: stats, fetched: at}
	c.mu.Unlock()
	if c.snapshots == nil {
		return nil
	}
	return c.snapshots.SaveSnapshot(ctx, key, stats, at)
}

// Purge drops every in-memory entry. Persisted snapshots are kept.
func (c *StatsCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedStats)
	c.mu.Unlock()
}

func (c *StatsCache) fresh(at time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(at) < c.ttl
}
