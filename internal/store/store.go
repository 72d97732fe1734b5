package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/passmint/passmint/internal/generator"
	"github.com/passmint/passmint/internal/strength"
)

// Snapshot is a point-in-time consistent view of the analytics counters.
// The distribution values always sum to TotalGenerated.
type Snapshot struct {
	TotalGenerated       int64                    `json:"total_generated"`
	StrengthDistribution map[strength.Level]int64 `json:"strength_distribution"`
	CapturedAt           time.Time                `json:"captured_at"`
}

// cacheEntry is one TTL-bound cached value. It is readable only while
// now < storedAt + ttl.
type cacheEntry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e cacheEntry) expired(now time.Time) bool {
	return !now.Before(e.storedAt.Add(e.ttl))
}

// Store aggregates generation outcomes and caches derived values.
// The zero value is not usable; use New.
type Store struct {
	mu    sync.RWMutex
	total int64
	dist  map[strength.Level]int64
	cache map[string]cacheEntry
	now   func() time.Time // injectable for deterministic tests
}

// New creates an empty Store with all strength counters at zero.
func New() *Store {
	dist := make(map[strength.Level]int64, len(strength.Levels))
	for _, l := range strength.Levels {
		dist[l] = 0
	}
	return &Store{
		dist:  dist,
		cache: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

// Record counts one generation outcome. The total and the per-level
// counter move together under the same critical section, so concurrent
// callers can never produce a snapshot whose distribution does not sum
// to the total.
func (s *Store) Record(rec generator.Record) {
	s.mu.Lock()
	s.total++
	s.dist[rec.Strength]++
	s.mu.Unlock()
}

// Snapshot returns a consistent copy of the counters at the moment of
// the call.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[strength.Level]int64, len(s.dist))
	for l, n := range s.dist {
		dist[l] = n
	}
	return Snapshot{
		TotalGenerated:       s.total,
		StrengthDistribution: dist,
		CapturedAt:           s.now().UTC(),
	}
}

// PutCache stores or replaces the value under key with the given TTL.
// A TTL of zero or below produces an entry that is already expired.
func (s *Store) PutCache(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.cache[key] = cacheEntry{
		value:    value,
		storedAt: s.now(),
		ttl:      ttl,
	}
	s.mu.Unlock()
}

// GetCache returns the cached value for key, or (nil, false) if the key
// is absent or its TTL has elapsed. Expired entries are removed on read.
func (s *Store) GetCache(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache[key]
	if !ok {
		return nil, false
	}
	if e.expired(s.now()) {
		delete(s.cache, key)
		return nil, false
	}
	return e.value, true
}

// CacheLen returns the number of cache entries currently held, including
// expired entries not yet swept.
func (s *Store) CacheLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// Evict removes cache entries expired as of now and returns how many
// were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.cache {
		if e.expired(now) {
			delete(s.cache, k)
			removed++
		}
	}
	return removed
}

// Run starts the background cache sweep, ticking at interval. Expiry is
// already enforced lazily on read; the sweep only reclaims memory held
// by entries nobody reads again. Run blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: swept expired cache entries", "count", n)
			}
		}
	}
}
