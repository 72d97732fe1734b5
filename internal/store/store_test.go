package store

import (
	"sync"
	"testing"
	"time"

	"github.com/passmint/passmint/internal/generator"
	"github.com/passmint/passmint/internal/strength"
)

func rec(l strength.Level) generator.Record {
	return generator.Record{Value: "x", Strength: l, Length: 1, CreatedAt: time.Now()}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestRecordAndSnapshot(t *testing.T) {
	st := New()
	st.Record(rec(strength.Weak))
	st.Record(rec(strength.Ultra))
	st.Record(rec(strength.Ultra))

	snap := st.Snapshot()
	if snap.TotalGenerated != 3 {
		t.Errorf("TotalGenerated: got %d, want 3", snap.TotalGenerated)
	}
	if snap.StrengthDistribution[strength.Ultra] != 2 {
		t.Errorf("ultra count: got %d, want 2", snap.StrengthDistribution[strength.Ultra])
	}
	if snap.StrengthDistribution[strength.Weak] != 1 {
		t.Errorf("weak count: got %d, want 1", snap.StrengthDistribution[strength.Weak])
	}
}

func TestSnapshot_EmptyStoreHasAllLevels(t *testing.T) {
	snap := New().Snapshot()
	if snap.TotalGenerated != 0 {
		t.Errorf("TotalGenerated: got %d, want 0", snap.TotalGenerated)
	}
	for _, l := range strength.Levels {
		if _, ok := snap.StrengthDistribution[l]; !ok {
			t.Errorf("distribution missing level %q", l)
		}
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	st := New()
	st.Record(rec(strength.Medium))

	snap := st.Snapshot()
	snap.StrengthDistribution[strength.Medium] = 999

	if got := st.Snapshot().StrengthDistribution[strength.Medium]; got != 1 {
		t.Errorf("mutating a snapshot leaked into the store: got %d, want 1", got)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	st := New()
	const (
		workers   = 20
		perWorker = 100
	)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				st.Record(rec(strength.Levels[(n+j)%len(strength.Levels)]))
			}
		}(i)
	}
	wg.Wait()

	snap := st.Snapshot()
	if snap.TotalGenerated != workers*perWorker {
		t.Errorf("TotalGenerated: got %d, want %d", snap.TotalGenerated, workers*perWorker)
	}
	var sum int64
	for _, n := range snap.StrengthDistribution {
		sum += n
	}
	if sum != snap.TotalGenerated {
		t.Errorf("distribution sum %d != total %d", sum, snap.TotalGenerated)
	}
}

func TestCache_PutGet(t *testing.T) {
	st := New()
	st.PutCache("k", "v", time.Minute)

	v, ok := st.GetCache("k")
	if !ok {
		t.Fatal("GetCache: expected hit")
	}
	if v.(string) != "v" {
		t.Errorf("GetCache: got %v, want v", v)
	}
}

func TestCache_Miss(t *testing.T) {
	if _, ok := New().GetCache("nope"); ok {
		t.Fatal("GetCache on empty store: expected miss")
	}
}

func TestCache_ZeroTTLIsBornExpired(t *testing.T) {
	base := time.Now()
	st := New()
	st.now = fixedClock(base)

	st.PutCache("k", 1, 0)
	if _, ok := st.GetCache("k"); ok {
		t.Fatal("GetCache after ttl=0 put: expected miss")
	}
}

func TestCache_ExpiresLazily(t *testing.T) {
	base := time.Now()
	st := New()

	st.now = fixedClock(base)
	st.PutCache("k", 1, 10*time.Second)

	// Just inside the TTL.
	st.now = fixedClock(base.Add(9 * time.Second))
	if _, ok := st.GetCache("k"); !ok {
		t.Fatal("GetCache inside TTL: expected hit")
	}

	// At exactly storedAt+ttl the entry is no longer readable.
	st.now = fixedClock(base.Add(10 * time.Second))
	if _, ok := st.GetCache("k"); ok {
		t.Fatal("GetCache at TTL boundary: expected miss")
	}
	if st.CacheLen() != 0 {
		t.Errorf("CacheLen after expired read: got %d, want 0", st.CacheLen())
	}
}

func TestCache_Overwrite(t *testing.T) {
	st := New()
	st.PutCache("k", "old", time.Minute)
	st.PutCache("k", "new", time.Minute)

	v, ok := st.GetCache("k")
	if !ok {
		t.Fatal("GetCache: expected hit")
	}
	if v.(string) != "new" {
		t.Errorf("GetCache: got %v, want new", v)
	}
}

func TestEvict_RemovesOnlyExpired(t *testing.T) {
	base := time.Now()
	st := New()
	st.now = fixedClock(base)

	st.PutCache("short", 1, time.Second)
	st.PutCache("long", 2, time.Hour)

	removed := st.Evict(base.Add(time.Minute))
	if removed != 1 {
		t.Errorf("Evict: removed %d, want 1", removed)
	}
	if _, ok := st.GetCache("long"); !ok {
		t.Error("long-lived entry evicted early")
	}
}

func TestCache_ConcurrentMixedOps(t *testing.T) {
	st := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			st.PutCache("k", 1, time.Minute)
		}()
		go func() {
			defer wg.Done()
			st.GetCache("k")
		}()
		go func() {
			defer wg.Done()
			st.Record(rec(strength.Strong))
		}()
	}
	wg.Wait()
}
