package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRefresherMissFetches(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	r := NewRefresher(mc, time.Minute)

	var calls int32
	var got string
	err := r.GetOrRefresh(context.Background(), "k", time.Minute, &got, func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "v1" || atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("got %q after %d calls", got, calls)
	}
}

func TestRefresherFreshHitSkipsFetch(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	r := NewRefresher(mc, time.Minute)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}

	var got string
	if err := r.GetOrRefresh(ctx, "k", time.Minute, &got, fetch); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := r.GetOrRefresh(ctx, "k", time.Minute, &got, fetch); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("fetch called %d times, want 1", calls)
	}
}

func TestRefresherStaleServesOldAndRevalidates(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	r := NewRefresher(mc, time.Minute)
	ctx := context.Background()

	var got string
	if err := r.GetOrRefresh(ctx, "k", time.Millisecond, &got, func(ctx context.Context) (interface{}, error) {
		return "old", nil
	}); err != nil {
		t.Fatalf("warm: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	// Stale read returns the old value without blocking on the fetch.
	if err := r.GetOrRefresh(ctx, "k", time.Millisecond, &got, func(ctx context.Context) (interface{}, error) {
		return "new", nil
	}); err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if got != "old" {
		t.Fatalf("stale read = %q, want old", got)
	}

	// The background refresh eventually replaces the payload.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := r.GetOrRefresh(ctx, "k", time.Minute, &got, func(ctx context.Context) (interface{}, error) {
			return "fallback", nil
		}); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got == "new" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("background refresh never landed, last value %q", got)
}

type countingStats struct {
	hits   map[string]int
	misses map[string]int
}

func newCountingStats() *countingStats {
	return &countingStats{hits: map[string]int{}, misses: map[string]int{}}
}

func (s *countingStats) RecordCacheHit(name string)  { s.hits[name]++ }
func (s *countingStats) RecordCacheMiss(name string) { s.misses[name]++ }

func TestRefresherReportsHitsAndMisses(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	stats := newCountingStats()
	r := NewRefresher(mc, time.Minute, WithStats(stats))
	ctx := context.Background()

	fetch := func(ctx context.Context) (interface{}, error) { return "v", nil }

	var got string
	if err := r.GetOrRefresh(ctx, "bars:BBCA:60", time.Minute, &got, fetch); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := r.GetOrRefresh(ctx, "bars:BBCA:60", time.Minute, &got, fetch); err != nil {
		t.Fatalf("fresh hit: %v", err)
	}

	// Expired entry still inside the stale window counts as a hit.
	if err := r.GetOrRefresh(ctx, "bars:TLKM:60", time.Millisecond, &got, fetch); err != nil {
		t.Fatalf("warm stale key: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := r.GetOrRefresh(ctx, "bars:TLKM:60", time.Millisecond, &got, fetch); err != nil {
		t.Fatalf("stale hit: %v", err)
	}

	if stats.hits["bars"] != 2 {
		t.Errorf("hits = %d, want 2 (one fresh, one stale)", stats.hits["bars"])
	}
	if stats.misses["bars"] != 2 {
		t.Errorf("misses = %d, want 2 (one cold key each)", stats.misses["bars"])
	}
}

func TestRefresherFetchErrorPropagatesOnMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	r := NewRefresher(mc, time.Minute)

	var got string
	err := r.GetOrRefresh(context.Background(), "missing", time.Minute, &got, func(ctx context.Context) (interface{}, error) {
		return nil, context.DeadlineExceeded
	})
	if err == nil {
		t.Fatalf("expected fetch error")
	}
}
