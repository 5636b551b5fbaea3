package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// FetchFunc produces a fresh value for a cache key.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Stats receives hit/miss callbacks, labeled by cache name. Keys follow the
// "name:rest" convention; everything before the first colon is the name.
type Stats interface {
	RecordCacheHit(name string)
	RecordCacheMiss(name string)
}

// envelope wraps cached payloads with their fetch time so staleness can be
// judged independently of the backing store's expiry.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Refresher layers get-or-refresh semantics over a Service: values fresher
// than their TTL are served directly, stale values are served immediately
// while a single background refresh runs, and misses fetch synchronously.
// A failed refresh keeps serving the stale copy until the stale window ends.
type Refresher struct {
	cache    Service
	staleFor time.Duration // how long past the TTL a stale copy may serve
	stats    Stats
}

type RefresherOption func(*Refresher)

// WithStats reports hit/miss outcomes to the given recorder.
func WithStats(s Stats) RefresherOption {
	return func(r *Refresher) { r.stats = s }
}

// NewRefresher creates a Refresher. staleFor bounds the stale-while-revalidate
// window; entries older than ttl+staleFor are gone from the store entirely.
func NewRefresher(c Service, staleFor time.Duration, opts ...RefresherOption) *Refresher {
	if staleFor <= 0 {
		staleFor = time.Hour
	}
	r := &Refresher{cache: c, staleFor: staleFor}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrRefresh resolves key into dest, fetching when needed.
func (r *Refresher) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, dest interface{}, fetch FetchFunc) error {
	var raw string
	if err := r.cache.Get(ctx, key, &raw); err == nil {
		var env envelope
		if json.Unmarshal([]byte(raw), &env) == nil && len(env.Payload) > 0 {
			if time.Since(env.FetchedAt) <= ttl {
				r.recordHit(key)
				return json.Unmarshal(env.Payload, dest)
			}
			// Stale: serve what we have, refresh off the request path.
			if err := json.Unmarshal(env.Payload, dest); err == nil {
				r.recordHit(key)
				r.refreshAsync(key, ttl, fetch)
				return nil
			}
		}
	}
	r.recordMiss(key)

	val, err := fetch(ctx)
	if err != nil {
		return err
	}
	return r.store(ctx, key, ttl, val, dest)
}

// Invalidate drops a key so the next read refetches.
func (r *Refresher) Invalidate(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}

func (r *Refresher) store(ctx context.Context, key string, ttl time.Duration, val, dest interface{}) error {
	payload, err := json.Marshal(val)
	if err != nil {
		return err
	}
	b, err := json.Marshal(envelope{Payload: payload, FetchedAt: time.Now()})
	if err != nil {
		return err
	}
	_ = r.cache.Set(ctx, key, string(b), ttl+r.staleFor)

	if dest == nil {
		return nil
	}
	return json.Unmarshal(payload, dest)
}

func (r *Refresher) recordHit(key string) {
	if r.stats != nil {
		r.stats.RecordCacheHit(cacheName(key))
	}
}

func (r *Refresher) recordMiss(key string) {
	if r.stats != nil {
		r.stats.RecordCacheMiss(cacheName(key))
	}
}

func cacheName(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

func (r *Refresher) refreshAsync(key string, ttl time.Duration, fetch FetchFunc) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Single-flight: only one refresher per key at a time.
		lockKey := key + ":refresh"
		ok, err := r.cache.TryLock(ctx, lockKey, 30*time.Second)
		if err != nil || !ok {
			return
		}
		defer func() { _ = r.cache.Unlock(ctx, lockKey) }()

		val, err := fetch(ctx)
		if err != nil {
			return // keep the stale copy
		}
		_ = r.store(ctx, key, ttl, val, nil)
	}()
}
