// Package cache implements the read-through response cache used by the
// catalog and user directory services.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/pkg/metrics"
)

// Store is a key-value backend with single-key atomic operations.
// Get reports a missing key with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Retrier takes over invalidations the store failed to apply.
type Retrier interface {
	Enqueue(key string) bool
}

// ResponseCache fails safe: a store read error is a miss, a store write error
// is logged, and a failed delete is handed to the Retrier.
type ResponseCache struct {
	store Store
	retry Retrier
	ttl   time.Duration
	log   zerolog.Logger

	group   singleflight.Group
	timeout time.Duration

	mu      sync.Mutex
	flights map[string]*flight
}

// flight tracks the computations running for one key. gen is bumped by
// Invalidate; a computation only stores its result if gen is unchanged.
// The entry is dropped once no computation is active.
type flight struct {
	gen    uint64
	active int
}

// defaultComputeTimeout bounds a shared computation once it is detached from
// the caller that started it.
const defaultComputeTimeout = 10 * time.Second

var _ ports.ResponseCache = (*ResponseCache)(nil)

// New builds a ResponseCache. A zero ttl keeps entries until invalidated;
// retry may be nil.
func New(store Store, retry Retrier, ttl time.Duration, log zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		store:   store,
		retry:   retry,
		ttl:     ttl,
		log:     log,
		timeout: defaultComputeTimeout,
		flights: make(map[string]*flight),
	}
}

// GetOrCompute returns the cached value of key, computing and storing it on a
// miss. Concurrent misses share one computation. That computation is detached
// from the caller that started it, so a cancelled caller does not fail the
// others; each caller still stops waiting when its own ctx is done.
func (c *ResponseCache) GetOrCompute(ctx context.Context, key string, compute ports.ComputeFunc) ([]byte, error) {
	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		gen := c.begin(key)
		defer c.end(key)
		payload, err := compute(flightCtx)
		if err != nil {
			return nil, err
		}
		c.put(flightCtx, key, payload, gen)
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate deletes keys. Concurrent computations started before the call
// will not write their result back.
func (c *ResponseCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.mu.Lock()
	for _, k := range keys {
		if f, ok := c.flights[k]; ok {
			f.gen++
		}
		c.group.Forget(k)
	}
	c.mu.Unlock()

	err := c.store.Delete(ctx, keys...)
	if err == nil {
		metrics.CacheInvalidationsTotal.WithLabelValues("ok").Add(float64(len(keys)))
		return
	}
	c.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")

	for _, k := range keys {
		switch {
		case c.retry == nil:
			metrics.CacheInvalidationsTotal.WithLabelValues("failed").Inc()
		case c.retry.Enqueue(k):
			metrics.CacheInvalidationsTotal.WithLabelValues("queued").Inc()
		default:
			metrics.CacheInvalidationsTotal.WithLabelValues("dropped").Inc()
			c.log.Warn().Str("key", k).Msg("invalidation retry queue full, key dropped")
		}
	}
}

func (c *ResponseCache) lookup(ctx context.Context, key string) ([]byte, bool) {
	v, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues(family(key), "error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	case ok:
		metrics.CacheRequestsTotal.WithLabelValues(family(key), "hit").Inc()
		return v, true
	default:
		metrics.CacheRequestsTotal.WithLabelValues(family(key), "miss").Inc()
		return nil, false
	}
}

// put writes payload unless key was invalidated after gen was read. mu is
// held across Set so no Invalidate runs between the check and the write.
func (c *ResponseCache) put(ctx context.Context, key string, payload []byte, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.flights[key]; !ok || f.gen != gen {
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// begin registers a computation of key and returns the generation it runs at.
func (c *ResponseCache) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[key]
	if !ok {
		f = &flight{}
		c.flights[key] = f
	}
	f.active++
	return f.gen
}

func (c *ResponseCache) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.flights[key]
	if !ok {
		return
	}
	f.active--
	if f.active <= 0 {
		delete(c.flights, key)
	}
}

func (c *ResponseCache) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.flights)
}

// family returns the key's resource prefix, e.g. "user-detail" for
// "user-detail-42".
func family(key string) string {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) < 3 {
		return key
	}
	return parts[0] + "-" + parts[1]
}
