package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bilemo/catalog-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	maxAttempts    = 3
	defaultBackoff = 200 * time.Millisecond
	deleteTimeout  = 2 * time.Second
)

// Deleter removes cache keys from the backing store.
type Deleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// Dispatcher retries cache invalidations that failed on the request path.
// Keys are routed to a fixed set of workers by hash, so retries of the same
// key run in order on one worker.
type Dispatcher struct {
	workers []chan string
	store   Deleter
	backoff time.Duration
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store Deleter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		store:   store,
		backoff: defaultBackoff,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands key to its worker. It never blocks and reports false when the
// worker's channel is full.
func (d *Dispatcher) Enqueue(key string) bool {
	idx := d.shardIndex(key)
	select {
	case d.workers[idx] <- key:
		metrics.InvalidationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		return false
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	depth := metrics.InvalidationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.retry(ctx, key); err != nil {
				metrics.CacheInvalidationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("key", key).
					Int("worker_id", id).
					Msg("cache invalidation abandoned")
			}
		}
	}
}

func (d *Dispatcher) retry(ctx context.Context, key string) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		delCtx, cancel := context.WithTimeout(ctx, deleteTimeout)
		err = d.store.Delete(delCtx, key)
		cancel()
		if err == nil {
			metrics.CacheInvalidationsTotal.WithLabelValues("ok").Inc()
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * d.backoff):
		}
	}
	return err
}
