package ports

import "context"

// ComputeFunc renders the payload stored under a cache key on a miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// ResponseCache is a read-through cache of rendered payloads.
type ResponseCache interface {
	// GetOrCompute returns the payload cached under key, or runs compute and
	// caches its result. Failed computations are not cached.
	GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string)
}
