package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ownerLockTTL  = 10 * time.Second
	ownerLockPoll = 25 * time.Millisecond
)

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OwnerLock serialises user creation per owner across API instances.
// Key format: lock:owner:<owner_id>
type OwnerLock struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewOwnerLock creates an OwnerLock wrapping the given Redis client.
func NewOwnerLock(client *redis.Client, log zerolog.Logger) *OwnerLock {
	return &OwnerLock{client: client, ttl: ownerLockTTL, log: log}
}

// Lock blocks until the owner's lock is acquired or ctx is done. The lock
// expires after ownerLockTTL if its holder never releases it.
func (l *OwnerLock) Lock(ctx context.Context, ownerID int64) (func(), error) {
	key := l.key(ownerID)
	token := uuid.NewString()

	ticker := time.NewTicker(ownerLockPoll)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("owner lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("owner lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the request context may already be cancelled
			relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultTimeout)
			defer cancel()
			if err := releaseScript.Run(relCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.log.Warn().Err(err).Int64("owner_id", ownerID).Msg("owner lock release failed")
			}
		})
	}, nil
}

func (l *OwnerLock) key(ownerID int64) string {
	return fmt.Sprintf("lock:owner:%d", ownerID)
}
