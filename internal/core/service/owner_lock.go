package service

import (
	"context"
	"sync"
)

// LocalOwnerLock is an in-process ports.OwnerLocker for single-instance
// deployments. Idle owner entries are dropped on release.
type LocalOwnerLock struct {
	mu    sync.Mutex
	locks map[int64]*ownerSlot
}

type ownerSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalOwnerLock() *LocalOwnerLock {
	return &LocalOwnerLock{locks: make(map[int64]*ownerSlot)}
}

func (l *LocalOwnerLock) Lock(ctx context.Context, ownerID int64) (func(), error) {
	l.mu.Lock()
	slot, ok := l.locks[ownerID]
	if !ok {
		slot = &ownerSlot{ch: make(chan struct{}, 1)}
		l.locks[ownerID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(ownerID, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.unref(ownerID, slot)
		})
	}, nil
}

func (l *LocalOwnerLock) unref(ownerID int64, slot *ownerSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.locks, ownerID)
	}
}
