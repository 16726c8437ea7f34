package lock

import (
	"context"
	"sync"
)

// Locker serializes operations over the same key
type Locker[K comparable] interface {
	Lock(key K) Unlocker
	ContextLock(ctx context.Context, key K) (Unlocker, error)
}

type Unlocker interface {
	Unlock()
}

type lock[K comparable] struct {
	sem    chan struct{}
	ref    uint64
	locker *locker[K]
	key    K
}

// Unlock implements Unlocker.
func (lck *lock[K]) Unlock() {
	<-lck.sem
	lck.locker.release(lck)
}

type locker[K comparable] struct {
	mu sync.Mutex
	l  map[K]*lock[K]
}

func (l *locker[K]) getOrCreate(key K) *lock[K] {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, ok := l.l[key]
	if !ok {
		result = &lock[K]{sem: make(chan struct{}, 1), locker: l, key: key}
		l.l[key] = result
	}
	result.ref++
	return result
}

// ContextLock implements Locker.
func (l *locker[K]) ContextLock(ctx context.Context, key K) (Unlocker, error) {
	itemLock := l.getOrCreate(key)
	select {
	case itemLock.sem <- struct{}{}:
		return itemLock, nil
	case <-ctx.Done():
		l.release(itemLock)
		return nil, ctx.Err()
	}
}

// Lock implements Locker.
func (l *locker[K]) Lock(key K) Unlocker {
	itemLock := l.getOrCreate(key)
	itemLock.sem <- struct{}{}
	return itemLock
}

func (l *locker[K]) release(lck *lock[K]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lck.ref--
	if lck.ref == 0 {
		delete(l.l, lck.key)
	}
}

// size returns number of keys currently held or awaited
func (l *locker[K]) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.l)
}

func NewLocker[K comparable]() Locker[K] {
	return &locker[K]{
		l: map[K]*lock[K]{},
	}
}
