package lock

import (
	"context"
	"time"
)

func TimedLock[K comparable](ctx context.Context, lock Locker[K], key K, timeout time.Duration) (Unlocker, error) {
	tCtx, tCancel := context.WithTimeout(ctx, timeout)
	defer tCancel()

	return lock.ContextLock(tCtx, key)
}
