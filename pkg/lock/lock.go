// Package lock runs a function while holding a lease from a core.Locker.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/metrics"
)

// WithLock acquires key for ttl, runs fn and releases the lease on every exit
// path, panics included. Acquisition failures are returned without running fn.
func WithLock(ctx context.Context, locker core.Locker, logger lumber.Logger, key string, ttl time.Duration,
	fn func(ctx context.Context) error) (err error) {
	lease, err := locker.Acquire(ctx, key, ttl)
	if err != nil {
		if errors.Is(err, errs.ErrLockBusy) {
			metrics.LockContention.Inc()
			return err
		}
		return errs.ErrLockAcquire(err.Error())
	}
	defer func() {
		// the caller's context may already be done, the lease must still go
		if rErr := lease.Release(context.WithoutCancel(ctx)); rErr != nil {
			logger.Errorf("failed to release lease %s: %v", key, rErr)
		}
	}()

	lctx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()
	return fn(lctx)
}
