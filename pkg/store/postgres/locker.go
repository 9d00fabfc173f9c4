package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/utils"
)

// Locker hands out leases stored in the locks table. A lease whose expiry has
// passed can be taken over by the next caller.
type Locker struct {
	db     *sql.DB
	logger lumber.Logger
	now    func() time.Time
}

var (
	_ core.Locker       = (*Locker)(nil)
	_ core.LeaseSweeper = (*Locker)(nil)
)

// NewLocker returns a Locker on db.
func NewLocker(db *sql.DB, logger lumber.Logger) *Locker {
	return &Locker{db: db, logger: logger, now: time.Now}
}

type lease struct {
	locker *Locker
	key    string
	token  string
	once   sync.Once
	err    error
}

// Acquire inserts or takes over the lease row for key.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (core.Lease, error) {
	now := l.now()
	token := utils.GenerateUUID()
	res, err := l.db.ExecContext(ctx, acquireLockQuery, key, token, now.Add(ttl), now)
	if err != nil {
		return nil, errs.ErrLockAcquire(fmt.Sprintf("%s: %v", key, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errs.ErrLockAcquire(fmt.Sprintf("%s: %v", key, err))
	}
	if n == 0 {
		return nil, errs.ErrLockBusy
	}
	l.logger.Debugf("acquired lease %s until %s", key, now.Add(ttl).Format(time.RFC3339))
	return &lease{locker: l, key: key, token: token}, nil
}

// SweepExpired deletes every expired lease row.
func (l *Locker) SweepExpired(ctx context.Context) (int64, error) {
	res, err := l.db.ExecContext(ctx, sweepLocksQuery, l.now())
	if err != nil {
		return 0, errs.ErrStore(fmt.Sprintf("SweepExpired: %v", err))
	}
	return res.RowsAffected()
}

func (le *lease) Key() string {
	return le.key
}

// Release deletes the lease row if this holder still owns it.
func (le *lease) Release(ctx context.Context) error {
	le.once.Do(func() {
		if _, err := le.locker.db.ExecContext(ctx, releaseLockQuery, le.key, le.token); err != nil {
			le.err = errs.ErrStore(fmt.Sprintf("release %s: %v", le.key, err))
		}
	})
	return le.err
}
