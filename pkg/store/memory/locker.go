package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/utils"
)

type leaseEntry struct {
	token     string
	expiresAt time.Time
}

// Locker is an in-process core.Locker for local mode and tests.
type Locker struct {
	mu     sync.Mutex
	leases map[string]leaseEntry
	now    func() time.Time
}

var (
	_ core.Locker       = (*Locker)(nil)
	_ core.LeaseSweeper = (*Locker)(nil)
)

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{leases: make(map[string]leaseEntry), now: time.Now}
}

type lease struct {
	locker *Locker
	key    string
	token  string
	once   sync.Once
}

// Acquire grants key for ttl unless an unexpired lease exists.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (core.Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if cur, ok := l.leases[key]; ok && cur.expiresAt.After(now) {
		return nil, errs.ErrLockBusy
	}
	token := utils.GenerateUUID()
	l.leases[key] = leaseEntry{token: token, expiresAt: now.Add(ttl)}
	return &lease{locker: l, key: key, token: token}, nil
}

// SweepExpired drops every expired lease.
func (l *Locker) SweepExpired(ctx context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	now := l.now()
	for key, cur := range l.leases {
		if !cur.expiresAt.After(now) {
			delete(l.leases, key)
			n++
		}
	}
	return n, nil
}

func (le *lease) Key() string {
	return le.key
}

// Release drops the lease only if it still belongs to this holder.
func (le *lease) Release(ctx context.Context) error {
	le.once.Do(func() {
		le.locker.mu.Lock()
		defer le.locker.mu.Unlock()
		if cur, ok := le.locker.leases[le.key]; ok && cur.token == le.token {
			delete(le.locker.leases, le.key)
		}
	})
	return nil
}
