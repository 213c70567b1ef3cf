package service

import (
	"context"
	"time"

	"credvault/internal/events/outbox"
	dErrors "credvault/pkg/domain-errors"
	platformsync "credvault/pkg/platform/sync"
)

// defaultTxTimeout is the maximum duration for a ledger transaction.
const defaultTxTimeout = 5 * time.Second

// memoryTx serializes mutations per commitment with a sharded mutex.
// It pairs with the in-memory stores; Postgres deployments use a database
// transaction wrapper instead (see cmd/server).
type memoryTx struct {
	mu       *platformsync.ShardedMutex
	store    Store
	eventLog outbox.Store
	timeout  time.Duration
}

// NewMemoryTx builds the in-memory transactional boundary for the ledger.
func NewMemoryTx(store Store, eventLog outbox.Store) Tx {
	return &memoryTx{
		mu:       platformsync.NewShardedMutex(),
		store:    store,
		eventLog: eventLog,
	}
}

func (t *memoryTx) RunInTx(ctx context.Context, key string, fn func(store Store, eventLog outbox.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock(key)
	defer t.mu.Unlock(key)

	// Check again after acquiring the lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store, t.eventLog)
}
