package main

import (
	"context"
	"database/sql"
	"time"

	"credvault/internal/events/outbox"
	outboxpg "credvault/internal/events/outbox/store/postgres"
	ledgerservice "credvault/internal/ledger/service"
	ledgerstore "credvault/internal/ledger/store"
	dErrors "credvault/pkg/domain-errors"
)

const defaultLedgerTxTimeout = 5 * time.Second

// ledgerPostgresTx runs credential mutations and their outbox entries inside
// one database transaction.
type ledgerPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newLedgerPostgresTx(db *sql.DB) *ledgerPostgresTx {
	return &ledgerPostgresTx{db: db}
}

func (t *ledgerPostgresTx) RunInTx(ctx context.Context, key string, fn func(store ledgerservice.Store, eventLog outbox.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultLedgerTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if err := fn(ledgerstore.NewPostgresTx(tx), outboxpg.NewTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
