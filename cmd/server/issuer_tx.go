package main

import (
	"context"
	"database/sql"
	"time"

	"credvault/internal/events/outbox"
	outboxpg "credvault/internal/events/outbox/store/postgres"
	issuerservice "credvault/internal/issuer/service"
	issuerstore "credvault/internal/issuer/store"
	dErrors "credvault/pkg/domain-errors"
)

const defaultIssuerTxTimeout = 5 * time.Second

// issuerPostgresTx runs registry mutations and their outbox entries inside
// one database transaction. The lock key is unused; row locks serialize
// concurrent writers.
type issuerPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newIssuerPostgresTx(db *sql.DB) *issuerPostgresTx {
	return &issuerPostgresTx{db: db}
}

func (t *issuerPostgresTx) RunInTx(ctx context.Context, key string, fn func(store issuerservice.Store, eventLog outbox.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultIssuerTxTimeout
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

	if err := fn(issuerstore.NewPostgresTx(tx), outboxpg.NewTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
