package main

import (
	"context"
	"database/sql"
	"time"

	consentservice "credvault/internal/consent/service"
	consentstore "credvault/internal/consent/store"
	"credvault/internal/events/outbox"
	outboxpg "credvault/internal/events/outbox/store/postgres"
	dErrors "credvault/pkg/domain-errors"
)

const defaultConsentTxTimeout = 5 * time.Second

// consentPostgresTx runs consent mutations and their outbox entries inside
// one database transaction.
type consentPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newConsentPostgresTx(db *sql.DB) *consentPostgresTx {
	return &consentPostgresTx{db: db}
}

func (t *consentPostgresTx) RunInTx(ctx context.Context, key string, fn func(store consentservice.Store, eventLog outbox.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultConsentTxTimeout
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

	if err := fn(consentstore.NewPostgresTx(tx), outboxpg.NewTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
