package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"credvault/internal/issuer/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// PostgresStore persists trust records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed issuer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed issuer store bound to a transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, issuer *models.TrustedIssuer) error {
	if issuer == nil {
		return fmt.Errorf("issuer record is required")
	}
	query := `
		INSERT INTO trusted_issuers (principal, active, added_at, added_by, removed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (principal) DO UPDATE
		SET active = EXCLUDED.active,
		    added_at = EXCLUDED.added_at,
		    added_by = EXCLUDED.added_by,
		    removed_at = EXCLUDED.removed_at
	`
	_, err := s.execer().ExecContext(ctx, query,
		issuer.Principal.String(),
		issuer.Active,
		issuer.AddedAt,
		issuer.AddedBy.String(),
		issuer.RemovedAt,
	)
	if err != nil {
		return fmt.Errorf("save issuer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPrincipal(ctx context.Context, principal id.PrincipalID) (*models.TrustedIssuer, error) {
	query := `
		SELECT principal, active, added_at, added_by, removed_at
		FROM trusted_issuers
		WHERE principal = $1
	`
	issuer, err := scanIssuer(s.execer().QueryRowContext(ctx, query, principal.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issuer: %w", err)
	}
	return issuer, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.TrustedIssuer, error) {
	query := `
		SELECT principal, active, added_at, added_by, removed_at
		FROM trusted_issuers
		ORDER BY added_at
	`
	rows, err := s.execer().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
	defer rows.Close()

	var issuers []*models.TrustedIssuer
	for rows.Next() {
		issuer, err := scanIssuer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issuer: %w", err)
		}
		issuers = append(issuers, issuer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issuers: %w", err)
	}
	return issuers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssuer(row rowScanner) (*models.TrustedIssuer, error) {
	var issuer models.TrustedIssuer
	var principal, addedBy string
	var removedAt sql.NullTime
	if err := row.Scan(&principal, &issuer.Active, &issuer.AddedAt, &addedBy, &removedAt); err != nil {
		return nil, err
	}
	issuer.Principal = id.PrincipalID(principal)
	issuer.AddedBy = id.PrincipalID(addedBy)
	if removedAt.Valid {
		issuer.RemovedAt = &removedAt.Time
	}
	return &issuer, nil
}
