package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// PostgresStore persists credentials in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed credential store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed credential store bound to a transaction.
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

func (s *PostgresStore) Save(ctx context.Context, cred *models.Credential) error {
	if cred == nil {
		return fmt.Errorf("credential record is required")
	}
	query := `
		INSERT INTO credentials (commitment, issuer, issued_at, revoked, revoked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (commitment) DO UPDATE
		SET revoked = EXCLUDED.revoked,
		    revoked_at = EXCLUDED.revoked_at
	`
	_, err := s.execer().ExecContext(ctx, query,
		cred.Commitment.Bytes(),
		cred.Issuer.String(),
		cred.IssuedAt,
		cred.Revoked,
		cred.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByCommitment(ctx context.Context, commitment id.Commitment) (*models.Credential, error) {
	query := `
		SELECT commitment, issuer, issued_at, revoked, revoked_at
		FROM credentials
		WHERE commitment = $1
	`
	cred, err := scanCredential(s.execer().QueryRowContext(ctx, query, commitment.Bytes()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return cred, nil
}

func (s *PostgresStore) ListByIssuer(ctx context.Context, issuer id.PrincipalID) ([]*models.Credential, error) {
	query := `
		SELECT commitment, issuer, issued_at, revoked, revoked_at
		FROM credentials
		WHERE issuer = $1
		ORDER BY issued_at
	`
	rows, err := s.execer().QueryContext(ctx, query, issuer.String())
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []*models.Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return creds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var cred models.Credential
	var commitment []byte
	var issuer string
	var revokedAt sql.NullTime
	if err := row.Scan(&commitment, &issuer, &cred.IssuedAt, &cred.Revoked, &revokedAt); err != nil {
		return nil, err
	}
	parsed, err := id.CommitmentFromBytes(commitment)
	if err != nil {
		return nil, fmt.Errorf("stored commitment invalid: %w", err)
	}
	cred.Commitment = parsed
	cred.Issuer = id.PrincipalID(issuer)
	if revokedAt.Valid {
		cred.RevokedAt = &revokedAt.Time
	}
	return &cred, nil
}
