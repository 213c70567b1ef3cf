package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"credvault/internal/consent/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// PostgresStore persists consent grants in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a PostgreSQL-backed consent store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a PostgreSQL-backed consent store bound to a transaction.
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

func (s *PostgresStore) Save(ctx context.Context, consent *models.Consent) error {
	if consent == nil {
		return fmt.Errorf("consent record is required")
	}
	query := `
		INSERT INTO consents (commitment, verifier, granted_by, granted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (commitment, verifier) DO UPDATE
		SET granted_by = EXCLUDED.granted_by,
		    granted_at = EXCLUDED.granted_at
	`
	_, err := s.execer().ExecContext(ctx, query,
		consent.Commitment.Bytes(),
		consent.Verifier.String(),
		consent.GrantedBy.String(),
		consent.GrantedAt,
	)
	if err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) (*models.Consent, error) {
	query := `
		SELECT commitment, verifier, granted_by, granted_at
		FROM consents
		WHERE commitment = $1 AND verifier = $2
	`
	consent, err := scanConsent(s.execer().QueryRowContext(ctx, query, commitment.Bytes(), verifier.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consent: %w", err)
	}
	return consent, nil
}

func (s *PostgresStore) Delete(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) error {
	query := `
		DELETE FROM consents
		WHERE commitment = $1 AND verifier = $2
	`
	result, err := s.execer().ExecContext(ctx, query, commitment.Bytes(), verifier.String())
	if err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByCommitment(ctx context.Context, commitment id.Commitment) ([]*models.Consent, error) {
	query := `
		SELECT commitment, verifier, granted_by, granted_at
		FROM consents
		WHERE commitment = $1
		ORDER BY verifier
	`
	rows, err := s.execer().QueryContext(ctx, query, commitment.Bytes())
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	defer rows.Close()

	var consents []*models.Consent
	for rows.Next() {
		consent, err := scanConsent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consent: %w", err)
		}
		consents = append(consents, consent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consents: %w", err)
	}
	return consents, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsent(row rowScanner) (*models.Consent, error) {
	var consent models.Consent
	var commitment []byte
	var verifier, grantedBy string
	if err := row.Scan(&commitment, &verifier, &grantedBy, &consent.GrantedAt); err != nil {
		return nil, err
	}
	parsed, err := id.CommitmentFromBytes(commitment)
	if err != nil {
		return nil, fmt.Errorf("stored commitment invalid: %w", err)
	}
	consent.Commitment = parsed
	consent.Verifier = id.PrincipalID(verifier)
	consent.GrantedBy = id.PrincipalID(grantedBy)
	return &consent, nil
}
