// Package service implements the consent matrix: per-credential disclosure
// grants to verifying principals.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credvault/internal/consent/metrics"
	"credvault/internal/consent/models"
	"credvault/internal/events"
	"credvault/internal/events/outbox"
	ledgermodels "credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/requestcontext"
)

// Store defines the persistence interface for consent grants.
// Error Contract:
// - Find and Delete return sentinel.ErrNotFound when no grant exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, consent *models.Consent) error
	Find(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) (*models.Consent, error)
	Delete(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) error
	ListByCommitment(ctx context.Context, commitment id.Commitment) ([]*models.Consent, error)
}

// Tx provides a transactional boundary for consent mutations. The key routes
// same-pair mutations onto the same lock or row so they serialize.
type Tx interface {
	RunInTx(ctx context.Context, key string, fn func(store Store, eventLog outbox.Store) error) error
}

// CredentialReader looks up ledger state for grant-time checks.
// Implemented by the credential ledger.
type CredentialReader interface {
	Get(ctx context.Context, commitment id.Commitment) (*ledgermodels.Credential, error)
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service enforces the consent rules: grants require a live, unrevoked
// credential, but withdrawal is never blocked by credential state. A holder
// must always be able to withdraw consent, even for a revoked credential.
type Service struct {
	ledger  CredentialReader
	tx      Tx
	reads   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService builds the consent matrix on top of the credential ledger.
func NewService(ledger CredentialReader, tx Tx, reads Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		ledger: ledger,
		tx:     tx,
		reads:  reads,
		logger: logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// pairTxKey routes both grant and revoke for one (commitment, verifier) pair
// onto the same lock shard.
func pairTxKey(commitment id.Commitment, verifier id.PrincipalID) string {
	return commitment.String() + ":" + verifier.String()
}

// Grant records disclosure consent for the verifier. The referenced credential
// must exist and be unrevoked at grant time.
func (s *Service) Grant(ctx context.Context, caller id.PrincipalID, commitment id.Commitment, verifier id.PrincipalID) (*models.Consent, error) {
	if caller.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	if verifier.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidVerifier, "verifier principal required")
	}

	now := requestcontext.Now(ctx)
	var granted *models.Consent
	err := s.tx.RunInTx(ctx, pairTxKey(commitment, verifier), func(store Store, eventLog outbox.Store) error {
		cred, err := s.ledger.Get(ctx, commitment)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeCredentialNotFound) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential")
		}
		if cred.Revoked {
			return dErrors.New(dErrors.CodeCredentialRevoked, "credential is revoked")
		}

		_, err = store.Find(ctx, commitment, verifier)
		if err == nil {
			return dErrors.New(dErrors.CodeConsentAlreadyGranted, "consent is already granted")
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consent")
		}

		consent, err := models.NewConsent(commitment, verifier, caller, now)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, consent); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent")
		}
		if err := appendEvent(ctx, eventLog, events.Event{
			Type:       events.TypeConsentGiven,
			Timestamp:  now,
			Actor:      caller,
			Commitment: commitment.String(),
			Verifier:   verifier,
			GrantedAt:  &now,
		}); err != nil {
			return err
		}
		granted = consent
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncConsentsGranted()
	}
	s.logger.InfoContext(ctx, "consent granted",
		"commitment", commitment.String(),
		"verifier", verifier.String(),
	)
	return granted, nil
}

// Revoke withdraws a consent grant. It deliberately never consults the ledger;
// withdrawal must succeed regardless of what happened to the credential.
func (s *Service) Revoke(ctx context.Context, caller id.PrincipalID, commitment id.Commitment, verifier id.PrincipalID) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}

	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, pairTxKey(commitment, verifier), func(store Store, eventLog outbox.Store) error {
		if err := store.Delete(ctx, commitment, verifier); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeConsentNotGranted, "no consent for this pair")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete consent")
		}
		return appendEvent(ctx, eventLog, events.Event{
			Type:       events.TypeConsentRevoked,
			Timestamp:  now,
			Actor:      caller,
			Commitment: commitment.String(),
			Verifier:   verifier,
			RevokedAt:  &now,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncConsentsRevoked()
	}
	s.logger.InfoContext(ctx, "consent revoked",
		"commitment", commitment.String(),
		"verifier", verifier.String(),
	)
	return nil
}

// HasConsent reports whether the verifier currently holds a grant for the
// commitment. It is a pure lookup: unknown pairs and store failures both read
// as denied, and no error ever escapes.
func (s *Service) HasConsent(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) bool {
	if verifier.IsZero() {
		return false
	}
	_, err := s.reads.Find(ctx, commitment, verifier)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "consent lookup failed",
				"commitment", commitment.String(),
				"verifier", verifier.String(),
				"error", err,
			)
		}
		if s.metrics != nil {
			s.metrics.IncConsentCheck(false)
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.IncConsentCheck(true)
	}
	return true
}

// ListByCommitment returns every active grant for the commitment, ordered by
// verifier, for holder-facing tooling.
func (s *Service) ListByCommitment(ctx context.Context, commitment id.Commitment) ([]*models.Consent, error) {
	if commitment.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidCommitment, "commitment must be non-zero")
	}
	consents, err := s.reads.ListByCommitment(ctx, commitment)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list consents")
	}
	return consents, nil
}

func appendEvent(ctx context.Context, eventLog outbox.Store, event events.Event) error {
	entry, err := outbox.FromEvent(event)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode event")
	}
	if err := eventLog.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
	}
	return nil
}
