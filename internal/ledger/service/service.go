// Package service implements the credential ledger: the append-only record of
// issued commitments and their revocation state.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credvault/internal/events"
	"credvault/internal/events/outbox"
	"credvault/internal/ledger/metrics"
	"credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/requestcontext"
)

// Store defines the persistence interface for credentials.
// Error Contract:
// - FindByCommitment returns sentinel.ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, cred *models.Credential) error
	FindByCommitment(ctx context.Context, commitment id.Commitment) (*models.Credential, error)
	ListByIssuer(ctx context.Context, issuer id.PrincipalID) ([]*models.Credential, error)
}

// Tx provides a transactional boundary for ledger mutations. The key routes
// same-commitment mutations onto the same lock or row so they serialize.
type Tx interface {
	RunInTx(ctx context.Context, key string, fn func(store Store, eventLog outbox.Store) error) error
}

// TrustChecker reports whether a principal is currently a trusted issuer.
// Implemented by the issuer registry.
type TrustChecker interface {
	IsTrusted(ctx context.Context, issuer id.PrincipalID) bool
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service enforces the ledger rules: only trusted issuers create credentials,
// commitments bind exactly one credential forever, and revocation is a one-way
// latch only the original issuer can flip.
type Service struct {
	trust   TrustChecker
	tx      Tx
	reads   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService builds the ledger on top of the issuer registry's trust checks.
func NewService(trust TrustChecker, tx Tx, reads Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		trust:  trust,
		tx:     tx,
		reads:  reads,
		logger: logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Issue records a new credential under the caller's identity. Trust is checked
// at issuance time only; it is not snapshotted into the record. A commitment
// already bound to a credential can never be reused, even after revocation.
func (s *Service) Issue(ctx context.Context, issuer id.PrincipalID, commitment id.Commitment) (*models.Credential, error) {
	if commitment.IsZero() {
		s.rejectIssue("invalid_commitment")
		return nil, dErrors.New(dErrors.CodeInvalidCommitment, "commitment must be non-zero")
	}
	if !s.trust.IsTrusted(ctx, issuer) {
		s.rejectIssue("untrusted_issuer")
		return nil, dErrors.New(dErrors.CodeNotTrustedIssuer, "caller is not a trusted issuer")
	}

	now := requestcontext.Now(ctx)
	var issued *models.Credential
	err := s.tx.RunInTx(ctx, commitment.String(), func(store Store, eventLog outbox.Store) error {
		_, err := store.FindByCommitment(ctx, commitment)
		if err == nil {
			s.rejectIssue("duplicate_commitment")
			return dErrors.New(dErrors.CodeCredentialAlreadyExists, "commitment is already bound to a credential")
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential")
		}

		cred, err := models.NewCredential(commitment, issuer, now)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, cred); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credential")
		}
		if err := appendEvent(ctx, eventLog, events.Event{
			Type:       events.TypeCredentialIssued,
			Timestamp:  now,
			Actor:      issuer,
			Issuer:     issuer,
			Commitment: commitment.String(),
			IssuedAt:   &now,
		}); err != nil {
			return err
		}
		issued = cred
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncCredentialsIssued()
	}
	s.logger.InfoContext(ctx, "credential issued",
		"issuer", issuer.String(),
		"commitment", commitment.String(),
	)
	return issued, nil
}

// Revoke flips the credential's revocation latch. Only the original issuer may
// revoke, regardless of whether it is still trusted; losing registry trust
// does not strip an issuer of authority over its own past credentials.
func (s *Service) Revoke(ctx context.Context, issuer id.PrincipalID, commitment id.Commitment) error {
	if issuer.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}

	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, commitment.String(), func(store Store, eventLog outbox.Store) error {
		cred, err := store.FindByCommitment(ctx, commitment)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeCredentialNotFound, "no credential for commitment")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential")
		}
		if !cred.IssuedBy(issuer) {
			return dErrors.New(dErrors.CodeNotOriginalIssuer, "only the original issuer may revoke")
		}
		if err := cred.Revoke(now); err != nil {
			return err
		}
		if err := store.Save(ctx, cred); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credential")
		}
		return appendEvent(ctx, eventLog, events.Event{
			Type:       events.TypeCredentialRevoked,
			Timestamp:  now,
			Actor:      issuer,
			Issuer:     issuer,
			Commitment: commitment.String(),
			RevokedAt:  &now,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncCredentialsRevoked()
	}
	s.logger.InfoContext(ctx, "credential revoked",
		"issuer", issuer.String(),
		"commitment", commitment.String(),
	)
	return nil
}

// Get returns the credential bound to the commitment.
func (s *Service) Get(ctx context.Context, commitment id.Commitment) (*models.Credential, error) {
	cred, err := s.reads.FindByCommitment(ctx, commitment)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeCredentialNotFound, "no credential for commitment")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read credential")
	}
	return cred, nil
}

// ListByIssuer returns every credential the issuer has produced, revoked or
// not, ordered by issuance time.
func (s *Service) ListByIssuer(ctx context.Context, issuer id.PrincipalID) ([]*models.Credential, error) {
	if issuer.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuer principal required")
	}
	creds, err := s.reads.ListByIssuer(ctx, issuer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	return creds, nil
}

func (s *Service) rejectIssue(reason string) {
	if s.metrics != nil {
		s.metrics.IncIssueRejection(reason)
	}
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
