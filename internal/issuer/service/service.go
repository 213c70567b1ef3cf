// Package service implements the issuer registry: the administrator-curated
// set of principals allowed to create credentials.
package service

import (
	"context"
	"errors"
	"log/slog"

	"credvault/internal/events"
	"credvault/internal/events/outbox"
	"credvault/internal/issuer/metrics"
	"credvault/internal/issuer/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/requestcontext"
)

// Store defines the persistence interface for trust records.
// Error Contract:
// - FindByPrincipal returns sentinel.ErrNotFound when no record exists
// - Other methods return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, issuer *models.TrustedIssuer) error
	FindByPrincipal(ctx context.Context, principal id.PrincipalID) (*models.TrustedIssuer, error)
	List(ctx context.Context) ([]*models.TrustedIssuer, error)
}

// Tx provides a transactional boundary for registry mutations. The key routes
// same-issuer mutations onto the same lock or row so they serialize.
type Tx interface {
	RunInTx(ctx context.Context, key string, fn func(store Store, eventLog outbox.Store) error) error
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service enforces the single-administrator rule over issuer trust. Trust is
// checked live by the ledger and the verification path, so removing an issuer
// immediately affects every credential it ever produced.
type Service struct {
	admin   id.PrincipalID
	tx      Tx
	reads   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService builds the registry around the single configured administrator.
func NewService(admin id.PrincipalID, tx Tx, reads Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		admin:  admin,
		tx:     tx,
		reads:  reads,
		logger: logger,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// AddIssuer activates trust for the issuer principal. Only the administrator
// may call it; re-adding an active issuer is a state conflict, re-adding a
// removed one reactivates the existing record.
func (s *Service) AddIssuer(ctx context.Context, admin, issuer id.PrincipalID) (*models.TrustedIssuer, error) {
	if err := s.requireAdmin(admin); err != nil {
		return nil, err
	}
	if issuer.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "issuer principal required")
	}

	now := requestcontext.Now(ctx)
	var added *models.TrustedIssuer
	err := s.tx.RunInTx(ctx, issuer.String(), func(store Store, eventLog outbox.Store) error {
		existing, err := store.FindByPrincipal(ctx, issuer)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read issuer")
		}

		var record *models.TrustedIssuer
		switch {
		case existing == nil:
			record, err = models.NewTrustedIssuer(issuer, admin, now)
			if err != nil {
				return err
			}
		case existing.Active:
			return dErrors.New(dErrors.CodeAlreadyTrusted, "issuer is already trusted")
		default:
			record = existing
			record.Reactivate(admin, now)
		}

		if err := store.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save issuer")
		}
		if err := appendEvent(ctx, eventLog, events.Event{
			Type:      events.TypeIssuerAdded,
			Timestamp: now,
			Actor:     admin,
			Issuer:    issuer,
		}); err != nil {
			return err
		}
		added = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncIssuersAdded()
	}
	s.logger.InfoContext(ctx, "issuer trust added", "issuer", issuer.String())
	return added, nil
}

// RemoveIssuer deactivates trust for the issuer principal. The record stays in
// place so history is preserved and re-activation is possible.
func (s *Service) RemoveIssuer(ctx context.Context, admin, issuer id.PrincipalID) error {
	if err := s.requireAdmin(admin); err != nil {
		return err
	}
	if issuer.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "issuer principal required")
	}

	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, issuer.String(), func(store Store, eventLog outbox.Store) error {
		existing, err := store.FindByPrincipal(ctx, issuer)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotTrusted, "issuer is not trusted")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read issuer")
		}
		if !existing.Active {
			return dErrors.New(dErrors.CodeNotTrusted, "issuer is not trusted")
		}

		existing.Deactivate(now)
		if err := store.Save(ctx, existing); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save issuer")
		}
		return appendEvent(ctx, eventLog, events.Event{
			Type:      events.TypeIssuerRemoved,
			Timestamp: now,
			Actor:     admin,
			Issuer:    issuer,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncIssuersRemoved()
	}
	s.logger.InfoContext(ctx, "issuer trust removed", "issuer", issuer.String())
	return nil
}

// IsTrusted reports whether the principal is currently an active issuer.
// It is a pure lookup: unknown principals and store failures both read as
// untrusted, and no error ever escapes.
func (s *Service) IsTrusted(ctx context.Context, issuer id.PrincipalID) bool {
	if issuer.IsZero() {
		return false
	}
	record, err := s.reads.FindByPrincipal(ctx, issuer)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "trust lookup failed", "issuer", issuer.String(), "error", err)
		}
		if s.metrics != nil {
			s.metrics.IncTrustCheck(false)
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.IncTrustCheck(record.Active)
	}
	return record.Active
}

// ListIssuers returns every trust record, active or not, for admin tooling.
func (s *Service) ListIssuers(ctx context.Context, admin id.PrincipalID) ([]*models.TrustedIssuer, error) {
	if err := s.requireAdmin(admin); err != nil {
		return nil, err
	}
	issuers, err := s.reads.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list issuers")
	}
	return issuers, nil
}

func (s *Service) requireAdmin(caller id.PrincipalID) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	if caller != s.admin {
		return dErrors.New(dErrors.CodeNotAdministrator, "caller is not the administrator")
	}
	return nil
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
