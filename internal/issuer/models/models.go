package models

import (
	"time"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// TrustedIssuer records a principal's authorization to create credentials.
// Unlike credential revocation, trust is reversible: a removed issuer can be
// re-activated by the administrator, and the same record is reused.
type TrustedIssuer struct {
	Principal id.PrincipalID
	Active    bool
	AddedAt   time.Time
	AddedBy   id.PrincipalID
	RemovedAt *time.Time
}

// NewTrustedIssuer creates an active trust record with invariant checks.
func NewTrustedIssuer(principal, admin id.PrincipalID, addedAt time.Time) (*TrustedIssuer, error) {
	if principal.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issuer principal required")
	}
	if admin.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "administrator principal required")
	}
	if addedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activation time required")
	}
	return &TrustedIssuer{
		Principal: principal,
		Active:    true,
		AddedAt:   addedAt,
		AddedBy:   admin,
	}, nil
}

// Reactivate re-enables a previously removed issuer in place.
func (t *TrustedIssuer) Reactivate(admin id.PrincipalID, at time.Time) {
	t.Active = true
	t.AddedAt = at
	t.AddedBy = admin
	t.RemovedAt = nil
}

// Deactivate removes trust without deleting the record, preserving history.
func (t *TrustedIssuer) Deactivate(at time.Time) {
	t.Active = false
	t.RemovedAt = &at
}
