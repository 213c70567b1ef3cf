package models

import (
	"time"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Credential is the ledger record binding a commitment to the principal that
// issued it and the time of issuance.
//
// # Immutability
//
// Issuer and IssuedAt are fixed at creation and never change. Revoked is a
// one-way latch: false -> true is the only legal transition and it is never
// reset. The record itself is never deleted; revocation is the terminal state.
//
// Trust is deliberately NOT snapshotted here. The verification path re-checks
// the issuer's registry status live, so removing an issuer's trust
// retroactively invalidates every credential it produced without touching
// these records.
type Credential struct {
	Commitment id.Commitment
	Issuer     id.PrincipalID
	IssuedAt   time.Time
	Revoked    bool
	RevokedAt  *time.Time
}

// NewCredential creates an active credential with invariant checks.
func NewCredential(commitment id.Commitment, issuer id.PrincipalID, issuedAt time.Time) (*Credential, error) {
	if commitment.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "commitment required")
	}
	if issuer.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issuer principal required")
	}
	if issuedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issuance time required")
	}
	return &Credential{
		Commitment: commitment,
		Issuer:     issuer,
		IssuedAt:   issuedAt,
	}, nil
}

// Revoke flips the one-way latch. Revoking an already revoked credential is a
// state conflict surfaced to the caller, not a silent no-op.
func (c *Credential) Revoke(at time.Time) error {
	if c.Revoked {
		return dErrors.New(dErrors.CodeAlreadyRevoked, "credential is already revoked")
	}
	c.Revoked = true
	c.RevokedAt = &at
	return nil
}

// IssuedBy reports whether the given principal is the original issuer.
// Only the original issuer may revoke; administrators and holders cannot.
func (c *Credential) IssuedBy(principal id.PrincipalID) bool {
	return c.Issuer == principal
}
