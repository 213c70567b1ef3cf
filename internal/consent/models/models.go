package models

import (
	"time"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Consent is a disclosure grant for one (commitment, verifier) pair. Unlike
// credential revocation, consent is re-grantable: revoking removes the entry
// and a later grant creates a fresh one with a new timestamp.
//
// GrantedBy records the caller that invoked the grant. Holder identity is
// established by the authentication layer before the request reaches the core;
// the core records it but does not verify ownership of the credential.
type Consent struct {
	Commitment id.Commitment
	Verifier   id.PrincipalID
	GrantedBy  id.PrincipalID
	GrantedAt  time.Time
}

// NewConsent creates a consent grant with invariant checks.
func NewConsent(commitment id.Commitment, verifier, grantedBy id.PrincipalID, grantedAt time.Time) (*Consent, error) {
	if commitment.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "commitment required")
	}
	if verifier.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "verifier principal required")
	}
	if grantedBy.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "granting principal required")
	}
	if grantedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "grant time required")
	}
	return &Consent{
		Commitment: commitment,
		Verifier:   verifier,
		GrantedBy:  grantedBy,
		GrantedAt:  grantedAt,
	}, nil
}
