// Package events defines the domain events the core emits on successful
// mutations. Events are the only asynchronous output of the service and are
// written through the transactional outbox so emission commits atomically with
// the state change it describes.
package events

import (
	"time"

	id "credvault/pkg/domain"
)

// Type enumerates every domain event the core can emit.
type Type string

const (
	TypeIssuerAdded       Type = "issuer_added"
	TypeIssuerRemoved     Type = "issuer_removed"
	TypeCredentialIssued  Type = "credential_issued"
	TypeCredentialRevoked Type = "credential_revoked"
	TypeConsentGiven      Type = "consent_given"
	TypeConsentRevoked    Type = "consent_revoked"
)

// Aggregate types for outbox routing.
const (
	AggregateIssuer     = "issuer"
	AggregateCredential = "credential"
	AggregateConsent    = "consent"
)

// Event carries the full identity of the affected entities so consumers can
// reconstruct what happened without re-querying live state. Revocation and
// consent status change over time; the event is the durable record of what was
// true at mutation time.
type Event struct {
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     id.PrincipalID `json:"actor"`

	// Issuer is the issuing principal for credential events, or the affected
	// issuer for registry events.
	Issuer id.PrincipalID `json:"issuer,omitempty"`

	// Commitment identifies the credential for ledger and consent events.
	Commitment string `json:"commitment,omitempty"`

	// Verifier is the disclosure target for consent events.
	Verifier id.PrincipalID `json:"verifier,omitempty"`

	// IssuedAt is set on credential_issued.
	IssuedAt *time.Time `json:"issued_at,omitempty"`

	// GrantedAt is set on consent_given.
	GrantedAt *time.Time `json:"granted_at,omitempty"`

	// RevokedAt is set on credential_revoked and consent_revoked.
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// AggregateType returns the outbox aggregate this event belongs to.
func (e Event) AggregateType() string {
	switch e.Type {
	case TypeIssuerAdded, TypeIssuerRemoved:
		return AggregateIssuer
	case TypeCredentialIssued, TypeCredentialRevoked:
		return AggregateCredential
	default:
		return AggregateConsent
	}
}

// AggregateID returns the entity key the event is about: the issuer principal
// for registry events, the commitment for everything else.
func (e Event) AggregateID() string {
	if e.AggregateType() == AggregateIssuer {
		return e.Issuer.String()
	}
	return e.Commitment
}
