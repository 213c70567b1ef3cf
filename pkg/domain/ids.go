// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"encoding/hex"
	"strings"

	dErrors "credvault/pkg/domain-errors"
)

// PrincipalID is an opaque, unforgeable actor handle: a public key fingerprint,
// an account identifier, whatever the authentication layer hands us. The core
// never interprets its contents, only compares it.
type PrincipalID string

// maxPrincipalLen bounds principal identifiers so store keys stay sane.
const maxPrincipalLen = 128

// ParsePrincipalID validates a raw principal string at trust boundaries
// (handlers, API inputs).
func ParsePrincipalID(s string) (PrincipalID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal ID cannot be empty")
	}
	if len(s) > maxPrincipalLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal ID exceeds maximum length")
	}
	if strings.ContainsAny(s, " \t\n\r") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal ID cannot contain whitespace")
	}
	return PrincipalID(s), nil
}

func (p PrincipalID) String() string { return string(p) }

// IsZero reports whether the principal is the sentinel empty value.
func (p PrincipalID) IsZero() bool { return p == "" }

// CommitmentSize is the fixed byte size of a credential commitment
// (a BN254 scalar field element, big-endian).
const CommitmentSize = 32

// Commitment is a fixed-size cryptographic binding to credential content.
// The content cannot be recovered from it, but a correct opening can later be
// proved in zero knowledge. A commitment, once used, permanently identifies
// one credential.
type Commitment [CommitmentSize]byte

// ParseCommitment decodes a hex-encoded commitment at trust boundaries.
// Nil (all-zero) commitments parse successfully; services reject them with
// their own validation errors so lookups can still report "not found".
func ParseCommitment(s string) (Commitment, error) {
	var c Commitment
	if s == "" {
		return c, dErrors.New(dErrors.CodeInvalidInput, "commitment cannot be empty")
	}
	s = strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return c, dErrors.New(dErrors.CodeInvalidInput, "commitment must be hex encoded")
	}
	if len(raw) != CommitmentSize {
		return c, dErrors.New(dErrors.CodeInvalidInput, "commitment must be exactly 32 bytes")
	}
	copy(c[:], raw)
	return c, nil
}

// CommitmentFromBytes copies raw bytes into a Commitment.
func CommitmentFromBytes(raw []byte) (Commitment, error) {
	var c Commitment
	if len(raw) != CommitmentSize {
		return c, dErrors.New(dErrors.CodeInvalidInput, "commitment must be exactly 32 bytes")
	}
	copy(c[:], raw)
	return c, nil
}

func (c Commitment) String() string { return hex.EncodeToString(c[:]) }

// Bytes returns a copy of the raw commitment bytes.
func (c Commitment) Bytes() []byte {
	out := make([]byte, CommitmentSize)
	copy(out, c[:])
	return out
}

// IsZero reports whether the commitment is the all-zero sentinel. The ledger
// refuses to bind credentials to it.
func (c Commitment) IsZero() bool { return c == Commitment{} }
