package domain

import (
	"strconv"
	"time"

	dErrors "credvault/pkg/domain-errors"
)

// PublicInputsLen is the fixed element count of the public input vector.
const PublicInputsLen = 4

// PublicInputs is the public side of a disclosure proof. The wire form is a
// fixed, order-sensitive vector:
//
//	[commitment, issuerIdentity, currentTimestamp, revocationFlag]
//
// The proof system binds these values into verification, so they must match
// what the prover committed to exactly.
type PublicInputs struct {
	Commitment Commitment
	Issuer     PrincipalID
	Timestamp  time.Time
	Revoked    bool
}

// ParsePublicInputs decodes the wire vector at trust boundaries. The
// timestamp is RFC 3339 and the revocation flag is "true"/"false".
func ParsePublicInputs(raw []string) (PublicInputs, error) {
	var inputs PublicInputs
	if len(raw) != PublicInputsLen {
		return inputs, dErrors.New(dErrors.CodeInvalidInput, "public inputs must have exactly 4 elements")
	}
	commitment, err := ParseCommitment(raw[0])
	if err != nil {
		return inputs, err
	}
	issuer, err := ParsePrincipalID(raw[1])
	if err != nil {
		return inputs, err
	}
	timestamp, err := time.Parse(time.RFC3339, raw[2])
	if err != nil {
		return inputs, dErrors.New(dErrors.CodeInvalidInput, "public input timestamp must be RFC 3339")
	}
	revoked, err := strconv.ParseBool(raw[3])
	if err != nil {
		return inputs, dErrors.New(dErrors.CodeInvalidInput, "public input revocation flag must be a boolean")
	}
	inputs.Commitment = commitment
	inputs.Issuer = issuer
	inputs.Timestamp = timestamp
	inputs.Revoked = revoked
	return inputs, nil
}

// Strings encodes the vector back into its wire form.
func (p PublicInputs) Strings() []string {
	return []string{
		p.Commitment.String(),
		p.Issuer.String(),
		p.Timestamp.Format(time.RFC3339),
		strconv.FormatBool(p.Revoked),
	}
}
