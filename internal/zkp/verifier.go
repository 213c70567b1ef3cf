package zkp

import (
	"bytes"
	"context"
	"log/slog"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	id "credvault/pkg/domain"
)

// Verifier checks disclosure proofs against the circuit's verifying key. It
// is deterministic and side-effect-free; the orchestrator calls it as the
// final, most expensive verification stage.
type Verifier struct {
	vk     groth16.VerifyingKey
	logger *slog.Logger
}

// NewVerifier wraps a verifying key. The logger only records malformed-proof
// diagnostics; the decision itself is the boolean.
func NewVerifier(vk groth16.VerifyingKey, logger *slog.Logger) *Verifier {
	return &Verifier{vk: vk, logger: logger}
}

// Check reports whether the proof opens the commitment. The public input
// vector must reference the same commitment the caller is verifying against
// and must not assert a revoked credential; mismatches read as invalid rather
// than erroring, matching the probe-safe contract of the verification path.
func (v *Verifier) Check(ctx context.Context, proof []byte, inputs id.PublicInputs, commitment id.Commitment) bool {
	if len(proof) == 0 || commitment.IsZero() {
		return false
	}
	if inputs.Commitment != commitment {
		return false
	}
	if inputs.Revoked {
		return false
	}

	parsed := groth16.NewProof(ecc.BN254)
	if _, err := parsed.ReadFrom(bytes.NewReader(proof)); err != nil {
		v.logger.DebugContext(ctx, "malformed proof", "error", err)
		return false
	}

	public := &CommitmentCircuit{Commitment: commitmentBigInt(commitment)}
	witness, err := frontend.NewWitness(public, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		v.logger.DebugContext(ctx, "public witness build failed", "error", err)
		return false
	}

	if err := groth16.Verify(parsed, v.vk, witness); err != nil {
		return false
	}
	return true
}

// commitmentBigInt interprets the commitment bytes as a big-endian scalar for
// witness assignment.
func commitmentBigInt(c id.Commitment) *big.Int {
	return new(big.Int).SetBytes(c.Bytes())
}
