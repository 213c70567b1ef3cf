package zkp

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	id "credvault/pkg/domain"
)

// Prover produces disclosure proofs. It lives on the holder side (wallet
// tooling, tests); the service itself only ever verifies.
type Prover struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
}

// NewProver wraps a compiled circuit and proving key.
func NewProver(ccs constraint.ConstraintSystem, pk groth16.ProvingKey) *Prover {
	return &Prover{ccs: ccs, pk: pk}
}

// Prove generates a proof that the caller knows the payload and blinding
// factor behind the returned commitment. The proof is serialized in gnark's
// raw BN254 encoding.
func (p *Prover) Prove(payload, blinding []byte) ([]byte, id.Commitment, error) {
	commitment, err := Commit(payload, blinding)
	if err != nil {
		return nil, id.Commitment{}, err
	}

	assignment := &CommitmentCircuit{
		Payload:    fieldBigInt(payload),
		Blinding:   fieldBigInt(blinding),
		Commitment: commitmentBigInt(commitment),
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, id.Commitment{}, fmt.Errorf("build witness: %w", err)
	}
	proof, err := groth16.Prove(p.ccs, p.pk, witness)
	if err != nil {
		return nil, id.Commitment{}, fmt.Errorf("prove: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, id.Commitment{}, fmt.Errorf("serialize proof: %w", err)
	}
	return buf.Bytes(), commitment, nil
}
