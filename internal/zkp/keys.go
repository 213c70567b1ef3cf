package zkp

import (
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Compile builds the constraint system for the commitment circuit.
func Compile() (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &CommitmentCircuit{})
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}
	return ccs, nil
}

// Setup runs the Groth16 trusted setup for the commitment circuit. The
// resulting keys are circuit-specific: regenerate them whenever the circuit
// changes, and distribute only the verifying key to verifiers.
func Setup() (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	ccs, err := Compile()
	if err != nil {
		return nil, nil, nil, err
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("groth16 setup: %w", err)
	}
	return ccs, pk, vk, nil
}

// WriteVerifyingKey serializes the verifying key.
func WriteVerifyingKey(w io.Writer, vk groth16.VerifyingKey) error {
	if _, err := vk.WriteTo(w); err != nil {
		return fmt.Errorf("write verifying key: %w", err)
	}
	return nil
}

// ReadVerifyingKey deserializes a BN254 verifying key.
func ReadVerifyingKey(r io.Reader) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read verifying key: %w", err)
	}
	return vk, nil
}

// LoadVerifyingKey reads a verifying key from disk.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open verifying key: %w", err)
	}
	defer f.Close()
	return ReadVerifyingKey(f)
}

// WriteProvingKey serializes the proving key.
func WriteProvingKey(w io.Writer, pk groth16.ProvingKey) error {
	if _, err := pk.WriteTo(w); err != nil {
		return fmt.Errorf("write proving key: %w", err)
	}
	return nil
}

// ReadProvingKey deserializes a BN254 proving key.
func ReadProvingKey(r io.Reader) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read proving key: %w", err)
	}
	return pk, nil
}

// LoadProvingKey reads a proving key from disk.
func LoadProvingKey(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open proving key: %w", err)
	}
	defer f.Close()
	return ReadProvingKey(f)
}
