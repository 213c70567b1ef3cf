// Package zkp implements the proof system behind credential verification: a
// Groth16 SNARK over BN254 proving knowledge of a credential payload and
// blinding factor whose MiMC hash equals a public commitment, without
// revealing either.
package zkp

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// CommitmentCircuit constrains: MiMC(payload, blinding) == commitment.
// Payload and blinding stay private; the commitment is the only public input
// and doubles as the credential identifier in the ledger.
type CommitmentCircuit struct {
	Payload    frontend.Variable `gnark:",secret"`
	Blinding   frontend.Variable `gnark:",secret"`
	Commitment frontend.Variable `gnark:",public"`
}

// Define declares the circuit constraints.
func (c *CommitmentCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Payload, c.Blinding)
	api.AssertIsEqual(c.Commitment, h.Sum())
	return nil
}
