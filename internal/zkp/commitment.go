package zkp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Commit computes the commitment for a payload and blinding factor outside
// the circuit. Both inputs are reduced into the BN254 scalar field first, the
// same mapping the prover applies, so the native hash and the in-circuit hash
// agree byte for byte.
func Commit(payload, blinding []byte) (id.Commitment, error) {
	if len(payload) == 0 {
		return id.Commitment{}, dErrors.New(dErrors.CodeInvalidInput, "payload required")
	}
	if len(blinding) == 0 {
		return id.Commitment{}, dErrors.New(dErrors.CodeInvalidInput, "blinding factor required")
	}

	p := reduceToField(payload)
	b := reduceToField(blinding)

	h := mimc.NewMiMC()
	pb := p.Bytes()
	bb := b.Bytes()
	if _, err := h.Write(pb[:]); err != nil {
		return id.Commitment{}, dErrors.Wrap(err, dErrors.CodeInternal, "hash payload")
	}
	if _, err := h.Write(bb[:]); err != nil {
		return id.Commitment{}, dErrors.Wrap(err, dErrors.CodeInternal, "hash blinding")
	}
	return id.CommitmentFromBytes(h.Sum(nil))
}

// reduceToField maps arbitrary bytes onto a BN254 scalar. SetBytes interprets
// the input big-endian and reduces modulo the field order.
func reduceToField(raw []byte) fr.Element {
	var e fr.Element
	e.SetBytes(raw)
	return e
}

// fieldBigInt returns the reduced field value as a big.Int for witness
// assignment.
func fieldBigInt(raw []byte) *big.Int {
	e := reduceToField(raw)
	var out big.Int
	e.BigInt(&out)
	return &out
}
