package zkp

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credvault/pkg/domain"
)

// The trusted setup dominates test time, so every test shares one key pair.
var (
	setupOnce sync.Once
	setupErr  error
	testCCS   constraint.ConstraintSystem
	testPK    groth16.ProvingKey
	testVK    groth16.VerifyingKey
)

func sharedSetup(t *testing.T) (*Prover, *Verifier) {
	t.Helper()
	setupOnce.Do(func() {
		testCCS, testPK, testVK, setupErr = Setup()
	})
	require.NoError(t, setupErr)
	logger := slog.New(slog.DiscardHandler)
	return NewProver(testCCS, testPK), NewVerifier(testVK, logger)
}

func testInputs(c id.Commitment) id.PublicInputs {
	return id.PublicInputs{
		Commitment: c,
		Issuer:     "issuer-1",
		Timestamp:  time.Now(),
	}
}

func TestCommitDeterministic(t *testing.T) {
	a, err := Commit([]byte("payload"), []byte("blinding"))
	require.NoError(t, err)
	b, err := Commit([]byte("payload"), []byte("blinding"))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Commit([]byte("payload"), []byte("other-blinding"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "blinding factor must change the commitment")

	d, err := Commit([]byte("other-payload"), []byte("blinding"))
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestCommitRejectsEmptyInputs(t *testing.T) {
	_, err := Commit(nil, []byte("blinding"))
	assert.Error(t, err)
	_, err = Commit([]byte("payload"), nil)
	assert.Error(t, err)
}

func TestProveVerifyRoundTrip(t *testing.T) {
	prover, verifier := sharedSetup(t)

	proof, commitment, err := prover.Prove([]byte("date_of_birth=1990-01-01"), []byte("r-1"))
	require.NoError(t, err)
	require.False(t, commitment.IsZero())

	assert.True(t, verifier.Check(context.Background(), proof, testInputs(commitment), commitment))
}

func TestCheckRejectsWrongCommitment(t *testing.T) {
	prover, verifier := sharedSetup(t)

	proof, commitment, err := prover.Prove([]byte("payload"), []byte("r-2"))
	require.NoError(t, err)

	other, err := Commit([]byte("payload"), []byte("r-3"))
	require.NoError(t, err)
	require.NotEqual(t, commitment, other)

	// Proof is valid for its own commitment but must not transfer.
	assert.False(t, verifier.Check(context.Background(), proof, testInputs(other), other))
}

func TestCheckRejectsMismatchedInputVector(t *testing.T) {
	prover, verifier := sharedSetup(t)

	proof, commitment, err := prover.Prove([]byte("payload"), []byte("r-4"))
	require.NoError(t, err)

	inputs := testInputs(commitment)
	var wrong id.Commitment
	wrong[0] = 0xFF
	inputs.Commitment = wrong
	assert.False(t, verifier.Check(context.Background(), proof, inputs, commitment))
}

func TestCheckRejectsRevocationFlag(t *testing.T) {
	prover, verifier := sharedSetup(t)

	proof, commitment, err := prover.Prove([]byte("payload"), []byte("r-5"))
	require.NoError(t, err)

	inputs := testInputs(commitment)
	inputs.Revoked = true
	assert.False(t, verifier.Check(context.Background(), proof, inputs, commitment))
}

func TestCheckRejectsTamperedProof(t *testing.T) {
	prover, verifier := sharedSetup(t)

	proof, commitment, err := prover.Prove([]byte("payload"), []byte("r-6"))
	require.NoError(t, err)

	tampered := append([]byte(nil), proof...)
	tampered[0] ^= 0x01
	assert.False(t, verifier.Check(context.Background(), tampered, testInputs(commitment), commitment))

	assert.False(t, verifier.Check(context.Background(), []byte("garbage"), testInputs(commitment), commitment))
	assert.False(t, verifier.Check(context.Background(), nil, testInputs(commitment), commitment))
}

func TestVerifyingKeySerializationRoundTrip(t *testing.T) {
	prover, _ := sharedSetup(t)

	var buf bytes.Buffer
	require.NoError(t, WriteVerifyingKey(&buf, testVK))
	restored, err := ReadVerifyingKey(&buf)
	require.NoError(t, err)

	proof, commitment, err := prover.Prove([]byte("payload"), []byte("r-7"))
	require.NoError(t, err)

	verifier := NewVerifier(restored, slog.New(slog.DiscardHandler))
	assert.True(t, verifier.Check(context.Background(), proof, testInputs(commitment), commitment))
}
