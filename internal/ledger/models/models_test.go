package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

func testCommitment(b byte) id.Commitment {
	var c id.Commitment
	c[31] = b
	return c
}

func TestNewCredentialInvariants(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		cred, err := NewCredential(testCommitment(1), "issuer-1", now)
		require.NoError(t, err)
		assert.False(t, cred.Revoked)
		assert.Nil(t, cred.RevokedAt)
		assert.Equal(t, now, cred.IssuedAt)
	})

	t.Run("zero commitment rejected", func(t *testing.T) {
		_, err := NewCredential(id.Commitment{}, "issuer-1", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("zero issuer rejected", func(t *testing.T) {
		_, err := NewCredential(testCommitment(1), "", now)
		require.Error(t, err)
	})

	t.Run("zero issuance time rejected", func(t *testing.T) {
		_, err := NewCredential(testCommitment(1), "issuer-1", time.Time{})
		require.Error(t, err)
	})
}

func TestRevokeIsOneWay(t *testing.T) {
	cred, err := NewCredential(testCommitment(2), "issuer-1", time.Now())
	require.NoError(t, err)

	revokedAt := time.Now()
	require.NoError(t, cred.Revoke(revokedAt))
	assert.True(t, cred.Revoked)
	require.NotNil(t, cred.RevokedAt)
	assert.Equal(t, revokedAt, *cred.RevokedAt)

	err = cred.Revoke(time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
	assert.Equal(t, revokedAt, *cred.RevokedAt, "original revocation time must be preserved")
}

func TestIssuedBy(t *testing.T) {
	cred, err := NewCredential(testCommitment(3), "issuer-1", time.Now())
	require.NoError(t, err)

	assert.True(t, cred.IssuedBy("issuer-1"))
	assert.False(t, cred.IssuedBy("issuer-2"))
	assert.False(t, cred.IssuedBy(""))
}
