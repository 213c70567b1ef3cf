package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

func mustCredential(t *testing.T, b byte, issuer id.PrincipalID, issuedAt time.Time) *models.Credential {
	t.Helper()
	var c id.Commitment
	c[0] = b
	cred, err := models.NewCredential(c, issuer, issuedAt)
	require.NoError(t, err)
	return cred
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	cred := mustCredential(t, 1, "issuer-1", now)
	require.NoError(t, s.Save(ctx, cred))

	found, err := s.FindByCommitment(ctx, cred.Commitment)
	require.NoError(t, err)
	assert.Equal(t, cred.Issuer, found.Issuer)
	assert.Equal(t, cred.IssuedAt, found.IssuedAt)

	// Mutating the returned copy must not affect the stored record.
	found.Revoked = true
	again, err := s.FindByCommitment(ctx, cred.Commitment)
	require.NoError(t, err)
	assert.False(t, again.Revoked)
}

func TestInMemoryStoreNotFound(t *testing.T) {
	s := New()
	var c id.Commitment
	c[0] = 42
	_, err := s.FindByCommitment(context.Background(), c)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreListByIssuer(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Now()

	require.NoError(t, s.Save(ctx, mustCredential(t, 2, "issuer-1", base.Add(time.Minute))))
	require.NoError(t, s.Save(ctx, mustCredential(t, 1, "issuer-1", base)))
	require.NoError(t, s.Save(ctx, mustCredential(t, 3, "issuer-2", base)))

	creds, err := s.ListByIssuer(ctx, "issuer-1")
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.True(t, creds[0].IssuedAt.Before(creds[1].IssuedAt), "ordered by issuance time")

	empty, err := s.ListByIssuer(ctx, "issuer-9")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
