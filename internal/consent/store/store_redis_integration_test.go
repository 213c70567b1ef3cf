//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/consent/models"
	"credvault/internal/consent/store"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
	"credvault/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	commitment := commitmentWithSeed(1)

	consent, err := models.NewConsent(commitment, "verifier-x", "holder-1", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, consent))

	found, err := s.store.Find(ctx, commitment, "verifier-x")
	s.Require().NoError(err)
	s.Equal(commitment, found.Commitment)
	s.Equal(consent.Verifier, found.Verifier)
	s.Equal(consent.GrantedBy, found.GrantedBy)
	s.WithinDuration(consent.GrantedAt, found.GrantedAt, time.Second)
}

func (s *RedisStoreSuite) TestFindUnknownPairReturnsNotFound() {
	_, err := s.store.Find(context.Background(), commitmentWithSeed(9), "verifier-x")
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDeleteRemovesEntry() {
	ctx := context.Background()
	commitment := commitmentWithSeed(2)

	consent, err := models.NewConsent(commitment, "verifier-x", "holder-1", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, consent))

	s.Require().NoError(s.store.Delete(ctx, commitment, "verifier-x"))

	_, err = s.store.Find(ctx, commitment, "verifier-x")
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Delete(ctx, commitment, "verifier-x")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestListByCommitmentSorted() {
	ctx := context.Background()
	commitment := commitmentWithSeed(3)

	for _, verifier := range []string{"verifier-b", "verifier-a", "verifier-c"} {
		consent, err := models.NewConsent(commitment, id.PrincipalID(verifier), "holder-1", time.Now().UTC())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(ctx, consent))
	}

	consents, err := s.store.ListByCommitment(ctx, commitment)
	s.Require().NoError(err)
	s.Require().Len(consents, 3)
	s.Equal("verifier-a", consents[0].Verifier.String())
	s.Equal("verifier-b", consents[1].Verifier.String())
	s.Equal("verifier-c", consents[2].Verifier.String())
}
