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

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "consents"))
}

func commitmentWithSeed(seed byte) id.Commitment {
	var c id.Commitment
	c[id.CommitmentSize-1] = seed
	return c
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
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

func (s *PostgresStoreSuite) TestFindUnknownPairReturnsNotFound() {
	_, err := s.store.Find(context.Background(), commitmentWithSeed(9), "verifier-x")
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteRemovesEntry() {
	ctx := context.Background()
	commitment := commitmentWithSeed(2)

	consent, err := models.NewConsent(commitment, "verifier-x", "holder-1", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, consent))

	s.Require().NoError(s.store.Delete(ctx, commitment, "verifier-x"))

	_, err = s.store.Find(ctx, commitment, "verifier-x")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteAbsentPairReturnsNotFound() {
	err := s.store.Delete(context.Background(), commitmentWithSeed(3), "verifier-x")
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByCommitment() {
	ctx := context.Background()
	commitment := commitmentWithSeed(4)

	for _, verifier := range []string{"verifier-b", "verifier-a"} {
		consent, err := models.NewConsent(commitment, id.PrincipalID(verifier), "holder-1", time.Now().UTC())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(ctx, consent))
	}
	unrelated, err := models.NewConsent(commitmentWithSeed(5), "verifier-z", "holder-1", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, unrelated))

	consents, err := s.store.ListByCommitment(ctx, commitment)
	s.Require().NoError(err)
	s.Require().Len(consents, 2)
	s.Equal("verifier-a", consents[0].Verifier.String())
	s.Equal("verifier-b", consents[1].Verifier.String())
}
