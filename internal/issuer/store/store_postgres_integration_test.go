//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/issuer/models"
	"credvault/internal/issuer/store"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "trusted_issuers"))
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()

	issuer, err := models.NewTrustedIssuer("issuer-a", "admin", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, issuer))

	found, err := s.store.FindByPrincipal(ctx, "issuer-a")
	s.Require().NoError(err)
	s.Equal(issuer.Principal, found.Principal)
	s.Equal(issuer.AddedBy, found.AddedBy)
	s.True(found.Active)
	s.WithinDuration(issuer.AddedAt, found.AddedAt, time.Second)
	s.Nil(found.RemovedAt)
}

func (s *PostgresStoreSuite) TestFindUnknownReturnsNotFound() {
	_, err := s.store.FindByPrincipal(context.Background(), "nobody")
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveUpsertsDeactivation() {
	ctx := context.Background()

	issuer, err := models.NewTrustedIssuer("issuer-a", "admin", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(ctx, issuer))

	removedAt := time.Now().UTC()
	issuer.Active = false
	issuer.RemovedAt = &removedAt
	s.Require().NoError(s.store.Save(ctx, issuer))

	found, err := s.store.FindByPrincipal(ctx, "issuer-a")
	s.Require().NoError(err)
	s.False(found.Active)
	s.Require().NotNil(found.RemovedAt)
	s.WithinDuration(removedAt, *found.RemovedAt, time.Second)
}

func (s *PostgresStoreSuite) TestListOrderedByAddedAt() {
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, principal := range []string{"issuer-c", "issuer-a", "issuer-b"} {
		issuer, err := models.NewTrustedIssuer(
			id.PrincipalID(principal), "admin", base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(err)
		s.Require().NoError(s.store.Save(ctx, issuer))
	}

	issuers, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(issuers, 3)
	s.Equal("issuer-c", issuers[0].Principal.String())
	s.Equal("issuer-a", issuers[1].Principal.String())
	s.Equal("issuer-b", issuers[2].Principal.String())
}
