package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/events"
	"credvault/internal/events/outbox"
	"credvault/internal/issuer/store"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/requestcontext"
)

const adminPrincipal = id.PrincipalID("admin-1")

type IssuerServiceSuite struct {
	suite.Suite

	store    *store.InMemoryStore
	eventLog *outbox.InMemoryStore
	svc      *Service
	ctx      context.Context
	now      time.Time
}

func (s *IssuerServiceSuite) SetupTest() {
	s.store = store.New()
	s.eventLog = outbox.NewInMemoryStore()
	logger := slog.New(slog.DiscardHandler)
	s.svc = NewService(adminPrincipal, NewMemoryTx(s.store, s.eventLog), s.store, logger)
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithRequestTime(context.Background(), s.now)
}

func TestIssuerServiceSuite(t *testing.T) {
	suite.Run(t, new(IssuerServiceSuite))
}

func (s *IssuerServiceSuite) TestAddIssuerActivatesTrust() {
	record, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)
	s.True(record.Active)
	s.Equal(adminPrincipal, record.AddedBy)
	s.Equal(s.now, record.AddedAt)

	s.True(s.svc.IsTrusted(s.ctx, "issuer-1"))
	s.assertEvent(events.TypeIssuerAdded, "issuer-1")
}

func (s *IssuerServiceSuite) TestAddIssuerRequiresAdministrator() {
	_, err := s.svc.AddIssuer(s.ctx, "issuer-1", "issuer-2")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotAdministrator))
	s.False(s.svc.IsTrusted(s.ctx, "issuer-2"))
}

func (s *IssuerServiceSuite) TestAddIssuerTwiceConflicts() {
	_, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)

	_, err = s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyTrusted))
}

func (s *IssuerServiceSuite) TestRemoveIssuerDeactivatesTrust() {
	_, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-1"))
	s.False(s.svc.IsTrusted(s.ctx, "issuer-1"))
	s.assertEvent(events.TypeIssuerRemoved, "issuer-1")
}

func (s *IssuerServiceSuite) TestRemoveUnknownIssuer() {
	err := s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-9")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotTrusted))
}

func (s *IssuerServiceSuite) TestRemoveIssuerTwice() {
	_, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-1"))

	err = s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotTrusted))
}

func (s *IssuerServiceSuite) TestReAddReactivatesRecord() {
	_, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-1"))

	later := requestcontext.WithRequestTime(context.Background(), s.now.Add(time.Hour))
	record, err := s.svc.AddIssuer(later, adminPrincipal, "issuer-1")
	s.Require().NoError(err)
	s.True(record.Active)
	s.Nil(record.RemovedAt)
	s.Equal(s.now.Add(time.Hour), record.AddedAt)
	s.True(s.svc.IsTrusted(s.ctx, "issuer-1"))
}

func (s *IssuerServiceSuite) TestIsTrustedUnknownPrincipal() {
	s.False(s.svc.IsTrusted(s.ctx, "issuer-9"))
	s.False(s.svc.IsTrusted(s.ctx, ""))
}

func (s *IssuerServiceSuite) TestListIssuersAdminOnly() {
	_, err := s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.RemoveIssuer(s.ctx, adminPrincipal, "issuer-1"))
	_, err = s.svc.AddIssuer(s.ctx, adminPrincipal, "issuer-2")
	s.Require().NoError(err)

	issuers, err := s.svc.ListIssuers(s.ctx, adminPrincipal)
	s.Require().NoError(err)
	s.Len(issuers, 2)

	_, err = s.svc.ListIssuers(s.ctx, "issuer-2")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotAdministrator))
}

func (s *IssuerServiceSuite) assertEvent(eventType events.Type, issuer id.PrincipalID) {
	s.T().Helper()
	entries, err := s.eventLog.FetchUnprocessed(s.ctx, 100)
	s.Require().NoError(err)
	for _, entry := range entries {
		if entry.EventType == string(eventType) && entry.AggregateID == issuer.String() {
			return
		}
	}
	s.Failf("event not recorded", "expected %s for %s", eventType, issuer.String())
}
