package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credvault/internal/consent/store"
	"credvault/internal/events"
	"credvault/internal/events/outbox"
	ledgermodels "credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/requestcontext"
)

type stubLedger struct {
	credentials map[id.Commitment]*ledgermodels.Credential
}

func (l *stubLedger) Get(_ context.Context, commitment id.Commitment) (*ledgermodels.Credential, error) {
	cred, ok := l.credentials[commitment]
	if !ok {
		return nil, dErrors.New(dErrors.CodeCredentialNotFound, "no credential for commitment")
	}
	cp := *cred
	return &cp, nil
}

type ConsentServiceSuite struct {
	suite.Suite

	store    *store.InMemoryStore
	eventLog *outbox.InMemoryStore
	ledger   *stubLedger
	svc      *Service
	ctx      context.Context
	now      time.Time
}

func (s *ConsentServiceSuite) SetupTest() {
	s.store = store.New()
	s.eventLog = outbox.NewInMemoryStore()
	s.ledger = &stubLedger{credentials: make(map[id.Commitment]*ledgermodels.Credential)}
	logger := slog.New(slog.DiscardHandler)
	s.svc = NewService(s.ledger, NewMemoryTx(s.store, s.eventLog), s.store, logger)
	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithRequestTime(context.Background(), s.now)
}

func TestConsentServiceSuite(t *testing.T) {
	suite.Run(t, new(ConsentServiceSuite))
}

func commitment(b byte) id.Commitment {
	var c id.Commitment
	c[0] = b
	return c
}

func (s *ConsentServiceSuite) addCredential(c id.Commitment, revoked bool) {
	cred := &ledgermodels.Credential{
		Commitment: c,
		Issuer:     "issuer-1",
		IssuedAt:   s.now.Add(-time.Hour),
		Revoked:    revoked,
	}
	s.ledger.credentials[c] = cred
}

func (s *ConsentServiceSuite) TestGrantRecordsConsent() {
	s.addCredential(commitment(1), false)

	consent, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)
	s.Equal(id.PrincipalID("verifier-1"), consent.Verifier)
	s.Equal(id.PrincipalID("holder-1"), consent.GrantedBy)
	s.Equal(s.now, consent.GrantedAt)

	s.True(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
	s.assertEvent(events.TypeConsentGiven, commitment(1))
}

func (s *ConsentServiceSuite) TestGrantUnknownCredential() {
	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(9), "verifier-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCredentialNotFound))
}

func (s *ConsentServiceSuite) TestGrantRevokedCredential() {
	s.addCredential(commitment(1), true)

	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeCredentialRevoked))
	s.False(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
}

func (s *ConsentServiceSuite) TestGrantRejectsZeroVerifier() {
	s.addCredential(commitment(1), false)

	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidVerifier))
}

func (s *ConsentServiceSuite) TestGrantTwiceConflicts() {
	s.addCredential(commitment(1), false)

	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)

	_, err = s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConsentAlreadyGranted))
}

func (s *ConsentServiceSuite) TestRevokeRemovesGrant() {
	s.addCredential(commitment(1), false)
	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Revoke(s.ctx, "holder-1", commitment(1), "verifier-1"))
	s.False(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
	s.assertEvent(events.TypeConsentRevoked, commitment(1))
}

func (s *ConsentServiceSuite) TestRevokeNotGranted() {
	err := s.svc.Revoke(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConsentNotGranted))
}

func (s *ConsentServiceSuite) TestRevokeSurvivesCredentialRevocation() {
	s.addCredential(commitment(1), false)
	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)

	// Credential gets revoked after the grant. Withdrawal must still work.
	s.ledger.credentials[commitment(1)].Revoked = true
	s.Require().NoError(s.svc.Revoke(s.ctx, "holder-1", commitment(1), "verifier-1"))
	s.False(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
}

func (s *ConsentServiceSuite) TestConsentIsRegrantable() {
	s.addCredential(commitment(1), false)
	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Revoke(s.ctx, "holder-1", commitment(1), "verifier-1"))

	later := requestcontext.WithRequestTime(context.Background(), s.now.Add(time.Hour))
	consent, err := s.svc.Grant(later, "holder-1", commitment(1), "verifier-1")
	s.Require().NoError(err)
	s.Equal(s.now.Add(time.Hour), consent.GrantedAt)
	s.True(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
}

func (s *ConsentServiceSuite) TestHasConsentUnknownPair() {
	s.False(s.svc.HasConsent(s.ctx, commitment(1), "verifier-1"))
	s.False(s.svc.HasConsent(s.ctx, commitment(1), ""))
}

func (s *ConsentServiceSuite) TestListByCommitment() {
	s.addCredential(commitment(1), false)
	_, err := s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-b")
	s.Require().NoError(err)
	_, err = s.svc.Grant(s.ctx, "holder-1", commitment(1), "verifier-a")
	s.Require().NoError(err)

	consents, err := s.svc.ListByCommitment(s.ctx, commitment(1))
	s.Require().NoError(err)
	s.Require().Len(consents, 2)
	s.Equal(id.PrincipalID("verifier-a"), consents[0].Verifier)
	s.Equal(id.PrincipalID("verifier-b"), consents[1].Verifier)
}

func (s *ConsentServiceSuite) assertEvent(eventType events.Type, c id.Commitment) {
	s.T().Helper()
	entries, err := s.eventLog.FetchUnprocessed(s.ctx, 100)
	s.Require().NoError(err)
	for _, entry := range entries {
		if entry.EventType == string(eventType) && entry.AggregateID == c.String() {
			return
		}
	}
	s.Failf("event not recorded", "expected %s for %s", eventType, c.String())
}
