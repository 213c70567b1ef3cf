package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks CredentialReader,TrustChecker,ConsentChecker,ProofVerifier

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	ledgermodels "credvault/internal/ledger/models"
	"credvault/internal/verification/service/mocks"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

type VerificationSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	ledger   *mocks.MockCredentialReader
	registry *mocks.MockTrustChecker
	consents *mocks.MockConsentChecker
	proofs   *mocks.MockProofVerifier
	svc      *Service
	ctx      context.Context
}

func TestVerificationSuite(t *testing.T) {
	suite.Run(t, new(VerificationSuite))
}

func (s *VerificationSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockCredentialReader(s.ctrl)
	s.registry = mocks.NewMockTrustChecker(s.ctrl)
	s.consents = mocks.NewMockConsentChecker(s.ctrl)
	s.proofs = mocks.NewMockProofVerifier(s.ctrl)
	logger := slog.New(slog.DiscardHandler)
	s.svc = NewService(s.ledger, s.registry, s.consents, s.proofs, logger)
	s.ctx = context.Background()
}

func (s *VerificationSuite) TearDownTest() {
	s.ctrl.Finish()
}

func commitment(b byte) id.Commitment {
	var c id.Commitment
	c[0] = b
	return c
}

func activeCredential(c id.Commitment) *ledgermodels.Credential {
	return &ledgermodels.Credential{
		Commitment: c,
		Issuer:     "issuer-1",
		IssuedAt:   time.Now().Add(-time.Hour),
	}
}

func inputsFor(c id.Commitment) id.PublicInputs {
	return id.PublicInputs{
		Commitment: c,
		Issuer:     "issuer-1",
		Timestamp:  time.Now(),
	}
}

func (s *VerificationSuite) TestAcceptsWhenAllChecksPass() {
	c := commitment(1)
	proof := []byte("proof-bytes")
	inputs := inputsFor(c)

	s.ledger.EXPECT().Get(gomock.Any(), c).Return(activeCredential(c), nil)
	s.registry.EXPECT().IsTrusted(gomock.Any(), id.PrincipalID("issuer-1")).Return(true)
	s.consents.EXPECT().HasConsent(gomock.Any(), c, id.PrincipalID("verifier-1")).Return(true)
	s.proofs.EXPECT().Check(gomock.Any(), proof, inputs, c).Return(true)

	s.True(s.svc.Verify(s.ctx, "verifier-1", c, proof, inputs))
}

func (s *VerificationSuite) TestRejectsUnknownCredential() {
	c := commitment(1)
	s.ledger.EXPECT().Get(gomock.Any(), c).
		Return(nil, dErrors.New(dErrors.CodeCredentialNotFound, "no credential for commitment"))

	// Later stages must not run; the mocks would fail on unexpected calls.
	s.False(s.svc.Verify(s.ctx, "verifier-1", c, []byte("p"), inputsFor(c)))
}

func (s *VerificationSuite) TestRejectsRevokedCredential() {
	c := commitment(1)
	cred := activeCredential(c)
	cred.Revoked = true
	s.ledger.EXPECT().Get(gomock.Any(), c).Return(cred, nil)

	s.False(s.svc.Verify(s.ctx, "verifier-1", c, []byte("p"), inputsFor(c)))
}

func (s *VerificationSuite) TestRejectsUntrustedIssuer() {
	c := commitment(1)
	s.ledger.EXPECT().Get(gomock.Any(), c).Return(activeCredential(c), nil)
	s.registry.EXPECT().IsTrusted(gomock.Any(), id.PrincipalID("issuer-1")).Return(false)

	s.False(s.svc.Verify(s.ctx, "verifier-1", c, []byte("p"), inputsFor(c)))
}

func (s *VerificationSuite) TestRejectsWithoutConsent() {
	c := commitment(1)
	s.ledger.EXPECT().Get(gomock.Any(), c).Return(activeCredential(c), nil)
	s.registry.EXPECT().IsTrusted(gomock.Any(), id.PrincipalID("issuer-1")).Return(true)
	s.consents.EXPECT().HasConsent(gomock.Any(), c, id.PrincipalID("verifier-1")).Return(false)

	s.False(s.svc.Verify(s.ctx, "verifier-1", c, []byte("p"), inputsFor(c)))
}

func (s *VerificationSuite) TestRejectsInvalidProof() {
	c := commitment(1)
	proof := []byte("bad-proof")
	inputs := inputsFor(c)

	s.ledger.EXPECT().Get(gomock.Any(), c).Return(activeCredential(c), nil)
	s.registry.EXPECT().IsTrusted(gomock.Any(), id.PrincipalID("issuer-1")).Return(true)
	s.consents.EXPECT().HasConsent(gomock.Any(), c, id.PrincipalID("verifier-1")).Return(true)
	s.proofs.EXPECT().Check(gomock.Any(), proof, inputs, c).Return(false)

	s.False(s.svc.Verify(s.ctx, "verifier-1", c, proof, inputs))
}

func (s *VerificationSuite) TestLookupFailureReadsAsRejection() {
	c := commitment(1)
	s.ledger.EXPECT().Get(gomock.Any(), c).
		Return(nil, dErrors.New(dErrors.CodeInternal, "store unavailable"))

	s.False(s.svc.Verify(s.ctx, "verifier-1", c, []byte("p"), inputsFor(c)))
}

func (s *VerificationSuite) TestProofCheckRunsLast() {
	// Expensive check ordering: with no consent the proof verifier is never
	// consulted, even for a valid proof.
	c := commitment(2)
	s.ledger.EXPECT().Get(gomock.Any(), c).Return(activeCredential(c), nil)
	s.registry.EXPECT().IsTrusted(gomock.Any(), id.PrincipalID("issuer-1")).Return(true)
	s.consents.EXPECT().HasConsent(gomock.Any(), c, id.PrincipalID("verifier-2")).Return(false)

	s.False(s.svc.Verify(s.ctx, "verifier-2", c, []byte("valid-proof"), inputsFor(c)))
}
