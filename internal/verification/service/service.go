// Package service implements the verification orchestrator: the read-only
// decision path that composes the registry, the ledger, the consent matrix,
// and a pluggable proof verifier into a single accept/reject answer.
package service

import (
	"context"
	"log/slog"
	"time"

	ledgermodels "credvault/internal/ledger/models"
	"credvault/internal/verification/metrics"
	"credvault/internal/verification/tracer"
	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
)

// Decision outcomes reported through metrics and traces. The HTTP response
// never carries them; callers only see the boolean.
const (
	OutcomeAccepted          = "accepted"
	OutcomeCredentialMissing = "credential_missing"
	OutcomeCredentialRevoked = "credential_revoked"
	OutcomeIssuerUntrusted   = "issuer_untrusted"
	OutcomeConsentMissing    = "consent_missing"
	OutcomeProofInvalid      = "proof_invalid"
	OutcomeLookupFailed      = "lookup_failed"
)

// CredentialReader looks up ledger state. Implemented by the credential ledger.
type CredentialReader interface {
	Get(ctx context.Context, commitment id.Commitment) (*ledgermodels.Credential, error)
}

// TrustChecker reports live issuer trust. Implemented by the issuer registry.
type TrustChecker interface {
	IsTrusted(ctx context.Context, issuer id.PrincipalID) bool
}

// ConsentChecker reports disclosure consent. Implemented by the consent matrix.
type ConsentChecker interface {
	HasConsent(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) bool
}

// ProofVerifier checks that a zero-knowledge proof opens the commitment under
// the given public inputs. Implementations must be sound, deterministic, and
// side-effect-free; the orchestrator treats them as opaque.
type ProofVerifier interface {
	Check(ctx context.Context, proof []byte, inputs id.PublicInputs, commitment id.Commitment) bool
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer for the service. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// Service decides disclosure requests. Verify never returns an error and never
// mutates anything; every failure mode collapses to false so untrusted callers
// cannot probe why a request was rejected.
type Service struct {
	ledger   CredentialReader
	registry TrustChecker
	consents ConsentChecker
	proofs   ProofVerifier
	logger   *slog.Logger
	tracer   tracer.Tracer
	metrics  *metrics.Metrics
}

// NewService builds the orchestrator over the three leaf contexts and the
// proof verifier.
func NewService(ledger CredentialReader, registry TrustChecker, consents ConsentChecker, proofs ProofVerifier, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		ledger:   ledger,
		registry: registry,
		consents: consents,
		proofs:   proofs,
		logger:   logger,
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Verify runs the decision pipeline in fixed order, cheapest checks first so
// the cryptographic verification only runs for requests that pass every
// policy gate:
//
//  1. the credential exists
//  2. it is not revoked
//  3. its issuer is trusted right now (not at issuance time)
//  4. the requester holds consent
//  5. the proof opens the commitment
func (s *Service) Verify(ctx context.Context, requester id.PrincipalID, commitment id.Commitment, proof []byte, inputs id.PublicInputs) bool {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrCommitment, commitment.String()),
		tracer.String(tracer.AttrRequester, requester.String()),
	)

	outcome := s.decide(ctx, requester, commitment, proof, inputs)

	accepted := outcome == OutcomeAccepted
	span.SetAttributes(
		tracer.Bool(tracer.AttrOutcome, accepted),
		tracer.String(tracer.AttrStage, outcome),
	)
	span.End(nil)

	if s.metrics != nil {
		s.metrics.IncDecision(outcome)
	}
	s.logger.InfoContext(ctx, "verification decided",
		"commitment", commitment.String(),
		"requester", requester.String(),
		"accepted", accepted,
	)
	return accepted
}

func (s *Service) decide(ctx context.Context, requester id.PrincipalID, commitment id.Commitment, proof []byte, inputs id.PublicInputs) string {
	cred, err := s.ledger.Get(ctx, commitment)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeCredentialNotFound) {
			return OutcomeCredentialMissing
		}
		s.logger.ErrorContext(ctx, "credential lookup failed",
			"commitment", commitment.String(),
			"error", err,
		)
		return OutcomeLookupFailed
	}
	if cred.Revoked {
		return OutcomeCredentialRevoked
	}
	if !s.registry.IsTrusted(ctx, cred.Issuer) {
		return OutcomeIssuerUntrusted
	}
	if !s.consents.HasConsent(ctx, commitment, requester) {
		return OutcomeConsentMissing
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanProofCheck)
	start := time.Now()
	valid := s.proofs.Check(ctx, proof, inputs, commitment)
	elapsed := time.Since(start)
	span.SetAttributes(tracer.Duration("duration", elapsed))
	span.End(nil)

	if s.metrics != nil {
		s.metrics.ObserveProofCheck(elapsed.Seconds())
	}
	if !valid {
		return OutcomeProofInvalid
	}
	return OutcomeAccepted
}
