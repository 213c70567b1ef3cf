package http

import (
	"time"

	dErrors "credvault/pkg/domain-errors"
)

// AddIssuerRequest is the body for POST /v1/issuers.
type AddIssuerRequest struct {
	Issuer string `json:"issuer"`
}

func (r AddIssuerRequest) Validate() error {
	if r.Issuer == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "issuer is required")
	}
	return nil
}

// IssuerResponse describes one trust record.
type IssuerResponse struct {
	Principal string     `json:"principal"`
	Active    bool       `json:"active"`
	AddedAt   time.Time  `json:"added_at"`
	AddedBy   string     `json:"added_by"`
	RemovedAt *time.Time `json:"removed_at,omitempty"`
}

// TrustStatusResponse is the body for GET /v1/issuers/{principal}.
type TrustStatusResponse struct {
	Principal string `json:"principal"`
	Trusted   bool   `json:"trusted"`
}

// IssueCredentialRequest is the body for POST /v1/credentials.
type IssueCredentialRequest struct {
	Commitment string `json:"commitment"`
}

func (r IssueCredentialRequest) Validate() error {
	if r.Commitment == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "commitment is required")
	}
	return nil
}

// CredentialResponse describes one ledger record.
type CredentialResponse struct {
	Commitment string     `json:"commitment"`
	Issuer     string     `json:"issuer"`
	IssuedAt   time.Time  `json:"issued_at"`
	Revoked    bool       `json:"revoked"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// GrantConsentRequest is the body for POST /v1/consents.
type GrantConsentRequest struct {
	Commitment string `json:"commitment"`
	Verifier   string `json:"verifier"`
}

func (r GrantConsentRequest) Validate() error {
	if r.Commitment == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "commitment is required")
	}
	if r.Verifier == "" {
		return dErrors.New(dErrors.CodeInvalidVerifier, "verifier is required")
	}
	return nil
}

// ConsentResponse describes one consent grant.
type ConsentResponse struct {
	Commitment string    `json:"commitment"`
	Verifier   string    `json:"verifier"`
	GrantedBy  string    `json:"granted_by"`
	GrantedAt  time.Time `json:"granted_at"`
}

// ConsentStatusResponse is the body for GET /v1/consents/{commitment}/{verifier}.
type ConsentStatusResponse struct {
	Commitment string `json:"commitment"`
	Verifier   string `json:"verifier"`
	Granted    bool   `json:"granted"`
}

// VerifyRequest is the body for POST /v1/verify. Proof is base64 encoded;
// PublicInputs is the fixed vector [commitment, issuer, timestamp, revocationFlag].
type VerifyRequest struct {
	Commitment   string   `json:"commitment"`
	Proof        string   `json:"proof"`
	PublicInputs []string `json:"public_inputs"`
}

// VerifyResponse carries only the boolean decision. Rejection reasons are
// deliberately withheld; they would leak credential state to untrusted
// callers.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
