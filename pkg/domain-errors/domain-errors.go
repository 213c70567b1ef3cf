package domainerrors

import "errors"

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Authorization failures. Retrying with the same identity fails identically.
	CodeNotAdministrator  Code = "not_administrator"
	CodeNotTrustedIssuer  Code = "not_trusted_issuer"
	CodeNotOriginalIssuer Code = "not_original_issuer"

	// Not-found failures. The referenced identity or pair does not exist and is
	// never auto-created.
	CodeCredentialNotFound Code = "credential_not_found"
	CodeConsentNotGranted  Code = "consent_not_granted"

	// State-conflict failures. Idempotency guards, kept distinct from not-found
	// so callers can tell "nothing to do" from "caller error".
	CodeCredentialAlreadyExists Code = "credential_already_exists"
	CodeAlreadyRevoked          Code = "already_revoked"
	CodeCredentialRevoked       Code = "credential_revoked"
	CodeConsentAlreadyGranted   Code = "consent_already_granted"
	CodeAlreadyTrusted          Code = "already_trusted"
	CodeNotTrusted              Code = "not_trusted"

	// Validation failures for sentinel or malformed identifiers.
	CodeInvalidCommitment Code = "invalid_commitment"
	CodeInvalidVerifier   Code = "invalid_verifier"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
