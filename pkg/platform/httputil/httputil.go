package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "credvault/pkg/domain"
	dErrors "credvault/pkg/domain-errors"
	"credvault/pkg/requestcontext"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": string(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeCredentialNotFound, dErrors.CodeConsentNotGranted:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput,
		dErrors.CodeInvariantViolation, dErrors.CodeInvalidCommitment, dErrors.CodeInvalidVerifier:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeCredentialAlreadyExists, dErrors.CodeAlreadyRevoked,
		dErrors.CodeConsentAlreadyGranted, dErrors.CodeAlreadyTrusted, dErrors.CodeNotTrusted:
		return http.StatusConflict
	case dErrors.CodeCredentialRevoked:
		return http.StatusGone
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeNotAdministrator, dErrors.CodeNotTrustedIssuer,
		dErrors.CodeNotOriginalIssuer:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RequirePrincipal extracts the authenticated caller from context.
// Returns a domain error suitable for HTTP response on failure.
// This centralizes auth context extraction for handlers.
func RequirePrincipal(ctx context.Context, logger *slog.Logger) (id.PrincipalID, error) {
	principal := requestcontext.Principal(ctx)
	if principal.IsZero() {
		if logger != nil {
			logger.WarnContext(ctx, "request reached handler without authenticated principal",
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "missing caller identity")
	}
	return principal, nil
}
