package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	consentmodels "credvault/internal/consent/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/httputil"
)

// ConsentService is the consent matrix surface the transport needs.
type ConsentService interface {
	Grant(ctx context.Context, caller id.PrincipalID, commitment id.Commitment, verifier id.PrincipalID) (*consentmodels.Consent, error)
	Revoke(ctx context.Context, caller id.PrincipalID, commitment id.Commitment, verifier id.PrincipalID) error
	HasConsent(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) bool
	ListByCommitment(ctx context.Context, commitment id.Commitment) ([]*consentmodels.Consent, error)
}

// ConsentHandler serves the consent matrix endpoints.
type ConsentHandler struct {
	service ConsentService
	logger  *slog.Logger
}

// NewConsentHandler wires the consent service into HTTP.
func NewConsentHandler(service ConsentService, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{service: service, logger: logger}
}

// Register mounts consent routes on the given router.
func (h *ConsentHandler) Register(r chi.Router) {
	r.Post("/consents", h.HandleGrant)
	r.Get("/consents/{commitment}", h.HandleList)
	r.Get("/consents/{commitment}/{verifier}", h.HandleStatus)
	r.Delete("/consents/{commitment}/{verifier}", h.HandleRevoke)
}

// HandleGrant records the caller's consent for a verifier to see a credential.
func (h *ConsentHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[GrantConsentRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := httputil.PrepareRequest(*req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	commitment, err := id.ParseCommitment(req.Commitment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	verifier, err := id.ParsePrincipalID(req.Verifier)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	consent, err := h.service.Grant(r.Context(), caller, commitment, verifier)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toConsentResponse(consent))
}

// HandleRevoke withdraws a previously granted consent. Revocation does not
// consult the ledger, so consent on a revoked credential can still be cleaned up.
func (h *ConsentHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	commitment, verifier, err := consentPathParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Revoke(r.Context(), caller, commitment, verifier); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus reports whether a verifier holds consent for a commitment.
func (h *ConsentHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	commitment, verifier, err := consentPathParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ConsentStatusResponse{
		Commitment: commitment.String(),
		Verifier:   verifier.String(),
		Granted:    h.service.HasConsent(r.Context(), commitment, verifier),
	})
}

// HandleList returns every live consent for a commitment.
func (h *ConsentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	commitment, err := id.ParseCommitment(chi.URLParam(r, "commitment"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	consents, err := h.service.ListByCommitment(r.Context(), commitment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		out = append(out, toConsentResponse(consent))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func consentPathParams(r *http.Request) (id.Commitment, id.PrincipalID, error) {
	commitment, err := id.ParseCommitment(chi.URLParam(r, "commitment"))
	if err != nil {
		return id.Commitment{}, "", err
	}
	verifier, err := id.ParsePrincipalID(chi.URLParam(r, "verifier"))
	if err != nil {
		return id.Commitment{}, "", err
	}
	return commitment, verifier, nil
}

func toConsentResponse(consent *consentmodels.Consent) ConsentResponse {
	return ConsentResponse{
		Commitment: consent.Commitment.String(),
		Verifier:   consent.Verifier.String(),
		GrantedBy:  consent.GrantedBy.String(),
		GrantedAt:  consent.GrantedAt,
	}
}
