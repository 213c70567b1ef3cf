package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	ledgermodels "credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/httputil"
)

// LedgerService is the ledger surface the transport needs.
type LedgerService interface {
	Issue(ctx context.Context, issuer id.PrincipalID, commitment id.Commitment) (*ledgermodels.Credential, error)
	Revoke(ctx context.Context, issuer id.PrincipalID, commitment id.Commitment) error
	Get(ctx context.Context, commitment id.Commitment) (*ledgermodels.Credential, error)
	ListByIssuer(ctx context.Context, issuer id.PrincipalID) ([]*ledgermodels.Credential, error)
}

// CredentialHandler serves the credential ledger endpoints.
type CredentialHandler struct {
	service LedgerService
	logger  *slog.Logger
}

// NewCredentialHandler wires the ledger service into HTTP.
func NewCredentialHandler(service LedgerService, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{service: service, logger: logger}
}

// Register mounts credential routes on the given router.
func (h *CredentialHandler) Register(r chi.Router) {
	r.Post("/credentials", h.HandleIssue)
	r.Get("/credentials/{commitment}", h.HandleGet)
	r.Post("/credentials/{commitment}/revoke", h.HandleRevoke)
	r.Get("/issuers/{principal}/credentials", h.HandleListByIssuer)
}

// HandleIssue records a new credential issued by the caller.
func (h *CredentialHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[IssueCredentialRequest](w, r, h.logger)
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

	cred, err := h.service.Issue(r.Context(), caller, commitment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCredentialResponse(cred))
}

// HandleRevoke flips the revocation latch. Caller must be the original issuer.
func (h *CredentialHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	commitment, err := id.ParseCommitment(chi.URLParam(r, "commitment"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Revoke(r.Context(), caller, commitment); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet returns the credential bound to a commitment.
func (h *CredentialHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	commitment, err := id.ParseCommitment(chi.URLParam(r, "commitment"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cred, err := h.service.Get(r.Context(), commitment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCredentialResponse(cred))
}

// HandleListByIssuer returns every credential an issuer has produced.
func (h *CredentialHandler) HandleListByIssuer(w http.ResponseWriter, r *http.Request) {
	issuer, err := id.ParsePrincipalID(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	creds, err := h.service.ListByIssuer(r.Context(), issuer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]CredentialResponse, 0, len(creds))
	for _, cred := range creds {
		out = append(out, toCredentialResponse(cred))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toCredentialResponse(cred *ledgermodels.Credential) CredentialResponse {
	return CredentialResponse{
		Commitment: cred.Commitment.String(),
		Issuer:     cred.Issuer.String(),
		IssuedAt:   cred.IssuedAt,
		Revoked:    cred.Revoked,
		RevokedAt:  cred.RevokedAt,
	}
}
