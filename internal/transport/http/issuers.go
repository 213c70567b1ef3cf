package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	issuermodels "credvault/internal/issuer/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/httputil"
)

// IssuerService is the registry surface the transport needs.
type IssuerService interface {
	AddIssuer(ctx context.Context, admin, issuer id.PrincipalID) (*issuermodels.TrustedIssuer, error)
	RemoveIssuer(ctx context.Context, admin, issuer id.PrincipalID) error
	IsTrusted(ctx context.Context, issuer id.PrincipalID) bool
	ListIssuers(ctx context.Context, admin id.PrincipalID) ([]*issuermodels.TrustedIssuer, error)
}

// IssuerHandler serves the issuer registry endpoints.
type IssuerHandler struct {
	service IssuerService
	logger  *slog.Logger
}

// NewIssuerHandler wires the registry service into HTTP.
func NewIssuerHandler(service IssuerService, logger *slog.Logger) *IssuerHandler {
	return &IssuerHandler{service: service, logger: logger}
}

// Register mounts issuer routes on the given router.
func (h *IssuerHandler) Register(r chi.Router) {
	r.Post("/issuers", h.HandleAdd)
	r.Get("/issuers", h.HandleList)
	r.Get("/issuers/{principal}", h.HandleTrustStatus)
	r.Delete("/issuers/{principal}", h.HandleRemove)
}

// HandleAdd activates trust for a principal. Caller must be the administrator.
func (h *IssuerHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[AddIssuerRequest](w, r, h.logger)
	if !ok {
		return
	}
	if err := httputil.PrepareRequest(*req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	issuer, err := id.ParsePrincipalID(req.Issuer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.AddIssuer(r.Context(), caller, issuer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIssuerResponse(record))
}

// HandleRemove deactivates trust for a principal. Caller must be the administrator.
func (h *IssuerHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issuer, err := id.ParsePrincipalID(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RemoveIssuer(r.Context(), caller, issuer); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTrustStatus reports whether a principal is currently trusted.
// Available to any authenticated caller; trust status is not a secret.
func (h *IssuerHandler) HandleTrustStatus(w http.ResponseWriter, r *http.Request) {
	issuer, err := id.ParsePrincipalID(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TrustStatusResponse{
		Principal: issuer.String(),
		Trusted:   h.service.IsTrusted(r.Context(), issuer),
	})
}

// HandleList returns every trust record. Caller must be the administrator.
func (h *IssuerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, err := httputil.RequirePrincipal(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.ListIssuers(r.Context(), caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]IssuerResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toIssuerResponse(record))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toIssuerResponse(record *issuermodels.TrustedIssuer) IssuerResponse {
	return IssuerResponse{
		Principal: record.Principal.String(),
		Active:    record.Active,
		AddedAt:   record.AddedAt,
		AddedBy:   record.AddedBy.String(),
		RemovedAt: record.RemovedAt,
	}
}
