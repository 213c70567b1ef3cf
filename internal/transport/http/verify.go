package http

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "credvault/pkg/domain"
	"credvault/pkg/platform/httputil"
	"credvault/pkg/requestcontext"
)

// VerificationService is the orchestrator surface the transport needs.
type VerificationService interface {
	Verify(ctx context.Context, requester id.PrincipalID, commitment id.Commitment, proof []byte, inputs id.PublicInputs) bool
}

// VerifyHandler serves the verification endpoint.
type VerifyHandler struct {
	service VerificationService
	logger  *slog.Logger
}

// NewVerifyHandler wires the verification orchestrator into HTTP.
func NewVerifyHandler(service VerificationService, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{service: service, logger: logger}
}

// Register mounts the verification route on the given router.
func (h *VerifyHandler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
}

// HandleVerify answers a verification request with a bare boolean. The
// endpoint never returns a domain error for a checkable request; malformed
// proofs, unknown commitments, and garbled input vectors all collapse to
// {"valid": false} so a probing caller learns nothing from the failure mode.
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requester, err := httputil.RequirePrincipal(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeJSON[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	commitment, err := id.ParseCommitment(req.Commitment)
	if err != nil {
		h.deny(ctx, w, "unparseable commitment")
		return
	}
	proof, err := base64.StdEncoding.DecodeString(req.Proof)
	if err != nil {
		h.deny(ctx, w, "proof is not valid base64")
		return
	}
	inputs, err := id.ParsePublicInputs(req.PublicInputs)
	if err != nil {
		h.deny(ctx, w, "unparseable public inputs")
		return
	}

	valid := h.service.Verify(ctx, requester, commitment, proof, inputs)
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{Valid: valid})
}

func (h *VerifyHandler) deny(ctx context.Context, w http.ResponseWriter, reason string) {
	h.logger.DebugContext(ctx, "verification request rejected before orchestration",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, VerifyResponse{Valid: false})
}
