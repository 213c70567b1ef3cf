package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"credvault/internal/platform/health"
	"credvault/internal/platform/middleware"
)

// RouterConfig bundles the handlers and cross-cutting pieces the router mounts.
type RouterConfig struct {
	Issuers      *IssuerHandler
	Credentials  *CredentialHandler
	Consents     *ConsentHandler
	Verification *VerifyHandler
	Health       *health.Handler
	Auth         middleware.TokenValidator
	Timeout      time.Duration
}

// NewRouter wires all endpoints with the middleware stack. Health and metrics
// stay outside authentication; everything under /v1 requires a bearer token.
func NewRouter(cfg RouterConfig, logger *slog.Logger) http.Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Use(middleware.ContentTypeJSON)

	cfg.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middleware.RequireAuth(cfg.Auth, logger))

		cfg.Issuers.Register(v1)
		cfg.Credentials.Register(v1)
		cfg.Consents.Register(v1)
		cfg.Verification.Register(v1)
	})

	return r
}
