package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the credential ledger.
type Metrics struct {
	CredentialsIssued  prometheus.Counter
	CredentialsRevoked prometheus.Counter
	IssueRejections    *prometheus.CounterVec
}

// New creates and registers credential ledger metrics.
func New() *Metrics {
	return &Metrics{
		CredentialsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_credentials_issued_total",
			Help: "Total number of credentials recorded in the ledger",
		}),
		CredentialsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_credentials_revoked_total",
			Help: "Total number of credentials revoked",
		}),
		IssueRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_credential_issue_rejections_total",
			Help: "Total number of rejected issuance attempts, labeled by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncCredentialsIssued() {
	m.CredentialsIssued.Inc()
}

func (m *Metrics) IncCredentialsRevoked() {
	m.CredentialsRevoked.Inc()
}

func (m *Metrics) IncIssueRejection(reason string) {
	m.IssueRejections.WithLabelValues(reason).Inc()
}
