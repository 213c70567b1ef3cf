package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the issuer registry.
type Metrics struct {
	IssuersAdded   prometheus.Counter
	IssuersRemoved prometheus.Counter
	TrustChecks    *prometheus.CounterVec
}

// New creates and registers issuer registry metrics.
func New() *Metrics {
	return &Metrics{
		IssuersAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_issuers_added_total",
			Help: "Total number of issuers granted trust",
		}),
		IssuersRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_issuers_removed_total",
			Help: "Total number of issuers whose trust was removed",
		}),
		TrustChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_issuer_trust_checks_total",
			Help: "Total number of trust lookups, labeled by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncIssuersAdded() {
	m.IssuersAdded.Inc()
}

func (m *Metrics) IncIssuersRemoved() {
	m.IssuersRemoved.Inc()
}

func (m *Metrics) IncTrustCheck(trusted bool) {
	result := "untrusted"
	if trusted {
		result = "trusted"
	}
	m.TrustChecks.WithLabelValues(result).Inc()
}
