package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the consent matrix.
type Metrics struct {
	ConsentsGranted prometheus.Counter
	ConsentsRevoked prometheus.Counter
	ConsentChecks   *prometheus.CounterVec
}

// New creates and registers consent matrix metrics.
func New() *Metrics {
	return &Metrics{
		ConsentsGranted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_consents_granted_total",
			Help: "Total number of consent grants recorded",
		}),
		ConsentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "credvault_consents_revoked_total",
			Help: "Total number of consent grants withdrawn",
		}),
		ConsentChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_consent_checks_total",
			Help: "Total number of consent lookups, labeled by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncConsentsGranted() {
	m.ConsentsGranted.Inc()
}

func (m *Metrics) IncConsentsRevoked() {
	m.ConsentsRevoked.Inc()
}

func (m *Metrics) IncConsentCheck(granted bool) {
	result := "denied"
	if granted {
		result = "granted"
	}
	m.ConsentChecks.WithLabelValues(result).Inc()
}
