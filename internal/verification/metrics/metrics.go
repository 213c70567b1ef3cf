package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the verification orchestrator.
type Metrics struct {
	Decisions          *prometheus.CounterVec
	ProofCheckDuration prometheus.Histogram
}

// New creates and registers verification metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "credvault_verifications_total",
			Help: "Total number of verification decisions, labeled by outcome stage",
		}, []string{"outcome"}),
		ProofCheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "credvault_proof_check_duration_seconds",
			Help:    "Time spent in cryptographic proof verification",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}
}

func (m *Metrics) IncDecision(outcome string) {
	m.Decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveProofCheck(seconds float64) {
	m.ProofCheckDuration.Observe(seconds)
}
