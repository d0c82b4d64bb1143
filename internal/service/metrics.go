package service

import "github.com/prometheus/client_golang/prometheus"

// Triggers label a health recomputation.
const (
	TriggerCovenantCreated   = "covenant_created"
	TriggerCovenantUpdated   = "covenant_updated"
	TriggerObligationCreated = "obligation_created"
	TriggerObligationUpdated = "obligation_updated"
	TriggerRiskAnalysis      = "risk_analysis"
	TriggerDocumentAnalysis  = "document_analysis"
	TriggerScheduledRefresh  = "scheduled_refresh"
	TriggerDemoLoad          = "demo_load"
)

// Metrics holds the domain collectors.
type Metrics struct {
	recomputations *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recomputations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_health_recomputations_total",
				Help: "Number of loan health recomputations by trigger.",
			},
			[]string{"trigger"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.recomputations)
	}
	return m
}

func (m *Metrics) recomputed(trigger string) {
	if m == nil {
		return
	}
	m.recomputations.WithLabelValues(trigger).Inc()
}
