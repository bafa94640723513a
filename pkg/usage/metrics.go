package usage

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes entitlement decision counters for scraping. The collector
// is an observability sink like any other: the enforcement path increments it
// and never depends on it.
type Metrics struct {
	decisions *prometheus.CounterVec
	consumed  *prometheus.CounterVec
	refunded  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on the given registerer.
// Pass prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "decisions_total",
			Help:      "Entitlement decisions by usage type and reason code.",
		}, []string{"usage_type", "reason"}),
		consumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "quota_consumed_total",
			Help:      "Quota units consumed by pool kind.",
		}, []string{"kind"}),
		refunded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entitlements",
			Name:      "quota_refunded_total",
			Help:      "Quota units refunded by pool kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.decisions, m.consumed, m.refunded)
	return m
}

// ObserveDecision counts one enforcement decision.
func (m *Metrics) ObserveDecision(usageType, reason string) {
	m.decisions.WithLabelValues(usageType, reason).Inc()
}

// ObserveConsumed counts consumed quota units.
func (m *Metrics) ObserveConsumed(kind string, quantity int64) {
	m.consumed.WithLabelValues(kind).Add(float64(quantity))
}

// ObserveRefunded counts refunded quota units.
func (m *Metrics) ObserveRefunded(kind string, quantity int64) {
	m.refunded.WithLabelValues(kind).Add(float64(quantity))
}
