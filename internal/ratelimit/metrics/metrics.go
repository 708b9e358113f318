package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions      *prometheus.CounterVec
	FallbackChecks prometheus.Counter
	CircuitOpen    prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zoopito_ratelimit_decisions_total",
			Help: "Rate limit decisions by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		FallbackChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "zoopito_ratelimit_fallback_checks_total",
			Help: "Checks answered by the in-memory fallback while the primary store is unhealthy",
		}),
		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "zoopito_ratelimit_circuit_open",
			Help: "1 while the primary rate limit store circuit is open",
		}),
	}
}

func (m *Metrics) ObserveDecision(class string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "blocked"
	}
	m.Decisions.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncrementFallback() {
	m.FallbackChecks.Inc()
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
