package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks identifier issuance, collisions and namespace exhaustion per kind.
type Metrics struct {
	Issued     *prometheus.CounterVec
	Collisions *prometheus.CounterVec
	Exhausted  *prometheus.CounterVec
}

// New registers identifier metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers identifier metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Issued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_identifiers_issued_total",
			Help: "Total number of identifiers issued",
		}, []string{"kind"}),
		Collisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_identifier_collisions_total",
			Help: "Random draws that hit an already issued value",
		}, []string{"kind"}),
		Exhausted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_identifier_namespace_exhausted_total",
			Help: "Issue attempts that found the namespace exhausted",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementIssued(kind string) {
	m.Issued.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementCollision(kind string) {
	m.Collisions.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementExhausted(kind string) {
	m.Exhausted.WithLabelValues(kind).Inc()
}
