package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for registrations and approval decisions.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Decisions     *prometheus.CounterVec
	Deletions     prometheus.Counter
	Logins        *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_applications_registered_total",
			Help: "Applications submitted, by kind",
		}, []string{"kind"}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_application_decisions_total",
			Help: "Approval decisions applied, by kind and resulting status",
		}, []string{"kind", "status"}),
		Deletions: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_applications_deleted_total",
			Help: "Applications deleted by staff",
		}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_logins_total",
			Help: "Login attempts, by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementRegistered(kind string) {
	m.Registrations.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementDecision(kind, status string) {
	m.Decisions.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.Deletions.Inc()
}

func (m *Metrics) IncrementLogin(outcome string) {
	m.Logins.WithLabelValues(outcome).Inc()
}
