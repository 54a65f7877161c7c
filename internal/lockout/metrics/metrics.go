package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Lockouts prometheus.Counter
	Refused  prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lockouts: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_login_lockouts_total",
			Help: "Email and address pairs locked after repeated failed logins",
		}),
		Refused: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_login_refused_total",
			Help: "Login attempts refused while locked or over the attempt limit",
		}),
	}
}

func (m *Metrics) IncrementLockout() { m.Lockouts.Inc() }

func (m *Metrics) IncrementRefused() { m.Refused.Inc() }
