package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the prize draw scheduler.
type Metrics struct {
	DrawsCompleted   prometheus.Counter
	DrawEntrants     prometheus.Histogram
	DrawsSkipped     *prometheus.CounterVec
	RemainingSeconds prometheus.Gauge
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DrawsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_draws_completed_total",
			Help: "Prize draws recorded",
		}),
		DrawEntrants: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorhub_draw_entrants",
			Help:    "Number of eligible donors entered per draw",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		DrawsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_draws_skipped_total",
			Help: "Scheduled draw checks that did not record a draw, by reason",
		}, []string{"reason"}),
		RemainingSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "donorhub_draw_window_remaining_seconds",
			Help: "Seconds left in the current draw window at the last check",
		}),
	}
}

func (m *Metrics) IncrementCompleted(entrants int) {
	m.DrawsCompleted.Inc()
	m.DrawEntrants.Observe(float64(entrants))
}

func (m *Metrics) IncrementSkipped(reason string) {
	m.DrawsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetRemaining(seconds int64) {
	m.RemainingSeconds.Set(float64(seconds))
}
