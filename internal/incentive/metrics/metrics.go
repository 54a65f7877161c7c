package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the incentive ledger.
type Metrics struct {
	ActionsRecorded   *prometheus.CounterVec
	PointsAwarded     prometheus.Counter
	MultipliedActions prometheus.Counter
	ActiveShortages   prometheus.Gauge
	RecordDuration    prometheus.Histogram
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ActionsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donorhub_ledger_actions_recorded_total",
			Help: "Ledger entries appended, by action kind",
		}, []string{"action"}),
		PointsAwarded: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_ledger_points_awarded_total",
			Help: "Sum of points appended to the ledger",
		}),
		MultipliedActions: f.NewCounter(prometheus.CounterOpts{
			Name: "donorhub_ledger_shortage_multiplied_total",
			Help: "Ledger entries recorded with the shortage multiplier",
		}),
		ActiveShortages: f.NewGauge(prometheus.GaugeOpts{
			Name: "donorhub_active_shortages",
			Help: "Blood types currently flagged on the shortage board",
		}),
		RecordDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorhub_ledger_record_duration_seconds",
			Help:    "Duration of RecordAction operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementRecorded(action string, points int, multiplied bool) {
	m.ActionsRecorded.WithLabelValues(action).Inc()
	m.PointsAwarded.Add(float64(points))
	if multiplied {
		m.MultipliedActions.Inc()
	}
}

func (m *Metrics) SetActiveShortages(n int) {
	m.ActiveShortages.Set(float64(n))
}

// ObserveRecord records the duration of a RecordAction call started at start.
func (m *Metrics) ObserveRecord(start time.Time) {
	m.RecordDuration.Observe(time.Since(start).Seconds())
}
