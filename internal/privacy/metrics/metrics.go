package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the privacy module.
type Metrics struct {
	// Privacy checks by suggested action
	ChecksTotal *prometheus.CounterVec

	// Distribution of computed privacy scores
	ScoreDistribution prometheus.Histogram

	// Latency of a full check (scoring plus persistence)
	CheckLatency prometheus.Histogram
}

// New creates a Metrics instance with all privacy module metrics registered.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "antygravity_privacy_checks_total",
			Help: "Total privacy checks by suggested action",
		}, []string{"action"}),

		ScoreDistribution: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antygravity_privacy_score",
			Help:    "Distribution of computed privacy scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antygravity_privacy_check_duration_seconds",
			Help:    "Duration of a privacy check including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordCheck records one completed privacy check.
func (m *Metrics) RecordCheck(action string, score int, d time.Duration) {
	if m != nil {
		m.ChecksTotal.WithLabelValues(action).Inc()
		m.ScoreDistribution.Observe(float64(score))
		m.CheckLatency.Observe(d.Seconds())
	}
}
