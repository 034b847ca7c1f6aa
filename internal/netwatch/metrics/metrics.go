package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the netwatch module.
type Metrics struct {
	// Devices created and refreshed during reconciliation
	DevicesCreated prometheus.Counter
	DevicesUpdated prometheus.Counter

	// Observations dropped for carrying no usable identity
	ObservationsSkipped prometheus.Counter

	// Latency of a full scan reconciliation batch
	ReconcileLatency prometheus.Histogram
}

// New creates a Metrics instance with all netwatch module metrics registered.
func New() *Metrics {
	return &Metrics{
		DevicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antygravity_netwatch_devices_created_total",
			Help: "Total devices created by scan reconciliation",
		}),
		DevicesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antygravity_netwatch_devices_updated_total",
			Help: "Total devices refreshed by scan reconciliation",
		}),
		ObservationsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "antygravity_netwatch_observations_skipped_total",
			Help: "Total scan observations dropped for missing both MAC and IP",
		}),
		ReconcileLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "antygravity_netwatch_reconcile_duration_seconds",
			Help:    "Duration of one scan reconciliation batch",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// RecordCreated counts a device created during reconciliation.
func (m *Metrics) RecordCreated() {
	if m != nil {
		m.DevicesCreated.Inc()
	}
}

// RecordUpdated counts a device refreshed during reconciliation.
func (m *Metrics) RecordUpdated() {
	if m != nil {
		m.DevicesUpdated.Inc()
	}
}

// RecordSkipped counts an observation dropped for missing identity.
func (m *Metrics) RecordSkipped() {
	if m != nil {
		m.ObservationsSkipped.Inc()
	}
}

// ObserveReconcile records the duration of a reconciliation batch.
func (m *Metrics) ObserveReconcile(d time.Duration) {
	if m != nil {
		m.ReconcileLatency.Observe(d.Seconds())
	}
}
