// Package metrics exposes Prometheus instrumentation for the wizard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for wizard sessions and snapshot persistence.
type Metrics struct {
	Navigations      *prometheus.CounterVec
	Recomputes       prometheus.Counter
	Progress         prometheus.Histogram
	ActiveSessions   prometheus.Gauge
	SnapshotWrites   *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
}

// New registers every wizard metric with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_navigations_total",
			Help: "Navigation requests by source and whether the target changed",
		}, []string{"source", "changed"}),
		Recomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboarding_completion_recomputes_total",
			Help: "Full completion recomputations triggered by field changes",
		}),
		Progress: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboarding_overall_progress_percent",
			Help:    "Overall progress observed after each recompute",
			Buckets: []float64{0, 10, 25, 50, 75, 90, 100},
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "onboarding_active_sessions",
			Help: "Wizard sessions currently held in memory",
		}),
		SnapshotWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_snapshot_writes_total",
			Help: "Debounced snapshot writes by outcome",
		}, []string{"outcome"}),
		RequestDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onboarding_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// NavigationRequested records a navigation request.
func (m *Metrics) NavigationRequested(source string, changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.Navigations.WithLabelValues(source, label).Inc()
}

// CompletionRecomputed records a recompute and the resulting progress.
func (m *Metrics) CompletionRecomputed(progress int) {
	m.Recomputes.Inc()
	m.Progress.Observe(float64(progress))
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}

// SnapshotWritten records a snapshot write outcome. Matches snapshot.WriterConfig.OnWrite.
func (m *Metrics) SnapshotWritten(_ string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SnapshotWrites.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the duration of an HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDurations.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
