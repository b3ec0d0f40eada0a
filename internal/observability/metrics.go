package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// detection service.
type Metrics struct {
	RunsTotal prometheus.Counter
	RunErrors prometheus.Counter

	EventsDetected     prometheus.Counter
	CandidatesRejected *prometheus.CounterVec // label: reason
	ReportsPublished   *prometheus.CounterVec // label: sink

	DetectionDuration prometheus.Histogram
	SeriesSamples     prometheus.Gauge
	LastRunEvents     prometheus.Gauge
}

// NewMetrics creates and registers all detection metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldpool",
			Name:      "runs_total",
			Help:      "Total detection runs attempted.",
		}),
		RunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldpool",
			Name:      "run_errors_total",
			Help:      "Detection runs that failed before producing reports.",
		}),
		EventsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coldpool",
			Name:      "events_detected_total",
			Help:      "Cold pool passages accepted by the detection cascade.",
		}),
		CandidatesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coldpool",
			Name:      "candidates_rejected_total",
			Help:      "Drop candidates discarded, by rejection reason.",
		}, []string{"reason"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coldpool",
			Name:      "reports_published_total",
			Help:      "Event reports delivered, by sink.",
		}, []string{"sink"}),
		DetectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coldpool",
			Name:      "detection_duration_seconds",
			Help:      "Duration of a complete load-detect-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SeriesSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coldpool",
			Name:      "series_samples",
			Help:      "Number of samples in the most recently loaded series.",
		}),
		LastRunEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coldpool",
			Name:      "last_run_events",
			Help:      "Events detected in the most recent run.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunErrors,
		m.EventsDetected,
		m.CandidatesRejected,
		m.ReportsPublished,
		m.DetectionDuration,
		m.SeriesSamples,
		m.LastRunEvents,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "coldpool", Name: "runs_total"}),
		RunErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "coldpool", Name: "run_errors_total"}),
		EventsDetected:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "coldpool", Name: "events_detected_total"}),
		CandidatesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "coldpool", Name: "candidates_rejected_total"}, []string{"reason"}),
		ReportsPublished:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "coldpool", Name: "reports_published_total"}, []string{"sink"}),
		DetectionDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "coldpool", Name: "detection_duration_seconds"}),
		SeriesSamples:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "coldpool", Name: "series_samples"}),
		LastRunEvents:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "coldpool", Name: "last_run_events"}),
	}
}
