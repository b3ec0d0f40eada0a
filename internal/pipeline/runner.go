package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/irenelivia/DakarNowcasting/internal/domain"
	"github.com/irenelivia/DakarNowcasting/internal/observability"
)

// SeriesSource loads the station time series to run detection on.
type SeriesSource interface {
	Load(ctx context.Context) (domain.StationSeries, error)
}

// ReportSink delivers event reports to a destination.
type ReportSink interface {
	Store(ctx context.Context, reports []domain.Report) error
	Name() string
}

// LastRun summarizes the most recent detection cycle for the status endpoint.
type LastRun struct {
	At         time.Time                   `json:"at"`
	Station    string                      `json:"station"`
	Samples    int                         `json:"samples"`
	Events     int                         `json:"events"`
	Rejections map[domain.RejectReason]int `json:"rejections,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// Runner orchestrates the load-detect-publish cycle, either once or on a
// fixed interval.
type Runner struct {
	source   SeriesSource
	sinks    []ReportSink
	params   domain.Params
	logger   *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
	clock    clockwork.Clock

	ready atomic.Bool

	mu   sync.RWMutex
	last LastRun
}

// New creates a Runner. An interval of zero means a single detection run.
func New(source SeriesSource, sinks []ReportSink, params domain.Params, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration) *Runner {
	return &Runner{
		source:   source,
		sinks:    sinks,
		params:   params,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock replaces the runner's clock. Pass nil to restore the real clock.
func (r *Runner) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	r.clock = c
}

// CheckReadiness returns nil once at least one detection cycle has completed.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no detection cycle has completed yet")
	}
	return nil
}

// LastRun returns a snapshot of the most recent cycle.
func (r *Runner) LastRun() LastRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Run executes detection cycles until the context is cancelled. With a zero
// interval it runs once and returns.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started", "interval", r.interval.String())

	if err := r.runOnce(ctx); err != nil {
		r.logger.Error("detection cycle failed", "error", err)
	}
	if r.interval <= 0 {
		return nil
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if err := r.runOnce(ctx); err != nil {
				r.logger.Error("detection cycle failed", "error", err)
			}
		}
	}
}

// runOnce performs a single load-detect-publish cycle.
func (r *Runner) runOnce(ctx context.Context) error {
	start := r.clock.Now()
	r.metrics.RunsTotal.Inc()

	series, err := r.source.Load(ctx)
	if err != nil {
		r.metrics.RunErrors.Inc()
		r.record(LastRun{At: start, Error: err.Error()})
		return err
	}
	r.metrics.SeriesSamples.Set(float64(len(series.Times)))

	det := domain.Detect(series.Times, series.Temperature, series.Rainfall, r.params, r.logger)
	rejections := det.RejectionCounts()
	for reason, n := range rejections {
		r.metrics.CandidatesRejected.WithLabelValues(string(reason)).Add(float64(n))
	}

	reports := domain.BuildReports(det, series)
	r.metrics.EventsDetected.Add(float64(len(reports)))
	r.metrics.LastRunEvents.Set(float64(len(reports)))

	var firstErr error
	if len(reports) > 0 {
		for _, sink := range r.sinks {
			if err := sink.Store(ctx, reports); err != nil {
				r.metrics.RunErrors.Inc()
				r.logger.Error("report delivery failed", "sink", sink.Name(), "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			r.metrics.ReportsPublished.WithLabelValues(sink.Name()).Add(float64(len(reports)))
		}
	}

	r.metrics.DetectionDuration.Observe(r.clock.Since(start).Seconds())
	r.ready.Store(true)

	last := LastRun{
		At:         start,
		Station:    series.Station,
		Samples:    len(series.Times),
		Events:     len(reports),
		Rejections: rejections,
	}
	if firstErr != nil {
		last.Error = firstErr.Error()
	}
	r.record(last)

	r.logger.Info("detection cycle complete",
		"station", series.Station,
		"samples", len(series.Times),
		"events", len(reports),
	)
	return firstErr
}

func (r *Runner) record(last LastRun) {
	r.mu.Lock()
	r.last = last
	r.mu.Unlock()
}
