package domain

import "time"

// Params holds the cold-pool detection thresholds. Durations share the time
// base of the grid and are converted to sample counts by integer division by
// the grid step; a duration shorter than one step disables detection.
type Params struct {
	// DropThreshold is the temperature drop (K, negative) that must occur
	// within DropWindow for a candidate cold pool.
	DropThreshold float64
	DropWindow    time.Duration

	// PreWindow and PostWindow bound the event periods around a passage.
	PreWindow  time.Duration
	PostWindow time.Duration

	// PassageThreshold is the initial temperature drop (K, negative, smaller
	// in magnitude than DropThreshold) that pins the passage time.
	PassageThreshold float64

	// EventAvailability is the minimum finite fraction required of every
	// series inside an event window, both for detection and for statistics.
	EventAvailability float64

	// GlobalAvailability is the advisory threshold for whole input series;
	// falling below it warns but never blocks detection.
	GlobalAvailability float64

	WarnEventAvailability  bool
	WarnGlobalAvailability bool
}

// DefaultParams returns the thresholds of the reference configuration:
// a 2 K drop within 20 min, 30 min pre / 60 min post windows, a 0.5 K
// passage threshold, full per-event coverage and 90% global coverage.
func DefaultParams() Params {
	return Params{
		DropThreshold:          -2,
		DropWindow:             20 * time.Minute,
		PreWindow:              30 * time.Minute,
		PostWindow:             60 * time.Minute,
		PassageThreshold:       -0.5,
		EventAvailability:      1.0,
		GlobalAvailability:     0.9,
		WarnEventAvailability:  true,
		WarnGlobalAvailability: true,
	}
}
