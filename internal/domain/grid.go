package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeGrid is a strictly increasing, uniformly spaced timestamp sequence.
// All variable series of a station align index-for-index with one grid.
type TimeGrid struct {
	times []time.Time
	step  time.Duration
}

// NewTimeGrid validates that times form a regular grid and infers its step
// from the first pair of samples.
func NewTimeGrid(times []time.Time) (TimeGrid, error) {
	if len(times) < 2 {
		return TimeGrid{}, errors.New("time grid needs at least two samples")
	}
	step := times[1].Sub(times[0])
	if step <= 0 {
		return TimeGrid{}, errors.New("time grid is not strictly increasing")
	}
	for i := 2; i < len(times); i++ {
		if d := times[i].Sub(times[i-1]); d != step {
			return TimeGrid{}, fmt.Errorf("irregular spacing at sample %d: %s, grid step is %s", i, d, step)
		}
	}
	return TimeGrid{times: times, step: step}, nil
}

// Len returns the number of grid samples.
func (g TimeGrid) Len() int { return len(g.times) }

// Step returns the sampling interval.
func (g TimeGrid) Step() time.Duration { return g.step }

// At returns the timestamp of sample i.
func (g TimeGrid) At(i int) time.Time { return g.times[i] }
