package domain

import (
	"log/slog"
	"math"
	"time"
)

// RejectReason classifies why a candidate drop was not accepted as an event.
type RejectReason string

const (
	RejectSeparation   RejectReason = "separation"
	RejectBoundary     RejectReason = "boundary"
	RejectAvailability RejectReason = "availability"
	RejectNoRainfall   RejectReason = "no_rainfall"
)

// Detection is the frozen result of one cold-pool detection run. The scan
// executes once inside Detect; every method afterwards is a pure read and
// safe for concurrent callers.
type Detection struct {
	grid   TimeGrid
	ntime  int
	tt, rr []float64
	params Params
	logger *slog.Logger

	npre, npost int
	events      []int
	times       []time.Time
	rejections  map[RejectReason]int
}

// Detect validates the inputs and runs the detection scan. It never fails:
// a rejected grid, mismatched series lengths or unresolvable durations
// disable detection, leaving a queryable Detection with zero events and a
// diagnostic explaining why.
func Detect(times []time.Time, temperature, rainfall []float64, p Params, logger *slog.Logger) *Detection {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Detection{
		ntime:      -1,
		params:     p,
		logger:     logger,
		rejections: make(map[RejectReason]int),
	}

	grid, err := NewTimeGrid(times)
	if err != nil {
		logger.Error("time grid rejected, detection disabled", "error", err)
		return d
	}
	d.grid = grid
	d.ntime = grid.Len()

	okTT := d.checkLen(temperature, "TT")
	okRR := d.checkLen(rainfall, "RR")
	if !okTT || !okRR {
		return d
	}
	d.tt = temperature
	d.rr = rainfall

	// Advisory only: low overall coverage degrades statistics but does not
	// block detection.
	d.checkAvail(temperature, p.GlobalAvailability, p.WarnGlobalAvailability, "TT")
	d.checkAvail(rainfall, p.GlobalAvailability, p.WarnGlobalAvailability, "RR")

	step := grid.Step()
	ntt := int(p.DropWindow / step)
	npre := int(p.PreWindow / step)
	npost := int(p.PostWindow / step)
	if ntt <= 0 {
		logger.Error("sampling interval too coarse for drop window", "step", step, "drop_window", p.DropWindow)
	}
	if npre <= 0 {
		logger.Error("sampling interval too coarse for pre window", "step", step, "pre_window", p.PreWindow)
	}
	if npost <= 0 {
		logger.Error("sampling interval too coarse for post window", "step", step, "post_window", p.PostWindow)
	}
	if ntt <= 0 || npre <= 0 || npost <= 0 {
		return d
	}
	d.npre = npre
	d.npost = npost

	d.scan(ntt)
	return d
}

// scan walks the temperature series for drop candidates and applies the
// sequential rejection cascade. The minimum-separation rule carries the
// previously accepted refined index as state, so it must run as a fold over
// candidates in increasing order, not as an independent per-candidate
// predicate.
func (d *Detection) scan(ntt int) {
	n := d.ntime
	prev := math.MinInt32 // out of range, never rejects the first candidate

	for t := 0; t+ntt < n; t++ {
		// NaN on either side fails the comparison and skips the position.
		if !(d.tt[t+ntt]-d.tt[t] <= d.params.DropThreshold) {
			continue
		}

		// Raw candidate index against previous refined passage index.
		if t-prev <= d.npost {
			d.rejections[RejectSeparation]++
			continue
		}

		icp := d.refinePassage(t, ntt)
		if icp < 0 {
			continue
		}

		start, stop := periodRange(icp, d.npre, d.npost, PeriodAll)
		if start < 0 || stop > n {
			d.rejections[RejectBoundary]++
			continue
		}

		okTT := d.checkAvail(d.tt[start:stop], d.params.EventAvailability, false, "TT")
		okRR := d.checkAvail(d.rr[start:stop], d.params.EventAvailability, false, "RR")
		if !okTT || !okRR {
			d.rejections[RejectAvailability]++
			continue
		}

		postStart, postStop := periodRange(icp, d.npre, d.npost, PeriodPost)
		if rawSum(d.rr[postStart:postStop]) == 0 {
			d.rejections[RejectNoRainfall]++
			continue
		}

		d.events = append(d.events, icp)
		d.times = append(d.times, d.grid.At(icp))
		prev = icp
	}
}

// refinePassage pinpoints the onset of the drop: one sample before the first
// index in [t, t+ntt] where temperature has fallen by the passage threshold
// from the window's starting value. The candidate condition guarantees a hit
// as long as PassageThreshold is no stronger than DropThreshold.
func (d *Detection) refinePassage(t, ntt int) int {
	limit := d.tt[t] + d.params.PassageThreshold
	for j := t; j <= t+ntt; j++ {
		if d.tt[j] <= limit {
			return j - 1
		}
	}
	return -1
}

// rawSum propagates NaN, unlike the skipping reductions: a post window
// with missing rainfall must not be mistaken for a dry one.
func rawSum(xs []float64) float64 {
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s
}

// checkLen verifies a series aligns with the time grid. Silent when the grid
// itself was already rejected.
func (d *Detection) checkLen(series []float64, label string) bool {
	if d.ntime >= 0 && len(series) == d.ntime {
		return true
	}
	if d.ntime != -1 {
		d.logger.Error("series length does not match time grid",
			"series", label, "series_len", len(series), "grid_len", d.ntime)
	}
	return false
}

// checkAvail reports whether the finite fraction of series meets threshold,
// optionally warning with the offending label and percentages.
func (d *Detection) checkAvail(series []float64, threshold float64, warn bool, label string) bool {
	if len(series) == 0 {
		return false
	}
	finite := 0
	for _, v := range series {
		if isFinite(v) {
			finite++
		}
	}
	frac := float64(finite) / float64(len(series))
	if frac >= threshold {
		return true
	}
	if warn {
		d.logger.Warn("data availability below threshold",
			"series", label,
			"required_pct", roundPct(threshold),
			"actual_pct", roundPct(frac))
	}
	return false
}

// roundPct converts a fraction to a percentage with one decimal place.
func roundPct(f float64) float64 { return math.Round(f*1000) / 10 }

// Count returns the number of detected cold-pool events.
func (d *Detection) Count() int { return len(d.events) }

// Indices returns the grid indices of the detected passages, in increasing
// order.
func (d *Detection) Indices() []int {
	out := make([]int, len(d.events))
	copy(out, d.events)
	return out
}

// Times returns the passage timestamps of the detected events.
func (d *Detection) Times() []time.Time {
	out := make([]time.Time, len(d.times))
	copy(out, d.times)
	return out
}

// RejectionCounts returns how many candidates each cascade rule discarded.
func (d *Detection) RejectionCounts() map[RejectReason]int {
	out := make(map[RejectReason]int, len(d.rejections))
	for k, v := range d.rejections {
		out[k] = v
	}
	return out
}
