package domain

import (
	"math"
	"time"
)

// EventTable aligns per-event windows of one variable on a common
// passage-relative sample axis: Offsets runs from -npre to +npost and
// Columns holds one window per detected event, keyed by passage time.
type EventTable struct {
	Offsets []int
	Times   []time.Time
	Columns [][]float64
}

// Empty reports whether the table holds no event windows.
func (t EventTable) Empty() bool { return len(t.Columns) == 0 }

// Windowed extracts the full event window of series for every detected
// event. A window that fails the per-event availability gate is replaced by
// missing values entirely, never populated partially. A series below the
// global availability threshold triggers an advisory warning only.
func (d *Detection) Windowed(series []float64) EventTable {
	if d.npre <= 0 || d.npost <= 0 {
		return EventTable{}
	}
	if !d.checkLen(series, "provided") {
		return EventTable{}
	}
	d.checkAvail(series, d.params.GlobalAvailability, d.params.WarnGlobalAvailability, "provided")

	tab := EventTable{Offsets: make([]int, d.npre+d.npost+1)}
	for i := range tab.Offsets {
		tab.Offsets[i] = i - d.npre
	}
	for k, icp := range d.events {
		start, stop := periodRange(icp, d.npre, d.npost, PeriodAll)
		col := make([]float64, stop-start)
		if d.checkAvail(series[start:stop], d.params.EventAvailability, d.params.WarnEventAvailability, "event") {
			copy(col, series[start:stop])
		} else {
			for i := range col {
				col[i] = math.NaN()
			}
		}
		tab.Times = append(tab.Times, d.times[k])
		tab.Columns = append(tab.Columns, col)
	}
	return tab
}

// PeriodValue reduces the given period of every event window of series to a
// scalar, one per event. An unknown period or reduction is reported and
// yields an empty result.
func (d *Detection) PeriodValue(series []float64, period Period, fn Reduction) []float64 {
	if !period.known() {
		d.logger.Warn("period not available", "period", period.String(), "pick_one_of", periodNames)
		return nil
	}
	if !fn.known() {
		d.logger.Warn("reduction not available", "reduction", fn.String(), "pick_one_of", reductionNames)
		return nil
	}
	tab := d.Windowed(series)
	if tab.Empty() {
		return nil
	}
	// Window-local coordinates: the passage sits at offset npre.
	start, stop := periodRange(d.npre, d.npre, d.npost, period)
	out := make([]float64, len(tab.Columns))
	for i, col := range tab.Columns {
		out[i] = reduce(col[start:stop], fn)
	}
	return out
}

// Perturbation returns, per event, the post-period reduction minus the
// pre-period reduction of series. The reduction pair expresses the expected
// direction of the anomaly, e.g. pre-median/post-min for temperature.
func (d *Detection) Perturbation(series []float64, preFn, postFn Reduction) []float64 {
	pre := d.PeriodValue(series, PeriodPre, preFn)
	post := d.PeriodValue(series, PeriodPost, postFn)
	if pre == nil || post == nil {
		return nil
	}
	out := make([]float64, len(pre))
	for i := range pre {
		out[i] = post[i] - pre[i]
	}
	return out
}

// TemperaturePerturbation returns the temperature drop per event: the
// post-passage minimum minus the pre-passage median.
func (d *Detection) TemperaturePerturbation() []float64 {
	return d.Perturbation(d.tt, ReduceMedian, ReduceMin)
}

// TemperatureBaseline returns the pre-passage median temperature per event.
func (d *Detection) TemperatureBaseline() []float64 {
	return d.PeriodValue(d.tt, PeriodPre, ReduceMedian)
}

// TemperatureWindows returns the temperature event table.
func (d *Detection) TemperatureWindows() EventTable { return d.Windowed(d.tt) }

// RainfallSum returns the event-accumulated rainfall per event.
func (d *Detection) RainfallSum() []float64 {
	return d.PeriodValue(d.rr, PeriodAll, ReduceSum)
}

// RainfallMax returns the maximum rainfall sample per event.
func (d *Detection) RainfallMax() []float64 {
	return d.PeriodValue(d.rr, PeriodAll, ReduceMax)
}

// RainfallWindows returns the rainfall event table.
func (d *Detection) RainfallWindows() EventTable { return d.Windowed(d.rr) }

// PressurePerturbation returns the air pressure rise per event, post-maximum
// minus pre-median.
func (d *Detection) PressurePerturbation(pressure []float64) []float64 {
	return d.Perturbation(pressure, ReduceMedian, ReduceMax)
}

// WindPerturbation returns the wind speed gust per event, post-maximum minus
// pre-median.
func (d *Detection) WindPerturbation(wind []float64) []float64 {
	return d.Perturbation(wind, ReduceMedian, ReduceMax)
}
