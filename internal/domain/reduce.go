package domain

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reduction is one of the closed set of window statistics.
type Reduction int

const (
	ReduceMedian Reduction = iota
	ReduceMean
	ReduceMax
	ReduceMin
	ReduceSum
	ReduceFirst
	ReduceLast
)

var reductionNames = []string{"median", "mean", "max", "min", "sum", "first", "last"}

func (r Reduction) known() bool {
	return r >= ReduceMedian && r <= ReduceLast
}

func (r Reduction) String() string {
	if !r.known() {
		return fmt.Sprintf("reduction(%d)", int(r))
	}
	return reductionNames[r]
}

// ParseReduction converts a reduction name to a Reduction.
func ParseReduction(s string) (Reduction, error) {
	for i, name := range reductionNames {
		if s == name {
			return Reduction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reduction %q, pick one of %v", s, reductionNames)
}

// reduce applies r to window. Missing samples are skipped: median, mean, max
// and min of an all-missing window are NaN, its sum is 0. First and last are
// positional and may themselves be NaN.
func reduce(window []float64, r Reduction) float64 {
	switch r {
	case ReduceFirst:
		if len(window) == 0 {
			return math.NaN()
		}
		return window[0]
	case ReduceLast:
		if len(window) == 0 {
			return math.NaN()
		}
		return window[len(window)-1]
	}

	finite := make([]float64, 0, len(window))
	for _, v := range window {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if r == ReduceSum {
		return floats.Sum(finite)
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	switch r {
	case ReduceMedian:
		return median(finite)
	case ReduceMean:
		return stat.Mean(finite, nil)
	case ReduceMax:
		return floats.Max(finite)
	default:
		return floats.Min(finite)
	}
}

// median averages the two middle samples for even-length input.
func median(xs []float64) float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
