package domain

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowed(t *testing.T) {
	times, tt, rr := singleEventFixture(100)
	det := Detect(times, tt, rr, testParams(), discardLogger())
	require.Equal(t, 1, det.Count())

	t.Run("offset axis runs from -npre to npost", func(t *testing.T) {
		tab := det.Windowed(tt)
		require.Len(t, tab.Offsets, 26)
		assert.Equal(t, -10, tab.Offsets[0])
		assert.Equal(t, 0, tab.Offsets[10])
		assert.Equal(t, 15, tab.Offsets[25])
	})

	t.Run("round-trips the raw sub-array", func(t *testing.T) {
		aux := make([]float64, 100)
		for i := range aux {
			aux[i] = float64(i) * 0.25
		}
		tab := det.Windowed(aux)
		require.Len(t, tab.Columns, 1)
		assert.Equal(t, aux[29:55], tab.Columns[0])
		assert.Equal(t, testBase.Add(39*time.Minute), tab.Times[0])
	})

	t.Run("length mismatch yields empty table", func(t *testing.T) {
		tab := det.Windowed(make([]float64, 50))
		assert.True(t, tab.Empty())
	})

	t.Run("gated window is nulled entirely", func(t *testing.T) {
		aux := flatSeries(100, 1000)
		aux[45] = math.NaN() // one gap fails the default full-coverage gate

		h := &recordingHandler{}
		detWarn := Detect(times, tt, rr, testParams(), slog.New(h))
		tab := detWarn.Windowed(aux)

		require.Len(t, tab.Columns, 1)
		for _, v := range tab.Columns[0] {
			assert.True(t, math.IsNaN(v))
		}
		assert.Contains(t, h.messages(), "data availability below threshold")
	})
}

func TestPeriodValue(t *testing.T) {
	times, tt, rr := singleEventFixture(100)
	det := Detect(times, tt, rr, testParams(), discardLogger())
	require.Equal(t, 1, det.Count())

	t.Run("pre median is the undisturbed baseline", func(t *testing.T) {
		got := det.PeriodValue(tt, PeriodPre, ReduceMedian)
		require.Len(t, got, 1)
		assert.Equal(t, 25.0, got[0])
	})

	t.Run("post min is the drop floor", func(t *testing.T) {
		got := det.PeriodValue(tt, PeriodPost, ReduceMin)
		require.Len(t, got, 1)
		assert.Equal(t, 22.0, got[0])
	})

	t.Run("all sum accumulates rainfall", func(t *testing.T) {
		got := det.PeriodValue(rr, PeriodAll, ReduceSum)
		require.Len(t, got, 1)
		assert.Equal(t, 2.0, got[0])
	})

	t.Run("unknown reduction is reported, not fatal", func(t *testing.T) {
		h := &recordingHandler{}
		detWarn := Detect(times, tt, rr, testParams(), slog.New(h))
		got := detWarn.PeriodValue(tt, PeriodPre, Reduction(42))
		assert.Nil(t, got)
		assert.Contains(t, h.messages(), "reduction not available")
	})

	t.Run("unknown period is reported, not fatal", func(t *testing.T) {
		h := &recordingHandler{}
		detWarn := Detect(times, tt, rr, testParams(), slog.New(h))
		got := detWarn.PeriodValue(tt, Period(7), ReduceMean)
		assert.Nil(t, got)
		assert.Contains(t, h.messages(), "period not available")
	})
}

func TestPerturbation(t *testing.T) {
	times, tt, rr := singleEventFixture(100)
	det := Detect(times, tt, rr, testParams(), discardLogger())
	require.Equal(t, 1, det.Count())
	icp := det.Indices()[0]

	t.Run("matches independently computed reductions", func(t *testing.T) {
		aux := make([]float64, 100)
		for i := range aux {
			aux[i] = math.Sin(float64(i) / 7)
		}
		preStart, preStop := periodRange(icp, 10, 15, PeriodPre)
		postStart, postStop := periodRange(icp, 10, 15, PeriodPost)
		want := reduce(aux[postStart:postStop], ReduceMax) - reduce(aux[preStart:preStop], ReduceMedian)

		got := det.Perturbation(aux, ReduceMedian, ReduceMax)
		require.Len(t, got, 1)
		assert.InDelta(t, want, got[0], 1e-12)
	})

	t.Run("temperature shortcut uses pre-median post-min", func(t *testing.T) {
		got := det.TemperaturePerturbation()
		require.Len(t, got, 1)
		assert.Equal(t, -3.0, got[0])
	})

	t.Run("baseline shortcut", func(t *testing.T) {
		got := det.TemperatureBaseline()
		require.Len(t, got, 1)
		assert.Equal(t, 25.0, got[0])
	})

	t.Run("rainfall shortcuts", func(t *testing.T) {
		sum := det.RainfallSum()
		max := det.RainfallMax()
		require.Len(t, sum, 1)
		require.Len(t, max, 1)
		assert.Equal(t, 2.0, sum[0])
		assert.Equal(t, 2.0, max[0])
	})

	t.Run("pressure and wind shortcuts use post-max", func(t *testing.T) {
		pp := flatSeries(100, 1010)
		for i := 40; i < 50; i++ {
			pp[i] = 1012
		}
		got := det.PressurePerturbation(pp)
		require.Len(t, got, 1)
		assert.Equal(t, 2.0, got[0])

		ws := flatSeries(100, 2)
		ws[44] = 9
		gust := det.WindPerturbation(ws)
		require.Len(t, gust, 1)
		assert.Equal(t, 7.0, gust[0])
	})

	t.Run("gated series propagates missing", func(t *testing.T) {
		aux := flatSeries(100, 5)
		aux[45] = math.NaN()
		got := det.Perturbation(aux, ReduceMedian, ReduceMax)
		require.Len(t, got, 1)
		assert.True(t, math.IsNaN(got[0]), "nulled window must yield a missing perturbation")
	})

	t.Run("windows and perturbations agree", func(t *testing.T) {
		tab := det.Windowed(tt)
		require.Len(t, tab.Columns, 1)
		win := tab.Columns[0]
		want := reduce(win[11:], ReduceMin) - reduce(win[:11], ReduceMedian)
		assert.Equal(t, want, det.TemperaturePerturbation()[0])
	})
}
