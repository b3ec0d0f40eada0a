// Command genseries writes a synthetic station series CSV for local runs:
// a diurnal temperature cycle with noise, plus a configurable number of
// injected cold pool passages with rainfall.
package main

import (
	"encoding/csv"
	"flag"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"
)

func main() {
	var (
		out     = flag.String("out", "station.csv", "output CSV path")
		samples = flag.Int("samples", 1440, "number of samples")
		step    = flag.Duration("step", time.Minute, "sampling interval")
		events  = flag.Int("events", 3, "number of cold pool passages to inject")
		seed    = flag.Int64("seed", 1, "random seed")
		start   = flag.String("start", "2021-08-12T00:00:00Z", "series start time (RFC3339)")
	)
	flag.Parse()

	begin, err := time.Parse(time.RFC3339, *start)
	if err != nil {
		slog.Error("invalid start time", "error", err)
		os.Exit(1)
	}
	if *samples < 2 || *step <= 0 {
		slog.Error("need at least 2 samples and a positive step")
		os.Exit(1)
	}

	if err := write(*out, generate(begin, *samples, *step, *events, *seed)); err != nil {
		slog.Error("write failed", "error", err)
		os.Exit(1)
	}
	slog.Info("series written", "path", *out, "samples", *samples, "events", *events)
}

type sample struct {
	time        time.Time
	temperature float64
	rainfall    float64
	pressure    float64
	wind        float64
}

func generate(begin time.Time, n int, step time.Duration, events int, seed int64) []sample {
	rng := rand.New(rand.NewSource(seed))

	out := make([]sample, n)
	for i := range out {
		ts := begin.Add(time.Duration(i) * step)
		// Diurnal cycle peaking mid-afternoon, ~6 K amplitude.
		hour := float64(ts.Hour()) + float64(ts.Minute())/60
		diurnal := 27 + 3*math.Sin((hour-9)*math.Pi/12)
		out[i] = sample{
			time:        ts,
			temperature: diurnal + rng.NormFloat64()*0.15,
			rainfall:    0,
			pressure:    1009 + 1.5*math.Sin((hour-4)*math.Pi/12) + rng.NormFloat64()*0.2,
			wind:        3 + rng.Float64()*2,
		}
	}

	// Spread passages evenly, away from the series edges.
	for e := 0; e < events; e++ {
		at := (e + 1) * n / (events + 1)
		injectPassage(out, at, rng)
	}
	return out
}

// injectPassage overlays a sharp drop, a gust front, a pressure rise, and a
// short rain burst starting at index at.
func injectPassage(out []sample, at int, rng *rand.Rand) {
	drop := 3 + rng.Float64()*2
	for i := 0; i < 60 && at+i < len(out); i++ {
		frac := math.Min(float64(i)/10, 1) // full drop after 10 samples
		recovery := math.Max(0, float64(i-30)) / 60
		out[at+i].temperature -= drop * frac * (1 - recovery)
		out[at+i].pressure += 2 * frac * (1 - recovery)
		if i < 15 {
			out[at+i].wind += 6 * (1 - float64(i)/15)
		}
		if i >= 5 && i < 25 {
			out[at+i].rainfall = rng.Float64() * 1.5
		}
	}
}

func write(path string, samples []sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "ta", "rr", "pa", "ws"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.time.UTC().Format(time.RFC3339),
			formatValue(s.temperature),
			formatValue(s.rainfall),
			formatValue(s.pressure),
			formatValue(s.wind),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
