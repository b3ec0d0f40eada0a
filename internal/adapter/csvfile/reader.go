// Package csvfile loads station time series from CSV files.
//
// The expected layout is a header row naming the columns, with "time", "ta"
// (air temperature) and "rr" (rainfall) required. Additional columns such as
// "pa" (pressure) and "ws" (wind speed) are carried along as auxiliary
// series. Empty cells and the literal "NaN" mark missing values.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/irenelivia/DakarNowcasting/internal/domain"
)

// timeLayouts are tried in order when parsing the time column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Reader loads a station series from a CSV file on each call.
// It implements pipeline.SeriesSource.
type Reader struct {
	path    string
	station string
	logger  *slog.Logger
}

// NewReader creates a Reader for the given file and station label.
func NewReader(path, station string, logger *slog.Logger) *Reader {
	return &Reader{path: path, station: station, logger: logger}
}

// Load reads and parses the whole file. The file is re-opened on every call
// so a periodic runner picks up appended samples.
func (r *Reader) Load(ctx context.Context) (domain.StationSeries, error) {
	if err := ctx.Err(); err != nil {
		return domain.StationSeries{}, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return domain.StationSeries{}, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return domain.StationSeries{}, fmt.Errorf("read series file %s: %w", r.path, err)
	}
	if len(rows) < 2 {
		return domain.StationSeries{}, fmt.Errorf("series file %s has no data rows", r.path)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return domain.StationSeries{}, fmt.Errorf("series file %s: %w", r.path, err)
	}

	n := len(rows) - 1
	series := domain.StationSeries{
		Station:     r.station,
		Times:       make([]time.Time, n),
		Temperature: make([]float64, n),
		Rainfall:    make([]float64, n),
	}
	aux := make(map[string][]float64, len(cols.aux))
	for name := range cols.aux {
		aux[name] = make([]float64, n)
	}

	for i, row := range rows[1:] {
		ts, err := parseTime(row[cols.time])
		if err != nil {
			return domain.StationSeries{}, fmt.Errorf("series file %s row %d: %w", r.path, i+2, err)
		}
		series.Times[i] = ts
		series.Temperature[i] = parseValue(row[cols.temperature])
		series.Rainfall[i] = parseValue(row[cols.rainfall])
		for name, idx := range cols.aux {
			aux[name][i] = parseValue(row[idx])
		}
	}
	if len(aux) > 0 {
		series.Aux = aux
	}

	if r.logger != nil {
		r.logger.Debug("series loaded", "path", r.path, "samples", n, "aux_columns", len(aux))
	}
	return series, nil
}

type columnMap struct {
	time        int
	temperature int
	rainfall    int
	aux         map[string]int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{time: -1, temperature: -1, rainfall: -1, aux: map[string]int{}}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "time":
			cols.time = i
		case "ta":
			cols.temperature = i
		case "rr":
			cols.rainfall = i
		case "":
			// ignore unnamed columns
		default:
			cols.aux[strings.TrimSpace(strings.ToLower(name))] = i
		}
	}
	for _, missing := range []struct {
		name string
		idx  int
	}{
		{"time", cols.time},
		{"ta", cols.temperature},
		{"rr", cols.rainfall},
	} {
		if missing.idx < 0 {
			return columnMap{}, fmt.Errorf("missing required column %q", missing.name)
		}
	}
	return cols, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

// parseValue maps empty cells and unparseable numbers to NaN; the detection
// engine treats NaN as a missing sample.
func parseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
