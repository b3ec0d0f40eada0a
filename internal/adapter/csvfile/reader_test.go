package csvfile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irenelivia/DakarNowcasting/internal/domain"
)

func writeSeriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_Load(t *testing.T) {
	path := writeSeriesFile(t, `time,ta,rr,pa,ws
2021-08-12T12:00:00Z,25.0,0.0,1008.2,3.1
2021-08-12T12:01:00Z,24.8,0.2,1008.4,3.4
2021-08-12T12:02:00Z,,NaN,1008.9,
`)

	r := NewReader(path, "dakar-012", nil)
	series, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "dakar-012", series.Station)
	require.Len(t, series.Times, 3)
	assert.Equal(t, time.Date(2021, 8, 12, 12, 0, 0, 0, time.UTC), series.Times[0])
	assert.Equal(t, time.Date(2021, 8, 12, 12, 2, 0, 0, time.UTC), series.Times[2])

	assert.Equal(t, 25.0, series.Temperature[0])
	assert.Equal(t, 0.2, series.Rainfall[1])
	assert.True(t, math.IsNaN(series.Temperature[2]), "empty cell is missing")
	assert.True(t, math.IsNaN(series.Rainfall[2]), "NaN literal is missing")

	require.Contains(t, series.Aux, domain.VarPressure)
	require.Contains(t, series.Aux, domain.VarWind)
	assert.Equal(t, 1008.9, series.Aux[domain.VarPressure][2])
	assert.True(t, math.IsNaN(series.Aux[domain.VarWind][2]))
}

func TestReader_Load_SpaceSeparatedTimestamps(t *testing.T) {
	path := writeSeriesFile(t, `time,ta,rr
2021-08-12 12:00:00,25.0,0.0
2021-08-12 12:01:00,24.8,0.0
`)

	series, err := NewReader(path, "dakar", nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series.Times, 2)
	assert.Equal(t, time.Date(2021, 8, 12, 12, 1, 0, 0, time.UTC), series.Times[1])
	assert.Nil(t, series.Aux)
}

func TestReader_Load_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv"), "dakar", nil).Load(context.Background())
		require.Error(t, err)
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeSeriesFile(t, "time,ta\n2021-08-12T12:00:00Z,25.0\n")
		_, err := NewReader(path, "dakar", nil).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"rr"`)
	})

	t.Run("no data rows", func(t *testing.T) {
		path := writeSeriesFile(t, "time,ta,rr\n")
		_, err := NewReader(path, "dakar", nil).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})

	t.Run("bad timestamp names the row", func(t *testing.T) {
		path := writeSeriesFile(t, "time,ta,rr\nyesterday,25.0,0.0\n")
		_, err := NewReader(path, "dakar", nil).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeSeriesFile(t, "time,ta,rr\n2021-08-12T12:00:00Z,25.0,0.0\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewReader(path, "dakar", nil).Load(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
