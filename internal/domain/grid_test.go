package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeGrid(t *testing.T) {
	base := time.Date(2021, 8, 12, 0, 0, 0, 0, time.UTC)

	t.Run("regular minute grid", func(t *testing.T) {
		grid, err := NewTimeGrid(minuteGrid(base, 10))
		require.NoError(t, err)
		assert.Equal(t, 10, grid.Len())
		assert.Equal(t, time.Minute, grid.Step())
		assert.Equal(t, base.Add(3*time.Minute), grid.At(3))
	})

	t.Run("irregular spacing", func(t *testing.T) {
		times := minuteGrid(base, 10)
		times[5] = times[5].Add(30 * time.Second)
		_, err := NewTimeGrid(times)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "irregular spacing")
	})

	t.Run("not increasing", func(t *testing.T) {
		times := []time.Time{base, base}
		_, err := NewTimeGrid(times)
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := NewTimeGrid([]time.Time{base})
		require.Error(t, err)
	})
}
