package domain

import "time"

// Auxiliary variable names recognized in station files, following the
// DWD-style abbreviations of the source network.
const (
	VarPressure = "pa" // air pressure (hPa)
	VarWind     = "ws" // wind speed (m/s)
)

// StationSeries is the normalized form of one station's observations.
// Whatever shape the external source has, it is converted to this single
// representation before any detection logic runs. Missing samples are NaN.
type StationSeries struct {
	Station     string
	Times       []time.Time
	Temperature []float64
	Rainfall    []float64

	// Aux holds additional variables, keyed by name, that are windowed and
	// aggregated around detected passages but play no role in detection.
	Aux map[string][]float64
}
