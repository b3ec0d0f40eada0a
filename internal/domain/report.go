package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Report is one detected cold-pool passage enriched with the perturbation
// statistics downstream consumers need.
type Report struct {
	ID      string    `json:"id"`
	Station string    `json:"station"`
	Index   int       `json:"index"`
	Time    time.Time `json:"time"`

	// TemperatureDrop is the post-minimum minus pre-median temperature (K).
	TemperatureDrop float64 `json:"temperature_drop"`
	// TemperaturePre is the pre-passage median temperature (baseline).
	TemperaturePre float64 `json:"temperature_pre"`

	RainfallSum float64 `json:"rainfall_sum"`
	RainfallMax float64 `json:"rainfall_max"`

	// PressureRise and WindGust are present only when the station supplies
	// the auxiliary series and its event window passed the availability gate.
	PressureRise *float64 `json:"pressure_rise,omitempty"`
	WindGust     *float64 `json:"wind_gust,omitempty"`

	DetectedAt time.Time `json:"detected_at"`
}

// BuildReports composes the detection query surface into one Report per
// accepted event.
func BuildReports(det *Detection, st StationSeries) []Report {
	n := det.Count()
	if n == 0 {
		return nil
	}

	indices := det.Indices()
	times := det.Times()
	ttPert := det.TemperaturePerturbation()
	ttPre := det.TemperatureBaseline()
	rrSum := det.RainfallSum()
	rrMax := det.RainfallMax()

	var ppPert, wsPert []float64
	if pp, ok := st.Aux[VarPressure]; ok {
		ppPert = det.PressurePerturbation(pp)
	}
	if ws, ok := st.Aux[VarWind]; ok {
		wsPert = det.WindPerturbation(ws)
	}

	now := clock.Now()
	reports := make([]Report, n)
	for i := 0; i < n; i++ {
		r := Report{
			ID:              reportID(st.Station, times[i]),
			Station:         st.Station,
			Index:           indices[i],
			Time:            times[i],
			TemperatureDrop: ttPert[i],
			TemperaturePre:  ttPre[i],
			RainfallSum:     rrSum[i],
			RainfallMax:     rrMax[i],
			DetectedAt:      now,
		}
		if ppPert != nil {
			r.PressureRise = finitePtr(ppPert[i])
		}
		if wsPert != nil {
			r.WindGust = finitePtr(wsPert[i])
		}
		reports[i] = r
	}
	return reports
}

// reportID derives a deterministic ID from station and passage time, so
// replaying the same series produces the same IDs and sinks can upsert
// idempotently.
func reportID(station string, passage time.Time) string {
	sum := sha256.Sum256([]byte(station + "|" + passage.UTC().Format(time.RFC3339)))
	return "cp-" + hex.EncodeToString(sum[:8])
}

func finitePtr(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}
