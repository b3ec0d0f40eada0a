package domain

import "github.com/jonboulle/clockwork"

// clock stamps DetectedAt on reports. Package-level so tests can freeze it
// via SetClock; production code runs on the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the report time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
