package domain

import "fmt"

// Period selects one of the three sample ranges around a passage.
type Period int

const (
	PeriodPre Period = iota
	PeriodPost
	PeriodAll
)

var periodNames = []string{"pre", "post", "all"}

func (p Period) known() bool {
	return p >= PeriodPre && p <= PeriodAll
}

func (p Period) String() string {
	if !p.known() {
		return fmt.Sprintf("period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod converts a period name ("pre", "post", "all") to a Period.
func ParsePeriod(s string) (Period, error) {
	for i, name := range periodNames {
		if s == name {
			return Period(i), nil
		}
	}
	return 0, fmt.Errorf("unknown period %q, pick one of %v", s, periodNames)
}

// periodRange returns the half-open [start, stop) sample range of period
// relative to a passage at index icp. Callers bound-check against the grid.
func periodRange(icp, npre, npost int, period Period) (start, stop int) {
	switch period {
	case PeriodPre:
		return icp - npre, icp + 1
	case PeriodPost:
		return icp + 1, icp + npost + 1
	default:
		return icp - npre, icp + npost + 1
	}
}
