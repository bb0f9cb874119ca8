package gameimport

import "math"

// Missing values follow two separate policies:
//   - totals propagate absence: sumOrNull returns nil if any input is nil
//   - differentials treat absence as zero: diffOrZero never returns nil
// Keep them apart; a missing checkpoint must not turn a team total into zero.

func intPtr(v int) *int {
	return &v
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func sumOrNull(values ...*int) *int {
	total := 0
	for _, v := range values {
		if v == nil {
			return nil
		}
		total += *v
	}
	return &total
}

func diffOrZero(self, opponent *int) int {
	return valueOrZero(self) - valueOrZero(opponent)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// perMinute divides by the game length in minutes. Zero values and
// zero-length games yield 0.
func perMinute(value int, durationSeconds int) float64 {
	if value == 0 || durationSeconds <= 0 {
		return 0
	}
	return round2(float64(value) / (float64(durationSeconds) / 60))
}

func share(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole))
}
