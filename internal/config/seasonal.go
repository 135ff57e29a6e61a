package config

import (
	"strconv"
	"strings"
	"time"
)

// SeasonalTable holds one spending multiplier per calendar month, January first.
// It is an array so copies never share state.
type SeasonalTable [12]float64

const (
	minSeasonalFactor = 0.5
	maxSeasonalFactor = 2.0
)

// DefaultSeasonalTable encodes the usual spend-heavy months: year-start bills
// and school supplies, carnival, mid-year holidays, Black Friday and December.
func DefaultSeasonalTable() SeasonalTable {
	return SeasonalTable{
		1.20, // January
		1.10, // February
		1.00, // March
		0.95, // April
		1.05, // May
		1.00, // June
		1.10, // July
		0.95, // August
		0.90, // September
		1.00, // October
		1.25, // November
		1.40, // December
	}
}

// Factor returns the multiplier for m. Out-of-range months yield 1.
func (t SeasonalTable) Factor(m time.Month) float64 {
	if m < time.January || m > time.December {
		return 1
	}
	f := t[m-1]
	if f <= 0 {
		return 1
	}
	return f
}

// WithOverrides returns a copy of t with the named months replaced. Keys may
// be full month names, three-letter abbreviations, or month numbers; values
// are clamped to a sane range and unknown keys are ignored.
func (t SeasonalTable) WithOverrides(overrides map[string]float64) SeasonalTable {
	out := t
	for key, v := range overrides {
		m, ok := parseMonthKey(key)
		if !ok || v <= 0 {
			continue
		}
		out[m-1] = min(max(v, minSeasonalFactor), maxSeasonalFactor)
	}
	return out
}

func parseMonthKey(key string) (time.Month, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n), true
		}
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if key == name || key == name[:3] {
			return m, true
		}
	}
	return 0, false
}
