package config

import (
	"testing"
	"time"
)

func TestDefaultSeasonalTable_Range(t *testing.T) {
	table := DefaultSeasonalTable()
	for m := time.January; m <= time.December; m++ {
		f := table.Factor(m)
		if f < 0.9 || f > 1.4 {
			t.Errorf("Factor(%s) = %.2f, want within [0.90, 1.40]", m, f)
		}
	}
	if table.Factor(time.December) != 1.40 {
		t.Errorf("December = %.2f, want 1.40", table.Factor(time.December))
	}
}

func TestSeasonalTable_FactorOutOfRange(t *testing.T) {
	if f := DefaultSeasonalTable().Factor(0); f != 1 {
		t.Errorf("Factor(0) = %.2f, want 1", f)
	}
	var zero SeasonalTable
	if f := zero.Factor(time.March); f != 1 {
		t.Errorf("zero table Factor = %.2f, want 1", f)
	}
}

func TestSeasonalTable_WithOverrides(t *testing.T) {
	base := DefaultSeasonalTable()
	got := base.WithOverrides(map[string]float64{
		"Feb":    1.3,
		"7":      5.0,
		"13":     1.1,
		"smarch": 1.1,
		"march":  -1,
	})

	if got.Factor(time.February) != 1.3 {
		t.Errorf("February = %.2f, want 1.30", got.Factor(time.February))
	}
	if got.Factor(time.July) != maxSeasonalFactor {
		t.Errorf("July = %.2f, want clamp %.2f", got.Factor(time.July), maxSeasonalFactor)
	}
	if got.Factor(time.March) != base.Factor(time.March) {
		t.Errorf("March changed to %.2f", got.Factor(time.March))
	}
	if base.Factor(time.February) != 1.10 {
		t.Errorf("base table mutated: February = %.2f", base.Factor(time.February))
	}
}
