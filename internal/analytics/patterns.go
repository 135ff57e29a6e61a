package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
)

const trendThreshold = 0.20

// Window is a half-open calendar range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Days is the window length in calendar days, never less than 1.
func (w Window) Days() int {
	return max(daysBetween(w.Start, w.End), 1)
}

// Contains reports whether t's calendar date falls in the window.
func (w Window) Contains(t time.Time) bool {
	d := civil(t)
	return !d.Before(civil(w.Start)) && d.Before(civil(w.End))
}

// Midpoint is the first day of the window's second half.
func (w Window) Midpoint() time.Time {
	return civil(w.Start).AddDate(0, 0, w.Days()/2)
}

// AggregateCategories totals period expenses by resolved category, largest first.
func AggregateCategories(txs []model.ClassifiedTransaction) []model.CategoryBreakdown {
	totals := make(map[model.Category]*ledger)
	counts := make(map[model.Category]int)
	var all ledger

	for _, tx := range expensesOf(txs) {
		cat := tx.ResolvedCategory
		if totals[cat] == nil {
			totals[cat] = &ledger{}
		}
		totals[cat].add(tx.Magnitude())
		counts[cat]++
		all.add(tx.Magnitude())
	}

	out := make([]model.CategoryBreakdown, 0, len(totals))
	for cat, l := range totals {
		out = append(out, model.CategoryBreakdown{
			Category: cat,
			Total:    l.value(),
			Count:    counts[cat],
			Percent:  sharePercent(l.value(), all.value()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// trendOf compares the second half of the window against the first.
func trendOf(txs []model.ClassifiedTransaction, w Window) model.Trend {
	mid := w.Midpoint()
	var first, second float64
	for _, tx := range txs {
		if civil(tx.Date).Before(mid) {
			first += tx.Magnitude()
		} else {
			second += tx.Magnitude()
		}
	}
	switch {
	case first == 0 && second == 0:
		return model.TrendStable
	case first == 0:
		return model.TrendIncreasing
	case second == 0:
		return model.TrendDecreasing
	}
	change := (second - first) / first
	switch {
	case change > trendThreshold:
		return model.TrendIncreasing
	case change < -trendThreshold:
		return model.TrendDecreasing
	}
	return model.TrendStable
}

// DetectSpendingPatterns summarizes each (category, merchant) pair with at
// least two expenses in the window. Frequency is normalized to 30 days.
func DetectSpendingPatterns(txs []model.ClassifiedTransaction, w Window) []model.SpendingPattern {
	type key struct {
		cat      model.Category
		merchant string
	}
	groups := make(map[key][]model.ClassifiedTransaction)
	for _, tx := range expensesOf(txs) {
		k := key{cat: tx.ResolvedCategory, merchant: normalizeMerchant(tx.Merchant)}
		groups[k] = append(groups[k], tx)
	}

	days := float64(w.Days())
	out := make([]model.SpendingPattern, 0)
	for k, members := range groups {
		if len(members) < 2 {
			continue
		}
		sortByDate(members)

		var total ledger
		for _, tx := range members {
			total.add(tx.Magnitude())
		}
		last := members[len(members)-1]
		out = append(out, model.SpendingPattern{
			Category:       k.cat,
			Merchant:       strings.TrimSpace(last.Merchant),
			Frequency:      round2(float64(len(members)) / days * 30),
			AverageAmount:  round2(total.value() / float64(len(members))),
			TotalAmount:    total.value(),
			Count:          len(members),
			LastOccurrence: last.Date,
			Trend:          trendOf(members, w),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return normalizeMerchant(out[i].Merchant) < normalizeMerchant(out[j].Merchant)
	})
	return out
}
