package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/cashburn/internal/model"
)

// CategoryAlerts compares each watched category's spend and frequency with
// the previous period. Low-severity alerts are included; callers that only
// surface actionable alerts should filter them out.
func (e *Engine) CategoryAlerts(current, previous []model.ClassifiedTransaction, income float64) []model.CategoryAlert {
	type tally struct {
		total ledger
		count int
	}
	sum := func(txs []model.ClassifiedTransaction) map[model.Category]*tally {
		m := make(map[model.Category]*tally)
		for _, tx := range expensesOf(txs) {
			t := m[tx.ResolvedCategory]
			if t == nil {
				t = &tally{}
				m[tx.ResolvedCategory] = t
			}
			t.total.add(tx.Magnitude())
			t.count++
		}
		return m
	}
	cur, prev := sum(current), sum(previous)

	out := make([]model.CategoryAlert, 0)
	for _, cat := range e.rules.WatchCategories {
		c := cur[cat]
		if c == nil || c.total.isZero() {
			continue
		}
		var prevTotal float64
		var prevCount int
		if p := prev[cat]; p != nil {
			prevTotal, prevCount = p.total.value(), p.count
		}
		curTotal := c.total.value()

		increase := percentChange(curTotal, prevTotal)
		freqIncrease := percentChange(float64(c.count), float64(prevCount))
		var incomeShare *float64
		if income > 0 {
			incomeShare = ptr(sharePercent(curTotal, income))
		}

		sev, ok := alertSeverity(incomeShare, increase, freqIncrease)
		if !ok {
			continue
		}
		out = append(out, model.CategoryAlert{
			Category:                 cat,
			CurrentSpending:          curTotal,
			PreviousSpending:         prevTotal,
			IncreasePercent:          increase,
			FrequencyIncreasePercent: freqIncrease,
			IncomeSharePercent:       incomeShare,
			Severity:                 sev,
			Message:                  alertMessage(cat, sev, curTotal, prevTotal, incomeShare, increase, freqIncrease),
			Suggestions:              e.suggestionsFor(cat),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

func above(v *float64, limit float64) bool {
	return v != nil && *v > limit
}

func alertSeverity(incomeShare, increase, freqIncrease *float64) (model.Severity, bool) {
	switch {
	case above(incomeShare, 30) || above(increase, 100):
		return model.SeverityCritical, true
	case above(incomeShare, 20) || above(increase, 50):
		return model.SeverityHigh, true
	case above(increase, 25) || above(freqIncrease, 50):
		return model.SeverityMedium, true
	case above(increase, 10):
		return model.SeverityLow, true
	}
	return "", false
}

func alertMessage(cat model.Category, sev model.Severity, cur, prev float64, incomeShare, increase, freqIncrease *float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s spending reached %.2f", strings.ToUpper(string(sev)), cat, cur)
	if incomeShare != nil {
		fmt.Fprintf(&b, " (%.1f%% of income)", *incomeShare)
	}
	if increase != nil {
		fmt.Fprintf(&b, ", %+.1f%% vs %.2f in the previous period", *increase, prev)
	} else {
		b.WriteString(", with no spending in the previous period")
	}
	if freqIncrease != nil && *freqIncrease > 0 {
		fmt.Fprintf(&b, "; purchase count %+.1f%%", *freqIncrease)
	}
	return b.String()
}

func (e *Engine) suggestionsFor(cat model.Category) []string {
	if s := e.rules.Suggestions[cat]; len(s) > 0 {
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	return []string{fmt.Sprintf("Review recent %s transactions for items you can cut", cat)}
}

// DetectAdvancedAnomalies runs the aggregate passes: merchant frequency,
// cumulative category share of income, and discretionary food spending.
func (e *Engine) DetectAdvancedAnomalies(txs []model.ClassifiedTransaction, patterns []model.SpendingPattern, categories []model.CategoryBreakdown, income float64) []model.Anomaly {
	out := make([]model.Anomaly, 0)
	out = append(out, e.frequencyPass(txs, patterns)...)
	out = append(out, e.cumulativePass(txs, categories, income)...)
	out = append(out, e.sweetSpendingPass(txs)...)
	return out
}

// latestMatching returns the most recent expense satisfying keep.
func latestMatching(txs []model.ClassifiedTransaction, keep func(model.ClassifiedTransaction) bool) (model.ClassifiedTransaction, bool) {
	var (
		best  model.ClassifiedTransaction
		found bool
	)
	for _, tx := range expensesOf(txs) {
		if !keep(tx) {
			continue
		}
		if !found || tx.Date.After(best.Date) || (tx.Date.Equal(best.Date) && tx.ID > best.ID) {
			best, found = tx, true
		}
	}
	return best, found
}

func (e *Engine) frequencyPass(txs []model.ClassifiedTransaction, patterns []model.SpendingPattern) []model.Anomaly {
	th := e.rules.Thresholds
	var out []model.Anomaly
	for _, p := range patterns {
		var conf model.Confidence
		var reason string
		switch {
		case p.Frequency > th.FrequencyHighPer30Days:
			conf = model.ConfidenceHigh
			reason = fmt.Sprintf("%.1f purchases per 30 days at %s", p.Frequency, p.Merchant)
		case p.Trend == model.TrendIncreasing && p.Frequency > th.FrequencyMediumPer30Days:
			conf = model.ConfidenceMedium
			reason = fmt.Sprintf("increasing purchase rate at %s (%.1f per 30 days)", p.Merchant, p.Frequency)
		default:
			continue
		}

		key := normalizeMerchant(p.Merchant)
		tx, ok := latestMatching(txs, func(tx model.ClassifiedTransaction) bool {
			return tx.ResolvedCategory == p.Category && normalizeMerchant(tx.Merchant) == key
		})
		if !ok {
			continue
		}
		out = append(out, newAnomaly(tx, KindFrequency, reason,
			fmt.Sprintf("%d %s purchases totaling %.2f in the period", p.Count, p.Category, p.TotalAmount),
			conf))
	}
	return out
}

func (e *Engine) cumulativePass(txs []model.ClassifiedTransaction, categories []model.CategoryBreakdown, income float64) []model.Anomaly {
	if income <= 0 {
		return nil
	}
	limit := income * e.rules.Thresholds.CumulativeIncomeShare
	var out []model.Anomaly
	for _, c := range categories {
		if c.Total <= limit {
			continue
		}
		cat := c.Category
		tx, ok := latestMatching(txs, func(tx model.ClassifiedTransaction) bool {
			return tx.ResolvedCategory == cat
		})
		if !ok {
			continue
		}
		out = append(out, newAnomaly(tx, KindCumulativeCategory,
			fmt.Sprintf("%s spending totals %.1f%% of period income", cat, c.Total/income*100),
			fmt.Sprintf("%d %s expenses add up to %.2f, above %.0f%% of income",
				c.Count, cat, c.Total, e.rules.Thresholds.CumulativeIncomeShare*100),
			model.ConfidenceHigh))
	}
	return out
}

func (e *Engine) sweetSpendingPass(txs []model.ClassifiedTransaction) []model.Anomaly {
	var items []model.ClassifiedTransaction
	for _, tx := range expensesOf(txs) {
		if _, ok := matchKeyword(normalizeMerchant(tx.Merchant), e.rules.SweetKeywords); ok {
			items = append(items, tx)
		}
	}
	if len(items) == 0 {
		return nil
	}
	sortByDate(items)
	latest := items[len(items)-1]

	var total ledger
	for _, tx := range items {
		total.add(tx.Magnitude())
	}

	th := e.rules.Thresholds
	var out []model.Anomaly
	if len(items) > th.SweetCountLimit {
		out = append(out, newAnomaly(latest, KindSweetSpending,
			fmt.Sprintf("%d sweets/delivery purchases in the period", len(items)),
			fmt.Sprintf("more than %d discretionary food orders in one period adds up quickly", th.SweetCountLimit),
			model.ConfidenceHigh))
	}
	if total.value() > th.SweetSpendLimit {
		out = append(out, newAnomaly(latest, KindSweetSpending,
			fmt.Sprintf("sweets/delivery spending totals %.2f", total.value()),
			fmt.Sprintf("cumulative discretionary food spending above %.2f", th.SweetSpendLimit),
			model.ConfidenceMedium))
	}
	if len(items) >= 2 {
		// Halves hold the same number of purchases; an odd middle item is skipped.
		half := len(items) / 2
		var first, second float64
		for _, tx := range items[:half] {
			first += tx.Magnitude()
		}
		for _, tx := range items[len(items)-half:] {
			second += tx.Magnitude()
		}
		if first > 0 && second > first*(1+th.SweetTrendIncrease) {
			out = append(out, newAnomaly(latest, KindSweetSpending,
				"increasing trend in sweets/delivery spending",
				fmt.Sprintf("second half of the period spent %.2f vs %.2f in the first half (%+.0f%%)",
					second, first, (second-first)/first*100),
				model.ConfidenceMedium))
		}
	}
	return out
}
