package analytics

import "github.com/theirongolddev/cashburn/internal/model"

// NoPreviousDataNote explains an undefined variation.
const NoPreviousDataNote = "previous period had no data"

// PeriodMetricsOf aggregates the comparable metrics of one period.
func PeriodMetricsOf(txs []model.ClassifiedTransaction) model.PeriodMetrics {
	var income, expenses ledger
	for _, tx := range txs {
		if tx.Classification.IsIncome {
			income.add(tx.Magnitude())
		} else {
			expenses.add(tx.Magnitude())
		}
	}
	m := model.PeriodMetrics{
		Income:   income.value(),
		Expenses: expenses.value(),
		Count:    len(txs),
	}
	if m.Count > 0 {
		m.AvgPerTransaction = round2((m.Income + m.Expenses) / float64(m.Count))
	}
	return m
}

func variation(cur, prev float64) model.Variation {
	if p := percentChange(cur, prev); p != nil {
		return model.Variation{Percent: p}
	}
	return model.Variation{Note: NoPreviousDataNote}
}

// Compare diffs two already-filtered periods. A zero previous value makes
// that metric's variation undefined.
func Compare(current, previous []model.ClassifiedTransaction) model.MonthlyComparison {
	cur, prev := PeriodMetricsOf(current), PeriodMetricsOf(previous)
	return model.MonthlyComparison{
		Current:         cur,
		Previous:        prev,
		IncomePercent:   variation(cur.Income, prev.Income),
		ExpensesPercent: variation(cur.Expenses, prev.Expenses),
		CountPercent:    variation(float64(cur.Count), float64(prev.Count)),
		AvgPercent:      variation(cur.AvgPerTransaction, prev.AvgPerTransaction),
		NetChange:       round2((cur.Income - cur.Expenses) - (prev.Income - prev.Expenses)),
		HasPreviousData: len(previous) > 0,
	}
}
