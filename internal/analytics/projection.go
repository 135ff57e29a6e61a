package analytics

import (
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
)

// monthProgress returns the elapsed and remaining day counts for month as seen
// from today. A finished month has no remaining days; a future month has
// none elapsed.
func monthProgress(month model.YearMonth, today time.Time) (elapsed, remaining int) {
	day := civil(today)
	start := month.Start(time.UTC)
	switch {
	case day.Before(start):
		return 0, month.Days()
	case !day.Before(month.End(time.UTC)):
		return month.Days(), 0
	}
	return day.Day(), month.Days() - day.Day() + 1
}

func baselineConfidence(elapsed, count int) model.Confidence {
	switch {
	case elapsed >= 15 && count >= 10:
		return model.ConfidenceHigh
	case elapsed >= 7 && count >= 5:
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

// Project extrapolates month-to-date income and expenses linearly to the end
// of month. txs must already be limited to the month up to today.
func (e *Engine) Project(txs []model.ClassifiedTransaction, balance float64, month model.YearMonth, today time.Time) model.Projection {
	elapsed, remaining := monthProgress(month, today)
	m := PeriodMetricsOf(txs)

	p := model.Projection{
		Month:            month,
		DaysElapsed:      elapsed,
		DaysRemaining:    remaining,
		TransactionCount: len(txs),
		ReductionImpact:  make([]model.ReductionImpact, 0),
		Confidence:       baselineConfidence(elapsed, len(txs)),
	}
	if elapsed > 0 {
		p.AverageDailyIncome = round2(m.Income / float64(elapsed))
		p.AverageDailyExpense = round2(m.Expenses / float64(elapsed))
	}
	p.ProjectedIncome = round2(p.AverageDailyIncome * float64(remaining))
	p.ProjectedExpense = round2(p.AverageDailyExpense * float64(remaining))
	p.FinalBalanceProjection = round2(balance + p.ProjectedIncome - p.ProjectedExpense)

	th := e.rules.Thresholds
	for i, c := range AggregateCategories(txs) {
		if i >= th.ReductionCategories {
			break
		}
		monthEnd := c.Total
		if elapsed > 0 {
			monthEnd = c.Total / float64(elapsed) * float64(month.Days())
		}
		p.ReductionImpact = append(p.ReductionImpact, model.ReductionImpact{
			Category:         c.Category,
			ReductionPercent: th.ReductionPercent,
			ProjectedSavings: round2(monthEnd * th.ReductionPercent / 100),
		})
	}
	return p
}
