package analytics

import (
	"sort"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
)

func expensesOf(txs []model.ClassifiedTransaction) []model.ClassifiedTransaction {
	out := make([]model.ClassifiedTransaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Classification.IsIncome {
			out = append(out, tx)
		}
	}
	return out
}

// AggregateTemporal buckets period expenses by weekday, time of day, and
// payment method. Records without a time of day only count toward
// UntimedCount in the time-of-day view.
func AggregateTemporal(txs []model.ClassifiedTransaction) model.TemporalBreakdown {
	var (
		dayTotals    [7]ledger
		dayCounts    [7]int
		periodTotals = make(map[model.DayPeriod]*ledger)
		periodCounts = make(map[model.DayPeriod]int)
		methodTotals = make(map[model.PaymentMethod]*ledger)
		methodCounts = make(map[model.PaymentMethod]int)
		all          ledger
		untimed      int
	)
	for _, p := range model.DayPeriods() {
		periodTotals[p] = &ledger{}
	}

	for _, tx := range expensesOf(txs) {
		amt := tx.Magnitude()
		all.add(amt)

		wd := tx.Date.Weekday()
		dayTotals[wd].add(amt)
		dayCounts[wd]++

		if tx.HasTime {
			p := model.DayPeriodOf(tx.Date.Hour())
			periodTotals[p].add(amt)
			periodCounts[p]++
		} else {
			untimed++
		}

		method := tx.PaymentMethod
		if method == "" {
			method = model.PaymentUnknown
		}
		if methodTotals[method] == nil {
			methodTotals[method] = &ledger{}
		}
		methodTotals[method].add(amt)
		methodCounts[method]++
	}

	out := model.TemporalBreakdown{
		Weekdays:       make([]model.WeekdayBreakdown, 0, 7),
		Periods:        make([]model.PeriodBreakdown, 0, 4),
		UntimedCount:   untimed,
		PaymentMethods: make([]model.PaymentMethodBreakdown, 0, len(methodTotals)),
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		out.Weekdays = append(out.Weekdays, model.WeekdayBreakdown{
			Weekday: d,
			Name:    d.String(),
			Total:   dayTotals[d].value(),
			Count:   dayCounts[d],
		})
	}
	for _, p := range model.DayPeriods() {
		out.Periods = append(out.Periods, model.PeriodBreakdown{
			Period: p,
			Total:  periodTotals[p].value(),
			Count:  periodCounts[p],
		})
	}

	total := all.value()
	for method, l := range methodTotals {
		out.PaymentMethods = append(out.PaymentMethods, model.PaymentMethodBreakdown{
			Method:  method,
			Total:   l.value(),
			Count:   methodCounts[method],
			Percent: sharePercent(l.value(), total),
		})
	}
	sort.Slice(out.PaymentMethods, func(i, j int) bool {
		a, b := out.PaymentMethods[i], out.PaymentMethods[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Method < b.Method
	})

	return out
}
