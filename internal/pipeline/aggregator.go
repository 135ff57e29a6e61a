package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/model"
)

// DailyStats is one calendar day of classified activity.
type DailyStats struct {
	Date     time.Time
	Income   float64
	Expenses float64
	Count    int
}

// AggregateDays computes per-day totals for [since, until). Every day in the
// range gets an entry, so the result can feed a chart directly.
func AggregateDays(txs []model.ClassifiedTransaction, since, until time.Time) []DailyStats {
	start := civil(since)
	end := civil(until)
	if !start.Before(end) {
		return nil
	}

	type acc struct {
		income, expenses decimal.Decimal
		count            int
	}
	byDay := make(map[time.Time]*acc)
	for _, tx := range txs {
		day := civil(tx.Date)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		a := byDay[day]
		if a == nil {
			a = &acc{}
			byDay[day] = a
		}
		amt := decimal.NewFromFloat(tx.Magnitude())
		if tx.Classification.IsIncome {
			a.income = a.income.Add(amt)
		} else {
			a.expenses = a.expenses.Add(amt)
		}
		a.count++
	}

	var out []DailyStats
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		ds := DailyStats{Date: d}
		if a := byDay[d]; a != nil {
			ds.Income = a.income.Round(2).InexactFloat64()
			ds.Expenses = a.expenses.Round(2).InexactFloat64()
			ds.Count = a.count
		}
		out = append(out, ds)
	}
	return out
}

// HourlyStats is the expense activity for one hour of day.
type HourlyStats struct {
	Hour     int
	Expenses float64
	Count    int
}

// AggregateHourly buckets timed expenses by hour of day. Records without a
// time of day are skipped. The result always has 24 entries.
func AggregateHourly(txs []model.ClassifiedTransaction) []HourlyStats {
	var totals [24]decimal.Decimal
	out := make([]HourlyStats, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, tx := range txs {
		if !tx.HasTime || tx.Classification.IsIncome {
			continue
		}
		h := tx.Date.Hour()
		totals[h] = totals[h].Add(decimal.NewFromFloat(tx.Magnitude()))
		out[h].Count++
	}
	for h := range out {
		out[h].Expenses = totals[h].Round(2).InexactFloat64()
	}
	return out
}

// AccountStats is the per-account rollup.
type AccountStats struct {
	Account  string
	Income   float64
	Expenses float64
	Net      float64
	Count    int
}

// AggregateAccounts totals classified transactions per account directory,
// ordered by expenses descending.
func AggregateAccounts(txs []model.ClassifiedTransaction) []AccountStats {
	type acc struct {
		income, expenses decimal.Decimal
		count            int
	}
	byAccount := make(map[string]*acc)
	for _, tx := range txs {
		name := AccountOf(tx.Transaction)
		a := byAccount[name]
		if a == nil {
			a = &acc{}
			byAccount[name] = a
		}
		amt := decimal.NewFromFloat(tx.Magnitude())
		if tx.Classification.IsIncome {
			a.income = a.income.Add(amt)
		} else {
			a.expenses = a.expenses.Add(amt)
		}
		a.count++
	}

	out := make([]AccountStats, 0, len(byAccount))
	for name, a := range byAccount {
		out = append(out, AccountStats{
			Account:  name,
			Income:   a.income.Round(2).InexactFloat64(),
			Expenses: a.expenses.Round(2).InexactFloat64(),
			Net:      a.income.Sub(a.expenses).Round(2).InexactFloat64(),
			Count:    a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Expenses != out[j].Expenses {
			return out[i].Expenses > out[j].Expenses
		}
		return out[i].Account < out[j].Account
	})
	return out
}

// FilterByTime returns transactions whose date falls within [since, until).
func FilterByTime(txs []model.Transaction, since, until time.Time) []model.Transaction {
	var out []model.Transaction
	for _, tx := range txs {
		if tx.Date.Before(since) || !tx.Date.Before(until) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// FilterByAccount returns transactions loaded from the named account
// directory (case-insensitive). An empty account keeps everything.
func FilterByAccount(txs []model.Transaction, account string) []model.Transaction {
	if account == "" {
		return txs
	}
	var out []model.Transaction
	for _, tx := range txs {
		if strings.EqualFold(AccountOf(tx), account) {
			out = append(out, tx)
		}
	}
	return out
}

// AccountOf returns the account directory a transaction was loaded from, or
// "" for top-level statement files.
func AccountOf(tx model.Transaction) string {
	if i := strings.IndexByte(tx.SourceFile, '/'); i > 0 {
		return tx.SourceFile[:i]
	}
	return ""
}

// Months lists the distinct calendar months present in txs, oldest first.
func Months(txs []model.Transaction) []model.YearMonth {
	seen := make(map[model.YearMonth]struct{})
	for _, tx := range txs {
		seen[model.YearMonthOf(tx.Date)] = struct{}{}
	}
	out := make([]model.YearMonth, 0, len(seen))
	for ym := range seen {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
