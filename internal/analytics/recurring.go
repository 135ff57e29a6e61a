package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/theirongolddev/cashburn/internal/model"
)

const (
	recurringAmountTolerance   = 0.10
	recurringIntervalTolerance = 3.0
	fixedExpenseMaxDays        = 35
)

// merchantGroup is a date-sorted run of transactions for one normalized merchant.
type merchantGroup struct {
	key string
	txs []model.ClassifiedTransaction
}

// groupByMerchant buckets txs by normalized merchant. Groups come back sorted
// by key and each group is sorted by date then ID.
func groupByMerchant(txs []model.ClassifiedTransaction, keep func(model.ClassifiedTransaction) bool) []merchantGroup {
	byKey := make(map[string][]model.ClassifiedTransaction)
	for _, tx := range txs {
		if keep != nil && !keep(tx) {
			continue
		}
		key := normalizeMerchant(tx.Merchant)
		byKey[key] = append(byKey[key], tx)
	}

	groups := make([]merchantGroup, 0, len(byKey))
	for key, members := range byKey {
		sortByDate(members)
		groups = append(groups, merchantGroup{key: key, txs: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}

func sortByDate(txs []model.ClassifiedTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}

// intervalsInDays returns the calendar-day gaps between consecutive members.
func intervalsInDays(txs []model.ClassifiedTransaction) []float64 {
	if len(txs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(txs)-1)
	for i := 1; i < len(txs); i++ {
		out = append(out, float64(daysBetween(txs[i-1].Date, txs[i].Date)))
	}
	return out
}

func withinBand(values []float64, center, tolerance float64) bool {
	for _, v := range values {
		if math.Abs(v-center) > tolerance {
			return false
		}
	}
	return true
}

// DetectRecurring finds merchants that repeat with a consistent amount, a
// consistent interval, or both. Single-occurrence merchants never qualify.
func DetectRecurring(txs []model.ClassifiedTransaction) []model.RecurringTransaction {
	out := make([]model.RecurringTransaction, 0)

	for _, g := range groupByMerchant(txs, nil) {
		if len(g.txs) < 2 {
			continue
		}

		amounts := make([]float64, len(g.txs))
		incomeVotes := 0
		for i, tx := range g.txs {
			amounts[i] = tx.Magnitude()
			if tx.Classification.IsIncome {
				incomeVotes++
			}
		}
		avgAmount := mean(amounts)
		amountOK := withinBand(amounts, avgAmount, avgAmount*recurringAmountTolerance)

		intervals := intervalsInDays(g.txs)
		avgInterval := mean(intervals)
		intervalOK := withinBand(intervals, avgInterval, recurringIntervalTolerance)

		var conf model.Confidence
		switch {
		case amountOK && intervalOK && len(g.txs) >= 3:
			conf = model.ConfidenceHigh
		case amountOK || intervalOK:
			conf = model.ConfidenceMedium
		default:
			continue
		}

		last := g.txs[len(g.txs)-1]
		out = append(out, model.RecurringTransaction{
			Merchant:            strings.TrimSpace(last.Merchant),
			AverageAmount:       round2(avgAmount),
			FrequencyDays:       int(math.Round(avgInterval)),
			LastTransactionDate: last.Date,
			TotalTransactions:   len(g.txs),
			Confidence:          conf,
			IsIncome:            incomeVotes*2 > len(g.txs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence.Rank() != out[j].Confidence.Rank() {
			return out[i].Confidence.Rank() > out[j].Confidence.Rank()
		}
		if out[i].AverageAmount != out[j].AverageAmount {
			return out[i].AverageAmount > out[j].AverageAmount
		}
		return out[i].Merchant < out[j].Merchant
	})
	return out
}

// AnalyzeRecurringPatterns splits recurring items into fixed income, fixed
// expenses (monthly-or-faster with high confidence), and variable expenses.
// Income is an income-keyword merchant or an item classified as income.
func (c *Classifier) AnalyzeRecurringPatterns(recurring []model.RecurringTransaction) model.RecurringBreakdown {
	out := model.RecurringBreakdown{
		FixedIncome:      make([]model.RecurringTransaction, 0),
		FixedExpenses:    make([]model.RecurringTransaction, 0),
		VariableExpenses: make([]model.RecurringTransaction, 0),
	}
	for _, r := range recurring {
		merchant := normalizeMerchant(r.Merchant)
		if _, ok := matchKeyword(merchant, c.rules.IncomeKeywords); ok || r.IsIncome {
			out.FixedIncome = append(out.FixedIncome, r)
			continue
		}
		if r.FrequencyDays <= fixedExpenseMaxDays && r.Confidence == model.ConfidenceHigh {
			out.FixedExpenses = append(out.FixedExpenses, r)
			continue
		}
		out.VariableExpenses = append(out.VariableExpenses, r)
	}
	return out
}

// MonthlyEquivalent normalizes a recurring amount to one month.
func MonthlyEquivalent(amount float64, frequencyDays int) float64 {
	switch {
	case frequencyDays <= 7:
		return amount * 4.33
	case frequencyDays <= 35:
		return amount
	case frequencyDays <= 90:
		return amount / 3
	default:
		return amount / 12
	}
}

// CalculateRecurringImpact projects recurring items onto a monthly and yearly
// budget.
func CalculateRecurringImpact(recurring []model.RecurringTransaction) model.RecurringImpact {
	var income, expense ledger
	breakdown := make([]model.RecurringImpactItem, 0, len(recurring))

	for _, r := range recurring {
		monthly := round2(MonthlyEquivalent(r.AverageAmount, r.FrequencyDays))
		breakdown = append(breakdown, model.RecurringImpactItem{
			Merchant:      r.Merchant,
			Amount:        r.AverageAmount,
			FrequencyDays: r.FrequencyDays,
			MonthlyAmount: monthly,
			IsIncome:      r.IsIncome,
		})
		if r.IsIncome {
			income.add(monthly)
		} else {
			expense.add(monthly)
		}
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].MonthlyAmount != breakdown[j].MonthlyAmount {
			return breakdown[i].MonthlyAmount > breakdown[j].MonthlyAmount
		}
		return breakdown[i].Merchant < breakdown[j].Merchant
	})

	mi, me := income.value(), expense.value()
	return model.RecurringImpact{
		MonthlyIncome:  mi,
		MonthlyExpense: me,
		MonthlyNet:     round2(mi - me),
		YearlyIncome:   round2(mi * 12),
		YearlyExpense:  round2(me * 12),
		YearlyNet:      round2((mi - me) * 12),
		Breakdown:      breakdown,
	}
}
