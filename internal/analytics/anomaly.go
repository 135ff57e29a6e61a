package analytics

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/cashburn/internal/model"
)

// Anomaly kinds, in the order passes run.
const (
	KindSuspicious          = "suspicious"
	KindIncomeShare         = "income_share"
	KindStatistical         = "statistical"
	KindProblematicCategory = "problematic_category"
	KindNight               = "night"
	KindFrequency           = "frequency"
	KindCumulativeCategory  = "cumulative_category"
	KindSweetSpending       = "sweet_spending"
)

var kindOrder = []string{
	KindSuspicious, KindIncomeShare, KindStatistical, KindProblematicCategory,
	KindNight, KindFrequency, KindCumulativeCategory, KindSweetSpending,
}

func kindRank(kind string) int {
	for i, k := range kindOrder {
		if k == kind {
			return i
		}
	}
	return len(kindOrder)
}

func newAnomaly(tx model.ClassifiedTransaction, kind, reason, explanation string, conf model.Confidence) model.Anomaly {
	return model.Anomaly{
		TransactionID: tx.ID,
		Merchant:      tx.Merchant,
		Amount:        tx.Amount,
		Date:          tx.Date,
		Kind:          kind,
		Reason:        reason,
		Confidence:    conf,
		Explanation:   explanation,
	}
}

// sortAnomalies orders by date, then pass, then transaction ID.
func sortAnomalies(list []model.Anomaly) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if kindRank(a.Kind) != kindRank(b.Kind) {
			return kindRank(a.Kind) < kindRank(b.Kind)
		}
		if a.TransactionID != b.TransactionID {
			return a.TransactionID < b.TransactionID
		}
		return a.Reason < b.Reason
	})
}

// DetectAnomalies runs the per-transaction passes: suspicious merchants and
// amounts, share of income, statistical outliers, large spends in
// problematic categories, and large night-time expenses.
func (e *Engine) DetectAnomalies(txs []model.ClassifiedTransaction, income float64) []model.Anomaly {
	out := make([]model.Anomaly, 0)
	out = append(out, e.suspiciousPass(txs)...)
	out = append(out, e.incomeSharePass(txs, income)...)
	out = append(out, e.statisticalPass(txs, income)...)
	out = append(out, e.problematicCategoryPass(txs)...)
	out = append(out, e.nightPass(txs)...)
	return out
}

func (e *Engine) suspiciousPass(txs []model.ClassifiedTransaction) []model.Anomaly {
	var out []model.Anomaly
	for _, tx := range txs {
		s, ok := e.clf.Suspicion(tx.Transaction)
		if !ok {
			continue
		}
		out = append(out, newAnomaly(tx, KindSuspicious, s.Reason, s.Explanation, s.Confidence))
	}
	return out
}

func (e *Engine) incomeSharePass(txs []model.ClassifiedTransaction, income float64) []model.Anomaly {
	if income <= 0 {
		return nil
	}
	limit := income * e.rules.Thresholds.LargeExpenseIncomeShare
	var out []model.Anomaly
	for _, tx := range expensesOf(txs) {
		if tx.Magnitude() <= limit {
			continue
		}
		share := tx.Magnitude() / income * 100
		out = append(out, newAnomaly(tx, KindIncomeShare,
			fmt.Sprintf("single expense is %.1f%% of period income", share),
			fmt.Sprintf("expenses above %.0f%% of income (%.2f) strain the monthly budget",
				e.rules.Thresholds.LargeExpenseIncomeShare*100, limit),
			model.ConfidenceHigh))
	}
	return out
}

// statisticalPass flags expenses more than three population standard
// deviations above the period mean. With income available the expense must
// also exceed the statistical share of income.
func (e *Engine) statisticalPass(txs []model.ClassifiedTransaction, income float64) []model.Anomaly {
	expenses := expensesOf(txs)
	if len(expenses) < e.rules.Thresholds.StatisticalMinSample || len(expenses) < 2 {
		return nil
	}

	amounts := make([]float64, len(expenses))
	for i, tx := range expenses {
		amounts[i] = tx.Magnitude()
	}
	m := mean(amounts)
	sd := stdev(amounts, m)
	if sd == 0 {
		return nil
	}
	cutoff := m + 3*sd

	var out []model.Anomaly
	for _, tx := range expenses {
		v := tx.Magnitude()
		if v <= cutoff {
			continue
		}
		if income > 0 && v <= income*e.rules.Thresholds.StatisticalIncomeShare {
			continue
		}
		out = append(out, newAnomaly(tx, KindStatistical,
			fmt.Sprintf("amount is %.1f standard deviations above the period mean", (v-m)/sd),
			fmt.Sprintf("period mean %.2f, standard deviation %.2f, cutoff %.2f", m, sd, cutoff),
			model.ConfidenceMedium))
	}
	return out
}

func (e *Engine) problematicCategoryPass(txs []model.ClassifiedTransaction) []model.Anomaly {
	limit := e.rules.Thresholds.ProblematicAmount
	var out []model.Anomaly
	for _, tx := range expensesOf(txs) {
		if tx.Magnitude() <= limit || !containsCategory(e.rules.ProblematicCategories, tx.ResolvedCategory) {
			continue
		}
		out = append(out, newAnomaly(tx, KindProblematicCategory,
			fmt.Sprintf("large %s expense of %.2f", tx.ResolvedCategory, tx.Magnitude()),
			fmt.Sprintf("%s is a discretionary category; single purchases above %.2f deserve review",
				tx.ResolvedCategory, limit),
			model.ConfidenceMedium))
	}
	return out
}

func (e *Engine) nightPass(txs []model.ClassifiedTransaction) []model.Anomaly {
	limit := e.rules.Thresholds.NightLargeAmount
	var out []model.Anomaly
	for _, tx := range expensesOf(txs) {
		if !tx.HasTime || model.DayPeriodOf(tx.Date.Hour()) != model.PeriodNight {
			continue
		}
		if tx.Magnitude() < limit {
			continue
		}
		out = append(out, newAnomaly(tx, KindNight,
			fmt.Sprintf("large expense at %s", tx.Date.Format("15:04")),
			"purchases between midnight and 6am are often impulsive or unauthorized",
			model.ConfidenceMedium))
	}
	return out
}

func containsCategory(list []model.Category, c model.Category) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}
