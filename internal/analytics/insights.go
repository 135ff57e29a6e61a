package analytics

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/cashburn/internal/model"
)

// Insight kinds.
const (
	InsightMisclassified   = "misclassified_income"
	InsightUncategorized   = "uncategorized_share"
	InsightCategoryAlert   = "category_alert"
	InsightOverspend       = "overspend"
	InsightSavings         = "savings_rate"
	InsightSuspicious      = "suspicious_activity"
	InsightConflicts       = "sign_conflicts"
	InsightFixedCosts      = "fixed_commitments"
	InsightNegativeBalance = "negative_projection"
	InsightCategoryGrowth  = "category_growth"
	InsightPeakWeekday     = "peak_weekday"
)

// buildInsights turns report findings into short ranked sentences. Templates
// run in a fixed order; the final list is stable-sorted by confidence.
func (e *Engine) buildInsights(r *model.FinancialReport, current []model.ClassifiedTransaction, lowAlerts []model.CategoryAlert) []model.Insight {
	out := make([]model.Insight, 0)
	add := func(kind string, conf model.Confidence, format string, args ...any) {
		out = append(out, model.Insight{Kind: kind, Text: fmt.Sprintf(format, args...), Confidence: conf})
	}

	var suspects []string
	for _, tx := range expensesOf(current) {
		_, incomeWord := matchKeyword(normalizeMerchant(tx.Merchant), e.rules.IncomeKeywords)
		if incomeWord || tx.ResolvedCategory == model.CategorySalary {
			suspects = append(suspects, tx.Merchant)
		}
	}
	if len(suspects) > 0 {
		add(InsightMisclassified, model.ConfidenceMedium,
			"%d expense(s) look like income (e.g. %q); check for misclassification", len(suspects), suspects[0])
	}

	for _, c := range r.Categories {
		if c.Category == model.CategoryOther && c.Percent > 30 {
			add(InsightUncategorized, model.ConfidenceMedium,
				"%.0f%% of spending falls in \"other\"; add categories or keyword rules for sharper analysis", c.Percent)
		}
	}

	for _, a := range r.CategoryAlerts {
		if a.Severity == model.SeverityCritical || a.Severity == model.SeverityHigh {
			add(InsightCategoryAlert, model.ConfidenceHigh, "%s", a.Message)
		}
	}

	s := r.Summary
	switch {
	case s.TotalIncome > 0 && s.TotalExpenses > s.TotalIncome:
		add(InsightOverspend, model.ConfidenceHigh,
			"Spending exceeded income by %.2f this period", s.TotalExpenses-s.TotalIncome)
	case s.TotalIncome == 0 && s.TotalExpenses > 0:
		add(InsightOverspend, model.ConfidenceMedium,
			"No income recorded this period against %.2f of spending", s.TotalExpenses)
	case s.TotalIncome > 0 && s.SavingsRate >= 20:
		add(InsightSavings, model.ConfidenceHigh, "You kept %.1f%% of income this period", s.SavingsRate)
	}

	if s.SuspiciousCount > 0 {
		var total ledger
		for _, tx := range current {
			if tx.Suspicious {
				total.add(tx.Magnitude())
			}
		}
		add(InsightSuspicious, model.ConfidenceHigh,
			"%d suspicious transaction(s) (gambling or unusual amounts) totaling %.2f", s.SuspiciousCount, total.value())
	}

	if s.ConflictCount > 0 {
		add(InsightConflicts, model.ConfidenceLow,
			"%d transaction(s) have an amount sign that contradicts the merchant or type", s.ConflictCount)
	}

	if s.TotalIncome > 0 && r.RecurringImpact.MonthlyExpense > s.TotalIncome*0.5 {
		add(InsightFixedCosts, model.ConfidenceMedium,
			"Recurring expenses take %.0f%% of income", r.RecurringImpact.MonthlyExpense/s.TotalIncome*100)
	}

	if p := r.Projection; p.FinalBalanceProjection < 0 {
		add(InsightNegativeBalance, p.Confidence,
			"At the current pace the balance ends %s at %.2f", p.Month, p.FinalBalanceProjection)
	}

	for _, a := range lowAlerts {
		if a.IncreasePercent != nil {
			add(InsightCategoryGrowth, model.ConfidenceLow,
				"%s spending grew %.0f%% vs the previous period", a.Category, *a.IncreasePercent)
		}
	}

	if s.ExpenseCount >= 5 && s.TotalExpenses > 0 {
		peak := r.Temporal.Weekdays[0]
		for _, d := range r.Temporal.Weekdays[1:] {
			if d.Total > peak.Total {
				peak = d
			}
		}
		add(InsightPeakWeekday, model.ConfidenceLow,
			"Most spending happens on %s (%.0f%% of expenses)", peak.Name, sharePercent(peak.Total, s.TotalExpenses))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence.Rank() > out[j].Confidence.Rank()
	})
	return out
}
