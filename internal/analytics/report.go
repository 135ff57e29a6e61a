// Package analytics is the transaction analytics engine: classification,
// recurrence, temporal aggregation, anomaly detection, monthly comparison
// and projections, assembled into one FinancialReport.
//
// The engine is pure. It reads its input and rules, never mutates them, and
// keeps no state between calls.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

// Engine runs the analysis passes over one rule set.
type Engine struct {
	rules config.Rules
	clf   *Classifier
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the reference date source. Reports are a pure function
// of their input and this clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithToday pins the reference date.
func WithToday(today time.Time) Option {
	return WithClock(func() time.Time { return today })
}

// New returns an engine over rules.
func New(rules config.Rules, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		clf:   NewClassifier(rules),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classifier exposes the engine's classifier.
func (e *Engine) Classifier() *Classifier { return e.clf }

// Today is the engine's reference date.
func (e *Engine) Today() time.Time { return civil(e.now()) }

// GenerateReport analyzes txs for the target month, or the full history when
// target is nil, and returns a self-contained report. Identical input and
// reference date always produce an identical report.
func (e *Engine) GenerateReport(txs []model.Transaction, balance float64, target *model.YearMonth) model.FinancialReport {
	today := e.Today()
	all := e.clf.ClassifyAll(txs)
	sortByDate(all)

	period, window, active := resolvePeriod(all, target, today)

	projMonth := model.YearMonthOf(today)
	if target != nil {
		projMonth = *target
	}
	projRef := today
	if last := projMonth.End(time.UTC).AddDate(0, 0, -1); projRef.After(last) {
		projRef = last
	}

	var current, previous, recurHistory, projHistory, monthToDate []model.ClassifiedTransaction
	for _, tx := range all {
		d := civil(tx.Date)
		if window.Contains(tx.Date) {
			current = append(current, tx)
		} else if target != nil && target.Prev().Contains(tx.Date) {
			previous = append(previous, tx)
		}
		if d.Before(window.End) {
			recurHistory = append(recurHistory, tx)
		}
		if !d.After(projRef) {
			projHistory = append(projHistory, tx)
			if projMonth.Contains(tx.Date) {
				monthToDate = append(monthToDate, tx)
			}
		}
	}

	summary := summarize(current)
	report := model.FinancialReport{
		Period:        period,
		ReferenceDate: today,
		Balance:       round2(balance),
		Summary:       summary,
		TopIncome:     topGroups(current, true, e.rules.Thresholds.TopN),
		TopExpenses:   topGroups(current, false, e.rules.Thresholds.TopN),
		Transactions:  make([]model.ClassifiedTransaction, 0, len(current)),
	}
	report.Transactions = append(report.Transactions, current...)

	var (
		wg         sync.WaitGroup
		recurring  []model.RecurringTransaction
		temporal   model.TemporalBreakdown
		categories []model.CategoryBreakdown
		patterns   []model.SpendingPattern
		basic      []model.Anomaly
		alerts     []model.CategoryAlert
		comparison model.MonthlyComparison
		projection model.SmartProjection
	)
	wg.Add(5)
	go func() {
		defer wg.Done()
		recurring = DetectRecurring(recurHistory)
	}()
	go func() {
		defer wg.Done()
		temporal = AggregateTemporal(current)
	}()
	go func() {
		defer wg.Done()
		categories = AggregateCategories(current)
		patterns = DetectSpendingPatterns(current, active)
	}()
	go func() {
		defer wg.Done()
		basic = e.DetectAnomalies(current, summary.TotalIncome)
		alerts = e.CategoryAlerts(current, previous, summary.TotalIncome)
		comparison = Compare(current, previous)
	}()
	go func() {
		defer wg.Done()
		base := e.Project(monthToDate, balance, projMonth, today)
		projection = e.ProjectSmart(base, projHistory, balance, projRef)
	}()
	wg.Wait()

	anomalies := append(basic, e.DetectAdvancedAnomalies(current, patterns, categories, summary.TotalIncome)...)
	sortAnomalies(anomalies)

	report.Recurring = recurring
	report.RecurringGroups = e.clf.AnalyzeRecurringPatterns(recurring)
	report.RecurringImpact = CalculateRecurringImpact(recurring)
	report.Temporal = temporal
	report.Categories = categories
	report.SpendingPatterns = patterns
	report.Anomalies = anomalies
	report.Comparison = comparison
	if target != nil {
		report.Comparison.PreviousPeriod = target.Prev().String()
	}
	report.Projection = projection

	report.CategoryAlerts = make([]model.CategoryAlert, 0, len(alerts))
	var lowAlerts []model.CategoryAlert
	for _, a := range alerts {
		if a.Severity == model.SeverityLow {
			lowAlerts = append(lowAlerts, a)
			continue
		}
		report.CategoryAlerts = append(report.CategoryAlerts, a)
	}

	report.Insights = e.buildInsights(&report, current, lowAlerts)
	return report
}

// resolvePeriod returns the report period, the full window it covers, and
// the active part of that window (clipped at today for a month in progress).
func resolvePeriod(all []model.ClassifiedTransaction, target *model.YearMonth, today time.Time) (model.ReportPeriod, Window, Window) {
	if target != nil {
		w := Window{Start: target.Start(time.UTC), End: target.End(time.UTC)}
		active := w
		if tomorrow := today.AddDate(0, 0, 1); !today.Before(w.Start) && tomorrow.Before(w.End) {
			active.End = tomorrow
		}
		ym := *target
		return model.ReportPeriod{
			Label: ym.String(),
			Month: &ym,
			Start: w.Start,
			End:   w.End.AddDate(0, 0, -1),
			Days:  w.Days(),
		}, w, active
	}

	w := Window{Start: today, End: today.AddDate(0, 0, 1)}
	if len(all) > 0 {
		w = Window{Start: civil(all[0].Date), End: civil(all[len(all)-1].Date).AddDate(0, 0, 1)}
	}
	return model.ReportPeriod{
		Label:       "all time",
		Start:       w.Start,
		End:         w.End.AddDate(0, 0, -1),
		Days:        w.Days(),
		FullHistory: true,
	}, w, w
}

func summarize(txs []model.ClassifiedTransaction) model.Summary {
	var income, expenses ledger
	s := model.Summary{TransactionCount: len(txs)}
	for _, tx := range txs {
		if tx.Classification.IsIncome {
			income.add(tx.Magnitude())
			s.IncomeCount++
		} else {
			expenses.add(tx.Magnitude())
			s.ExpenseCount++
			s.LargestExpense = max(s.LargestExpense, tx.Magnitude())
		}
		if tx.Classification.Conflict {
			s.ConflictCount++
		}
		if tx.Suspicious {
			s.SuspiciousCount++
		}
	}
	s.TotalIncome = income.value()
	s.TotalExpenses = expenses.value()
	s.NetBalance = round2(s.TotalIncome - s.TotalExpenses)
	if s.ExpenseCount > 0 {
		s.AverageExpense = round2(s.TotalExpenses / float64(s.ExpenseCount))
	}
	if s.TotalIncome > 0 {
		s.SavingsRate = sharePercent(s.NetBalance, s.TotalIncome)
	}
	return s
}

// topGroups ranks merchants on one side of the ledger. Merchants past the
// first n are folded into a single aggregated row so the list always sums
// to the side's total.
func topGroups(txs []model.ClassifiedTransaction, income bool, n int) []model.MerchantGroup {
	sameSide := func(tx model.ClassifiedTransaction) bool { return tx.Classification.IsIncome == income }
	groups := groupByMerchant(txs, sameSide)

	type row struct {
		name  string
		total ledger
		count int
	}
	rows := make([]row, 0, len(groups))
	var all ledger
	for _, g := range groups {
		r := row{name: strings.TrimSpace(g.txs[0].Merchant), count: len(g.txs)}
		for _, tx := range g.txs {
			r.total.add(tx.Magnitude())
			all.add(tx.Magnitude())
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].total.total.GreaterThan(rows[j].total.total)
	})

	total := all.value()
	out := make([]model.MerchantGroup, 0, min(len(rows), n+1))
	var rest ledger
	restCount, restMerchants := 0, 0
	for i, r := range rows {
		if n > 0 && i >= n {
			rest.total = rest.total.Add(r.total.total)
			restCount += r.count
			restMerchants++
			continue
		}
		out = append(out, model.MerchantGroup{
			Merchant:     r.name,
			Total:        r.total.value(),
			Count:        r.count,
			SharePercent: sharePercent(r.total.value(), total),
		})
	}
	if restMerchants > 0 {
		out = append(out, model.MerchantGroup{
			Merchant:     fmt.Sprintf("%d other merchants", restMerchants),
			Total:        rest.value(),
			Count:        restCount,
			SharePercent: sharePercent(rest.value(), total),
			Aggregated:   true,
		})
	}
	return out
}
