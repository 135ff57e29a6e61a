package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/theirongolddev/cashburn/internal/model"
)

func mayToDate(t *testing.T, e *Engine) []model.ClassifiedTransaction {
	t.Helper()
	var raw []model.Transaction
	for i := 1; i <= 5; i++ {
		raw = append(raw, mkTx(t, fmt.Sprintf("m%d", i), fmt.Sprintf("2024-05-%02d", i), -100, "Market"))
	}
	raw = append(raw, mkTx(t, "pay", "2024-05-05", 3000, "ACME Payroll"))
	return classify(e, raw...)
}

func TestProject_Baseline(t *testing.T) {
	e := newTestEngine(t, "2024-05-10")
	may := model.YearMonth{Year: 2024, Month: 5}

	p := e.Project(mayToDate(t, e), 1000, may, e.Today())

	if p.DaysElapsed != 10 || p.DaysRemaining != 22 {
		t.Errorf("days = %d elapsed / %d remaining, want 10 / 22", p.DaysElapsed, p.DaysRemaining)
	}
	if !approx(p.AverageDailyIncome, 300) || !approx(p.AverageDailyExpense, 50) {
		t.Errorf("daily = %.2f / %.2f, want 300 / 50", p.AverageDailyIncome, p.AverageDailyExpense)
	}
	if !approx(p.FinalBalanceProjection, 6500) {
		t.Errorf("FinalBalanceProjection = %.2f, want 6500", p.FinalBalanceProjection)
	}
	if p.Confidence != model.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium", p.Confidence)
	}
	if len(p.ReductionImpact) != 1 {
		t.Fatalf("ReductionImpact = %+v", p.ReductionImpact)
	}
	if r := p.ReductionImpact[0]; r.Category != model.CategoryFood || !approx(r.ProjectedSavings, 310) {
		t.Errorf("ReductionImpact[0] = %+v, want food saving 310", r)
	}
}

func TestProject_FinishedAndFutureMonths(t *testing.T) {
	e := newTestEngine(t, "2024-05-10")

	april := e.Project(nil, 500, model.YearMonth{Year: 2024, Month: 4}, e.Today())
	if april.DaysElapsed != 30 || april.DaysRemaining != 0 {
		t.Errorf("finished month days = %d / %d, want 30 / 0", april.DaysElapsed, april.DaysRemaining)
	}
	if !approx(april.FinalBalanceProjection, 500) {
		t.Errorf("finished month projection = %.2f, want the balance", april.FinalBalanceProjection)
	}

	june := e.Project(nil, 500, model.YearMonth{Year: 2024, Month: 6}, e.Today())
	if june.DaysElapsed != 0 || june.DaysRemaining != 30 {
		t.Errorf("future month days = %d / %d, want 0 / 30", june.DaysElapsed, june.DaysRemaining)
	}
	if june.Confidence != model.ConfidenceLow {
		t.Errorf("future month confidence = %s, want low", june.Confidence)
	}
}

func TestProject_NeverHighBelowTenTransactions(t *testing.T) {
	e := newTestEngine(t, "2024-05-25")
	may := model.YearMonth{Year: 2024, Month: 5}
	var raw []model.Transaction
	for i := 1; i <= 9; i++ {
		raw = append(raw, mkTx(t, fmt.Sprintf("m%d", i), fmt.Sprintf("2024-05-%02d", i*2), -20, "Market"))
	}
	txs := classify(e, raw...)

	p := e.Project(txs, 100, may, e.Today())
	if p.Confidence == model.ConfidenceHigh {
		t.Errorf("baseline confidence high with %d transactions", len(txs))
	}
}

func TestProjectSmart_SalaryCycle(t *testing.T) {
	e := newTestEngine(t, "2024-05-10")
	may := model.YearMonth{Year: 2024, Month: 5}

	monthToDate := mayToDate(t, e)
	history := append(classify(e,
		mkTx(t, "pay1", "2024-01-05", 3000, "ACME Payroll"),
		mkTx(t, "pay2", "2024-02-05", 3000, "ACME Payroll"),
		mkTx(t, "pay3", "2024-03-05", 3000, "ACME Payroll"),
		mkTx(t, "pay4", "2024-04-05", 3000, "ACME Payroll"),
	), monthToDate...)

	base := e.Project(monthToDate, 1000, may, e.Today())
	sp := e.ProjectSmart(base, history, 1000, e.Today())

	salary, ok := strongest(sp.HistoricalPatterns, model.PatternSalaryCycle)
	if !ok {
		t.Fatalf("no salary cycle in %+v", sp.HistoricalPatterns)
	}
	if salary.Confidence != model.ConfidenceHigh {
		t.Errorf("salary confidence = %s, want high", salary.Confidence)
	}
	if salary.NextExpected == nil || salary.NextExpected.Format("2006-01-02") != "2024-06-04" {
		t.Errorf("NextExpected = %v, want 2024-06-04", salary.NextExpected)
	}
	if !approx(salary.AverageValue, 3000) {
		t.Errorf("AverageValue = %.2f, want 3000", salary.AverageValue)
	}

	if sp.SeasonalAdjustment.Factor != 1.05 {
		t.Errorf("seasonal factor = %.2f, want 1.05 for May", sp.SeasonalAdjustment.Factor)
	}
	if sp.Baseline.FinalBalanceProjection != base.FinalBalanceProjection {
		t.Error("baseline not preserved")
	}
	if sp.ProjectedIncome <= base.ProjectedIncome {
		t.Errorf("smart income %.2f should exceed baseline %.2f", sp.ProjectedIncome, base.ProjectedIncome)
	}

	// Strong factors score high, but six transactions cap it at medium.
	if sp.ConfidenceScore <= 0.3 {
		t.Errorf("ConfidenceScore = %.2f, want > 0.3", sp.ConfidenceScore)
	}
	if sp.Confidence != model.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium", sp.Confidence)
	}

	var next *model.Scenario
	for i := range sp.AlternativeScenarios {
		if sp.AlternativeScenarios[i].Name == "expected_next_income" {
			next = &sp.AlternativeScenarios[i]
		}
	}
	if next == nil {
		t.Fatalf("scenarios = %+v, want expected_next_income", sp.AlternativeScenarios)
	}
	if next.Probability != 0.2 {
		t.Errorf("next income probability = %.2f, want 0.2 when it lands after month end", next.Probability)
	}
	if len(sp.AlternativeScenarios) != 3 {
		t.Errorf("len(scenarios) = %d, want 3", len(sp.AlternativeScenarios))
	}
}

func TestProjectSmart_NoHistory(t *testing.T) {
	e := newTestEngine(t, "2024-05-10")
	may := model.YearMonth{Year: 2024, Month: 5}
	base := e.Project(nil, 200, may, e.Today())

	sp := e.ProjectSmart(base, nil, 200, e.Today())
	if len(sp.HistoricalPatterns) != 0 {
		t.Errorf("patterns = %+v, want none", sp.HistoricalPatterns)
	}
	if sp.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %s, want low", sp.Confidence)
	}
	if !approx(sp.FinalBalanceProjection, 200) {
		t.Errorf("FinalBalanceProjection = %.2f, want 200", sp.FinalBalanceProjection)
	}
	if len(sp.AlternativeScenarios) != 2 {
		t.Errorf("scenarios = %+v, want optimistic and pessimistic", sp.AlternativeScenarios)
	}
}

func TestScoreConfidence(t *testing.T) {
	f := func(weights ...float64) []model.ConfidenceFactor {
		out := make([]model.ConfidenceFactor, len(weights))
		for i, w := range weights {
			out[i] = model.ConfidenceFactor{Name: fmt.Sprintf("f%d", i), Weight: w}
		}
		return out
	}
	tests := []struct {
		name      string
		factors   []model.ConfidenceFactor
		wantScore float64
		want      model.Confidence
	}{
		{"all positive", f(0.3, 0.2, 0.25), 1, model.ConfidenceHigh},
		{"all negative", f(-0.2, -0.1, -0.25), -1, model.ConfidenceLow},
		{"balanced", f(0.15, 0.1, -0.25), 0, model.ConfidenceMedium},
		{"slightly negative", f(0.3, -0.1, -0.25), -0.08, model.ConfidenceMedium},
		{"mostly negative", f(0.15, -0.1, -0.25), -0.4, model.ConfidenceLow},
		{"none", nil, 0, model.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, conf := scoreConfidence(tt.factors)
			if !approx(score, tt.wantScore) {
				t.Errorf("score = %.2f, want %.2f", score, tt.wantScore)
			}
			if conf != tt.want {
				t.Errorf("confidence = %s, want %s", conf, tt.want)
			}
		})
	}
}

func TestWeeklyPattern(t *testing.T) {
	e := newTestEngine(t, "2024-06-30")
	// 2024-06-01 is a Saturday.
	expenses := classify(e,
		mkTx(t, "s1", "2024-06-01", -100, "Market"),
		mkTx(t, "m1", "2024-06-03", -10, "Market"),
		mkTx(t, "t1", "2024-06-04", -10, "Market"),
		mkTx(t, "w1", "2024-06-05", -10, "Market"),
		mkTx(t, "s2", "2024-06-08", -100, "Market"),
		mkTx(t, "m2", "2024-06-10", -10, "Market"),
		mkTx(t, "t2", "2024-06-11", -10, "Market"),
		mkTx(t, "s3", "2024-06-15", -100, "Market"),
	)

	p, ok := weeklyPattern(expenses)
	if !ok {
		t.Fatal("weeklyPattern found nothing")
	}
	if p.PatternType != model.PatternWeekly {
		t.Errorf("PatternType = %s, want weekly", p.PatternType)
	}
	if !strings.Contains(p.Description, "Saturdays") {
		t.Errorf("Description = %q, want Saturdays", p.Description)
	}
	// 300 on Saturdays against a 50 weekday average caps the impact at 1.
	if p.Impact != 1 {
		t.Errorf("Impact = %.2f, want 1", p.Impact)
	}
	if p.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %s, want low under four weeks", p.Confidence)
	}

	if _, ok := weeklyPattern(expenses[:7]); ok {
		t.Error("weeklyPattern fired on an 11-day span")
	}
	if _, ok := weeklyPattern(expenses[1:7]); ok {
		t.Error("weeklyPattern fired on six purchases")
	}
}

func TestMonthlyTrend(t *testing.T) {
	e := newTestEngine(t, "2024-06-28")
	expenses := classify(e,
		mkTx(t, "1", "2024-06-01", -10, "Market"),
		mkTx(t, "2", "2024-06-05", -10, "Market"),
		mkTx(t, "3", "2024-06-20", -15, "Market"),
		mkTx(t, "4", "2024-06-28", -15, "Market"),
	)

	p, ok := monthlyTrend(expenses)
	if !ok {
		t.Fatal("monthlyTrend found nothing")
	}
	if p.PatternType != model.PatternMonthly {
		t.Errorf("PatternType = %s, want monthly", p.PatternType)
	}
	if !approx(p.Impact, 0.5) {
		t.Errorf("Impact = %.2f, want 0.5 for a 1.5x rise", p.Impact)
	}
	if p.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %s, want low below ten purchases", p.Confidence)
	}

	short := classify(e,
		mkTx(t, "1", "2024-06-01", -10, "Market"),
		mkTx(t, "2", "2024-06-02", -10, "Market"),
		mkTx(t, "3", "2024-06-09", -50, "Market"),
		mkTx(t, "4", "2024-06-10", -50, "Market"),
	)
	if _, ok := monthlyTrend(short); ok {
		t.Error("monthlyTrend fired on a 10-day span")
	}
	if _, ok := monthlyTrend(expenses[:3]); ok {
		t.Error("monthlyTrend fired on three purchases")
	}
	flat := classify(e,
		mkTx(t, "1", "2024-06-01", -10, "Market"),
		mkTx(t, "2", "2024-06-10", -10, "Market"),
		mkTx(t, "3", "2024-06-19", -10, "Market"),
		mkTx(t, "4", "2024-06-28", -10, "Market"),
	)
	if _, ok := monthlyTrend(flat); ok {
		t.Error("monthlyTrend fired on flat spending")
	}
}

func TestProjectSmart_MonthlyTrendRaisesExpenses(t *testing.T) {
	e := newTestEngine(t, "2024-06-28")
	june := model.YearMonth{Year: 2024, Month: 6}
	history := classify(e,
		mkTx(t, "1", "2024-06-01", -10, "Market"),
		mkTx(t, "2", "2024-06-05", -10, "Market"),
		mkTx(t, "3", "2024-06-20", -15, "Market"),
		mkTx(t, "4", "2024-06-28", -15, "Market"),
	)

	base := e.Project(history, 0, june, e.Today())
	sp := e.ProjectSmart(base, history, 0, e.Today())

	if len(sp.HistoricalPatterns) != 1 || sp.HistoricalPatterns[0].PatternType != model.PatternMonthly {
		t.Fatalf("patterns = %+v, want only the monthly trend", sp.HistoricalPatterns)
	}
	if sp.SeasonalAdjustment.Factor != 1 {
		t.Errorf("seasonal factor = %.2f, want 1 for June", sp.SeasonalAdjustment.Factor)
	}
	// impact 0.5 weighted by 0.3
	want := round2(base.AverageDailyExpense * 1.15)
	if !approx(sp.AverageDailyExpense, want) {
		t.Errorf("AverageDailyExpense = %.2f, want %.2f", sp.AverageDailyExpense, want)
	}
	if sp.AverageDailyExpense <= base.AverageDailyExpense {
		t.Errorf("smart daily expense %.2f should exceed baseline %.2f", sp.AverageDailyExpense, base.AverageDailyExpense)
	}
	if !approx(sp.AverageDailyIncome, base.AverageDailyIncome) {
		t.Errorf("AverageDailyIncome = %.2f, want baseline %.2f", sp.AverageDailyIncome, base.AverageDailyIncome)
	}
}

func TestSeasonalPatterns(t *testing.T) {
	e := newTestEngine(t, "2024-06-15")
	june := model.YearMonth{Year: 2024, Month: 6}
	expenses := classify(e,
		mkTx(t, "jan", "2024-01-10", -100, "Market"),
		mkTx(t, "feb", "2024-02-10", -100, "Market"),
		mkTx(t, "mar", "2024-03-10", -100, "Market"),
		mkTx(t, "apr", "2024-04-10", -100, "Market"),
		mkTx(t, "may", "2024-05-10", -200, "Market"),
		mkTx(t, "jun", "2024-06-10", -1000, "Market"),
	)

	got := seasonalPatterns(expenses, june)
	if len(got) != 1 {
		t.Fatalf("patterns = %+v, want only May", got)
	}
	p := got[0]
	if p.PatternType != model.PatternSeasonal {
		t.Errorf("PatternType = %s, want seasonal", p.PatternType)
	}
	if !strings.Contains(p.Description, "May 2024") || !strings.Contains(p.Description, "67% above") {
		t.Errorf("Description = %q", p.Description)
	}
	if !approx(p.Impact, 0.33) {
		t.Errorf("Impact = %.2f, want 0.33", p.Impact)
	}
	if p.Confidence != model.ConfidenceLow {
		t.Errorf("Confidence = %s, want low below six months", p.Confidence)
	}

	if got := seasonalPatterns(expenses[3:], june); got != nil {
		t.Errorf("patterns = %+v, want none with two completed months", got)
	}
}
