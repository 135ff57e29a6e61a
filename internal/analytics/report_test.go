package analytics

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

func salaryMonth(t *testing.T) []model.Transaction {
	t.Helper()
	return []model.Transaction{
		mkTx(t, "1", "2024-05-01", 14850, "Salary Co"),
		mkTx(t, "2", "2024-05-02", -2500, "Rent Landlord"),
		mkTx(t, "3", "2024-05-03 20:15", -350, "Super Market"),
		mkTx(t, "4", "2024-05-05", -39.90, "Netflix"),
		mkTx(t, "5", "2024-05-08 02:10", -666, "Gacha World"),
	}
}

func hasAnomaly(list []model.Anomaly, id, kind string) bool {
	for _, a := range list {
		if a.TransactionID == id && a.Kind == kind {
			return true
		}
	}
	return false
}

func TestGenerateReport_Month(t *testing.T) {
	e := newTestEngine(t, "2024-05-20")
	may := model.YearMonth{Year: 2024, Month: 5}

	r := e.GenerateReport(salaryMonth(t), 4000, &may)

	if r.Period.Label != "2024-05" || r.Period.Days != 31 || r.Period.FullHistory {
		t.Errorf("Period = %+v", r.Period)
	}
	s := r.Summary
	if !approx(s.TotalIncome, 14850) || !approx(s.TotalExpenses, 3555.90) {
		t.Errorf("totals = %.2f / %.2f, want 14850 / 3555.90", s.TotalIncome, s.TotalExpenses)
	}
	if !approx(s.NetBalance, 11294.10) {
		t.Errorf("NetBalance = %.2f, want 11294.10", s.NetBalance)
	}
	if s.IncomeCount != 1 || s.ExpenseCount != 4 || s.SuspiciousCount != 1 {
		t.Errorf("counts = %+v", s)
	}
	if !approx(s.LargestExpense, 2500) {
		t.Errorf("LargestExpense = %.2f, want 2500", s.LargestExpense)
	}

	for _, kind := range []string{KindSuspicious, KindProblematicCategory, KindNight} {
		if !hasAnomaly(r.Anomalies, "5", kind) {
			t.Errorf("missing %s anomaly on the gacha purchase", kind)
		}
	}
	for i := 1; i < len(r.Anomalies); i++ {
		if r.Anomalies[i].Date.Before(r.Anomalies[i-1].Date) {
			t.Errorf("anomalies not sorted by date: %+v", r.Anomalies)
		}
	}

	if len(r.TopExpenses) == 0 || r.TopExpenses[0].Merchant != "Rent Landlord" {
		t.Errorf("TopExpenses = %+v, want rent first", r.TopExpenses)
	}
	if len(r.TopIncome) != 1 || r.TopIncome[0].Merchant != "Salary Co" {
		t.Errorf("TopIncome = %+v", r.TopIncome)
	}
	if len(r.Transactions) != 5 {
		t.Errorf("len(Transactions) = %d, want 5", len(r.Transactions))
	}

	if r.Comparison.HasPreviousData || r.Comparison.IncomePercent.Defined() {
		t.Errorf("Comparison = %+v, want undefined variations", r.Comparison)
	}
	if r.Comparison.PreviousPeriod != "2024-04" {
		t.Errorf("PreviousPeriod = %q, want 2024-04", r.Comparison.PreviousPeriod)
	}

	if r.Projection.Confidence == model.ConfidenceHigh {
		t.Error("projection confidence high with five transactions")
	}
	if r.Projection.Month != may {
		t.Errorf("projection month = %s, want %s", r.Projection.Month, may)
	}

	var suspicious bool
	for _, in := range r.Insights {
		if in.Kind == InsightSuspicious {
			suspicious = true
		}
	}
	if !suspicious {
		t.Errorf("insights = %+v, want a suspicious activity insight", r.Insights)
	}
	for i := 1; i < len(r.Insights); i++ {
		if r.Insights[i].Confidence.Rank() > r.Insights[i-1].Confidence.Rank() {
			t.Errorf("insights not ranked by confidence: %+v", r.Insights)
		}
	}
}

func TestGenerateReport_Empty(t *testing.T) {
	e := newTestEngine(t, "2024-05-20")
	r := e.GenerateReport(nil, 0, nil)

	if !r.Period.FullHistory || r.Period.Label != "all time" {
		t.Errorf("Period = %+v", r.Period)
	}
	if r.Summary.TransactionCount != 0 || r.Summary.TotalIncome != 0 {
		t.Errorf("Summary = %+v", r.Summary)
	}
	if len(r.Anomalies) != 0 || len(r.Recurring) != 0 || len(r.CategoryAlerts) != 0 {
		t.Errorf("empty input produced findings: %+v", r)
	}
	if len(r.Temporal.Weekdays) != 7 {
		t.Errorf("Weekdays = %+v", r.Temporal.Weekdays)
	}
	if _, err := json.Marshal(r); err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
}

func TestGenerateReport_Deterministic(t *testing.T) {
	e := newTestEngine(t, "2024-05-20")
	may := model.YearMonth{Year: 2024, Month: 5}
	txs := salaryMonth(t)

	a, err := json.Marshal(e.GenerateReport(txs, 4000, &may))
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	for i := 0; i < 5; i++ {
		b, err := json.Marshal(e.GenerateReport(txs, 4000, &may))
		if err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
		if string(a) != string(b) {
			t.Fatal("report differs between runs on identical input")
		}
	}
}

func TestGenerateReport_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t, "2024-05-20")
	txs := []model.Transaction{
		mkTx(t, "b", "2024-05-09", -20, "Netflix"),
		mkTx(t, "a", "2024-05-01", -10, "Market"),
	}
	e.GenerateReport(txs, 0, nil)
	if txs[0].ID != "b" || txs[0].Category != model.CategoryNone {
		t.Errorf("input modified: %+v", txs)
	}
}

func TestGenerateReport_TopNSumsToTotal(t *testing.T) {
	rules := config.DefaultRules()
	rules.Thresholds.TopN = 2
	e := New(rules, WithToday(mustTime(t, "2024-05-31")))
	may := model.YearMonth{Year: 2024, Month: 5}

	var txs []model.Transaction
	for i, amt := range []float64{-500, -300.10, -120.33, -45.57, -9.99} {
		txs = append(txs, mkTx(t, fmt.Sprint(i), fmt.Sprintf("2024-05-%02d", i+1), amt, fmt.Sprintf("Vendor %d", i)))
	}
	r := e.GenerateReport(txs, 0, &may)

	if len(r.TopExpenses) != 3 {
		t.Fatalf("TopExpenses = %+v, want two merchants and an aggregated row", r.TopExpenses)
	}
	rest := r.TopExpenses[2]
	if !rest.Aggregated || rest.Merchant != "3 other merchants" || rest.Count != 3 {
		t.Errorf("aggregated row = %+v", rest)
	}
	var sum float64
	for _, g := range r.TopExpenses {
		sum += g.Total
	}
	if !approx(sum, r.Summary.TotalExpenses) {
		t.Errorf("TopExpenses sum = %.2f, want %.2f", sum, r.Summary.TotalExpenses)
	}
}

func TestGenerateReport_IncomeKeywordNeverExpense(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	may := model.YearMonth{Year: 2024, Month: 5}
	r := e.GenerateReport([]model.Transaction{
		mkTx(t, "1", "2024-05-01", -500, "Salary Co"),
		mkTx(t, "2", "2024-05-02", -50, "Market"),
	}, 0, &may)

	for _, g := range r.TopExpenses {
		if g.Merchant == "Salary Co" {
			t.Errorf("income keyword merchant listed as expense: %+v", g)
		}
	}
	if r.Summary.ConflictCount != 1 {
		t.Errorf("ConflictCount = %d, want 1", r.Summary.ConflictCount)
	}
	if !approx(r.Summary.TotalIncome, 500) {
		t.Errorf("TotalIncome = %.2f, want 500", r.Summary.TotalIncome)
	}
}

func TestGenerateReport_FullHistory(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	r := e.GenerateReport([]model.Transaction{
		mkTx(t, "1", "2024-04-10", -50, "Market"),
		mkTx(t, "2", "2024-05-20", -70, "Market"),
	}, 0, nil)

	if r.Period.Start.Format("2006-01-02") != "2024-04-10" || r.Period.End.Format("2006-01-02") != "2024-05-20" {
		t.Errorf("Period = %s..%s", r.Period.Start, r.Period.End)
	}
	if r.Summary.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", r.Summary.TransactionCount)
	}
	if r.Comparison.PreviousPeriod != "" {
		t.Errorf("PreviousPeriod = %q, want empty for full history", r.Comparison.PreviousPeriod)
	}
}
