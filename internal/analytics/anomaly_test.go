package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/theirongolddev/cashburn/internal/model"
)

func anomaliesOf(list []model.Anomaly, kind string) []model.Anomaly {
	var out []model.Anomaly
	for _, a := range list {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func TestDetectAnomalies_EmptyAndSingleton(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")

	if got := e.DetectAnomalies(nil, 0); got == nil || len(got) != 0 {
		t.Errorf("DetectAnomalies(nil) = %#v, want empty", got)
	}
	one := classify(e, mkTx(t, "1", "2024-05-02", -50, "Lunch Spot"))
	if got := e.DetectAnomalies(one, 0); len(got) != 0 {
		t.Errorf("single ordinary expense flagged: %+v", got)
	}
}

func TestDetectAnomalies_IncomeShare(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "pay", "2024-05-01", 1000, "ACME Payroll"),
		mkTx(t, "car", "2024-05-03", -300, "Car Repair"),
		mkTx(t, "ok", "2024-05-04", -200, "Car Repair"),
	)

	got := anomaliesOf(e.DetectAnomalies(txs, 1000), KindIncomeShare)
	if len(got) != 1 || got[0].TransactionID != "car" {
		t.Fatalf("income share anomalies = %+v, want only car", got)
	}
	if got[0].Confidence != model.ConfidenceHigh {
		t.Errorf("Confidence = %s, want high", got[0].Confidence)
	}
}

func TestDetectAnomalies_Statistical(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	var raw []model.Transaction
	for i := 1; i <= 12; i++ {
		raw = append(raw, mkTx(t, fmt.Sprintf("c%02d", i), fmt.Sprintf("2024-05-%02d", i), -10, "Coffee Place"))
	}
	raw = append(raw, mkTx(t, "laptop", "2024-05-20", -1000, "Laptop Outlet"))
	txs := classify(e, raw...)

	got := anomaliesOf(e.DetectAnomalies(txs, 0), KindStatistical)
	if len(got) != 1 || got[0].TransactionID != "laptop" {
		t.Fatalf("statistical anomalies = %+v, want only laptop", got)
	}
	if got[0].Confidence != model.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium", got[0].Confidence)
	}

	// With large income the outlier is no longer significant.
	if got := anomaliesOf(e.DetectAnomalies(txs, 10000), KindStatistical); len(got) != 0 {
		t.Errorf("outlier below income share still flagged: %+v", got)
	}
	if got := anomaliesOf(e.DetectAnomalies(txs, 3000), KindStatistical); len(got) != 1 {
		t.Errorf("outlier above income share not flagged: %+v", got)
	}
}

func TestDetectAnomalies_StatisticalNeedsSample(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "1", "2024-05-01", -10, "Coffee Place"),
		mkTx(t, "2", "2024-05-02", -10, "Coffee Place"),
		mkTx(t, "3", "2024-05-03", -10, "Coffee Place"),
		mkTx(t, "4", "2024-05-04", -5000, "Laptop Outlet"),
	)
	if got := anomaliesOf(e.DetectAnomalies(txs, 0), KindStatistical); len(got) != 0 {
		t.Errorf("statistical pass ran on %d expenses: %+v", len(txs), got)
	}
}

func TestDetectAnomalies_ProblematicAndNight(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "steam", "2024-05-02", -250, "Steam Store"),
		mkTx(t, "taxi", "2024-05-10 02:30", -150, "Taxi Co"),
		mkTx(t, "taxi-small", "2024-05-10 03:00", -50, "Taxi Co"),
		mkTx(t, "taxi-untimed", "2024-05-11", -500, "Taxi Co"),
	)
	got := e.DetectAnomalies(txs, 0)

	prob := anomaliesOf(got, KindProblematicCategory)
	if len(prob) != 1 || prob[0].TransactionID != "steam" {
		t.Errorf("problematic anomalies = %+v, want only steam", prob)
	}
	night := anomaliesOf(got, KindNight)
	if len(night) != 1 || night[0].TransactionID != "taxi" {
		t.Errorf("night anomalies = %+v, want only taxi", night)
	}
}

func TestDetectAnomalies_Suspicious(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "g", "2024-05-08", -666, "Gacha World"),
		mkTx(t, "m", "2024-05-09", -45, "Market"),
	)
	got := anomaliesOf(e.DetectAnomalies(txs, 0), KindSuspicious)
	if len(got) != 1 || got[0].TransactionID != "g" {
		t.Fatalf("suspicious anomalies = %+v", got)
	}
	if !strings.Contains(got[0].Reason, "gacha") || !strings.Contains(got[0].Reason, "666.00") {
		t.Errorf("Reason = %q, want both merchant and amount signals", got[0].Reason)
	}
}

func TestDetectAdvancedAnomalies_SweetsAndFrequency(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	var raw []model.Transaction
	for i := 1; i <= 11; i++ {
		raw = append(raw, mkTx(t, fmt.Sprintf("s%02d", i), fmt.Sprintf("2024-05-%02d", i), -25, "iFood"))
	}
	txs := classify(e, raw...)
	w := Window{Start: mustTime(t, "2024-05-01"), End: mustTime(t, "2024-06-01")}

	got := e.DetectAdvancedAnomalies(txs, DetectSpendingPatterns(txs, w), AggregateCategories(txs), 0)

	sweets := anomaliesOf(got, KindSweetSpending)
	if len(sweets) != 2 {
		t.Fatalf("sweet anomalies = %+v, want count and total findings", sweets)
	}
	if sweets[0].Confidence != model.ConfidenceHigh || sweets[1].Confidence != model.ConfidenceMedium {
		t.Errorf("sweet confidences = %s, %s", sweets[0].Confidence, sweets[1].Confidence)
	}
	for _, a := range sweets {
		if a.TransactionID != "s11" {
			t.Errorf("sweet anomaly attached to %s, want latest s11", a.TransactionID)
		}
	}

	freq := anomaliesOf(got, KindFrequency)
	if len(freq) != 1 || freq[0].Confidence != model.ConfidenceHigh || freq[0].TransactionID != "s11" {
		t.Errorf("frequency anomalies = %+v", freq)
	}
}

func TestDetectAdvancedAnomalies_SweetTrend(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "1", "2024-05-01", -10, "Candy Shop"),
		mkTx(t, "2", "2024-05-02", -10, "Candy Shop"),
		mkTx(t, "3", "2024-05-20", -30, "Candy Shop"),
		mkTx(t, "4", "2024-05-21", -30, "Candy Shop"),
	)
	got := anomaliesOf(e.sweetSpendingPass(txs), KindSweetSpending)
	if len(got) != 1 || !strings.Contains(got[0].Reason, "increasing trend") {
		t.Errorf("sweet anomalies = %+v, want only the trend finding", got)
	}
}

func TestDetectAdvancedAnomalies_SweetTrendOddCount(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "1", "2024-05-05", -20, "Candy Shop"),
		mkTx(t, "2", "2024-05-15", -20, "Candy Shop"),
		mkTx(t, "3", "2024-05-25", -20, "Candy Shop"),
	)
	if got := e.sweetSpendingPass(txs); len(got) != 0 {
		t.Errorf("sweet anomalies = %+v, want none for constant spending", got)
	}

	txs = classify(e,
		mkTx(t, "1", "2024-05-05", -10, "Candy Shop"),
		mkTx(t, "2", "2024-05-15", -99, "Candy Shop"),
		mkTx(t, "3", "2024-05-25", -40, "Candy Shop"),
	)
	got := e.sweetSpendingPass(txs)
	if len(got) != 1 || !strings.Contains(got[0].Explanation, "40.00 vs 10.00") {
		t.Errorf("sweet anomalies = %+v, want a trend comparing 40.00 to 10.00", got)
	}
}

func TestDetectAdvancedAnomalies_Cumulative(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	txs := classify(e,
		mkTx(t, "m1", "2024-05-03", -250, "Market A"),
		mkTx(t, "m2", "2024-05-09", -200, "Market B"),
		mkTx(t, "r", "2024-05-05", -100, "Rent"),
	)

	got := anomaliesOf(e.DetectAdvancedAnomalies(txs, nil, AggregateCategories(txs), 1000), KindCumulativeCategory)
	if len(got) != 1 {
		t.Fatalf("cumulative anomalies = %+v, want one for food", got)
	}
	if got[0].TransactionID != "m2" || got[0].Confidence != model.ConfidenceHigh {
		t.Errorf("cumulative anomaly = %+v, want high on latest food expense m2", got[0])
	}

	if got := anomaliesOf(e.DetectAdvancedAnomalies(txs, nil, AggregateCategories(txs), 0), KindCumulativeCategory); len(got) != 0 {
		t.Errorf("cumulative pass ran without income: %+v", got)
	}
}

func TestCategoryAlerts(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	current := classify(e,
		mkTx(t, "f", "2024-05-03", -1000, "Super Market"),
		mkTx(t, "u", "2024-05-04", -130, "Uber Trip"),
		mkTx(t, "n", "2024-05-05", -115, "Netflix"),
		mkTx(t, "a", "2024-05-06", -50, "Amazon"),
	)
	previous := classify(e,
		mkTx(t, "pf", "2024-04-03", -400, "Super Market"),
		mkTx(t, "pu", "2024-04-04", -100, "Uber Trip"),
		mkTx(t, "pn", "2024-04-05", -100, "Netflix"),
	)

	got := e.CategoryAlerts(current, previous, 0)
	if len(got) != 3 {
		t.Fatalf("alerts = %+v, want food, transportation and entertainment", got)
	}
	want := []struct {
		cat model.Category
		sev model.Severity
	}{
		{model.CategoryFood, model.SeverityCritical},
		{model.CategoryTransportation, model.SeverityMedium},
		{model.CategoryEntertainment, model.SeverityLow},
	}
	for i, w := range want {
		if got[i].Category != w.cat || got[i].Severity != w.sev {
			t.Errorf("alert[%d] = %s/%s, want %s/%s", i, got[i].Category, got[i].Severity, w.cat, w.sev)
		}
	}
	if !strings.HasPrefix(got[0].Message, "CRITICAL") {
		t.Errorf("Message = %q, want severity prefix", got[0].Message)
	}
	if got[0].IncomeSharePercent != nil {
		t.Error("IncomeSharePercent set without income")
	}
	if len(got[0].Suggestions) == 0 {
		t.Error("food alert has no suggestions")
	}
}

func TestCategoryAlerts_IncomeShare(t *testing.T) {
	e := newTestEngine(t, "2024-05-31")
	current := classify(e, mkTx(t, "f", "2024-05-03", -250, "Super Market"))
	previous := classify(e, mkTx(t, "pf", "2024-04-03", -250, "Super Market"))

	got := e.CategoryAlerts(current, previous, 1000)
	if len(got) != 1 || got[0].Severity != model.SeverityHigh {
		t.Fatalf("alerts = %+v, want one high alert from income share", got)
	}
	if got[0].IncomeSharePercent == nil || !approx(*got[0].IncomeSharePercent, 25) {
		t.Errorf("IncomeSharePercent = %v, want 25", got[0].IncomeSharePercent)
	}
}

func TestSortAnomalies(t *testing.T) {
	d1, d2 := mustTime(t, "2024-05-01"), mustTime(t, "2024-05-02")
	list := []model.Anomaly{
		{TransactionID: "b", Date: d2, Kind: KindSuspicious},
		{TransactionID: "a", Date: d1, Kind: KindNight},
		{TransactionID: "c", Date: d1, Kind: KindSuspicious},
	}
	sortAnomalies(list)
	order := []string{list[0].TransactionID, list[1].TransactionID, list[2].TransactionID}
	if strings.Join(order, ",") != "c,a,b" {
		t.Errorf("order = %v, want [c a b]", order)
	}
}
