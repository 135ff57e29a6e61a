package daemon

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/logger"
	"github.com/theirongolddev/cashburn/internal/model"
)

func writeStatement(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	return New(Config{
		DataDir:  dir,
		Rules:    config.DefaultRules(),
		Balance:  1000,
		Interval: 10 * time.Second,
		Logger:   logger.Nop(),
		Now:      func() time.Time { return now },
	})
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Transactions:     10,
		Income:           5000,
		Expenses:         1200.5,
		Anomalies:        1,
		Alerts:           0,
		ProjectedBalance: 4100,
	}
	curr := Snapshot{
		Transactions:     12,
		Income:           5000,
		Expenses:         1350.75,
		Anomalies:        2,
		Alerts:           1,
		ProjectedBalance: 3900.1,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Transactions != 2 {
		t.Fatalf("Transactions delta = %d, want 2", delta.Transactions)
	}
	if delta.Income != 0 {
		t.Fatalf("Income delta = %.2f, want 0", delta.Income)
	}
	if math.Abs(delta.Expenses-150.25) > 1e-9 {
		t.Fatalf("Expenses delta = %.2f, want 150.25", delta.Expenses)
	}
	if delta.Anomalies != 1 || delta.Alerts != 1 {
		t.Fatalf("Anomalies/Alerts delta = %d/%d, want 1/1", delta.Anomalies, delta.Alerts)
	}
	if math.Abs(delta.ProjectedBalance+199.9) > 1e-9 {
		t.Fatalf("ProjectedBalance delta = %.2f, want -199.90", delta.ProjectedBalance)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should produce a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		DataDir:      ".",
		Interval:     10 * time.Second,
		EventsBuffer: 2,
		Logger:       logger.Nop(),
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_EmitsSnapshotThenDelta(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "may.csv", "id,date,amount,merchant\n"+
		"p1,2024-05-05,5000,ACME Payroll\n"+
		"m1,2024-05-06,-100,Market\n")

	s := newTestService(t, dir)
	s.pollOnce()

	st := s.snapshotStatus()
	if st.PollCount != 1 || st.LastError != "" {
		t.Fatalf("PollCount = %d, LastError = %q", st.PollCount, st.LastError)
	}
	if st.Summary.Month != "2024-05" {
		t.Errorf("Month = %q, want 2024-05", st.Summary.Month)
	}
	if st.Summary.Transactions != 2 {
		t.Errorf("Transactions = %d, want 2", st.Summary.Transactions)
	}
	if st.Summary.Income != 5000 || st.Summary.Expenses != 100 || st.Summary.Net != 4900 {
		t.Errorf("Income/Expenses/Net = %.2f/%.2f/%.2f, want 5000/100/4900",
			st.Summary.Income, st.Summary.Expenses, st.Summary.Net)
	}
	if st.EventCount != 1 {
		t.Fatalf("EventCount = %d, want 1", st.EventCount)
	}

	// Unchanged data publishes nothing.
	s.pollOnce()
	if got := s.snapshotStatus().EventCount; got != 1 {
		t.Fatalf("EventCount after idle poll = %d, want 1", got)
	}

	writeStatement(t, dir, "extra.csv", "id,date,amount,merchant\n"+
		"m2,2024-05-07,-50,Bakery\n")
	s.pollOnce()

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != "snapshot" || events[1].Type != "report_delta" {
		t.Errorf("event types = %q, %q", events[0].Type, events[1].Type)
	}
	if events[1].Delta.Transactions != 1 || events[1].Delta.Expenses != 50 {
		t.Errorf("delta = %+v, want 1 transaction / 50 expenses", events[1].Delta)
	}
	if events[1].ID != 2 {
		t.Errorf("second event ID = %d, want 2", events[1].ID)
	}
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test server URL
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHTTPEndpoints(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "may.csv", "id,date,amount,merchant\n"+
		"a1,2024-04-05,4000,ACME Payroll\n"+
		"p1,2024-05-05,5000,ACME Payroll\n"+
		"m1,2024-05-06,-100,Market\n")

	s := newTestService(t, dir)
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz") //nolint:gosec,noctx // test server URL
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "ok\n" {
		t.Errorf("healthz body = %q", body)
	}

	var st Status
	if code := getJSON(t, srv.URL+"/v1/status", &st); code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if st.Files != 1 || st.Balance != 1000 || st.Summary.Transactions != 2 {
		t.Errorf("status = %+v", st)
	}

	var report model.FinancialReport
	if code := getJSON(t, srv.URL+"/v1/report?month=2024-05", &report); code != http.StatusOK {
		t.Fatalf("report code = %d", code)
	}
	if report.Period.Label != "2024-05" || report.Summary.TotalIncome != 5000 {
		t.Errorf("report period/income = %q/%.2f", report.Period.Label, report.Summary.TotalIncome)
	}
	if report.Comparison.PreviousPeriod != "2024-04" || report.Comparison.Previous.Income != 4000 {
		t.Errorf("comparison = %+v", report.Comparison)
	}

	// Same month again is served from the memo.
	getJSON(t, srv.URL+"/v1/report?month=2024-05", nil)
	getJSON(t, srv.URL+"/v1/report", nil)
	if n := s.reports.ItemCount(); n != 1 {
		t.Errorf("memoized reports = %d, want 1", n)
	}

	var all model.FinancialReport
	if code := getJSON(t, srv.URL+"/v1/report?month=all", &all); code != http.StatusOK {
		t.Fatalf("full history code = %d", code)
	}
	if !all.Period.FullHistory || all.Summary.TransactionCount != 3 {
		t.Errorf("full history = %+v", all.Period)
	}
	if n := s.reports.ItemCount(); n != 2 {
		t.Errorf("memoized reports = %d, want 2", n)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if code := getJSON(t, srv.URL+"/v1/report?month=May", &apiErr); code != http.StatusBadRequest {
		t.Errorf("bad month code = %d, want 400", code)
	}
	if !strings.Contains(apiErr.Error, "May") {
		t.Errorf("bad month error = %q, want it to name the value", apiErr.Error)
	}

	var events []Event
	if code := getJSON(t, srv.URL+"/v1/events", &events); code != http.StatusOK || len(events) != 1 {
		t.Errorf("events code = %d, len = %d", code, len(events))
	}
}

func TestPollOnce_DataChangeFlushesReports(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "may.csv", "id,date,amount,merchant\n"+
		"p1,2024-05-05,5000,ACME Payroll\n")

	s := newTestService(t, dir)
	s.pollOnce()
	if _, err := s.report(""); err != nil {
		t.Fatal(err)
	}
	if n := s.reports.ItemCount(); n != 1 {
		t.Fatalf("memoized reports = %d, want 1", n)
	}

	writeStatement(t, dir, "june.csv", "id,date,amount,merchant\n"+
		"j1,2024-06-01,-20,Kiosk\n")
	s.pollOnce()
	if n := s.reports.ItemCount(); n != 0 {
		t.Errorf("memoized reports after change = %d, want 0", n)
	}
}
