package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui/components"
)

var testToday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func tx(id string, date time.Time, amount float64, merchant string) model.Transaction {
	return model.Transaction{
		ID:            id,
		Date:          date,
		HasTime:       date.Hour() != 0,
		Amount:        amount,
		Merchant:      merchant,
		PaymentMethod: model.PaymentDebitCard,
	}
}

func day(m time.Month, d, hour int) time.Time {
	return time.Date(2026, m, d, hour, 0, 0, 0, time.UTC)
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		tx("s1", day(time.September, 5, 0), 3000, "ACME Payroll"),
		tx("s2", day(time.September, 9, 8), -4.50, "Coffee Corner"),
		tx("s3", day(time.September, 20, 0), -1200, "Landlord Rent"),
		tx("o1", day(time.October, 3, 0), 3000, "ACME Payroll"),
		tx("o2", day(time.October, 4, 8), -5.25, "Coffee Corner"),
		tx("o3", day(time.October, 8, 13), -62.10, "Green Market"),
		tx("o4", day(time.October, 12, 20), -18.00, "Cinema City"),
		tx("o5", day(time.October, 15, 0), -1200, "Landlord Rent"),
	}
}

// loadedApp returns a dashboard that has received its data and a window size.
func loadedApp(t *testing.T, txs []model.Transaction) App {
	t.Helper()
	a := NewApp(Options{
		DataDir: t.TempDir(),
		Balance: 1000,
		Today:   testToday,
		Config:  config.DefaultConfig(),
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Transactions: txs})
	return m.(App)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m tea.Model, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m.(App)
}

func TestDataLoadedComputesReport(t *testing.T) {
	a := loadedApp(t, sampleTransactions())

	if !a.loaded {
		t.Fatal("app not marked loaded")
	}
	if got := a.month; got != (model.YearMonth{Year: 2026, Month: time.October}) {
		t.Fatalf("month = %v, want 2026-10", got)
	}
	if len(a.months) != 2 {
		t.Fatalf("months = %v, want 2 entries", a.months)
	}
	if got := a.report.Summary.TransactionCount; got != 5 {
		t.Errorf("TransactionCount = %d, want 5", got)
	}
	if len(a.daily) != 31 {
		t.Errorf("daily series = %d days, want 31", len(a.daily))
	}
	if len(a.hourly) != 24 {
		t.Errorf("hourly series = %d hours, want 24", len(a.hourly))
	}
}

func TestLoadErrorIsShownAndClearedOnRefresh(t *testing.T) {
	a := loadedApp(t, nil)
	m, _ := a.Update(RefreshDataMsg{Err: errTest})
	a = m.(App)
	if a.loadErr == nil {
		t.Fatal("loadErr not set")
	}
	if !strings.Contains(a.View(), "Could not load statements") {
		t.Error("error card missing from view")
	}

	m, _ = a.Update(RefreshDataMsg{Transactions: sampleTransactions()})
	a = m.(App)
	if a.loadErr != nil {
		t.Fatalf("loadErr = %v after successful refresh", a.loadErr)
	}
	if a.report.Summary.TransactionCount != 5 {
		t.Errorf("TransactionCount = %d, want 5", a.report.Summary.TransactionCount)
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("statements directory missing")

func TestMonthNavigation(t *testing.T) {
	a := loadedApp(t, sampleTransactions())

	a = press(t, a, "[")
	if a.month.Month != time.September || a.report.Summary.TransactionCount != 3 {
		t.Fatalf("after [: month=%v count=%d", a.month, a.report.Summary.TransactionCount)
	}

	// Before the first month with data the calendar takes over.
	a = press(t, a, "[")
	if a.month.Month != time.August || a.report.Summary.TransactionCount != 0 {
		t.Fatalf("after [[: month=%v count=%d", a.month, a.report.Summary.TransactionCount)
	}
	a = press(t, a, "]")
	if a.month.Month != time.September {
		t.Fatalf("after ]: month=%v, want September", a.month)
	}

	a = press(t, a, "H")
	if !a.fullHistory || a.report.Summary.TransactionCount != 8 {
		t.Fatalf("full history: %v count=%d", a.fullHistory, a.report.Summary.TransactionCount)
	}
	a = press(t, a, "]")
	if a.fullHistory {
		t.Fatal("month key should leave full history")
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t, sampleTransactions())

	for _, tc := range []struct {
		key  string
		want int
	}{
		{"a", components.TabAnomalies},
		{"c", components.TabRecurring},
		{"p", components.TabProjection},
		{"b", components.TabBreakdown},
		{"t", components.TabTransactions},
		{"x", components.TabSettings},
		{"tab", components.TabOverview},
	} {
		a = press(t, a, tc.key)
		if a.activeTab != tc.want {
			t.Fatalf("key %q: activeTab = %d, want %d", tc.key, a.activeTab, tc.want)
		}
	}
}

func TestReportTabScrollResetsOnTabChange(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	a = press(t, a, "j", "j", "j")
	if a.scroll != 3 {
		t.Fatalf("scroll = %d, want 3", a.scroll)
	}
	a = press(t, a, "a")
	if a.scroll != 0 {
		t.Fatalf("scroll = %d after tab change, want 0", a.scroll)
	}
}

func TestVisibleTransactionsNewestFirst(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	list := a.visibleTransactions()
	if len(list) != 5 {
		t.Fatalf("got %d transactions, want 5", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Fatalf("not newest first at %d: %v after %v", i, list[i].Date, list[i-1].Date)
		}
	}
	if list[0].ID != "o5" {
		t.Errorf("first = %s, want o5", list[0].ID)
	}
}

func TestTransactionSearch(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	a = press(t, a, "t", "/")
	if !a.txState.searching {
		t.Fatal("/ should start search")
	}

	a = press(t, a, "coffee", "enter")
	if a.txState.searching {
		t.Fatal("enter should leave search mode")
	}
	if a.txState.searchQuery != "coffee" {
		t.Fatalf("searchQuery = %q, want coffee", a.txState.searchQuery)
	}
	list := a.visibleTransactions()
	if len(list) != 1 || list[0].Merchant != "Coffee Corner" {
		t.Fatalf("filtered = %+v", list)
	}

	a = press(t, a, "esc")
	if a.txState.searchQuery != "" || len(a.visibleTransactions()) != 5 {
		t.Fatalf("esc should clear the search, query=%q", a.txState.searchQuery)
	}
}

func TestTransactionCursorAndDetail(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	a = press(t, a, "t", "j", "j", "j", "j", "j", "j")
	if a.txState.cursor != 4 {
		t.Fatalf("cursor = %d, want clamped to 4", a.txState.cursor)
	}
	a = press(t, a, "g")
	if a.txState.cursor != 0 {
		t.Fatalf("cursor = %d after g, want 0", a.txState.cursor)
	}
	a = press(t, a, "G")
	if a.txState.cursor != 4 {
		t.Fatalf("cursor = %d after G, want 4", a.txState.cursor)
	}

	a = press(t, a, "enter")
	if a.txState.viewMode != txViewDetail {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(a.View(), "CLASSIFICATION") {
		t.Error("detail view lacks the classification section")
	}
	a = press(t, a, "q")
	if a.txState.viewMode != txViewSplit {
		t.Fatal("q should close the detail view before quitting")
	}
}

func TestFilterTransactionsMatchesCategoryAndNotes(t *testing.T) {
	txs := []model.ClassifiedTransaction{
		{Transaction: model.Transaction{Merchant: "A"}, ResolvedCategory: model.CategoryFood},
		{Transaction: model.Transaction{Merchant: "B", Notes: "Birthday GIFT"}},
		{Transaction: model.Transaction{Merchant: "C"}},
	}
	if got := filterTransactions(txs, "food"); len(got) != 1 || got[0].Merchant != "A" {
		t.Errorf("category match = %+v", got)
	}
	if got := filterTransactions(txs, "gift"); len(got) != 1 || got[0].Merchant != "B" {
		t.Errorf("notes match = %+v", got)
	}
	if got := filterTransactions(txs, "  "); len(got) != 3 {
		t.Errorf("blank query kept %d, want 3", len(got))
	}
}

func TestSettingsEditSavesConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CASHBURN_DATA_DIR", "")
	t.Setenv("CASHBURN_BALANCE", "")

	a := loadedApp(t, sampleTransactions())
	a = press(t, a, "x", "j", "j", "enter")
	if !a.settings.editing || a.settings.cursor != settingsFieldTopN {
		t.Fatalf("editing=%v cursor=%d", a.settings.editing, a.settings.cursor)
	}
	a.settings.input.SetValue("3")
	a = press(t, a, "enter")

	if a.settings.saveErr != nil {
		t.Fatalf("saveErr = %v", a.settings.saveErr)
	}
	if !a.settings.saved || a.opts.Config.General.TopN != 3 {
		t.Fatalf("saved=%v topN=%d", a.settings.saved, a.opts.Config.General.TopN)
	}
	// Four October merchants: three named groups plus the rest.
	if top := a.report.TopExpenses; len(top) != 4 || !top[3].Aggregated {
		t.Errorf("report not rebuilt with top 3: %+v", top)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.TopN != 3 {
		t.Errorf("stored TopN = %d, want 3", cfg.General.TopN)
	}
	if a.balance != 1000 {
		t.Errorf("balance = %v, the command-line value should survive", a.balance)
	}
}

func TestSettingsRejectsBadInput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := loadedApp(t, sampleTransactions())
	a = press(t, a, "x", "j", "j", "j", "j", "j", "enter")
	if a.settings.cursor != settingsFieldRefreshInterval {
		t.Fatalf("cursor = %d", a.settings.cursor)
	}
	a.settings.input.SetValue("2")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Fatal("interval below the minimum should be rejected")
	}
	if a.refreshInterval != 60*time.Second {
		t.Errorf("refreshInterval = %v, want unchanged", a.refreshInterval)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	for _, width := range []int{100, 160} {
		a := loadedApp(t, sampleTransactions())
		m, _ := a.Update(tea.WindowSizeMsg{Width: width, Height: 40})
		a = m.(App)
		for i, tab := range components.Tabs {
			a.setTab(i)
			out := a.View()
			if out == "" {
				t.Fatalf("width %d: empty view for %s", width, tab.Name)
			}
			if !strings.Contains(out, "October 2026") && !strings.Contains(out, "2026-10") {
				t.Errorf("width %d, %s: period label missing", width, tab.Name)
			}
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t, sampleTransactions())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "too narrow") {
		t.Error("narrow terminal message missing")
	}
}

func TestScrollLines(t *testing.T) {
	s := "a\nb\nc\nd\ne"
	if got := scrollLines(s, 2, 2); got != "c\nd\ne" {
		t.Errorf("scrollLines(2) = %q", got)
	}
	// Never scroll past the bottom of the viewport.
	if got := scrollLines(s, 10, 2); got != "d\ne" {
		t.Errorf("scrollLines(10) = %q", got)
	}
	if got := scrollLines(s, 3, 10); got != s {
		t.Errorf("short content scrolled: %q", got)
	}
}

func TestChartDateLabels(t *testing.T) {
	days := []pipeline.DailyStats{
		{Date: time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)},
	}
	got := chartDateLabels(days)
	want := []string{"Sep", "30", "Oct", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

func TestPeakHour(t *testing.T) {
	if got := peakHour(make([]pipeline.HourlyStats, 24)); got != -1 {
		t.Errorf("no expenses: peak = %d, want -1", got)
	}
	hours := make([]pipeline.HourlyStats, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	hours[13].Expenses = 40
	hours[20].Expenses = 12
	if got := peakHour(hours); got != 13 {
		t.Errorf("peak = %d, want 13", got)
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValues{DataDir: " /data/statements ", Balance: "2,500.75", TopN: 5, Theme: "tokyo-night"}
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.DataDir != "/data/statements" {
		t.Errorf("DataDir = %q", cfg.General.DataDir)
	}
	if cfg.General.Balance == nil || *cfg.General.Balance != 2500.75 {
		t.Errorf("Balance = %v", cfg.General.Balance)
	}
	if cfg.General.TopN != 5 || cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("TopN=%d Theme=%q", cfg.General.TopN, cfg.Appearance.Theme)
	}

	v.Balance = ""
	v.Theme = "no-such-theme"
	if err := v.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.Balance != nil {
		t.Error("empty balance should clear the stored one")
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("unknown theme replaced the stored one: %q", cfg.Appearance.Theme)
	}
}

func TestSetupValidators(t *testing.T) {
	if err := validateBalance(""); err != nil {
		t.Errorf("empty balance: %v", err)
	}
	if err := validateBalance("12.50"); err != nil {
		t.Errorf("12.50: %v", err)
	}
	if err := validateBalance("lots"); err == nil {
		t.Error("non-numeric balance accepted")
	}
	if err := validateDataDir("   "); err == nil {
		t.Error("blank data dir accepted")
	}
}

func TestDefaultSetupValues(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.TopN = 0
	cfg.Appearance.Theme = "missing"
	v := DefaultSetupValues(cfg, "/tmp/x")
	if v.TopN != 10 || v.Theme != "flexoki-dark" || v.DataDir != "/tmp/x" || v.Balance != "" {
		t.Errorf("defaults = %+v", v)
	}
}
