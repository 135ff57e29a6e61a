package pipeline

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/store"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bank/may.csv", "id,date,amount,merchant\n"+
		"t2,2024-05-02,-10,Market\n"+
		"t1,2024-05-01,5000,ACME Payroll\n"+
		"bad,nope,1,X\n")
	writeFile(t, dir, "card/may.jsonl",
		`{"id":"t3","date":"2024-05-01","amount":-5,"merchant":"Coffee Place"}`+"\n"+
			`{"id":"t2","date":"2024-05-02","amount":-10,"merchant":"Market"}`+"\n")
	writeFile(t, dir, "broken.json", `[{"id":`)

	var calls atomic.Int64
	res, err := Load(dir, func(current, total int) {
		calls.Add(1)
		if total != 3 || current < 1 || current > total {
			t.Errorf("progress(%d, %d)", current, total)
		}
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if res.TotalFiles != 3 || res.ParsedFiles != 2 || res.FileErrors != 1 {
		t.Errorf("files = %d total / %d parsed / %d errors", res.TotalFiles, res.ParsedFiles, res.FileErrors)
	}
	if res.ParseErrors != 1 || res.Duplicates != 1 {
		t.Errorf("ParseErrors = %d, Duplicates = %d; want 1, 1", res.ParseErrors, res.Duplicates)
	}
	if res.AccountCount != 3 {
		t.Errorf("AccountCount = %d, want 3", res.AccountCount)
	}
	if calls.Load() != 3 {
		t.Errorf("progress called %d times, want 3", calls.Load())
	}

	var ids []string
	for _, tx := range res.Transactions {
		ids = append(ids, tx.ID)
	}
	if len(ids) != 3 || ids[0] != "t1" || ids[1] != "t3" || ids[2] != "t2" {
		t.Errorf("order = %v, want [t1 t3 t2]", ids)
	}
	if res.Transactions[2].SourceFile != "bank/may.csv" {
		t.Errorf("duplicate kept from %s, want the first file bank/may.csv", res.Transactions[2].SourceFile)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.TotalFiles != 0 || len(res.Transactions) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,date,amount,merchant\na1,2024-05-01,-1,A\n")
	writeFile(t, dir, "b.csv", "id,date,amount,merchant\nb1,2024-05-02,-2,B\nbad,x,1,B\n")

	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("LoadWithCache: %v", err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 || len(first.Transactions) != 2 {
		t.Fatalf("first load = %+v", first)
	}

	second, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("LoadWithCache: %v", err)
	}
	if second.CacheHits != 2 || second.Reparsed != 0 {
		t.Errorf("second load hits/reparsed = %d/%d, want 2/0", second.CacheHits, second.Reparsed)
	}
	if len(second.Transactions) != 2 || second.ParseErrors != 1 {
		t.Errorf("second load = %d transactions, %d parse errors", len(second.Transactions), second.ParseErrors)
	}
	if second.Transactions[0].ID != "a1" || second.Transactions[0].SourceFile != "a.csv" {
		t.Errorf("cached transaction = %+v", second.Transactions[0])
	}

	// Rewrite a.csv with a new mtime and remove b.csv.
	writeFile(t, dir, "a.csv", "id,date,amount,merchant\na1,2024-05-01,-1,A\na2,2024-05-03,-3,A\n")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(a, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "b.csv")); err != nil {
		t.Fatal(err)
	}

	third, err := LoadWithCache(dir, cache, nil)
	if err != nil {
		t.Fatalf("LoadWithCache: %v", err)
	}
	if third.Reparsed != 1 || third.Removed != 1 {
		t.Errorf("third load reparsed/removed = %d/%d, want 1/1", third.Reparsed, third.Removed)
	}
	if len(third.Transactions) != 2 {
		t.Errorf("third load = %d transactions, want 2", len(third.Transactions))
	}
	if n, _ := cache.TransactionCount(); n != 2 {
		t.Errorf("cache holds %d transactions, want 2", n)
	}
}

func TestMonths(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}
	got := Months([]model.Transaction{
		{Date: d("2024-05-02")}, {Date: d("2023-12-31")}, {Date: d("2024-05-20")}, {Date: d("2024-01-01")},
	})
	want := []string{"2023-12", "2024-01", "2024-05"}
	if len(got) != len(want) {
		t.Fatalf("Months = %v", got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("Months[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAggregateDays(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02 15:04", s)
		return v
	}
	txs := []model.ClassifiedTransaction{
		{Transaction: model.Transaction{Date: d("2024-05-01 10:00"), Amount: -10.10}},
		{Transaction: model.Transaction{Date: d("2024-05-01 18:00"), Amount: -0.20}},
		{Transaction: model.Transaction{Date: d("2024-05-03 09:00"), Amount: 100}, Classification: model.Classification{IsIncome: true}},
		{Transaction: model.Transaction{Date: d("2024-05-09 09:00"), Amount: -1}},
	}

	got := AggregateDays(txs, d("2024-05-01 00:00"), d("2024-05-04 00:00"))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 zero-filled days", len(got))
	}
	if got[0].Expenses != 10.3 || got[0].Count != 2 {
		t.Errorf("day 1 = %+v, want 10.30 over 2", got[0])
	}
	if got[1].Count != 0 {
		t.Errorf("day 2 = %+v, want empty", got[1])
	}
	if got[2].Income != 100 {
		t.Errorf("day 3 = %+v, want income 100", got[2])
	}
}

func TestFilterByAccount(t *testing.T) {
	txs := []model.Transaction{
		{ID: "1", SourceFile: "Nubank/may.csv"},
		{ID: "2", SourceFile: "inter/may.csv"},
		{ID: "3", SourceFile: "top.csv"},
	}
	got := FilterByAccount(txs, "nubank")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("FilterByAccount = %+v", got)
	}
	if len(FilterByAccount(txs, "")) != 3 {
		t.Error("empty account should keep everything")
	}
	if AccountOf(txs[2]) != "" {
		t.Errorf("AccountOf(top-level) = %q", AccountOf(txs[2]))
	}
}

func TestAggregateHourly(t *testing.T) {
	at := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02 15:04", s)
		return v
	}
	expense := func(s string, amt float64, timed bool) model.ClassifiedTransaction {
		return model.ClassifiedTransaction{Transaction: model.Transaction{Date: at(s), HasTime: timed, Amount: amt}}
	}
	txs := []model.ClassifiedTransaction{
		expense("2024-05-01 08:15", -12.5, true),
		expense("2024-05-02 08:45", -7.5, true),
		expense("2024-05-02 00:00", -99, false),
		{Transaction: model.Transaction{Date: at("2024-05-03 08:00"), HasTime: true, Amount: 500}, Classification: model.Classification{IsIncome: true}},
		expense("2024-05-03 23:10", -3, true),
	}

	got := AggregateHourly(txs)
	if len(got) != 24 {
		t.Fatalf("len = %d, want 24", len(got))
	}
	if got[8].Expenses != 20 || got[8].Count != 2 {
		t.Errorf("08:00 = %+v, want 20.00 over 2", got[8])
	}
	if got[0].Count != 0 {
		t.Errorf("untimed record counted at midnight: %+v", got[0])
	}
	if got[23].Expenses != 3 || got[23].Hour != 23 {
		t.Errorf("23:00 = %+v", got[23])
	}
}

func TestAggregateAccounts(t *testing.T) {
	tx := func(src string, amt float64, income bool) model.ClassifiedTransaction {
		return model.ClassifiedTransaction{
			Transaction:    model.Transaction{SourceFile: src, Amount: amt},
			Classification: model.Classification{IsIncome: income},
		}
	}
	got := AggregateAccounts([]model.ClassifiedTransaction{
		tx("card/may.csv", -30, false),
		tx("card/june.csv", -20.25, false),
		tx("bank/may.csv", 1000, true),
		tx("bank/may.csv", -10, false),
		tx("loose.csv", -5, false),
	})
	if len(got) != 3 {
		t.Fatalf("accounts = %d, want 3", len(got))
	}
	if got[0].Account != "card" || got[0].Expenses != 50.25 || got[0].Count != 2 {
		t.Errorf("first = %+v, want card with 50.25 over 2", got[0])
	}
	if got[1].Account != "bank" || got[1].Net != 990 {
		t.Errorf("second = %+v, want bank net 990", got[1])
	}
	if got[2].Account != "" {
		t.Errorf("third = %+v, want top-level account", got[2])
	}
}
