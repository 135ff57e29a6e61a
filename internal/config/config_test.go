package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.TopN != 10 {
		t.Errorf("TopN = %d, want 10", cfg.General.TopN)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestSaveToLoadFrom_PreservesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	bal := 1234.5
	cfg.General.Balance = &bal
	cfg.General.DataDir = "/tmp/statements"
	cfg.Overrides.IncomeKeywords = []string{"Stipend"}
	cfg.Overrides.SeasonalFactors = map[string]float64{"december": 1.6}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.Balance == nil || *got.General.Balance != bal {
		t.Fatalf("Balance = %v, want %v", got.General.Balance, bal)
	}
	if got.General.DataDir != "/tmp/statements" {
		t.Errorf("DataDir = %q", got.General.DataDir)
	}

	rules := got.Rules()
	if len(rules.IncomeKeywords) != 1 || rules.IncomeKeywords[0] != "stipend" {
		t.Errorf("IncomeKeywords = %v, want [stipend]", rules.IncomeKeywords)
	}
	if f := rules.Seasonal.Factor(time.December); f != 1.6 {
		t.Errorf("December factor = %.2f, want 1.60", f)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom accepted malformed TOML")
	}
}

func TestRules_DefaultsAreIndependentCopies(t *testing.T) {
	a := DefaultRules()
	a.IncomeKeywords[0] = "mutated"
	a.Seasonal[0] = 9

	b := DefaultRules()
	if b.IncomeKeywords[0] != "salary" {
		t.Errorf("IncomeKeywords[0] = %q, want salary", b.IncomeKeywords[0])
	}
	if b.Seasonal[0] != 1.20 {
		t.Errorf("Seasonal[0] = %.2f, want 1.20", b.Seasonal[0])
	}
}

func TestRules_ThresholdOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.ProblematicAmount = 500
	cfg.Analysis.SweetCountLimit = 4
	cfg.General.TopN = 3

	th := cfg.Rules().Thresholds
	if th.ProblematicAmount != 500 {
		t.Errorf("ProblematicAmount = %.0f, want 500", th.ProblematicAmount)
	}
	if th.SweetCountLimit != 4 {
		t.Errorf("SweetCountLimit = %d, want 4", th.SweetCountLimit)
	}
	if th.TopN != 3 {
		t.Errorf("TopN = %d, want 3", th.TopN)
	}
	if th.CumulativeIncomeShare != 0.40 {
		t.Errorf("CumulativeIncomeShare = %.2f, want default 0.40", th.CumulativeIncomeShare)
	}
}

func TestRules_CategoryKeywordOverrideSkipsPlaceholders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Overrides.CategoryKeywords = []CategoryKeyword{
		{Keyword: " Padoca ", Category: model.CategoryFood},
		{Keyword: "mystery", Category: model.CategoryOther},
		{Keyword: "", Category: model.CategoryHealth},
	}

	got := cfg.Rules().CategoryKeywords
	if len(got) != 1 {
		t.Fatalf("len(CategoryKeywords) = %d, want 1", len(got))
	}
	if got[0].Keyword != "padoca" || got[0].Category != model.CategoryFood {
		t.Errorf("CategoryKeywords[0] = %+v", got[0])
	}
}

func TestGetDataDir_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DataDir = "/from/config"

	t.Setenv("CASHBURN_DATA_DIR", "/from/env")
	if got := GetDataDir(cfg); got != "/from/env" {
		t.Errorf("GetDataDir = %q, want /from/env", got)
	}

	t.Setenv("CASHBURN_DATA_DIR", "")
	if got := GetDataDir(cfg); got != "/from/config" {
		t.Errorf("GetDataDir = %q, want /from/config", got)
	}
}

func TestGetBalance(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("CASHBURN_BALANCE", "")
	if _, ok := GetBalance(cfg); ok {
		t.Error("GetBalance reported a balance with nothing configured")
	}

	t.Setenv("CASHBURN_BALANCE", "250.75")
	if got, ok := GetBalance(cfg); !ok || got != 250.75 {
		t.Errorf("GetBalance = %.2f, %v; want 250.75, true", got, ok)
	}
}

func TestDetectAccount(t *testing.T) {
	dir := t.TempDir()
	if info := DetectAccount(dir); info.HasRecord {
		t.Fatal("DetectAccount found a record in an empty dir")
	}

	body := `{"name":"checking","balance":812.4,"as_of":"2024-05-20"}`
	if err := os.WriteFile(filepath.Join(dir, "account.json"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	info := DetectAccount(dir)
	if !info.HasRecord || info.Balance != 812.4 || info.Name != "checking" {
		t.Fatalf("DetectAccount = %+v", info)
	}
	if info.AsOf.Day() != 20 {
		t.Errorf("AsOf = %v, want day 20", info.AsOf)
	}
}
