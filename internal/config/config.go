package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all cashburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Overrides  RulesOverrides   `toml:"rules"`
	Daemon     DaemonConfig     `toml:"daemon"`
	TUI        TUIConfig        `toml:"tui"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir string   `toml:"data_dir,omitempty"`
	Balance *float64 `toml:"balance,omitempty"`
	TopN    int      `toml:"top_n"`
}

// AnalysisConfig overrides numeric thresholds. Zero values keep the defaults.
type AnalysisConfig struct {
	LargeExpenseIncomeShare  float64 `toml:"large_expense_income_share,omitempty"`
	StatisticalIncomeShare   float64 `toml:"statistical_income_share,omitempty"`
	ProblematicAmount        float64 `toml:"problematic_amount,omitempty"`
	CumulativeIncomeShare    float64 `toml:"cumulative_income_share,omitempty"`
	NightLargeAmount         float64 `toml:"night_large_amount,omitempty"`
	SweetCountLimit          int     `toml:"sweet_count_limit,omitempty"`
	SweetSpendLimit          float64 `toml:"sweet_spend_limit,omitempty"`
	ReductionPercent         float64 `toml:"reduction_percent,omitempty"`
	FrequencyHighPer30Days   float64 `toml:"frequency_high_per_30_days,omitempty"`
	FrequencyMediumPer30Days float64 `toml:"frequency_medium_per_30_days,omitempty"`
}

// RulesOverrides replaces keyword tables. A non-empty list replaces the
// built-in list entirely.
type RulesOverrides struct {
	IncomeKeywords   []string           `toml:"income_keywords,omitempty"`
	RefundKeywords   []string           `toml:"refund_keywords,omitempty"`
	ExpenseKeywords  []string           `toml:"expense_keywords,omitempty"`
	GamblingKeywords []string           `toml:"gambling_keywords,omitempty"`
	SweetKeywords    []string           `toml:"sweet_keywords,omitempty"`
	CategoryKeywords []CategoryKeyword  `toml:"category_keywords,omitempty"`
	SeasonalFactors  map[string]float64 `toml:"seasonal_factors,omitempty"`
}

// DaemonConfig holds defaults for the background service.
type DaemonConfig struct {
	Addr        string `toml:"addr,omitempty"`
	IntervalSec int    `toml:"interval_sec,omitempty"`
}

// TUIConfig holds dashboard settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			TopN: 10,
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8788",
			IntervalSec: 30,
		},
		TUI: TUIConfig{
			AutoRefresh:        false,
			RefreshIntervalSec: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// DefaultDataDir is used when neither the config nor the environment names one.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cashburn", "statements")
}

// GetDataDir returns the statements directory from env var or config, in that order.
func GetDataDir(cfg Config) string {
	if dir := os.Getenv("CASHBURN_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	return DefaultDataDir()
}

// GetBalance returns the current balance from env var or config, in that
// order. ok is false when neither provides one.
func GetBalance(cfg Config) (balance float64, ok bool) {
	if raw := os.Getenv("CASHBURN_BALANCE"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, true
		}
	}
	if cfg.General.Balance != nil {
		return *cfg.General.Balance, true
	}
	return 0, false
}
