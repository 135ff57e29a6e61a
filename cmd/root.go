// Package cmd implements the cashburn CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/analytics"
	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/logger"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/store"
)

var (
	flagDataDir string
	flagMonth   string
	flagBalance float64
	flagToday   string
	flagAccount string
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
)

var (
	appCfg config.Config
	appLog = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:               "cashburn",
	Short:             "Personal transaction analytics",
	Long:              "Analyze bank and card statements: income, expenses, recurring charges, anomalies and month-end projections.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Statements directory (default from config or CASHBURN_DATA_DIR)")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", `Month to analyze (YYYY-MM, or "all" for full history)`)
	rootCmd.PersistentFlags().Float64VarP(&flagBalance, "balance", "b", 0, "Current account balance used for projections")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Reference date (YYYY-MM-DD, default now)")
	rootCmd.PersistentFlags().StringVarP(&flagAccount, "account", "a", "", "Limit to one account directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
}

// prepare resolves the effective configuration before any command runs:
// .env, config file, environment, then flags.
func prepare(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	level := logger.ParseLevel(os.Getenv("CASHBURN_LOG_LEVEL"), zerolog.WarnLevel)
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	appLog = logger.New(level)

	cfg, err := config.Load()
	if err != nil {
		appLog.Warn().Err(err).Str("path", config.ConfigPath()).Msg("config unreadable, using defaults")
		cfg = config.DefaultConfig()
	}
	appCfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("data-dir") {
		flagDataDir = config.GetDataDir(cfg)
	}
	if !flags.Changed("balance") {
		flagBalance = defaultBalance(cfg, flagDataDir)
	}

	appLog.Debug().
		Str("data_dir", flagDataDir).
		Float64("balance", flagBalance).
		Str("month", flagMonth).
		Msg("configuration resolved")
	return nil
}

// defaultBalance picks the env/config balance, then the statements
// directory's account.json.
func defaultBalance(cfg config.Config, dataDir string) float64 {
	if b, ok := config.GetBalance(cfg); ok {
		return b
	}
	if info := config.DetectAccount(dataDir); info.HasRecord {
		return info.Balance
	}
	return 0
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning statements...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%25 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	result, err := loadWithOptionalCache(progressFn)
	if err != nil {
		return nil, err
	}

	if flagAccount != "" {
		result.Transactions = pipeline.FilterByAccount(result.Transactions, flagAccount)
	}
	if result.ParseErrors > 0 || result.FileErrors > 0 {
		appLog.Warn().
			Int("parse_errors", result.ParseErrors).
			Int("file_errors", result.FileErrors).
			Msg("some statement records were skipped")
	}
	return result, nil
}

func loadWithOptionalCache(progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	// Try cached load unless --no-cache
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			appLog.Debug().Err(err).Msg("cache unavailable, doing full parse")
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagDataDir, cache, progressFn)
			if err != nil {
				appLog.Warn().Err(err).Msg("cache error, falling back to full parse")
			} else {
				if !flagQuiet && cr.TotalFiles > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s transactions from cache (%d accounts)    \n",
							cli.FormatNumber(int64(len(cr.Transactions))),
							cr.AccountCount,
						)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed files (%d accounts)    \n",
							cr.CacheHits,
							cr.Reparsed,
							cr.AccountCount,
						)
					}
				}
				return &cr.LoadResult, nil
			}
		}
	}

	// Uncached path
	result, err := pipeline.Load(flagDataDir, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s transactions across %d files    \n",
			cli.FormatNumber(int64(len(result.Transactions))),
			result.ParsedFiles,
		)
	}

	return result, nil
}

// referenceDate returns --today, or the current date.
func referenceDate() (time.Time, error) {
	if flagToday == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", flagToday)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q: %w", flagToday, err)
	}
	return t, nil
}

// targetMonth resolves --month against the reference date. nil means the
// full history.
func targetMonth(today time.Time) (*model.YearMonth, error) {
	switch flagMonth {
	case "all":
		return nil, nil
	case "":
		ym := model.YearMonthOf(today)
		return &ym, nil
	}
	ym, err := model.ParseYearMonth(flagMonth)
	if err != nil {
		return nil, err
	}
	return &ym, nil
}

func newEngine(today time.Time) *analytics.Engine {
	return analytics.New(appCfg.Rules(), analytics.WithToday(today))
}

// buildReport loads statements and runs the engine for the selected period.
func buildReport() (model.FinancialReport, *pipeline.LoadResult, error) {
	today, err := referenceDate()
	if err != nil {
		return model.FinancialReport{}, nil, err
	}
	target, err := targetMonth(today)
	if err != nil {
		return model.FinancialReport{}, nil, err
	}

	result, err := loadData()
	if err != nil {
		return model.FinancialReport{}, nil, err
	}

	start := time.Now()
	report := newEngine(today).GenerateReport(result.Transactions, flagBalance, target)
	appLog.Debug().
		Int("transactions", len(result.Transactions)).
		Str("period", report.Period.Label).
		Dur("took", time.Since(start)).
		Msg("report generated")
	return report, result, nil
}

func periodTitle(name string, r model.FinancialReport) string {
	return fmt.Sprintf("%s  %s", name, r.Period.Label)
}

func printNoData(result *pipeline.LoadResult) bool {
	if len(result.Transactions) > 0 {
		return false
	}
	fmt.Printf("\n  No transactions found in %s\n", flagDataDir)
	fmt.Println("  Drop CSV, JSON or JSON Lines statements there, then come back!")
	return true
}

func printLoadWarnings(result *pipeline.LoadResult) {
	if result.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be parsed\n", result.FileErrors)
	}
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d malformed records skipped\n", result.ParseErrors)
	}
}
