package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", flagDataDir)
	if b, ok := config.GetBalance(cfg); ok {
		fmt.Printf("    Balance:        %.2f\n", b)
	} else {
		fmt.Println("    Balance:        not set")
	}
	fmt.Printf("    Top merchants:  %d\n", cfg.General.TopN)
	fmt.Println()

	rules := cfg.Rules()
	th := rules.Thresholds
	fmt.Println("  [Rules]")
	fmt.Printf("    Income keywords:   %d\n", len(rules.IncomeKeywords))
	fmt.Printf("    Refund keywords:   %d\n", len(rules.RefundKeywords))
	fmt.Printf("    Expense keywords:  %d\n", len(rules.ExpenseKeywords))
	fmt.Printf("    Gambling keywords: %d\n", len(rules.GamblingKeywords))
	fmt.Printf("    Sweet keywords:    %d\n", len(rules.SweetKeywords))
	fmt.Printf("    Category rules:    %d\n", len(rules.CategoryKeywords))
	fmt.Println()

	fmt.Println("  [Analysis]")
	fmt.Printf("    Large expense share:   %.0f%% of income\n", th.LargeExpenseIncomeShare*100)
	fmt.Printf("    Statistical share:     %.0f%% of income\n", th.StatisticalIncomeShare*100)
	fmt.Printf("    Cumulative share:      %.0f%% of income\n", th.CumulativeIncomeShare*100)
	fmt.Printf("    Problematic amount:    %.2f\n", th.ProblematicAmount)
	fmt.Printf("    Night large amount:    %.2f\n", th.NightLargeAmount)
	fmt.Printf("    Sweet limits:          %d purchases / %.2f\n", th.SweetCountLimit, th.SweetSpendLimit)
	fmt.Printf("    Reduction scenario:    %.0f%%\n", th.ReductionPercent)
	fmt.Println()

	fmt.Println("  [Seasonal]")
	for m := time.January; m <= time.December; m++ {
		fmt.Printf("    %-9s %.2f\n", m, rules.Seasonal.Factor(m))
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `cashburn setup` to reconfigure.")
	return nil
}
