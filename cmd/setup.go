package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	txCount := 0
	if result, err := pipeline.Load(flagDataDir, nil); err == nil {
		txCount = len(result.Transactions)
	} else {
		appLog.Debug().Err(err).Msg("statements not readable yet")
	}

	vals := tui.DefaultSetupValues(appCfg, flagDataDir)
	form := tui.NewSetupForm(txCount, flagDataDir, &vals)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg, err := tui.SaveSetup(vals)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Statements: %s\n", config.GetDataDir(cfg))
	if b, ok := config.GetBalance(cfg); ok {
		fmt.Printf("  Balance: %s\n", cli.FormatMoney(b))
	}
	fmt.Println("  Run `cashburn setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
