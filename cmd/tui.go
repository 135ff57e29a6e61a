package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/tui"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	today, err := referenceDate()
	if err != nil {
		return err
	}
	opts := tui.Options{
		DataDir:   flagDataDir,
		Account:   flagAccount,
		Balance:   flagBalance,
		UseCache:  !flagNoCache,
		NeedSetup: !config.Exists(),
		Config:    appCfg,
	}
	if cmd.Flags().Changed("today") {
		opts.Today = today
	}
	target, err := targetMonth(today)
	if err != nil {
		return err
	}
	if target == nil {
		opts.FullHistory = true
	} else {
		opts.Month = target
	}

	appLog.Debug().Str("data_dir", flagDataDir).Bool("setup", opts.NeedSetup).Msg("starting dashboard")

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
