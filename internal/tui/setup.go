package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/source"
	"github.com/theirongolddev/cashburn/internal/tui/theme"
)

// SetupValues holds the answers collected by the first-run form.
type SetupValues struct {
	DataDir string
	Balance string // free text; empty leaves the balance unset
	TopN    int
	Theme   string
}

// DefaultSetupValues seeds the form from an existing configuration.
func DefaultSetupValues(cfg config.Config, dataDir string) SetupValues {
	v := SetupValues{
		DataDir: dataDir,
		TopN:    cfg.General.TopN,
		Theme:   cfg.Appearance.Theme,
	}
	if cfg.General.Balance != nil {
		v.Balance = strconv.FormatFloat(*cfg.General.Balance, 'f', 2, 64)
	}
	if v.TopN <= 0 {
		v.TopN = 10
	}
	if !theme.Valid(v.Theme) {
		v.Theme = theme.FlexokiDark.Name
	}
	return v
}

var topNOptions = []int{5, 10, 15, 20}

// NewSetupForm builds the first-run form. Answers are written into vals.
func NewSetupForm(txCount int, dataDir string, vals *SetupValues) *huh.Form {
	welcome := fmt.Sprintf("Found %d transactions in %s.", txCount, dataDir)
	if txCount == 0 {
		welcome = fmt.Sprintf("No statements found yet in %s.", dataDir)
	}

	topN := make([]huh.Option[int], len(topNOptions))
	for i, n := range topNOptions {
		topN[i] = huh.NewOption(fmt.Sprintf("Top %d merchants", n), n)
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashburn").
				Description(welcome+"\nA few questions and you're set. Everything can be changed later in Settings."),
			huh.NewInput().
				Title("Statements directory").
				Description("CSV, JSON and JSON Lines files; one subdirectory per account.").
				Value(&vals.DataDir).
				Validate(validateDataDir),
			huh.NewInput().
				Title("Current account balance").
				Description("Used for month-end projections. Leave empty to skip.").
				Placeholder("2500.00").
				Value(&vals.Balance).
				Validate(validateBalance),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Merchant lists").
				Options(topN...).
				Value(&vals.TopN),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

func validateDataDir(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a statements directory is required")
	}
	return nil
}

func validateBalance(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := source.ParseAmount(s); err != nil {
		return errors.New("not a number")
	}
	return nil
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	cfg.General.DataDir = strings.TrimSpace(v.DataDir)
	if v.TopN > 0 {
		cfg.General.TopN = v.TopN
	}
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}

	raw := strings.TrimSpace(v.Balance)
	if raw == "" {
		cfg.General.Balance = nil
		return nil
	}
	b, err := source.ParseAmount(raw)
	if err != nil {
		return fmt.Errorf("parsing balance %q: %w", raw, err)
	}
	cfg.General.Balance = &b
	return nil
}

// SaveSetup merges the answers into the stored configuration, writes it and
// activates the chosen theme.
func SaveSetup(v SetupValues) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := v.Apply(&cfg); err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg, nil
}
