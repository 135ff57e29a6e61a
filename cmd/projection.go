package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
)

var projectionCmd = &cobra.Command{
	Use:   "projection",
	Short: "Month-end balance forecast with scenarios",
	RunE:  runProjection,
}

func init() {
	rootCmd.AddCommand(projectionCmd)
}

func runProjection(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	p := report.Projection
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTION  %s", p.Month)))
	fmt.Println()

	b := p.Baseline
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Baseline", "Adjusted"},
		Rows: [][]string{
			{"Starting Balance", cli.FormatMoney(report.Balance), ""},
			{"Days Elapsed / Left", fmt.Sprintf("%d / %d", b.DaysElapsed, b.DaysRemaining), ""},
			{"---"},
			{"Daily Income", cli.FormatMoney(b.AverageDailyIncome), cli.FormatMoney(p.AverageDailyIncome)},
			{"Daily Expense", cli.FormatMoney(b.AverageDailyExpense), cli.FormatMoney(p.AverageDailyExpense)},
			{"Projected Income", cli.FormatMoney(b.ProjectedIncome), cli.FormatMoney(p.ProjectedIncome)},
			{"Projected Expense", cli.FormatMoney(b.ProjectedExpense), cli.FormatMoney(p.ProjectedExpense)},
			{"---"},
			{"Final Balance", cli.RenderMoney(b.FinalBalanceProjection), cli.RenderMoney(p.FinalBalanceProjection)},
			{"Confidence", cli.RenderConfidence(b.Confidence), cli.RenderConfidence(p.Confidence)},
		},
	}))
	fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("score %.2f, seasonal factor %.2f for %s",
		p.ConfidenceScore, p.SeasonalAdjustment.Factor, p.SeasonalAdjustment.Month)))

	if len(p.ReductionImpact) > 0 {
		rows := make([][]string, 0, len(p.ReductionImpact))
		for _, r := range p.ReductionImpact {
			rows = append(rows, []string{string(r.Category), cli.FormatPercent(r.ReductionPercent), cli.FormatMoney(r.ProjectedSavings)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "If You Cut Back",
			Headers: []string{"Category", "Cut", "Saves"},
			Rows:    rows,
		}))
	}

	if len(p.HistoricalPatterns) > 0 {
		fmt.Println()
		fmt.Printf("  %s\n", cli.RenderHeader("Patterns"))
		for _, hp := range p.HistoricalPatterns {
			line := fmt.Sprintf("  %s %s: %s", cli.RenderConfidence(hp.Confidence), hp.PatternType, hp.Description)
			if hp.NextExpected != nil {
				line += cli.RenderMuted(fmt.Sprintf(" (next %s)", hp.NextExpected.Format("2006-01-02")))
			}
			fmt.Println(line)
		}
	}

	if len(p.ConfidenceFactors) > 0 {
		fmt.Println()
		fmt.Printf("  %s\n", cli.RenderHeader("Confidence Factors"))
		for _, f := range p.ConfidenceFactors {
			fmt.Printf("  %+.2f %s\n", f.Weight, f.Description)
		}
	}

	if len(p.AlternativeScenarios) > 0 {
		rows := make([][]string, 0, len(p.AlternativeScenarios))
		for _, s := range p.AlternativeScenarios {
			rows = append(rows, []string{
				strings.ReplaceAll(s.Name, "_", " "),
				cli.FormatPercent(s.Probability * 100),
				cli.FormatMoney(s.ProjectedIncome),
				cli.FormatMoney(s.ProjectedExpense),
				cli.RenderMoney(s.ProjectedBalance),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Scenarios",
			Headers: []string{"Scenario", "Chance", "Income", "Expense", "Balance"},
			Rows:    rows,
		}))
	}

	fmt.Println()
	return nil
}
