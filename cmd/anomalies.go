package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Unusual transactions and category alerts",
	RunE:  runAnomalies,
}

func init() {
	rootCmd.AddCommand(anomaliesCmd)
}

func runAnomalies(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("ANOMALIES", report)))
	fmt.Println()

	if len(report.Anomalies) == 0 {
		fmt.Println("  Nothing unusual in this period.")
	} else {
		rows := make([][]string, 0, len(report.Anomalies))
		for _, a := range report.Anomalies {
			rows = append(rows, []string{
				a.Date.Format("2006-01-02"),
				cli.Truncate(a.Merchant, 22),
				a.Kind,
				cli.RenderConfidence(a.Confidence),
				cli.FormatMoney(a.Amount),
				cli.Truncate(a.Reason, 40),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:     []string{"Date", "Merchant", "Kind", "Confidence", "Amount", "Reason"},
			Rows:        rows,
			LeftColumns: 4,
		}))
	}

	if len(report.CategoryAlerts) > 0 {
		fmt.Println()
		fmt.Printf("  %s\n", cli.RenderHeader("Category Alerts"))
		for _, a := range report.CategoryAlerts {
			fmt.Printf("  %s %s\n", cli.RenderSeverity(a.Severity), a.Message)
			fmt.Printf("    %s\n", cli.RenderMuted(fmt.Sprintf("now %s, previous %s, increase %s, frequency %s",
				cli.FormatMoney(a.CurrentSpending),
				cli.FormatMoney(a.PreviousSpending),
				cli.FormatOptionalPercent(a.IncreasePercent),
				cli.FormatOptionalPercent(a.FrequencyIncreasePercent),
			)))
			for _, s := range a.Suggestions {
				fmt.Printf("    - %s\n", s)
			}
		}
	}

	fmt.Println()
	printLoadWarnings(result)
	return nil
}
