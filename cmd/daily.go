package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Day-by-day income and expenses",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	days := pipeline.AggregateDays(report.Transactions, report.Period.Start, report.Period.End.AddDate(0, 0, 1))
	if len(days) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("DAILY", report)))
	fmt.Println()

	rows := make([][]string, 0, len(days))
	spend := make([]float64, 0, len(days))
	for _, d := range days {
		spend = append(spend, d.Expenses)
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			cli.FormatNumber(int64(d.Count)),
			cli.FormatMoney(d.Income),
			cli.FormatMoney(d.Expenses),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:     []string{"Date", "Day", "Count", "Income", "Expenses"},
		Rows:        rows,
		LeftColumns: 2,
	}))
	fmt.Printf("\n  Spending  %s\n\n", cli.RenderSparkline(spend))

	return nil
}
