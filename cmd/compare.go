package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the month against the previous one",
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}
	if report.Period.Month == nil {
		return errors.New("compare needs a single month; pass --month YYYY-MM")
	}

	c := report.Comparison
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COMPARE  %s vs %s", report.Period.Label, c.PreviousPeriod)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", report.Period.Label, c.PreviousPeriod, "Change"},
		Rows: [][]string{
			{"Income", cli.FormatMoney(c.Current.Income), cli.FormatMoney(c.Previous.Income), cli.FormatVariation(c.IncomePercent)},
			{"Expenses", cli.FormatMoney(c.Current.Expenses), cli.FormatMoney(c.Previous.Expenses), cli.FormatVariation(c.ExpensesPercent)},
			{"Transactions", cli.FormatNumber(int64(c.Current.Count)), cli.FormatNumber(int64(c.Previous.Count)), cli.FormatVariation(c.CountPercent)},
			{"Avg / Transaction", cli.FormatMoney(c.Current.AvgPerTransaction), cli.FormatMoney(c.Previous.AvgPerTransaction), cli.FormatVariation(c.AvgPercent)},
			{"---"},
			{"Net Change", "", "", cli.FormatSignedMoney(c.NetChange)},
		},
	}))

	if !c.HasPreviousData {
		fmt.Printf("\n  %s\n", cli.RenderMuted(c.ExpensesPercent.Note))
	}
	fmt.Println()
	return nil
}
