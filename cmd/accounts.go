package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Per-account totals",
	RunE:  runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func runAccounts(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	accounts := pipeline.AggregateAccounts(report.Transactions)
	if len(accounts) == 0 {
		fmt.Println("\n  No account data in the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("ACCOUNTS", report)))
	fmt.Println()

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		name := a.Account
		if name == "" {
			name = "(top level)"
		}
		rows = append(rows, []string{
			cli.Truncate(name, 18),
			cli.FormatNumber(int64(a.Count)),
			cli.FormatMoney(a.Income),
			cli.FormatMoney(a.Expenses),
			cli.FormatSignedMoney(a.Net),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Account", "Count", "Income", "Expenses", "Net"},
		Rows:    rows,
	}))

	return nil
}
