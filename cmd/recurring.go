package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring income and charges with their monthly weight",
	RunE:  runRecurring,
}

func init() {
	rootCmd.AddCommand(recurringCmd)
}

func runRecurring(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("RECURRING", report)))
	fmt.Println()

	if len(report.Recurring) == 0 {
		fmt.Println("  No recurring transactions detected yet.")
		fmt.Println()
		return nil
	}

	g := report.RecurringGroups
	printRecurring("Fixed Income", g.FixedIncome)
	printRecurring("Fixed Expenses", g.FixedExpenses)
	printRecurring("Variable Expenses", g.VariableExpenses)

	imp := report.RecurringImpact
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Impact",
		Headers: []string{"", "Monthly", "Yearly"},
		Rows: [][]string{
			{"Income", cli.FormatMoney(imp.MonthlyIncome), cli.FormatMoney(imp.YearlyIncome)},
			{"Expenses", cli.FormatMoney(imp.MonthlyExpense), cli.FormatMoney(imp.YearlyExpense)},
			{"---"},
			{"Net", cli.FormatSignedMoney(imp.MonthlyNet), cli.FormatSignedMoney(imp.YearlyNet)},
		},
	}))
	fmt.Println()
	return nil
}

func printRecurring(title string, list []model.RecurringTransaction) {
	if len(list) == 0 {
		return
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			cli.Truncate(r.Merchant, 24),
			cli.FormatFrequency(r.FrequencyDays),
			cli.RenderConfidence(r.Confidence),
			cli.FormatNumber(int64(r.TotalTransactions)),
			r.LastTransactionDate.Format("2006-01-02"),
			cli.FormatMoney(r.AverageAmount),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:       title,
		Headers:     []string{"Merchant", "Cycle", "Confidence", "Seen", "Last", "Average"},
		Rows:        rows,
		LeftColumns: 3,
	}))
}
