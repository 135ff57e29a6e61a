package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, expenses, top merchants and insights",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	s := report.Summary
	if s.TransactionCount == 0 {
		fmt.Printf("\n  No transactions in %s.\n", report.Period.Label)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("CASHBURN", report)))
	fmt.Println()

	rows := [][]string{
		{"Income", cli.FormatMoney(s.TotalIncome)},
		{"Expenses", cli.FormatMoney(s.TotalExpenses)},
		{"Net", cli.FormatSignedMoney(s.NetBalance)},
		{"Savings Rate", cli.FormatPercent(s.SavingsRate)},
		{"---"},
		{"Transactions", cli.FormatNumber(int64(s.TransactionCount))},
		{"Income / Expense", fmt.Sprintf("%d / %d", s.IncomeCount, s.ExpenseCount)},
		{"Average Expense", cli.FormatMoney(s.AverageExpense)},
		{"Largest Expense", cli.FormatMoney(s.LargestExpense)},
		{"---"},
		{"Suspicious", cli.FormatNumber(int64(s.SuspiciousCount))},
		{"Sign Conflicts", cli.FormatNumber(int64(s.ConflictCount))},
		{"Anomalies", cli.FormatNumber(int64(len(report.Anomalies)))},
	}
	if c := report.Comparison; c.HasPreviousData {
		rows = append(rows,
			[]string{"---"},
			[]string{"Expenses vs " + c.PreviousPeriod, cli.FormatVariation(c.ExpensesPercent)},
		)
	}
	if report.Period.Month != nil {
		rows = append(rows, []string{"Projected Balance", cli.FormatMoney(report.Projection.FinalBalanceProjection)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	printMerchantGroups("Top Income", report.TopIncome)
	printMerchantGroups("Top Expenses", report.TopExpenses)
	printInsights(report.Insights)
	printLoadWarnings(result)
	return nil
}

func printMerchantGroups(title string, groups []model.MerchantGroup) {
	if len(groups) == 0 {
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		name := cli.Truncate(g.Merchant, 28)
		if g.Aggregated {
			name = cli.RenderMuted(name)
		}
		rows = append(rows, []string{
			name,
			cli.FormatNumber(int64(g.Count)),
			cli.FormatMoney(g.Total),
			cli.FormatPercent(g.SharePercent),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Merchant", "Count", "Total", "Share"},
		Rows:    rows,
	}))
}

func printInsights(insights []model.Insight) {
	if len(insights) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderHeader("Insights"))
	for _, in := range insights {
		fmt.Printf("  %s %s\n", cli.RenderConfidence(in.Confidence), in.Text)
	}
	fmt.Println()
}
