package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Spending by category, weekday, time of day and payment method",
	RunE:  runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}
	if report.Summary.ExpenseCount == 0 {
		fmt.Printf("\n  No expenses in %s.\n", report.Period.Label)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("BREAKDOWN", report)))
	fmt.Println()

	// Categories
	var peak float64
	for _, c := range report.Categories {
		peak = max(peak, c.Total)
	}
	fmt.Printf("  %s\n", cli.RenderHeader("Categories"))
	for _, c := range report.Categories {
		label := fmt.Sprintf("%-15s", c.Category)
		fmt.Printf("%s  %s\n", cli.RenderHorizontalBar(label, c.Total, peak, 30), cli.RenderMuted(cli.FormatPercent(c.Percent)))
	}
	fmt.Println()

	t := report.Temporal
	rows := make([][]string, 0, len(t.Weekdays))
	for _, w := range t.Weekdays {
		rows = append(rows, []string{w.Name, cli.FormatNumber(int64(w.Count)), cli.FormatMoney(w.Total)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Weekday",
		Headers: []string{"Day", "Count", "Total"},
		Rows:    rows,
	}))

	rows = make([][]string, 0, len(t.Periods)+1)
	for _, p := range t.Periods {
		rows = append(rows, []string{string(p.Period), cli.FormatNumber(int64(p.Count)), cli.FormatMoney(p.Total)})
	}
	if t.UntimedCount > 0 {
		rows = append(rows, []string{"---"}, []string{"no time", cli.FormatNumber(int64(t.UntimedCount)), ""})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Time of Day",
		Headers: []string{"Period", "Count", "Total"},
		Rows:    rows,
	}))

	rows = make([][]string, 0, len(t.PaymentMethods))
	for _, m := range t.PaymentMethods {
		rows = append(rows, []string{
			strings.ReplaceAll(string(m.Method), "_", " "),
			cli.FormatNumber(int64(m.Count)),
			cli.FormatMoney(m.Total),
			cli.FormatPercent(m.Percent),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Payment Method",
		Headers: []string{"Method", "Count", "Total", "Share"},
		Rows:    rows,
	}))

	if len(report.SpendingPatterns) > 0 {
		rows = make([][]string, 0, len(report.SpendingPatterns))
		for _, p := range report.SpendingPatterns {
			rows = append(rows, []string{
				cli.Truncate(p.Merchant, 22),
				string(p.Category),
				string(p.Trend),
				fmt.Sprintf("%.1f", p.Frequency),
				cli.FormatNumber(int64(p.Count)),
				cli.FormatMoney(p.AverageAmount),
				cli.FormatMoney(p.TotalAmount),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:       "Spending Patterns",
			Headers:     []string{"Merchant", "Category", "Trend", "Per 30d", "Count", "Average", "Total"},
			Rows:        rows,
			LeftColumns: 3,
		}))
	}

	fmt.Println()
	return nil
}
