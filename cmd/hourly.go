package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/pipeline"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Spending by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	hours := pipeline.AggregateHourly(report.Transactions)

	fmt.Println()
	fmt.Println(cli.RenderTitle(periodTitle("SPENDING BY HOUR", report)))
	fmt.Println()

	// Find max for bar scaling
	var maxSpend float64
	for _, h := range hours {
		maxSpend = max(maxSpend, h.Expenses)
	}
	if maxSpend == 0 {
		fmt.Println("  No timed expenses in this period.")
		fmt.Println()
		return nil
	}

	maxBarWidth := 40
	for _, h := range hours {
		barLen := int(h.Expenses / maxSpend * float64(maxBarWidth))
		bar := strings.Repeat("█", barLen)
		fmt.Printf("  %02d:00 │ %12s │ %s\n", h.Hour, cli.FormatMoney(h.Expenses), bar)
	}

	// Find peak hour
	peakHour := 0
	for _, h := range hours {
		if h.Expenses > hours[peakHour].Expenses {
			peakHour = h.Hour
		}
	}
	fmt.Printf("\n  Peak: %02d:00 (%s over %d purchases)\n\n",
		peakHour, cli.FormatMoney(hours[peakHour].Expenses), hours[peakHour].Count)
	if report.Temporal.UntimedCount > 0 {
		fmt.Printf("  %s\n\n", cli.RenderMuted(fmt.Sprintf("%d expenses have no time of day", report.Temporal.UntimedCount)))
	}

	return nil
}
