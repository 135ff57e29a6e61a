package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/model"
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Transaction list with classification details",
	RunE:    runTransactions,
}

var transactionsLimit int

func init() {
	transactionsCmd.Flags().IntVarP(&transactionsLimit, "limit", "l", 20, "Number of transactions to show")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(_ *cobra.Command, _ []string) error {
	report, result, err := buildReport()
	if err != nil {
		return err
	}
	if printNoData(result) {
		return nil
	}

	txs := append([]model.ClassifiedTransaction(nil), report.Transactions...)
	if len(txs) == 0 {
		fmt.Printf("\n  No transactions in %s.\n", report.Period.Label)
		return nil
	}

	// Newest first
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})

	if transactionsLimit > 0 && len(txs) > transactionsLimit {
		txs = txs[:transactionsLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRANSACTIONS  %s (showing %d)", report.Period.Label, len(txs))))
	fmt.Println()

	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		side := "expense"
		if tx.Classification.IsIncome {
			side = "income"
		}
		if tx.Suspicious {
			side = cli.RenderWarning(side + "!")
		}
		rows = append(rows, []string{
			cli.FormatDate(tx.Date, tx.HasTime),
			cli.Truncate(tx.Merchant, 24),
			string(tx.ResolvedCategory),
			side,
			cli.Truncate(tx.Classification.Reason, 28),
			cli.RenderMoney(tx.Amount),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:     []string{"Date", "Merchant", "Category", "Side", "Reason", "Amount"},
		Rows:        rows,
		LeftColumns: 5,
	}))

	return nil
}
