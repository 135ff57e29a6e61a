package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cashburn/internal/cli"
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/pipeline"
	"github.com/theirongolddev/cashburn/internal/source"
	"github.com/theirongolddev/cashburn/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show statement directory, cache and month coverage",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	files, err := source.ScanDir(flagDataDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", flagDataDir, err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASHBURN STATUS"))
	fmt.Println()

	byFormat := make(map[source.Format]int)
	for _, f := range files {
		byFormat[f.Format]++
	}

	rows := [][]string{
		{"Data Directory", flagDataDir},
		{"Statement Files", cli.FormatNumber(int64(len(files)))},
		{"  csv / jsonl / json", fmt.Sprintf("%d / %d / %d",
			byFormat[source.FormatCSV], byFormat[source.FormatJSONL], byFormat[source.FormatJSON])},
		{"Accounts", cli.FormatNumber(int64(source.CountAccounts(files)))},
	}

	if info := config.DetectAccount(flagDataDir); info.HasRecord {
		asOf := "unknown date"
		if !info.AsOf.IsZero() {
			asOf = info.AsOf.Format("2006-01-02")
		}
		rows = append(rows, []string{"account.json", fmt.Sprintf("%s balance %s (%s)", info.Name, cli.FormatMoney(info.Balance), asOf)})
	}
	rows = append(rows, []string{"Balance In Use", cli.FormatMoney(flagBalance)})

	rows = append(rows, []string{"---"})
	cachePath := pipeline.CachePath()
	rows = append(rows, []string{"Cache", cachePath})
	if _, statErr := os.Stat(cachePath); statErr == nil {
		if cache, openErr := store.Open(cachePath); openErr == nil {
			tracked, _ := cache.GetTrackedFiles()
			count, _ := cache.TransactionCount()
			_ = cache.Close()
			rows = append(rows, []string{"  cached files", cli.FormatNumber(int64(len(tracked)))})
			rows = append(rows, []string{"  cached transactions", cli.FormatNumber(int64(count))})
		}
	} else {
		rows = append(rows, []string{"  state", "not built yet"})
	}

	if len(files) > 0 {
		result, err := loadData()
		if err != nil {
			return err
		}
		months := pipeline.Months(result.Transactions)
		labels := make([]string, 0, len(months))
		for _, m := range months {
			labels = append(labels, m.String())
		}
		coverage := "none"
		if len(labels) > 0 {
			coverage = fmt.Sprintf("%s .. %s (%d months)", labels[0], labels[len(labels)-1], len(labels))
		}
		rows = append(rows,
			[]string{"---"},
			[]string{"Transactions", cli.FormatNumber(int64(len(result.Transactions)))},
			[]string{"Duplicates Dropped", cli.FormatNumber(int64(result.Duplicates))},
			[]string{"Malformed Records", cli.FormatNumber(int64(result.ParseErrors))},
			[]string{"Unreadable Files", cli.FormatNumber(int64(result.FileErrors))},
			[]string{"Coverage", coverage},
		)
		if len(labels) > 0 && len(labels) <= 24 {
			rows = append(rows, []string{"Months", strings.Join(labels, " ")})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:     []string{"Item", "Value"},
		Rows:        rows,
		LeftColumns: 2,
	}))
	fmt.Println()
	return nil
}
