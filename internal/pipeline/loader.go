// Package pipeline orchestrates statement loading, caching and host-side
// aggregation.
package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Transactions []model.Transaction
	TotalFiles   int
	ParsedFiles  int
	ParseErrors  int
	FileErrors   int
	Duplicates   int
	AccountCount int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all statement files under dataDir.
// It uses a bounded worker pool for parallel parsing.
func Load(dataDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &LoadResult{
		TotalFiles:   len(files),
		AccountCount: source.CountAccounts(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	var txs []model.Transaction
	for _, pr := range parseAll(files, 0, len(files), progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		txs = append(txs, pr.Transactions...)
	}

	result.Transactions, result.Duplicates = finalize(txs)
	return result, nil
}

// parseAll parses files on a worker pool sized to GOMAXPROCS. Results keep
// the order of files. Progress is reported as offset+n of total.
func parseAll(files []source.DiscoveredFile, offset, total int, progressFn ProgressFunc) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(offset+int(n), total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// finalize drops repeated transaction ids (the first occurrence in file
// order wins) and sorts by date, then id. txs must keep record order within
// each file.
func finalize(txs []model.Transaction) ([]model.Transaction, int) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].SourceFile < txs[j].SourceFile })

	seen := make(map[string]struct{}, len(txs))
	out := make([]model.Transaction, 0, len(txs))
	dupes := 0
	for _, tx := range txs {
		if _, ok := seen[tx.ID]; ok {
			dupes++
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, dupes
}
