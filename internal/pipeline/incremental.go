package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/source"
	"github.com/theirongolddev/cashburn/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Removed   int
}

// LoadWithCache discovers, diffs against cache, parses only changed files,
// and returns the combined result set. Cache entries for files that have
// disappeared from dataDir are dropped.
func LoadWithCache(dataDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TotalFiles:   len(files),
			AccountCount: source.CountAccounts(files),
		},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	var unchanged []string
	present := make(map[string]struct{}, len(files))

	for _, f := range files {
		present[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		cached, ok := tracked[f.Path]
		if ok && cached.SourceFile == f.Rel && cached.Matches(info.ModTime().UnixNano(), info.Size()) {
			unchanged = append(unchanged, f.Path)
			result.ParseErrors += cached.ParseErrors
		} else {
			toReparse = append(toReparse, f)
		}
	}

	root := filepath.Clean(dataDir) + string(filepath.Separator)
	for path := range tracked {
		if _, ok := present[path]; ok || !strings.HasPrefix(path, root) {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			return nil, fmt.Errorf("pruning cache entry %s: %w", path, err)
		}
		result.Removed++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	var txs []model.Transaction
	if len(unchanged) > 0 {
		cached, err := cache.LoadFiles(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached transactions: %w", err)
		}
		txs = append(txs, cached...)
		result.ParsedFiles += len(unchanged)
	}

	if len(toReparse) > 0 {
		for i, pr := range parseAll(toReparse, result.CacheHits, result.TotalFiles, progressFn) {
			if pr.Err != nil {
				result.FileErrors++
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += pr.ParseErrors
			txs = append(txs, pr.Transactions...)

			f := toReparse[i]
			info, err := os.Stat(f.Path)
			if err == nil {
				_ = cache.SaveFile(f.Path, store.FileInfo{
					SourceFile:  f.Rel,
					MtimeNs:     info.ModTime().UnixNano(),
					SizeBytes:   info.Size(),
					ParseErrors: pr.ParseErrors,
				}, pr.Transactions)
			}
		}
	}

	result.Transactions, result.Duplicates = finalize(txs)
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cashburn")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "transactions.db")
}
