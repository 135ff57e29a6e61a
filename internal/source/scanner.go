package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks the data directory and discovers every statement file.
// Hidden files and directories are skipped. A missing directory yields no
// files and no error.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if d.IsDir() {
			if path != dataDir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || name == accountFile {
			return nil
		}
		format, ok := FormatOf(name)
		if !ok {
			return nil
		}

		rel, _ := filepath.Rel(dataDir, path)
		rel = filepath.ToSlash(rel)
		files = append(files, DiscoveredFile{
			Path:    path,
			Rel:     rel,
			Account: accountOf(rel),
			Format:  format,
		})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, err
}

// accountFile holds balance metadata, not transactions.
const accountFile = "account.json"

// accountOf returns the first path segment of rel when the file sits in a
// subdirectory: "nubank/2024-05.csv" -> "nubank".
func accountOf(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// CountAccounts returns the number of distinct accounts in a set of files.
// Top-level files count as one unnamed account.
func CountAccounts(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Account] = struct{}{}
	}
	return len(seen)
}
