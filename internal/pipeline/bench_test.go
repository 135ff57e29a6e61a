package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cashburn/internal/source"
	"github.com/theirongolddev/cashburn/internal/store"
)

// writeFixture creates accounts x months CSV statements of rows each.
func writeFixture(tb testing.TB, accounts, months, rows int) string {
	tb.Helper()
	dir := tb.TempDir()
	merchants := []string{"Super Market", "Uber Trip", "Netflix", "Coffee Place", "Pharmacy"}
	for a := 0; a < accounts; a++ {
		accDir := filepath.Join(dir, fmt.Sprintf("acct%d", a))
		if err := os.MkdirAll(accDir, 0o750); err != nil {
			tb.Fatal(err)
		}
		for m := 1; m <= months; m++ {
			var b strings.Builder
			b.WriteString("id,date,amount,merchant\n")
			fmt.Fprintf(&b, "a%d-m%d-pay,2024-%02d-05,5000.00,ACME Payroll\n", a, m, m)
			for r := 0; r < rows; r++ {
				fmt.Fprintf(&b, "a%d-m%d-%d,2024-%02d-%02d,-%d.%02d,%s\n",
					a, m, r, m, r%28+1, r%200+1, r%100, merchants[r%len(merchants)])
			}
			path := filepath.Join(accDir, fmt.Sprintf("2024-%02d.csv", m))
			if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
				tb.Fatal(err)
			}
		}
	}
	return dir
}

func BenchmarkLoad(b *testing.B) {
	dir := writeFixture(b, 3, 12, 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(dir, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkParseFile(b *testing.B) {
	dir := writeFixture(b, 1, 1, 5000)
	files, err := source.ScanDir(dir)
	if err != nil || len(files) == 0 {
		b.Fatalf("ScanDir: %v (%d files)", err, len(files))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := source.ParseFile(files[0])
		if result.Err != nil {
			b.Fatal(result.Err)
		}
	}
}

func BenchmarkScanDir(b *testing.B) {
	dir := writeFixture(b, 4, 12, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		files, err := source.ScanDir(dir)
		if err != nil {
			b.Fatal(err)
		}
		_ = files
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	dir := writeFixture(b, 3, 12, 200)

	cache, err := store.Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache(dir, cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}
