// Package store provides a SQLite-backed cache for parsed statement files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cashburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed transaction caching keyed by statement file.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked state of one statement file.
type FileInfo struct {
	SourceFile  string
	MtimeNs     int64
	SizeBytes   int64
	ParseErrors int
}

// Matches reports whether the file on disk is unchanged since it was cached.
func (fi FileInfo) Matches(mtimeNs, sizeBytes int64) bool {
	return fi.MtimeNs == mtimeNs && fi.SizeBytes == sizeBytes
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, source_file, mtime_ns, size_bytes, parse_errors FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.SourceFile, &fi.MtimeNs, &fi.SizeBytes, &fi.ParseErrors); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFile replaces the cached transactions of one statement file and
// updates its tracking info in a single transaction.
func (c *Cache) SaveFile(path string, info FileInfo, txs []model.Transaction) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT INTO file_tracker (file_path, source_file, mtime_ns, size_bytes, parse_errors, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			source_file = excluded.source_file,
			mtime_ns = excluded.mtime_ns,
			size_bytes = excluded.size_bytes,
			parse_errors = excluded.parse_errors,
			parsed_at = excluded.parsed_at`,
		path, info.SourceFile, info.MtimeNs, info.SizeBytes, info.ParseErrors, now,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM transactions WHERE file_path = ?", path); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions
		(file_path, seq, id, date, has_time, amount, merchant, category,
		 payment_method, transaction_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range txs {
		hasTime := 0
		if t.HasTime {
			hasTime = 1
		}
		_, err = stmt.Exec(path, i, t.ID, t.Date.UTC().Format(time.RFC3339), hasTime, t.Amount, t.Merchant,
			string(t.Category), string(t.PaymentMethod), string(t.Type), t.Notes)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadAll reads every cached transaction in file order.
func (c *Cache) LoadAll() ([]model.Transaction, error) {
	return c.load(nil)
}

// LoadFiles reads the cached transactions of the given statement files in
// file order.
func (c *Cache) LoadFiles(paths []string) ([]model.Transaction, error) {
	keep := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		keep[p] = struct{}{}
	}
	return c.load(keep)
}

func (c *Cache) load(keep map[string]struct{}) ([]model.Transaction, error) {
	rows, err := c.db.Query(`SELECT
		t.file_path, t.id, t.date, t.has_time, t.amount, t.merchant, t.category,
		t.payment_method, t.transaction_type, t.notes, f.source_file
		FROM transactions t JOIN file_tracker f ON f.file_path = t.file_path
		ORDER BY f.source_file, t.seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		var (
			t                        model.Transaction
			filePath, dateStr        string
			hasTime                  int
			category, method, txType sql.NullString
			notes                    sql.NullString
		)
		err := rows.Scan(&filePath, &t.ID, &dateStr, &hasTime, &t.Amount, &t.Merchant, &category,
			&method, &txType, &notes, &t.SourceFile)
		if err != nil {
			return nil, err
		}
		if keep != nil {
			if _, ok := keep[filePath]; !ok {
				continue
			}
		}

		t.Date, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing cached date %q: %w", dateStr, err)
		}
		t.HasTime = hasTime != 0
		t.Category = model.Category(category.String)
		t.PaymentMethod = model.PaymentMethod(method.String)
		t.Type = model.TransactionType(txType.String)
		t.Notes = notes.String
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// DeleteFile removes a file's tracking entry and its cached transactions.
func (c *Cache) DeleteFile(path string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// TransactionCount returns the number of cached transactions.
func (c *Cache) TransactionCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
