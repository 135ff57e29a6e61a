// Package source discovers and parses bank statement files (CSV, JSON Lines
// and JSON arrays) into transactions.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/model"
)

// ErrUnsupportedFormat is returned for files whose extension maps to no parser.
var ErrUnsupportedFormat = errors.New("unsupported statement format")

// idNamespace scopes generated transaction ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cashburn:transaction"))

// ParseResult holds the output of parsing a single statement file.
type ParseResult struct {
	Transactions []model.Transaction
	ParseErrors  int
	Err          error
}

// ParseFile reads one statement file. Malformed records are skipped and
// counted in ParseErrors; only I/O and structural failures set Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f, df)
}

// Parse reads statement records from r using df for format and provenance.
func Parse(r io.Reader, df DiscoveredFile) ParseResult {
	switch df.Format {
	case FormatCSV:
		return parseCSV(r, df)
	case FormatJSONL:
		return parseJSONL(r, df)
	case FormatJSON:
		return parseJSONArray(r, df)
	}
	return ParseResult{Err: fmt.Errorf("%s: %w", df.Rel, ErrUnsupportedFormat)}
}

// parseCSV reads a header-driven CSV. The delimiter is sniffed from the
// header line: semicolon-separated exports are common where the decimal
// separator is a comma.
func parseCSV(r io.Reader, df DiscoveredFile) ParseResult {
	br := bufio.NewReader(r)
	first, _ := br.Peek(4096)
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	first = bytes.TrimPrefix(first, []byte("\ufeff"))

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1 // allow ragged rows; short ones fail validation
	reader.TrimLeadingSpace = true
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		reader.Comma = ';'
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}
		}
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}
	columns := mapColumns(header)
	if _, ok := columns["date"]; !ok {
		return ParseResult{Err: fmt.Errorf("%s: csv header has no date column", df.Rel)}
	}
	if _, ok := columns["amount"]; !ok {
		return ParseResult{Err: fmt.Errorf("%s: csv header has no amount column", df.Rel)}
	}

	var res ParseResult
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.ParseErrors++
			continue
		}
		if isBlank(record) {
			continue
		}

		get := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}
		tx, err := buildTransaction(fields{
			id:       get("id"),
			date:     get("date"),
			clock:    get("time"),
			amount:   get("amount"),
			merchant: get("merchant"),
			category: get("category"),
			method:   get("method"),
			txType:   get("type"),
			notes:    get("notes"),
		}, df, line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

// mapColumns resolves header names to column indexes. A header that names a
// field exactly wins over an alias for the same field.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	exact := make(map[string]bool)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		name = strings.ReplaceAll(name, " ", "_")
		field, ok := csvColumns[name]
		if !ok {
			continue
		}
		isExact := name == field || (field == "method" && name == "payment_method") || (field == "type" && name == "transaction_type")
		if _, seen := columns[field]; seen && (exact[field] || !isExact) {
			continue
		}
		columns[field] = i
		exact[field] = isExact
	}
	return columns
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseJSONL(r io.Reader, df DiscoveredFile) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			res.ParseErrors++
			continue
		}
		tx, err := recordToTransaction(rec, df, line)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}
	return res
}

// parseJSONArray accepts a top-level array of records, or an object with a
// "transactions" array.
func parseJSONArray(r io.Reader, df DiscoveredFile) ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{Err: err}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ParseResult{}
	}

	var items []json.RawMessage
	if data[0] == '{' {
		var wrapper struct {
			Transactions []json.RawMessage `json:"transactions"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Rel, err)}
		}
		items = wrapper.Transactions
	} else if err := json.Unmarshal(data, &items); err != nil {
		return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Rel, err)}
	}

	var res ParseResult
	for i, item := range items {
		var rec RawRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			res.ParseErrors++
			continue
		}
		tx, err := recordToTransaction(rec, df, i+1)
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}

func recordToTransaction(rec RawRecord, df DiscoveredFile, line int) (model.Transaction, error) {
	f, err := rec.fields()
	if err != nil {
		return model.Transaction{}, err
	}
	return buildTransaction(f, df, line)
}

// buildTransaction validates one record. Records without a date, a
// parseable amount or a merchant are rejected.
func buildTransaction(f fields, df DiscoveredFile, line int) (model.Transaction, error) {
	date, hasTime, err := ParseDate(f.date, f.clock)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := ParseAmount(f.amount)
	if err != nil {
		return model.Transaction{}, err
	}
	merchant := strings.TrimSpace(f.merchant)
	if merchant == "" {
		return model.Transaction{}, errors.New("missing merchant")
	}

	id := strings.TrimSpace(f.id)
	if id == "" {
		id = deterministicID(df.Rel, line, f)
	}

	return model.Transaction{
		ID:            id,
		Date:          date,
		HasTime:       hasTime,
		Amount:        amount,
		Merchant:      merchant,
		Category:      model.ParseCategory(f.category),
		PaymentMethod: model.ParsePaymentMethod(f.method),
		Type:          model.ParseTransactionType(f.txType),
		Notes:         strings.TrimSpace(f.notes),
		SourceFile:    df.Rel,
	}, nil
}

// deterministicID derives a stable id from the record's provenance and
// content, so re-parsing the same file yields the same ids.
func deterministicID(rel string, line int, f fields) string {
	key := strings.Join([]string{rel, strconv.Itoa(line), f.date, f.clock, f.amount, f.merchant}, "\x00")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

var (
	dateTimeLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"02/01/2006",
		"02-01-2006",
		"02.01.2006",
	}
	clockLayouts = []string{"15:04:05", "15:04"}
)

// ParseDate parses a statement date with an optional separate time column.
// Slash dates are day-first. Offsets are dropped: the wall clock of the
// statement is kept, in UTC.
func ParseDate(date, clock string) (time.Time, bool, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, false, errors.New("missing date")
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return wallClock(t), true, nil
		}
	}

	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		if day, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing date %q: %w", date, err)
	}
	if clock == "" {
		return day, false, nil
	}

	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), true, nil
		}
	}
	// An unreadable time column still leaves a usable date.
	return day, false, nil
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseAmount parses a signed amount. It accepts currency symbols, thousands
// separators, a decimal comma ("1.234,56"), a trailing minus and accounting
// parentheses for negatives.
func ParseAmount(s string) (float64, error) {
	orig := s
	s = strings.TrimSpace(s)
	for _, sym := range []string{"R$", "US$", "$", "€", "£", "BRL", "USD", "EUR"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, errors.New("missing amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	s = normalizeSeparators(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", orig, err)
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2).InexactFloat64(), nil
}

// normalizeSeparators rewrites s to use "." as the decimal separator and no
// thousands separators. With both separators present the last one is the
// decimal point; a lone comma is decimal only when followed by one or two
// digits.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	}
	return s
}
