package source

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Format is the encoding of a statement file.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatJSON  Format = "json"
)

// FormatOf maps a file name to its statement format by extension.
func FormatOf(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, true
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// DiscoveredFile is a statement file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Rel     string // path relative to the data dir, stored as Transaction.SourceFile
	Account string // first directory below the data dir; "" for top-level files
	Format  Format
}

// RawRecord is one entry of a JSON or JSON Lines statement. Amount accepts
// either a JSON number or a string such as "1.234,56".
type RawRecord struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	Time            string          `json:"time,omitempty"`
	Amount          json.RawMessage `json:"amount"`
	Merchant        string          `json:"merchant"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Type            string          `json:"type,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// fields is the format-independent view of one record.
type fields struct {
	id, date, clock, amount, merchant string
	category, method, txType, notes   string
}

func (r RawRecord) fields() (fields, error) {
	amount, err := rawAmount(r.Amount)
	if err != nil {
		return fields{}, err
	}
	merchant := r.Merchant
	if strings.TrimSpace(merchant) == "" {
		merchant = r.Description
	}
	txType := r.TransactionType
	if txType == "" {
		txType = r.Type
	}
	return fields{
		id:       r.ID,
		date:     r.Date,
		clock:    r.Time,
		amount:   amount,
		merchant: merchant,
		category: r.Category,
		method:   r.PaymentMethod,
		txType:   txType,
		notes:    r.Notes,
	}, nil
}

func rawAmount(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

// csvColumns maps lowercased CSV header names to record fields.
var csvColumns = map[string]string{
	"id": "id", "transaction_id": "id", "reference": "id",
	"date": "date", "data": "date", "posted": "date", "posting_date": "date", "transaction_date": "date",
	"time": "time", "hora": "time",
	"amount": "amount", "value": "amount", "valor": "amount",
	"merchant": "merchant", "description": "merchant", "descricao": "merchant", "payee": "merchant", "name": "merchant",
	"category": "category", "categoria": "category",
	"payment_method": "method", "method": "method", "payment": "method",
	"transaction_type": "type", "type": "type", "tipo": "type",
	"notes": "notes", "memo": "notes",
}
