package model

import (
	"fmt"
	"time"
)

// Transaction is one raw record from a statement file. The engine never
// mutates it.
type Transaction struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	HasTime       bool            `json:"has_time"`
	Amount        float64         `json:"amount"`
	Merchant      string          `json:"merchant"`
	Category      Category        `json:"category,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Type          TransactionType `json:"transaction_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	SourceFile    string          `json:"-"`
}

// Classification is the income/expense decision for a transaction.
type Classification struct {
	IsIncome   bool       `json:"is_income"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	Conflict   bool       `json:"conflict"`
}

// ClassifiedTransaction pairs a transaction with its derived labels.
type ClassifiedTransaction struct {
	Transaction
	Classification   Classification `json:"classification"`
	ResolvedCategory Category       `json:"resolved_category"`
	Suspicious       bool           `json:"suspicious"`
}

// Magnitude is the unsigned amount.
func (ct ClassifiedTransaction) Magnitude() float64 {
	if ct.Amount < 0 {
		return -ct.Amount
	}
	return ct.Amount
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// ParseYearMonth parses "2006-01".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Start is midnight on the first day of the month in loc.
func (ym YearMonth) Start(loc *time.Location) time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
}

// End is midnight on the first day of the following month in loc (exclusive).
func (ym YearMonth) End(loc *time.Location) time.Time {
	return ym.Start(loc).AddDate(0, 1, 0)
}

// Days is the number of days in the month.
func (ym YearMonth) Days() int {
	return ym.End(time.UTC).AddDate(0, 0, -1).Day()
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	return YearMonthOf(ym.Start(time.UTC).AddDate(0, -1, 0))
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(ym.Start(time.UTC).AddDate(0, 1, 0))
}

// Contains reports whether t falls in the month (by its own wall clock).
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
