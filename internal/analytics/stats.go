package analytics

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ledger accumulates currency amounts in decimal so per-group totals add up
// exactly to the grand total.
type ledger struct {
	total decimal.Decimal
}

func (l *ledger) add(v float64) {
	l.total = l.total.Add(decimal.NewFromFloat(v))
}

func (l ledger) value() float64 {
	f, _ := l.total.Round(2).Float64()
	return f
}

func (l ledger) isZero() bool { return l.total.IsZero() }

// normalizeMerchant is the grouping key for counterparties.
func normalizeMerchant(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchKeyword returns the first keyword contained in text.
func matchKeyword(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// matchWord is matchKeyword restricted to whole words, so "bet" matches
// "bet nacional" but not "alphabet" or "betty's".
func matchWord(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && containsWord(text, kw) {
			return kw, true
		}
	}
	return "", false
}

func containsWord(text, word string) bool {
	for from := 0; from <= len(text)-len(word); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdev is the population standard deviation.
func stdev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentChange returns (cur-prev)/prev*100, or nil when prev is zero.
func percentChange(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	p := round2((cur - prev) / prev * 100)
	return &p
}

func sharePercent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

// civil strips the time of day, keeping the calendar date of t's own wall clock.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(math.Round(civil(b).Sub(civil(a)).Hours() / 24))
}

func ptr[T any](v T) *T { return &v }
