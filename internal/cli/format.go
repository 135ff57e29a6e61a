// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/model"
)

// FormatMoney formats an amount with two decimals and comma thousands
// separators: -1234.5 -> "-1,234.50".
func FormatMoney(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = FormatNumber(n)
	}
	out := whole + "." + frac
	if neg && out != "0.00" {
		return "-" + out
	}
	return out
}

// FormatSignedMoney is FormatMoney with an explicit "+" for positive values.
func FormatSignedMoney(v float64) string {
	s := FormatMoney(v)
	if !strings.HasPrefix(s, "-") && s != "0.00" {
		return "+" + s
	}
	return s
}

// FormatCompact formats an amount with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M"
func FormatCompact(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value already expressed in percent.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatVariation renders a period-over-period change, or "n/a" when the
// previous period had no data.
func FormatVariation(v model.Variation) string {
	if !v.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *v.Percent)
}

// FormatOptionalPercent renders a nullable percentage.
func FormatOptionalPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}

// FormatDelta formats the money change from previous to current with a sign.
func FormatDelta(current, previous float64) string {
	return FormatSignedMoney(current - previous)
}

// FormatDate renders a transaction date, with the time of day when known.
func FormatDate(t time.Time, hasTime bool) string {
	if hasTime {
		return t.Format("2006-01-02 15:04")
	}
	return t.Format("2006-01-02")
}

// FormatFrequency renders a recurrence interval in days as a word when one fits.
func FormatFrequency(days int) string {
	switch {
	case days <= 0:
		return "-"
	case days >= 6 && days <= 8:
		return "weekly"
	case days >= 13 && days <= 16:
		return "biweekly"
	case days >= 28 && days <= 31:
		return "monthly"
	case days >= 85 && days <= 95:
		return "quarterly"
	case days >= 360 && days <= 370:
		return "yearly"
	}
	return fmt.Sprintf("every %dd", days)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
