// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NoNote is shown in place of an absent gift note.
const NoNote = "—"

// FormatMoney formats an amount in dollars with comma separators. Whole
// amounts drop the cents: 1250 -> "$1,250", 40.5 -> "$40.50".
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	d = d.Round(2)
	whole := d.Truncate(0)
	out := "$" + FormatNumber(whole.IntPart())
	if !d.Equal(whole) {
		cents := d.Sub(whole).Shift(2).IntPart()
		out += fmt.Sprintf(".%02d", cents)
	}
	return sign + out
}

// FormatWholeMoney formats an amount rounded to whole dollars.
func FormatWholeMoney(d decimal.Decimal) string {
	return FormatMoney(d.Round(0))
}

// FormatDollars formats a float dollar figure as whole dollars.
func FormatDollars(f float64) string {
	return FormatWholeMoney(decimal.NewFromFloat(f))
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
	lead := len(s) % 3
	if lead > 0 {
		result.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a whole-number percentage.
func FormatPercent(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// FormatTrend formats a trend figure with an arrow, e.g. 12.4 -> "▲ 12.4%".
// A nil trend formats as "".
func FormatTrend(t *float64) string {
	if t == nil {
		return ""
	}
	if *t < 0 {
		return fmt.Sprintf("▼ %.1f%%", -*t)
	}
	return fmt.Sprintf("▲ %.1f%%", *t)
}

// FormatDate formats a gift date the way the ledger shows it: "Mar 2, 2024".
// A zero time renders as "unknown date".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.UTC().Format("Jan 2, 2006")
}

// FormatMonth formats a month bucket label: "Mar '24".
func FormatMonth(t time.Time) string {
	return t.UTC().Format("Jan '06")
}

// FormatNote returns note, or NoNote when it is empty.
func FormatNote(note string) string {
	if strings.TrimSpace(note) == "" {
		return NoNote
	}
	return note
}

// Truncate shortens s to at most n runes, ending in "…" when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
