// Package utils provides shared formatting helpers.
package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatPrice formats a price with up to five decimal places, trimming
// trailing zeros (FX prices are commonly quoted to 4-5 decimals).
func FormatPrice(price float64) string {
	s := fmt.Sprintf("%.5f", price)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// FormatMoney formats an amount as a signed dollar value.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	if math.IsInf(value, 1) {
		return "inf%"
	}
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatRatio formats a ratio such as profit factor or R:R, rendering
// +Inf as the conventional infinity glyph and a missing value as a dash.
func FormatRatio(value *float64) string {
	if value == nil {
		return "-"
	}
	if math.IsInf(*value, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", *value)
}

// FormatDate formats a date for display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatTime formats a timestamp for display.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// TruncateString truncates a string to maxLen runes with an ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
