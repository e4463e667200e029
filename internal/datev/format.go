// Package datev implements the value model, transforms and grouping shared by
// the flat-file and XML serializers.
package datev

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDateLayout is the ddmmyy layout used for dates outside the voucher
// date column.
const DefaultDateLayout = "020106"

// FormatAmount renders a monetary value with two decimals and a comma as
// decimal separator, e.g. 1150 -> "1150,00".
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// FormatRate renders an exchange rate with four decimals and a comma as
// decimal separator.
func FormatRate(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(4), ".", ",", 1)
}

// ConvertDate renders a date in the given Go reference layout. The zero time
// renders empty.
func ConvertDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// CleanString trims the value and truncates it to maxLen runes. A maxLen of
// zero means unlimited.
func CleanString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if maxLen > 0 {
		r := []rune(s)
		if len(r) > maxLen {
			return string(r[:maxLen])
		}
	}
	return s
}

// StripLeadingZeros removes leading zeros from an account code when enabled.
func StripLeadingZeros(code string, enabled bool) string {
	if !enabled {
		return code
	}
	return strings.TrimLeft(code, "0")
}
