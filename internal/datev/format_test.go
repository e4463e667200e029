package datev_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		value decimal.Decimal
		want  string
	}{
		{"whole number", decimal.NewFromInt(1150), "1150,00"},
		{"two decimals", decimal.RequireFromString("19.99"), "19,99"},
		{"rounds half to even", decimal.RequireFromString("2.345"), "2,35"},
		{"negative", decimal.RequireFromString("-0.5"), "-0,50"},
		{"zero", decimal.Zero, "0,00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, datev.FormatAmount(tt.value))
		})
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "1,0950", datev.FormatRate(decimal.RequireFromString("1.095")))
	assert.Equal(t, "0,8871", datev.FormatRate(decimal.RequireFromString("0.88712")))
}

func TestConvertDate(t *testing.T) {
	d := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "050326", datev.ConvertDate(d, datev.DefaultDateLayout))
	assert.Equal(t, "0503", datev.ConvertDate(d, "0201"))
	assert.Equal(t, "", datev.ConvertDate(time.Time{}, datev.DefaultDateLayout))
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"trims whitespace", "  Miete Januar  ", 60, "Miete Januar"},
		{"truncates runes not bytes", "Bürobedarf", 4, "Büro"},
		{"zero means unlimited", "a very long booking text", 0, "a very long booking text"},
		{"short stays", "ok", 10, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, datev.CleanString(tt.in, tt.maxLen))
		})
	}
}

func TestStripLeadingZeros(t *testing.T) {
	assert.Equal(t, "1200", datev.StripLeadingZeros("0001200", true))
	assert.Equal(t, "0001200", datev.StripLeadingZeros("0001200", false))
	assert.Equal(t, "", datev.StripLeadingZeros("0000", true))
}
