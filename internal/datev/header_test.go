package datev_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func TestFiscalYearStart(t *testing.T) {
	tests := []struct {
		name      string
		dateFrom  time.Time
		lastMonth int
		want      string
	}{
		{
			name:      "calendar year",
			dateFrom:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			lastMonth: 12,
			want:      "20260101",
		},
		{
			name:      "june year end, period after start",
			dateFrom:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			lastMonth: 6,
			want:      "20250701",
		},
		{
			name:      "june year end, period in new fiscal year",
			dateFrom:  time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			lastMonth: 6,
			want:      "20250701",
		},
		{
			name:      "unset month falls back to calendar year",
			dateFrom:  time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
			lastMonth: 0,
			want:      "20260101",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, datev.FiscalYearStart(tt.dateFrom, tt.lastMonth))
		})
	}
}

func TestHeaderValuesBookings(t *testing.T) {
	h := datev.Header{
		Category:        datev.CategoryBookings,
		FormatName:      datev.FormatBookings,
		FormatVersion:   datev.FormatVersionBookings,
		CreatedAt:       time.Date(2026, time.January, 15, 9, 30, 4, 123_000_000, time.UTC),
		ExportedBy:      "lex",
		Consultant:      "1234567",
		Client:          "10001",
		FiscalYearStart: "20260101",
		AccountLength:   4,
		DateFrom:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateTo:          time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
		Description:     "Januar 2026",
		BookingType:     1,
		Locked:          true,
	}
	values := h.Values()

	assert.Len(t, values, len(datev.HeaderFieldOrder))
	assert.Equal(t, "EXTF", values[0])
	assert.Equal(t, "700", values[1])
	assert.Equal(t, "21", values[2])
	assert.Equal(t, "Buchungsstapel", values[3])
	assert.Equal(t, "9", values[4])
	assert.Equal(t, "20260115093004123", values[5])
	assert.Equal(t, "OE", values[7])
	assert.Equal(t, "1234567", values[10])
	assert.Equal(t, "10001", values[11])
	assert.Equal(t, "20260101", values[12])
	assert.Equal(t, "4", values[13])
	assert.Equal(t, "20260101", values[14])
	assert.Equal(t, "20260131", values[15])
	assert.Equal(t, "1", values[18])
	assert.Equal(t, "1", values[20])
}

func TestHeaderValuesMasterData(t *testing.T) {
	h := datev.Header{
		Category:      datev.CategoryMasterData,
		FormatName:    datev.FormatMasterData,
		FormatVersion: datev.FormatVersionMasterData,
		CreatedAt:     time.Date(2026, time.February, 2, 12, 0, 0, 0, time.UTC),
		Locked:        true,
	}
	values := h.Values()

	assert.Equal(t, "16", values[2])
	assert.Equal(t, "Debitoren/Kreditoren", values[3])
	assert.Equal(t, "5", values[4])
	// master data files carry no locking flag, booking type or period
	assert.Equal(t, "", values[20])
	assert.Equal(t, "", values[18])
	assert.Equal(t, "", values[14])
	assert.Equal(t, "", values[15])
	assert.Equal(t, "", values[13])
}
