package datev_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func TestBookingLineFieldValue(t *testing.T) {
	line := datev.BookingLine{
		Amount:         decimal.RequireFromString("1190.00"),
		DebitCredit:    "S",
		Account:        "10001",
		CounterAccount: "8400",
		TaxKey:         "9",
		VoucherDate:    "1501",
		BookingText:    "Miete Januar",
		Locked:         true,
	}

	assert.Equal(t, "1190,00", line.FieldValue(datev.HeadAmount))
	assert.Equal(t, "S", line.FieldValue(datev.HeadDebitCredit))
	assert.Equal(t, "10001", line.FieldValue(datev.HeadAccount))
	assert.Equal(t, "8400", line.FieldValue(datev.HeadCounterAccount))
	assert.Equal(t, "1", line.FieldValue(datev.HeadLocked))
	// unfilled columns render empty
	assert.Equal(t, "", line.FieldValue(datev.HeadRate))
	assert.Equal(t, "", line.FieldValue(datev.HeadBaseAmount))
	assert.Equal(t, "", line.FieldValue("Skonto"))
}

func TestBookingLineFieldValueCurrency(t *testing.T) {
	line := datev.BookingLine{
		Amount:       decimal.RequireFromString("110.00"),
		CurrencyCode: "USD",
		Rate:         decimal.RequireFromString("1.095"),
		BaseAmount:   decimal.RequireFromString("100.46"),
		HasBase:      true,
		BaseCurrency: "EUR",
	}

	assert.Equal(t, "USD", line.FieldValue(datev.HeadCurrency))
	assert.Equal(t, "1,0950", line.FieldValue(datev.HeadRate))
	assert.Equal(t, "100,46", line.FieldValue(datev.HeadBaseAmount))
	assert.Equal(t, "EUR", line.FieldValue(datev.HeadBaseCurrency))
}

func TestBookingLineRecord(t *testing.T) {
	line := datev.BookingLine{Amount: decimal.NewFromInt(50), DebitCredit: "H"}
	rec := line.Record(datev.BookingFieldOrder)

	assert.Len(t, rec, len(datev.BookingFieldOrder))
	assert.Equal(t, "50,00", rec[0])
	assert.Equal(t, "H", rec[1])
	// the locking flag always renders
	for i, heading := range datev.BookingFieldOrder {
		if heading == datev.HeadLocked {
			assert.Equal(t, "0", rec[i])
		}
	}
}
