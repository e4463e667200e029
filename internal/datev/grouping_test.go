package datev_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func TestGroupLinesMergesMatchingLines(t *testing.T) {
	lines := []datev.BookingLine{
		{
			Amount: decimal.NewFromInt(100), DebitCredit: "S",
			Account: "4400", CounterAccount: "1200", TaxKey: "9",
			BookingText: "first",
		},
		{
			Amount: decimal.NewFromInt(50), DebitCredit: "S",
			Account: "4400", CounterAccount: "1200", TaxKey: "9",
			BookingText: "second",
		},
	}
	out := datev.GroupLines(lines)
	require.Len(t, out, 1)
	assert.Equal(t, "150", out[0].Amount.String())
	// non-key columns keep the first line's values
	assert.Equal(t, "first", out[0].BookingText)
}

func TestGroupLinesKeepsDifferingTaxKeysApart(t *testing.T) {
	lines := []datev.BookingLine{
		{Amount: decimal.NewFromInt(100), DebitCredit: "S", Account: "4400", CounterAccount: "1200", TaxKey: "9"},
		{Amount: decimal.NewFromInt(100), DebitCredit: "S", Account: "4400", CounterAccount: "1200", TaxKey: "8"},
	}
	out := datev.GroupLines(lines)
	assert.Len(t, out, 2)
}

func TestGroupLinesSumsBaseAmounts(t *testing.T) {
	lines := []datev.BookingLine{
		{
			Amount: decimal.NewFromInt(110), DebitCredit: "S",
			Account: "4400", CounterAccount: "1200", CurrencyCode: "USD",
			BaseAmount: decimal.NewFromInt(100), HasBase: true,
		},
		{
			Amount: decimal.NewFromInt(55), DebitCredit: "S",
			Account: "4400", CounterAccount: "1200", CurrencyCode: "USD",
			BaseAmount: decimal.NewFromInt(50), HasBase: true,
		},
	}
	out := datev.GroupLines(lines)
	require.Len(t, out, 1)
	assert.Equal(t, "165", out[0].Amount.String())
	assert.Equal(t, "150", out[0].BaseAmount.String())
	assert.True(t, out[0].HasBase)
}

func TestGroupLinesDropsZeroSumGroups(t *testing.T) {
	lines := []datev.BookingLine{
		{Amount: decimal.NewFromInt(100), DebitCredit: "S", Account: "4400", CounterAccount: "1200"},
		{Amount: decimal.NewFromInt(-100), DebitCredit: "S", Account: "4400", CounterAccount: "1200"},
		{Amount: decimal.NewFromInt(30), DebitCredit: "H", Account: "8400", CounterAccount: "1200"},
	}
	out := datev.GroupLines(lines)
	require.Len(t, out, 1)
	assert.Equal(t, "8400", out[0].Account)
}

func TestGroupLinesPreservesFirstSeenOrder(t *testing.T) {
	lines := []datev.BookingLine{
		{Amount: decimal.NewFromInt(10), DebitCredit: "S", Account: "4400", CounterAccount: "1200"},
		{Amount: decimal.NewFromInt(20), DebitCredit: "H", Account: "8400", CounterAccount: "1200"},
		{Amount: decimal.NewFromInt(5), DebitCredit: "S", Account: "4400", CounterAccount: "1200"},
	}
	out := datev.GroupLines(lines)
	require.Len(t, out, 2)
	assert.Equal(t, "4400", out[0].Account)
	assert.Equal(t, "15", out[0].Amount.String())
	assert.Equal(t, "8400", out[1].Account)
}
