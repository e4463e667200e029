package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/core/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func resolverContext() services.MoveContext {
	return services.MoveContext{
		Company: domain.Company{
			CompanyID:    "co-1",
			CurrencyCode: "EUR",
			Export:       domain.ExportConfig{ExportMethod: domain.ExportMethodGross},
		},
		Journal: domain.Journal{JournalID: "j-1", Type: domain.JournalSale},
		Accounts: map[string]domain.Account{
			"acc-bank":       {AccountID: "acc-bank", Code: "1200", AccountType: domain.AssetCash},
			"acc-recv":       {AccountID: "acc-recv", Code: "1400", AccountType: domain.AssetReceivable},
			"acc-pay":        {AccountID: "acc-pay", Code: "1600", AccountType: domain.LiabilityPayable},
			"acc-income":     {AccountID: "acc-income", Code: "8400", AccountType: domain.Income},
			"acc-expense":    {AccountID: "acc-expense", Code: "4400", AccountType: domain.Expense},
			"acc-tax":        {AccountID: "acc-tax", Code: "1776", AccountType: domain.LiabilityCurrent},
			"acc-recv-low":   {AccountID: "acc-recv-low", Code: "1300", AccountType: domain.AssetReceivable},
			"acc-auto":       {AccountID: "acc-auto", Code: "8125", AccountType: domain.Income, Automatic: true, AutomaticTaxIDs: []string{"tax-eu"}},
			"acc-vatid":      {AccountID: "acc-vatid", Code: "8336", AccountType: domain.Income, VATIDRequired: true},
			"acc-auto-notax": {AccountID: "acc-auto-notax", Code: "8200", AccountType: domain.Income, Automatic: true, NoTax: true},
		},
		Partners: map[string]domain.Partner{
			"p-1": {PartnerID: "p-1", Name: "Muster GmbH", DebtorNumber: "0010001", CreditorNumber: "0070001", VAT: "DE123456789"},
			"p-2": {PartnerID: "p-2", Name: "NoVAT AG"},
		},
		Taxes: map[string]domain.Tax{
			"tax-19": {TaxID: "tax-19", Name: "19% USt", Amount: decimal.NewFromInt(19), TaxKey: "3"},
			"tax-nokey": {TaxID: "tax-nokey", Name: "0% steuerfrei", Amount: decimal.Zero},
			"tax-eu":    {TaxID: "tax-eu", Name: "EU 19%", Amount: decimal.NewFromInt(19), EUCountryCode: "AT"},
		},
		CostCenters: map[string]domain.CostCenter{
			"cc-100": {CostCenterID: "cc-100", PlanID: "plan-1", Code: "100"},
			"cc-200": {CostCenterID: "cc-200", PlanID: "plan-2", Code: "200"},
		},
		Plans: map[string]domain.CostCenterPlan{
			"plan-1": {PlanID: "plan-1", Target: domain.CostCenterKost1},
			"plan-2": {PlanID: "plan-2", Target: domain.CostCenterKost2},
		},
	}
}

func TestResolveCounterAccountManualOverride(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{CounterAccountID: "acc-income"}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-income", id)
}

func TestResolveCounterAccountBankJournal(t *testing.T) {
	ctx := resolverContext()
	ctx.Journal = domain.Journal{Type: domain.JournalBank, DefaultAccountID: "acc-bank"}
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-bank", Debit: decimal.NewFromInt(100)},
		{AccountID: "acc-recv", Credit: decimal.NewFromInt(100)},
	}}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-bank", id)
}

func TestResolveCounterAccountInvoiceOpenItem(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{MoveType: domain.MoveOutInvoice, Lines: []domain.MoveLine{
		{AccountID: "acc-income", Credit: decimal.NewFromInt(100)},
		{AccountID: "acc-recv", Debit: decimal.NewFromInt(119)},
		{AccountID: "acc-tax", Credit: decimal.NewFromInt(19), TaxLineTaxID: "tax-19"},
	}}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-recv", id)
}

func TestResolveCounterAccountExpenseSheet(t *testing.T) {
	ctx := resolverContext()
	ctx.Journal = domain.Journal{Type: domain.JournalPurchase, DefaultAccountID: "acc-pay"}
	move := domain.Move{MoveType: domain.MoveExpenseSheet}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-pay", id)
}

func TestResolveCounterAccountExchangeJournal(t *testing.T) {
	ctx := resolverContext()
	ctx.Journal = domain.Journal{
		Type:              domain.JournalGeneral,
		IsExchangeJournal: true,
		GainAccountID:     "acc-income",
		LossAccountID:     "acc-expense",
	}
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-bank", Debit: decimal.NewFromInt(5)},
		{AccountID: "acc-income", Credit: decimal.NewFromInt(5)},
	}}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-income", id)
}

func TestResolveCounterAccountSingleDebit(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-expense", Debit: decimal.NewFromInt(300)},
		{AccountID: "acc-income", Credit: decimal.NewFromInt(200)},
		{AccountID: "acc-bank", Credit: decimal.NewFromInt(100)},
	}}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-expense", id)
}

func TestResolveCounterAccountFrequencyTieBreak(t *testing.T) {
	ctx := resolverContext()
	// two receivable accounts appear equally often, the lower code wins
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-recv", Debit: decimal.NewFromInt(10)},
		{AccountID: "acc-recv-low", Debit: decimal.NewFromInt(20)},
		{AccountID: "acc-income", Credit: decimal.NewFromInt(15)},
		{AccountID: "acc-expense", Credit: decimal.NewFromInt(15)},
	}}

	id, err := services.ResolveCounterAccount(ctx, move)
	require.NoError(t, err)
	assert.Equal(t, "acc-recv-low", id)
}

func TestResolveCounterAccountNoLines(t *testing.T) {
	ctx := resolverContext()
	_, err := services.ResolveCounterAccount(ctx, domain.Move{Name: "MISC/1"})
	assert.ErrorContains(t, err, "no counterpart account resolvable")
}

func TestCheckMoveLines(t *testing.T) {
	ctx := resolverContext()

	tests := []struct {
		name string
		line domain.MoveLine
		want string
	}{
		{
			name: "more than one tax",
			line: domain.MoveLine{AccountID: "acc-income", Name: "Umsatz", TaxIDs: []string{"tax-19", "tax-eu"}},
			want: "8400 with Label (Umsatz) has more than one tax account, but allowed is only one.",
		},
		{
			name: "automatic account without tax",
			line: domain.MoveLine{AccountID: "acc-auto", Name: "EU Umsatz"},
			want: "8125 with Label (EU Umsatz) has an automatic account, but there is no tax set.",
		},
		{
			name: "automatic account with disallowed tax",
			line: domain.MoveLine{AccountID: "acc-auto", Name: "EU Umsatz", TaxIDs: []string{"tax-19"}},
			want: "8125 with Label (EU Umsatz) has an automatic account, but the tax 19% USt is not in the list of the allowed taxes!",
		},
		{
			name: "tax without posting key",
			line: domain.MoveLine{AccountID: "acc-income", Name: "frei", TaxIDs: []string{"tax-nokey"}},
			want: "8400 with Label (frei) has taxes applied, but the tax has no posting key",
		},
		{
			name: "missing partner VAT id",
			line: domain.MoveLine{AccountID: "acc-vatid", Name: "EU Lieferung", PartnerID: "p-2"},
			want: "8336 with Label (EU Lieferung) needs the VAT-ID, but in the Partner NoVAT AG it is not set",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := services.CheckMoveLines(ctx, domain.Move{Lines: []domain.MoveLine{tt.line}})
			require.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[0])
		})
	}
}

func TestCheckMoveLinesSkipsTaxLines(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-tax", TaxLineTaxID: "tax-19", TaxIDs: []string{"tax-19", "tax-eu"}},
	}}
	assert.Empty(t, services.CheckMoveLines(ctx, move))
}

func TestCheckMoveLinesCleanMove(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{Lines: []domain.MoveLine{
		{AccountID: "acc-income", Name: "Umsatz", Credit: decimal.NewFromInt(100), TaxIDs: []string{"tax-19"}},
		{AccountID: "acc-recv", Debit: decimal.NewFromInt(119), PartnerID: "p-1"},
	}}
	assert.Empty(t, services.CheckMoveLines(ctx, move))
}

func TestGenerateBookingLinesGrossInvoice(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{
		Name:      "INV/2026/0042",
		MoveType:  domain.MoveOutInvoice,
		Date:      time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		PartnerID: "p-1",
		Lines: []domain.MoveLine{
			{AccountID: "acc-income", Name: "Umsatz", Credit: decimal.NewFromInt(1000), TaxIDs: []string{"tax-19"}, PartnerID: "p-1"},
			{AccountID: "acc-tax", Credit: decimal.NewFromInt(190), TaxLineTaxID: "tax-19"},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(1190), PartnerID: "p-1"},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	// tax line folded into the base line, receivable line is the counterpart
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "1190,00", datev.FormatAmount(row.Amount))
	assert.Equal(t, "H", row.DebitCredit)
	assert.Equal(t, "8400", row.Account)
	// the counterpart is the partner's debtor number
	assert.Equal(t, "0010001", row.CounterAccount)
	assert.Equal(t, "3", row.TaxKey)
	assert.Equal(t, "1501", row.VoucherDate)
	assert.Equal(t, "INV/2026/0042", row.VoucherField1)
}

func TestGenerateBookingLinesNetMethodKeepsTaxLines(t *testing.T) {
	ctx := resolverContext()
	ctx.Company.Export.ExportMethod = domain.ExportMethodNet
	move := domain.Move{
		Name:     "INV/2026/0043",
		MoveType: domain.MoveOutInvoice,
		Date:     time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC),
		Lines: []domain.MoveLine{
			{AccountID: "acc-income", Credit: decimal.NewFromInt(1000)},
			{AccountID: "acc-tax", Credit: decimal.NewFromInt(190), TaxLineTaxID: "tax-19"},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(1190)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1000,00", datev.FormatAmount(rows[0].Amount))
	assert.Equal(t, "190,00", datev.FormatAmount(rows[1].Amount))
}

func TestGenerateBookingLinesAutomaticAccountCarriesNoTaxKey(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{
		Name:     "INV/2026/0044",
		MoveType: domain.MoveOutInvoice,
		Lines: []domain.MoveLine{
			{AccountID: "acc-auto", Credit: decimal.NewFromInt(100), TaxIDs: []string{"tax-eu"}},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(119)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].TaxKey)
	assert.Equal(t, "AT", rows[0].EUCountryVAT)
	assert.Equal(t, "19,00", rows[0].EURate)
}

func TestGenerateBookingLinesNoTaxAccountGetsCaseKey40(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{
		Name: "MISC/9",
		Lines: []domain.MoveLine{
			{AccountID: "acc-auto-notax", Credit: decimal.NewFromInt(50)},
			{AccountID: "acc-bank", Debit: decimal.NewFromInt(50)},
			{AccountID: "acc-expense", Debit: decimal.NewFromInt(0)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "40", rows[0].TaxKey)
}

func TestGenerateBookingLinesCurrencyDifference(t *testing.T) {
	ctx := resolverContext()
	ctx.Company.Export.ExportMethod = domain.ExportMethodNet
	move := domain.Move{
		Name: "USD/1",
		Lines: []domain.MoveLine{
			{
				AccountID:      "acc-income",
				Credit:         decimal.NewFromInt(100),
				AmountCurrency: decimal.RequireFromString("-110"),
				CurrencyCode:   "USD",
			},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(100)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "USD", row.CurrencyCode)
	assert.Equal(t, "110,00", datev.FormatAmount(row.Amount))
	assert.True(t, row.HasBase)
	assert.Equal(t, "100,00", datev.FormatAmount(row.BaseAmount))
	assert.Equal(t, "EUR", row.BaseCurrency)
	assert.Equal(t, "1,1000", datev.FormatRate(row.Rate))
}

func TestGenerateBookingLinesCostCenters(t *testing.T) {
	ctx := resolverContext()
	move := domain.Move{
		Name:             "MISC/2",
		CounterAccountID: "acc-bank",
		Lines: []domain.MoveLine{
			{AccountID: "acc-expense", Debit: decimal.NewFromInt(80), CostCenter1ID: "cc-100", CostCenter2ID: "cc-200"},
			{AccountID: "acc-bank", Credit: decimal.NewFromInt(80)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100", rows[0].Cost1)
	assert.Equal(t, "200", rows[0].Cost2)
}

func TestGenerateBookingLinesVoucherFields(t *testing.T) {
	ctx := resolverContext()
	ctx.Company.Export.ExportRefAsName = true
	ctx.Company.Export.VoucherDateFormat = domain.VoucherDateDDMMYYYY
	ctx.Journal.BookingTextSources = []domain.BookingTextSource{
		domain.BookingTextPartner, domain.BookingTextRef,
	}
	move := domain.Move{
		Name:           "INV/2026/0050",
		Ref:            "RE-2026-50",
		MoveType:       domain.MoveOutInvoice,
		Date:           time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		InvoiceDate:    time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC),
		InvoiceDateDue: time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
		DeliveryDate:   time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC),
		PartnerID:      "p-1",
		Lines: []domain.MoveLine{
			{AccountID: "acc-income", Credit: decimal.NewFromInt(100), PartnerID: "p-1"},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(100), PartnerID: "p-1"},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	// invoice date differs from the booking date and wins
	assert.Equal(t, "28012026", row.VoucherDate)
	assert.Equal(t, "RE-2026-50", row.VoucherField1)
	assert.Equal(t, "270226", row.VoucherField2)
	assert.Equal(t, "250126", row.ServiceDate)
	assert.Equal(t, "Muster GmbH, RE-2026-50", row.BookingText)
}

func TestGenerateBookingLinesDocumentLink(t *testing.T) {
	ctx := resolverContext()
	ctx.Company.Export.UseDocumentLink = true
	move := domain.Move{
		Name:         "INV/2026/0051",
		MoveType:     domain.MoveOutInvoice,
		DocumentGUID: "f1d2",
		Lines: []domain.MoveLine{
			{AccountID: "acc-income", Credit: decimal.NewFromInt(10)},
			{AccountID: "acc-recv", Debit: decimal.NewFromInt(10)},
		},
	}

	rows, err := services.GenerateBookingLines(ctx, move)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, `BEDI "f1d2"`, rows[0].DocumentLink)
}
