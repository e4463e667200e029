package xmldoc_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev/xmldoc"
)

func invoiceMove() domain.Move {
	return domain.Move{
		MoveID:         "m-1",
		Name:           "INV/2026/0042",
		Ref:            "RE-2026-42",
		MoveType:       domain.MoveOutInvoice,
		Date:           time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		InvoiceDate:    time.Date(2026, time.January, 14, 0, 0, 0, 0, time.UTC),
		InvoiceDateDue: time.Date(2026, time.February, 13, 0, 0, 0, 0, time.UTC),
		AmountTotal:    decimal.RequireFromString("1190.00"),
		AmountUntaxed:  decimal.RequireFromString("1000.00"),
		Lines: []domain.MoveLine{
			{
				LineID: "l-1", AccountID: "acc-income", Name: "Beratung Januar",
				Credit:        decimal.RequireFromString("1000.00"),
				Quantity:      decimal.NewFromInt(1),
				PriceSubtotal: decimal.RequireFromString("1000.00"),
				PriceTotal:    decimal.RequireFromString("1190.00"),
				TaxIDs:        []string{"tax-19"},
			},
			{
				LineID: "l-2", AccountID: "acc-tax", TaxLineTaxID: "tax-19",
				Credit: decimal.RequireFromString("190.00"),
			},
			{
				LineID: "l-3", AccountID: "acc-recv",
				Debit: decimal.RequireFromString("1190.00"),
			},
		},
	}
}

func invoiceInput(mode xmldoc.Mode) xmldoc.BuildInput {
	tax19 := domain.Tax{TaxID: "tax-19", Amount: decimal.NewFromInt(19), TaxKey: "3"}
	income := domain.Account{AccountID: "acc-income", Code: "08400"}
	return xmldoc.BuildInput{
		Move:           invoiceMove(),
		Partner:        domain.Partner{Name: "Muster GmbH", VAT: "DE123456789", DebtorNumber: "10001", Street: "Hauptstraße 1", City: "Berlin", CountryCode: "DE"},
		CompanyPartner: domain.Partner{Name: "Eigene Firma GmbH"},
		Mode:           mode,
		AccountByID: func(id string) *domain.Account {
			if id == "acc-income" {
				return &income
			}
			return nil
		},
		TaxByID: func(id string) *domain.Tax {
			if id == "tax-19" {
				return &tax19
			}
			return nil
		},
	}
}

func TestBuildInvoiceRejectsNonInvoiceMoves(t *testing.T) {
	in := invoiceInput(xmldoc.ModeStandard)
	in.Move.MoveType = domain.MoveEntry

	_, err := xmldoc.BuildInvoice(in)
	assert.ErrorContains(t, err, "is not an invoice")
}

func TestBuildInvoiceStandard(t *testing.T) {
	doc, err := xmldoc.BuildInvoice(invoiceInput(xmldoc.ModeStandard))
	require.NoError(t, err)

	assert.Equal(t, "RE-2026-42", doc.InvoiceInfo.InvoiceID)
	assert.Equal(t, "2026-01-14", doc.InvoiceInfo.InvoiceDate)
	assert.Equal(t, "Rechnung", doc.InvoiceInfo.InvoiceType)
	// standard mode carries no accounting detail
	assert.Nil(t, doc.AccountingInfo)
	assert.Nil(t, doc.PaymentConditions)

	// outgoing invoice: the customer is the invoice party
	require.NotNil(t, doc.InvoiceParty.Address)
	assert.Equal(t, "Muster GmbH", doc.InvoiceParty.Address.Name)
	assert.Equal(t, "DE123456789", doc.InvoiceParty.VATID)
	require.NotNil(t, doc.SupplierParty.Address)
	assert.Equal(t, "Eigene Firma GmbH", doc.SupplierParty.Address.Name)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Beratung Januar", doc.Items[0].DescriptionShort)
	assert.Equal(t, "19.00", doc.Items[0].PriceLineAmount.Tax)
	assert.Empty(t, doc.Items[0].PriceLineAmount.Gross)

	assert.Equal(t, "1190.00", doc.TotalAmount.TotalGross)
	require.Len(t, doc.TotalAmount.TaxLines, 1)
	assert.Equal(t, "19.00", doc.TotalAmount.TaxLines[0].Tax)
}

func TestBuildInvoiceExtended(t *testing.T) {
	doc, err := xmldoc.BuildInvoice(invoiceInput(xmldoc.ModeExtended))
	require.NoError(t, err)

	require.NotNil(t, doc.AccountingInfo)
	assert.Equal(t, "Erlöse", doc.AccountingInfo.BookingText)
	require.NotNil(t, doc.PaymentConditions)
	assert.Equal(t, "2026-02-13", doc.PaymentConditions.DueDate)
	assert.Equal(t, "EUR", doc.PaymentConditions.Currency)

	require.Len(t, doc.Items, 1)
	item := doc.Items[0]
	assert.Equal(t, "1190.00", item.PriceLineAmount.Gross)
	assert.Equal(t, "1000.00", item.PriceLineAmount.Net)
	assert.Equal(t, "190.00", item.PriceLineAmount.TaxAmount)
	require.NotNil(t, item.AccountingInfo)
	assert.Equal(t, "8400", item.AccountingInfo.AccountNo)
	assert.Equal(t, "3", item.AccountingInfo.BUCode)

	// debtor number lands in the booking info of the invoice party
	require.NotNil(t, doc.InvoiceParty.BookingInfo)
	assert.Equal(t, "10001", doc.InvoiceParty.BookingInfo.AccountNo)

	assert.Equal(t, "1000.00", doc.TotalAmount.NetTotal)
	require.Len(t, doc.TotalAmount.TaxLines, 1)
	assert.Equal(t, "1000.00", doc.TotalAmount.TaxLines[0].Net)
	assert.Equal(t, "1190.00", doc.TotalAmount.TaxLines[0].Gross)
	assert.Equal(t, "190.00", doc.TotalAmount.TaxLines[0].TaxAmount)
}

func TestBuildInvoiceRefundNegatesAmounts(t *testing.T) {
	in := invoiceInput(xmldoc.ModeExtended)
	in.Move.MoveType = domain.MoveOutRefund

	doc, err := xmldoc.BuildInvoice(in)
	require.NoError(t, err)
	assert.Equal(t, "Gutschrift/Rechnungskorrektur", doc.InvoiceInfo.InvoiceType)
	assert.Equal(t, "-1190.00", doc.TotalAmount.TotalGross)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "-1000.00", doc.Items[0].PriceLineAmount.Net)
}

func TestBuildInvoiceZeroTaxFallbackLine(t *testing.T) {
	in := invoiceInput(xmldoc.ModeStandard)
	in.Move.Lines = []domain.MoveLine{
		{LineID: "l-1", Name: "steuerfrei", Credit: decimal.NewFromInt(100), PriceSubtotal: decimal.NewFromInt(100), PriceTotal: decimal.NewFromInt(100)},
		{LineID: "l-2", Debit: decimal.NewFromInt(100)},
	}

	doc, err := xmldoc.BuildInvoice(in)
	require.NoError(t, err)
	require.Len(t, doc.TotalAmount.TaxLines, 1)
	assert.Equal(t, "0.00", doc.TotalAmount.TaxLines[0].Tax)
}

func TestInvoiceDocumentMarshal(t *testing.T) {
	doc, err := xmldoc.BuildInvoice(invoiceInput(xmldoc.ModeStandard))
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(data), `<invoice `)
	assert.Contains(t, string(data), `invoice_id="RE-2026-42"`)
}

func TestValidateReportsViolations(t *testing.T) {
	doc, err := xmldoc.BuildInvoice(invoiceInput(xmldoc.ModeStandard))
	require.NoError(t, err)
	assert.Empty(t, doc.Validate())

	doc.InvoiceInfo.InvoiceID = ""
	doc.InvoiceParty.Address = nil
	doc.Items = nil

	errs := doc.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "invoice_info/invoice_id", errs[0].Field)
	assert.Equal(t, "invoice_party/address", errs[1].Field)
	assert.Equal(t, "invoice_item_list", errs[2].Field)
}
