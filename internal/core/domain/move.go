package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveType classifies a booking entry.
type MoveType string

const (
	MoveEntry        MoveType = "entry"
	MoveOutInvoice   MoveType = "out_invoice"
	MoveOutRefund    MoveType = "out_refund"
	MoveInInvoice    MoveType = "in_invoice"
	MoveInRefund     MoveType = "in_refund"
	MoveExpenseSheet MoveType = "expense_sheet" // employee expense settlements
)

// IsInvoice reports whether the move is a customer or supplier invoice or
// refund.
func (t MoveType) IsInvoice() bool {
	switch t {
	case MoveOutInvoice, MoveOutRefund, MoveInInvoice, MoveInRefund:
		return true
	}
	return false
}

// MoveState is the posting state of a move.
type MoveState string

const (
	MoveDraft  MoveState = "draft"
	MovePosted MoveState = "posted"
)

// PaymentState tracks settlement of open-item moves.
type PaymentState string

const (
	PaymentNotPaid   PaymentState = "not_paid"
	PaymentInPayment PaymentState = "in_payment"
	PaymentPartial   PaymentState = "partial"
	PaymentPaid      PaymentState = "paid"
)

// MoveLine is a single debit or credit booking within a move.
type MoveLine struct {
	LineID    string `json:"lineID"` // Primary Key (UUID)
	MoveID    string `json:"moveID"`
	AccountID string `json:"accountID"`
	PartnerID string `json:"partnerID"` // optional
	Name      string `json:"name"`      // line label

	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	AmountCurrency decimal.Decimal `json:"amountCurrency"` // signed amount in line currency
	CurrencyCode   string          `json:"currencyCode"`   // empty means company currency

	// Invoice document amounts. Zero on non-invoice lines.
	Quantity      decimal.Decimal `json:"quantity"`
	PriceSubtotal decimal.Decimal `json:"priceSubtotal"` // net, document currency
	PriceTotal    decimal.Decimal `json:"priceTotal"`    // gross, document currency

	// TaxIDs are the taxes applied to this (base) line.
	TaxIDs []string `json:"taxIDs"`

	// TaxLineTaxID is set on generated tax lines and names the originating
	// tax. Base lines leave it empty.
	TaxLineTaxID string `json:"taxLineTaxID"`

	CostCenter1ID string `json:"costCenter1ID"`
	CostCenter2ID string `json:"costCenter2ID"`

	Reconciled bool `json:"reconciled"`
}

// Balance returns debit minus credit.
func (l MoveLine) Balance() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// IsTaxLine reports whether the line was generated by tax computation.
func (l MoveLine) IsTaxLine() bool { return l.TaxLineTaxID != "" }

// Move represents a balanced booking entry (journal entry, invoice or
// expense settlement).
type Move struct {
	MoveID    string    `json:"moveID"` // Primary Key (UUID)
	CompanyID string    `json:"companyID"`
	JournalID string    `json:"journalID"`
	Name      string    `json:"name"` // posted number, e.g. INV/2026/0042
	Ref       string    `json:"ref"`
	Date      time.Time `json:"date"`
	MoveType  MoveType  `json:"moveType"`
	State     MoveState `json:"state"`

	PartnerID     string          `json:"partnerID"`
	CurrencyCode  string          `json:"currencyCode"`
	CurrencyRate  decimal.Decimal `json:"currencyRate"` // company per foreign unit, zero when company currency
	AmountTotal   decimal.Decimal `json:"amountTotal"`
	AmountUntaxed decimal.Decimal `json:"amountUntaxed"`

	InvoiceDate      time.Time    `json:"invoiceDate"`
	InvoiceDateDue   time.Time    `json:"invoiceDateDue"`
	DeliveryDate     time.Time    `json:"deliveryDate"` // service date, optional
	PaymentReference string       `json:"paymentReference"`
	PaymentState     PaymentState `json:"paymentState"`
	OrderNumber      string       `json:"orderNumber"`
	SEPAMandateRef   string       `json:"sepaMandateRef"`
	Narration        string       `json:"narration"` // free-text note carried into document exports

	// CounterAccountID forces the contra account for exports when set.
	CounterAccountID string `json:"counterAccountID"`

	// DocumentGUID links the move to its scanned voucher for document
	// exports and the Beleglink column.
	DocumentGUID string `json:"documentGUID"`

	// ExportID links the move to the export batch that carried it out.
	ExportID string `json:"exportID"`

	// ImportRunID and ImportGUID are set on moves created by file imports.
	ImportRunID string `json:"importRunID"`
	ImportGUID  string `json:"importGUID"`

	Lines []MoveLine `json:"lines"`
	AuditFields
}

// InvoiceLines returns the product lines of an invoice, skipping tax lines,
// open-item lines and zero-amount lines.
func (m Move) InvoiceLines() []MoveLine {
	out := make([]MoveLine, 0, len(m.Lines))
	for _, l := range m.Lines {
		if l.IsTaxLine() || l.PriceSubtotal.IsZero() {
			continue
		}
		out = append(out, l)
	}
	return out
}

// LinesExcludingTax returns the move lines that are not generated tax lines.
func (m Move) LinesExcludingTax() []MoveLine {
	out := make([]MoveLine, 0, len(m.Lines))
	for _, l := range m.Lines {
		if !l.IsTaxLine() {
			out = append(out, l)
		}
	}
	return out
}
