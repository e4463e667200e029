package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

func TestMoveTypeIsInvoice(t *testing.T) {
	assert.True(t, domain.MoveOutInvoice.IsInvoice())
	assert.True(t, domain.MoveInRefund.IsInvoice())
	assert.False(t, domain.MoveEntry.IsInvoice())
	assert.False(t, domain.MoveExpenseSheet.IsInvoice())
}

func TestMoveLineBalance(t *testing.T) {
	l := domain.MoveLine{
		Debit:  decimal.NewFromInt(100),
		Credit: decimal.NewFromInt(30),
	}
	assert.Equal(t, "70", l.Balance().String())
}

func TestMoveLineIsTaxLine(t *testing.T) {
	assert.False(t, domain.MoveLine{}.IsTaxLine())
	assert.True(t, domain.MoveLine{TaxLineTaxID: "tax-1"}.IsTaxLine())
}

func TestMoveInvoiceLines(t *testing.T) {
	m := domain.Move{Lines: []domain.MoveLine{
		{LineID: "product", PriceSubtotal: decimal.NewFromInt(100)},
		{LineID: "tax", TaxLineTaxID: "tax-1", PriceSubtotal: decimal.NewFromInt(19)},
		{LineID: "receivable"},
	}}
	lines := m.InvoiceLines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "product", lines[0].LineID)
}

func TestJournalGroupLinesEffective(t *testing.T) {
	on := true
	off := false
	cfg := domain.ExportConfig{GroupLines: true}

	assert.True(t, domain.Journal{}.GroupLinesEffective(cfg))
	assert.False(t, domain.Journal{GroupLines: &off}.GroupLinesEffective(cfg))
	assert.True(t, domain.Journal{GroupLines: &on}.GroupLinesEffective(domain.ExportConfig{}))
}

func TestTaxComputeAllExcluded(t *testing.T) {
	tax := domain.Tax{Amount: decimal.NewFromInt(19)}
	res := tax.ComputeAll(decimal.NewFromInt(100))

	assert.Equal(t, "100", res.TotalExcluded.String())
	assert.Equal(t, "19", res.TaxAmount.String())
	assert.Equal(t, "119", res.TotalIncluded.String())
}

func TestTaxComputeAllPriceIncluded(t *testing.T) {
	tax := domain.Tax{Amount: decimal.NewFromInt(19), PriceInclude: true}
	res := tax.ComputeAll(decimal.NewFromInt(119))

	assert.Equal(t, "100", res.TotalExcluded.String())
	assert.Equal(t, "19", res.TaxAmount.String())
	assert.Equal(t, "119", res.TotalIncluded.String())
}

func TestExportConfigFiscalYearLastMonthOrDefault(t *testing.T) {
	assert.Equal(t, 12, domain.ExportConfig{}.FiscalYearLastMonthOrDefault())
	assert.Equal(t, 6, domain.ExportConfig{FiscalYearLastMonth: 6}.FiscalYearLastMonthOrDefault())
	assert.Equal(t, 12, domain.ExportConfig{FiscalYearLastMonth: 13}.FiscalYearLastMonthOrDefault())
}

func TestExportTemplateFieldOrder(t *testing.T) {
	tpl := domain.ExportTemplate{Lines: []domain.ExportTemplateLine{
		{Heading: "B", Position: 2, Active: true},
		{Heading: "C", Position: 3, Active: false},
		{Heading: "A", Position: 1, Active: true},
	}}
	assert.Equal(t, []string{"A", "B"}, tpl.FieldOrder())
}
