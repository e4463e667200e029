package datev_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func newTransformer(t *testing.T, lines ...domain.ExportTemplateLine) *datev.Transformer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr, err := datev.NewTransformer(lines, logger)
	require.NoError(t, err)
	return tr
}

func TestTransformerRegexWithoutGroups(t *testing.T) {
	tr := newTransformer(t, domain.ExportTemplateLine{
		Heading:    datev.HeadBookingText,
		Expression: `\s*\(storniert\)`,
		Active:     true,
	})
	got := tr.Apply(datev.HeadBookingText, "Miete Januar (storniert)", nil)
	assert.Equal(t, "Miete Januar", got)
}

func TestTransformerRegexWithGroups(t *testing.T) {
	tr := newTransformer(t, domain.ExportTemplateLine{
		Heading:    datev.HeadVoucherField1,
		Expression: `^INV/(\d{4})/(\d+)$`,
		Active:     true,
	})
	assert.Equal(t, "20260042", tr.Apply(datev.HeadVoucherField1, "INV/2026/0042", nil))
	// non-matching values pass through unchanged
	assert.Equal(t, "RE-17", tr.Apply(datev.HeadVoucherField1, "RE-17", nil))
}

func TestTransformerForceValueRunsBeforeRegex(t *testing.T) {
	tr := newTransformer(t, domain.ExportTemplateLine{
		Heading:    datev.HeadBookingText,
		Expression: `X`,
		ForceValue: `value = value + 'X' if value`,
		Active:     true,
	})
	got := tr.Apply(datev.HeadBookingText, "Text", map[string]string{})
	assert.Equal(t, "Text", got)
}

func TestTransformerForceValueContext(t *testing.T) {
	tr := newTransformer(t, domain.ExportTemplateLine{
		Heading:    datev.HeadVoucherField2,
		ForceValue: `value = move.ref if move.ref`,
		Active:     true,
	})
	got := tr.Apply(datev.HeadVoucherField2, "fallback", map[string]string{"move.ref": "RE-9"})
	assert.Equal(t, "RE-9", got)
}

func TestTransformerInactiveLineIgnored(t *testing.T) {
	tr := newTransformer(t, domain.ExportTemplateLine{
		Heading:    datev.HeadBookingText,
		Expression: `.*`,
		Active:     false,
	})
	assert.Equal(t, "unchanged", tr.Apply(datev.HeadBookingText, "unchanged", nil))
}

func TestTransformerApplyAll(t *testing.T) {
	tr := newTransformer(t,
		domain.ExportTemplateLine{Heading: datev.HeadAccount, Expression: `^0+`, Active: true},
		domain.ExportTemplateLine{Heading: datev.HeadTaxKey, ForceValue: `value = '9'`, Active: true},
	)
	order := []string{datev.HeadAccount, datev.HeadCounterAccount, datev.HeadTaxKey}
	record := []string{"0004400", "1200", "3"}
	tr.ApplyAll(order, record, map[string]string{})
	assert.Equal(t, []string{"4400", "1200", "9"}, record)
}

func TestNewTransformerRejectsBrokenLines(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := datev.NewTransformer([]domain.ExportTemplateLine{
		{Heading: datev.HeadAccount, Expression: `([`, Active: true},
	}, logger)
	assert.Error(t, err)

	_, err = datev.NewTransformer([]domain.ExportTemplateLine{
		{Heading: datev.HeadAccount, ForceValue: `nonsense`, Active: true},
	}, logger)
	assert.Error(t, err)
}

func TestValidateTemplateLine(t *testing.T) {
	assert.NoError(t, datev.ValidateTemplateLine(domain.ExportTemplateLine{
		Expression: `^\d+$`,
		ForceValue: `value = upper(value)`,
	}))
	assert.Error(t, datev.ValidateTemplateLine(domain.ExportTemplateLine{Expression: `([`}))
	assert.Error(t, datev.ValidateTemplateLine(domain.ExportTemplateLine{ForceValue: `= broken`}))
}
