package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

func importTestTemplate() domain.ImportTemplate {
	return domain.ImportTemplate{
		Delimiter: ";",
		Encoding:  "utf8",
		HeaderRow: 1,
		Mappings: []domain.ImportFieldMapping{
			{Heading: "Umsatz", FieldType: domain.FieldAmount, ValueKind: domain.ValueDecimal},
			{Heading: "S/H", FieldType: domain.FieldMoveSign},
			{Heading: "Konto", FieldType: domain.FieldAccount, Padding: 4},
			{Heading: "Gegenkonto", FieldType: domain.FieldCounterAccount},
			{Heading: "Datum", FieldType: domain.FieldMoveDate, ValueKind: domain.ValueDate, DateFormat: "0201"},
			{Heading: "Text", FieldType: domain.FieldMoveName},
		},
	}
}

func TestParseImportFile(t *testing.T) {
	template := importTestTemplate()
	data := []byte("Umsatz;S/H;Konto;Gegenkonto;Datum;Text\n" +
		"1.190,00;S;4400;1200;1501;Miete Januar\n" +
		";;;;;\n" +
		"50,00;H;8400;1200;2001;Erlös\n")

	rows, logs, err := parseImportFile(template, data)
	require.NoError(t, err)
	assert.Empty(t, logs)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].line)
	assert.Equal(t, "1.190,00", rows[0].value(domain.FieldAmount))
	assert.Equal(t, "S", rows[0].value(domain.FieldMoveSign))
	assert.Equal(t, "Miete Januar", rows[0].value(domain.FieldMoveName))
	assert.Equal(t, 4, rows[1].line)
	assert.Equal(t, "Erlös", rows[1].value(domain.FieldMoveName))
}

func TestParseImportFileRemovesPreamble(t *testing.T) {
	template := importTestTemplate()
	template.RemoveFileHeader = true
	data := []byte("\"EXTF\";\"700\";\"21\";\"Buchungsstapel\"\n" +
		"Umsatz;S/H;Konto;Gegenkonto;Datum;Text\n" +
		"10,00;S;4400;1200;0102;x\n")

	rows, _, err := parseImportFile(template, data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// line numbers count the skipped preamble
	assert.Equal(t, 3, rows[0].line)
}

func TestParseImportFileUnknownColumnsWarn(t *testing.T) {
	template := importTestTemplate()
	data := []byte("Umsatz;S/H;Konto;Gegenkonto;Datum;Text;Extra\n" +
		"10,00;S;4400;1200;0102;x;ignored\n")

	rows, logs, err := parseImportFile(template, data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0].values, domain.ImportFieldType(""))
	require.Len(t, logs, 1)
	assert.Equal(t, domain.LogWarning, logs[0].Severity)
	assert.Contains(t, logs[0].Message, "Extra")
}

func TestParseImportFileNoMatchingHeading(t *testing.T) {
	template := importTestTemplate()
	data := []byte("A;B;C\n1;2;3\n")

	_, _, err := parseImportFile(template, data)
	assert.ErrorContains(t, err, "no heading of the file matches the template")
}

func TestParseImportFileLatin1(t *testing.T) {
	template := importTestTemplate()
	template.Encoding = "latin1"
	data := []byte("Umsatz;S/H;Konto;Gegenkonto;Datum;Text\n" +
		"10,00;S;4400;1200;0102;B\xfcro\n")

	rows, _, err := parseImportFile(template, data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Büro", rows[0].value(domain.FieldMoveName))
}

func TestParseImportFileUnsupportedEncoding(t *testing.T) {
	template := importTestTemplate()
	template.Encoding = "utf16"
	_, _, err := parseImportFile(template, []byte("x"))
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestValidateRow(t *testing.T) {
	template := importTestTemplate()
	row := importRow{values: map[domain.ImportFieldType]string{
		domain.FieldAmount:         "10,00",
		domain.FieldMoveSign:       "S",
		domain.FieldAccount:        "4400",
		domain.FieldCounterAccount: "1200",
		domain.FieldMoveDate:       "1501",
	}}
	assert.Empty(t, validateRow(template, row))

	delete(row.values, domain.FieldCounterAccount)
	problems := validateRow(template, row)
	require.Len(t, problems, 1)
	assert.Equal(t, "required value counteraccount missing", problems[0])
}

func TestValidateRowTaxKeyColumnMayBeEmpty(t *testing.T) {
	template := importTestTemplate()
	template.Mappings = append(template.Mappings, domain.ImportFieldMapping{
		Heading: "BU", FieldType: domain.FieldTaxKey, Required: true,
	})
	row := importRow{values: map[domain.ImportFieldType]string{
		domain.FieldAmount:         "10,00",
		domain.FieldMoveSign:       "S",
		domain.FieldAccount:        "4400",
		domain.FieldCounterAccount: "1200",
		domain.FieldMoveDate:       "1501",
		domain.FieldTaxKey:         "",
	}}
	assert.Empty(t, validateRow(template, row))

	delete(row.values, domain.FieldTaxKey)
	problems := validateRow(template, row)
	require.Len(t, problems, 1)
	assert.Equal(t, "tax key column missing", problems[0])
}

func TestParseImportDecimal(t *testing.T) {
	d, err := parseImportDecimal("1.234,56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.String())

	d, err = parseImportDecimal("-50,00")
	require.NoError(t, err)
	assert.Equal(t, "-50", d.String())

	_, err = parseImportDecimal("abc")
	assert.Error(t, err)
}

func TestParseImportDate(t *testing.T) {
	periodEnd := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	// yearless layouts take the year of the period end
	d, err := parseImportDate("1501", "0201", periodEnd)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseImportDate("15.01.2026", "", periodEnd)
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	_, err = parseImportDate("31.02.2026", "02.01.2006", periodEnd)
	assert.Error(t, err)
}

func TestZfill(t *testing.T) {
	assert.Equal(t, "0042", zfill("42", 4))
	assert.Equal(t, "12345", zfill("12345", 4))
	assert.Equal(t, "", zfill("", 0))
}
