package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// requiredImportTypes are the field types every booking row must carry, on
// top of the mappings the template itself marks required.
var requiredImportTypes = []domain.ImportFieldType{
	domain.FieldAmount,
	domain.FieldMoveSign,
	domain.FieldAccount,
	domain.FieldCounterAccount,
	domain.FieldMoveDate,
}

// importRow is one parsed booking row keyed by field type. Skip columns and
// unmapped columns are already gone.
type importRow struct {
	line   int // 1-based line in the uploaded file
	values map[domain.ImportFieldType]string
}

func (r importRow) value(t domain.ImportFieldType) string {
	return strings.TrimSpace(r.values[t])
}

// parseImportFile decodes and tokenizes an uploaded booking file according to
// the template. It returns the data rows and protocol entries for structural
// findings; parse-stopping problems come back as an error.
func parseImportFile(template domain.ImportTemplate, data []byte) ([]importRow, []domain.ImportLog, error) {
	var logs []domain.ImportLog

	text, err := decodeImportFile(template.Encoding, data)
	if err != nil {
		return nil, nil, err
	}

	skipped := 0
	if template.RemoveFileHeader {
		// The V700 preamble is not a data row and confuses the reader
		// with its own column count.
		if idx := strings.IndexAny(text, "\n"); idx >= 0 && strings.Contains(text[:idx], "EXTF") {
			text = text[idx+1:]
			skipped = 1
		}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiterRune(template.Delimiter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: unreadable file: %s", apperrors.ErrValidation, err)
	}

	headerRow := template.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	if len(records) < headerRow {
		return nil, nil, fmt.Errorf("%w: file has no heading row", apperrors.ErrValidation)
	}

	headings := trimQuotes(records[headerRow-1], template.QuoteChar)
	columns := make([]domain.ImportFieldMapping, len(headings))
	mapped := false
	var unknown []string
	for i, h := range headings {
		mapping, ok := template.MappingFor(h)
		if !ok {
			columns[i] = domain.ImportFieldMapping{Skip: true}
			unknown = append(unknown, h)
			continue
		}
		columns[i] = mapping
		if !mapping.Skip {
			mapped = true
		}
	}
	if !mapped {
		return nil, nil, fmt.Errorf("%w: no heading of the file matches the template", apperrors.ErrValidation)
	}
	if len(unknown) > 0 {
		logs = append(logs, domain.ImportLog{
			Line:     headerRow + skipped,
			Message:  fmt.Sprintf("columns without mapping ignored: %s", strings.Join(unknown, ", ")),
			Severity: domain.LogWarning,
		})
	}

	var rows []importRow
	for i := headerRow; i < len(records); i++ {
		record := trimQuotes(records[i], template.QuoteChar)
		if emptyRecord(record) {
			continue
		}
		row := importRow{
			line:   i + 1 + skipped,
			values: make(map[domain.ImportFieldType]string),
		}
		for col, raw := range record {
			if col >= len(columns) || columns[col].Skip {
				continue
			}
			row.values[columns[col].FieldType] = raw
		}
		rows = append(rows, row)
	}
	return rows, logs, nil
}

// validateRow checks that a row carries every required field. The tax key is
// special: the column must be mapped, but an empty value means "no key".
func validateRow(template domain.ImportTemplate, row importRow) []string {
	required := append([]domain.ImportFieldType(nil), requiredImportTypes...)
	for _, m := range template.Mappings {
		if m.Required && !m.Skip {
			required = append(required, m.FieldType)
		}
	}
	var problems []string
	seen := map[domain.ImportFieldType]bool{}
	for _, t := range required {
		if seen[t] {
			continue
		}
		seen[t] = true
		if t == domain.FieldTaxKey {
			if _, ok := row.values[t]; !ok {
				problems = append(problems, "tax key column missing")
			}
			continue
		}
		if row.value(t) == "" {
			problems = append(problems, fmt.Sprintf("required value %s missing", t))
		}
	}
	return problems
}

// parseImportDecimal reads a German-formatted amount: thousands dots,
// decimal comma.
func parseImportDecimal(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a decimal value: %q", raw)
	}
	return d, nil
}

// parseImportDate reads a date column. Layouts without a year take the year
// of the run's period end, which is how yearless voucher dates are anchored
// to a fiscal year.
func parseImportDate(raw string, layout string, periodEnd time.Time) (time.Time, error) {
	if layout == "" {
		layout = "02.01.2006"
	}
	parsed, err := time.Parse(layout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("not a date in layout %s: %q", layout, raw)
	}
	if !strings.Contains(layout, "2006") {
		year := time.Now().Year()
		if !periodEnd.IsZero() {
			year = periodEnd.Year()
		}
		parsed = time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	}
	return parsed, nil
}

// zfill left-pads a numeric string with zeros to the given width.
func zfill(s string, width int) string {
	if width <= len(s) {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func decodeImportFile(encoding string, data []byte) (string, error) {
	switch encoding {
	case "", "latin1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: decoding latin1: %s", apperrors.ErrValidation, err)
		}
		return string(decoded), nil
	case "utf8":
		return string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})), nil
	default:
		return "", fmt.Errorf("%w: unsupported encoding %s", apperrors.ErrConfiguration, encoding)
	}
}

func delimiterRune(delimiter string) rune {
	if delimiter == "" {
		return ';'
	}
	return []rune(delimiter)[0]
}

// trimQuotes strips a non-standard quote character the csv reader leaves in
// place. Double quotes are already handled by the reader itself.
func trimQuotes(record []string, quote string) []string {
	if quote == "" || quote == `"` {
		return record
	}
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.Trim(f, quote)
	}
	return out
}

func emptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
