// Package ascii writes V700 flat files: a header preamble, a heading row and
// quoted data records, encoded as ISO-8859-1.
package ascii

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

// Writer accumulates rows of one flat file.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty flat-file writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteHeader writes the V700 preamble line.
func (w *Writer) WriteHeader(h datev.Header) {
	w.WriteRecord(h.Values())
}

// WriteRecord writes one row. Every field is quoted; quotes inside a field
// are doubled. The target format requires quoting of all fields, which rules
// out the minimal quoting of encoding/csv.
func (w *Writer) WriteRecord(fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.buf.WriteByte(';')
		}
		w.buf.WriteByte('"')
		w.buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.buf.WriteByte('"')
	}
	w.buf.WriteString("\r\n")
}

// Bytes encodes the accumulated rows as ISO-8859-1. Runes outside the
// character set are dropped, matching the tolerant behaviour expected by the
// consuming system.
func (w *Writer) Bytes() ([]byte, error) {
	var filtered strings.Builder
	filtered.Grow(w.buf.Len())
	for _, r := range w.buf.String() {
		if r <= 0xFF {
			filtered.WriteRune(r)
		}
	}
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(filtered.String()))
}
