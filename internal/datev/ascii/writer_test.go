package ascii_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/datev/ascii"
)

func TestWriterQuotesEveryField(t *testing.T) {
	w := ascii.NewWriter()
	w.WriteRecord([]string{"100,00", "S", "", "Miete"})

	out, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "\"100,00\";\"S\";\"\";\"Miete\"\r\n", string(out))
}

func TestWriterDoublesInnerQuotes(t *testing.T) {
	w := ascii.NewWriter()
	w.WriteRecord([]string{`BEDI "guid-1"`})

	out, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "\"BEDI \"\"guid-1\"\"\"\r\n", string(out))
}

func TestWriterEncodesLatin1(t *testing.T) {
	w := ascii.NewWriter()
	w.WriteRecord([]string{"Bürobedarf", "Maß"})

	out, err := w.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), "\xfc") // ü
	assert.Contains(t, string(out), "\xdf") // ß
	assert.NotContains(t, string(out), "ü")
}

func TestWriterDropsRunesOutsideCharset(t *testing.T) {
	w := ascii.NewWriter()
	w.WriteRecord([]string{"Caffè ☕"})

	out, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "\"Caff\xe8 \"\r\n", string(out))
}

func TestWriterMultipleRecords(t *testing.T) {
	w := ascii.NewWriter()
	w.WriteRecord([]string{"a"})
	w.WriteRecord([]string{"b"})

	out, err := w.Bytes()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n")
	assert.Equal(t, []string{`"a"`, `"b"`}, lines)
}
