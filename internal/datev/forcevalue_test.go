package datev_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

func evalForceValue(t *testing.T, src string, ctx map[string]string) string {
	t.Helper()
	prog, err := datev.ParseForceValue(src)
	require.NoError(t, err)
	return prog.Eval(ctx)
}

func TestForceValueEval(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ctx  map[string]string
		want string
	}{
		{
			name: "literal",
			src:  `value = 'FIXED'`,
			ctx:  map[string]string{"value": "anything"},
			want: "FIXED",
		},
		{
			name: "context reference",
			src:  `value = move.ref`,
			ctx:  map[string]string{"value": "x", "move.ref": "RE-2026-17"},
			want: "RE-2026-17",
		},
		{
			name: "concatenation",
			src:  `value = 'P-' + partner.code + '-' + value`,
			ctx:  map[string]string{"value": "42", "partner.code": "10001"},
			want: "P-10001-42",
		},
		{
			name: "upper and trim",
			src:  `value = upper(trim(value))`,
			ctx:  map[string]string{"value": "  abc  "},
			want: "ABC",
		},
		{
			name: "condition equals",
			src:  `value = 'EU' if move.type == 'out_invoice'`,
			ctx:  map[string]string{"value": "keep", "move.type": "out_invoice"},
			want: "EU",
		},
		{
			name: "condition not satisfied keeps value",
			src:  `value = 'EU' if move.type == 'out_invoice'`,
			ctx:  map[string]string{"value": "keep", "move.type": "entry"},
			want: "keep",
		},
		{
			name: "truthiness condition",
			src:  `value = move.ref if move.ref`,
			ctx:  map[string]string{"value": "fallback", "move.ref": ""},
			want: "fallback",
		},
		{
			name: "statements run in order",
			src:  "value = 'a'; value = value + 'b'",
			ctx:  map[string]string{"value": ""},
			want: "ab",
		},
		{
			name: "newline separates statements",
			src:  "value = 'x'\nvalue = 'y' if value != 'x'",
			ctx:  map[string]string{},
			want: "x",
		},
		{
			name: "double quoted literal",
			src:  `value = "so;ho"`,
			ctx:  map[string]string{},
			want: "so;ho",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evalForceValue(t, tt.src, tt.ctx))
		})
	}
}

func TestParseForceValueErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty program", "  \n  "},
		{"assignment target", `ref = 'x'`},
		{"missing equals", `value 'x'`},
		{"unterminated literal", `value = 'abc`},
		{"unexpected character", `value = 1 % 2`},
		{"dangling operator", `value = 'a' +`},
		{"unbalanced call", `value = upper('a'`},
		{"trailing garbage", `value = 'a' 'b'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := datev.ParseForceValue(tt.src)
			assert.Error(t, err)
		})
	}
}
