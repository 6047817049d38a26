package uast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheinsight/lockmodule/pkg/uast"
)

func TestUnquote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`"a/b"`, "a/b"},
		{`'a/b'`, "a/b"},
		{`""`, ""},
		{`"it's"`, "it's"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`"a\\b"`, `a\b`},
		{`"tab\there"`, "tab\there"},
		{`"\x61\x62"`, "ab"},
		{`"\u0061"`, "a"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{"\"line\\\ncontinued\"", "linecontinued"},
		{`"\q"`, "q"},
		{`"ünïcödé"`, "ünïcödé"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, err := uast.Unquote(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnquote_Errors(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{``, `"`, `a`, `"a'`, "`a`", `"\x6"`, `"\u00"`, `"\u{110000}"`, `"\u{61"`} {
		_, err := uast.Unquote(raw)
		assert.Error(t, err, raw)
	}

	_, err := uast.Unquote(`abc`)
	require.ErrorIs(t, err, uast.ErrNotStringLiteral)

	for _, raw := range []string{`"\uD800"`, `"a\uDE00b"`, `"\uD83D\u0041"`, `"\u{D800}"`} {
		_, err = uast.Unquote(raw)
		require.ErrorIs(t, err, uast.ErrLoneSurrogate, raw)
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"a/b"`, uast.Quote("a/b", '"'))
	assert.Equal(t, `'a/b'`, uast.Quote("a/b", '\''))
	assert.Equal(t, `"a/b"`, uast.Quote("a/b", '`'))
	assert.Equal(t, `'it\'s'`, uast.Quote("it's", '\''))
	assert.Equal(t, `"it's"`, uast.Quote("it's", '"'))
	assert.Equal(t, `"a\\b\n"`, uast.Quote("a\\b\n", '"'))
	assert.Equal(t, `"\x01"`, uast.Quote("\x01", '"'))
}

func TestQuoteUnquoteRoundTrip(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "a/b", `with "quotes" and 'apostrophes'`, "tabs\tand\nnewlines", "emoji \U0001F600"} {
		for _, quote := range []byte{'"', '\''} {
			got, err := uast.Unquote(uast.Quote(value, quote))
			require.NoError(t, err)
			assert.Equal(t, value, got)
		}
	}
}
