package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		mode   Mode
		want   string
	}{
		{"exact phrase", []string{"بسم", "الله"}, ModeExact, `"بسم الله"`},
		{"exact escapes quotes", []string{`a"b`}, ModeExact, `"a""b"`},
		{"word dedups", []string{"بسم", "الله", "بسم"}, ModeWord, `"بسم" OR "الله"`},
		{"root family", []string{"كتب"}, ModeRoot, `"كتب"* OR "مكتب"* OR "يكتب"* OR "تكتب"* OR "نكتب"* OR "كاتب"*`},
		{"blank tokens", []string{" ", ""}, ModeWord, ""},
		{"unknown mode is exact", []string{"بسم", "الله"}, Mode("other"), `"بسم الله"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(tt.tokens, tt.mode))
		})
	}
}

func TestBuild_NeverEmptyForTokens(t *testing.T) {
	for _, mode := range Modes {
		assert.NotEmpty(t, Build([]string{"و"}, mode), mode)
	}
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode(" WORD ")
	assert.True(t, ok)
	assert.Equal(t, ModeWord, m)

	_, ok = ParseMode("fuzzy")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []Unit
	}{
		{`"بسم الله"`, []Unit{{Text: "بسم الله"}}},
		{`"a""b"* OR "c"`, []Unit{{Text: `a"b`, Prefix: true}, {Text: "c"}}},
		{`foo* bar`, []Unit{{Text: "foo", Prefix: true}, {Text: "bar"}}},
		{`"" OR "x"`, []Unit{{Text: "x"}}},
		{``, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse(`"unterminated`)
	assert.Error(t, err)
}

func TestParse_RoundTrip(t *testing.T) {
	// Given: an engine query built for each mode
	tokens := []string{"قال", "الكتاب"}
	for _, mode := range Modes {
		// When: parsing it back
		units, err := Parse(Build(tokens, mode))

		// Then: every unit is non-empty and prefix units appear only in root mode
		require.NoError(t, err)
		require.NotEmpty(t, units)
		for _, u := range units {
			assert.NotEmpty(t, u.Text)
			assert.Equal(t, mode == ModeRoot, u.Prefix)
		}
	}
	units, _ := Parse(Build(tokens, ModeExact))
	require.Len(t, units, 1)
	assert.True(t, units[0].Phrase())
}
