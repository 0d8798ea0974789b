package rangeparse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	p := Default()
	cases := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"20 a 25", 22.5, true},
		{"20 a 25 años", 22.5, true},
		{"De 1 a 2 horas", 1.5, true},
		{"30min a 1 hora", 15.5, true},
		{"8,5 a 9,5", 9, true},
		{"20-25", 22.5, true},
		{"1 to 3", 2, true},
		{"menos de 10", 5, true},
		{"Menos de 30 minutos", 15, true},
		{"menos de una hora", 0, false},
		{"más de 20", DefaultSentinel, true},
		{"Mas de 2 horas", DefaultSentinel, true},
		{"mayor de 25", DefaultSentinel, true},
		{"mayores de 25", DefaultSentinel, true},
		{"Más de 25 años", DefaultSentinel, true},
		{"18", 18, true},
		{" 9.2 ", 9.2, true},
		{"9,2", 9.2, true},
		{"20 años", 20, true},
		{"no sé", 0, false},
		{"", 0, false},
		{"nan", 0, false},
		{"inf", 0, false},
		{"a veces", 0, false},
		{"ninguna", 0, false},
		{"1/2", 0, false},
	}
	for _, c := range cases {
		got := p.ParseString(c.in)
		assert.Equal(t, c.valid, got.Valid, "valid for %q", c.in)
		if c.valid {
			assert.InDelta(t, c.want, got.Value, 1e-9, "value for %q", c.in)
		}
	}
}

func TestRangeIsMeanOfEnds(t *testing.T) {
	p := Default()
	for m := 0; m <= 40; m += 3 {
		for n := m; n <= 60; n += 7 {
			in := fmt.Sprintf("%d a %d", m, n)
			got := p.ParseString(in)
			require.True(t, got.Valid, in)
			assert.InDelta(t, float64(m+n)/2, got.Value, 1e-9, in)
		}
	}
	got := p.ParseString("-4 a 2")
	require.True(t, got.Valid)
	assert.InDelta(t, -1.0, got.Value, 1e-9)
}

func TestRangeWithOneLiteralIsMissing(t *testing.T) {
	// The joiner needs a literal on each side; otherwise the text falls through
	// to the direct parse, which fails.
	assert.False(t, Default().ParseString("a 5").Valid)
	assert.False(t, Default().ParseString("1 a muchas").Valid)
}

func TestZeroFloorNone(t *testing.T) {
	z := ZeroFloor()
	assert.Equal(t, Of(0), z.ParseString("Ninguna"))
	assert.Equal(t, Of(0), z.ParseString("ninguna."))
	assert.Equal(t, Of(1.5), z.ParseString("1 a 2"))
	assert.False(t, Default().ParseString("Ninguna").Valid)
}

func TestParseValuePassThrough(t *testing.T) {
	p := Default()
	assert.Equal(t, Of(22.5), p.Parse(survey.Number(22.5)))
	assert.Equal(t, Of(-3), p.Parse(survey.Number(-3)))
	assert.Equal(t, Missing, p.Parse(survey.Missing()))
	assert.Equal(t, Of(5), p.Parse(survey.Text("menos de 10")))

	// parse(parse(x)) == parse(x)
	for _, in := range []string{"20 a 25", "más de 20", "menos de 10", "7"} {
		once := p.ParseString(in)
		twice := p.Parse(once.SurveyValue())
		assert.Equal(t, once, twice, in)
	}
}

func TestSentinelOverride(t *testing.T) {
	p := Default().WithSentinel(6)
	assert.Equal(t, Of(6), p.ParseString("más de 5 horas"))
	assert.Equal(t, DefaultSentinel, Default().Sentinel, "copies do not leak")
}

func TestNumericLiterals(t *testing.T) {
	assert.Equal(t, []float64{20, 25}, NumericLiterals("entre 20 y 25 años"))
	assert.Equal(t, []float64{8.5, 30}, NumericLiterals("8.5hrs, 30min"))
	assert.Equal(t, []float64{1.5}, NumericLiterals("1,5"))
	assert.Empty(t, NumericLiterals("no sé"))
}

func TestTokenize(t *testing.T) {
	toks := Tokenize("30min a 1.5 h.")
	require.Len(t, toks, 5)
	assert.Equal(t, Token{Kind: TokenNumber, Text: "30"}, toks[0])
	assert.Equal(t, Token{Kind: TokenWord, Text: "min"}, toks[1])
	assert.Equal(t, Token{Kind: TokenWord, Text: "a"}, toks[2])
	assert.Equal(t, Token{Kind: TokenNumber, Text: "1.5"}, toks[3])
	assert.Equal(t, Token{Kind: TokenWord, Text: "h"}, toks[4])
}

func TestLookup(t *testing.T) {
	p, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, survey.ParserRange, p.Name)

	p, err = Lookup(survey.ParserZeroFloor)
	require.NoError(t, err)
	assert.True(t, p.NoneAsZero)

	_, err = Lookup("fancy")
	var uv *UnknownVariantError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "fancy", uv.Name)

	s := 40.0
	p, err = ForSpec(survey.FieldSpec{Field: "f", Role: survey.RoleRangeNumeric, Sentinel: &s})
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.Sentinel)
	assert.Equal(t, []string{survey.ParserRange, survey.ParserZeroFloor}, Variants())
}
