package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text helpers shared by the normalizers and the report renderer.

// Casers and transform chains keep internal state, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func lower(s string) string { return cases.Lower(language.Spanish).String(s) }
func upper(s string) string { return cases.Upper(language.Spanish).String(s) }

// Fold lowercases, strips diacritics and collapses whitespace so that
// "  Villa de ÁLVAREZ " and "villa de alvarez" compare equal.
func Fold(s string) string {
	s = lower(s)
	if out, _, err := transform.String(stripMarks(), s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// Capitalize upper-cases the first letter and lower-cases the rest, after
// trimming. It keeps accents intact.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	return upper(string(r[0])) + lower(string(r[1:]))
}

// TruncateRunes cuts text to at most limit runes, marking the cut with "...".
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
