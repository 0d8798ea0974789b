package rangeparse

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// TokenKind distinguishes numeric literals from words.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenWord
)

// Token is one piece of a free-text answer.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize splits text into numeric literals and words, in reading order.
// Whitespace and punctuation separate tokens and are dropped. A numeric
// literal is a run of digits with at most one inner '.' or ',' followed by
// more digits, so "30min" yields "30" and "min", and "8,5" stays one literal.
func Tokenize(text string) []Token {
	r := []rune(text)
	var out []Token
	for i := 0; i < len(r); {
		switch {
		case unicode.IsDigit(r[i]) || isSign(r, i):
			j := i + 1
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			if j+1 < len(r) && (r[j] == '.' || r[j] == ',') && unicode.IsDigit(r[j+1]) {
				j++
				for j < len(r) && unicode.IsDigit(r[j]) {
					j++
				}
			}
			out = append(out, Token{Kind: TokenNumber, Text: string(r[i:j])})
			i = j
		case unicode.IsLetter(r[i]):
			j := i
			for j < len(r) && unicode.IsLetter(r[j]) {
				j++
			}
			out = append(out, Token{Kind: TokenWord, Text: string(r[i:j])})
			i = j
		default:
			i++
		}
	}
	return out
}

// isSign reports a '-' that starts a negative literal rather than joining two numbers.
func isSign(r []rune, i int) bool {
	if r[i] != '-' || i+1 >= len(r) || !unicode.IsDigit(r[i+1]) {
		return false
	}
	return i == 0 || unicode.IsSpace(r[i-1])
}

// NumericLiterals returns the numeric literals of text in reading order.
func NumericLiterals(text string) []float64 {
	return literals(Tokenize(text))
}

func literals(toks []Token) []float64 {
	var out []float64
	for _, t := range toks {
		if t.Kind != TokenNumber {
			continue
		}
		if f, ok := parseLiteral(t.Text); ok {
			out = append(out, f)
		}
	}
	return out
}

// parseLiteral reads a literal with either '.' or ',' as the decimal mark.
func parseLiteral(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
