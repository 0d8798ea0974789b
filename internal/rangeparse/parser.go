// Package rangeparse turns free-text numeric answers ("20 a 25", "menos de 10",
// "más de 20", "ninguna") into a single representative number.
//
// Parsing is pure and total: every input yields either a value or Missing.
package rangeparse

import (
	"math"
	"regexp"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/KaramelBytes/surveylens/internal/utils"
)

// DefaultSentinel stands in for "more than the last bin" answers.
const DefaultSentinel = 23.0

// Scalar is a parsed number or missing.
type Scalar struct {
	Value float64
	Valid bool
}

// Missing is the invalid Scalar.
var Missing = Scalar{}

// Of returns a valid Scalar.
func Of(v float64) Scalar { return Scalar{Value: v, Valid: true} }

// SurveyValue converts the scalar back into a survey value for overlays.
func (s Scalar) SurveyValue() survey.Value {
	if !s.Valid {
		return survey.Missing()
	}
	return survey.Number(s.Value)
}

// Parser holds the marker vocabulary and policies of one parser variant.
// Upper and lower markers match at the start of a word in folded (lowercase,
// accent-free) text; none words and joiners must match whole words.
type Parser struct {
	Name string
	// Sentinel is returned for upper-open answers such as "más de 20".
	Sentinel float64
	// NoneAsZero maps answers like "ninguna" to 0.
	NoneAsZero bool

	UpperMarkers []string
	LowerMarkers []string
	Joiners      []string
	NoneWords    []string
	// UnitWords are dropped before the direct numeric parse, so "20 años" reads as 20.
	UnitWords []string
}

// Default returns the general range parser.
func Default() Parser {
	return Parser{
		Name:         survey.ParserRange,
		Sentinel:     DefaultSentinel,
		UpperMarkers: []string{"mas de", "mayor", "more than", "greater than", "over"},
		LowerMarkers: []string{"menos de", "less than", "under"},
		Joiners:      []string{"a", "to", "al"},
		NoneWords:    []string{"ninguna", "ninguno", "ninguna vez", "nada", "none", "cero"},
		UnitWords: []string{
			"ano", "anos", "hora", "horas", "hr", "hrs", "h", "minuto", "minutos", "min", "mins",
			"dia", "dias", "vez", "veces", "punto", "puntos", "de", "aprox", "aproximadamente",
		},
	}
}

// ZeroFloor is the range parser for fields where "none" is a meaningful zero,
// such as study hours.
func ZeroFloor() Parser {
	p := Default()
	p.Name = survey.ParserZeroFloor
	p.NoneAsZero = true
	return p
}

// WithSentinel returns a copy of p using the given upper-open sentinel.
func (p Parser) WithSentinel(v float64) Parser {
	p.Sentinel = v
	return p
}

var numericHyphen = regexp.MustCompile(`(\d)\s*[-–—]\s*(\d)`)

// Parse converts one raw survey value. Numbers pass through unchanged.
func (p Parser) Parse(v survey.Value) Scalar {
	if v.IsMissing() {
		return Missing
	}
	if n, ok := v.Number(); ok {
		if math.IsInf(n, 0) {
			return Missing
		}
		return Of(n)
	}
	return p.ParseString(v.String())
}

// ParseString converts one free-text answer.
func (p Parser) ParseString(raw string) Scalar {
	text := utils.Fold(raw)
	if text == "" {
		return Missing
	}
	text = numericHyphen.ReplaceAllString(text, "$1 a $2")
	toks := Tokenize(text)
	phrase := " " + joinTokens(toks) + " "

	if startsAnyWord(phrase, p.UpperMarkers) {
		return Of(p.Sentinel)
	}
	if startsAnyWord(phrase, p.LowerMarkers) {
		lits := literals(toks)
		if len(lits) == 0 {
			return Missing
		}
		return Of(lits[0] / 2)
	}
	if p.hasJoiner(toks) {
		lits := literals(toks)
		if len(lits) < 2 {
			return Missing
		}
		return Of((lits[0] + lits[1]) / 2)
	}
	if p.NoneAsZero && p.isNone(toks, phrase) {
		return Of(0)
	}
	if f, ok := parseLiteral(p.clean(text, toks)); ok {
		return Of(f)
	}
	return Missing
}

// hasJoiner reports a joiner word with a numeric literal on each side.
func (p Parser) hasJoiner(toks []Token) bool {
	for i, t := range toks {
		if t.Kind != TokenWord || !contains(p.Joiners, t.Text) {
			continue
		}
		if hasNumber(toks[:i]) && hasNumber(toks[i+1:]) {
			return true
		}
	}
	return false
}

func (p Parser) isNone(toks []Token, phrase string) bool {
	if hasNumber(toks) {
		return false
	}
	return containsAny(phrase, p.NoneWords)
}

// clean drops unit words so the remaining text can be parsed directly. Text
// without unit words is returned as folded, punctuation included, so that
// "abc" or "1/2" still fail the direct parse.
func (p Parser) clean(text string, toks []Token) string {
	var kept []string
	dropped := false
	for _, t := range toks {
		if t.Kind == TokenWord && contains(p.UnitWords, t.Text) {
			dropped = true
			continue
		}
		kept = append(kept, t.Text)
	}
	if !dropped {
		return text
	}
	return strings.Join(kept, " ")
}

func joinTokens(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func hasNumber(toks []Token) bool {
	for _, t := range toks {
		if t.Kind == TokenNumber {
			return true
		}
	}
	return false
}

// startsAnyWord reports a marker beginning at a word boundary, so inflected
// forms such as "mayores" still match "mayor".
func startsAnyWord(phrase string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(phrase, " "+m) {
			return true
		}
	}
	return false
}

func containsAny(phrase string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(phrase, " "+m+" ") {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
