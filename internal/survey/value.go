package survey

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value is one raw cell of a survey export: text, a number, or missing.
// The zero Value is missing.
type Value struct {
	kind Kind
	text string
	num  float64
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Text wraps a string cell. Text is kept verbatim; callers decide how to clean it.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a numeric cell. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value carries no answer.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Number returns the numeric payload when the value is a number.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value as text; missing values render as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Blank reports whether the value is missing or only whitespace.
func (v Value) Blank() bool {
	return v.kind == KindMissing || (v.kind == KindText && strings.TrimSpace(v.text) == "")
}

// MarshalJSON encodes missing as null, numbers as JSON numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}
