package rangeparse

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/surveylens/internal/survey"
)

// UnknownVariantError reports a parser name that no variant is registered under.
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown range parser variant %q (known: %v)", e.Name, Variants())
}

var variants = map[string]func() Parser{
	survey.ParserRange:     Default,
	survey.ParserZeroFloor: ZeroFloor,
}

// Lookup returns the parser registered under name. An empty name selects the default variant.
func Lookup(name string) (Parser, error) {
	if name == "" {
		return Default(), nil
	}
	ctor, ok := variants[name]
	if !ok {
		return Parser{}, &UnknownVariantError{Name: name}
	}
	return ctor(), nil
}

// ForSpec resolves the parser a range-numeric field spec asks for, applying its sentinel.
func ForSpec(spec survey.FieldSpec) (Parser, error) {
	p, err := Lookup(spec.Parser)
	if err != nil {
		return Parser{}, err
	}
	if spec.Sentinel != nil {
		p = p.WithSentinel(*spec.Sentinel)
	}
	return p, nil
}

// Variants lists the registered variant names.
func Variants() []string {
	out := make([]string, 0, len(variants))
	for k := range variants {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
