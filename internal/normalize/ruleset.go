// Package normalize maps noisy free-text survey answers onto a closed set of
// labels using ordered, first-match-wins substring rules.
package normalize

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/utils"
)

// Rule assigns Label to any answer containing one of Patterns.
// Patterns are alternate spellings; accents and case are ignored.
type Rule struct {
	Label    string   `yaml:"label" json:"label"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Default decides the label of answers no rule matches. With Capitalize set the
// answer itself is capitalized and Label only covers blank answers.
type Default struct {
	Label      string `yaml:"label,omitempty" json:"label,omitempty"`
	Capitalize bool   `yaml:"capitalize,omitempty" json:"capitalize,omitempty"`
}

// RuleSet is an ordered rule list plus a default. Order is part of the
// contract: the first matching rule wins even if a later one also matches.
type RuleSet struct {
	Name    string  `yaml:"name" json:"name"`
	Version string  `yaml:"version,omitempty" json:"version,omitempty"`
	Rules   []Rule  `yaml:"rules" json:"rules"`
	Default Default `yaml:"default" json:"default"`
}

// Match explains how an answer was classified.
type Match struct {
	Label   string
	Rule    int // index into RuleSet.Rules, -1 for the default
	Pattern string
}

// Defaulted reports whether no rule fired.
func (m Match) Defaulted() bool { return m.Rule < 0 }

type compiledRule struct {
	label    string
	patterns []string // folded
	raw      []string
}

// Matcher is a validated, pre-folded RuleSet. It holds no mutable state and is
// safe for concurrent use.
type Matcher struct {
	set   RuleSet
	rules []compiledRule
}

// Compile validates rs and prepares it for matching.
func Compile(rs RuleSet) (*Matcher, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	m := &Matcher{set: rs, rules: make([]compiledRule, len(rs.Rules))}
	for i, r := range rs.Rules {
		cr := compiledRule{label: r.Label, raw: r.Patterns}
		for _, p := range r.Patterns {
			cr.patterns = append(cr.patterns, utils.Fold(p))
		}
		m.rules[i] = cr
	}
	return m, nil
}

// MustCompile is Compile for rule sets known to be valid, such as the built-ins.
func MustCompile(rs RuleSet) *Matcher {
	m, err := Compile(rs)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the rule set name.
func (m *Matcher) Name() string { return m.set.Name }

// RuleSet returns the source rule set.
func (m *Matcher) RuleSet() RuleSet { return m.set }

// Labels lists the rule labels in declared order without duplicates.
func (m *Matcher) Labels() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range m.rules {
		if !seen[r.label] {
			seen[r.label] = true
			out = append(out, r.label)
		}
	}
	return out
}

// Normalize returns the label for raw. It never returns an empty string for
// non-blank input, and falls back to the default for blank input.
func (m *Matcher) Normalize(raw string) string {
	return m.Explain(raw).Label
}

// Explain classifies raw and reports which rule and pattern fired.
func (m *Matcher) Explain(raw string) Match {
	text := utils.Fold(raw)
	if text != "" {
		for i, r := range m.rules {
			for j, p := range r.patterns {
				if strings.Contains(text, p) {
					return Match{Label: r.label, Rule: i, Pattern: r.raw[j]}
				}
			}
		}
	}
	return Match{Label: m.fallback(raw), Rule: -1}
}

func (m *Matcher) fallback(raw string) string {
	d := m.set.Default
	if d.Capitalize {
		if c := utils.Capitalize(raw); c != "" {
			return c
		}
		if d.Label != "" {
			return d.Label
		}
		return OtherLabel
	}
	return d.Label
}

// OtherLabel is the catch-all used when a capitalizing default meets blank input.
const OtherLabel = "Otro"

// Normalize classifies raw with the given matcher.
func Normalize(raw string, m *Matcher) string { return m.Normalize(raw) }

func (rs RuleSet) String() string {
	if rs.Version != "" {
		return fmt.Sprintf("%s@%s", rs.Name, rs.Version)
	}
	return rs.Name
}
