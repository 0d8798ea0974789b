package normalize

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/utils"
)

// PatternRef locates one pattern inside a rule set.
type PatternRef struct {
	Rule    int
	Label   string
	Pattern string
}

// ShadowedPatternError reports a pattern that can never fire because an
// earlier rule's pattern is contained in it. Which label the rule set author
// intended is ambiguous, so it is flagged instead of resolved.
type ShadowedPatternError struct {
	Set     string
	Earlier PatternRef
	Later   PatternRef
}

func (e *ShadowedPatternError) Error() string {
	return fmt.Sprintf("rule set %q: pattern %q (rule %d, %s) is shadowed by earlier pattern %q (rule %d, %s)",
		e.Set, e.Later.Pattern, e.Later.Rule+1, e.Later.Label, e.Earlier.Pattern, e.Earlier.Rule+1, e.Earlier.Label)
}

// RuleSetError collects every problem found while validating a rule set.
type RuleSetError struct {
	Set      string
	Problems []error
}

func (e *RuleSetError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("invalid rule set %q: %s", e.Set, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual problems to errors.As.
func (e *RuleSetError) Unwrap() []error { return e.Problems }

// Validate checks structure and flags shadowed patterns. Only patterns of
// rules with different labels are compared; a shadowed alternate spelling of
// the same label is harmless.
func (rs RuleSet) Validate() error {
	var probs []error
	if strings.TrimSpace(rs.Name) == "" {
		probs = append(probs, fmt.Errorf("name is required"))
	}
	if len(rs.Rules) == 0 {
		probs = append(probs, fmt.Errorf("at least one rule is required"))
	}
	if !rs.Default.Capitalize && strings.TrimSpace(rs.Default.Label) == "" {
		probs = append(probs, fmt.Errorf("default needs a label or capitalize: true"))
	}
	var refs []PatternRef
	for i, r := range rs.Rules {
		if strings.TrimSpace(r.Label) == "" {
			probs = append(probs, fmt.Errorf("rule %d: label is required", i+1))
		}
		if len(r.Patterns) == 0 {
			probs = append(probs, fmt.Errorf("rule %d (%s): at least one pattern is required", i+1, r.Label))
		}
		for _, p := range r.Patterns {
			if utils.Fold(p) == "" {
				probs = append(probs, fmt.Errorf("rule %d (%s): empty pattern", i+1, r.Label))
				continue
			}
			refs = append(refs, PatternRef{Rule: i, Label: r.Label, Pattern: p})
		}
	}
	probs = append(probs, rs.shadowed(refs)...)
	if len(probs) > 0 {
		return &RuleSetError{Set: rs.Name, Problems: probs}
	}
	return nil
}

func (rs RuleSet) shadowed(refs []PatternRef) []error {
	var out []error
	for a := 0; a < len(refs); a++ {
		fa := utils.Fold(refs[a].Pattern)
		for b := a + 1; b < len(refs); b++ {
			if refs[b].Rule == refs[a].Rule || refs[b].Label == refs[a].Label {
				continue
			}
			if strings.Contains(utils.Fold(refs[b].Pattern), fa) {
				out = append(out, &ShadowedPatternError{Set: rs.Name, Earlier: refs[a], Later: refs[b]})
			}
		}
	}
	return out
}
