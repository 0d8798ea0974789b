package survey

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role declares how the pipeline treats a field.
type Role string

const (
	RoleCategoricalRaw        Role = "categorical-raw"
	RoleCategoricalNormalized Role = "categorical-normalized"
	RoleRangeNumeric          Role = "range-numeric"
	RoleFreeText              Role = "free-text"
)

// Ordering selects how a distribution's buckets are ordered.
type Ordering string

const (
	OrderFirstSeen Ordering = "first-seen"
	OrderLexical   Ordering = "lexical"
	OrderFrequency Ordering = "frequency"
)

// FieldSpec declares one field's role and, for derived fields, the transformation to apply.
type FieldSpec struct {
	// Field is the header name in the source export, usually the full question text.
	Field string `yaml:"field" json:"field" validate:"required"`
	Role  Role   `yaml:"role" json:"role" validate:"required,oneof=categorical-raw categorical-normalized range-numeric free-text"`
	// Derived names the overlay column holding the normalized label or parsed number.
	Derived string `yaml:"derived,omitempty" json:"derived,omitempty"`
	// RuleSet names the normalize rule set for categorical-normalized fields.
	RuleSet string `yaml:"rule_set,omitempty" json:"rule_set,omitempty" validate:"required_if=Role categorical-normalized"`
	// Parser names the rangeparse variant for range-numeric fields; empty means the default variant.
	Parser string `yaml:"parser,omitempty" json:"parser,omitempty"`
	// Sentinel overrides the value used for "more than N" answers.
	Sentinel *float64 `yaml:"sentinel,omitempty" json:"sentinel,omitempty"`
	Order    Ordering `yaml:"order,omitempty" json:"order,omitempty" validate:"omitempty,oneof=first-seen lexical frequency"`
	// Distribution makes a range-numeric field also report its raw answer distribution.
	Distribution bool `yaml:"distribution,omitempty" json:"distribution,omitempty"`
}

// DerivedName returns the overlay column name. Without an explicit name the
// field gets a suffix so the overlay never shadows its source column.
func (s FieldSpec) DerivedName() string {
	if s.Derived != "" {
		return s.Derived
	}
	switch s.Role {
	case RoleCategoricalNormalized:
		return s.Field + " (normalized)"
	case RoleRangeNumeric:
		return s.Field + " (numeric)"
	default:
		return s.Field
	}
}

// Ordering returns the configured ordering, defaulting to first-seen.
func (s FieldSpec) Ordering() Ordering {
	if s.Order == "" {
		return OrderFirstSeen
	}
	return s.Order
}

// Aggregated reports whether the field produces a distribution.
func (s FieldSpec) Aggregated() bool {
	switch s.Role {
	case RoleCategoricalRaw, RoleCategoricalNormalized:
		return true
	case RoleRangeNumeric:
		return s.Distribution
	default:
		return false
	}
}

// ValidationError describes one invalid FieldSpec attribute.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return fmt.Sprintf("field spec %d: %s", v.Index+1, v.Message)
	}
	return fmt.Sprintf("field spec %d (%s): %s", v.Index+1, v.Field, v.Message)
}

// ValidationErrors collects every problem found in a spec list.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %d error(s): %s", len(v), strings.Join(msgs, "; "))
}

var validate = validator.New()

// ValidateSpecs checks struct constraints and cross-spec uniqueness. Reference
// checks (rule set and parser names) belong to the pipeline, which knows the
// registries.
func ValidateSpecs(specs []FieldSpec) error {
	var out ValidationErrors
	seenField := map[string]int{}
	seenDerived := map[string]int{}
	sources := make(map[string]bool, len(specs))
	for _, s := range specs {
		sources[s.Field] = true
	}
	for i, s := range specs {
		if err := validate.Struct(s); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			for _, fe := range verrs {
				out = append(out, ValidationError{Index: i, Field: s.Field, Message: describe(fe)})
			}
		}
		if j, dup := seenField[s.Field]; dup && s.Field != "" {
			out = append(out, ValidationError{Index: i, Field: s.Field, Message: fmt.Sprintf("duplicates field spec %d", j+1)})
		} else {
			seenField[s.Field] = i
		}
		if s.Role == RoleRangeNumeric || s.Role == RoleCategoricalNormalized {
			d := s.DerivedName()
			if sources[d] {
				out = append(out, ValidationError{Index: i, Field: s.Field, Message: fmt.Sprintf("derived name %q collides with a source field", d)})
			} else if j, dup := seenDerived[d]; dup {
				out = append(out, ValidationError{Index: i, Field: s.Field, Message: fmt.Sprintf("derived name %q already used by field spec %d", d, j+1)})
			} else {
				seenDerived[d] = i
			}
		}
		if s.Sentinel != nil && (math.IsNaN(*s.Sentinel) || math.IsInf(*s.Sentinel, 0)) {
			out = append(out, ValidationError{Index: i, Field: s.Field, Message: fmt.Sprintf("sentinel must be a finite number, got %v", *s.Sentinel)})
		}
		if s.Role != RoleRangeNumeric && (s.Parser != "" || s.Sentinel != nil) {
			out = append(out, ValidationError{Index: i, Field: s.Field, Message: "parser and sentinel only apply to range-numeric fields"})
		}
		if s.Role != RoleCategoricalNormalized && s.RuleSet != "" {
			out = append(out, ValidationError{Index: i, Field: s.Field, Message: "rule_set only applies to categorical-normalized fields"})
		}
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func describe(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
