package pipeline

import (
	"fmt"

	"github.com/KaramelBytes/surveylens/internal/normalize"
	"github.com/KaramelBytes/surveylens/internal/rangeparse"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// UnknownRuleSetError reports a field spec naming a rule set the registry lacks.
type UnknownRuleSetError struct {
	Field   string
	RuleSet string
	Known   []string
}

func (e *UnknownRuleSetError) Error() string {
	return fmt.Sprintf("field %q: unknown rule set %q (known: %v)", e.Field, e.RuleSet, e.Known)
}

type step struct {
	spec    survey.FieldSpec
	matcher *normalize.Matcher
	parser  rangeparse.Parser
}

// Plan is a validated list of field specs bound to their rule sets and
// parsers. Building it is where configuration mistakes surface; running it
// never fails on data.
type Plan struct {
	steps []step
}

// NewPlan validates specs and resolves every rule set and parser variant.
func NewPlan(specs []survey.FieldSpec, reg *normalize.Registry) (*Plan, error) {
	if err := survey.ValidateSpecs(specs); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = normalize.DefaultRegistry()
	}
	p := &Plan{steps: make([]step, 0, len(specs))}
	for _, s := range specs {
		st := step{spec: s}
		switch s.Role {
		case survey.RoleCategoricalNormalized:
			m, ok := reg.Get(s.RuleSet)
			if !ok {
				return nil, &UnknownRuleSetError{Field: s.Field, RuleSet: s.RuleSet, Known: reg.Names()}
			}
			st.matcher = m
		case survey.RoleRangeNumeric:
			parser, err := rangeparse.ForSpec(s)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", s.Field, err)
			}
			st.parser = parser
		}
		p.steps = append(p.steps, st)
	}
	return p, nil
}

// Specs returns the field specs in plan order.
func (p *Plan) Specs() []survey.FieldSpec {
	out := make([]survey.FieldSpec, len(p.steps))
	for i, st := range p.steps {
		out[i] = st.spec
	}
	return out
}

// Present splits the plan's fields into those the dataset has and those it lacks.
func (p *Plan) Present(ds *survey.Dataset) (present, absent []string) {
	for _, st := range p.steps {
		if ds.HasField(st.spec.Field) {
			present = append(present, st.spec.Field)
		} else {
			absent = append(absent, st.spec.Field)
		}
	}
	return present, absent
}
