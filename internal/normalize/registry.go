package normalize

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry holds compiled rule sets by name.
type Registry struct {
	byName map[string]*Matcher
}

// NewRegistry compiles the given rule sets. Later sets replace earlier ones
// with the same name, so user files can override the built-ins.
func NewRegistry(sets ...RuleSet) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Matcher, len(sets))}
	for _, rs := range sets {
		m, err := Compile(rs)
		if err != nil {
			return nil, err
		}
		r.byName[rs.Name] = m
	}
	return r, nil
}

// DefaultRegistry returns a registry with only the built-in rule sets.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the matcher registered under name.
func (r *Registry) Get(name string) (*Matcher, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names lists registered rule set names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for k := range r.byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type ruleSetFile struct {
	RuleSets []RuleSet `yaml:"rule_sets"`
}

// ParseRuleSets decodes a YAML document with a top-level rule_sets list.
func ParseRuleSets(data []byte) ([]RuleSet, error) {
	var f ruleSetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rule sets: %w", err)
	}
	return f.RuleSets, nil
}

// LoadRuleSets reads rule sets from a YAML file.
func LoadRuleSets(path string) ([]RuleSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule sets: %w", err)
	}
	return ParseRuleSets(b)
}

// MarshalRuleSets encodes rule sets in the format ParseRuleSets reads.
func MarshalRuleSets(sets []RuleSet) ([]byte, error) {
	b, err := yaml.Marshal(ruleSetFile{RuleSets: sets})
	if err != nil {
		return nil, fmt.Errorf("marshal rule sets: %w", err)
	}
	return b, nil
}
