package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/surveylens/internal/normalize"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// FieldFile is the on-disk schema: the field taxonomy plus rule sets that
// extend or override the built-ins.
type FieldFile struct {
	Fields   []survey.FieldSpec  `yaml:"fields"`
	RuleSets []normalize.RuleSet `yaml:"rule_sets,omitempty"`
}

// Schema is the resolved taxonomy and rule set registry for a run.
type Schema struct {
	Fields   []survey.FieldSpec
	RuleSets *normalize.Registry
}

// ParseFieldFile decodes a field file. Unknown keys are rejected so typos in
// role or parser names surface early.
func ParseFieldFile(data []byte) (*FieldFile, error) {
	var f FieldFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse field file: %w", err)
	}
	if len(f.Fields) == 0 && len(f.RuleSets) == 0 {
		return nil, fmt.Errorf("parse field file: no fields or rule_sets")
	}
	return &f, nil
}

// LoadSchema resolves the schema for a run. An empty fieldsFile means the
// built-in taxonomy; rule sets come from the built-ins, then the field file,
// then rulesFile, later ones replacing earlier ones of the same name.
func LoadSchema(fieldsFile, rulesFile string) (*Schema, error) {
	specs := survey.DefaultFieldSpecs()
	sets := normalize.Builtin()
	if fieldsFile != "" {
		b, err := os.ReadFile(fieldsFile)
		if err != nil {
			return nil, fmt.Errorf("read field file: %w", err)
		}
		f, err := ParseFieldFile(b)
		if err != nil {
			return nil, err
		}
		if len(f.Fields) > 0 {
			specs = f.Fields
		}
		sets = append(sets, f.RuleSets...)
	}
	if rulesFile != "" {
		extra, err := normalize.LoadRuleSets(rulesFile)
		if err != nil {
			return nil, err
		}
		sets = append(sets, extra...)
	}
	reg, err := normalize.NewRegistry(sets...)
	if err != nil {
		return nil, err
	}
	if err := survey.ValidateSpecs(specs); err != nil {
		return nil, err
	}
	return &Schema{Fields: specs, RuleSets: reg}, nil
}

// MarshalFieldFile encodes specs and rule sets in the format ParseFieldFile reads.
func MarshalFieldFile(f FieldFile) ([]byte, error) {
	b, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal field file: %w", err)
	}
	return b, nil
}
