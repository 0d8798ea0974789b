package cmd

import (
	"errors"
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/surveylens/internal/config"
	"github.com/KaramelBytes/surveylens/internal/normalize"
	"github.com/spf13/cobra"
)

var (
	rulesFields string
	rulesFile   string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect, validate and try category rule sets",
}

func loadRuleRegistry() (*normalize.Registry, error) {
	c := currentConfig()
	fields, rules := c.FieldsFile, c.RulesFile
	if rulesFields != "" {
		fields = rulesFields
	}
	if rulesFile != "" {
		rules = rulesFile
	}
	sc, err := cfgpkg.LoadSchema(fields, rules)
	if err != nil {
		return nil, err
	}
	return sc.RuleSets, nil
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rule sets and their labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRuleRegistry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, name := range reg.Names() {
			m, _ := reg.Get(name)
			rs := m.RuleSet()
			fmt.Fprintf(out, "%s (%d rules)\n", rs, len(rs.Rules))
			fmt.Fprintf(out, "  labels: %s\n", strings.Join(m.Labels(), ", "))
			if rs.Default.Capitalize {
				fmt.Fprintf(out, "  default: capitalized answer (blank: %s)\n", defaultLabel(rs.Default))
			} else {
				fmt.Fprintf(out, "  default: %s\n", rs.Default.Label)
			}
		}
		return nil
	},
}

func defaultLabel(d normalize.Default) string {
	if d.Label != "" {
		return d.Label
	}
	return normalize.OtherLabel
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a rule set as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRuleRegistry()
		if err != nil {
			return err
		}
		m, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown rule set %q (known: %s)", args[0], strings.Join(reg.Names(), ", "))
		}
		b, err := normalize.MarshalRuleSets([]normalize.RuleSet{m.RuleSet()})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a rule set file, including patterns shadowed by earlier rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := normalize.LoadRuleSets(args[0])
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			return fmt.Errorf("%s: no rule_sets found", args[0])
		}
		out := cmd.OutOrStdout()
		bad := 0
		for _, rs := range sets {
			if err := rs.Validate(); err != nil {
				bad++
				fmt.Fprintf(out, "✗ %s\n", rs)
				var rsErr *normalize.RuleSetError
				if errors.As(err, &rsErr) {
					for _, p := range rsErr.Problems {
						fmt.Fprintf(out, "  - %v\n", p)
					}
				} else {
					fmt.Fprintf(out, "  - %v\n", err)
				}
				continue
			}
			fmt.Fprintf(out, "✓ %s (%d rules)\n", rs, len(rs.Rules))
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d rule sets invalid", bad, len(sets))
		}
		return nil
	},
}

var rulesTryCmd = &cobra.Command{
	Use:   "try <name> <answer...>",
	Short: "Show which rule and pattern classify each answer",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRuleRegistry()
		if err != nil {
			return err
		}
		m, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown rule set %q (known: %s)", args[0], strings.Join(reg.Names(), ", "))
		}
		out := cmd.OutOrStdout()
		for _, answer := range args[1:] {
			match := m.Explain(answer)
			if match.Defaulted() {
				fmt.Fprintf(out, "%q → %s (default)\n", answer, match.Label)
				continue
			}
			fmt.Fprintf(out, "%q → %s (rule %d, pattern %q)\n", answer, match.Label, match.Rule+1, match.Pattern)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.PersistentFlags().StringVar(&rulesFields, "fields", "", "YAML field file whose rule_sets extend the built-ins")
	rulesCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML rule set file overriding built-in rule sets")
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCmd.AddCommand(rulesTryCmd)
}
