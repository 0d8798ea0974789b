package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/surveylens/internal/ingest"
	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/rangeparse"
	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/KaramelBytes/surveylens/internal/utils"
	"github.com/spf13/cobra"
)

var fieldsSource sourceFlags

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Inspect the field taxonomy and check exports against it",
}

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured fields with their role and derived column",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := fieldsSource.schema()
		if err != nil {
			return err
		}
		if _, err := pipeline.NewPlan(sc.Fields, sc.RuleSets); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tFIELD\tROLE\tDERIVED\tDETAIL")
		for i, s := range sc.Fields {
			derived, detail := "-", "-"
			switch s.Role {
			case survey.RoleCategoricalNormalized:
				derived = s.DerivedName()
				detail = "rules=" + s.RuleSet
			case survey.RoleRangeNumeric:
				derived = s.DerivedName()
				p, _ := rangeparse.ForSpec(s)
				detail = fmt.Sprintf("parser=%s sentinel=%g", p.Name, p.Sentinel)
			case survey.RoleCategoricalRaw:
				detail = "order=" + string(s.Ordering())
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, utils.TruncateRunes(s.Field, 60), s.Role, derived, detail)
		}
		return tw.Flush()
	},
}

var fieldsCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Report which configured fields an export carries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := fieldsSource.schema()
		if err != nil {
			return err
		}
		ds, err := fieldsSource.load(cmd.Context(), args[0], "")
		if err != nil {
			return err
		}
		hr := ingest.CheckHeaders(ds, sc.Fields)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d records, %d columns\n", ds.Name, ds.Len(), len(ds.Fields()))
		for _, f := range hr.Present {
			fmt.Fprintf(out, "✓ %s\n", f)
		}
		for _, f := range hr.Absent {
			fmt.Fprintf(out, "✗ %s\n", f)
		}
		if len(hr.Extra) > 0 {
			fmt.Fprintf(out, "Unconfigured columns: %s\n", strings.Join(hr.Extra, " | "))
		}
		if !hr.OK() {
			return fmt.Errorf("%s", hr)
		}
		return nil
	},
}

var fieldsTryCmd = &cobra.Command{
	Use:   "try <field|derived> <answer...>",
	Short: "Run answers through a field's normalizer or range parser",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := fieldsSource.schema()
		if err != nil {
			return err
		}
		var spec *survey.FieldSpec
		for i := range sc.Fields {
			s := sc.Fields[i]
			if s.Field == args[0] || (s.Derived != "" && strings.EqualFold(s.Derived, args[0])) {
				spec = &sc.Fields[i]
				break
			}
		}
		if spec == nil {
			return fmt.Errorf("no configured field named %q", args[0])
		}
		out := cmd.OutOrStdout()
		switch spec.Role {
		case survey.RoleCategoricalNormalized:
			m, ok := sc.RuleSets.Get(spec.RuleSet)
			if !ok {
				return fmt.Errorf("field %q: unknown rule set %q", spec.Field, spec.RuleSet)
			}
			for _, a := range args[1:] {
				fmt.Fprintf(out, "%q → %s\n", a, m.Normalize(a))
			}
		case survey.RoleRangeNumeric:
			p, err := rangeparse.ForSpec(*spec)
			if err != nil {
				return err
			}
			for _, a := range args[1:] {
				if v := p.ParseString(a); v.Valid {
					fmt.Fprintf(out, "%q → %g\n", a, v.Value)
				} else {
					fmt.Fprintf(out, "%q → missing\n", a)
				}
			}
		default:
			return fmt.Errorf("field %q has role %s; only normalized and range fields transform answers", spec.Field, spec.Role)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsSource.register(fieldsCmd.PersistentFlags())
	fieldsCmd.AddCommand(fieldsListCmd)
	fieldsCmd.AddCommand(fieldsCheckCmd)
	fieldsCmd.AddCommand(fieldsTryCmd)
}
