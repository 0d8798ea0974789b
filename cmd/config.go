package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/surveylens/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SurveyLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fields_file: %s\n", orBuiltin(cfg.FieldsFile))
		fmt.Fprintf(out, "rules_file: %s\n", orBuiltin(cfg.RulesFile))
		if cfg.SourceURL != "" {
			fmt.Fprintf(out, "source_url: %s\n", cfg.SourceURL)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "missing_label: %s\n", cfg.MissingLabel)
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "max_outlier_rows: %d\n", cfg.MaxOutlierRows)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "fields_file":
			if val != "" {
				if _, err := cfgpkg.LoadSchema(val, ""); err != nil {
					return fmt.Errorf("invalid fields_file: %w", err)
				}
			}
			c.FieldsFile = val
		case "rules_file":
			if val != "" {
				if _, err := cfgpkg.LoadSchema("", val); err != nil {
					return fmt.Errorf("invalid rules_file: %w", err)
				}
			}
			c.RulesFile = val
		case "source_url":
			c.SourceURL = val
		case "sheet_name":
			c.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v (must be >= 1)", val)
			}
			c.SheetIndex = i
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "missing_label":
			if val == "" {
				return fmt.Errorf("missing_label cannot be empty")
			}
			c.MissingLabel = val
		case "workers":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for workers: %v", val)
			}
			c.Workers = i
		case "output_format":
			if _, err := (renderOptions{format: val}).resolvedFormat(); err != nil {
				return err
			}
			c.OutputFormat = val
		case "max_outlier_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_outlier_rows: %v", val)
			}
			c.MaxOutlierRows = i
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
			c.LogLevel = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			c.HTTPTimeoutSec = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func orBuiltin(s string) string {
	if s == "" {
		return "(built-in)"
	}
	return s
}
