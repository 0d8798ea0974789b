package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/surveylens/internal/ingest"
	"github.com/KaramelBytes/surveylens/internal/report"
	"github.com/KaramelBytes/surveylens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaSource     sourceFlags
	anaRender     renderOptions
	anaURL        string
	anaOutputPath string
	anaDerivedOut string
	anaStrict     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Normalize a survey export and report distributions and outliers",
	Long: `Analyze one survey export. The source is a CSV/TSV/XLSX file, or a published
spreadsheet CSV link given with --url (or source_url in config).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		url := anaURL
		if url == "" && path == "" {
			url = currentConfig().SourceURL
		}
		sc, err := anaSource.schema()
		if err != nil {
			return err
		}
		ds, err := anaSource.load(cmd.Context(), path, url)
		if err != nil {
			return err
		}
		if anaStrict {
			if hr := ingest.CheckHeaders(ds, sc.Fields); !hr.OK() {
				return fmt.Errorf("--strict: %s", hr)
			}
		}
		res, err := anaSource.analyzeDataset(cmd.Context(), ds, sc, false)
		if err != nil {
			return err
		}
		out, _, err := anaRender.render(ds, res)
		if err != nil {
			return err
		}

		if anaDerivedOut != "" {
			var buf bytes.Buffer
			if err := report.WriteDerivedCSV(&buf, ds, res); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaDerivedOut, buf.Bytes()); err != nil {
				return fmt.Errorf("write derived csv: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote derived columns to %s\n", anaDerivedOut)
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		if err == nil && !bytes.HasSuffix(out, []byte("\n")) {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaSource.register(analyzeCmd.Flags())
	anaRender.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVar(&anaURL, "url", "", "published spreadsheet CSV URL to fetch instead of a file")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaDerivedOut, "derived-out", "", "optional CSV path for source columns plus derived columns")
	analyzeCmd.Flags().BoolVar(&anaStrict, "strict", false, "fail when a configured field is missing from the export")
}
