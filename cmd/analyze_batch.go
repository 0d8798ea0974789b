package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cfgpkg "github.com/KaramelBytes/surveylens/internal/config"
	"github.com/KaramelBytes/surveylens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abSource   sourceFlags
	abRender   renderOptions
	abOutDir   string
	abQuiet    bool
	abContinue bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple survey exports with progress, writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		sc, err := abSource.schema()
		if err != nil {
			return err
		}
		format, err := abRender.resolvedFormat()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		total := len(files)
		var failed []string
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			err := analyzeOne(cmd, path, sc, format)
			if err != nil {
				if !abContinue {
					return fmt.Errorf("%s: %w", filepath.Base(path), err)
				}
				logger.Warn("survey failed", "file", path, "error", err)
				if !abQuiet {
					fmt.Fprintf(out, "⚠ Skipping %s: %v\n", filepath.Base(path), err)
				}
				failed = append(failed, path)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failed), total, strings.Join(failed, ", "))
		}
		return nil
	},
}

func analyzeOne(cmd *cobra.Command, path string, sc *cfgpkg.Schema, format string) error {
	ds, err := abSource.load(cmd.Context(), path, "")
	if err != nil {
		return err
	}
	res, err := abSource.analyzeDataset(cmd.Context(), ds, sc, abQuiet)
	if err != nil {
		return err
	}
	body, _, err := abRender.render(ds, res)
	if err != nil {
		return err
	}
	return writeBatchReport(cmd.OutOrStdout(), path, format, body)
}

// writeBatchReport writes body under --out-dir without overwriting earlier
// reports, or prints it when no directory was given.
func writeBatchReport(out io.Writer, path, format string, body []byte) error {
	if abOutDir == "" {
		if !abQuiet {
			fmt.Fprintf(out, "--- %s ---\n", filepath.Base(path))
		}
		_, err := out.Write(append(body, '\n'))
		return err
	}
	if err := utils.EnsureDir(abOutDir); err != nil {
		return err
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if abSource.sheetName != "" {
		stem += "__sheet-" + sheetSlug(abSource.sheetName)
	}
	dest := uniquePath(abOutDir, stem, ".report."+format)
	if !abQuiet && filepath.Base(dest) != stem+".report."+format {
		fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(dest))
	}
	if err := utils.SafeWriteFile(dest, body); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if !abQuiet {
		fmt.Fprintf(out, "✓ Wrote %s\n", dest)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abSource.register(analyzeBatchCmd.Flags())
	abRender.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for per-file reports (default: print to stdout)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().BoolVar(&abContinue, "keep-going", false, "continue with the next file when one fails")
}
