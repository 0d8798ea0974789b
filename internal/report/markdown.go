// Package report renders pipeline results as markdown, JSON or CSV.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/surveylens/internal/outlier"
	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/utils"
)

// Options control rendering.
type Options struct {
	// MaxOutlierRows caps the rows listed per numeric field; 0 lists all.
	MaxOutlierRows int
	// RecordFields limits the source fields shown next to an outlier row.
	// Empty shows every answered field.
	RecordFields []string
	// MaxCellChars truncates long answers in outlier rows.
	MaxCellChars int
	// IncludeDerived adds the per-record derived values to JSON output.
	IncludeDerived bool
}

// DefaultOptions mirror the CLI defaults.
func DefaultOptions() Options {
	return Options{MaxOutlierRows: 20, MaxCellChars: 60}
}

// Markdown renders a compact report with bracketed sections.
func Markdown(res *pipeline.Result, opt Options) string {
	var b strings.Builder
	b.WriteString("[SURVEY SUMMARY]\n")
	if res.Dataset != "" {
		fmt.Fprintf(&b, "Source: %s\n", res.Dataset)
	}
	fmt.Fprintf(&b, "Records: %d\n", res.Records)
	fmt.Fprintf(&b, "Fields analyzed: %d", len(res.Fields))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, " (skipped %d)", len(res.Skipped))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Run: %s at %s\n", res.RunID, res.GeneratedAt.Format(time.RFC3339))

	if len(res.Distributions) > 0 {
		b.WriteString("\n[DISTRIBUTIONS]\n")
		for _, f := range res.Fields {
			d, ok := res.Distributions[f]
			if !ok {
				continue
			}
			name := safeName(f)
			if d.Derived != "" {
				name = fmt.Sprintf("%s → %s", name, d.Derived)
			}
			fmt.Fprintf(&b, "- %s (n=%d, %s)\n", name, d.Total, d.Order)
			for _, bk := range d.Buckets {
				fmt.Fprintf(&b, "  • %s: %d (%.1f%%)\n", safeVal(bk.Label), bk.Count, bk.Percent)
			}
		}
	}

	if len(res.Outliers) > 0 {
		b.WriteString("\n[NUMERIC FIELDS]\n")
		for _, f := range res.Fields {
			rep, ok := res.Outliers[f]
			if !ok {
				continue
			}
			writeNumeric(&b, rep, opt)
		}
	}

	if len(res.FreeText) > 0 {
		b.WriteString("\n[FREE TEXT]\n")
		for _, f := range res.FreeText {
			fmt.Fprintf(&b, "- %s\n", safeName(f))
		}
	}
	if len(res.Skipped) > 0 {
		b.WriteString("\n[SKIPPED]\n")
		for _, f := range res.Skipped {
			fmt.Fprintf(&b, "- %s (column not in source)\n", safeName(f))
		}
	}

	b.WriteString("\n[NOTES]\n")
	b.WriteString("- Percentages are over all records, unanswered included.\n")
	fmt.Fprintf(&b, "- Outliers lie strictly outside [Q1 - %.1f·IQR, Q3 + %.1f·IQR]; quartiles interpolate linearly.\n",
		outlier.FenceMultiplier, outlier.FenceMultiplier)
	b.WriteString("- Range answers are averaged, \"less than X\" reads as X/2 and upper-open answers take a fixed sentinel.\n")
	return b.String()
}

func writeNumeric(b *strings.Builder, rep outlier.Report, opt Options) {
	fmt.Fprintf(b, "- %s → %s: valid %d/%d", safeName(rep.Field), rep.Derived, rep.Valid, rep.Total)
	if !rep.HasBounds {
		b.WriteString(" (no numeric answers)\n")
		return
	}
	s := rep.Summary
	fmt.Fprintf(b, " — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g\n", s.Min, s.Max, s.Mean, s.Median, s.Std)
	fmt.Fprintf(b, "  fences: Q1 %.4g, Q3 %.4g, IQR %.4g, bounds [%.4g, %.4g]\n", rep.Q1, rep.Q3, rep.IQR, rep.Lower, rep.Upper)
	fmt.Fprintf(b, "  outliers: %d\n", len(rep.Outliers))
	rows := rep.Outliers
	if opt.MaxOutlierRows > 0 && len(rows) > opt.MaxOutlierRows {
		rows = rows[:opt.MaxOutlierRows]
	}
	for _, o := range rows {
		fmt.Fprintf(b, "  • row %d: %.4g | %s\n", o.Index+1, o.Value, recordLine(o, opt))
	}
	if len(rows) < len(rep.Outliers) {
		fmt.Fprintf(b, "  • … %d more\n", len(rep.Outliers)-len(rows))
	}
}

// recordLine shows the answers of a flagged respondent.
func recordLine(o outlier.Flagged, opt Options) string {
	fields := opt.RecordFields
	if len(fields) == 0 {
		fields = o.Record.Fields()
	}
	var parts []string
	for _, f := range fields {
		v := o.Record.Get(f)
		if v.Blank() {
			continue
		}
		val := safeVal(v.String())
		if opt.MaxCellChars > 0 {
			val = utils.TruncateRunes(val, opt.MaxCellChars)
		}
		parts = append(parts, fmt.Sprintf("%s=%s", short(f), val))
	}
	if len(parts) == 0 {
		return "(no answers)"
	}
	return strings.Join(parts, "; ")
}

// short trims long question headers for inline display.
func short(field string) string {
	return utils.TruncateRunes(safeName(field), 40)
}

func safeName(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
