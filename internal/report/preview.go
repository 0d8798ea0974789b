package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// Preview renders the first n records with their derived values, the way a
// reviewer spot-checks normalization before reading the aggregates.
func Preview(ds *survey.Dataset, res *pipeline.Result, n int) string {
	if n <= 0 || ds.Len() == 0 {
		return ""
	}
	if n > ds.Len() {
		n = ds.Len()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[PREVIEW] first %d of %d records\n", n, ds.Len())
	for i := 0; i < n; i++ {
		rec := ds.Record(i)
		fmt.Fprintf(&b, "- row %d\n", i+1)
		for _, f := range res.Fields {
			raw := rec.Get(f)
			line := fmt.Sprintf("  • %s: %s", short(f), display(raw))
			if d := derivedName(res, f); d != "" && i < len(res.Derived) {
				line += fmt.Sprintf(" → %s", display(res.Derived[i][d]))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func derivedName(res *pipeline.Result, field string) string {
	if d, ok := res.Distributions[field]; ok && d.Derived != "" {
		return d.Derived
	}
	if r, ok := res.Outliers[field]; ok {
		return r.Derived
	}
	return ""
}

func display(v survey.Value) string {
	if v.IsMissing() {
		return "∅"
	}
	return safeVal(v.String())
}
