package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// WriteDerivedCSV writes every source column followed by the derived columns,
// one line per record. Missing values are written as empty cells.
func WriteDerivedCSV(w io.Writer, ds *survey.Dataset, res *pipeline.Result) error {
	if len(res.Derived) != ds.Len() {
		return fmt.Errorf("derived rows (%d) do not match dataset rows (%d)", len(res.Derived), ds.Len())
	}
	src := ds.Fields()
	derived := derivedColumns(res)
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), src...), derived...)); err != nil {
		return err
	}
	row := make([]string, len(src)+len(derived))
	for i, rec := range ds.Records() {
		for j, f := range src {
			row[j] = rec.Get(f).String()
		}
		for j, name := range derived {
			row[len(src)+j] = res.Derived[i][name].String()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// derivedColumns lists derived names in field order.
func derivedColumns(res *pipeline.Result) []string {
	var out []string
	for _, f := range res.Fields {
		if d, ok := res.Distributions[f]; ok && d.Derived != "" {
			out = append(out, d.Derived)
		}
		if r, ok := res.Outliers[f]; ok && r.Derived != "" {
			out = append(out, r.Derived)
		}
	}
	return out
}
