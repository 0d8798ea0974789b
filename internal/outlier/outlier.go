// Package outlier flags numeric survey answers outside Tukey's fences.
package outlier

import (
	"math"
	"sort"

	"github.com/KaramelBytes/surveylens/internal/rangeparse"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// FenceMultiplier is Tukey's k. It is fixed.
const FenceMultiplier = 1.5

// Entry is one row of a numeric column, keeping the source record so
// reports can show every answer of a flagged respondent.
type Entry struct {
	Index  int
	Record survey.Record
	Value  rangeparse.Scalar
}

// Column is a parsed numeric field across all records.
type Column struct {
	Field   string
	Derived string
	Entries []Entry
}

// Values returns the valid values in row order.
func (c Column) Values() []float64 {
	out := make([]float64, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.Value.Valid {
			out = append(out, e.Value.Value)
		}
	}
	return out
}

// Flagged is an outlier row.
type Flagged struct {
	Index  int           `json:"index"`
	Value  float64       `json:"value"`
	Record survey.Record `json:"record"`
}

// Report holds the fences of one column and the rows outside them.
// When HasBounds is false the column had no valid values and the numeric
// fields are zero.
type Report struct {
	Field     string    `json:"field"`
	Derived   string    `json:"derived"`
	Total     int       `json:"total"`
	Valid     int       `json:"valid"`
	HasBounds bool      `json:"has_bounds"`
	Q1        float64   `json:"q1"`
	Q3        float64   `json:"q3"`
	IQR       float64   `json:"iqr"`
	Lower     float64   `json:"lower"`
	Upper     float64   `json:"upper"`
	Summary   Summary   `json:"summary"`
	Outliers  []Flagged `json:"outliers"`
}

// Detect computes quartiles by linear interpolation over the valid values and
// flags values strictly below Q1-1.5·IQR or strictly above Q3+1.5·IQR.
func Detect(col Column) Report {
	rep := Report{Field: col.Field, Derived: col.Derived, Total: len(col.Entries)}
	vals := col.Values()
	rep.Valid = len(vals)
	if len(vals) == 0 {
		return rep
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	rep.HasBounds = true
	rep.Q1 = Quantile(sorted, 0.25)
	rep.Q3 = Quantile(sorted, 0.75)
	rep.IQR = rep.Q3 - rep.Q1
	rep.Lower = rep.Q1 - FenceMultiplier*rep.IQR
	rep.Upper = rep.Q3 + FenceMultiplier*rep.IQR
	rep.Summary = Summarize(vals)

	for _, e := range col.Entries {
		if !e.Value.Valid {
			continue
		}
		if v := e.Value.Value; v < rep.Lower || v > rep.Upper {
			rep.Outliers = append(rep.Outliers, Flagged{Index: e.Index, Value: v, Record: e.Record})
		}
	}
	return rep
}

// Quantile interpolates linearly between the closest ranks of sorted at
// position q·(n-1).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
