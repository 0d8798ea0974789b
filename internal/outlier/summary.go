package outlier

import "github.com/montanaflynn/stats"

// Summary describes the valid values of a column.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

// Summarize computes descriptive statistics. Std is the sample standard
// deviation and is zero for fewer than two values.
func Summarize(vals []float64) Summary {
	s := Summary{Count: len(vals)}
	if len(vals) == 0 {
		return s
	}
	data := stats.Float64Data(vals)
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	if len(vals) > 1 {
		s.Std, _ = data.StandardDeviationSample()
	}
	return s
}
