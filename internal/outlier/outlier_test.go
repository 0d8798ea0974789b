package outlier

import (
	"testing"

	"github.com/KaramelBytes/surveylens/internal/rangeparse"
	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(t *testing.T, vals ...rangeparse.Scalar) Column {
	t.Helper()
	ds, err := survey.NewDataset("t", []string{"id", "edad"})
	require.NoError(t, err)
	col := Column{Field: "edad", Derived: "Edad_Num"}
	for i, v := range vals {
		require.NoError(t, ds.Append(survey.Number(float64(i)), v.SurveyValue()))
		col.Entries = append(col.Entries, Entry{Index: i, Record: ds.Record(i), Value: v})
	}
	return col
}

func nums(vs ...float64) []rangeparse.Scalar {
	out := make([]rangeparse.Scalar, len(vs))
	for i, v := range vs {
		out[i] = rangeparse.Of(v)
	}
	return out
}

func TestDetectTukeyFences(t *testing.T) {
	rep := Detect(column(t, nums(1, 2, 3, 4, 5, 100)...))
	require.True(t, rep.HasBounds)
	assert.InDelta(t, 2.25, rep.Q1, 1e-12)
	assert.InDelta(t, 4.75, rep.Q3, 1e-12)
	assert.InDelta(t, 2.5, rep.IQR, 1e-12)
	assert.InDelta(t, -1.5, rep.Lower, 1e-12)
	assert.InDelta(t, 8.5, rep.Upper, 1e-12)
	require.Len(t, rep.Outliers, 1)
	assert.Equal(t, 100.0, rep.Outliers[0].Value)
	assert.Equal(t, 5, rep.Outliers[0].Index)

	// The flagged row carries the whole source record.
	id, ok := rep.Outliers[0].Record.Get("id").Number()
	require.True(t, ok)
	assert.Equal(t, 5.0, id)
}

func TestDetectSkipsMissing(t *testing.T) {
	vals := append(nums(1, 2), rangeparse.Missing)
	vals = append(vals, nums(3, 4, 5, 100)...)
	vals = append(vals, rangeparse.Missing)
	rep := Detect(column(t, vals...))
	assert.Equal(t, 8, rep.Total)
	assert.Equal(t, 6, rep.Valid)
	assert.InDelta(t, 2.25, rep.Q1, 1e-12)
	require.Len(t, rep.Outliers, 1)
	assert.Equal(t, 6, rep.Outliers[0].Index)
}

func TestDetectAllMissing(t *testing.T) {
	rep := Detect(column(t, rangeparse.Missing, rangeparse.Missing))
	assert.False(t, rep.HasBounds)
	assert.Empty(t, rep.Outliers)
	assert.Equal(t, 2, rep.Total)
	assert.Zero(t, rep.Valid)

	rep = Detect(Column{Field: "vacía"})
	assert.False(t, rep.HasBounds)
	assert.Empty(t, rep.Outliers)
}

func TestDetectZeroVariance(t *testing.T) {
	rep := Detect(column(t, nums(7, 7, 7, 7)...))
	require.True(t, rep.HasBounds)
	assert.Zero(t, rep.IQR)
	assert.Equal(t, 7.0, rep.Lower)
	assert.Equal(t, 7.0, rep.Upper)
	assert.Empty(t, rep.Outliers, "values equal to a fence are not outliers")
}

func TestDetectLowOutlier(t *testing.T) {
	rep := Detect(column(t, nums(-50, 10, 11, 12, 13, 14)...))
	require.Len(t, rep.Outliers, 1)
	assert.Equal(t, -50.0, rep.Outliers[0].Value)
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(s, 0))
	assert.Equal(t, 4.0, Quantile(s, 1))
	assert.InDelta(t, 2.5, Quantile(s, 0.5), 1e-12)
	assert.InDelta(t, 1.75, Quantile(s, 0.25), 1e-12)
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
	assert.Equal(t, 9.0, Quantile([]float64{9}, 0.75))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4, 5, 100})
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.InDelta(t, 19.1666666, s.Mean, 1e-6)
	assert.InDelta(t, 3.5, s.Median, 1e-12)
	assert.Greater(t, s.Std, 0.0)

	one := Summarize([]float64{4})
	assert.Zero(t, one.Std)
	assert.Equal(t, Summary{}, Summarize(nil))
}
