package survey

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Number(math.NaN()).IsMissing(), "NaN is stored as missing")
	assert.True(t, Text("   ").Blank())
	assert.False(t, Text("x").Blank())

	n, ok := Number(22.5).Number()
	require.True(t, ok)
	assert.Equal(t, 22.5, n)
	assert.Equal(t, "22.5", Number(22.5).String())

	_, ok = Text("22.5").Number()
	assert.False(t, ok, "text is never implicitly numeric")
}

func TestDatasetAppendPadsAndRejects(t *testing.T) {
	ds, err := NewDataset("demo", []string{"a", "b", "c"})
	require.NoError(t, err)

	require.NoError(t, ds.Append(Text("1")))
	rec := ds.Record(0)
	assert.Equal(t, "1", rec.Get("a").String())
	assert.True(t, rec.Get("c").IsMissing())
	assert.True(t, rec.Get("zzz").IsMissing())
	assert.False(t, rec.Has("zzz"))

	err = ds.Append(Text("1"), Text("2"), Text("3"), Text("4"))
	assert.Error(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestDatasetRejectsDuplicateHeader(t *testing.T) {
	_, err := NewDataset("dup", []string{"a", "a"})
	assert.Error(t, err)
}

func TestRecordIsImmutableThroughAccessors(t *testing.T) {
	ds, err := NewDataset("demo", []string{"a"})
	require.NoError(t, err)
	require.NoError(t, ds.Append(Text("orig")))

	vals := ds.Record(0).Values()
	vals[0] = Text("changed")
	fields := ds.Record(0).Fields()
	fields[0] = "renamed"

	assert.Equal(t, "orig", ds.Record(0).Get("a").String())
	assert.True(t, ds.HasField("a"))
}

func TestRecordMarshalJSONKeepsOrder(t *testing.T) {
	ds, err := NewDataset("demo", []string{"z", "a", "m"})
	require.NoError(t, err)
	require.NoError(t, ds.Append(Text("x"), Number(3), Missing()))

	b, err := json.Marshal(ds.Record(0))
	require.NoError(t, err)
	assert.Equal(t, `{"z":"x","a":3,"m":null}`, string(b))
}

func TestValidateSpecs(t *testing.T) {
	require.NoError(t, ValidateSpecs(DefaultFieldSpecs()))

	sentinel := 10.0
	bad := []FieldSpec{
		{Field: "", Role: RoleCategoricalRaw},
		{Field: "m", Role: RoleCategoricalNormalized},
		{Field: "n", Role: "numeric"},
		{Field: "o", Role: RoleCategoricalRaw, Sentinel: &sentinel},
		{Field: "m", Role: RoleCategoricalRaw, Order: "random"},
	}
	err := ValidateSpecs(bad)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	// empty field, missing rule set, bad role, misplaced sentinel, duplicate field, bad order
	assert.Len(t, verrs, 6)
	assert.Contains(t, err.Error(), "ruleset is required")
}

func TestValidateSpecsDerivedCollision(t *testing.T) {
	specs := []FieldSpec{
		{Field: "a", Role: RoleRangeNumeric, Derived: "X"},
		{Field: "b", Role: RoleRangeNumeric, Derived: "X"},
	}
	err := ValidateSpecs(specs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `derived name "X"`)
}

func TestValidateSpecsRejectsNonFiniteSentinel(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := v
		err := ValidateSpecs([]FieldSpec{{Field: "edad", Role: RoleRangeNumeric, Sentinel: &v}})
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs, "sentinel %v", v)
		require.Len(t, verrs, 1)
		assert.Contains(t, verrs[0].Message, "finite")
	}
}

func TestValidateSpecsDerivedShadowsSource(t *testing.T) {
	specs := []FieldSpec{
		{Field: "edad", Role: RoleRangeNumeric, Derived: "nombre"},
		{Field: "nombre", Role: RoleFreeText},
	}
	err := ValidateSpecs(specs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides with a source field")

	require.NoError(t, ValidateSpecs([]FieldSpec{
		{Field: "edad", Role: RoleRangeNumeric},
		{Field: "ciudad", Role: RoleCategoricalNormalized, RuleSet: "municipio"},
	}))
}

func TestFieldSpecDefaults(t *testing.T) {
	s := FieldSpec{Field: "f", Role: RoleRangeNumeric}
	assert.Equal(t, "f (numeric)", s.DerivedName())
	assert.Equal(t, "f (normalized)", FieldSpec{Field: "f", Role: RoleCategoricalNormalized}.DerivedName())
	assert.Equal(t, OrderFirstSeen, s.Ordering())
	assert.False(t, s.Aggregated())
	s.Distribution = true
	assert.True(t, s.Aggregated())
}
