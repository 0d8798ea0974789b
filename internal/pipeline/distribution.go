package pipeline

import (
	"sort"

	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/KaramelBytes/surveylens/internal/utils"
)

// Bucket is one category of a distribution.
type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Missing bool    `json:"missing,omitempty"`
}

// Distribution counts answers per category. Percentages are over Total, which
// includes missing answers, so they add up to 100 up to rounding.
type Distribution struct {
	Field   string          `json:"field"`
	Derived string          `json:"derived,omitempty"`
	Role    survey.Role     `json:"role"`
	Order   survey.Ordering `json:"order"`
	Total   int             `json:"total"`
	Buckets []Bucket        `json:"buckets"`
}

// Count returns the count of a label, 0 when absent. Missing answers are
// looked up with the missing label.
func (d Distribution) Count(label string) int {
	for _, b := range d.Buckets {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

type bucketKey struct {
	label   string
	missing bool
}

// distribute groups labels ("" meaning missing) and orders the buckets by the
// field's ordering.
func distribute(spec survey.FieldSpec, labels []string, missingLabel string) Distribution {
	d := Distribution{Field: spec.Field, Role: spec.Role, Order: spec.Ordering(), Total: len(labels)}
	if spec.Role == survey.RoleCategoricalNormalized {
		d.Derived = spec.DerivedName()
	}
	counts := map[bucketKey]int{}
	var seen []bucketKey
	for _, l := range labels {
		k := bucketKey{label: l, missing: l == ""}
		if k.missing {
			k.label = missingLabel
		}
		if _, ok := counts[k]; !ok {
			seen = append(seen, k)
		}
		counts[k]++
	}
	order(seen, counts, d.Order)
	d.Buckets = make([]Bucket, len(seen))
	for i, k := range seen {
		d.Buckets[i] = Bucket{Label: k.label, Count: counts[k], Missing: k.missing, Percent: percent(counts[k], d.Total)}
	}
	return d
}

// order sorts keys in place. first-seen keeps input order. lexical compares
// accent-folded labels and puts the missing bucket last. frequency sorts by
// count, then lexically.
func order(keys []bucketKey, counts map[bucketKey]int, o survey.Ordering) {
	lexLess := func(a, b bucketKey) bool {
		if a.missing != b.missing {
			return b.missing
		}
		fa, fb := utils.Fold(a.label), utils.Fold(b.label)
		if fa != fb {
			return fa < fb
		}
		return a.label < b.label
	}
	switch o {
	case survey.OrderLexical:
		sort.SliceStable(keys, func(i, j int) bool { return lexLess(keys[i], keys[j]) })
	case survey.OrderFrequency:
		sort.SliceStable(keys, func(i, j int) bool {
			ci, cj := counts[keys[i]], counts[keys[j]]
			if ci != cj {
				return ci > cj
			}
			return lexLess(keys[i], keys[j])
		})
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
