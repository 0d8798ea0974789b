package ingest

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/surveylens/internal/survey"
)

// HeaderReport lists which configured fields a dataset carries.
type HeaderReport struct {
	Present []string
	Absent  []string
	// Extra are dataset columns no spec mentions.
	Extra []string
}

// OK reports whether every configured field is present.
func (h HeaderReport) OK() bool { return len(h.Absent) == 0 }

func (h HeaderReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d configured fields present", len(h.Present), len(h.Present)+len(h.Absent))
	if len(h.Absent) > 0 {
		fmt.Fprintf(&b, "; missing: %s", strings.Join(h.Absent, " | "))
	}
	return b.String()
}

// CheckHeaders compares the dataset's columns with the configured fields.
func CheckHeaders(ds *survey.Dataset, specs []survey.FieldSpec) HeaderReport {
	var rep HeaderReport
	used := map[string]bool{}
	for _, s := range specs {
		used[s.Field] = true
		if ds.HasField(s.Field) {
			rep.Present = append(rep.Present, s.Field)
		} else {
			rep.Absent = append(rep.Absent, s.Field)
		}
	}
	for _, f := range ds.Fields() {
		if !used[f] {
			rep.Extra = append(rep.Extra, f)
		}
	}
	return rep
}
