package report

import (
	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/utils"
)

type jsonReport struct {
	*pipeline.Result
	Derived []pipeline.Overlay `json:"derived,omitempty"`
}

// JSON renders the result as indented JSON. Derived values are included only
// when opt.IncludeDerived is set.
func JSON(res *pipeline.Result, opt Options) ([]byte, error) {
	out := jsonReport{Result: res}
	if opt.IncludeDerived {
		out.Derived = res.Derived
	}
	return utils.PrettyJSON(out)
}
