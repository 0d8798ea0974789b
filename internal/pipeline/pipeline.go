// Package pipeline runs category normalization, range coercion and outlier
// detection over a loaded survey dataset.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/surveylens/internal/logging"
	"github.com/KaramelBytes/surveylens/internal/normalize"
	"github.com/KaramelBytes/surveylens/internal/outlier"
	"github.com/KaramelBytes/surveylens/internal/rangeparse"
	"github.com/KaramelBytes/surveylens/internal/survey"
)

// DefaultMissingLabel names the bucket of unanswered questions.
const DefaultMissingLabel = "Sin respuesta"

// Options controls a pipeline run.
type Options struct {
	// MissingLabel labels the bucket counting blank answers.
	MissingLabel string
	// Workers bounds how many fields are processed at once; 0 means GOMAXPROCS.
	Workers int
	// RuleSets resolves categorical-normalized fields; nil means the built-ins.
	RuleSets *normalize.Registry
	Logger   *slog.Logger
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{MissingLabel: DefaultMissingLabel}
}

// Overlay holds the derived values of one record, keyed by derived name.
type Overlay map[string]survey.Value

// Result is everything a report needs. Maps are keyed by source field name;
// Fields gives the configured order for rendering.
type Result struct {
	RunID         string                    `json:"run_id"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Dataset       string                    `json:"dataset"`
	Records       int                       `json:"records"`
	Fields        []string                  `json:"fields"`
	Distributions map[string]Distribution   `json:"distributions"`
	Outliers      map[string]outlier.Report `json:"outliers"`
	FreeText      []string                  `json:"free_text,omitempty"`
	Skipped       []string                  `json:"skipped,omitempty"`
	Derived       []Overlay                 `json:"-"`
}

// Run validates specs and processes ds. Errors come only from configuration;
// malformed answers degrade to missing values or default labels.
func Run(ctx context.Context, ds *survey.Dataset, specs []survey.FieldSpec, opt Options) (*Result, error) {
	plan, err := NewPlan(specs, opt.RuleSets)
	if err != nil {
		return nil, err
	}
	return plan.Run(ctx, ds, opt)
}

type fieldOutput struct {
	dist    *Distribution
	report  *outlier.Report
	derived []survey.Value
}

// Run processes the dataset. Fields absent from the dataset are skipped and
// listed in Result.Skipped. The dataset is only read.
func (p *Plan) Run(ctx context.Context, ds *survey.Dataset, opt Options) (*Result, error) {
	if opt.MissingLabel == "" {
		opt.MissingLabel = DefaultMissingLabel
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logging.Module(opt.Logger, "pipeline")

	res := &Result{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now(),
		Dataset:       ds.Name,
		Records:       ds.Len(),
		Distributions: map[string]Distribution{},
		Outliers:      map[string]outlier.Report{},
	}
	var active []step
	for _, st := range p.steps {
		if !ds.HasField(st.spec.Field) {
			res.Skipped = append(res.Skipped, st.spec.Field)
			log.Debug("field absent, skipping", "field", st.spec.Field)
			continue
		}
		active = append(active, st)
	}

	records := ds.Records()
	outs := make([]fieldOutput, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, st := range active {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outs[i] = processField(st, records, opt.MissingLabel)
			log.Debug("field processed", "field", st.spec.Field, "role", st.spec.Role)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Derived = make([]Overlay, len(records))
	for i := range res.Derived {
		res.Derived[i] = Overlay{}
	}
	for i, st := range active {
		out := outs[i]
		if st.spec.Role == survey.RoleFreeText {
			res.FreeText = append(res.FreeText, st.spec.Field)
			continue
		}
		res.Fields = append(res.Fields, st.spec.Field)
		if out.dist != nil {
			res.Distributions[st.spec.Field] = *out.dist
		}
		if out.report != nil {
			res.Outliers[st.spec.Field] = *out.report
		}
		if out.derived != nil {
			name := st.spec.DerivedName()
			for r, v := range out.derived {
				res.Derived[r][name] = v
			}
		}
	}
	log.Debug("pipeline finished", "records", res.Records, "fields", len(res.Fields), "skipped", len(res.Skipped))
	return res, nil
}

func processField(st step, records []survey.Record, missingLabel string) fieldOutput {
	var out fieldOutput
	field := st.spec.Field
	switch st.spec.Role {
	case survey.RoleCategoricalRaw:
		labels := make([]string, len(records))
		for i, r := range records {
			labels[i] = rawLabel(r.Get(field))
		}
		d := distribute(st.spec, labels, missingLabel)
		out.dist = &d

	case survey.RoleCategoricalNormalized:
		labels := make([]string, len(records))
		out.derived = make([]survey.Value, len(records))
		for i, r := range records {
			v := r.Get(field)
			if v.Blank() {
				out.derived[i] = survey.Missing()
				continue
			}
			labels[i] = st.matcher.Normalize(v.String())
			out.derived[i] = survey.Text(labels[i])
		}
		d := distribute(st.spec, labels, missingLabel)
		out.dist = &d

	case survey.RoleRangeNumeric:
		col := ParseColumn(records, field, st.parser)
		col.Derived = st.spec.DerivedName()
		out.derived = make([]survey.Value, len(records))
		for i, e := range col.Entries {
			out.derived[i] = e.Value.SurveyValue()
		}
		rep := outlier.Detect(col)
		out.report = &rep
		if st.spec.Distribution {
			labels := make([]string, len(records))
			for i, r := range records {
				labels[i] = rawLabel(r.Get(field))
			}
			d := distribute(st.spec, labels, missingLabel)
			out.dist = &d
		}
	}
	return out
}

// rawLabel is the trimmed answer; "" marks a missing answer.
func rawLabel(v survey.Value) string {
	if v.IsMissing() {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// ParseColumn applies a range parser to one field of every record.
func ParseColumn(records []survey.Record, field string, p rangeparse.Parser) outlier.Column {
	col := outlier.Column{Field: field, Entries: make([]outlier.Entry, len(records))}
	for i, r := range records {
		col.Entries[i] = outlier.Entry{Index: i, Record: r, Value: p.Parse(r.Get(field))}
	}
	return col
}
