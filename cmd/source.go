package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "github.com/KaramelBytes/surveylens/internal/config"
	"github.com/KaramelBytes/surveylens/internal/ingest"
	"github.com/KaramelBytes/surveylens/internal/pipeline"
	"github.com/KaramelBytes/surveylens/internal/report"
	"github.com/KaramelBytes/surveylens/internal/survey"
	"github.com/KaramelBytes/surveylens/internal/utils"
	"github.com/spf13/pflag"
)

// sourceFlags are the loading and schema flags shared by analyze commands.
type sourceFlags struct {
	fields       string
	rules        string
	delimiter    string
	sheetName    string
	sheetIndex   int
	missingLabel string
	workers      int
}

func (s *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.fields, "fields", "", "YAML field file (default: built-in questionnaire taxonomy)")
	fs.StringVar(&s.rules, "rules", "", "YAML rule set file overriding built-in rule sets")
	fs.StringVar(&s.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (auto-detect if omitted)")
	fs.StringVar(&s.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&s.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.StringVar(&s.missingLabel, "missing-label", "", "label for unanswered questions (overrides config)")
	fs.IntVar(&s.workers, "workers", 0, "fields processed concurrently (0 = config or GOMAXPROCS)")
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return &cfgpkg.Global{}
	}
	return cfg
}

// ingestOptions merges flags over config.
func (s *sourceFlags) ingestOptions() (ingest.Options, error) {
	c := currentConfig()
	opt := ingest.Options{SheetName: c.SheetName, SheetIndex: c.SheetIndex}
	if s.sheetName != "" {
		opt.SheetName = s.sheetName
	}
	if s.sheetIndex > 0 {
		opt.SheetIndex = s.sheetIndex
	}
	delim := c.Delimiter
	if s.delimiter != "" {
		delim = s.delimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	return opt, nil
}

func (s *sourceFlags) schema() (*cfgpkg.Schema, error) {
	c := currentConfig()
	fields, rules := c.FieldsFile, c.RulesFile
	if s.fields != "" {
		fields = s.fields
	}
	if s.rules != "" {
		rules = s.rules
	}
	return cfgpkg.LoadSchema(fields, rules)
}

func (s *sourceFlags) pipelineOptions(sc *cfgpkg.Schema) pipeline.Options {
	c := currentConfig()
	opt := pipeline.Options{
		MissingLabel: c.MissingLabel,
		Workers:      c.Workers,
		RuleSets:     sc.RuleSets,
		Logger:       logger,
	}
	if s.missingLabel != "" {
		opt.MissingLabel = s.missingLabel
	}
	if s.workers > 0 {
		opt.Workers = s.workers
	}
	return opt
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// load reads a file path or, when path is empty, the URL.
func (s *sourceFlags) load(ctx context.Context, path, url string) (*survey.Dataset, error) {
	opt, err := s.ingestOptions()
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loading survey file", "path", path)
		return ingest.LoadFile(path, opt)
	}
	if url == "" {
		return nil, fmt.Errorf("no survey source: pass a file, --url, or set source_url")
	}
	logger.Debug("fetching survey", "url", url)
	return ingest.FetchCSV(ctx, url, currentConfig().HTTPTimeout(), opt)
}

// analyzeDataset runs the pipeline and warns about configured columns the
// export lacks.
func (s *sourceFlags) analyzeDataset(ctx context.Context, ds *survey.Dataset, sc *cfgpkg.Schema, quiet bool) (*pipeline.Result, error) {
	hr := ingest.CheckHeaders(ds, sc.Fields)
	if !hr.OK() && !quiet {
		fmt.Fprintf(os.Stderr, "⚠ %s\n", hr)
	}
	return pipeline.Run(ctx, ds, sc.Fields, s.pipelineOptions(sc))
}

// renderOptions holds output flags shared by analyze commands.
// maxOutlierRows < 0 defers to config.
type renderOptions struct {
	format         string
	maxOutlierRows int
	recordFields   string
	includeDerived bool
	preview        int
}

func (r *renderOptions) register(fs *pflag.FlagSet) {
	fs.StringVar(&r.format, "format", "", "output format: md|json|html (default from config)")
	fs.IntVar(&r.maxOutlierRows, "max-outlier-rows", -1, "outlier rows listed per numeric field (0 = all; default from config)")
	fs.StringVar(&r.recordFields, "record-fields", "", "'|'-separated source fields shown next to outlier rows (default: all answered)")
	fs.BoolVar(&r.includeDerived, "include-derived", false, "JSON: include per-record derived values")
	fs.IntVar(&r.preview, "preview", 0, "Markdown: show the first N records with their derived values")
}

func (r renderOptions) resolvedFormat() (string, error) {
	f := r.format
	if f == "" {
		f = currentConfig().OutputFormat
	}
	switch strings.ToLower(f) {
	case "", "md", "markdown":
		return "md", nil
	case "json":
		return "json", nil
	case "html":
		return "html", nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use md|json|html)", f)
	}
}

func (r renderOptions) render(ds *survey.Dataset, res *pipeline.Result) ([]byte, string, error) {
	format, err := r.resolvedFormat()
	if err != nil {
		return nil, "", err
	}
	opt := report.DefaultOptions()
	opt.MaxOutlierRows = currentConfig().MaxOutlierRows
	if r.maxOutlierRows >= 0 {
		opt.MaxOutlierRows = r.maxOutlierRows
	}
	if r.recordFields != "" {
		for _, f := range strings.Split(r.recordFields, "|") {
			if f = strings.TrimSpace(f); f != "" {
				opt.RecordFields = append(opt.RecordFields, f)
			}
		}
	}
	opt.IncludeDerived = r.includeDerived
	switch format {
	case "json":
		b, err := report.JSON(res, opt)
		return b, format, err
	case "html":
		return report.HTML(res, opt), format, nil
	}
	md := report.Markdown(res, opt)
	if p := report.Preview(ds, res, r.preview); p != "" {
		md = p + "\n" + md
	}
	return []byte(md), format, nil
}

// uniquePath returns dir/base.ext, or dir/base__N.ext when that exists.
func uniquePath(dir, base, ext string) string {
	out := filepath.Join(dir, base+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

// sheetSlug makes a sheet name safe for filenames.
func sheetSlug(name string) string {
	s := utils.Fold(name)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	ss := strings.Trim(b.String(), "-")
	if ss == "" {
		ss = "sheet"
	}
	return ss
}
