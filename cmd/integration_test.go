package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const surveyCSV = "Municipio donde vive actualmente,Edad en años cumplidos,Seleccione su sexo\n" +
	"Colima centro,18,Mujer\n" +
	"Villa de Álvarez,19,Hombre\n" +
	"xyz-unknown-town,20,Mujer\n" +
	",21,\n" +
	"comala,más de 20,Mujer\n" +
	"colima,95,Hombre\n"

// resetFlags restores every flag to its default so state does not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeSurvey(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(surveyCSV), 0o644); err != nil {
		t.Fatalf("write survey: %v", err)
	}
	return p
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "encuesta.csv")

	out := mustRun(t, "analyze", path, "--preview", "1")
	for _, want := range []string{
		"[PREVIEW] first 1 of 6 records",
		"[SURVEY SUMMARY]",
		"Records: 6",
		"• Colima: 2 (33.3%)",
		"• Villa de Álvarez: 1 (16.7%)",
		"• Otro: 1 (16.7%)",
		"• Sin respuesta: 1 (16.7%)",
		"outliers: 1",
		"row 6: 95",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCLI_AnalyzeJSONAndDerived(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "encuesta.csv")
	reportPath := filepath.Join(home, "out", "report.json")
	derivedPath := filepath.Join(home, "out", "derived.csv")

	mustRun(t, "analyze", path, "--format", "json", "-o", reportPath, "--derived-out", derivedPath, "--missing-label", "N/A")

	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		Records       int `json:"records"`
		Distributions map[string]struct {
			Buckets []struct {
				Label string `json:"label"`
				Count int    `json:"count"`
			} `json:"buckets"`
		} `json:"distributions"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Records != 6 {
		t.Fatalf("expected 6 records, got %d", rep.Records)
	}
	found := false
	for _, bk := range rep.Distributions["Municipio donde vive actualmente"].Buckets {
		if bk.Label == "N/A" && bk.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected N/A bucket in %s", string(b))
	}

	d, err := os.ReadFile(derivedPath)
	if err != nil {
		t.Fatalf("read derived: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(d)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "Municipio_Normalizado,Edad_Num") {
		t.Fatalf("unexpected derived header: %s", lines[0])
	}
	if !strings.HasSuffix(lines[5], "Comala,23") {
		t.Fatalf("expected sentinel for 'más de 20', got %s", lines[5])
	}
}

func TestCLI_AnalyzeHTML(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "encuesta.csv")
	out := mustRun(t, "analyze", path, "--format", "html")
	if !strings.Contains(out, "<html") || !strings.Contains(out, "Villa de Álvarez: 1 (16.7%)") {
		t.Fatalf("expected an HTML page:\n%s", out)
	}
}

func TestCLI_AnalyzeStrictFailsOnMissingColumns(t *testing.T) {
	home := setupHome(t)
	path := writeSurvey(t, home, "encuesta.csv")
	if _, err := runCmd(t, "analyze", path, "--strict"); err == nil {
		t.Fatalf("expected --strict to fail with the default 16-field taxonomy")
	}
}

func TestCLI_AnalyzeURL(t *testing.T) {
	setupHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(surveyCSV))
	}))
	defer srv.Close()

	out := mustRun(t, "analyze", "--url", srv.URL+"/pub?output=csv")
	if !strings.Contains(out, "Records: 6") {
		t.Fatalf("expected fetched survey to be analyzed:\n%s", out)
	}
}

func TestCLI_AnalyzeNoSource(t *testing.T) {
	setupHome(t)
	if _, err := runCmd(t, "analyze"); err == nil {
		t.Fatalf("expected error without a source")
	}
}

func TestCLI_AnalyzeBatchAvoidsOverwrite(t *testing.T) {
	home := setupHome(t)
	writeSurvey(t, filepath.Join(home, "d1"), "metrics.csv")
	writeSurvey(t, filepath.Join(home, "d2"), "metrics.csv")
	outDir := filepath.Join(home, "reports")

	mustRun(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--quiet")

	b1 := filepath.Join(outDir, "metrics.report.md")
	b2 := filepath.Join(outDir, "metrics__2.report.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing report: %v", err)
		}
		if !strings.Contains(string(body), "[DISTRIBUTIONS]") {
			t.Fatalf("expected distributions in %s", p)
		}
	}
}

func TestCLI_AnalyzeBatchKeepGoing(t *testing.T) {
	home := setupHome(t)
	good := writeSurvey(t, home, "good.csv")
	bad := filepath.Join(home, "bad.txt")
	if err := os.WriteFile(bad, []byte("x"), 0o644); err != nil {
		t.Fatalf("write bad: %v", err)
	}

	out, err := runCmd(t, "analyze-batch", good, bad, "--keep-going")
	if err == nil {
		t.Fatalf("expected an error summarizing the failed file")
	}
	if !strings.Contains(out, "Records: 6") || !strings.Contains(out, "⚠ Skipping bad.txt") {
		t.Fatalf("expected good report and skip notice:\n%s", out)
	}
}

func TestCLI_RulesTryAndCheck(t *testing.T) {
	home := setupHome(t)

	out := mustRun(t, "rules", "try", "municipio", "Villa de Álvarez, Colima", "Guadalajara")
	if !strings.Contains(out, "→ Villa de Álvarez (rule 1") {
		t.Fatalf("expected villa rule to win:\n%s", out)
	}
	if !strings.Contains(out, "\"Guadalajara\" → Otro (default)") {
		t.Fatalf("expected default label:\n%s", out)
	}

	shadowed := "rule_sets:\n" +
		"  - name: ciudad\n" +
		"    rules:\n" +
		"      - label: Colima\n" +
		"        patterns: [colima]\n" +
		"      - label: Villa\n" +
		"        patterns: [villa colima]\n" +
		"    default:\n" +
		"      label: Otra\n"
	p := filepath.Join(home, "rules.yaml")
	if err := os.WriteFile(p, []byte(shadowed), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	out, err := runCmd(t, "rules", "check", p)
	if err == nil {
		t.Fatalf("expected shadowed pattern to fail validation")
	}
	if !strings.Contains(out, "shadowed") {
		t.Fatalf("expected shadowing explanation:\n%s", out)
	}

	list := mustRun(t, "rules", "list")
	if !strings.Contains(list, "institucion") || !strings.Contains(list, "municipio") {
		t.Fatalf("expected built-in rule sets:\n%s", list)
	}
}

func TestCLI_FieldsTryListCheck(t *testing.T) {
	home := setupHome(t)

	out := mustRun(t, "fields", "try", "Edad_Num", "20 a 25", "menos de 10", "abc")
	for _, want := range []string{`"20 a 25" → 22.5`, `"menos de 10" → 5`, `"abc" → missing`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	out = mustRun(t, "fields", "list")
	if !strings.Contains(out, "Tiempo_Estudio_Num") || !strings.Contains(out, "range-zero-floor") {
		t.Fatalf("expected taxonomy listing:\n%s", out)
	}

	path := writeSurvey(t, home, "encuesta.csv")
	out, err := runCmd(t, "fields", "check", path)
	if err == nil {
		t.Fatalf("expected missing fields to be reported as an error")
	}
	if !strings.Contains(out, "✓ Seleccione su sexo") || !strings.Contains(out, "✗ ") {
		t.Fatalf("expected present and absent markers:\n%s", out)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := setupHome(t)

	mustRun(t, "config", "set", "missing_label", "No contestó")
	mustRun(t, "config", "set", "output_format", "json")
	if _, err := runCmd(t, "config", "set", "output_format", "pdf"); err == nil {
		t.Fatalf("expected invalid format to be rejected")
	}
	if _, err := os.Stat(filepath.Join(home, ".surveylens", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}

	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "missing_label: No contestó") || !strings.Contains(out, "output_format: json") {
		t.Fatalf("unexpected config:\n%s", out)
	}
}
