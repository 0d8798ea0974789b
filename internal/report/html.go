package report

import (
	stdhtml "html"
	"regexp"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/KaramelBytes/surveylens/internal/pipeline"
)

var sectionHeader = regexp.MustCompile(`(?m)^\[([A-Z][A-Z -]*)\]`)

// HTML renders the Markdown report as a standalone page. Bracketed section
// markers become headings. Answers come from a public form, so the text is
// escaped before rendering and raw HTML or unsafe links never reach the page.
func HTML(res *pipeline.Result, opt Options) []byte {
	md := stdhtml.EscapeString(Markdown(res, opt))
	md = sectionHeader.ReplaceAllString(md, "## $1\n")
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	title := "Survey report"
	if res.Dataset != "" {
		title += ": " + res.Dataset
	}
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML | html.Safelink,
		Title: title,
	})
	return markdown.ToHTML([]byte(md), p, r)
}
