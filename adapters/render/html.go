package render

import (
	stdhtml "html"
	"io"

	"mazescore/domain/strategy"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLRenderer converts the markdown report into a standalone HTML page
type HTMLRenderer struct {
	opts Options
}

// Render writes the page
func (r *HTMLRenderer) Render(w io.Writer, res *strategy.Result) error {
	md := (&MarkdownRenderer{opts: r.opts}).document(res)
	_, err := w.Write(ToHTML(md, heading(r.opts)))
	return err
}

// ToHTML renders markdown with table support as a complete HTML page. Raw
// HTML in md is dropped and title is escaped.
func ToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		// Smartypants writes the title unescaped.
		Title: stdhtml.EscapeString(title),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML(md, p, renderer)
}
