package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"mazescore/domain/strategy"
)

// MarkdownRenderer writes GitHub-style pipe tables
type MarkdownRenderer struct {
	opts Options
}

// Render writes the markdown document
func (r *MarkdownRenderer) Render(w io.Writer, res *strategy.Result) error {
	_, err := w.Write(r.document(res))
	return err
}

func (r *MarkdownRenderer) document(res *strategy.Result) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", escapeCell(heading(r.opts)))
	if r.opts.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`\n\n", r.opts.RunID)
	}
	if !res.Window.FirstEvent.IsZero() {
		fmt.Fprintf(&b, "Window: %s to %s, %d of %d rows in window, %d valid choice rows.\n\n",
			res.Window.FirstEvent.Format("2006-01-02 15:04:05"),
			res.Window.Cutoff.Format("2006-01-02 15:04:05"),
			res.Rows.InWindow, res.Rows.Input, res.Rows.ValidChoice)
	}
	for _, frame := range res.Frames() {
		fmt.Fprintf(&b, "## %s\n\n", frame.Title)
		writePipeTable(&b, frame)
		b.WriteString("\n")
	}
	return b.Bytes()
}

func writePipeTable(w io.Writer, frame strategy.Frame) {
	header := append([]string{frame.IndexName}, frame.Columns...)
	fmt.Fprintf(w, "| %s |\n", joinEscaped(header))

	align := make([]string, len(header))
	align[0] = ":---"
	for i := 1; i < len(align); i++ {
		align[i] = "---:"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(align, " | "))

	for i, label := range frame.Index {
		fmt.Fprintf(w, "| %s |\n", joinEscaped(append([]string{label}, frame.Cells[i]...)))
	}
}

func joinEscaped(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}
	return strings.Join(out, " | ")
}

// cellEscaper backslash-escapes markdown table syntax and raw HTML so text
// from input files renders literally.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
