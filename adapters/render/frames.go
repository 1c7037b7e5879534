package render

import (
	"fmt"
	"io"
	"strings"

	"mazescore/domain/strategy"

	"github.com/fatih/color"
)

// WriteFrames writes free-standing frames, such as a cohort summary, in text
// or markdown. HTML and JSON callers render a Document instead.
func WriteFrames(w io.Writer, format, title string, frames []strategy.Frame, useColor bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		style := color.New(color.Bold, color.FgCyan)
		if useColor {
			style.EnableColor()
		} else {
			style.DisableColor()
		}
		if _, err := fmt.Fprintln(w, style.Sprint(title+":")); err != nil {
			return err
		}
		for _, frame := range frames {
			if _, err := fmt.Fprintf(w, "\n%s\n", style.Sprint(frame.Title+":")); err != nil {
				return err
			}
			if err := writeAligned(w, frame); err != nil {
				return err
			}
		}
		return nil
	case "markdown", "md":
		if _, err := fmt.Fprintf(w, "# %s\n\n", escapeCell(title)); err != nil {
			return err
		}
		for _, frame := range frames {
			fmt.Fprintf(w, "## %s\n\n", frame.Title)
			writePipeTable(w, frame)
			fmt.Fprintln(w)
		}
		return nil
	}
	return fmt.Errorf("format %q cannot render tables on their own", format)
}
