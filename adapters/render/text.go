package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mazescore/domain/strategy"

	"github.com/fatih/color"
)

// TextRenderer writes aligned plain-text tables
type TextRenderer struct {
	opts Options
}

// Render writes both tables separated by a blank line
func (r *TextRenderer) Render(w io.Writer, res *strategy.Result) error {
	title := color.New(color.Bold, color.FgCyan)
	if r.opts.Color {
		title.EnableColor()
	} else {
		title.DisableColor()
	}

	if _, err := fmt.Fprintf(w, "%s\n", title.Sprint(heading(r.opts)+":")); err != nil {
		return err
	}
	for _, frame := range res.Frames() {
		if _, err := fmt.Fprintf(w, "\n%s\n", title.Sprint(frame.Title+":")); err != nil {
			return err
		}
		if err := writeAligned(w, frame); err != nil {
			return err
		}
	}
	return nil
}

func writeAligned(w io.Writer, frame strategy.Frame) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, frame.IndexName+"\t"+strings.Join(frame.Columns, "\t"))
	for i, label := range frame.Index {
		fmt.Fprintln(tw, label+"\t"+strings.Join(frame.Cells[i], "\t"))
	}
	return tw.Flush()
}
