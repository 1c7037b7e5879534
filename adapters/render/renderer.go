// Package render presents analysis results as text, markdown, HTML or JSON.
package render

import (
	"fmt"
	"io"
	"strings"

	"mazescore/domain/core"
	"mazescore/domain/strategy"
)

// Renderer writes one result to w
type Renderer interface {
	Render(w io.Writer, res *strategy.Result) error
}

// Options carries report metadata shared by all formats
type Options struct {
	// Source names the analyzed file, shown in headings.
	Source string
	RunID  core.RunID
	// Color enables ANSI styling in text output.
	Color bool
}

// Formats lists the supported format names
var Formats = []string{"text", "markdown", "html", "json"}

// ForFormat returns the renderer for name
func ForFormat(name string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "":
		return &TextRenderer{opts: opts}, nil
	case "markdown", "md":
		return &MarkdownRenderer{opts: opts}, nil
	case "html":
		return &HTMLRenderer{opts: opts}, nil
	case "json":
		return &JSONRenderer{opts: opts, Indent: true}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

func heading(opts Options) string {
	if opts.Source == "" {
		return "Results"
	}
	return "Results for " + opts.Source
}
