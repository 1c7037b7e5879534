package render

import (
	"encoding/json"
	"io"

	"mazescore/domain/core"
	"mazescore/domain/strategy"
)

// JSONRenderer writes the result and its two display frames
type JSONRenderer struct {
	opts   Options
	Indent bool
}

// Document is the JSON shape shared by the CLI and the HTTP API
type Document struct {
	RunID  core.RunID       `json:"run_id,omitempty"`
	Source string           `json:"source,omitempty"`
	Result *strategy.Result `json:"result"`
	Tables []strategy.Frame `json:"tables"`
}

// NewDocument pairs a result with its display frames
func NewDocument(opts Options, res *strategy.Result) Document {
	return Document{
		RunID:  opts.RunID,
		Source: opts.Source,
		Result: res,
		Tables: res.Frames(),
	}
}

// Render writes the JSON document
func (r *JSONRenderer) Render(w io.Writer, res *strategy.Result) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(r.opts, res))
}
