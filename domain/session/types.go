// Package session models one recorded behavioral session as it arrives from a
// loader: a header plus string cells, addressed by an explicit column mapping.
package session

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Table is a loaded event log. Cells are kept as text; loaders coerce every
// cell value to its string form before handing the table over.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NumColumns returns the header width
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Cell returns the cell at (row, col) or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// TrialID is the orderable trial identifier of a row. Numeric holds the parsed
// value when Raw is a number.
type TrialID struct {
	Raw       string
	Numeric   float64
	IsNumeric bool
}

// ParseTrialID parses a trial cell
func ParseTrialID(raw string) TrialID {
	raw = strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return TrialID{Raw: raw, Numeric: f, IsNumeric: true}
	}
	return TrialID{Raw: raw}
}

// String returns the raw trial text
func (id TrialID) String() string {
	return id.Raw
}

// EventRow is one normalized record of the event log. Text fields other than
// PhaseLabel are lower-cased.
type EventRow struct {
	Index         int       `json:"index"`
	Timestamp     time.Time `json:"timestamp"`
	EventLabel    string    `json:"event"`
	ActivePoke    string    `json:"active_poke"`
	CorrectChoice string    `json:"correct_choice"`
	Trial         TrialID   `json:"-"`
	PhaseLabel    string    `json:"phase"`
}
