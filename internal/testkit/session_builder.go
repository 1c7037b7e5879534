package testkit

import (
	"fmt"
	"strconv"
	"time"

	"mazescore/domain/session"
)

// TimestampLayout is the FED device export timestamp format
const TimestampLayout = "01/02/2006 15:04:05"

// FEDHeaders is a 15 column FED maze export header: events at 8, correct
// choice at 9, trial at 13, rule shift phase at 15.
var FEDHeaders = []string{
	"MM:DD:YYYY hh:mm:ss",
	"Library_Version",
	"Session_type",
	"Device_Number",
	"Battery_Voltage",
	"Motor_Turns",
	"FR",
	"Event",
	"Active_Poke",
	"Left_Poke_Count",
	"Right_Poke_Count",
	"Pellet_Count",
	"Trial",
	"Retrieval_Time",
	"Rule_Shift",
}

// SessionBuilder assembles event log tables row by row for tests
type SessionBuilder struct {
	start   time.Time
	columns []string
	rows    [][]string
}

// NewSessionBuilder starts an empty log whose offsets are relative to start
func NewSessionBuilder(start time.Time) *SessionBuilder {
	return &SessionBuilder{
		start:   start,
		columns: append([]string(nil), FEDHeaders...),
	}
}

// WithColumns replaces the header
func (b *SessionBuilder) WithColumns(columns ...string) *SessionBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Add appends one event row.
func (b *SessionBuilder) Add(offset time.Duration, event, correctChoice string, trial int, phase string) *SessionBuilder {
	return b.AddTimestamp(b.start.Add(offset).Format(TimestampLayout), event, correctChoice, strconv.Itoa(trial), phase)
}

// AddTimestamp appends a row with literal timestamp and trial cells
func (b *SessionBuilder) AddTimestamp(ts, event, correctChoice, trial, phase string) *SessionBuilder {
	row := make([]string, len(FEDHeaders))
	row[0] = ts
	row[1] = "1.8.1"
	row[2] = "Maze"
	row[3] = "3"
	row[4] = "4.12"
	row[5] = ""
	row[6] = "1"
	row[7] = event
	row[8] = correctChoice
	row[9] = "0"
	row[10] = "0"
	row[11] = "0"
	row[12] = trial
	row[13] = ""
	row[14] = phase
	b.rows = append(b.rows, row)
	return b
}

// AddCells appends a raw row
func (b *SessionBuilder) AddCells(cells ...string) *SessionBuilder {
	b.rows = append(b.rows, append([]string(nil), cells...))
	return b
}

// Table returns a copy of the built table
func (b *SessionBuilder) Table() *session.Table {
	t := &session.Table{Columns: b.columns, Rows: b.rows}
	return t.Clone()
}

// CSV renders the table as CSV text, header first
func (b *SessionBuilder) CSV() string {
	var out []byte
	write := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				out = append(out, ',')
			}
			out = append(out, c...)
		}
		out = append(out, '\n')
	}
	write(b.columns)
	for _, r := range b.rows {
		write(r)
	}
	return string(out)
}

// String summarizes the builder
func (b *SessionBuilder) String() string {
	return fmt.Sprintf("session(%d columns, %d rows)", len(b.columns), len(b.rows))
}
