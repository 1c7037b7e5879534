package analysis

import (
	"strings"
	"time"

	"mazescore/domain/core"
	"mazescore/domain/session"
)

// SessionWindow bounds the analysis to the first hour after the first event.
const SessionWindow = time.Hour

// timestampLayouts are tried in order. Fractional seconds are accepted after
// any seconds field.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"02-Jan-2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"02-Jan-2006",
}

// ParseTimestamp converts one timestamp cell into an instant
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// windowedRow is a row index with its parsed timestamp
type windowedRow struct {
	index int
	at    time.Time
}

// filterWindow parses the timestamp column of every row and keeps rows no later
// than SessionWindow after the earliest one. Blank cells carry no instant and
// are dropped; any other unparseable cell aborts with a TimestampParseError.
func filterWindow(table *session.Table, col int) ([]windowedRow, timeWindow, error) {
	parsed := make([]windowedRow, 0, len(table.Rows))
	var first time.Time
	for i := range table.Rows {
		raw := table.Cell(i, col)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		at, ok := ParseTimestamp(raw)
		if !ok {
			return nil, timeWindow{}, &core.TimestampParseError{Row: i + 1, Value: raw}
		}
		if len(parsed) == 0 || at.Before(first) {
			first = at
		}
		parsed = append(parsed, windowedRow{index: i, at: at})
	}
	if len(parsed) == 0 {
		return nil, timeWindow{}, nil
	}

	cutoff := first.Add(SessionWindow)
	kept := parsed[:0]
	for _, r := range parsed {
		if !r.at.After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept, timeWindow{first: first, cutoff: cutoff}, nil
}

type timeWindow struct {
	first  time.Time
	cutoff time.Time
}
