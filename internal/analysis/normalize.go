package analysis

import (
	"strings"

	"mazescore/domain/session"
	"mazescore/domain/strategy"
)

func normalizeCell(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeRows builds lower-cased event rows for the windowed rows and drops
// every row whose correct choice is not exactly left or right.
func normalizeRows(table *session.Table, cols session.ResolvedColumns, rows []windowedRow) []session.EventRow {
	out := make([]session.EventRow, 0, len(rows))
	for _, r := range rows {
		choice := normalizeCell(table.Cell(r.index, cols.CorrectChoice))
		if !strategy.Side(choice).Valid() {
			continue
		}
		out = append(out, session.EventRow{
			Index:         r.index,
			Timestamp:     r.at,
			EventLabel:    normalizeCell(table.Cell(r.index, cols.Events)),
			ActivePoke:    normalizeCell(table.Cell(r.index, cols.ActivePoke)),
			CorrectChoice: choice,
			Trial:         session.ParseTrialID(table.Cell(r.index, cols.Trial)),
			PhaseLabel:    strings.TrimSpace(table.Cell(r.index, cols.Phase)),
		})
	}
	return out
}
