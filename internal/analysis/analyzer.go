// Package analysis turns one session's event log into the session totals table
// and the per-phase strategy table.
package analysis

import (
	"mazescore/domain/session"
	"mazescore/domain/strategy"
	"mazescore/internal"
)

// Analyzer scores sessions. It holds no mutable state and may be shared
// between goroutines.
type Analyzer struct {
	columns session.ColumnMapping
	logger  *internal.Logger
}

// NewAnalyzer creates an analyzer for the given column layout. A nil logger
// discards output.
func NewAnalyzer(columns session.ColumnMapping, logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.Discard()
	}
	return &Analyzer{columns: columns, logger: logger.With("analysis")}
}

// Analyze scores one session with the default column layout
func Analyze(table *session.Table) (*strategy.Result, error) {
	return NewAnalyzer(session.DefaultColumnMapping(), nil).Analyze(table)
}

// ResolveColumns validates the table header against the column layout.
func (a *Analyzer) ResolveColumns(table *session.Table) (session.ResolvedColumns, error) {
	return a.columns.Resolve(table.Columns)
}

// Analyze returns both result tables, or an error and no result when the
// columns cannot be resolved or a timestamp cannot be parsed. The table is
// only read.
func (a *Analyzer) Analyze(table *session.Table) (*strategy.Result, error) {
	cols, err := a.ResolveColumns(table)
	if err != nil {
		return nil, err
	}
	if cols.EventsByAlias {
		a.logger.Debug("using column %q for events", a.columns.EventsAlias)
	}

	windowed, window, err := filterWindow(table, cols.Timestamp)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("%d of %d rows within %s of first event %s",
		len(windowed), table.NumRows(), SessionWindow, window.first.Format("2006-01-02 15:04:05"))

	rows := normalizeRows(table, cols, windowed)
	segments := segmentPhases(rows)
	a.logger.Debug("%d valid choice rows across %d phases", len(rows), len(segments))

	phases := summarizePhases(segments, a.logger)
	a.logger.Debug("phases in order: %v", phases.Labels())

	return &strategy.Result{
		Totals: countTotals(rows),
		Phases: phases,
		Window: strategy.Window{FirstEvent: window.first, Cutoff: window.cutoff},
		Rows: strategy.RowStats{
			Input:       table.NumRows(),
			InWindow:    len(windowed),
			ValidChoice: len(rows),
		},
	}, nil
}
