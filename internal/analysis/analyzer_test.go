package analysis

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"mazescore/domain/core"
	"mazescore/domain/session"
	"mazescore/domain/strategy"
	"mazescore/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newSession() *testkit.SessionBuilder {
	return testkit.NewSessionBuilder(sessionStart)
}

func analyze(t *testing.T, table *session.Table) *strategy.Result {
	t.Helper()
	res, err := Analyze(table)
	require.NoError(t, err)
	return res
}

func phase(t *testing.T, res *strategy.Result, label string) strategy.PhaseSummary {
	t.Helper()
	p, err := res.Phases.Find(label)
	require.NoError(t, err, "phase %q", label)
	return p
}

// ============================================================================
// End to end
// ============================================================================

func TestAnalyze_TwoRowScenario(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		Add(time.Second, "Right", "left", 2, "IA").
		Table()

	res := analyze(t, table)

	ia := phase(t, res, "IA")
	assert.Equal(t, 1, ia.Count(strategy.Left))
	assert.Equal(t, 1, ia.Count(strategy.Right))
	assert.Equal(t, 1, ia.Count(strategy.Correct))
	assert.Equal(t, 1, ia.Count(strategy.Incorrect))
	assert.Equal(t, "IA[LEFT]", ia.Header())
	assert.Nil(t, ia.TrialsToCriterion, "only phase has no next phase")

	assert.Equal(t, 1, res.Totals.Get(strategy.Left))
	assert.Equal(t, 1, res.Totals.Get(strategy.Right))
	assert.Equal(t, strategy.RowStats{Input: 2, InWindow: 2, ValidChoice: 2}, res.Rows)
}

func TestAnalyze_TotalsListBaseCategoriesInOrder(t *testing.T) {
	table := testkit.NewSessionDataGenerator(testkit.DefaultSessionConfig()).Generate()

	res := analyze(t, table)

	require.Len(t, res.Totals.Rows, len(strategy.BaseCategories))
	for i, row := range res.Totals.Rows {
		assert.Equal(t, strategy.BaseCategories[i], row.Category)
		assert.GreaterOrEqual(t, row.Frequency, 0)
	}
	assert.LessOrEqual(t, res.Totals.Sum(), res.Rows.ValidChoice)
	assert.Equal(t, 0, res.Totals.Get(strategy.Correct), "derived categories are not totals")
}

func TestAnalyze_GeneratedSessionPhases(t *testing.T) {
	gen := testkit.NewSessionDataGenerator(testkit.DefaultSessionConfig())
	res := analyze(t, gen.Generate())

	assert.Equal(t, gen.PhaseLabels(), res.Phases.Labels())
	assert.Equal(t, []string{"IA[LEFT]", "1[RIGHT]", "2[LEFT]", "3[RIGHT]"}, res.Phases.Headers())

	trials := testkit.DefaultSessionConfig().TrialsPerPhase
	for i, p := range res.Phases.Phases {
		if i < len(res.Phases.Phases)-1 {
			require.NotNil(t, p.TrialsToCriterion, "phase %s", p.Label)
			assert.Equal(t, trials, *p.TrialsToCriterion, "phase %s", p.Label)
		} else {
			assert.Nil(t, p.TrialsToCriterion)
		}
		assert.Equal(t, p.Count(strategy.Correct)+p.Count(strategy.Incorrect), trials,
			"every generated trial pokes exactly one side")
	}
}

// ============================================================================
// Phase ordering
// ============================================================================

func TestOrderPhases(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"numeric after IA", []string{"IA", "3", "1", "2"}, []string{"IA", "1", "2", "3"}},
		{"IA not first in input", []string{"2", "IA", "10"}, []string{"IA", "2", "10"}},
		{"non numeric last", []string{"probe", "1", "IA"}, []string{"IA", "1", "probe"}},
		{"equal keys keep input order", []string{"x", "y", "1"}, []string{"1", "x", "y"}},
		{"integral float label", []string{"2.0", "1"}, []string{"1", "2.0"}},
		{"duplicates collapse", []string{"1", "IA", "1"}, []string{"IA", "1"}},
		{"lower case ia is not the marker", []string{"ia", "1"}, []string{"1", "ia"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderPhases(tt.in))
		})
	}
}

func TestAnalyze_PhaseColumnOrder(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		Add(time.Second, "Left", "right", 10, "3").
		Add(2*time.Second, "Left", "left", 4, "1").
		Add(3*time.Second, "Left", "right", 7, "2").
		Table()

	res := analyze(t, table)

	assert.Equal(t, []string{"IA", "1", "2", "3"}, res.Phases.Labels())
	assert.Equal(t, []string{"IA[LEFT]", "1[LEFT]", "2[RIGHT]", "3[RIGHT]"}, res.Phases.Headers())
}

// ============================================================================
// Correctness
// ============================================================================

func TestAnalyze_CorrectSideFromFirstTrialOfPhase(t *testing.T) {
	// Rows are listed out of trial order; trial 5 is the first of the phase.
	table := newSession().
		Add(0, "Right", "right", 6, "1").
		Add(time.Second, "Left", "left", 5, "1").
		Add(2*time.Second, "Left", "right", 7, "1").
		Add(3*time.Second, "Right", "right", 8, "1").
		Add(4*time.Second, "Pellet", "right", 9, "1").
		Table()

	res := analyze(t, table)

	p := phase(t, res, "1")
	assert.Equal(t, strategy.SideLeft, p.CorrectSide)
	assert.Equal(t, "5", p.FirstTrial)
	assert.Equal(t, 2, p.Count(strategy.Correct), "left events are correct")
	assert.Equal(t, 2, p.Count(strategy.Incorrect), "right events are incorrect")
	assert.Equal(t, 1, p.Count(strategy.Pellet))
}

func TestAnalyze_CorrectnessUsesEventLabelsOnly(t *testing.T) {
	table := newSession().
		Add(0, "LeftWithPellet", "left", 1, "IA").
		Add(time.Second, "WinStay", "left", 2, "IA").
		Add(2*time.Second, "LEFT", "left", 3, "IA").
		Table()

	p := phase(t, analyze(t, table), "IA")

	assert.Equal(t, 1, p.Count(strategy.Correct))
	assert.Equal(t, 0, p.Count(strategy.Incorrect))
	assert.Equal(t, 1, p.Count(strategy.LeftWithPellet))
	assert.Equal(t, 1, p.Count(strategy.WinStay))
}

// ============================================================================
// Normalization and filtering
// ============================================================================

func TestAnalyze_DropsRowsWithoutValidChoice(t *testing.T) {
	table := newSession().
		Add(0, "Left", "Left", 1, "IA").
		Add(time.Second, "Left", "", 2, "IA").
		Add(2*time.Second, "Left", "center", 3, "IA").
		Add(3*time.Second, "Left", "nan", 4, "IA").
		Add(4*time.Second, "Right", " RIGHT ", 5, "IA").
		Table()

	res := analyze(t, table)

	assert.Equal(t, 2, res.Rows.ValidChoice)
	assert.Equal(t, 1, res.Totals.Get(strategy.Left))
	assert.Equal(t, 1, res.Totals.Get(strategy.Right))
}

func TestAnalyze_EventsAliasColumn(t *testing.T) {
	cols := append(append([]string(nil), testkit.FEDHeaders...), "H")
	b := newSession().WithColumns(cols...)
	row := func(ts, positional, alias, choice, trial, phaseLabel string) {
		cells := make([]string, len(cols))
		cells[0], cells[7], cells[8], cells[12], cells[14], cells[15] = ts, positional, choice, trial, phaseLabel, alias
		b.AddCells(cells...)
	}
	row("03/01/2024 09:00:00", "Left", "WinStay", "left", "1", "IA")
	row("03/01/2024 09:00:05", "Left", "WinStay", "left", "2", "IA")

	res := analyze(t, b.Table())

	assert.Equal(t, 2, res.Totals.Get(strategy.WinStay))
	assert.Equal(t, 0, res.Totals.Get(strategy.Left))
}

// ============================================================================
// Time window
// ============================================================================

func TestAnalyze_TimeWindow(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		Add(time.Hour, "Left", "left", 2, "IA").
		Add(time.Hour+time.Second, "Right", "left", 3, "IA").
		Add(2*time.Hour, "WinStay", "right", 4, "1").
		Table()

	res := analyze(t, table)

	assert.Equal(t, 2, res.Totals.Get(strategy.Left), "row at exactly one hour is kept")
	assert.Equal(t, 0, res.Totals.Get(strategy.Right))
	assert.Equal(t, 0, res.Totals.Get(strategy.WinStay))
	assert.Equal(t, []string{"IA"}, res.Phases.Labels(), "late phase never appears")
	assert.Equal(t, 2, res.Rows.InWindow)
	assert.Equal(t, sessionStart, res.Window.FirstEvent)
	assert.Equal(t, sessionStart.Add(time.Hour), res.Window.Cutoff)
}

func TestAnalyze_WindowStartsAtEarliestTimestamp(t *testing.T) {
	table := newSession().
		Add(90*time.Minute, "Right", "left", 2, "IA").
		Add(30*time.Minute, "Left", "left", 1, "IA").
		Add(0, "Pellet", "left", 3, "IA").
		Table()

	res := analyze(t, table)

	assert.Equal(t, sessionStart, res.Window.FirstEvent)
	assert.Equal(t, 1, res.Totals.Get(strategy.Left))
	assert.Equal(t, 1, res.Totals.Get(strategy.Pellet))
	assert.Equal(t, 0, res.Totals.Get(strategy.Right))
}

func TestAnalyze_BlankTimestampsAreDropped(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		AddTimestamp("", "Right", "left", "2", "IA").
		Table()

	res := analyze(t, table)
	assert.Equal(t, 1, res.Rows.InWindow)
	assert.Equal(t, 0, res.Totals.Get(strategy.Right))
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)
	for _, raw := range []string{
		"2024-03-01T09:05:07Z",
		"2024-03-01 09:05:07",
		"2024-03-01T09:05:07",
		"03/01/2024 09:05:07",
		"3/1/2024 9:05:07",
		"3/1/2024 9:05:07 AM",
		"2024/03/01 09:05:07",
	} {
		got, ok := ParseTimestamp(raw)
		if assert.True(t, ok, raw) {
			assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
		}
	}

	got, ok := ParseTimestamp("2024-03-01 09:05:07.250")
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, got.Sub(want))

	for _, raw := range []string{"", "yesterday", "13/45/2024 99:00"} {
		_, ok := ParseTimestamp(raw)
		assert.False(t, ok, raw)
	}
}

// ============================================================================
// Trials to criterion and percentages
// ============================================================================

func TestAnalyze_TrialsToCriterionUsesFirstTrials(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		Add(time.Second, "Left", "left", 2, "IA").
		Add(2*time.Second, "Left", "left", 3, "IA").
		Add(3*time.Second, "Right", "right", 4, "1").
		Add(4*time.Second, "Right", "right", 9, "1").
		Add(5*time.Second, "Left", "left", 12, "2").
		Table()

	res := analyze(t, table)

	ia := phase(t, res, "IA")
	require.NotNil(t, ia.TrialsToCriterion)
	assert.Equal(t, 3, *ia.TrialsToCriterion)

	one := phase(t, res, "1")
	require.NotNil(t, one.TrialsToCriterion)
	assert.Equal(t, 8, *one.TrialsToCriterion)

	last := phase(t, res, "2")
	assert.Nil(t, last.TrialsToCriterion)
	assert.Equal(t, 0, last.TrialsToCriterionValue())
}

func TestAnalyze_BlankPhaseLabelIsNotAPhase(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		Add(time.Second, "Right", "right", 4, "1").
		Add(2*time.Second, "Left", "left", 9, "2").
		Add(3*time.Second, "Left", "left", 12, "  ").
		Table()

	res := analyze(t, table)

	assert.Equal(t, []string{"IA[LEFT]", "1[RIGHT]", "2[LEFT]"}, res.Phases.Headers())
	assert.Nil(t, phase(t, res, "2").TrialsToCriterion, "blank label does not end the last phase")
	assert.Equal(t, 3, res.Totals.Get(strategy.Left), "blank label rows still count in totals")
	assert.Equal(t, 4, res.Rows.ValidChoice)
}

func TestAnalyze_NonNumericTrialIDs(t *testing.T) {
	table := newSession().
		AddTimestamp("03/01/2024 09:00:02", "Left", "left", "b", "IA").
		AddTimestamp("03/01/2024 09:00:01", "Right", "left", "a", "IA").
		AddTimestamp("03/01/2024 09:00:03", "Right", "right", "c", "1").
		Table()

	res := analyze(t, table)

	ia := phase(t, res, "IA")
	assert.Equal(t, "a", ia.FirstTrial, "lexical order when trials are not numeric")
	assert.Nil(t, ia.TrialsToCriterion)
}

func TestAnalyze_StrategyPercentages(t *testing.T) {
	b := newSession()
	trial := 0
	add := func(event string, n int, phaseLabel, choice string) {
		for i := 0; i < n; i++ {
			trial++
			b.Add(time.Duration(trial)*time.Second, event, choice, trial, phaseLabel)
		}
	}
	add("LoseStay", 1, "IA", "left")
	add("LoseShift", 1, "IA", "left")
	add("WinStay", 1, "IA", "left")
	add("Left", 5, "1", "right")

	res := analyze(t, b.Table())

	ia := phase(t, res, "IA")
	assert.Equal(t, "33.3", ia.Percentages[strategy.LoseStay])
	assert.Equal(t, "33.3", ia.Percentages[strategy.LoseShift])
	assert.Equal(t, "33.3", ia.Percentages[strategy.WinStay])
	assert.Equal(t, "0.0", ia.Percentages[strategy.WinShift])

	one := phase(t, res, "1")
	assert.Equal(t, 0, one.StrategyTotal())
	for _, c := range strategy.StrategyCategories {
		assert.Equal(t, "0.0", one.Percentages[c], "zero strategy total")
	}
}

func TestStrategyPercentagesSumToHundred(t *testing.T) {
	res := analyze(t, testkit.NewSessionDataGenerator(testkit.DefaultSessionConfig()).Generate())

	for _, p := range res.Phases.Phases {
		if p.StrategyTotal() == 0 {
			continue
		}
		sum := 0.0
		for _, c := range strategy.StrategyCategories {
			v, err := strconv.ParseFloat(p.Percentages[c], 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 0.0)
			sum += v
		}
		assert.InDelta(t, 100.0, sum, 0.2, "phase %s", p.Label)
	}
}

func TestStrategyPercentagesRounding(t *testing.T) {
	counts := map[strategy.Category]int{
		strategy.LoseStay:  1,
		strategy.LoseShift: 2,
		strategy.WinStay:   3,
		strategy.WinShift:  2,
	}
	got := strategyPercentages(counts)
	assert.Equal(t, "12.5", got[strategy.LoseStay])
	assert.Equal(t, "25.0", got[strategy.LoseShift])
	assert.Equal(t, "37.5", got[strategy.WinStay])
	assert.Equal(t, "25.0", got[strategy.WinShift])
}

// ============================================================================
// Failures
// ============================================================================

func TestAnalyze_TimestampParseError(t *testing.T) {
	table := newSession().
		Add(0, "Left", "left", 1, "IA").
		AddTimestamp("not a time", "Left", "left", "2", "IA").
		Table()

	res, err := Analyze(table)

	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTimestampParse))
	var tsErr *core.TimestampParseError
	require.True(t, errors.As(err, &tsErr))
	assert.Equal(t, 2, tsErr.Row)
	assert.Equal(t, "not a time", tsErr.Value)
}

func TestAnalyze_ColumnNotFound(t *testing.T) {
	table := &session.Table{
		Columns: []string{"time", "event"},
		Rows:    [][]string{{"03/01/2024 09:00:00", "Left"}},
	}

	res, err := Analyze(table)

	assert.Nil(t, res)
	var colErr *core.ColumnNotFoundError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, []string{"time", "event"}, colErr.Available)
}

func TestAnalyze_EmptyTable(t *testing.T) {
	table := &session.Table{Columns: testkit.FEDHeaders}

	res := analyze(t, table)

	assert.Len(t, res.Totals.Rows, len(strategy.BaseCategories))
	assert.Empty(t, res.Phases.Phases)
	assert.True(t, res.Window.FirstEvent.IsZero())
}

func TestSummarizePhasesSkipsEmptySegments(t *testing.T) {
	rows := []session.EventRow{
		{EventLabel: "left", CorrectChoice: "left", Trial: session.ParseTrialID("1"), PhaseLabel: "IA"},
		{EventLabel: "right", CorrectChoice: "right", Trial: session.ParseTrialID("6"), PhaseLabel: "2"},
	}
	segments := []phaseRows{
		{label: "IA", rows: rows[:1]},
		{label: "1"},
		{label: "2", rows: rows[1:]},
	}

	table := summarizePhases(segments, nil)

	require.Len(t, table.Phases, 2)
	assert.Equal(t, []string{"IA", "2"}, table.Labels())
	require.NotNil(t, table.Phases[0].TrialsToCriterion)
	assert.Equal(t, 5, *table.Phases[0].TrialsToCriterion)
}

// ============================================================================
// Purity
// ============================================================================

func TestAnalyze_IdempotentAndDoesNotMutateInput(t *testing.T) {
	table := testkit.NewSessionDataGenerator(testkit.DefaultSessionConfig()).Generate()
	before := table.Clone()

	first := analyze(t, table)
	second := analyze(t, table)

	assert.Equal(t, first, second)
	assert.Equal(t, before, table)
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	analyzer := NewAnalyzer(session.DefaultColumnMapping(), nil)
	table := testkit.NewSessionDataGenerator(testkit.DefaultSessionConfig()).Generate()
	want, err := analyzer.Analyze(table)
	require.NoError(t, err)

	results := make(chan *strategy.Result, 8)
	for i := 0; i < cap(results); i++ {
		go func() {
			res, err := analyzer.Analyze(table)
			if err != nil {
				results <- nil
				return
			}
			results <- res
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Equal(t, want, <-results)
	}
}
