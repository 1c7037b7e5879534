package cohort

import (
	"strconv"

	"mazescore/domain/strategy"
	"mazescore/internal/analysis"

	"github.com/montanaflynn/stats"
)

// Descriptive summarizes one metric across sessions. All fields are zero when
// N is zero.
type Descriptive struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes the descriptive summary of values
func Describe(values []float64) Descriptive {
	if len(values) == 0 {
		return Descriptive{}
	}
	data := stats.Float64Data(values)
	d := Descriptive{N: len(values)}
	d.Mean, _ = data.Mean()
	d.Median, _ = data.Median()
	d.StdDev, _ = data.StandardDeviation()
	d.Min, _ = data.Min()
	d.Max, _ = data.Max()
	return d
}

// PhaseStats aggregates one phase label over the sessions that contain it
type PhaseStats struct {
	Label             string                            `json:"label"`
	Sessions          int                               `json:"sessions"`
	TrialsToCriterion Descriptive                       `json:"trials_to_criterion"`
	CorrectPercent    Descriptive                       `json:"correct_percent"`
	StrategyPercent   map[strategy.Category]Descriptive `json:"strategy_percent"`
}

// Summarize groups phases by label across the successful sessions. Sessions
// where a metric is undefined (no next phase, no side pokes, no strategy
// events) do not contribute to that metric.
func Summarize(sessions []SessionResult) []PhaseStats {
	var labels []string
	for _, s := range sessions {
		if s.Result != nil {
			labels = append(labels, s.Result.Phases.Labels()...)
		}
	}

	ordered := analysis.OrderPhases(labels)
	out := make([]PhaseStats, 0, len(ordered))
	for _, label := range ordered {
		var phases []strategy.PhaseSummary
		for _, s := range sessions {
			if s.Result == nil {
				continue
			}
			if p, err := s.Result.Phases.Find(label); err == nil {
				phases = append(phases, p)
			}
		}

		var ttc, correct []float64
		strat := map[strategy.Category][]float64{}

		for _, p := range phases {
			if p.TrialsToCriterion != nil {
				ttc = append(ttc, float64(*p.TrialsToCriterion))
			}
			if sides := p.Count(strategy.Correct) + p.Count(strategy.Incorrect); sides > 0 {
				correct = append(correct, 100*float64(p.Count(strategy.Correct))/float64(sides))
			}
			if total := p.StrategyTotal(); total > 0 {
				for _, c := range strategy.StrategyCategories {
					strat[c] = append(strat[c], 100*float64(p.Count(c))/float64(total))
				}
			}
		}

		ps := PhaseStats{
			Label:             label,
			Sessions:          len(phases),
			TrialsToCriterion: Describe(ttc),
			CorrectPercent:    Describe(correct),
			StrategyPercent:   make(map[strategy.Category]Descriptive, len(strategy.StrategyCategories)),
		}
		for _, c := range strategy.StrategyCategories {
			ps.StrategyPercent[c] = Describe(strat[c])
		}
		out = append(out, ps)
	}
	return out
}

// SummaryFrame lays the cohort summary out with one column per phase label
func SummaryFrame(summary []PhaseStats) strategy.Frame {
	f := strategy.Frame{Title: "Cohort summary by phase", IndexName: "Metric"}
	for _, ps := range summary {
		f.Columns = append(f.Columns, ps.Label)
	}

	row := func(label string, value func(PhaseStats) string) {
		cells := make([]string, len(summary))
		for i, ps := range summary {
			cells[i] = value(ps)
		}
		f.Index = append(f.Index, label)
		f.Cells = append(f.Cells, cells)
	}
	one := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

	row("sessions", func(ps PhaseStats) string { return strconv.Itoa(ps.Sessions) })
	row("trials to criterion (mean)", func(ps PhaseStats) string { return one(ps.TrialsToCriterion.Mean) })
	row("trials to criterion (median)", func(ps PhaseStats) string { return one(ps.TrialsToCriterion.Median) })
	row("trials to criterion (sd)", func(ps PhaseStats) string { return one(ps.TrialsToCriterion.StdDev) })
	row("% correct (mean)", func(ps PhaseStats) string { return one(ps.CorrectPercent.Mean) })
	for _, c := range strategy.StrategyCategories {
		c := c
		row(strategy.PercentLabel(c)+" (mean)", func(ps PhaseStats) string { return one(ps.StrategyPercent[c].Mean) })
	}
	return f
}

// SessionsFrame lists each input file with its outcome
func SessionsFrame(report *Report) strategy.Frame {
	f := strategy.Frame{
		Title:     "Sessions",
		IndexName: "File",
		Columns:   []string{"phases", "valid rows", "events", "pellets", "status"},
	}
	for _, s := range report.Sessions {
		cells := []string{"0", "0", "0", "0", "ok"}
		if s.Result != nil {
			cells[0] = strconv.Itoa(len(s.Result.Phases.Phases))
			cells[1] = strconv.Itoa(s.Result.Rows.ValidChoice)
			cells[2] = strconv.Itoa(s.Result.Totals.Sum())
			cells[3] = strconv.Itoa(s.Result.Totals.Get(strategy.Pellet))
		} else {
			cells[4] = s.Error
		}
		f.Index = append(f.Index, s.Source)
		f.Cells = append(f.Cells, cells)
	}
	return f
}
