package analysis

import (
	"strconv"

	"mazescore/domain/strategy"
	"mazescore/internal"
)

const zeroPercent = "0.0"

// summarizePhases derives counts, correctness, percentages and trials to
// criterion for each segment, in segment order.
//
// The rewarded side of a phase is the correct choice of its first row in trial
// order. This assumes the side is constant within a phase and already known at
// its first trial; changing the rule changes reported results.
func summarizePhases(segments []phaseRows, logger *internal.Logger) strategy.PhaseTable {
	table := strategy.PhaseTable{Phases: make([]strategy.PhaseSummary, 0, len(segments))}
	var prev *phaseRows

	for i := range segments {
		seg := &segments[i]
		if len(seg.rows) == 0 {
			logger.Debug("phase %q has no rows, skipping", seg.label)
			continue
		}

		first := seg.rows[0]
		correct := strategy.Side(first.CorrectChoice)

		counts := countCategories(seg.rows)
		counts[strategy.Correct], counts[strategy.Incorrect] = countSides(seg.rows, correct)

		table.Phases = append(table.Phases, strategy.PhaseSummary{
			Label:       seg.label,
			CorrectSide: correct,
			FirstTrial:  first.Trial.Raw,
			Rows:        len(seg.rows),
			Counts:      counts,
			Percentages: strategyPercentages(counts),
		})

		if prev != nil {
			last := &table.Phases[len(table.Phases)-2]
			last.TrialsToCriterion = trialsBetween(*prev, *seg)
		}
		prev = seg
	}
	return table
}

// trialsBetween is the first trial of next minus the first trial of cur. It is
// nil when either trial ID is not numeric.
func trialsBetween(cur, next phaseRows) *int {
	a, b := cur.rows[0].Trial, next.rows[0].Trial
	if !a.IsNumeric || !b.IsNumeric {
		return nil
	}
	n := int(b.Numeric - a.Numeric)
	return &n
}

// strategyPercentages returns each strategy's share of the four strategy
// counts, formatted with one decimal. A zero total yields "0.0" everywhere.
func strategyPercentages(counts map[strategy.Category]int) map[strategy.Category]string {
	total := 0
	for _, c := range strategy.StrategyCategories {
		total += counts[c]
	}

	out := make(map[strategy.Category]string, len(strategy.StrategyCategories))
	for _, c := range strategy.StrategyCategories {
		if total == 0 {
			out[c] = zeroPercent
			continue
		}
		pct := float64(counts[c]) / float64(total) * 100
		out[c] = strconv.FormatFloat(pct, 'f', 1, 64)
	}
	return out
}
