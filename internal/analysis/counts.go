package analysis

import (
	"mazescore/domain/session"
	"mazescore/domain/strategy"
)

// countCategories counts exact event label matches for each base category.
func countCategories(rows []session.EventRow) map[strategy.Category]int {
	counts := make(map[strategy.Category]int, len(strategy.PhaseCategories))
	for _, c := range strategy.BaseCategories {
		counts[c] = 0
	}
	for _, r := range rows {
		c := strategy.Category(r.EventLabel)
		if _, tracked := counts[c]; tracked {
			counts[c]++
		}
	}
	return counts
}

// countTotals builds the whole-session frequency table
func countTotals(rows []session.EventRow) strategy.TotalCounts {
	counts := countCategories(rows)
	totals := strategy.TotalCounts{Rows: make([]strategy.CategoryCount, 0, len(strategy.BaseCategories))}
	for _, c := range strategy.BaseCategories {
		totals.Rows = append(totals.Rows, strategy.CategoryCount{Category: c, Frequency: counts[c]})
	}
	return totals
}

// countSides counts rows whose event label is literally the correct side or
// its opposite.
func countSides(rows []session.EventRow, correct strategy.Side) (correctCount, incorrectCount int) {
	opposite := correct.Opposite()
	for _, r := range rows {
		switch strategy.Side(r.EventLabel) {
		case correct:
			correctCount++
		case opposite:
			incorrectCount++
		}
	}
	return correctCount, incorrectCount
}
