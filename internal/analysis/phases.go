package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"mazescore/domain/session"
	"mazescore/domain/strategy"
)

// phaseKey orders phase labels: IA first, then integer phases ascending,
// anything else last.
func phaseKey(label string) float64 {
	if label == strategy.PhaseMarkerInitial {
		return -1
	}
	if n, err := strconv.Atoi(strings.TrimSpace(label)); err == nil {
		return float64(n)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(label), 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return f
	}
	return math.Inf(1)
}

// OrderPhases returns the distinct labels sorted by phase key. Equal keys keep
// the order in which the labels were given.
func OrderPhases(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return phaseKey(out[i]) < phaseKey(out[j])
	})
	return out
}

// trialLess compares trial IDs numerically when numeric is set, else by text.
func trialLess(a, b session.TrialID, numeric bool) bool {
	if numeric {
		return a.Numeric < b.Numeric
	}
	return a.Raw < b.Raw
}

func allNumericTrials(rows []session.EventRow) bool {
	for _, r := range rows {
		if !r.Trial.IsNumeric {
			return false
		}
	}
	return true
}

// phaseRows is one segment of the trial-ordered log
type phaseRows struct {
	label string
	rows  []session.EventRow
}

// segmentPhases stable-sorts rows by trial and groups them by phase label in
// phase order. Rows with a blank phase label belong to no phase. The input
// slice is not modified.
func segmentPhases(rows []session.EventRow) []phaseRows {
	sorted := append([]session.EventRow(nil), rows...)
	numeric := allNumericTrials(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return trialLess(sorted[i].Trial, sorted[j].Trial, numeric)
	})

	byLabel := make(map[string][]session.EventRow)
	labels := make([]string, 0)
	for _, r := range sorted {
		if r.PhaseLabel == "" {
			continue
		}
		if _, ok := byLabel[r.PhaseLabel]; !ok {
			labels = append(labels, r.PhaseLabel)
		}
		byLabel[r.PhaseLabel] = append(byLabel[r.PhaseLabel], r)
	}

	ordered := OrderPhases(labels)
	out := make([]phaseRows, len(ordered))
	for i, label := range ordered {
		out[i] = phaseRows{label: label, rows: byLabel[label]}
	}
	return out
}
