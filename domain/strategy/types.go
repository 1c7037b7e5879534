// Package strategy defines the event categories scored for a session and the
// two result tables produced from it.
package strategy

import (
	"strings"
	"time"

	"mazescore/domain/core"
)

// Category is a canonical event label, matched case-insensitively.
type Category string

const (
	LoseStay            Category = "losestay"
	LoseShift           Category = "loseshift"
	WinShift            Category = "winshift"
	WinStay             Category = "winstay"
	Left                Category = "left"
	Right               Category = "right"
	Pellet              Category = "pellet"
	LeftWithPellet      Category = "leftwithpellet"
	RightWithPellet     Category = "rightwithpellet"
	LeftDuringDispense  Category = "leftduringdispense"
	RightDuringDispense Category = "rightduringdispense"

	// Derived per phase, never part of the session totals.
	Correct   Category = "correct"
	Incorrect Category = "incorrect"
)

// BaseCategories are counted verbatim, in output row order.
var BaseCategories = []Category{
	LoseStay, LoseShift, WinShift, WinStay,
	Left, Right, Pellet, LeftWithPellet,
	RightWithPellet, LeftDuringDispense, RightDuringDispense,
}

// PhaseCategories is the row order of the phase table count block.
var PhaseCategories = append(append([]Category(nil), BaseCategories...), Correct, Incorrect)

// StrategyCategories feed the percentage rows, in this order.
var StrategyCategories = []Category{LoseStay, LoseShift, WinStay, WinShift}

// Row labels and headers of the output tables.
const (
	TotalsIndexName        = "TOTAL"
	FrequencyColumn        = "FREQUENCY"
	PhaseIndexName         = "Event"
	TrialsToCriterionLabel = "trials to criterion"
	PhaseMarkerInitial     = "IA"
)

// PercentLabel returns the row label of a strategy percentage, e.g. "% winstay".
func PercentLabel(c Category) string {
	return "% " + string(c)
}

// Side is a poke side token
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns right for left and left for anything else.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Valid reports whether s is exactly left or right
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// CategoryCount is one row of the totals table
type CategoryCount struct {
	Category  Category `json:"category"`
	Frequency int      `json:"frequency"`
}

// TotalCounts is the whole-session frequency table over BaseCategories.
type TotalCounts struct {
	Rows []CategoryCount `json:"rows"`
}

// Get returns the frequency of c, or 0 when c is not a row.
func (t TotalCounts) Get(c Category) int {
	for _, r := range t.Rows {
		if r.Category == c {
			return r.Frequency
		}
	}
	return 0
}

// Sum returns the total of all rows
func (t TotalCounts) Sum() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Frequency
	}
	return n
}

// PhaseSummary holds everything derived for one rule-shift phase.
type PhaseSummary struct {
	Label       string `json:"label"`
	CorrectSide Side   `json:"correct_side"`
	FirstTrial  string `json:"first_trial"`
	Rows        int    `json:"rows"`

	Counts map[Category]int `json:"counts"`

	// Nil for the last phase and when trial IDs are not numeric.
	TrialsToCriterion *int `json:"trials_to_criterion,omitempty"`

	// One-decimal strings keyed by strategy category.
	Percentages map[Category]string `json:"percentages"`
}

// Header is the column heading of the phase, e.g. "IA[LEFT]".
func (p PhaseSummary) Header() string {
	return p.Label + "[" + strings.ToUpper(string(p.CorrectSide)) + "]"
}

// Count returns the count for c (0 if absent)
func (p PhaseSummary) Count(c Category) int {
	return p.Counts[c]
}

// TrialsToCriterionValue returns the metric with absent values as zero.
func (p PhaseSummary) TrialsToCriterionValue() int {
	if p.TrialsToCriterion == nil {
		return 0
	}
	return *p.TrialsToCriterion
}

// StrategyTotal sums the four strategy counts
func (p PhaseSummary) StrategyTotal() int {
	n := 0
	for _, c := range StrategyCategories {
		n += p.Counts[c]
	}
	return n
}

// PhaseTable is the ordered list of phases, IA first.
type PhaseTable struct {
	Phases []PhaseSummary `json:"phases"`
}

// Labels returns phase labels in column order
func (t PhaseTable) Labels() []string {
	out := make([]string, len(t.Phases))
	for i, p := range t.Phases {
		out[i] = p.Label
	}
	return out
}

// Headers returns the annotated column headers
func (t PhaseTable) Headers() []string {
	out := make([]string, len(t.Phases))
	for i, p := range t.Phases {
		out[i] = p.Header()
	}
	return out
}

// Find returns the phase with the given label.
func (t PhaseTable) Find(label string) (PhaseSummary, error) {
	for _, p := range t.Phases {
		if p.Label == label {
			return p, nil
		}
	}
	return PhaseSummary{}, core.ErrPhaseNotFound
}

// Window describes the time span that was analyzed.
type Window struct {
	FirstEvent time.Time `json:"first_event"`
	Cutoff     time.Time `json:"cutoff"`
}

// RowStats counts rows at each filtering step
type RowStats struct {
	Input       int `json:"input"`
	InWindow    int `json:"in_window"`
	ValidChoice int `json:"valid_choice"`
}

// Result is the complete output of one analysis.
type Result struct {
	Totals TotalCounts `json:"totals"`
	Phases PhaseTable  `json:"phases"`
	Window Window      `json:"window"`
	Rows   RowStats    `json:"rows"`
}
