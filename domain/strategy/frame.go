package strategy

import "strconv"

// Frame is a presentation-neutral table: a labelled index, column headers and
// text cells laid out row-major.
type Frame struct {
	Title     string     `json:"title"`
	IndexName string     `json:"index_name"`
	Columns   []string   `json:"columns"`
	Index     []string   `json:"index"`
	Cells     [][]string `json:"cells"`
}

// TotalsFrame renders the totals table
func (r *Result) TotalsFrame() Frame {
	f := Frame{
		Title:     "Total counts across all rule shift phases",
		IndexName: TotalsIndexName,
		Columns:   []string{FrequencyColumn},
	}
	for _, row := range r.Totals.Rows {
		f.Index = append(f.Index, string(row.Category))
		f.Cells = append(f.Cells, []string{strconv.Itoa(row.Frequency)})
	}
	return f
}

// PhaseFrame renders the pivoted phase table: category counts, trials to
// criterion, then the strategy percentages.
func (r *Result) PhaseFrame() Frame {
	phases := r.Phases.Phases
	f := Frame{
		Title:     "Counts by rule shift phase",
		IndexName: PhaseIndexName,
		Columns:   r.Phases.Headers(),
	}

	for _, c := range PhaseCategories {
		cells := make([]string, len(phases))
		for i, p := range phases {
			cells[i] = strconv.Itoa(p.Count(c))
		}
		f.Index = append(f.Index, string(c))
		f.Cells = append(f.Cells, cells)
	}

	ttc := make([]string, len(phases))
	for i, p := range phases {
		ttc[i] = strconv.Itoa(p.TrialsToCriterionValue())
	}
	f.Index = append(f.Index, TrialsToCriterionLabel)
	f.Cells = append(f.Cells, ttc)

	for _, c := range StrategyCategories {
		cells := make([]string, len(phases))
		for i, p := range phases {
			v, ok := p.Percentages[c]
			if !ok {
				v = "0.0"
			}
			cells[i] = v
		}
		f.Index = append(f.Index, PercentLabel(c))
		f.Cells = append(f.Cells, cells)
	}
	return f
}

// Frames returns both output tables in display order
func (r *Result) Frames() []Frame {
	return []Frame{r.TotalsFrame(), r.PhaseFrame()}
}
