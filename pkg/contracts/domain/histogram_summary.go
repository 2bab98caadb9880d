package domain

// HistogramSummary condenses the rows of one histogram of a Table.
// It is what the terse CLI output and the summary endpoint report.
type HistogramSummary struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	NBins     int     `json:"nbins"`
	XMin      float64 `json:"xmin"`
	XMax      float64 `json:"xmax"`
	Rows      int     `json:"rows"`
	NEvents   int64   `json:"n_events"`
	Underflow float64 `json:"underflow"`
	Overflow  float64 `json:"overflow"`
	InRange   float64 `json:"in_range"`
}

// Summarize groups consecutive rows by histogram ID, keeping file order.
func Summarize(t *Table) []HistogramSummary {
	if t == nil || len(t.Rows) == 0 {
		return []HistogramSummary{}
	}

	summaries := make([]HistogramSummary, 0, t.Histograms())
	var cur *HistogramSummary
	for _, row := range t.Rows {
		if cur == nil || cur.ID != row.ID {
			summaries = append(summaries, HistogramSummary{
				ID:      row.ID,
				Name:    row.Name,
				Region:  row.Region,
				NBins:   row.NBins,
				XMin:    row.XMin,
				XMax:    row.XMax,
				NEvents: row.NEvents,
			})
			cur = &summaries[len(summaries)-1]
		}
		cur.Rows++
		switch {
		case row.IsUnderflow:
			cur.Underflow += row.Value
		case row.IsOverflow:
			cur.Overflow += row.Value
		default:
			cur.InRange += row.Value
		}
	}
	return summaries
}
