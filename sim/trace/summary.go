package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSelections    int
	SucceededCount     int
	FailedCount        int
	EventCount         int
	UniquePathsChosen  int
	PathDistribution   map[string]int // PathKey -> count of selections choosing it
}

// Summarize computes aggregate statistics from a SimulationTrace. Safe for
// nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PathDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalSelections = len(st.Selections)
	summary.EventCount = len(st.Events)
	for _, sel := range st.Selections {
		if sel.Chosen == "" {
			summary.FailedCount++
			continue
		}
		summary.SucceededCount++
		summary.PathDistribution[sel.Chosen]++
	}
	summary.UniquePathsChosen = len(summary.PathDistribution)

	return summary
}
