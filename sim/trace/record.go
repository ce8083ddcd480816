// Package trace provides decision-trace recording for path-selection
// analysis. This package has no dependency on sim/ — it stores pure data
// types, keyed by plain strings rather than sim's PathKey/ASID, the same
// decoupling this package used for its original cluster-policy records.
package trace

// CandidateScore captures one path candidate considered during a
// selection, after filtering and UMCC suppression.
type CandidateScore struct {
	PathKey        string
	Score          float64
	AvgLatencyMs   float64
	LossRate       float64
	AvgThroughput  float64
	State          string
	Congested      bool
}

// SelectionRecord captures a single path-selection decision.
type SelectionRecord struct {
	TimeMs     float64
	SourceAS   string
	DestAS     string
	Chosen     string // PathKey, "" if selection failed
	Reason     string
	Candidates []CandidateScore // surviving candidates at jitter time, score desc
}

// EventRecord captures a single scripted path-down/path-up transition.
type EventRecord struct {
	TimeMs float64
	Kind   string
	Path   string // PathKey
}
