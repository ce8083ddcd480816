package sim

import "gonum.org/v1/gonum/stat"

// CandidateState is a PathCandidate's position in the selector's state
// machine.
type CandidateState uint8

const (
	// StateProbing is the initial state for a newly sighted candidate.
	StateProbing CandidateState = iota + 1
	// StateActive is a candidate currently in the budgeted active set.
	StateActive
	// StateInactive is a candidate that failed the metric filter or lost budget.
	StateInactive
	// StateCooldown is reserved for future use; no baseline transition enters it.
	StateCooldown
)

func (s CandidateState) String() string {
	switch s {
	case StateProbing:
		return "Probing"
	case StateActive:
		return "Active"
	case StateInactive:
		return "Inactive"
	case StateCooldown:
		return "Cooldown"
	default:
		return "Unknown"
	}
}

const (
	maxHistorySamples  = 10
	defaultAvgLatency  = 1000.0
	congestionLatencyMultiplier = 1.5
	congestionLossThreshold      = 0.05
	congestionThroughputFraction = 0.7
)

// PathCandidate is the selector's stateful wrapper around one router path:
// its feedback history, derived metrics, and position in the state
// machine. Created lazily on first sight of a path, never destroyed —
// its history is the memory of the control plane.
type PathCandidate struct {
	RouterPath Path
	State      CandidateState

	LatencyHistory []float64
	AvgLatency     float64

	PacketsSent     int
	PacketLossCount int

	ThroughputHistory  []float64
	BytesReceived      int64
	LastThroughputTime float64

	Score float64
	Cost  int

	IsCongested            bool
	CongestionStart        float64
	SharedBottleneckIfaces map[RouterID]bool
}

// NewPathCandidate creates a fresh candidate in state Probing with the
// default average latency used until real samples arrive.
func NewPathCandidate(p Path) *PathCandidate {
	return &PathCandidate{
		RouterPath: p.Clone(),
		State:      StateProbing,
		AvgLatency: defaultAvgLatency,
		Cost:       1,
	}
}

// LossRate is PacketLossCount/PacketsSent, 0 when nothing has been sent.
func (c *PathCandidate) LossRate() float64 {
	if c.PacketsSent == 0 {
		return 0
	}
	return float64(c.PacketLossCount) / float64(c.PacketsSent)
}

// RecordLatency pushes a new delivered-packet latency sample, dropping the
// oldest once the window exceeds 10, and recomputes AvgLatency.
func (c *PathCandidate) RecordLatency(sampleMs float64) {
	c.LatencyHistory = append(c.LatencyHistory, sampleMs)
	if len(c.LatencyHistory) > maxHistorySamples {
		c.LatencyHistory = c.LatencyHistory[len(c.LatencyHistory)-maxHistorySamples:]
	}
	c.AvgLatency = stat.Mean(c.LatencyHistory, nil)
}

// RecordThroughputSample pushes a new Mbps sample, bounded to 10.
func (c *PathCandidate) RecordThroughputSample(mbps float64) {
	c.ThroughputHistory = append(c.ThroughputHistory, mbps)
	if len(c.ThroughputHistory) > maxHistorySamples {
		c.ThroughputHistory = c.ThroughputHistory[len(c.ThroughputHistory)-maxHistorySamples:]
	}
}

// AvgThroughput is the mean of the throughput window, 0 when empty.
func (c *PathCandidate) AvgThroughput() float64 {
	if len(c.ThroughputHistory) == 0 {
		return 0
	}
	return stat.Mean(c.ThroughputHistory, nil)
}

// InterfaceIDs is the set of router IDs this candidate's path traverses.
func (c *PathCandidate) InterfaceIDs() map[RouterID]bool {
	out := make(map[RouterID]bool, len(c.RouterPath))
	for _, r := range c.RouterPath {
		out[r] = true
	}
	return out
}

// recentMean returns the mean of the last n samples of hist (or all of it
// if shorter), used for the UMCC congestion heuristics.
func recentMean(hist []float64, n int) float64 {
	if len(hist) <= n {
		return stat.Mean(hist, nil)
	}
	return stat.Mean(hist[len(hist)-n:], nil)
}

// DetectCongestion evaluates the 2-of-3 congestion heuristic (latency
// inflation, loss rate, throughput drop) and updates IsCongested and
// CongestionStart. Requires at least 3 latency samples; otherwise the
// candidate is never considered congested.
func (c *PathCandidate) DetectCongestion(now float64) bool {
	if len(c.LatencyHistory) < 3 {
		c.IsCongested = false
		return false
	}

	oldestLatency := c.LatencyHistory[0]
	latencyInflated := recentMean(c.LatencyHistory, 3) >= congestionLatencyMultiplier*oldestLatency

	lossHigh := c.LossRate() > congestionLossThreshold

	throughputDropped := false
	if len(c.ThroughputHistory) >= 3 {
		oldestThroughput := c.ThroughputHistory[0]
		throughputDropped = recentMean(c.ThroughputHistory, 3) <= congestionThroughputFraction*oldestThroughput
	}

	hits := 0
	for _, ok := range []bool{latencyInflated, lossHigh, throughputDropped} {
		if ok {
			hits++
		}
	}

	congested := hits >= 2
	if congested && !c.IsCongested {
		c.CongestionStart = now
	}
	c.IsCongested = congested
	return congested
}
