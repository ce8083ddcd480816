package sim

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/trace"
)

// AdaptiveConfig holds the adaptive selector's tunable knobs, matching the
// defaults in spec.md §4.6 plus the scoring weights this implementation
// fixes (spec.md leaves the scoring formula an open policy choice; see
// SPEC_FULL.md §8).
type AdaptiveConfig struct {
	Budget        int
	MaxLatencyMs  float64
	MaxLossRate   float64
	MinThroughput float64
	PartitionSize int

	ProbingEnabled    bool
	ProbingIntervalMs float64

	UMCCEnabled bool

	Seed uint64

	WeightLatency        float64
	WeightLoss           float64
	WeightThroughput     float64
	MinThroughputCeiling float64
}

// DefaultAdaptiveConfig returns the spec.md §4.6 defaults plus this
// implementation's scoring weights (§8 of SPEC_FULL.md).
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		Budget:        3,
		MaxLatencyMs:  200,
		MaxLossRate:   0.1,
		MinThroughput: 0,
		PartitionSize: 2,

		ProbingEnabled:    false,
		ProbingIntervalMs: 1000,

		UMCCEnabled: true,

		Seed: 1,

		WeightLatency:        0.5,
		WeightLoss:           0.3,
		WeightThroughput:     0.2,
		MinThroughputCeiling: 100.0,
	}
}

type pendingProbe struct {
	path     Path
	sendTime float64
}

// AdaptiveSelector is the stateful multi-path policy: it owns every
// PathCandidate ever sighted, ingests delivery feedback, runs shared-
// bottleneck suppression, scores and budgets the survivors, and jitters
// the final choice with a seeded PRNG.
//
// Structure and pipeline grounded on the SapexAlgorithm.select_path chain
// in the Python prototype (_sync_candidates -> filter -> UMCC -> score ->
// sort -> budget -> jitter); the overall "stateful struct with a
// Route/selectPath entry point" shape mirrors the teacher's RoutingPolicy
// family.
type AdaptiveSelector struct {
	cfg   AdaptiveConfig
	store *PathStore
	avail *Availability
	k     *kernel.Kernel

	candidates map[PathKey]*PathCandidate
	rng        *rand.Rand

	probeLatency  map[PathKey][]float64
	pendingProbes map[uint64]*pendingProbe
	probeCounter  uint64

	trace      *trace.SimulationTrace
	discoverFn func(src, dst ASID) []Path
}

// SetTrace attaches a decision trace; passing nil disables recording.
func (s *AdaptiveSelector) SetTrace(t *trace.SimulationTrace) { s.trace = t }

// SetDiscoveryFallback installs a graph-search path discovery function used
// when beaconing has not yet produced any candidate for a (src,dst) pair.
// This is the --discover-fallback supplemented feature: disabled (nil) by
// default, since the baseline policy relies solely on beacon-driven
// discovery.
func (s *AdaptiveSelector) SetDiscoveryFallback(fn func(src, dst ASID) []Path) {
	s.discoverFn = fn
}

// NewAdaptiveSelector constructs an AdaptiveSelector over a shared store
// and availability map, seeded from cfg.Seed.
func NewAdaptiveSelector(cfg AdaptiveConfig, store *PathStore, avail *Availability, k *kernel.Kernel) *AdaptiveSelector {
	return &AdaptiveSelector{
		cfg:           cfg,
		store:         store,
		avail:         avail,
		k:             k,
		candidates:    make(map[PathKey]*PathCandidate),
		rng:           rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		probeLatency:  make(map[PathKey][]float64),
		pendingProbes: make(map[uint64]*pendingProbe),
	}
}

// MarkDown implements AvailabilitySelector.
func (s *AdaptiveSelector) MarkDown(p Path) { s.avail.MarkDown(p) }

// MarkUp implements AvailabilitySelector.
func (s *AdaptiveSelector) MarkUp(p Path) { s.avail.MarkUp(p) }

// IsAvailable implements AvailabilitySelector.
func (s *AdaptiveSelector) IsAvailable(p Path) bool { return s.avail.IsAvailable(p) }

func (s *AdaptiveSelector) probeAverage(pk PathKey) (float64, bool) {
	hist := s.probeLatency[pk]
	if len(hist) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range hist {
		sum += v
	}
	return sum / float64(len(hist)), true
}

// sync is selection pipeline step 1: reuse or lazily create a
// PathCandidate for every raw path currently registered for (src,dst).
func (s *AdaptiveSelector) sync(src, dst ASID) []*PathCandidate {
	paths := s.store.Paths(src, dst)
	if len(paths) == 0 && s.discoverFn != nil {
		for _, p := range s.discoverFn(src, dst) {
			s.store.Insert(src, dst, p)
		}
		paths = s.store.Paths(src, dst)
	}
	out := make([]*PathCandidate, 0, len(paths))
	for _, p := range paths {
		pk := p.KeyOf()
		c, ok := s.candidates[pk]
		if !ok {
			c = NewPathCandidate(p)
			if avg, ok2 := s.probeAverage(pk); ok2 {
				c.AvgLatency = avg
			}
			s.candidates[pk] = c
		} else if len(c.LatencyHistory) == 0 {
			// Probe data only complements feedback when feedback history is
			// empty; once real delivery feedback arrives it takes over.
			if avg, ok2 := s.probeAverage(pk); ok2 {
				c.RecordLatency(avg)
			}
		}
		out = append(out, c)
	}
	return out
}

// UpdateFeedback implements FeedbackSelector. A path not already known to
// the candidates map (never surfaced by sync) is a no-op per spec.md §7.
func (s *AdaptiveSelector) UpdateFeedback(path Path, latencyMs float64, isLoss bool, sizeBytes int) {
	c, ok := s.candidates[path.KeyOf()]
	if !ok {
		return
	}
	c.PacketsSent++
	if isLoss {
		c.PacketLossCount++
		return
	}
	c.RecordLatency(latencyMs)

	c.BytesReceived += int64(sizeBytes)
	now := s.k.Now()
	if c.LastThroughputTime == 0 {
		c.LastThroughputTime = now
	}
	if elapsed := now - c.LastThroughputTime; elapsed >= 100 {
		mbps := float64(c.BytesReceived*8) / (elapsed * 1000)
		c.RecordThroughputSample(mbps)
		c.BytesReceived = 0
		c.LastThroughputTime = now
	}
}

// score is the composite, monotone scoring function of SPEC_FULL.md §8:
// decreasing in latency and loss, increasing in throughput, saturating at
// MinThroughputCeiling.
func (s *AdaptiveSelector) score(c *PathCandidate) float64 {
	latCeil := s.cfg.MaxLatencyMs * 2
	latTerm := 1 - math.Min(c.AvgLatency, latCeil)/latCeil
	lossTerm := 1 - c.LossRate()
	thrTerm := math.Min(c.AvgThroughput(), s.cfg.MinThroughputCeiling) / s.cfg.MinThroughputCeiling
	return s.cfg.WeightLatency*latTerm + s.cfg.WeightLoss*lossTerm + s.cfg.WeightThroughput*thrTerm
}

// SelectPath runs the full selection pipeline: sync, availability filter,
// metric filter (with least-worst fallback), UMCC, score, sort, budget,
// jitter.
func (s *AdaptiveSelector) SelectPath(src, dst ASID) (Path, bool) {
	candidates := s.sync(src, dst)
	if len(candidates) == 0 {
		s.recordFailure(src, dst, "no candidates registered")
		return nil, false
	}

	available := make([]*PathCandidate, 0, len(candidates))
	for _, c := range candidates {
		if s.avail.IsAvailable(c.RouterPath) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		s.recordFailure(src, dst, "all candidates marked down")
		return nil, false
	}

	filtered := make([]*PathCandidate, 0, len(available))
	for _, c := range available {
		if c.AvgLatency <= s.cfg.MaxLatencyMs && c.LossRate() <= s.cfg.MaxLossRate {
			filtered = append(filtered, c)
		} else {
			c.State = StateInactive
		}
	}
	considered := filtered
	if len(considered) == 0 {
		considered = available
	}

	if s.cfg.UMCCEnabled {
		considered = RunUMCC(considered, s.k.Now())
	}

	for _, c := range considered {
		c.Score = s.score(c)
	}

	sort.SliceStable(considered, func(i, j int) bool {
		if considered[i].Score != considered[j].Score {
			return considered[i].Score > considered[j].Score
		}
		return considered[i].RouterPath.KeyOf() < considered[j].RouterPath.KeyOf()
	})

	currentBudget := s.cfg.Budget
	var active []*PathCandidate
	for _, c := range considered {
		if currentBudget-c.Cost >= 0 {
			currentBudget -= c.Cost
			c.State = StateActive
			active = append(active, c)
		} else {
			c.State = StateInactive
		}
	}
	if len(active) == 0 {
		s.recordFailure(src, dst, "no candidate fit the budget")
		return nil, false
	}

	chosen := active[s.rng.IntN(len(active))]
	s.recordSelection(src, dst, chosen, active)
	return chosen.RouterPath, true
}

func (s *AdaptiveSelector) recordFailure(src, dst ASID, reason string) {
	if !s.trace.Enabled() {
		return
	}
	s.trace.RecordSelection(trace.SelectionRecord{
		TimeMs:   s.k.Now(),
		SourceAS: string(src),
		DestAS:   string(dst),
		Reason:   reason,
	})
}

func (s *AdaptiveSelector) recordSelection(src, dst ASID, chosen *PathCandidate, active []*PathCandidate) {
	if !s.trace.Enabled() {
		return
	}
	cands := make([]trace.CandidateScore, 0, len(active))
	for _, c := range active {
		cands = append(cands, trace.CandidateScore{
			PathKey:       string(c.RouterPath.KeyOf()),
			Score:         c.Score,
			AvgLatencyMs:  c.AvgLatency,
			LossRate:      c.LossRate(),
			AvgThroughput: c.AvgThroughput(),
			State:         c.State.String(),
			Congested:     c.IsCongested,
		})
	}
	s.trace.RecordSelection(trace.SelectionRecord{
		TimeMs:     s.k.Now(),
		SourceAS:   string(src),
		DestAS:     string(dst),
		Chosen:     string(chosen.RouterPath.KeyOf()),
		Reason:     "jittered choice among budgeted active candidates",
		Candidates: cands,
	})
}

// partitionCandidates groups a sorted candidate slice into chunks of size
// n. Implemented and tested per spec.md §9's instruction that partitioning
// must be modelable even though the baseline pipeline flat-iterates
// (spec.md §8.7); not called from SelectPath.
func partitionCandidates(sorted []*PathCandidate, n int) [][]*PathCandidate {
	if n <= 0 {
		return [][]*PathCandidate{sorted}
	}
	var groups [][]*PathCandidate
	for i := 0; i < len(sorted); i += n {
		end := i + n
		if end > len(sorted) {
			end = len(sorted)
		}
		groups = append(groups, sorted[i:end])
	}
	return groups
}
