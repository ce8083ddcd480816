package sim

import (
	"sort"

	"github.com/scionpath/pathsim/kernel"
)

// Prober is the selector's periodic RTT-measurement process. Every
// ProbingIntervalMs it walks every known (src,dst) pair and sends a probe
// along each available path, routed as ordinary data-plane traffic through
// the Link/Router forwarding path to the destination router, which turns
// it around; the reply resolves the pending entry and feeds the path's
// RTT ring buffer. This is the probe-response mechanism spec.md §4.8
// describes but leaves the delivery path underspecified (see DESIGN.md).
type Prober struct {
	sel       *AdaptiveSelector
	store     *PathStore
	hostsByAS map[ASID]*Host
}

// NewProber builds a Prober that sends from the lexicographically first
// host of each AS, a deterministic stand-in for "a probe host in src AS".
func NewProber(sel *AdaptiveSelector, topo *Topology) *Prober {
	hostsByAS := make(map[ASID]*Host)
	for _, id := range sortedHostIDs(topo.Hosts) {
		h := topo.Hosts[id]
		if _, ok := hostsByAS[h.AS()]; !ok {
			hostsByAS[h.AS()] = h
		}
	}
	return &Prober{sel: sel, store: sel.store, hostsByAS: hostsByAS}
}

func sortedHostIDs(m map[HostID]*Host) []HostID {
	out := make([]HostID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run is the perpetual probing loop.
func (pr *Prober) Run(p *kernel.Process) {
	for {
		p.Timeout(pr.sel.cfg.ProbingIntervalMs)
		pr.probeRound(p.Now())
	}
}

func (pr *Prober) probeRound(now float64) {
	for _, pair := range pr.store.Pairs() {
		srcHost, ok := pr.hostsByAS[pair.src]
		if !ok {
			continue
		}
		for _, path := range pr.store.Paths(pair.src, pair.dst) {
			if len(path) == 0 || !pr.sel.avail.IsAvailable(path) {
				continue
			}
			id := pr.sel.nextProbeID()
			dest := path[len(path)-1]
			probe := NewProbe(id, path, srcHost.Self(), dest, now)
			pr.sel.pendingProbes[id] = &pendingProbe{path: path, sendTime: now}
			srcHost.Send(probe)
		}
	}
}

func (s *AdaptiveSelector) nextProbeID() uint64 {
	s.probeCounter++
	return s.probeCounter
}

// HandleProbeReply resolves a returning probe: it looks up the pending
// entry by ProbeID, computes the observed RTT, and pushes it onto the
// path's ring buffer (bounded to 10 samples).
func (s *AdaptiveSelector) HandleProbeReply(reply *ProbePacket) {
	pending, ok := s.pendingProbes[reply.ProbeID]
	if !ok {
		return
	}
	delete(s.pendingProbes, reply.ProbeID)

	rtt := s.k.Now() - pending.sendTime
	pk := pending.path.KeyOf()
	hist := append(s.probeLatency[pk], rtt)
	if len(hist) > maxHistorySamples {
		hist = hist[len(hist)-maxHistorySamples:]
	}
	s.probeLatency[pk] = hist
}

// GetPathLatency returns the arithmetic mean of p's probe RTT buffer, or
// false ("unknown") when no probes have completed for it.
func (s *AdaptiveSelector) GetPathLatency(p Path) (float64, bool) {
	return s.probeAverage(p.KeyOf())
}

// StartProbing spawns the probing process if enabled in the selector's config.
func (s *AdaptiveSelector) StartProbing(topo *Topology, k *kernel.Kernel) {
	if !s.cfg.ProbingEnabled {
		return
	}
	pr := NewProber(s, topo)
	k.Spawn(pr.Run)
}
