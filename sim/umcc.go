package sim

// DetectSharedBottleneck runs the congestion heuristic (PathCandidate.
// DetectCongestion) over every candidate, then intersects the interface
// sets of the congested ones, subtracting every non-congested candidate's
// interfaces. Returns nil if fewer than two candidates are congested or
// the resulting common set is empty ("no bottleneck" per spec.md §4.7).
func DetectSharedBottleneck(candidates []*PathCandidate, now float64) map[RouterID]bool {
	if len(candidates) < 2 {
		return nil
	}

	var congested, clean []*PathCandidate
	for _, c := range candidates {
		if c.DetectCongestion(now) {
			congested = append(congested, c)
		} else {
			clean = append(clean, c)
		}
	}
	if len(congested) < 2 {
		return nil
	}

	common := intersectInterfaces(congested)
	for _, c := range clean {
		for r := range c.InterfaceIDs() {
			delete(common, r)
		}
	}
	if len(common) == 0 {
		return nil
	}

	for _, c := range congested {
		c.SharedBottleneckIfaces = common
	}
	return common
}

func intersectInterfaces(candidates []*PathCandidate) map[RouterID]bool {
	if len(candidates) == 0 {
		return map[RouterID]bool{}
	}
	common := candidates[0].InterfaceIDs()
	for _, c := range candidates[1:] {
		ifaces := c.InterfaceIDs()
		for r := range common {
			if !ifaces[r] {
				delete(common, r)
			}
		}
	}
	return common
}

func intersectsSet(a, b map[RouterID]bool) bool {
	for r := range a {
		if b[r] {
			return true
		}
	}
	return false
}

// ApplyBottleneckConstraints suppresses redundant paths through a shared
// bottleneck: among candidates whose interface set touches common, only
// the one minimising (AvgLatency, LossRate) lexicographically survives;
// candidates not touching common pass through unchanged.
func ApplyBottleneckConstraints(candidates []*PathCandidate, common map[RouterID]bool) []*PathCandidate {
	if len(common) == 0 {
		return candidates
	}

	var touching, untouched []*PathCandidate
	for _, c := range candidates {
		if intersectsSet(c.InterfaceIDs(), common) {
			touching = append(touching, c)
		} else {
			untouched = append(untouched, c)
		}
	}
	if len(touching) <= 1 {
		return candidates
	}

	best := touching[0]
	for _, c := range touching[1:] {
		if betterBottleneckCandidate(c, best) {
			best = c
		}
	}
	return append(untouched, best)
}

func betterBottleneckCandidate(a, b *PathCandidate) bool {
	if a.AvgLatency != b.AvgLatency {
		return a.AvgLatency < b.AvgLatency
	}
	if la, lb := a.LossRate(), b.LossRate(); la != lb {
		return la < lb
	}
	return a.RouterPath.KeyOf() < b.RouterPath.KeyOf()
}

// RunUMCC is the combined shared-bottleneck detect-then-suppress step used
// by the adaptive selection pipeline.
func RunUMCC(candidates []*PathCandidate, now float64) []*PathCandidate {
	common := DetectSharedBottleneck(candidates, now)
	if len(common) == 0 {
		return candidates
	}
	return ApplyBottleneckConstraints(candidates, common)
}
