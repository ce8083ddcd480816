package sim

import "sort"

// Selector is the contract every path-selection policy must satisfy.
type Selector interface {
	SelectPath(src, dst ASID) (Path, bool)
}

// FeedbackSelector is the optional capability a Selector may also expose:
// data-plane measurements feeding back into the control plane. Applications
// discover this capability with a type assertion, never by reflecting on
// a method name or catching a missing-method error.
type FeedbackSelector interface {
	Selector
	UpdateFeedback(path Path, latencyMs float64, isLoss bool, sizeBytes int)
}

// AvailabilitySelector is the optional capability to mark a path down or
// up, used by the EventManager.
type AvailabilitySelector interface {
	Selector
	MarkDown(p Path)
	MarkUp(p Path)
	IsAvailable(p Path) bool
}

// ShortestSelector always returns the available path of minimum hop
// count; it carries no feedback state and runs no probing.
type ShortestSelector struct {
	store      *PathStore
	avail      *Availability
	discoverFn func(src, dst ASID) []Path
}

// NewShortestSelector constructs a ShortestSelector over a shared store
// and availability map.
func NewShortestSelector(store *PathStore, avail *Availability) *ShortestSelector {
	return &ShortestSelector{store: store, avail: avail}
}

// SetDiscoveryFallback installs a graph-search path discovery function used
// when beaconing has not yet produced any candidate for a (src,dst) pair.
func (s *ShortestSelector) SetDiscoveryFallback(fn func(src, dst ASID) []Path) {
	s.discoverFn = fn
}

// SelectPath returns the shortest available path for (src,dst), breaking
// ties deterministically by PathKey.
func (s *ShortestSelector) SelectPath(src, dst ASID) (Path, bool) {
	paths := s.store.Paths(src, dst)
	if len(paths) == 0 && s.discoverFn != nil {
		for _, p := range s.discoverFn(src, dst) {
			s.store.Insert(src, dst, p)
		}
		paths = s.store.Paths(src, dst)
	}
	var available []Path
	for _, p := range paths {
		if s.avail.IsAvailable(p) {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return nil, false
	}
	sort.Slice(available, func(i, j int) bool {
		if len(available[i]) != len(available[j]) {
			return len(available[i]) < len(available[j])
		}
		return available[i].KeyOf() < available[j].KeyOf()
	})
	return available[0], true
}

// MarkDown implements AvailabilitySelector.
func (s *ShortestSelector) MarkDown(p Path) { s.avail.MarkDown(p) }

// MarkUp implements AvailabilitySelector.
func (s *ShortestSelector) MarkUp(p Path) { s.avail.MarkUp(p) }

// IsAvailable implements AvailabilitySelector.
func (s *ShortestSelector) IsAvailable(p Path) bool { return s.avail.IsAvailable(p) }
