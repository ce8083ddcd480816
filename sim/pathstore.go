package sim

import "sort"

// PathStore indexes known router paths per (srcAs, dstAs) pair. Reverse and
// transit-combined paths are materialised eagerly at registration time by
// the beaconing subsystem (see beaconing.go); PathStore itself only
// dedupes and stores. Each Simulation creates one store and shares it:
// Beaconing writes into it as every router calls its Registrar hook, and
// the selector reads from it.
type PathStore struct {
	byPair map[pathPairKey][]Path
	seen   map[pathPairKey]map[PathKey]bool
}

// NewPathStore constructs an empty PathStore.
func NewPathStore() *PathStore {
	return &PathStore{
		byPair: make(map[pathPairKey][]Path),
		seen:   make(map[pathPairKey]map[PathKey]bool),
	}
}

// Insert adds p under (src,dst) if not already present. Reports whether it
// was newly added.
func (s *PathStore) Insert(src, dst ASID, p Path) bool {
	key := pathPairKey{src: src, dst: dst}
	if s.seen[key] == nil {
		s.seen[key] = make(map[PathKey]bool)
	}
	pk := p.KeyOf()
	if s.seen[key][pk] {
		return false
	}
	s.seen[key][pk] = true
	s.byPair[key] = append(s.byPair[key], p)
	return true
}

// Paths returns the registered paths for (src,dst), or nil if none.
func (s *PathStore) Paths(src, dst ASID) []Path {
	return s.byPair[pathPairKey{src: src, dst: dst}]
}

// Pairs returns every (src,dst) key that has at least one registered path,
// in a deterministic order.
func (s *PathStore) Pairs() []pathPairKey {
	out := make([]pathPairKey, 0, len(s.byPair))
	for k := range s.byPair {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].src != out[j].src {
			return out[i].src < out[j].src
		}
		return out[i].dst < out[j].dst
	})
	return out
}
