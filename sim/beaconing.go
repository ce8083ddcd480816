package sim

import (
	"sort"

	"github.com/scionpath/pathsim/kernel"
)

// Beaconing owns path registration: every router a beacon passes through
// calls RegisterPath (it implements Registrar), which materialises the
// direct path, its reverse, and any transit-combined paths through the
// beacon's origin AS. This is the sole mechanism by which leaf-to-leaf
// paths through a core AS appear in the store.
//
// Grounded directly on the register_path/_create_combined_paths algorithm
// of the Python prototype this was distilled from.
type Beaconing struct {
	store *PathStore
}

// NewBeaconing constructs a Beaconing writing into store.
func NewBeaconing(store *PathStore) *Beaconing {
	return &Beaconing{store: store}
}

// RegisterPath implements Registrar.
func (b *Beaconing) RegisterPath(beacon *Beacon, receivingRouter RouterID) {
	origin := beacon.OriginAS
	recv := ASOf(receivingRouter)
	if origin == recv {
		return
	}

	routerPath := beacon.Path.Clone()
	if len(routerPath) == 0 || routerPath[len(routerPath)-1] != receivingRouter {
		routerPath = append(routerPath, receivingRouter)
	}

	b.registerPair(origin, recv, routerPath)
	b.combineTransit(origin, recv, routerPath)
}

// registerPair inserts p under (a,c) and its reverse under (c,a), so every
// direct registration automatically satisfies reverse symmetry.
func (b *Beaconing) registerPair(a, c ASID, p Path) {
	if hasDuplicateRouters(p) {
		return
	}
	b.store.Insert(a, c, p)
	b.store.Insert(c, a, p.Reverse())
}

// combineTransit is the transit-combination step: for every AS x already
// holding a path to core (x not core or leaf itself), splice that path's
// core-ward approach onto downPath to synthesise a path from x to leaf.
func (b *Beaconing) combineTransit(core, leaf ASID, downPath Path) {
	for _, pair := range b.store.Pairs() {
		if pair.dst != core {
			continue
		}
		src := pair.src
		if src == core || src == leaf {
			continue
		}
		for _, existing := range b.store.Paths(src, core) {
			if len(existing) == 0 {
				continue
			}
			combined := make(Path, 0, len(existing)-1+len(downPath))
			combined = append(combined, existing[:len(existing)-1]...)
			combined = append(combined, downPath...)
			b.registerPair(src, leaf, combined)
		}
	}
}

func hasDuplicateRouters(p Path) bool {
	seen := make(map[RouterID]bool, len(p))
	for _, r := range p {
		if seen[r] {
			return true
		}
		seen[r] = true
	}
	return false
}

// BeaconEmitter is the periodic process that seeds fresh beacons from one
// core AS's border routers, every intervalMs.
type BeaconEmitter struct {
	originAS      ASID
	originRouters []*Router
	intervalMs    float64
}

// NewBeaconEmitter constructs an emitter for one core AS.
func NewBeaconEmitter(originAS ASID, originRouters []*Router, intervalMs float64) *BeaconEmitter {
	return &BeaconEmitter{originAS: originAS, originRouters: originRouters, intervalMs: intervalMs}
}

// Run seeds and floods a fresh beacon from every origin router, then
// repeats every intervalMs. The origin router processes its own seed
// beacon exactly as it would one received from a neighbor: this is what
// appends the first hop and starts the flood.
func (e *BeaconEmitter) Run(p *kernel.Process) {
	for {
		for _, r := range e.originRouters {
			b := NewBeacon(r.Self(), e.originAS)
			r.handleBeacon(b)
		}
		p.Timeout(e.intervalMs)
	}
}

// WireBeaconing attaches a Beaconing instance as every router's registrar
// and spawns one BeaconEmitter per core AS.
func WireBeaconing(t *Topology, store *PathStore, intervalMs float64, k *kernel.Kernel) *Beaconing {
	b := NewBeaconing(store)
	for _, r := range t.Routers {
		r.SetRegistrar(b)
	}
	for _, coreAS := range t.CoreASes {
		var origins []*Router
		for _, rid := range sortedRouterIDs(t.Routers) {
			r := t.Routers[rid]
			if r.AS() == coreAS {
				origins = append(origins, r)
			}
		}
		emitter := NewBeaconEmitter(coreAS, origins, intervalMs)
		k.Spawn(emitter.Run)
	}
	return b
}

func sortedRouterIDs(m map[RouterID]*Router) []RouterID {
	out := make([]RouterID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
