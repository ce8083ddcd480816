package sim

import (
	"fmt"
	"sort"

	"github.com/scionpath/pathsim/internal/graph"
	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/config"
)

// Topology is the built graph of routers, hosts, and links for one run,
// plus the set of core ASes that originate beacons.
type Topology struct {
	Routers  map[RouterID]*Router
	Hosts    map[HostID]*Host
	CoreASes []ASID

	hostFirstBR map[HostID]RouterID
}

// Build constructs a Topology from a parsed topology document, wiring
// every Link onto k so its drain process can be spawned.
func Build(cfg config.Topology, k *kernel.Kernel) (*Topology, error) {
	t := &Topology{
		Routers:     make(map[RouterID]*Router),
		Hosts:       make(map[HostID]*Host),
		hostFirstBR: make(map[HostID]RouterID),
	}

	// Pass 1: create every router and host so links can reference either
	// endpoint regardless of declaration order.
	for asKey, as := range cfg {
		asID := ASID(asKey)
		if as.Core {
			t.CoreASes = append(t.CoreASes, asID)
		}
		for routerKey := range as.BorderRouters {
			rid := RouterID(routerKey)
			t.Routers[rid] = NewRouter(rid)
		}
		for hostKey := range as.Hosts {
			hid := HostID(hostKey)
			t.Hosts[hid] = NewHost(hid, asID, k)
		}
	}
	sort.Slice(t.CoreASes, func(i, j int) bool { return t.CoreASes[i] < t.CoreASes[j] })

	// Pass 2: wire router-router links from each interface declaration.
	// Each declaration creates the one-directional link from the declaring
	// router to its neighbor, so a two-way link needs both sides to declare
	// it; a router listing the same neighbor twice keeps only the last link.
	for _, as := range cfg {
		for routerKey, br := range as.BorderRouters {
			rid := RouterID(routerKey)
			router := t.Routers[rid]
			for _, iface := range br.Interfaces {
				neighbor := RouterID(iface.NeighborRouter)
				if _, ok := t.Routers[neighbor]; !ok {
					return nil, fmt.Errorf("topology: router %s references unknown neighbor %s", rid, neighbor)
				}
				linkID := fmt.Sprintf("%s->%s", rid, neighbor)
				link := NewLink(linkID, k, iface.LatencyMs, iface.BandwidthMbps, t.Routers[neighbor])
				router.AddPort(neighbor, link)
			}
		}
	}

	// Pass 3: wire host uplinks to the first-listed border router of their AS.
	hostLatencyMs, hostBandwidthMbps := config.DefaultHostLink()
	for asKey, as := range cfg {
		firstBR, ok := firstBorderRouter(as)
		if !ok {
			if len(as.Hosts) > 0 {
				return nil, fmt.Errorf("topology: AS %s has hosts but no border routers", asKey)
			}
			continue
		}
		router := t.Routers[firstBR]
		for hostKey := range as.Hosts {
			hid := HostID(hostKey)
			host := t.Hosts[hid]
			upLinkID := fmt.Sprintf("%s->%s", hid, firstBR)
			up := NewLink(upLinkID, k, hostLatencyMs, hostBandwidthMbps, router)
			host.SetUplink(up)

			downLinkID := fmt.Sprintf("%s->%s", firstBR, hid)
			down := NewLink(downLinkID, k, hostLatencyMs, hostBandwidthMbps, host)
			router.AddHostLink(hid, down)

			t.hostFirstBR[hid] = firstBR
		}
	}

	return t, nil
}

// firstBorderRouter returns the lexicographically first border router ID
// declared for an AS, matching the "connect to the first listed border
// router" external-interface rule in a way that's independent of map
// iteration order.
func firstBorderRouter(as config.ASConfig) (RouterID, bool) {
	if len(as.BorderRouters) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(as.BorderRouters))
	for k := range as.BorderRouters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return RouterID(keys[0]), true
}

// SpawnLinks registers every link's drain process with k. Called once
// during simulation setup.
func (t *Topology) SpawnLinks(k *kernel.Kernel) {
	for _, r := range t.Routers {
		for _, link := range r.ports {
			link := link
			k.Spawn(link.Run)
		}
		for _, link := range r.hostLinks {
			link := link
			k.Spawn(link.Run)
		}
	}
	for _, h := range t.Hosts {
		if h.uplink != nil {
			k.Spawn(h.uplink.Run)
		}
	}
}

// FirstBorderRouter returns the border router a host's uplink connects to.
func (t *Topology) FirstBorderRouter(h HostID) (RouterID, bool) {
	rid, ok := t.hostFirstBR[h]
	return rid, ok
}

// routerGraph renders the router-router link set as a graph.Graph, with
// each router's neighbor list sorted for deterministic traversal order.
func (t *Topology) routerGraph() graph.Graph {
	g := make(graph.Graph, len(t.Routers))
	for rid, r := range t.Routers {
		neighbors := make([]string, 0, len(r.ports))
		for n := range r.ports {
			neighbors = append(neighbors, string(n))
		}
		sort.Strings(neighbors)
		g[string(rid)] = neighbors
	}
	return g
}

// maxDiscoveryHops bounds the length of paths the fallback search returns,
// since a topology with many ASes could otherwise yield an unreasonable
// number of simple paths.
const maxDiscoveryHops = 8

// DiscoverPaths is the --discover-fallback supplemented feature: a
// k-shortest loopless path search (graph.AllSimplePaths) over the router
// adjacency graph between every border router of src and every border
// router of dst, independent of whether beaconing has announced the paths
// yet. Each router pair contributes at most graph.AllSimplePaths' path cap,
// filtered to maxDiscoveryHops.
func (t *Topology) DiscoverPaths(src, dst ASID) []Path {
	g := t.routerGraph()

	var srcRouters, dstRouters []string
	for rid := range t.Routers {
		if ASOf(rid) == src {
			srcRouters = append(srcRouters, string(rid))
		}
		if ASOf(rid) == dst {
			dstRouters = append(dstRouters, string(rid))
		}
	}
	sort.Strings(srcRouters)
	sort.Strings(dstRouters)

	var out []Path
	for _, s := range srcRouters {
		for _, d := range dstRouters {
			for _, raw := range graph.AllSimplePaths(g, s, d, maxDiscoveryHops) {
				p := make(Path, len(raw))
				for i, id := range raw {
					p[i] = RouterID(id)
				}
				out = append(out, p)
			}
		}
	}
	return out
}
