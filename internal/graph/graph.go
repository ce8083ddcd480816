// Package graph provides a shortest-loopless-paths search over a router
// adjacency graph, used as a discovery fallback when beaconing has not yet
// produced a path for a given (source, destination) pair. The search itself
// is delegated to gonum.org/v1/gonum/graph's Yen's-algorithm implementation
// rather than hand-rolled, since gonum is already a direct dependency of
// this module (sim/candidate.go uses gonum/stat) and graph/path ships
// exactly this: k-shortest, loopless (simple) paths in increasing length
// order.
package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is a router adjacency list: each key's neighbors are the routers
// directly reachable over one link.
type Graph map[string][]string

// maxCandidatePaths bounds how many loopless shortest paths Yen's algorithm
// enumerates before the caller's hop cap filters the result further. It
// stands in for "all simple paths" without requiring an unbounded search:
// topologies in this simulator's size range never have anywhere near this
// many distinct shortest-ish router paths between a single pair.
const maxCandidatePaths = 32

// AllSimplePaths returns simple (loopless) paths from src to dst, shortest
// first, capped at maxHops hops. It builds a gonum simple.DirectedGraph
// from g and runs gonum.org/v1/gonum/graph/path.YenKShortestPaths over it,
// following the id-mapping idiom (string id -> int64 node, NewNode/AddNode,
// SetEdge(NewEdge(Node(u), Node(v)))) used elsewhere in the pack for
// wrapping a domain graph in gonum's graph types.
func AllSimplePaths(g Graph, src, dst string, maxHops int) [][]string {
	if src == dst {
		return [][]string{{src}}
	}

	dg, idOf, nameOf := build(g)

	sid, ok := idOf[src]
	if !ok {
		return nil
	}
	tid, ok := idOf[dst]
	if !ok {
		return nil
	}

	raw := path.YenKShortestPaths(dg, maxCandidatePaths, dg.Node(sid), dg.Node(tid))

	var out [][]string
	for _, p := range raw {
		if len(p)-1 > maxHops {
			continue
		}
		names := make([]string, len(p))
		for i, n := range p {
			names[i] = nameOf[n.ID()]
		}
		out = append(out, names)
	}
	return out
}

// build renders g as a gonum simple.DirectedGraph, assigning each distinct
// router name a stable int64 node id in sorted order so construction is
// deterministic across runs.
func build(g Graph) (dg *simple.DirectedGraph, idOf map[string]int64, nameOf map[int64]string) {
	names := make([]string, 0, len(g))
	seen := make(map[string]bool, len(g))
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for from, neighbors := range g {
		add(from)
		for _, to := range neighbors {
			add(to)
		}
	}
	sort.Strings(names)

	dg = simple.NewDirectedGraph()
	idOf = make(map[string]int64, len(names))
	nameOf = make(map[int64]string, len(names))
	for _, n := range names {
		node := dg.NewNode()
		dg.AddNode(node)
		idOf[n] = node.ID()
		nameOf[node.ID()] = n
	}

	for from, neighbors := range g {
		u, ok := idOf[from]
		if !ok {
			continue
		}
		for _, to := range neighbors {
			v, ok := idOf[to]
			if !ok || dg.HasEdgeFromTo(u, v) {
				continue
			}
			dg.SetEdge(dg.NewEdge(dg.Node(u), dg.Node(v)))
		}
	}
	return dg, idOf, nameOf
}
