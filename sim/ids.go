// Package sim implements the routing simulator's data and control plane:
// packets, links, routers, hosts, topology construction, beacon-driven path
// discovery, the adaptive path selector, applications, and the event
// manager that drives failure scenarios. It is built on top of the
// cooperative scheduler in package kernel.
package sim

import "strings"

// RouterID identifies a border router, encoded as ISD-AS followed by a
// router-local suffix delimited by "-br" (e.g. "1-ff00:0:110-br1").
type RouterID string

// ASID identifies an autonomous system by its ISD-AS string (e.g. "1-ff00:0:110").
type ASID string

// HostID identifies a host as "ISD-AS,host-addr".
type HostID string

// asDelim is the token separating an AS prefix from a router-local suffix
// in a RouterID, per the topology's router naming convention.
const asDelim = "-br"

// ASOf derives the owning AS of a router ID by splitting on the "-br" token.
func ASOf(r RouterID) ASID {
	if i := strings.Index(string(r), asDelim); i >= 0 {
		return ASID(r[:i])
	}
	return ASID(r)
}

// ASOfHost derives the owning AS of a host ID, encoded as "ISD-AS,host-addr".
func ASOfHost(h HostID) ASID {
	if i := strings.Index(string(h), ","); i >= 0 {
		return ASID(h[:i])
	}
	return ASID(h)
}

// Path is an ordered, simple sequence of router IDs: the ingress border
// router of the source AS through the egress border router of the
// destination AS. Hosts are never part of a Path.
type Path []RouterID

// PathKey is the hashable, order-preserving string form of a Path, used as
// a map key everywhere a Path itself (a slice, and so uncomparable) would
// otherwise be needed: the candidates map, the path store, the
// unavailability map, and the app registry.
type PathKey string

// KeyOf renders p as its PathKey.
func (p Path) KeyOf() PathKey {
	parts := make([]string, len(p))
	for i, r := range p {
		parts[i] = string(r)
	}
	return PathKey(strings.Join(parts, ">"))
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Reverse returns a new Path with the hops in reverse order.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, r := range p {
		out[len(p)-1-i] = r
	}
	return out
}

// Equal reports whether p and q name the same router sequence.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// asPathKey is the hashable AS-level counterpart of PathKey.
type asPathKey string

func asPath(ases []ASID) asPathKey {
	parts := make([]string, len(ases))
	for i, a := range ases {
		parts[i] = string(a)
	}
	return asPathKey(strings.Join(parts, ">"))
}

// pathPairKey identifies a (srcAs, dstAs) entry in the path store.
type pathPairKey struct {
	src ASID
	dst ASID
}
