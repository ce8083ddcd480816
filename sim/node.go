package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/scionpath/pathsim/kernel"
)

// Node is a point on the topology graph that can accept inbound frames.
type Node interface {
	Receiver
	ID() string
}

// Registrar is the beaconing subsystem's hook into every router a beacon
// passes through, invoked once per hop with the receiving router's ID.
type Registrar interface {
	RegisterPath(b *Beacon, receivingRouter RouterID)
}

func indexOfRouter(path Path, r RouterID) int {
	for i, hop := range path {
		if hop == r {
			return i
		}
	}
	return -1
}

func containsRouter(path Path, r RouterID) bool {
	return indexOfRouter(path, r) >= 0
}

// Router holds one port per neighboring router (including cross-AS peers)
// and, separately, a link to each locally-attached host. It forwards data
// packets along their stamped Path, floods and registers beacons, and
// turns around probe packets addressed to it.
type Router struct {
	id        RouterID
	asID      ASID
	ports     map[RouterID]*Link // neighbor router -> link to it
	hostLinks map[HostID]*Link   // locally attached host -> link to it
	registrar Registrar          // set once Beaconing is wired in
}

// NewRouter constructs a Router with no ports yet attached.
func NewRouter(id RouterID) *Router {
	return &Router{
		id:        id,
		asID:      ASOf(id),
		ports:     make(map[RouterID]*Link),
		hostLinks: make(map[HostID]*Link),
	}
}

func (r *Router) ID() string  { return string(r.id) }
func (r *Router) AS() ASID    { return r.asID }
func (r *Router) Self() RouterID { return r.id }

// AddPort attaches a link to a neighboring router.
func (r *Router) AddPort(neighbor RouterID, link *Link) { r.ports[neighbor] = link }

// AddHostLink attaches a link to a locally-connected host.
func (r *Router) AddHostLink(host HostID, link *Link) { r.hostLinks[host] = link }

// SetRegistrar wires the beaconing subsystem that owns the path store.
func (r *Router) SetRegistrar(reg Registrar) { r.registrar = reg }

// Receive dispatches an inbound frame by kind.
func (r *Router) Receive(f Frame) {
	switch v := f.(type) {
	case *DataPacket:
		r.handleData(v)
	case *Beacon:
		r.handleBeacon(v)
	case *ProbePacket:
		r.handleProbe(v)
	}
}

func (r *Router) handleData(v *DataPacket) {
	idx := indexOfRouter(v.Path, r.id)
	if idx == -1 {
		logrus.Warnf("router %s: dropping data packet, not on path %v", r.id, v.Path)
		return
	}
	if idx == len(v.Path)-1 {
		if link, ok := r.hostLinks[v.Destination]; ok {
			link.Enqueue(v)
			return
		}
		logrus.Warnf("router %s: dropping data packet, destination host %s not attached", r.id, v.Destination)
		return
	}
	next := v.Path[idx+1]
	if link, ok := r.ports[next]; ok {
		link.Enqueue(v)
		return
	}
	logrus.Warnf("router %s: dropping data packet, no port to next hop %s", r.id, next)
}

// handleProbe forwards an outbound probe along its Path until it reaches
// the destination router, then turns it around and walks the Path back to
// the originating host; a returning (IsReply) probe always walks backward.
func (r *Router) handleProbe(v *ProbePacket) {
	idx := indexOfRouter(v.Path, r.id)
	if idx == -1 {
		logrus.Warnf("router %s: dropping probe, not on path %v", r.id, v.Path)
		return
	}
	if !v.IsReply && r.id != v.Destination && idx < len(v.Path)-1 {
		next := v.Path[idx+1]
		if link, ok := r.ports[next]; ok {
			link.Enqueue(v)
			return
		}
		logrus.Warnf("router %s: dropping probe, no port to next hop %s", r.id, next)
		return
	}
	if !v.IsReply {
		v.IsReply = true
	}
	if idx == 0 {
		if link, ok := r.hostLinks[v.Source]; ok {
			link.Enqueue(v)
			return
		}
		logrus.Warnf("router %s: dropping probe reply, source host %s not attached", r.id, v.Source)
		return
	}
	prev := v.Path[idx-1]
	if link, ok := r.ports[prev]; ok {
		link.Enqueue(v)
		return
	}
	logrus.Warnf("router %s: dropping probe reply, no port to previous hop %s", r.id, prev)
}

func (r *Router) handleBeacon(v *Beacon) {
	for _, h := range v.Hops {
		if h.ASId == r.asID {
			return // AS-level loop, drop
		}
	}

	var ingress RouterID
	var metrics LinkMetrics
	if len(v.Path) > 0 {
		prev := v.Path[len(v.Path)-1]
		ingress = prev
		if link, ok := r.ports[prev]; ok {
			metrics = LinkMetrics{LatencyMs: link.LatencyMs, BandwidthMbps: link.BandwidthMbps}
		}
	}
	v.Hops = append(v.Hops, HopInfo{ASId: r.asID, RouterID: r.id, IngressIf: ingress, Metrics: metrics})
	v.Path = append(v.Path, r.id)

	if r.registrar != nil {
		r.registrar.RegisterPath(v, r.id)
	}

	for _, neighbor := range r.sortedNeighbors() {
		if containsRouter(v.Path, neighbor) {
			continue
		}
		r.ports[neighbor].Enqueue(v.Clone())
	}
}

// sortedNeighbors returns port neighbor IDs in a fixed order so that
// flooding the same beacon always schedules forwarded copies in the same
// relative sequence, independent of Go's randomized map iteration —
// required for run-to-run determinism given identical inputs.
func (r *Router) sortedNeighbors() []RouterID {
	out := make([]RouterID, 0, len(r.ports))
	for n := range r.ports {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Host owns an inbound channel and the single uplink to its attached
// border router. It holds no beaconing role.
type Host struct {
	id          HostID
	asID        ASID
	uplink      *Link
	inbox       *kernel.Channel[Frame]
	probeReply  func(*ProbePacket)
}

// NewHost constructs a Host with an empty inbox bound to k.
func NewHost(id HostID, asID ASID, k *kernel.Kernel) *Host {
	return &Host{
		id:    id,
		asID:  asID,
		inbox: kernel.NewChannel[Frame](k),
	}
}

func (h *Host) ID() string    { return string(h.id) }
func (h *Host) AS() ASID      { return h.asID }
func (h *Host) Self() HostID  { return h.id }

// SetUplink attaches the link to this host's first-listed border router.
func (h *Host) SetUplink(link *Link) { h.uplink = link }

// SetProbeReplyHandler wires the selector's probe-RTT resolver; probe
// replies are routed to it instead of the ordinary inbox.
func (h *Host) SetProbeReplyHandler(fn func(*ProbePacket)) { h.probeReply = fn }

// Send enqueues f onto this host's uplink.
func (h *Host) Send(f Frame) { h.uplink.Enqueue(f) }

// Receive accepts an inbound frame: probe replies are diverted to the
// selector's resolver, everything else lands on the inbox.
func (h *Host) Receive(f Frame) {
	if v, ok := f.(*ProbePacket); ok && v.IsReply {
		if h.probeReply != nil {
			h.probeReply(v)
		}
		return
	}
	h.inbox.Put(f)
}

// Recv suspends p until a non-probe-reply frame is available on the inbox.
func (h *Host) Recv(p *kernel.Process) Frame { return h.inbox.Get(p) }
