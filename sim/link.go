package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/scionpath/pathsim/kernel"
)

// Frame is anything a Link can carry: DataPacket, Beacon, or ProbePacket.
type Frame interface {
	Kind() PacketKind
	SizeBytes() int
}

func (p *DataPacket) Kind() PacketKind  { return KindData }
func (p *DataPacket) SizeBytes() int    { return p.Size }
func (b *Beacon) Kind() PacketKind      { return KindBeacon }
func (b *Beacon) SizeBytes() int        { return beaconSizeBytes }
func (p *ProbePacket) Kind() PacketKind { return KindProbe }
func (p *ProbePacket) SizeBytes() int   { return p.Size }

// beaconSizeBytes is the fixed wire size charged to a beacon's transmission
// delay; spec.md leaves beacon size unspecified, this stands in for a
// small PCB control message.
const beaconSizeBytes = 200

// Receiver is a node that can accept a Frame off the wire.
type Receiver interface {
	Receive(f Frame)
}

// Link is a FIFO queue draining to destination with a propagation delay
// (Latency) plus a per-packet transmission delay derived from Bandwidth.
// Ordering within one Link is strictly FIFO; there is no ordering
// guarantee between distinct links.
type Link struct {
	ID            string
	LatencyMs     float64
	BandwidthMbps float64
	destination   Receiver
	queue         *kernel.Channel[Frame]
}

// NewLink constructs a Link bound to k, draining to destination.
func NewLink(id string, k *kernel.Kernel, latencyMs, bandwidthMbps float64, destination Receiver) *Link {
	return &Link{
		ID:            id,
		LatencyMs:     latencyMs,
		BandwidthMbps: bandwidthMbps,
		destination:   destination,
		queue:         kernel.NewChannel[Frame](k),
	}
}

// Enqueue pushes f onto the link's FIFO. Non-blocking.
func (l *Link) Enqueue(f Frame) { l.queue.Put(f) }

// transmissionDelayMs computes size_bits / bandwidth_bps * 1000.
func (l *Link) transmissionDelayMs(f Frame) float64 {
	bits := float64(f.SizeBytes()) * 8
	bps := l.BandwidthMbps * 1e6
	return bits / bps * 1000
}

// Run is the link's perpetual drain process: take, propagate, transmit, deliver.
func (l *Link) Run(p *kernel.Process) {
	for {
		f := l.queue.Get(p)
		p.Timeout(l.LatencyMs)
		p.Timeout(l.transmissionDelayMs(f))
		logrus.Debugf("[t=%08.2fms] link %s delivering %s frame", p.Now(), l.ID, f.Kind())
		l.destination.Receive(f)
	}
}
