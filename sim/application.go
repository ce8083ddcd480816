package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/scionpath/pathsim/kernel"
)

const (
	appPacketSizeBytes     = 1500
	appInterPacketSpacing  = 1.0 // ms
	appPathDownRetryMs     = 10.0
	bytesPerKb             = 1024
)

// ApplicationConfig is one scripted flow: a source, a destination, a start
// time, and a total payload size sent as fixed 1500-byte packets.
type ApplicationConfig struct {
	Name        string
	SourceHost  HostID
	DestHost    HostID
	StartTimeMs float64
	DataSizeKb  float64
}

// Application is a process-driven flow source: it selects a path, sends a
// burst of fixed-size packets over it, and reacts to path-down/up events
// and selector feedback via a receive handler.
//
// Grounded on application.py in the Python prototype this was distilled
// from: the same suspend/select/register/spawn-receiver/send-loop
// protocol, translated from a generator-based coroutine into a
// kernel.Process.
type Application struct {
	cfg      ApplicationConfig
	host     *Host
	selector Selector
	registry *AppRegistry
	results  *Results

	currentPath Path
	isPathDown  bool

	PacketsSent     int
	PacketsReceived int
	PacketsLost     int
}

// NewApplication constructs an Application bound to its host and the
// selector/registry/results it shares with the rest of the simulation.
func NewApplication(cfg ApplicationConfig, host *Host, selector Selector, registry *AppRegistry, results *Results) *Application {
	return &Application{cfg: cfg, host: host, selector: selector, registry: registry, results: results}
}

func (a *Application) srcAS() ASID { return ASOfHost(a.cfg.SourceHost) }
func (a *Application) dstAS() ASID { return ASOfHost(a.cfg.DestHost) }

// Run is the flow's send-loop process.
func (a *Application) Run(p *kernel.Process) {
	if d := a.cfg.StartTimeMs - p.Now(); d > 0 {
		p.Timeout(d)
	}

	path, ok := a.selector.SelectPath(a.srcAS(), a.dstAS())
	if !ok {
		logrus.Warnf("[t=%08.2fms] flow %s: no path %s->%s, terminating", p.Now(), a.cfg.Name, a.srcAS(), a.dstAS())
		return
	}
	a.currentPath = path
	a.registry.Register(path, a)

	p.Kernel().Spawn(a.receiveLoop)

	numPackets := int(a.cfg.DataSizeKb * bytesPerKb / appPacketSizeBytes)
	sent := 0
	for sent < numPackets {
		if a.isPathDown {
			if !a.attemptReselection() {
				p.Timeout(appPathDownRetryMs)
				continue
			}
		}

		pkt := &DataPacket{
			Source:       a.cfg.SourceHost,
			Destination:  a.cfg.DestHost,
			Path:         a.currentPath.Clone(),
			Size:         appPacketSizeBytes,
			CreationTime: p.Now(),
		}
		a.host.Send(pkt)
		a.PacketsSent++
		a.results.RecordSent()
		sent++
		p.Timeout(appInterPacketSpacing)
	}
}

// receiveLoop is the flow's perpetual receive-handler process.
func (a *Application) receiveLoop(p *kernel.Process) {
	for {
		f := a.host.Recv(p)
		dp, ok := f.(*DataPacket)
		if !ok {
			continue
		}
		latency := p.Now() - dp.CreationTime
		a.PacketsReceived++
		a.results.RecordLatency(latency)
		if fb, ok := a.selector.(FeedbackSelector); ok {
			fb.UpdateFeedback(dp.Path, latency, false, dp.Size)
		}
	}
}

// attemptReselection asks the selector for a fresh path and, if one is
// available, swaps the registry entry over to it.
func (a *Application) attemptReselection() bool {
	path, ok := a.selector.SelectPath(a.srcAS(), a.dstAS())
	if !ok {
		return false
	}
	a.registry.Unregister(a.currentPath, a)
	a.currentPath = path
	a.registry.Register(path, a)
	a.isPathDown = false
	return true
}

// OnPathDown marks the flow's current path down and triggers immediate
// re-selection; the send loop falls back to a retry-timeout cadence if
// re-selection does not immediately succeed.
func (a *Application) OnPathDown(path Path) {
	a.isPathDown = true
	a.attemptReselection()
}

// OnPathUp is informational; the baseline policy takes no action on it.
func (a *Application) OnPathUp(path Path) {}

// NotifyLoss records an explicit loss signal. spec.md §7 specifies that
// the baseline does not synthesise this from router drops, so nothing in
// this package currently calls it; it exists for a future explicit-loss
// injection path.
func (a *Application) NotifyLoss(pkt *DataPacket) {
	a.PacketsLost++
	a.results.RecordLoss()
	if fb, ok := a.selector.(FeedbackSelector); ok {
		fb.UpdateFeedback(pkt.Path, 0, true, pkt.Size)
	}
}
