package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/config"
	"github.com/scionpath/pathsim/sim/trace"
)

// SimulationConfig wires everything a run needs: the parsed topology and
// traffic documents, the selector policy, and the ambient knobs (beacon
// interval, beacon-convergence warm-up) that spec.md's distillation
// leaves as external collaborator detail but a real CLI tool needs to
// expose.
type SimulationConfig struct {
	Topology config.Topology
	Traffic  *config.Traffic

	SelectorKind string // "adaptive" (default) or "shortest"
	Adaptive     AdaptiveConfig

	BeaconIntervalMs float64
	BeaconWarmupMs   float64

	TraceLevel       trace.TraceLevel
	DiscoverFallback bool
}

// DefaultSimulationConfig returns sane defaults for the ambient knobs,
// matching the Python prototype's explicit beacon-convergence wait
// (there 2000ms, scaled down here to this simulator's much shorter
// default beacon interval).
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		SelectorKind:     "adaptive",
		Adaptive:         DefaultAdaptiveConfig(),
		BeaconIntervalMs: 500,
		BeaconWarmupMs:   50,
	}
}

// Simulation is the top-level orchestrator tying the kernel, topology,
// path store, selector, applications, and event manager into one run.
//
// Grounded on simulation.py in the Python prototype: start beaconing,
// wait for convergence, start flows, start the event manager, run for
// duration_ms, print results.
type Simulation struct {
	cfg SimulationConfig

	k     *kernel.Kernel
	topo  *Topology
	store *PathStore
	avail *Availability

	selector Selector
	registry *AppRegistry
	results  *Results
	trace    *trace.SimulationTrace

	apps []*Application
}

// New validates cfg and builds the topology graph. All configuration
// errors are returned here, before any process is spawned, per spec.md
// §7's "abort before simulation starts" rule.
func New(cfg SimulationConfig) (*Simulation, error) {
	if cfg.Traffic == nil {
		return nil, fmt.Errorf("simulation: traffic config is required")
	}

	k := kernel.New()
	topo, err := Build(cfg.Topology, k)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	for _, flow := range cfg.Traffic.Flows {
		if _, ok := topo.Hosts[HostID(flow.Source)]; !ok {
			return nil, fmt.Errorf("simulation: flow %s: unknown source host %s", flow.Name, flow.Source)
		}
		if _, ok := topo.Hosts[HostID(flow.Destination)]; !ok {
			return nil, fmt.Errorf("simulation: flow %s: unknown destination host %s", flow.Name, flow.Destination)
		}
	}

	store := NewPathStore()
	avail := NewAvailability()

	var selector Selector
	switch cfg.SelectorKind {
	case "", "adaptive":
		selector = NewAdaptiveSelector(cfg.Adaptive, store, avail, k)
	case "shortest":
		selector = NewShortestSelector(store, avail)
	default:
		return nil, fmt.Errorf("simulation: unknown selector kind %q", cfg.SelectorKind)
	}

	sim := &Simulation{
		cfg:      cfg,
		k:        k,
		topo:     topo,
		store:    store,
		avail:    avail,
		selector: selector,
		registry: NewAppRegistry(),
		results:  NewResults(),
		trace:    trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel}),
	}
	if adaptive, ok := selector.(*AdaptiveSelector); ok {
		adaptive.SetTrace(sim.trace)
		if cfg.DiscoverFallback {
			adaptive.SetDiscoveryFallback(topo.DiscoverPaths)
		}
	} else if shortest, ok := selector.(*ShortestSelector); ok && cfg.DiscoverFallback {
		shortest.SetDiscoveryFallback(topo.DiscoverPaths)
	}
	return sim, nil
}

// Run spawns every process (links, beaconing, probing, flows, event
// manager) and advances the kernel until durationMs, then returns the
// accumulated results.
func (s *Simulation) Run() *Results {
	s.topo.SpawnLinks(s.k)
	WireBeaconing(s.topo, s.store, s.cfg.BeaconIntervalMs, s.k)

	if adaptive, ok := s.selector.(*AdaptiveSelector); ok {
		for _, h := range s.topo.Hosts {
			h.SetProbeReplyHandler(adaptive.HandleProbeReply)
		}
		adaptive.StartProbing(s.topo, s.k)
	}

	s.k.Spawn(s.launchFlows)

	logrus.Infof("starting simulation: %d hosts, %d routers, duration %.0fms", len(s.topo.Hosts), len(s.topo.Routers), s.cfg.Traffic.DurationMs)
	s.k.RunUntil(s.cfg.Traffic.DurationMs)
	logrus.Infof("[t=%08.2fms] simulation ended", s.k.Now())
	return s.results
}

// launchFlows waits out the beacon-convergence warm-up, then spawns one
// Application per scripted flow and, if any events are scripted, the
// EventManager.
func (s *Simulation) launchFlows(p *kernel.Process) {
	p.Timeout(s.cfg.BeaconWarmupMs)

	for _, flow := range s.cfg.Traffic.Flows {
		appCfg := ApplicationConfig{
			Name:        flow.Name,
			SourceHost:  HostID(flow.Source),
			DestHost:    HostID(flow.Destination),
			StartTimeMs: flow.StartTimeMs,
			DataSizeKb:  flow.DataSizeKb,
		}
		app := NewApplication(appCfg, s.topo.Hosts[appCfg.SourceHost], s.selector, s.registry, s.results)
		s.apps = append(s.apps, app)
		p.Kernel().Spawn(app.Run)
	}

	if avail, ok := s.selector.(AvailabilitySelector); ok && len(s.cfg.Traffic.Events) > 0 {
		events := make([]ScenarioEvent, 0, len(s.cfg.Traffic.Events))
		for _, e := range s.cfg.Traffic.Events {
			path := make(Path, len(e.Path))
			for i, r := range e.Path {
				path[i] = RouterID(r)
			}
			events = append(events, ScenarioEvent{TimeMs: e.TimeMs, Kind: ScenarioEventKind(e.Kind), Path: path})
		}
		em := NewEventManager(events, avail, s.registry)
		em.SetTrace(s.trace)
		p.Kernel().Spawn(em.Run)
	}
}

// Apps returns every application spawned by the run, for tests that need
// to inspect per-flow counters.
func (s *Simulation) Apps() []*Application { return s.apps }

// PathStore exposes the run's path store, for tests asserting on beacon convergence.
func (s *Simulation) PathStore() *PathStore { return s.store }

// Selector exposes the run's selector.
func (s *Simulation) Selector() Selector { return s.selector }

// Trace exposes the run's decision trace (always non-nil; empty unless
// TraceLevel was set to "decisions").
func (s *Simulation) Trace() *trace.SimulationTrace { return s.trace }
