package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/trace"
)

// ScenarioEventKind distinguishes the two event kinds a scenario can schedule.
type ScenarioEventKind string

const (
	EventPathDown ScenarioEventKind = "path-down"
	EventPathUp   ScenarioEventKind = "path-up"
)

// ScenarioEvent is one scripted path up/down transition.
type ScenarioEvent struct {
	TimeMs float64
	Kind   ScenarioEventKind
	Path   Path
}

// EventManager drives a scenario's scripted failure/recovery timeline: a
// single process that suspends until each event's time, then marks the
// path and notifies every registered application.
type EventManager struct {
	events   []ScenarioEvent
	selector AvailabilitySelector
	registry *AppRegistry
	trace    *trace.SimulationTrace
}

// NewEventManager constructs an EventManager over a time-sorted copy of events.
func NewEventManager(events []ScenarioEvent, selector AvailabilitySelector, registry *AppRegistry) *EventManager {
	sorted := make([]ScenarioEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TimeMs < sorted[j].TimeMs })
	return &EventManager{events: sorted, selector: selector, registry: registry}
}

// SetTrace attaches a decision trace; passing nil disables recording.
func (em *EventManager) SetTrace(t *trace.SimulationTrace) { em.trace = t }

// Run is the event manager's scheduling process.
func (em *EventManager) Run(p *kernel.Process) {
	for _, ev := range em.events {
		if d := ev.TimeMs - p.Now(); d > 0 {
			p.Timeout(d)
		}
		em.dispatch(p, ev)
	}
}

func (em *EventManager) dispatch(p *kernel.Process, ev ScenarioEvent) {
	switch ev.Kind {
	case EventPathDown:
		em.selector.MarkDown(ev.Path)
		for _, app := range em.registry.Apps(ev.Path) {
			app.OnPathDown(ev.Path)
		}
		logrus.Infof("[t=%08.2fms] path-down %v (%d apps notified)", p.Now(), ev.Path, len(em.registry.Apps(ev.Path)))
	case EventPathUp:
		em.selector.MarkUp(ev.Path)
		for _, app := range em.registry.Apps(ev.Path) {
			app.OnPathUp(ev.Path)
		}
		logrus.Infof("[t=%08.2fms] path-up %v (%d apps notified)", p.Now(), ev.Path, len(em.registry.Apps(ev.Path)))
	}
	em.trace.RecordEvent(trace.EventRecord{TimeMs: p.Now(), Kind: string(ev.Kind), Path: string(ev.Path.KeyOf())})
}
