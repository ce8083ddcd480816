package sim

import (
	"testing"

	"github.com/scionpath/pathsim/kernel"
	"github.com/scionpath/pathsim/sim/trace"
)

// stubSelector is a minimal AvailabilitySelector/Selector double that never
// finds a fresh path on re-selection, so OnPathDown's attemptReselection
// always fails and leaves isPathDown observably set.
type stubSelector struct {
	downCalls []Path
	upCalls   []Path
}

func (s *stubSelector) SelectPath(src, dst ASID) (Path, bool) { return nil, false }
func (s *stubSelector) MarkDown(p Path)                       { s.downCalls = append(s.downCalls, p) }
func (s *stubSelector) MarkUp(p Path)                         { s.upCalls = append(s.upCalls, p) }
func (s *stubSelector) IsAvailable(p Path) bool               { return true }

func TestEventManager_PathDown_MarksSelectorAndNotifiesApps(t *testing.T) {
	sel := &stubSelector{}
	reg := NewAppRegistry()
	p := Path{"r1", "r2"}
	app := NewApplication(ApplicationConfig{Name: "f1"}, nil, sel, reg, NewResults())
	reg.Register(p, app)

	em := NewEventManager([]ScenarioEvent{{TimeMs: 5, Kind: EventPathDown, Path: p}}, sel, reg)

	k := kernel.New()
	k.Spawn(em.Run)
	k.Run()

	if len(sel.downCalls) != 1 || !sel.downCalls[0].Equal(p) {
		t.Fatalf("expected selector.MarkDown called with %v, got %v", p, sel.downCalls)
	}
	if !app.isPathDown {
		t.Error("expected the registered app to observe the path-down transition")
	}
}

func TestEventManager_PathUp_MarksSelectorAndNotifiesApps(t *testing.T) {
	sel := &stubSelector{}
	reg := NewAppRegistry()
	p := Path{"r1"}
	app := NewApplication(ApplicationConfig{Name: "f1"}, nil, sel, reg, NewResults())
	reg.Register(p, app)

	em := NewEventManager([]ScenarioEvent{{TimeMs: 5, Kind: EventPathUp, Path: p}}, sel, reg)

	k := kernel.New()
	k.Spawn(em.Run)
	k.Run()

	if len(sel.upCalls) != 1 || !sel.upCalls[0].Equal(p) {
		t.Fatalf("expected selector.MarkUp called with %v, got %v", p, sel.upCalls)
	}
}

func TestEventManager_DispatchesInSortedTimeOrder(t *testing.T) {
	sel := &stubSelector{}
	reg := NewAppRegistry()
	late := Path{"late"}
	early := Path{"early"}

	// Declared out of order; NewEventManager must sort by TimeMs.
	em := NewEventManager([]ScenarioEvent{
		{TimeMs: 20, Kind: EventPathDown, Path: late},
		{TimeMs: 5, Kind: EventPathDown, Path: early},
	}, sel, reg)

	k := kernel.New()
	k.Spawn(em.Run)
	k.Run()

	if len(sel.downCalls) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(sel.downCalls))
	}
	if !sel.downCalls[0].Equal(early) || !sel.downCalls[1].Equal(late) {
		t.Errorf("expected dispatch order [early,late], got %v", sel.downCalls)
	}
}

func TestEventManager_Trace_RecordsEachEvent(t *testing.T) {
	sel := &stubSelector{}
	reg := NewAppRegistry()
	p := Path{"r1"}
	em := NewEventManager([]ScenarioEvent{{TimeMs: 1, Kind: EventPathDown, Path: p}}, sel, reg)

	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	em.SetTrace(tr)

	k := kernel.New()
	k.Spawn(em.Run)
	k.Run()

	if len(tr.Events) != 1 {
		t.Fatalf("expected 1 recorded event, got %d", len(tr.Events))
	}
	if tr.Events[0].Kind != string(EventPathDown) || tr.Events[0].Path != string(p.KeyOf()) {
		t.Errorf("unexpected event record: %+v", tr.Events[0])
	}
}

func TestEventManager_NilTrace_DoesNotPanic(t *testing.T) {
	sel := &stubSelector{}
	reg := NewAppRegistry()
	em := NewEventManager([]ScenarioEvent{{TimeMs: 1, Kind: EventPathDown, Path: Path{"r1"}}}, sel, reg)

	k := kernel.New()
	k.Spawn(em.Run)
	k.Run() // must not panic with no trace attached
}
