package sim

import "testing"

func TestAppRegistry_Register_AppearsInApps(t *testing.T) {
	r := NewAppRegistry()
	app := &Application{}
	p := Path{"r1", "r2"}

	r.Register(p, app)
	apps := r.Apps(p)
	if len(apps) != 1 || apps[0] != app {
		t.Fatalf("expected app registered on path, got %v", apps)
	}
}

func TestAppRegistry_Register_MultipleAppsSamePath(t *testing.T) {
	r := NewAppRegistry()
	a1, a2 := &Application{}, &Application{}
	p := Path{"r1"}

	r.Register(p, a1)
	r.Register(p, a2)
	if len(r.Apps(p)) != 2 {
		t.Fatalf("expected 2 apps registered, got %d", len(r.Apps(p)))
	}
}

func TestAppRegistry_Unregister_RemovesOnlyThatApp(t *testing.T) {
	r := NewAppRegistry()
	a1, a2 := &Application{}, &Application{}
	p := Path{"r1"}
	r.Register(p, a1)
	r.Register(p, a2)

	r.Unregister(p, a1)
	apps := r.Apps(p)
	if len(apps) != 1 || apps[0] != a2 {
		t.Fatalf("expected only a2 to remain, got %v", apps)
	}
}

func TestAppRegistry_Unregister_NotRegistered_IsNoop(t *testing.T) {
	r := NewAppRegistry()
	app := &Application{}
	p := Path{"r1"}
	r.Unregister(p, app) // never registered
	if len(r.Apps(p)) != 0 {
		t.Error("expected no-op unregister to leave the empty set empty")
	}
}

func TestAppRegistry_Apps_UnknownPath_ReturnsNil(t *testing.T) {
	r := NewAppRegistry()
	if got := r.Apps(Path{"never-registered"}); got != nil {
		t.Errorf("expected nil for an unknown path, got %v", got)
	}
}

func TestAppRegistry_DistinctPathsIndependent(t *testing.T) {
	r := NewAppRegistry()
	a1, a2 := &Application{}, &Application{}
	r.Register(Path{"r1"}, a1)
	r.Register(Path{"r2"}, a2)

	if len(r.Apps(Path{"r1"})) != 1 || len(r.Apps(Path{"r2"})) != 1 {
		t.Error("expected each path to track its own app set independently")
	}
}
