package sim

// AppRegistry maps a path-tuple to the set of applications currently
// using it, so the EventManager can notify exactly the affected flows on
// a path-down/up transition. The registry owns only these indices, not
// the applications themselves — the kernel owns the running processes.
type AppRegistry struct {
	byPath map[PathKey][]*Application
}

// NewAppRegistry constructs an empty AppRegistry.
func NewAppRegistry() *AppRegistry {
	return &AppRegistry{byPath: make(map[PathKey][]*Application)}
}

// Register adds app to the set using p.
func (r *AppRegistry) Register(p Path, app *Application) {
	pk := p.KeyOf()
	r.byPath[pk] = append(r.byPath[pk], app)
}

// Unregister removes app from the set using p, if present.
func (r *AppRegistry) Unregister(p Path, app *Application) {
	pk := p.KeyOf()
	list := r.byPath[pk]
	for i, a := range list {
		if a == app {
			r.byPath[pk] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Apps returns every application currently registered on p.
func (r *AppRegistry) Apps(p Path) []*Application {
	return r.byPath[p.KeyOf()]
}
