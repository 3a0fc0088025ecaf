package bind

import "sync"

// Action is a behavior family a directive can perform. The Init function
// runs synchronously during directive construction: it compiles the
// directive's expression (which invokes modifiers exactly once) and installs
// the render and teardown callbacks.
type Action struct {
	// Name is the action identifier matched after the directive prefix.
	Name string
	// Descends reports whether the tree walk continues into the
	// directive node's children. Structural actions (text, html, if,
	// each) own their subtree and stop the walk.
	Descends bool
	// Init configures the directive. A non-nil error aborts template
	// construction.
	Init func(d *Directive) error
}

// Modifier is a callable usable inside a directive expression. Modifiers
// run once, at directive construction, in the order written; they extend
// the directive's formatter chain and/or register model subscriptions.
// Arguments arrive already evaluated.
type Modifier func(d *Directive, args []any) error

// Helper is the canonical signature for process-wide helper functions.
// Helpers registered with other function shapes are invoked through
// reflection.
type Helper func(args ...any) (any, error)

// Registries are process-wide. Actions and modifiers are registered at init
// time and sealed when the first Template is constructed; registration
// afterwards fails. Helpers stay registrable (the embedding application is
// expected to populate them before templates render; behavior of mutation
// during active rendering is undefined).
var (
	registryMu sync.RWMutex
	sealed     bool
	actions    = make(map[string]*Action)
	modifiers  = make(map[string]Modifier)
	helpers    = make(map[string]any)
)

// RegisterAction adds an action to the process-wide registry.
func RegisterAction(a Action) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if sealed {
		return newError("bind.RegisterAction", KindConfig, "registries are sealed after first template construction")
	}
	if a.Name == "" || a.Init == nil {
		return newError("bind.RegisterAction", KindConfig, "action needs a name and an Init function")
	}
	if _, exists := actions[a.Name]; exists {
		return newError("bind.RegisterAction", KindConfig, "duplicate action %q", a.Name)
	}
	registered := a
	actions[a.Name] = &registered
	return nil
}

// RegisterModifier adds an expression modifier to the process-wide registry.
func RegisterModifier(name string, m Modifier) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if sealed {
		return newError("bind.RegisterModifier", KindConfig, "registries are sealed after first template construction")
	}
	if name == "" || m == nil {
		return newError("bind.RegisterModifier", KindConfig, "modifier needs a name and a function")
	}
	if _, exists := modifiers[name]; exists {
		return newError("bind.RegisterModifier", KindConfig, "duplicate modifier %q", name)
	}
	modifiers[name] = m
	return nil
}

// RegisterHelper adds a named value (typically a function) to the
// process-wide helper table consulted by unqualified identifier lookup in
// expressions.
func RegisterHelper(name string, v any) {
	registryMu.Lock()
	defer registryMu.Unlock()
	helpers[name] = v
}

func mustRegisterAction(a Action) {
	if err := RegisterAction(a); err != nil {
		panic(err)
	}
}

func mustRegisterModifier(name string, m Modifier) {
	if err := RegisterModifier(name, m); err != nil {
		panic(err)
	}
}

func sealRegistries() {
	registryMu.Lock()
	sealed = true
	registryMu.Unlock()
}

func lookupAction(name string) (*Action, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := actions[name]
	return a, ok
}

func lookupModifier(name string) (Modifier, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := modifiers[name]
	return m, ok
}

func lookupHelper(name string) (any, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	v, ok := helpers[name]
	return v, ok
}
