package model

// Map is the reference Record implementation: an observable string-keyed map.
//
//	user := model.NewMap(map[string]any{"name": "Ada"})
//	off := user.On(model.ChangeEvent("name"), func(v any) { ... })
//	user.Set("name", "Grace") // listener fires synchronously
//	off()
type Map struct {
	emitter
	values map[string]any
}

// NewMap creates a Map seeded with the given values. The initial map is
// copied; nil is allowed.
func NewMap(initial map[string]any) *Map {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Map{values: values}
}

// Get returns the value stored under key, or nil.
func (m *Map) Get(key string) any {
	return m.values[key]
}

// Set stores value under key and emits ChangeEvent(key) with the new value.
func (m *Map) Set(key string, value any) {
	m.values[key] = value
	m.emit(ChangeEvent(key), value)
}

// On registers a listener for the named event and returns its cancel
// function.
func (m *Map) On(event string, fn func(detail any)) (off func()) {
	return m.on(event, fn)
}

// Emit delivers an application-defined event to listeners. Useful with the
// on() expression modifier to re-render directives on custom signals.
func (m *Map) Emit(event string, detail any) {
	m.emit(event, detail)
}

// Len returns the number of stored keys.
func (m *Map) Len() int { return len(m.values) }
