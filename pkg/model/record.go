// Package model defines the observable data-source contracts consumed by the
// binding engine, plus reference implementations used by tests and the CLI.
//
// The engine itself only ever calls the Record and Collection interfaces; any
// application type exposing the same capabilities can back a template.
//
// Subscriptions follow the cancel-func convention: On returns a function
// that removes exactly that registration. Events fire synchronously on the
// emitter's call stack.
package model

// Record is a key/value record with synchronous change notification.
//
// Set must emit a ChangeEvent(key) event after storing the value, with the
// new value as the event payload.
type Record interface {
	// Get returns the value stored under key, or nil.
	Get(key string) any

	// Set stores value under key and emits ChangeEvent(key).
	Set(key string, value any)

	// On registers a listener for the named event and returns its cancel
	// function.
	On(event string, fn func(detail any)) (off func())
}

// ChangeEvent returns the synthetic per-key change event name emitted by
// Record.Set.
func ChangeEvent(key string) string { return "change:" + key }

// Structural events emitted by a Collection.
const (
	EventAdd    = "add"
	EventRemove = "remove"
	EventReset  = "reset"
	EventSort   = "sort"
)

// Collection is an observable ordered collection. Elements must be valid map
// keys; the engine uses element identity to track per-element state across
// structural events.
//
// EventAdd and EventRemove carry the affected element as the event payload.
// EventReset and EventSort carry no payload; subscribers re-enumerate.
type Collection interface {
	// Elements returns the elements in collection order.
	Elements() []any

	// On registers a listener for one of the structural events and
	// returns its cancel function.
	On(event string, fn func(detail any)) (off func())
}
