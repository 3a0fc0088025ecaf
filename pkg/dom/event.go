package dom

// Engine event names dispatched on nodes during structural reconciliation.
const (
	// EventAppended fires on a node freshly instantiated by an iteration
	// directive, after it has been rendered and attached.
	EventAppended = "rivet:appended"

	// EventRemoving fires on a node about to be detached by an iteration
	// directive. Cancelable: PreventDefault keeps the node in the DOM
	// (the bound sub-template is destroyed regardless).
	EventRemoving = "rivet:removing"

	// EventChange is the form-control change event consumed by two-way
	// value bindings.
	EventChange = "change"
)

// RemovalDetail is the Detail payload of an EventRemoving dispatch.
type RemovalDetail struct {
	// Reset is true when the removal is part of a full collection reset
	// rather than a single-element removal.
	Reset bool
}

// Event is a synchronously dispatched node event.
//
// Cancellation is per-event: PreventDefault sets a flag on this event only,
// checked by the dispatcher after all listeners have run.
type Event struct {
	Name   string
	Detail any

	prevented bool
}

// PreventDefault marks the event's default action as suppressed.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether any listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }
