package model

import "sort"

// List is the reference Collection implementation: an observable ordered
// list emitting add, remove, reset and sort events.
//
// Elements are compared by Go equality when removed, and must be valid map
// keys (the engine tracks per-element state keyed by element identity).
type List struct {
	emitter
	elems []any
}

// NewList creates a List with the given initial elements.
func NewList(elems ...any) *List {
	l := &List{}
	l.elems = append(l.elems, elems...)
	return l
}

// Elements returns a copy of the elements in list order.
func (l *List) Elements() []any {
	out := make([]any, len(l.elems))
	copy(out, l.elems)
	return out
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// On registers a listener for one of the structural events and returns its
// cancel function.
func (l *List) On(event string, fn func(detail any)) (off func()) {
	return l.on(event, fn)
}

// Append adds an element to the end of the list and emits EventAdd with the
// element as payload.
func (l *List) Append(v any) {
	l.elems = append(l.elems, v)
	l.emit(EventAdd, v)
}

// Remove deletes the first element equal to v and emits EventRemove with the
// element as payload. No event fires if the element is absent.
func (l *List) Remove(v any) {
	for i, e := range l.elems {
		if e == v {
			l.elems = append(l.elems[:i:i], l.elems[i+1:]...)
			l.emit(EventRemove, v)
			return
		}
	}
}

// Replace swaps the whole contents of the list and emits EventReset.
func (l *List) Replace(elems []any) {
	l.elems = make([]any, len(elems))
	copy(l.elems, elems)
	l.emit(EventReset, nil)
}

// Sort reorders the list with the given comparison and emits EventSort.
// Existing elements keep their identity; only their order changes.
func (l *List) Sort(less func(a, b any) bool) {
	sort.SliceStable(l.elems, func(i, j int) bool {
		return less(l.elems[i], l.elems[j])
	})
	l.emit(EventSort, nil)
}
