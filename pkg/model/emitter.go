package model

// emitter is the shared listener table behind Map and List.
//
// Not safe for concurrent use; the engine is single-threaded and
// event-driven, and emitters are expected to be driven from that same
// thread of control.
type emitter struct {
	listeners map[string][]*listener
	nextID    int
}

type listener struct {
	id int
	fn func(any)
}

func (e *emitter) on(event string, fn func(any)) func() {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	e.nextID++
	l := &listener{id: e.nextID, fn: fn}
	e.listeners[event] = append(e.listeners[event], l)

	return func() {
		regs := e.listeners[event]
		for i, candidate := range regs {
			if candidate.id == l.id {
				e.listeners[event] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

// emit delivers the event synchronously. The listener list is snapshotted so
// listeners may unsubscribe (or subscribe) during delivery.
func (e *emitter) emit(event string, detail any) {
	regs := e.listeners[event]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]*listener, len(regs))
	copy(snapshot, regs)
	for _, l := range snapshot {
		l.fn(detail)
	}
}
