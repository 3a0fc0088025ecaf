package htmldom

import (
	"golang.org/x/net/html"

	"github.com/go-rivet/rivet/pkg/dom"
)

type docListener struct {
	id int
	fn func(*dom.Event)
}

func (d *Document) listen(n *html.Node, event string, fn func(*dom.Event)) func() {
	if d.listeners == nil {
		d.listeners = make(map[*html.Node]map[string][]*docListener)
	}
	byEvent := d.listeners[n]
	if byEvent == nil {
		byEvent = make(map[string][]*docListener)
		d.listeners[n] = byEvent
	}
	d.nextID++
	l := &docListener{id: d.nextID, fn: fn}
	byEvent[event] = append(byEvent[event], l)

	return func() {
		regs := d.listeners[n][event]
		for i, candidate := range regs {
			if candidate.id == l.id {
				d.listeners[n][event] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

// dispatch delivers the event synchronously to the node's listeners. The
// listener list is snapshotted so listeners may unsubscribe during delivery.
func (d *Document) dispatch(n *html.Node, event string, detail any) *dom.Event {
	ev := &dom.Event{Name: event, Detail: detail}
	regs := d.listeners[n][event]
	if len(regs) == 0 {
		return ev
	}
	snapshot := make([]*docListener, len(regs))
	copy(snapshot, regs)
	for _, l := range snapshot {
		l.fn(ev)
	}
	return ev
}
