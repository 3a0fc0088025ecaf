package bind

import (
	"strings"

	"github.com/go-rivet/rivet/pkg/dom"
	"github.com/go-rivet/rivet/pkg/model"
)

func init() {
	mustRegisterAction(Action{Name: "each", Init: initEach})
}

// each enumerates a source into one sub-template per element, using the
// directive node's single child element as the per-item blueprint.
//
// Expression grammar: "[key,] value in <source-expression>". key and value
// are bound as locals in every generated sub-template (key is the element
// index).
//
// The source is probed once, at construction: a model.Collection gets the
// subscribed reconciliation branch (add/remove/reset/sort), anything
// enumerable gets the plain branch that re-enumerates from scratch on every
// render of the directive.
func initEach(d *Directive) error {
	keyName, valueName, source, err := parseEachHeader(d.expression)
	if err != nil {
		return err
	}

	container := d.Node()
	children := container.Children()
	if len(children) != 1 {
		return newError("bind.each", KindConfig, "each requires exactly one child element as the item blueprint, got %d", len(children))
	}
	blueprint := children[0]
	blueprint.Remove()

	if err := d.compileExpression(source); err != nil {
		return err
	}

	e := &eachState{
		d:         d,
		container: container,
		blueprint: blueprint,
		keyName:   keyName,
		valueName: valueName,
	}

	probe, err := d.Evaluate()
	if err != nil {
		return err
	}
	if col, ok := probe.(model.Collection); ok {
		return e.initCollection(col)
	}
	e.initSequence()
	return nil
}

// parseEachHeader splits "[key,] value in expr" into its parts. The " in "
// separator is matched outside string literals and brackets.
func parseEachHeader(expr string) (keyName, valueName, source string, err error) {
	i := topLevelIndex(expr, " in ")
	if i < 0 {
		return "", "", "", newError("bind.each", KindConfig, "each requires '[key,] value in <expression>' grammar, got %q", expr)
	}
	head := strings.TrimSpace(expr[:i])
	source = strings.TrimSpace(expr[i+len(" in "):])

	names := strings.Split(head, ",")
	for j := range names {
		names[j] = strings.TrimSpace(names[j])
	}
	switch len(names) {
	case 1:
		valueName = names[0]
	case 2:
		keyName, valueName = names[0], names[1]
	default:
		return "", "", "", newError("bind.each", KindConfig, "each binds at most two names, got %d", len(names))
	}
	if keyName != "" && !isIdent(keyName) {
		return "", "", "", newError("bind.each", KindConfig, "each: %q is not a valid identifier", keyName)
	}
	if !isIdent(valueName) {
		return "", "", "", newError("bind.each", KindConfig, "each: %q is not a valid identifier", valueName)
	}
	if source == "" {
		return "", "", "", newError("bind.each", KindConfig, "each: empty source expression")
	}
	return keyName, valueName, source, nil
}

type eachEntry struct {
	tpl  *Template
	node dom.Node
}

type eachState struct {
	d         *Directive
	container dom.Node
	blueprint dom.Node
	keyName   string
	valueName string
}

// instantiate clones the blueprint, binds the element as locals, renders
// the sub-template and appends the clone to the container.
func (e *eachState) instantiate(el any, idx int) (*eachEntry, error) {
	clone := e.blueprint.Clone()
	e.container.AppendChild(clone)
	sub := e.d.Template().spawn(clone)
	locals := map[string]any{e.valueName: el}
	if e.keyName != "" {
		locals[e.keyName] = idx
	}
	sub.Merge(locals)
	if err := sub.Render(); err != nil {
		sub.Destroy()
		clone.Remove()
		return nil, err
	}
	return &eachEntry{tpl: sub, node: clone}, nil
}

// initSequence installs the plain branch: every render of the directive
// destroys the previous instances and re-enumerates the evaluated sequence
// from scratch. Plain sequences carry no change notification, so whole-set
// re-enumeration is the only correct behavior.
func (e *eachState) initSequence() {
	var live []*eachEntry
	clearLive := func() {
		for _, entry := range live {
			entry.tpl.Destroy()
			entry.node.Remove()
		}
		live = nil
	}

	e.d.SetRender(func(v any) error {
		seq, ok := asSlice(v)
		if !ok {
			return newError("bind.each", KindEval, "each source %T is neither a sequence nor an observable collection", v)
		}
		clearLive()
		for i, el := range seq {
			entry, err := e.instantiate(el, i)
			if err != nil {
				return err
			}
			live = append(live, entry)
		}
		return nil
	})
	e.d.OnTeardown(clearLive)
}

// initCollection installs the subscribed branch: four structural events
// each get a dedicated reconciliation rule, tracked by element identity.
func (e *eachState) initCollection(col model.Collection) error {
	entries := make(map[any]*eachEntry)
	var order []any

	add := func(el any, idx int) error {
		entry, err := e.instantiate(el, idx)
		if err != nil {
			return err
		}
		entries[el] = entry
		order = append(order, el)
		entry.node.Dispatch(dom.EventAppended, el)
		return nil
	}

	remove := func(el any, reset bool) {
		entry, ok := entries[el]
		if !ok {
			return
		}
		entry.tpl.Destroy()
		ev := entry.node.Dispatch(dom.EventRemoving, dom.RemovalDetail{Reset: reset})
		if !ev.DefaultPrevented() {
			entry.node.Remove()
		}
		delete(entries, el)
		for i, o := range order {
			if o == el {
				order = append(order[:i:i], order[i+1:]...)
				break
			}
		}
	}

	reset := func() error {
		for _, el := range snapshotKeys(order) {
			remove(el, true)
		}
		for i, el := range col.Elements() {
			if err := add(el, i); err != nil {
				return err
			}
		}
		e.d.Template().emit(EventReset, nil)
		return nil
	}

	subscribe := func(event string, fn func(any)) {
		off := col.On(event, fn)
		e.d.OnTeardown(off)
	}
	subscribe(model.EventAdd, func(el any) {
		if err := add(el, len(order)); err != nil {
			Report(wrapError("bind.each", KindEval, err))
		}
	})
	subscribe(model.EventRemove, func(el any) {
		remove(el, false)
	})
	subscribe(model.EventReset, func(any) {
		if err := reset(); err != nil {
			Report(wrapError("bind.each", KindEval, err))
		}
	})
	subscribe(model.EventSort, func(any) {
		// Re-append in collection order; instances are moved, never
		// destroyed or recreated.
		for _, el := range col.Elements() {
			if entry, ok := entries[el]; ok {
				e.container.AppendChild(entry.node)
			}
		}
	})

	e.d.OnTeardown(func() {
		for _, el := range snapshotKeys(order) {
			if entry, ok := entries[el]; ok {
				entry.tpl.Destroy()
				delete(entries, el)
			}
		}
		order = nil
	})
	e.d.SetRender(func(any) error { return nil })

	if len(col.Elements()) > 0 {
		return reset()
	}
	return nil
}

func snapshotKeys(order []any) []any {
	return append([]any(nil), order...)
}
