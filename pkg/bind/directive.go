package bind

import (
	"github.com/go-rivet/rivet/pkg/dom"
	"github.com/go-rivet/rivet/pkg/model"
)

// Formatter is a pure unary transform composed into a directive's
// evaluation chain. Formatters receive the running value and return the
// next one; side effects (subscriptions) happen at chain-construction time,
// never inside a formatter.
type Formatter func(v any) (any, error)

// FieldBinding is the {record, field} pair recorded by the attr() modifier
// and consumed by the two-way value binding.
type FieldBinding struct {
	Record model.Record
	Field  string
}

// Directive is the runtime unit bound to one DOM node: the compiled form of
// a single directive attribute. It owns its formatter chain, its render and
// teardown callbacks, and the flag suppressing descent into child nodes.
type Directive struct {
	tpl        *Template
	node       dom.Node
	action     *Action
	param      string
	expression string

	formatters      []Formatter
	renderFn        func(v any) error
	teardowns       []func()
	suppressDescent bool
	bound           *FieldBinding
}

// Node returns the DOM node the directive is bound to.
func (d *Directive) Node() dom.Node { return d.node }

// Param returns the directive's attribute parameter, if any.
func (d *Directive) Param() string { return d.param }

// Expression returns the directive's expanded expression text.
func (d *Directive) Expression() string { return d.expression }

// Model returns the owning template's model, which may be nil.
func (d *Directive) Model() model.Record { return d.tpl.model }

// Template returns the owning template.
func (d *Directive) Template() *Template { return d.tpl }

// AppendFormatter extends the formatter chain. Formatters are append-only
// and compose left to right.
func (d *Directive) AppendFormatter(f Formatter) {
	d.formatters = append(d.formatters, f)
}

// SetRender installs the render callback. Only the first call takes effect.
func (d *Directive) SetRender(fn func(v any) error) {
	if d.renderFn == nil {
		d.renderFn = fn
	}
}

// OnTeardown registers a cleanup function invoked when the owning template
// is destroyed. Cleanups run in reverse registration order.
func (d *Directive) OnTeardown(fn func()) {
	d.teardowns = append(d.teardowns, fn)
}

// SuppressDescent stops the tree walk from descending into the directive
// node's children. One-way: it cannot be reset.
func (d *Directive) SuppressDescent() {
	d.suppressDescent = true
}

// BindField records the two-way binding target. First writer wins; later
// calls are a no-op.
func (d *Directive) BindField(rec model.Record, field string) {
	if d.bound == nil {
		d.bound = &FieldBinding{Record: rec, Field: field}
	}
}

// BoundField returns the recorded two-way binding target, or nil.
func (d *Directive) BoundField() *FieldBinding { return d.bound }

// SubscribeRender subscribes the directive's render to a record event,
// routed through the template's bound view when one is set. The
// subscription is removed exactly once, at template destroy.
func (d *Directive) SubscribeRender(rec model.Record, event string) {
	off := d.tpl.listen(rec, event, func(any) { d.Rerender() })
	d.OnTeardown(off)
}

// Evaluate folds the formatter chain over a nil seed.
func (d *Directive) Evaluate() (any, error) {
	var cur any
	for _, f := range d.formatters {
		next, err := f(cur)
		if err != nil {
			return nil, wrapError("bind.evaluate", KindEval, err)
		}
		cur = next
	}
	return cur, nil
}

// render evaluates the chain and invokes the action's render callback.
func (d *Directive) render() error {
	v, err := d.Evaluate()
	if err != nil {
		return err
	}
	if d.renderFn == nil {
		return nil
	}
	return d.renderFn(v)
}

// Rerender is the subscription entry point: it re-renders the directive and
// reports failures to the global handler, since there is no caller on the
// stack to return them to. No-op after the owning template is destroyed.
func (d *Directive) Rerender() {
	if d.tpl.phase == phaseDestroyed {
		return
	}
	if err := d.render(); err != nil {
		Report(wrapError("bind.rerender", KindEval, err))
	}
}

// teardown runs the directive's cleanups in reverse order, exactly once.
// A panicking cleanup is recovered and reported; teardown continues
// best-effort through the rest.
func (d *Directive) teardown() {
	cleanups := d.teardowns
	d.teardowns = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		runTeardown(cleanups[i])
	}
}

func runTeardown(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Report(newError("bind.teardown", KindTeardown, "recovered: %v", r))
		}
	}()
	fn()
}
