package bind

import (
	"github.com/go-rivet/rivet/pkg/dom"
	"github.com/go-rivet/rivet/pkg/model"
)

// DefaultPrefix is the directive attribute prefix used when no WithPrefix
// option is given.
const DefaultPrefix = "@"

// Template lifecycle events observable via Template.On.
const (
	// EventDestroy fires at the start of Destroy, before any teardown.
	EventDestroy = "destroy"
	// EventReset fires after an iteration directive finishes
	// re-instantiating its sub-templates on a collection reset.
	EventReset = "reset"
)

// View is the optional lifecycle-aware owner of a template. When set, model
// subscriptions are routed through it instead of the raw record, so the
// owner can tie their lifetime to its own.
type View interface {
	Listen(rec model.Record, event string, fn func(detail any)) (cancel func())
}

// phase is the template's explicit lifecycle state, checked at every public
// entry point. Transitions are one-way: constructed -> initialized ->
// destroyed.
type phase int

const (
	phaseConstructed phase = iota
	phaseInitialized
	phaseDestroyed
)

// Template is the root coordinating object for one DOM subtree. It owns the
// directives discovered under its root, the local-variable context, the
// model binding, and the sub-templates spawned by structural directives.
type Template struct {
	root   dom.Node
	prefix string
	model  model.Record
	view   View
	locals map[string]any

	directives []*Directive
	parent     *Template
	children   []*Template

	listeners map[string][]*tplListener
	nextID    int

	phase phase
}

// Option configures a Template at construction.
type Option func(*Template)

// WithModel binds the template to an observable record. The binding is
// shared, not owned; many templates may bind the same record.
func WithModel(rec model.Record) Option {
	return func(t *Template) { t.model = rec }
}

// WithLocals merges name/value pairs into the template's local context.
func WithLocals(locals map[string]any) Option {
	return func(t *Template) { t.Merge(locals) }
}

// WithView routes the template's model subscriptions through a
// lifecycle-aware owner.
func WithView(v View) Option {
	return func(t *Template) { t.view = v }
}

// WithPrefix overrides the directive attribute prefix.
func WithPrefix(prefix string) Option {
	return func(t *Template) { t.prefix = prefix }
}

// New creates a template over a single root node. Directives are not
// discovered until the first Render.
func New(root dom.Node, opts ...Option) (*Template, error) {
	if root == nil {
		return nil, newError("bind.New", KindConfig, "template requires a root node")
	}
	t := &Template{
		root:   root,
		prefix: DefaultPrefix,
		locals: make(map[string]any),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// NewTemplate creates a template from a parsed node list, enforcing the
// single-root rule: construction fails unless exactly one root is supplied.
func NewTemplate(roots []dom.Node, opts ...Option) (*Template, error) {
	if len(roots) != 1 {
		return nil, newError("bind.NewTemplate", KindConfig, "template requires exactly one root node, got %d", len(roots))
	}
	return New(roots[0], opts...)
}

// Root returns the template's root node.
func (t *Template) Root() dom.Node { return t.root }

// Model returns the bound record, which may be nil.
func (t *Template) Model() model.Record { return t.model }

// Merge adds locals to the template's context. Later merges override
// earlier keys with the same name.
func (t *Template) Merge(locals map[string]any) {
	if t.locals == nil {
		t.locals = make(map[string]any, len(locals))
	}
	for k, v := range locals {
		t.locals[k] = v
	}
}

func (t *Template) lookupLocal(name string) (any, bool) {
	v, ok := t.locals[name]
	return v, ok
}

// Render synchronizes the DOM with the current model state. The first call
// performs the one-time tree walk that discovers and compiles directives;
// subsequent calls re-render the already-compiled set in discovery order.
// A construction failure leaves nothing wired: every subscription
// registered before the failing directive is removed, and the template
// becomes unusable.
func (t *Template) Render() error {
	switch t.phase {
	case phaseDestroyed:
		return newError("bind.Render", KindConfig, "template is destroyed")
	case phaseConstructed:
		sealRegistries()
		if err := t.walk(t.root); err != nil {
			t.unwire()
			t.phase = phaseDestroyed
			return err
		}
		t.phase = phaseInitialized
	}

	for _, d := range t.directives {
		if err := d.render(); err != nil {
			return err
		}
	}
	return nil
}

// walk performs the depth-first directive discovery: each node's attributes
// are matched in document order before its children are visited, matched
// attributes are removed from the DOM, and descent stops under directives
// that suppress it.
func (t *Template) walk(n dom.Node) error {
	if n == nil || !n.IsElement() {
		return nil
	}

	descend := true
	for _, a := range n.Attrs() {
		pd, ok := ParseAttr(t.prefix, a.Name, a.Value)
		if !ok {
			continue
		}
		n.RemoveAttr(a.Name)
		d, err := t.newDirective(n, pd)
		if err != nil {
			return err
		}
		t.directives = append(t.directives, d)
		if d.suppressDescent {
			descend = false
		}
	}

	if !descend {
		return nil
	}
	for _, c := range n.Children() {
		if err := t.walk(c); err != nil {
			return err
		}
	}
	return nil
}

// newDirective constructs one directive: it resolves the action, then runs
// the action initializer synchronously (modifier evaluation, and with it
// subscription registration, happens exactly once, here).
func (t *Template) newDirective(n dom.Node, pd ParsedDirective) (*Directive, error) {
	action, ok := lookupAction(pd.Action)
	if !ok {
		return nil, newError("bind.directive", KindConfig, "unknown action %q", pd.Action)
	}
	d := &Directive{
		tpl:        t,
		node:       n,
		action:     action,
		param:      pd.Param,
		expression: pd.Expression,
	}
	if !action.Descends {
		d.suppressDescent = true
	}
	if err := action.Init(d); err != nil {
		d.teardown()
		return nil, err
	}
	return d, nil
}

// spawn creates a sub-template owned by this one, inheriting the prefix,
// model binding, bound view and a snapshot of the locals.
func (t *Template) spawn(root dom.Node) *Template {
	child := &Template{
		root:   root,
		prefix: t.prefix,
		model:  t.model,
		view:   t.view,
		locals: make(map[string]any, len(t.locals)),
		parent: t,
	}
	for k, v := range t.locals {
		child.locals[k] = v
	}
	t.children = append(t.children, child)
	return child
}

// Destroy tears the template down: the destroy signal reaches every
// directive and every descendant sub-template, each subscription is undone
// exactly once, and teardown continues best-effort past failures. Destroy
// is idempotent and irreversible; it never propagates to the parent
// template.
func (t *Template) Destroy() {
	if t.phase == phaseDestroyed {
		return
	}
	t.phase = phaseDestroyed
	t.emit(EventDestroy, nil)
	t.unwire()
	if t.parent != nil {
		t.parent.dropChild(t)
		t.parent = nil
	}
}

// unwire destroys owned sub-templates and runs directive teardowns. Shared
// between Destroy and the failed-construction path.
func (t *Template) unwire() {
	children := t.children
	t.children = nil
	for _, c := range children {
		c.parent = nil
		c.Destroy()
	}
	directives := t.directives
	t.directives = nil
	for _, d := range directives {
		d.teardown()
	}
}

func (t *Template) dropChild(child *Template) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i:i], t.children[i+1:]...)
			return
		}
	}
}

// listen routes a record subscription through the bound view when present.
func (t *Template) listen(rec model.Record, event string, fn func(any)) func() {
	if t.view != nil {
		return t.view.Listen(rec, event, fn)
	}
	return rec.On(event, fn)
}

type tplListener struct {
	id int
	fn func(any)
}

// On registers a listener for a template lifecycle event (EventDestroy,
// EventReset) and returns its cancel function.
func (t *Template) On(event string, fn func(detail any)) (off func()) {
	if t.listeners == nil {
		t.listeners = make(map[string][]*tplListener)
	}
	t.nextID++
	l := &tplListener{id: t.nextID, fn: fn}
	t.listeners[event] = append(t.listeners[event], l)
	return func() {
		regs := t.listeners[event]
		for i, candidate := range regs {
			if candidate.id == l.id {
				t.listeners[event] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

func (t *Template) emit(event string, detail any) {
	regs := t.listeners[event]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]*tplListener, len(regs))
	copy(snapshot, regs)
	for _, l := range snapshot {
		l.fn(detail)
	}
}
