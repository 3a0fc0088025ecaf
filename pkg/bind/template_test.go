package bind

import (
	"testing"

	"github.com/go-rivet/rivet/pkg/htmldom"
	"github.com/go-rivet/rivet/pkg/model"
)

// recordingView captures the subscriptions routed through a bound view.
type recordingView struct {
	events []string
}

func (v *recordingView) Listen(rec model.Record, event string, fn func(detail any)) (cancel func()) {
	v.events = append(v.events, event)
	return rec.On(event, fn)
}

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil root")
	}
}

func TestNewTemplate_EnforcesSingleRoot(t *testing.T) {
	_, roots, err := htmldom.ParseFragment("<p>one</p><p>two</p>")
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}

	if _, err := NewTemplate(roots); err == nil {
		t.Error("expected error for two roots")
	}
	if _, err := NewTemplate(nil); err == nil {
		t.Error("expected error for zero roots")
	}

	tpl, err := NewTemplate(roots[:1])
	if err != nil {
		t.Fatalf("expected single root to be accepted, got %v", err)
	}
	if tpl.Root() != roots[0] {
		t.Error("expected Root to return the supplied node")
	}
}

func TestRender_RemovesDirectiveAttributes(t *testing.T) {
	tpl := parseTemplate(t, `<div id="keep" @text="'hi'"></div>`)
	defer tpl.Destroy()
	mustRender(t, tpl)

	if _, ok := tpl.Root().Attr("@text"); ok {
		t.Error("expected directive attribute removed from the DOM")
	}
	if v, _ := tpl.Root().Attr("id"); v != "keep" {
		t.Errorf("expected plain attribute kept, got %q", v)
	}
}

func TestRender_UnknownActionFailsConstruction(t *testing.T) {
	tpl := parseTemplate(t, `<div @bogus="'x'"></div>`)

	err := tpl.Render()
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	if errKind(t, err) != KindConfig {
		t.Errorf("expected config error, got %v", errKind(t, err))
	}
}

// A construction failure after a directive has subscribed must leave nothing
// wired.
func TestRender_FailedConstructionUnwiresEverything(t *testing.T) {
	rec := newTrackingRecord(map[string]any{"a": "x"})
	tpl := parseTemplate(t,
		`<div><span @text="attr(model, 'a')"></span><span @bogus="'x'"></span></div>`,
		WithModel(rec))

	if err := tpl.Render(); err == nil {
		t.Fatal("expected construction failure")
	}

	event := model.ChangeEvent("a")
	if rec.onCalls[event] != 1 {
		t.Fatalf("expected 1 subscription before the failure, got %d", rec.onCalls[event])
	}
	if rec.offCalls[event] != 1 {
		t.Errorf("expected the subscription removed, got %d removals", rec.offCalls[event])
	}

	if err := tpl.Render(); err == nil {
		t.Error("expected the failed template to stay unusable")
	}
}

func TestRender_WalksTreeOnce(t *testing.T) {
	rec := newTrackingRecord(map[string]any{"a": "x"})
	tpl := parseTemplate(t, `<span @text="attr(model, 'a')"></span>`, WithModel(rec))
	defer tpl.Destroy()

	mustRender(t, tpl)
	mustRender(t, tpl)

	event := model.ChangeEvent("a")
	if rec.onCalls[event] != 1 {
		t.Errorf("expected a single subscription across renders, got %d", rec.onCalls[event])
	}
}

func TestRender_DirectivesRunInDocumentOrder(t *testing.T) {
	var order []string
	mark := func(label string) any { order = append(order, label); return nil }

	tpl := parseTemplate(t,
		`<div @run="mark('outer')"><span @run="mark('first')"></span><span @run="mark('second')"></span></div>`,
		WithLocals(map[string]any{"mark": mark}))
	defer tpl.Destroy()
	mustRender(t, tpl)

	want := []string{"outer", "first", "second"}
	if len(order) != len(want) {
		t.Fatalf("expected %d evaluations, got %d (%v)", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("evaluation %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestRender_ModelChangeRerendersDirective(t *testing.T) {
	m := model.NewMap(map[string]any{"name": "Ada"})
	tpl := parseTemplate(t, `<span @text="attr(model, 'name')"></span>`, WithModel(m))
	defer tpl.Destroy()
	mustRender(t, tpl)

	m.Set("name", "Grace")

	if got := tpl.Root().Text(); got != "Grace" {
		t.Errorf("expected re-rendered text %q, got %q", "Grace", got)
	}
}

func TestRender_CustomPrefix(t *testing.T) {
	tpl := parseTemplate(t, `<span data-bind-text="'hi'"></span>`, WithPrefix("data-bind-"))
	defer tpl.Destroy()
	mustRender(t, tpl)

	if got := tpl.Root().Text(); got != "hi" {
		t.Errorf("expected custom-prefix directive applied, got %q", got)
	}
}

func TestWithView_RoutesSubscriptions(t *testing.T) {
	m := model.NewMap(map[string]any{"name": "Ada"})
	view := &recordingView{}
	tpl := parseTemplate(t, `<span @text="attr(model, 'name')"></span>`,
		WithModel(m), WithView(view))
	defer tpl.Destroy()
	mustRender(t, tpl)

	if len(view.events) != 1 || view.events[0] != model.ChangeEvent("name") {
		t.Errorf("expected subscription routed through the view, got %v", view.events)
	}

	m.Set("name", "Grace")
	if got := tpl.Root().Text(); got != "Grace" {
		t.Errorf("expected view-routed re-render, got %q", got)
	}
}

func TestMerge_LaterKeysOverride(t *testing.T) {
	tpl := parseTemplate(t, `<span @text="who"></span>`,
		WithLocals(map[string]any{"who": "first"}))
	defer tpl.Destroy()

	tpl.Merge(map[string]any{"who": "second"})
	mustRender(t, tpl)

	if got := tpl.Root().Text(); got != "second" {
		t.Errorf("expected later merge to win, got %q", got)
	}
}

func TestDestroy_UnsubscribesEverything(t *testing.T) {
	rec := newTrackingRecord(map[string]any{"a": "x", "b": "y"})
	tpl := parseTemplate(t,
		`<div><span @text="attr(model, 'a')"></span><span @text="attr(model, 'b')"></span></div>`,
		WithModel(rec))
	mustRender(t, tpl)

	tpl.Destroy()

	for _, event := range []string{model.ChangeEvent("a"), model.ChangeEvent("b")} {
		if rec.onCalls[event] != rec.offCalls[event] {
			t.Errorf("event %q: %d subscriptions, %d removals",
				event, rec.onCalls[event], rec.offCalls[event])
		}
	}

	before := tpl.Root().Text()
	rec.Set("a", "changed")
	if tpl.Root().Text() != before {
		t.Error("expected no re-render after destroy")
	}
}

func TestDestroy_IsIdempotent(t *testing.T) {
	tpl := parseTemplate(t, `<span @text="'hi'"></span>`)
	mustRender(t, tpl)

	destroys := 0
	tpl.On(EventDestroy, func(any) { destroys++ })

	tpl.Destroy()
	tpl.Destroy()

	if destroys != 1 {
		t.Errorf("expected 1 destroy event, got %d", destroys)
	}
	if err := tpl.Render(); err == nil {
		t.Error("expected Render to fail after destroy")
	}
}

func TestTemplateOn_CancelRemovesListener(t *testing.T) {
	tpl := parseTemplate(t, `<span @text="'hi'"></span>`)
	mustRender(t, tpl)

	fired := 0
	off := tpl.On(EventDestroy, func(any) { fired++ })
	off()

	tpl.Destroy()
	if fired != 0 {
		t.Errorf("expected canceled listener not to fire, got %d", fired)
	}
}

// A panicking teardown is reported and must not stop the rest of the
// teardown from running.
func TestDestroy_ContinuesPastPanickingTeardown(t *testing.T) {
	handler := &testHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	rec := newTrackingRecord(map[string]any{"a": "x"})
	tpl := parseTemplate(t, `<span @text="attr(model, 'a')"></span>`, WithModel(rec))
	mustRender(t, tpl)
	for _, d := range tpl.directives {
		d.OnTeardown(func() { panic("teardown boom") })
	}

	tpl.Destroy()

	if len(handler.errors) != 1 {
		t.Fatalf("expected 1 reported teardown error, got %d", len(handler.errors))
	}
	if handler.errors[0].Kind != KindTeardown {
		t.Errorf("expected teardown kind, got %v", handler.errors[0].Kind)
	}
	event := model.ChangeEvent("a")
	if rec.offCalls[event] != 1 {
		t.Errorf("expected subscription removed despite the panic, got %d removals", rec.offCalls[event])
	}
}
