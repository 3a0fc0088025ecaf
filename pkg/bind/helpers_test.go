package bind

import (
	"strings"
	"testing"

	"github.com/go-rivet/rivet/pkg/dom"
	"github.com/go-rivet/rivet/pkg/htmldom"
	"github.com/go-rivet/rivet/pkg/model"
)

// trackingRecord wraps a Map and counts subscription traffic per event, so
// tests can assert what gets wired and unwired.
type trackingRecord struct {
	*model.Map
	onCalls  map[string]int
	offCalls map[string]int
}

func newTrackingRecord(initial map[string]any) *trackingRecord {
	return &trackingRecord{
		Map:      model.NewMap(initial),
		onCalls:  make(map[string]int),
		offCalls: make(map[string]int),
	}
}

func (r *trackingRecord) On(event string, fn func(detail any)) (off func()) {
	r.onCalls[event]++
	cancel := r.Map.On(event, fn)
	return func() {
		r.offCalls[event]++
		cancel()
	}
}

// testHandler captures reported errors.
type testHandler struct {
	errors []*Error
}

func (h *testHandler) HandleError(err *Error) {
	h.errors = append(h.errors, err)
}

// parseTemplate builds a template over a single-root fragment.
func parseTemplate(t *testing.T, markup string, opts ...Option) *Template {
	t.Helper()
	_, roots, err := htmldom.ParseFragment(markup)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	tpl, err := NewTemplate(roots, opts...)
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	return tpl
}

func mustRender(t *testing.T, tpl *Template) {
	t.Helper()
	if err := tpl.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
}

func findTag(n dom.Node, tag string) dom.Node {
	if n.Tag() == tag {
		return n
	}
	for _, c := range n.Children() {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n dom.Node, tag string) []dom.Node {
	var out []dom.Node
	if n.Tag() == tag {
		out = append(out, n)
	}
	for _, c := range n.Children() {
		out = append(out, findAll(c, tag)...)
	}
	return out
}

func childTexts(n dom.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, strings.TrimSpace(c.Text()))
	}
	return out
}

func errKind(t *testing.T, err error) Kind {
	t.Helper()
	structured, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return structured.Kind
}
