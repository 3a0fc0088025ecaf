package htmldom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-rivet/rivet/pkg/dom"
)

var errForeignNode = errors.New("htmldom: node does not belong to this package")

// node wraps one *html.Node. It is a comparable value type: wrappers around
// the same underlying node compare equal, which the engine relies on.
type node struct {
	doc *Document
	n   *html.Node
}

func (w node) Tag() string {
	if w.n.Type != html.ElementNode {
		return ""
	}
	return w.n.Data
}

func (w node) IsElement() bool {
	return w.n.Type == html.ElementNode
}

func (w node) Attrs() []dom.Attr {
	out := make([]dom.Attr, 0, len(w.n.Attr))
	for _, a := range w.n.Attr {
		out = append(out, dom.Attr{Name: a.Key, Value: a.Val})
	}
	return out
}

func (w node) Attr(name string) (string, bool) {
	for _, a := range w.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (w node) SetAttr(name, value string) {
	for i, a := range w.n.Attr {
		if a.Key == name {
			w.n.Attr[i].Val = value
			return
		}
	}
	w.n.Attr = append(w.n.Attr, html.Attribute{Key: name, Val: value})
}

func (w node) RemoveAttr(name string) {
	for i, a := range w.n.Attr {
		if a.Key == name {
			w.n.Attr = append(w.n.Attr[:i:i], w.n.Attr[i+1:]...)
			return
		}
	}
}

func (w node) Parent() dom.Node {
	if w.n.Parent == nil {
		return nil
	}
	return node{doc: w.doc, n: w.n.Parent}
}

func (w node) Children() []dom.Node {
	var out []dom.Node
	for c := w.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, node{doc: w.doc, n: c})
		}
	}
	return out
}

func (w node) AppendChild(child dom.Node) {
	c, ok := child.(node)
	if !ok {
		return
	}
	detach(c.n)
	w.n.AppendChild(c.n)
}

func (w node) InsertAfter(sibling dom.Node) {
	s, ok := sibling.(node)
	if !ok || w.n.Parent == nil {
		return
	}
	detach(s.n)
	w.n.Parent.InsertBefore(s.n, w.n.NextSibling)
}

func (w node) Remove() {
	detach(w.n)
}

func (w node) Clone() dom.Node {
	return node{doc: w.doc, n: cloneTree(w.n)}
}

func (w node) NewMarker() dom.Node {
	return node{doc: w.doc, n: &html.Node{Type: html.CommentNode, Data: ""}}
}

func (w node) Text() string {
	var b strings.Builder
	collectText(w.n, &b)
	return b.String()
}

func (w node) SetText(s string) {
	removeChildren(w.n)
	w.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func (w node) SetHTML(markup string) error {
	if w.doc.sanitizer != nil {
		markup = w.doc.sanitizer.Sanitize(markup)
	}
	context := &html.Node{Type: html.ElementNode, Data: w.n.Data, DataAtom: w.n.DataAtom}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return err
	}
	removeChildren(w.n)
	for _, c := range parsed {
		w.n.AppendChild(c)
	}
	return nil
}

func (w node) ToggleClass(token string, on bool) {
	current, _ := w.Attr("class")
	tokens := strings.Fields(current)

	kept := tokens[:0]
	found := false
	for _, t := range tokens {
		if t == token {
			found = true
			if !on {
				continue
			}
		}
		kept = append(kept, t)
	}
	if on && !found {
		kept = append(kept, token)
	}

	if len(kept) == 0 {
		w.RemoveAttr("class")
		return
	}
	w.SetAttr("class", strings.Join(kept, " "))
}

func (w node) Value() string {
	v, _ := w.Attr("value")
	return v
}

func (w node) SetValue(s string) {
	w.SetAttr("value", s)
}

func (w node) On(event string, fn func(*dom.Event)) (off func()) {
	return w.doc.listen(w.n, event, fn)
}

func (w node) Dispatch(event string, detail any) *dom.Event {
	return w.doc.dispatch(w.n, event, detail)
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(cloneTree(k))
	}
	return c
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
