// Package htmldom implements the dom.Node capability contract over
// golang.org/x/net/html trees.
//
// A Document owns one parsed tree plus the per-node event listener table and
// an optional markup sanitizer. Node values handed out by a Document are
// lightweight wrappers; two wrappers around the same underlying node compare
// equal.
package htmldom

import (
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-rivet/rivet/pkg/dom"
)

// Document owns a parsed HTML tree and the event listeners attached to its
// nodes.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]*docListener
	nextID    int
	sanitizer *bluemonday.Policy
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseFragment parses markup as a body fragment and returns the document
// together with the top-level element nodes, in order. Whitespace-only text
// between elements is kept in the tree but not reported.
func ParseFragment(markup string) (*Document, []dom.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, nil, err
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	doc := &Document{root: container}

	var roots []dom.Node
	for _, n := range parsed {
		container.AppendChild(n)
		if n.Type == html.ElementNode {
			roots = append(roots, doc.wrap(n))
		}
	}
	return doc, roots, nil
}

// SetSanitizer installs a bluemonday policy applied to all markup passed
// through Node.SetHTML. Pass nil to disable sanitation.
func (d *Document) SetSanitizer(p *bluemonday.Policy) {
	d.sanitizer = p
}

// Root returns the document root node. For fragment documents this is the
// synthetic container holding the parsed top-level nodes.
func (d *Document) Root() dom.Node {
	return d.wrap(d.root)
}

// HTML serializes the document's content (the root's children) to markup.
func (d *Document) HTML() (string, error) {
	var b strings.Builder
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Render serializes a single node (including its own tag) to markup.
// The node must originate from this package.
func Render(n dom.Node) (string, error) {
	w, ok := n.(node)
	if !ok {
		return "", errForeignNode
	}
	var b strings.Builder
	if err := html.Render(&b, w.n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *Document) wrap(n *html.Node) dom.Node {
	if n == nil {
		return nil
	}
	return node{doc: d, n: n}
}
