// Package dom defines the host-environment capability contract consumed by
// the binding engine.
//
// The engine never talks to a concrete document implementation directly; it
// operates on the Node interface, which names the minimal set of operations
// the engine needs: attribute enumeration and mutation, child traversal,
// text and markup mutation, class toggling, form value access, structural
// edits (append, remove, insert-after, clone) and synchronous event
// dispatch.
//
// Package htmldom provides a concrete implementation over
// golang.org/x/net/html. Tests or embedders may supply their own.
package dom

// Attr is one attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is a DOM-like node. Implementations must make Node values comparable:
// two Node values wrapping the same underlying node compare equal.
//
// Listener registration follows the cancel-func convention: On returns a
// function that removes exactly that registration. Dispatch runs listeners
// synchronously on the caller's stack and returns the dispatched event so
// the caller can observe PreventDefault.
type Node interface {
	// Tag returns the element name, or "" for non-element nodes.
	Tag() string

	// IsElement reports whether the node is an element.
	IsElement() bool

	// Attrs enumerates the node's attributes in document order.
	Attrs() []Attr

	// Attr returns the named attribute value and whether it is present.
	Attr(name string) (string, bool)

	// SetAttr sets or replaces the named attribute.
	SetAttr(name, value string)

	// RemoveAttr deletes the named attribute if present.
	RemoveAttr(name string)

	// Parent returns the parent node, or nil at the root.
	Parent() Node

	// Children enumerates the element children in document order.
	// Text, comment and marker nodes are not included.
	Children() []Node

	// AppendChild moves child to the end of this node's child list,
	// detaching it from any previous parent.
	AppendChild(child Node)

	// InsertAfter inserts sibling immediately after this node,
	// detaching it from any previous parent.
	InsertAfter(sibling Node)

	// Remove detaches the node from its parent. No-op if already detached.
	Remove()

	// Clone returns a deep copy of the node. Event listeners are not
	// copied.
	Clone() Node

	// NewMarker creates a detached, empty, non-element node owned by the
	// same document, suitable as a stable re-insertion anchor.
	NewMarker() Node

	// Text returns the concatenated text content of the subtree.
	Text() string

	// SetText replaces the node's children with a single text node.
	SetText(s string)

	// SetHTML replaces the node's children with the parsed markup.
	SetHTML(markup string) error

	// ToggleClass adds (on) or removes (off) a single class token.
	ToggleClass(token string, on bool)

	// Value returns the form-control value.
	Value() string

	// SetValue sets the form-control value.
	SetValue(s string)

	// On registers an event listener and returns its cancel function.
	On(event string, fn func(*Event)) (off func())

	// Dispatch synchronously delivers an event to this node's listeners
	// and returns the event.
	Dispatch(event string, detail any) *Event
}
