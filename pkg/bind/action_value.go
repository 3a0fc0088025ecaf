package bind

import (
	"github.com/go-rivet/rivet/pkg/dom"
)

func init() {
	mustRegisterAction(Action{Name: "value", Descends: true, Init: initValue})
}

type controlKind int

const (
	controlPlain controlKind = iota
	controlCheckbox
	controlRadio
	controlSelectMulti
)

// value two-way binds a form control. Rendering pushes the evaluated value
// into the control; if the expression recorded a field binding via attr(),
// the first render also attaches (exactly once) a change listener that
// writes user edits back into the model field. The listener is removed when
// the owning template is destroyed.
func initValue(d *Directive) error {
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	node := d.Node()
	attached := false
	d.SetRender(func(v any) error {
		applyControlValue(node, v)
		if !attached {
			attached = true
			if b := d.BoundField(); b != nil {
				attachWriteback(d, b)
			}
		}
		return nil
	})
	return nil
}

func kindOf(n dom.Node) controlKind {
	switch n.Tag() {
	case "input":
		t, _ := n.Attr("type")
		switch t {
		case "checkbox":
			return controlCheckbox
		case "radio":
			return controlRadio
		}
	case "select":
		if _, ok := n.Attr("multiple"); ok {
			return controlSelectMulti
		}
	}
	return controlPlain
}

// applyControlValue pushes an evaluated value into a control. Multi-valued
// controls coerce the value to a list: members are checked or selected,
// every other control sharing the group is cleared. Plain controls take the
// scalar value directly.
func applyControlValue(n dom.Node, v any) {
	switch kindOf(n) {
	case controlCheckbox, controlRadio:
		members := memberSet(asList(v))
		for _, ctl := range controlGroup(n) {
			if members[ctl.Value()] {
				ctl.SetAttr("checked", "checked")
			} else {
				ctl.RemoveAttr("checked")
			}
		}
	case controlSelectMulti:
		members := memberSet(asList(v))
		for _, opt := range n.Children() {
			if opt.Tag() != "option" {
				continue
			}
			if members[optionValue(opt)] {
				opt.SetAttr("selected", "selected")
			} else {
				opt.RemoveAttr("selected")
			}
		}
	default:
		n.SetValue(stringify(v))
	}
}

// attachWriteback wires the change listener(s) writing the control's
// current value back into the bound model field.
func attachWriteback(d *Directive, b *FieldBinding) {
	node := d.Node()
	kind := kindOf(node)
	switch kind {
	case controlCheckbox, controlRadio:
		group := controlGroup(node)
		for _, ctl := range group {
			off := ctl.On(dom.EventChange, func(*dom.Event) {
				b.Record.Set(b.Field, readGroupValue(group, kind))
			})
			d.OnTeardown(off)
		}
	case controlSelectMulti:
		off := node.On(dom.EventChange, func(*dom.Event) {
			var selected []any
			for _, opt := range node.Children() {
				if opt.Tag() != "option" {
					continue
				}
				if _, ok := opt.Attr("selected"); ok {
					selected = append(selected, optionValue(opt))
				}
			}
			b.Record.Set(b.Field, selected)
		})
		d.OnTeardown(off)
	default:
		off := node.On(dom.EventChange, func(*dom.Event) {
			b.Record.Set(b.Field, node.Value())
		})
		d.OnTeardown(off)
	}
}

func readGroupValue(group []dom.Node, kind controlKind) any {
	if kind == controlRadio {
		for _, ctl := range group {
			if _, ok := ctl.Attr("checked"); ok {
				return ctl.Value()
			}
		}
		return nil
	}
	var checked []any
	for _, ctl := range group {
		if _, ok := ctl.Attr("checked"); ok {
			checked = append(checked, ctl.Value())
		}
	}
	return checked
}

// controlGroup collects the inputs sharing the control's name attribute,
// searching from the tree root. A control without a name is its own group.
func controlGroup(n dom.Node) []dom.Node {
	name, _ := n.Attr("name")
	if name == "" {
		return []dom.Node{n}
	}
	root := n
	for root.Parent() != nil {
		root = root.Parent()
	}
	var group []dom.Node
	var visit func(dom.Node)
	visit = func(cur dom.Node) {
		if cur.Tag() == "input" {
			if got, ok := cur.Attr("name"); ok && got == name {
				group = append(group, cur)
			}
		}
		for _, c := range cur.Children() {
			visit(c)
		}
	}
	visit(root)
	if len(group) == 0 {
		group = []dom.Node{n}
	}
	return group
}

func optionValue(opt dom.Node) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return opt.Text()
}

func memberSet(list []any) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[stringify(v)] = true
	}
	return set
}
