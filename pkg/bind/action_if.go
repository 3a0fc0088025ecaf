package bind

import (
	"github.com/go-rivet/rivet/pkg/dom"
)

func init() {
	mustRegisterAction(Action{Name: "if", Init: initIf})
}

// if mounts and unmounts a cloned subtree as a sub-template on the
// truthiness of the evaluated value.
//
// At construction the node is detached and kept as a blueprint; an empty
// marker node stays behind to anchor re-insertion order. Every true
// transition clones the blueprint fresh: destroyed instances are discarded,
// never reused.
func initIf(d *Directive) error {
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}

	node := d.Node()
	marker := node.NewMarker()
	node.InsertAfter(marker)
	node.Remove()
	blueprint := node

	var active *Template
	var activeNode dom.Node
	unmount := func() {
		if active == nil {
			return
		}
		active.Destroy()
		activeNode.Remove()
		active, activeNode = nil, nil
	}

	d.SetRender(func(v any) error {
		if !truthy(v) {
			unmount()
			return nil
		}
		if active != nil {
			return nil
		}
		clone := blueprint.Clone()
		marker.InsertAfter(clone)
		sub := d.Template().spawn(clone)
		if err := sub.Render(); err != nil {
			sub.Destroy()
			clone.Remove()
			return err
		}
		active, activeNode = sub, clone
		return nil
	})
	d.OnTeardown(unmount)
	return nil
}
