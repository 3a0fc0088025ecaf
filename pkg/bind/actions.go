package bind

import "strings"

func init() {
	mustRegisterAction(Action{Name: "text", Init: initText})
	mustRegisterAction(Action{Name: "html", Init: initHTML})
	mustRegisterAction(Action{Name: "at", Descends: true, Init: initAt})
	mustRegisterAction(Action{Name: "class", Descends: true, Init: initClass})
	mustRegisterAction(Action{Name: "run", Descends: true, Init: initRun})
}

// text sets the element's text content to the evaluated value. The walk
// does not descend: the subtree is owned by the rendered text.
func initText(d *Directive) error {
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	node := d.Node()
	d.SetRender(func(v any) error {
		node.SetText(stringify(v))
		return nil
	})
	return nil
}

// html sets the element's inner markup to the evaluated value. Stops
// descent, like text.
func initHTML(d *Directive) error {
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	node := d.Node()
	d.SetRender(func(v any) error {
		return node.SetHTML(stringify(v))
	})
	return nil
}

// at(name) sets the named attribute to the evaluated value; the attribute
// is removed when the value is exactly the boolean false.
func initAt(d *Directive) error {
	name := strings.TrimSpace(d.Param())
	if name == "" {
		return newError("bind.at", KindConfig, "at requires an attribute-name parameter")
	}
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	node := d.Node()
	d.SetRender(func(v any) error {
		if b, ok := v.(bool); ok && !b {
			node.RemoveAttr(name)
			return nil
		}
		node.SetAttr(name, stringify(v))
		return nil
	})
	return nil
}

// class(tokens) toggles the parameter's class tokens on the truthiness of
// the evaluated value. '.' and ':' in the parameter normalize to spaces.
func initClass(d *Directive) error {
	normalized := strings.NewReplacer(".", " ", ":", " ").Replace(d.Param())
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return newError("bind.class", KindConfig, "class requires class-name tokens")
	}
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	node := d.Node()
	d.SetRender(func(v any) error {
		on := truthy(v)
		for _, token := range tokens {
			node.ToggleClass(token, on)
		}
		return nil
	})
	return nil
}

// run evaluates the expression purely for its side effects on every render.
func initRun(d *Directive) error {
	if err := d.compileExpression(d.expression); err != nil {
		return err
	}
	d.SetRender(func(any) error { return nil })
	return nil
}
