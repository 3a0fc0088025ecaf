package bind

import (
	"reflect"

	"github.com/go-rivet/rivet/pkg/model"
)

func init() {
	mustRegisterModifier("attr", modifierAttr)
	mustRegisterModifier("format", modifierFormat)
	mustRegisterModifier("on", modifierOn)
}

// attr(record, field) appends a formatter yielding the record's current
// field value and subscribes the directive's render to the field's change
// event. It also records the {record, field} pair for the two-way value
// binding; the first attr() call in an expression wins, later ones are
// silently ignored.
func modifierAttr(d *Directive, args []any) error {
	if len(args) != 2 {
		return newError("bind.attr", KindConfig, "attr expects (model, field), got %d arguments", len(args))
	}
	rec, ok := args[0].(model.Record)
	if !ok || rec == nil {
		return newError("bind.attr", KindConfig, "attr: missing model")
	}
	field := stringify(args[1])
	if field == "" {
		return newError("bind.attr", KindConfig, "attr: empty field name")
	}

	d.AppendFormatter(func(any) (any, error) {
		return rec.Get(field), nil
	})
	d.SubscribeRender(rec, model.ChangeEvent(field))
	d.BindField(rec, field)
	return nil
}

// format(fn) appends fn to the formatter chain. fn may be a Formatter, a
// func(any) any, or any unary function (invoked through reflection).
func modifierFormat(d *Directive, args []any) error {
	if len(args) != 1 {
		return newError("bind.format", KindConfig, "format expects one function argument, got %d", len(args))
	}
	f, err := asFormatter(args[0])
	if err != nil {
		return err
	}
	d.AppendFormatter(f)
	return nil
}

// on(event) subscribes the directive's render to an arbitrary model event.
// No formatter is appended.
func modifierOn(d *Directive, args []any) error {
	if len(args) != 1 {
		return newError("bind.on", KindConfig, "on expects one event-name argument, got %d", len(args))
	}
	rec := d.Model()
	if rec == nil {
		return newError("bind.on", KindConfig, "on: template has no model")
	}
	event := stringify(args[0])
	if event == "" {
		return newError("bind.on", KindConfig, "on: empty event name")
	}
	d.SubscribeRender(rec, event)
	return nil
}

func asFormatter(v any) (Formatter, error) {
	switch fn := v.(type) {
	case nil:
		return nil, newError("bind.format", KindConfig, "format: nil function")
	case Formatter:
		return fn, nil
	case func(any) (any, error):
		return fn, nil
	case func(any) any:
		return func(x any) (any, error) { return fn(x), nil }, nil
	}
	if reflect.ValueOf(v).Kind() != reflect.Func {
		return nil, newError("bind.format", KindConfig, "format: %T is not callable", v)
	}
	return func(x any) (any, error) { return callValue(v, x) }, nil
}
