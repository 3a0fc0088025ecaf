// Package bind implements the directive compilation and reactive rendering
// engine: it scans a DOM subtree for prefixed attributes ("directives"),
// compiles each into a reactive binding, and keeps the live DOM
// synchronized with an observable model as it changes.
//
// # Core Types
//
// Template is the root coordinating object for one DOM subtree. Its first
// Render performs the one-time tree walk that discovers directives;
// subsequent Renders re-render the compiled set. Destroy undoes every
// subscription exactly once and cascades through sub-templates.
//
// Directive is the compiled binding between one directive attribute and a
// render/teardown behavior. Each directive owns an ordered chain of
// Formatters folded over a nil seed on every render.
//
// # Directives
//
// An attribute matches the directive grammar
// <prefix><action>[(<param>)] or <prefix><action>:<param>; the attribute
// value is the expression. With the default "@" prefix:
//
//	<h1 @text="attr(model, 'title')"></h1>
//	<p @class(active)="attr(model, 'enabled')"></p>
//	<input @value="attr(model, 'name')">
//	<div @if="attr(model, 'visible')">...</div>
//	<ul @each="item in attr(model, 'items')"><li @text="item"></li></ul>
//
// Built-in actions: text, html, at, class, value, if, each, run. Register
// additional ones with RegisterAction before constructing templates.
//
// # Expressions
//
// Expressions are restricted call chains, not scripts. Calls naming a
// registered modifier (attr, format, on) run once at construction and wire
// the directive; everything else becomes a formatter. The shorthand
// "expr -> code" appends an inline formatter whose body sees the running
// value as "val":
//
//	<span @text="attr(model, 'n') -> double(val)"></span>
//
// Identifiers resolve against template locals, then the reserved names
// model and node, then the process-wide helper table (RegisterHelper).
//
// # Model Contract
//
// The engine only consumes the model.Record and model.Collection
// interfaces; model.Map and model.List are reference implementations.
// All events fire synchronously; renders triggered by subscriptions run to
// completion on the emitter's call stack.
//
// # Errors
//
// Configuration errors (unknown action, malformed grammar, missing model)
// fail template construction and leave no subscription wired. Evaluation
// errors surface to the Render caller. Failures with no caller on the
// stack (subscription re-renders, teardown panics) go to the handler set
// with SetHandler.
package bind
