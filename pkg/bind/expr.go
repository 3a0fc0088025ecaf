package bind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// The expression language is a restricted call chain rather than a general
// script:
//
//	chain := term ('.' call)*
//	term  := call | literal | ident
//	call  := ident ['(' arg (',' arg)* ')']
//	arg   := chain | '{' chain '}'
//
// '{chain}' is a unary function literal: it evaluates its body with the
// running value bound as "val". It is what the "-> code" shorthand expands
// into.
//
// Compilation evaluates the chain once, in construction mode: calls naming a
// registered modifier are invoked immediately (left to right, exactly once)
// and may extend the directive's formatter chain or register subscriptions;
// everything else becomes an appended formatter evaluated lazily on each
// render. Unqualified identifiers resolve in order: modifiers (call position
// only), enclosing function-literal bindings, template locals, the reserved
// names "model" and "node", then process-wide helpers.

type exprNode interface{ isExpr() }

type litExpr struct{ value any }

type callExpr struct {
	name string
	args []exprNode
	// parens distinguishes "f()" from a bare "f". In term position a bare
	// identifier is a value lookup; in chain position it is still a call.
	parens bool
}

type fnExpr struct{ body *chainExpr }

type chainExpr struct {
	root  exprNode
	calls []*callExpr
}

func (*litExpr) isExpr()   {}
func (*callExpr) isExpr()  {}
func (*fnExpr) isExpr()    {}
func (*chainExpr) isExpr() {}

// --- lexer ---

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokDot
	tokComma
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
)

type token struct {
	kind  tokenKind
	text  string
	value any
	pos   int
}

func lexExpression(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '.':
			toks = append(toks, token{kind: tokDot, text: ".", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '{':
			toks = append(toks, token{kind: tokLBrace, text: "{", pos: i})
			i++
		case c == '}':
			toks = append(toks, token{kind: tokRBrace, text: "}", pos: i})
			i++
		case c == '\'' || c == '"':
			s, next, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: src[i:next], value: s, pos: i})
			i = next
		case isDigit(c) || (c == '-' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			i++
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			text := src[start:i]
			v, err := parseNumber(text)
			if err != nil {
				return nil, newError("bind.lex", KindExpr, "bad number %q at %d", text, start)
			}
			toks = append(toks, token{kind: tokNumber, text: text, value: v, pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, newError("bind.lex", KindExpr, "unexpected character %q at %d", string(c), i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func lexString(src string, start int) (string, int, error) {
	quote := src[start]
	var b strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		if c == '\\' && i+1 < len(src) {
			switch src[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				// Quotes, backslashes and anything else escape to
				// themselves.
				b.WriteByte(src[i+1])
			}
			i += 2
			continue
		}
		if c == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(c)
		i++
	}
	return "", 0, newError("bind.lex", KindExpr, "unterminated string at %d", start)
}

func parseNumber(text string) (any, error) {
	if strings.Contains(text, ".") {
		return strconv.ParseFloat(text, 64)
	}
	return strconv.Atoi(text)
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
func isIdentChar(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func isIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// --- parser ---

type exprParser struct {
	toks []token
	pos  int
}

func parseExpression(src string) (*chainExpr, error) {
	toks, err := lexExpression(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	chain, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, newError("bind.parse", KindExpr, "trailing input at %d", p.peek().pos)
	}
	return chain, nil
}

func (p *exprParser) peek() token { return p.toks[p.pos] }

func (p *exprParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) parseChain() (*chainExpr, error) {
	root, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	chain := &chainExpr{root: root}
	for p.peek().kind == tokDot {
		p.next()
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		chain.calls = append(chain.calls, call)
	}
	return chain, nil
}

func (p *exprParser) parseTerm() (exprNode, error) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		switch t.text {
		case "true":
			p.next()
			return &litExpr{value: true}, nil
		case "false":
			p.next()
			return &litExpr{value: false}, nil
		case "null", "nil":
			p.next()
			return &litExpr{value: nil}, nil
		}
		return p.parseCall()
	case tokString, tokNumber:
		p.next()
		return &litExpr{value: t.value}, nil
	case tokLBrace:
		p.next()
		body, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRBrace {
			return nil, newError("bind.parse", KindExpr, "expected '}' at %d", p.peek().pos)
		}
		p.next()
		return &fnExpr{body: body}, nil
	default:
		return nil, newError("bind.parse", KindExpr, "expected expression at %d", t.pos)
	}
}

// parseCall parses an identifier with an optional argument list. A bare
// identifier with no parentheses is an identExpr in term position and a
// zero-argument call in chain position; the caller decides which via the
// returned node's type.
func (p *exprParser) parseCall() (*callExpr, error) {
	t := p.next()
	if t.kind != tokIdent {
		return nil, newError("bind.parse", KindExpr, "expected identifier at %d", t.pos)
	}
	call := &callExpr{name: t.text}
	if p.peek().kind != tokLParen {
		return call, nil
	}
	call.parens = true
	p.next()
	if p.peek().kind == tokRParen {
		p.next()
		return call, nil
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)
		switch p.peek().kind {
		case tokComma:
			p.next()
		case tokRParen:
			p.next()
			return call, nil
		default:
			return nil, newError("bind.parse", KindExpr, "expected ',' or ')' at %d", p.peek().pos)
		}
	}
}

func (p *exprParser) parseArg() (exprNode, error) {
	chain, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	if len(chain.calls) == 0 {
		return chain.root, nil
	}
	return chain, nil
}

// --- compilation (construction mode) ---

func (d *Directive) compileExpression(src string) error {
	src = strings.TrimSpace(src)
	if src == "" {
		return newError("bind.compile", KindExpr, "empty expression")
	}
	chain, err := parseExpression(src)
	if err != nil {
		return err
	}

	switch root := chain.root.(type) {
	case *callExpr:
		if !root.parens {
			// A bare identifier is a value lookup, not a call.
			name := root.name
			d.AppendFormatter(func(any) (any, error) {
				return d.resolveIdent(name, nil)
			})
		} else if err := d.applyCall(root, true); err != nil {
			return err
		}
	case *litExpr:
		v := root.value
		d.AppendFormatter(func(any) (any, error) { return v, nil })
	default:
		return newError("bind.compile", KindExpr, "expression cannot start with a function literal")
	}

	for _, call := range chain.calls {
		if err := d.applyCall(call, false); err != nil {
			return err
		}
	}
	return nil
}

// applyCall dispatches one chain call at construction time. Modifier calls
// run immediately; anything else is deferred into the formatter chain and
// resolved against locals and helpers on each render.
func (d *Directive) applyCall(call *callExpr, isRoot bool) error {
	if m, ok := lookupModifier(call.name); ok {
		args, err := d.evalArgs(call.args, nil)
		if err != nil {
			return err
		}
		return m(d, args)
	}

	name := call.name
	argNodes := call.args
	d.AppendFormatter(func(cur any) (any, error) {
		fn, err := d.resolveCallable(name, nil)
		if err != nil {
			return nil, err
		}
		args, err := d.evalArgs(argNodes, nil)
		if err != nil {
			return nil, err
		}
		if !isRoot {
			args = append([]any{cur}, args...)
		}
		return callValue(fn, args...)
	})
	return nil
}

// --- evaluation (value mode) ---

func (d *Directive) evalArgs(nodes []exprNode, env map[string]any) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := d.evalNode(n, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *Directive) evalNode(n exprNode, env map[string]any) (any, error) {
	switch t := n.(type) {
	case *litExpr:
		return t.value, nil
	case *fnExpr:
		body := t.body
		outer := env
		return Formatter(func(v any) (any, error) {
			scope := map[string]any{"val": v}
			for k, val := range outer {
				if k != "val" {
					scope[k] = val
				}
			}
			return d.evalChain(body, scope)
		}), nil
	case *callExpr:
		if !t.parens {
			// Bare identifier in value position.
			return d.resolveIdent(t.name, env)
		}
		fn, err := d.resolveCallable(t.name, env)
		if err != nil {
			return nil, err
		}
		args, err := d.evalArgs(t.args, env)
		if err != nil {
			return nil, err
		}
		return callValue(fn, args...)
	case *chainExpr:
		return d.evalChain(t, env)
	}
	return nil, newError("bind.eval", KindEval, "unhandled expression node %T", n)
}

func (d *Directive) evalChain(ch *chainExpr, env map[string]any) (any, error) {
	cur, err := d.evalNode(ch.root, env)
	if err != nil {
		return nil, err
	}
	for _, call := range ch.calls {
		fn, err := d.resolveCallable(call.name, env)
		if err != nil {
			return nil, err
		}
		args, err := d.evalArgs(call.args, env)
		if err != nil {
			return nil, err
		}
		cur, err = callValue(fn, append([]any{cur}, args...)...)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func (d *Directive) resolveIdent(name string, env map[string]any) (any, error) {
	if env != nil {
		if v, ok := env[name]; ok {
			return v, nil
		}
	}
	if v, ok := d.tpl.lookupLocal(name); ok {
		return v, nil
	}
	switch name {
	case "model":
		if d.tpl.model != nil {
			return d.tpl.model, nil
		}
		return nil, nil
	case "node":
		return d.node, nil
	}
	if v, ok := lookupHelper(name); ok {
		return v, nil
	}
	return nil, newError("bind.eval", KindEval, "unknown identifier %q", name)
}

func (d *Directive) resolveCallable(name string, env map[string]any) (any, error) {
	v, err := d.resolveIdent(name, env)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, newError("bind.eval", KindEval, "%q is not callable (nil)", name)
	}
	return v, nil
}

// callValue invokes an arbitrary function value with the given arguments.
// Common shapes are dispatched directly; everything else goes through
// reflection. A trailing error result is propagated.
func callValue(fn any, args ...any) (any, error) {
	switch f := fn.(type) {
	case Formatter:
		if len(args) == 1 {
			return f(args[0])
		}
	case func(any) (any, error):
		if len(args) == 1 {
			return f(args[0])
		}
	case func(any) any:
		if len(args) == 1 {
			return f(args[0]), nil
		}
	case Helper:
		return f(args...)
	case func(...any) (any, error):
		return f(args...)
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return nil, newError("bind.call", KindEval, "%T is not callable", fn)
	}
	ft := rv.Type()

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, newError("bind.call", KindEval, "too few arguments: got %d, want at least %d", len(args), fixed)
		}
	} else if len(args) != ft.NumIn() {
		return nil, newError("bind.call", KindEval, "wrong argument count: got %d, want %d", len(args), ft.NumIn())
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if i < fixed {
			pt = ft.In(i)
		} else {
			pt = ft.In(ft.NumIn() - 1).Elem()
		}
		v, err := conform(a, pt)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}

	out := rv.Call(in)
	var result any
	for _, o := range out {
		if o.Type() == errorType {
			if !o.IsNil() {
				return nil, wrapError("bind.call", KindEval, o.Interface().(error))
			}
			continue
		}
		if result == nil {
			result = o.Interface()
		}
	}
	return result, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func conform(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(a)
	if av.Type().AssignableTo(pt) {
		return av, nil
	}
	if av.Type().ConvertibleTo(pt) {
		return av.Convert(pt), nil
	}
	return reflect.Value{}, newError("bind.call", KindEval, "cannot use %T as %s", a, fmt.Sprint(pt))
}
