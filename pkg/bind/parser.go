package bind

import "strings"

// ParsedDirective is the structured result of matching one attribute against
// the directive grammar.
type ParsedDirective struct {
	// Action is the action identifier following the prefix.
	Action string
	// Param is the optional parenthesized or colon-delimited parameter.
	Param string
	// Expression is the attribute value after shorthand expansion.
	Expression string
}

// ParseAttr matches an attribute name/value pair against the directive
// grammar: <prefix><action>[(<param>)] or <prefix><action>:<param>.
// The second return value reports whether the attribute is a directive.
// Parsing is pure; it does not touch the DOM.
func ParseAttr(prefix, name, value string) (ParsedDirective, bool) {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return ParsedDirective{}, false
	}
	rest := name[len(prefix):]

	i := 0
	for i < len(rest) && isActionChar(rest[i]) {
		i++
	}
	if i == 0 {
		return ParsedDirective{}, false
	}

	action := rest[:i]
	param := ""
	switch {
	case i == len(rest):
	case rest[i] == ':':
		param = rest[i+1:]
	case rest[i] == '(' && strings.HasSuffix(rest[i:], ")"):
		param = rest[i+1 : len(rest)-1]
	default:
		return ParsedDirective{}, false
	}

	return ParsedDirective{
		Action:     action,
		Param:      param,
		Expression: ExpandShorthand(value),
	}, true
}

func isActionChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// ExpandShorthand normalizes the two expression shorthands:
//
//   - a leading run of '.' characters is stripped, so fluent-style
//     expressions may start with a modifier call (".attr(model, 'x')");
//   - a trailing "-> code" is rewritten as an appended inline formatter,
//     ".format({code})", where {expr} is the grammar's unary function
//     literal binding the running value as "val".
//
// Expansion is idempotent: the expanded form contains no top-level "->".
func ExpandShorthand(expr string) string {
	s := strings.TrimSpace(expr)
	s = strings.TrimSpace(strings.TrimLeft(s, "."))
	return expandArrows(s)
}

func expandArrows(s string) string {
	i := topLevelIndex(s, "->")
	if i < 0 {
		return s
	}
	left := strings.TrimSpace(s[:i])
	right := expandArrows(strings.TrimSpace(s[i+2:]))
	if right == "" {
		return left
	}
	if left == "" {
		return "format({" + right + "})"
	}
	return left + ".format({" + right + "})"
}

// topLevelIndex returns the index of the first occurrence of target outside
// string literals, parentheses and braces, or -1.
func topLevelIndex(s, target string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], target) {
				return i
			}
		}
	}
	return -1
}
