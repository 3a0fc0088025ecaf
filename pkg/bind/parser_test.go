package bind

import "testing"

func TestParseAttr_Grammar(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		value   string
		ok      bool
		action  string
		param   string
		expr    string
	}{
		{"plain action", "@text", "'hi'", true, "text", "", "'hi'"},
		{"paren param", "@at(href)", "url", true, "at", "href", "url"},
		{"colon param", "@at:href", "url", true, "at", "href", "url"},
		{"empty paren param", "@at()", "url", true, "at", "", "url"},
		{"param with dots", "@class(warn.bold)", "flag", true, "class", "warn.bold", "flag"},
		{"underscore action", "@my_action", "x", true, "my_action", "x", "x"},
		{"no prefix", "text", "'hi'", false, "", "", ""},
		{"prefix only", "@", "x", false, "", "", ""},
		{"unterminated paren", "@at(href", "x", false, "", "", ""},
		{"junk after action", "@at!", "x", false, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd, ok := ParseAttr("@", tt.attr, tt.value)
			if ok != tt.ok {
				t.Fatalf("ParseAttr(%q) ok = %v, want %v", tt.attr, ok, tt.ok)
			}
			if !ok {
				return
			}
			if pd.Action != tt.action {
				t.Errorf("Action = %q, want %q", pd.Action, tt.action)
			}
			if pd.Param != tt.param {
				t.Errorf("Param = %q, want %q", pd.Param, tt.param)
			}
			if pd.Expression != tt.expr {
				t.Errorf("Expression = %q, want %q", pd.Expression, tt.expr)
			}
		})
	}
}

func TestParseAttr_CustomPrefix(t *testing.T) {
	pd, ok := ParseAttr("data-bind-", "data-bind-text", "'hi'")
	if !ok {
		t.Fatal("expected directive match with custom prefix")
	}
	if pd.Action != "text" {
		t.Errorf("Action = %q, want %q", pd.Action, "text")
	}

	if _, ok := ParseAttr("data-bind-", "@text", "'hi'"); ok {
		t.Error("expected no match for foreign prefix")
	}
}

func TestExpandShorthand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain passthrough", "attr(model, 'x')", "attr(model, 'x')"},
		{"leading dot", ".attr(model, 'x')", "attr(model, 'x')"},
		{"leading dots and space", "  ..attr(model, 'x')", "attr(model, 'x')"},
		{"arrow", "attr(model, 'x') -> upper(val)", "attr(model, 'x').format({upper(val)})"},
		{
			"chained arrows",
			"attr(model, 'x') -> upper(val) -> trim(val)",
			"attr(model, 'x').format({upper(val).format({trim(val)})})",
		},
		{"arrow in string untouched", "attr(model, 'a -> b')", "attr(model, 'a -> b')"},
		{"arrow in parens untouched", "fmt('->', val)", "fmt('->', val)"},
		{"empty right side dropped", "attr(model, 'x') ->", "attr(model, 'x')"},
		{"empty left side", "-> upper(val)", "format({upper(val)})"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandShorthand(tt.in)
			if got != tt.want {
				t.Errorf("ExpandShorthand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Expanding an already-expanded expression must change nothing: the expanded
// form carries no top-level arrow.
func TestExpandShorthand_Idempotent(t *testing.T) {
	inputs := []string{
		"attr(model, 'x')",
		".attr(model, 'x') -> upper(val)",
		"a -> b -> c",
		"'literal -> text'",
		"-> upper(val)",
	}
	for _, in := range inputs {
		once := ExpandShorthand(in)
		twice := ExpandShorthand(once)
		if once != twice {
			t.Errorf("expansion of %q is not idempotent: %q -> %q", in, once, twice)
		}
	}
}

func TestParseEachHeader(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		key     string
		value   string
		source  string
		wantErr bool
	}{
		{"value only", "item in attr(model, 'items')", "", "item", "attr(model, 'items')", false},
		{"key and value", "i, item in attr(model, 'items')", "i", "item", "attr(model, 'items')", false},
		{"in inside string", "item in attr(model, 'logged in')", "", "item", "attr(model, 'logged in')", false},
		{"missing in", "attr(model, 'items')", "", "", "", true},
		{"too many names", "a, b, c in items", "", "", "", true},
		{"bad value name", "'item' in items", "", "", "", true},
		{"empty source", "item in ", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, source, err := parseEachHeader(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEachHeader(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if key != tt.key || value != tt.value || source != tt.source {
				t.Errorf("parseEachHeader(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.in, key, value, source, tt.key, tt.value, tt.source)
			}
		})
	}
}
