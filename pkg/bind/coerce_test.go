package bind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"zero int", 0, false},
		{"int", -1, true},
		{"zero float", 0.0, false},
		{"float", 0.5, true},
		{"empty slice", []any{}, false},
		{"empty array", [0]int{}, false},
		{"slice", []any{1}, true},
		{"empty map", map[string]any{}, false},
		{"struct", struct{}{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truthy(tt.in); got != tt.want {
				t.Errorf("truthy(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hi", "hi"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"float", 1.5, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringify(tt.in); got != tt.want {
				t.Errorf("stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsSlice(t *testing.T) {
	if got, ok := asSlice(nil); !ok || len(got) != 0 {
		t.Errorf("asSlice(nil) = %v, %v", got, ok)
	}
	if got, ok := asSlice([]any{"a"}); !ok || len(got) != 1 {
		t.Errorf("asSlice([]any) = %v, %v", got, ok)
	}
	if got, ok := asSlice([]string{"a", "b"}); !ok {
		t.Errorf("asSlice([]string) not enumerable")
	} else if diff := cmp.Diff([]any{"a", "b"}, got); diff != "" {
		t.Errorf("asSlice([]string) mismatch (-want +got):\n%s", diff)
	}
	if got, ok := asSlice([2]int{1, 2}); !ok || len(got) != 2 {
		t.Errorf("asSlice(array) = %v, %v", got, ok)
	}
	if _, ok := asSlice(42); ok {
		t.Error("asSlice(int) should not enumerate")
	}
	if _, ok := asSlice("text"); ok {
		t.Error("asSlice(string) should not enumerate")
	}
}

func TestAsList(t *testing.T) {
	if diff := cmp.Diff([]any{"a"}, asList([]any{"a"})); diff != "" {
		t.Errorf("asList(slice) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"scalar"}, asList("scalar")); diff != "" {
		t.Errorf("asList(scalar) mismatch (-want +got):\n%s", diff)
	}
	if got := asList(nil); len(got) != 0 {
		t.Errorf("asList(nil) = %v, want empty", got)
	}
}
