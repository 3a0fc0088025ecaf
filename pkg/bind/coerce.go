package bind

import (
	"fmt"
	"reflect"
)

// truthy reports template truthiness: nil, false, empty strings and numeric
// zero are falsy, as in JavaScript. Unlike JavaScript, empty slices, arrays
// and maps are also falsy, so directives can test collections for emptiness
// directly.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	}
	return true
}

// stringify renders a value for attribute and text content. nil renders as
// the empty string.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}

// asSlice enumerates a plain ordered sequence: nil becomes empty, slices and
// arrays enumerate their elements. Anything else is not a sequence.
func asSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asList coerces a value for a multi-valued control: nil becomes the empty
// list, sequences enumerate, and scalars wrap as a single-element list.
func asList(v any) []any {
	if s, ok := asSlice(v); ok {
		return s
	}
	return []any{v}
}
