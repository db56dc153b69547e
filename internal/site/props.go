package site

import (
	"fmt"
	"strconv"
	"strings"
)

// Props is a loosely-typed component property bag as decoded from YAML/JSON.
type Props map[string]any

// String returns the property as text; numbers and booleans are formatted.
func (p Props) String(key string) string { return AsString(p[key]) }

// StringOr returns the property as text or def when empty.
func (p Props) StringOr(key, def string) string {
	if s := p.String(key); s != "" {
		return s
	}
	return def
}

// Int returns the property as an integer or def when absent or unparsable.
func (p Props) Int(key string, def int) int { return AsInt(p[key], def) }

// Float returns the property as a float or def when absent or unparsable.
func (p Props) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the property as a boolean; "true"/"1"/"yes" strings count as true.
func (p Props) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		}
	case int:
		return v != 0
	}
	return false
}

// List returns the property coerced to an ordered collection.
func (p Props) List(key string) []any { return CoerceList(p[key]) }

// Items returns the property as a list of property bags; scalar entries become {"text": value}.
func (p Props) Items(key string) []Props { return AsItems(p[key]) }

// Map returns a nested property bag, or an empty one.
func (p Props) Map(key string) Props { return AsProps(p[key]) }

// Has reports whether key is present with a non-nil value.
func (p Props) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// CoerceList normalizes v into an ordered collection: nil and empty strings
// become empty, slices pass through, anything else becomes a singleton.
func CoerceList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []any{t}
	default:
		return []any{t}
	}
}

// AsItems coerces v to a list of property bags.
func AsItems(v any) []Props {
	list := CoerceList(v)
	out := make([]Props, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case map[string]any:
			out = append(out, Props(t))
		case Props:
			out = append(out, t)
		case nil:
		default:
			out = append(out, Props{"text": t})
		}
	}
	return out
}

// AsProps returns v as a property bag when it is a map, or an empty bag.
func AsProps(v any) Props {
	switch t := v.(type) {
	case map[string]any:
		return Props(t)
	case Props:
		return t
	}
	return Props{}
}

// AsString formats scalar values as text; collections yield "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	return ""
}

// AsInt converts numeric or numeric-string values.
func AsInt(v any, def int) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// clone deep-copies decoded property values.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case Props:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	}
	return v
}
