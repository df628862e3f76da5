package schema

import (
	"fmt"
	"sort"
	"strconv"
)

// ValueSet maps Setting.ID to its value. Values are plain scalars, maps of
// string keys, or sequences; no other shapes are stored.
type ValueSet map[string]any

// Clone deep-copies the value set.
func (v ValueSet) Clone() ValueSet {
	if v == nil {
		return nil
	}
	out := make(ValueSet, len(v))
	for key, value := range v {
		out[key] = CloneValue(value)
	}
	return out
}

// Keys returns the value set keys sorted.
func (v ValueSet) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CloneValue deep-copies maps and slices, leaving scalars as-is.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = CloneValue(item)
		}
		return out
	case ValueSet:
		return map[string]any(typed.Clone())
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	default:
		return value
	}
}

// IsEmpty reports nil, "", false, and empty containers. Numeric zero and "0"
// are values.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

// Stringify renders a scalar for text handling. Containers render empty.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		if typed {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
