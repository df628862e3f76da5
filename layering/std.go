package layering

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-optionbuilder/schema"
)

// FilterStd fills value from a setting's std. Composite values get every
// empty-string entry replaced by the std entry with the same key or index;
// an empty-string scalar is replaced by a non-empty std. A std given as a
// JSON object or array string is decoded first.
func FilterStd(value, std any) any {
	std = decodeStd(std)

	switch typed := value.(type) {
	case map[string]any:
		defaults, ok := std.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			if fill, exists := defaults[key]; exists && item == "" {
				out[key] = schema.CloneValue(fill)
				continue
			}
			out[key] = item
		}
		return out
	case []any:
		defaults, ok := std.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			if item == "" && i < len(defaults) {
				out[i] = schema.CloneValue(defaults[i])
				continue
			}
			out[i] = item
		}
		return out
	case string:
		if typed == "" && !schema.IsEmpty(std) {
			return schema.CloneValue(std)
		}
	}
	return value
}

func decodeStd(std any) any {
	text, ok := std.(string)
	if !ok {
		return std
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return std
	}
	parsed := gjson.Parse(trimmed)
	if !parsed.IsObject() && !parsed.IsArray() {
		return std
	}
	var out any
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return std
	}
	return out
}

// FillDefaults returns values completed from the declared defaults of g.
// Absent keys of value-holding settings take a copy of std; present keys pass
// through FilterStd. Keys g does not declare are kept as stored.
func FillDefaults(g schema.Group, values schema.ValueSet) schema.ValueSet {
	out := values.Clone()
	if out == nil {
		out = schema.ValueSet{}
	}
	for _, setting := range g.Settings() {
		if !setting.Type.HoldsValue() || setting.Default == nil {
			continue
		}
		if current, ok := out[setting.ID]; ok {
			out[setting.ID] = FilterStd(current, setting.Default)
			continue
		}
		out[setting.ID] = schema.CloneValue(decodeStd(setting.Default))
	}
	return out
}
