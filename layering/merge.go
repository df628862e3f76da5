package layering

import "github.com/goliatone/go-optionbuilder/schema"

// Merge composes value sets ordered from strongest to weakest. A key missing
// from a stronger layer is taken from the next weaker one. Nested maps merge
// key by key; sequences and scalars from the stronger layer win whole, so a
// list-item row order is never interleaved across layers. Inputs are not
// modified.
func Merge(layers ...schema.ValueSet) schema.ValueSet {
	if len(layers) == 0 {
		return nil
	}
	merged := schema.ValueSet{}
	for i := len(layers) - 1; i >= 0; i-- {
		for key, value := range layers[i] {
			if existing, ok := merged[key]; ok {
				merged[key] = mergeValue(value, existing)
				continue
			}
			merged[key] = schema.CloneValue(value)
		}
	}
	return merged
}

func mergeValue(strong, weak any) any {
	strongMap, ok := asMap(strong)
	if !ok {
		return schema.CloneValue(strong)
	}
	weakMap, ok := asMap(weak)
	if !ok {
		return schema.CloneValue(strong)
	}
	out := make(map[string]any, len(strongMap)+len(weakMap))
	for key, value := range weakMap {
		out[key] = schema.CloneValue(value)
	}
	for key, value := range strongMap {
		if existing, ok := out[key]; ok {
			out[key] = mergeValue(value, existing)
			continue
		}
		out[key] = schema.CloneValue(value)
	}
	return out
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case schema.ValueSet:
		return map[string]any(typed), true
	}
	return nil, false
}
