package schema

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// ShapeSuffix is appended to a repeatable setting id to name the companion
// form field carrying the row columns the browser rendered.
const ShapeSuffix = "_settings_array"

// ShapeField returns the companion field name for id.
func ShapeField(id string) string {
	return id + ShapeSuffix
}

// EncodeShape serializes row columns for the companion field.
func EncodeShape(columns []Setting) (string, error) {
	data, err := json.Marshal(columns)
	if err != nil {
		return "", fmt.Errorf("schema: encode shape: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShape parses a companion field. Malformed or empty blobs decode to
// nil so callers fall back to the declared columns.
func DecodeShape(blob string) []Setting {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil
	}
	var columns []Setting
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil
	}
	out := columns[:0]
	for _, column := range columns {
		column.ID = SanitizeID(column.ID)
		column.Type = column.Type.Normalize()
		if column.ID == "" || column.Type == "" {
			continue
		}
		out = append(out, column)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
