package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// schemaNode is the OpenAPI schema of one value. Title, Description,
// Default and extensions annotate a property; the remaining fields are its
// shape and feed Digest.
type schemaNode struct {
	Type        string
	Format      string
	Pattern     string
	Properties  map[string]*schemaNode
	Additional  *schemaNode
	Items       *schemaNode
	Enum        []any
	Minimum     *float64
	Maximum     *float64
	MultipleOf  *float64
	Title       string
	Description string
	Default     any
	extensions  map[string]any
	hint        string
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) extend(key string, value any) {
	if n.extensions == nil {
		n.extensions = map[string]any{}
	}
	n.extensions[key] = value
}

func (n *schemaNode) annotated() bool {
	return n.Title != "" || n.Description != "" || n.Default != nil || len(n.extensions) > 0
}

// shapeMap renders the structural keywords only.
func (n *schemaNode) shapeMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Format != "" {
		result["format"] = n.Format
	}
	if n.Pattern != "" {
		result["pattern"] = n.Pattern
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if n.Minimum != nil {
		result["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		result["maximum"] = *n.Maximum
	}
	if n.MultipleOf != nil {
		result["multipleOf"] = *n.MultipleOf
	}
	return result
}

// annotate copies the property annotations onto result.
func (n *schemaNode) annotate(result map[string]any) map[string]any {
	if n.Title != "" {
		result["title"] = n.Title
	}
	if n.Description != "" {
		result["description"] = n.Description
	}
	if n.Default != nil {
		result["default"] = n.Default
	}
	for _, key := range sortedKeys(n.extensions) {
		result[key] = n.extensions[key]
	}
	return result
}

// structure renders the node and its children without annotations on n
// itself. Children keep theirs.
func (n *schemaNode) structure() map[string]any {
	result := n.shapeMap()
	if len(n.Properties) > 0 || n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range sortedKeys(n.Properties) {
			props[name] = n.Properties[name].inline()
		}
		result["properties"] = props
	}
	if n.Additional != nil {
		result["additionalProperties"] = n.Additional.inline()
	}
	if n.Items != nil {
		result["items"] = n.Items.inline()
	}
	return result
}

func (n *schemaNode) inline() map[string]any {
	return n.annotate(n.structure())
}

// Digest identifies the shape of n. Nodes that differ only in their own
// annotations share a digest.
func (n *schemaNode) Digest() string {
	if n == nil {
		return ""
	}
	data, err := json.Marshal(n.structure())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (n *schemaNode) children() []*schemaNode {
	var out []*schemaNode
	for _, name := range sortedKeys(n.Properties) {
		out = append(out, n.Properties[name])
	}
	if n.Additional != nil {
		out = append(out, n.Additional)
	}
	if n.Items != nil {
		out = append(out, n.Items)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func float(v float64) *float64 { return &v }
