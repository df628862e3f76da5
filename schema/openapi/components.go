package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

// componentRegistry publishes object and array shapes that occur more than
// once under components/schemas. Shapes are counted with observe before any
// reference is requested, so every occurrence of a shared shape uses $ref.
type componentRegistry struct {
	entries   map[string]*componentEntry
	usedNames map[string]struct{}
}

type componentEntry struct {
	name   string
	schema map[string]any
	count  int
	force  bool
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		entries:   map[string]*componentEntry{},
		usedNames: map[string]struct{}{},
	}
}

func shareable(node *schemaNode) bool {
	return node != nil && (node.Type == "object" || node.Type == "array")
}

// observe counts node and its descendants.
func (r *componentRegistry) observe(node *schemaNode) {
	if node == nil {
		return
	}
	if shareable(node) {
		digest := node.Digest()
		if digest != "" {
			entry, ok := r.entries[digest]
			if !ok {
				entry = &componentEntry{}
				r.entries[digest] = entry
			}
			entry.count++
		}
	}
	for _, child := range node.children() {
		r.observe(child)
	}
}

// reference returns the $ref for node when its shape is shared, "" when it
// should be inlined.
func (r *componentRegistry) reference(nameHint string, node *schemaNode, render func() map[string]any) string {
	return r.lookup(nameHint, node, false, render)
}

// forceReference publishes node under name regardless of its count.
func (r *componentRegistry) forceReference(name string, node *schemaNode, render func() map[string]any) string {
	return r.lookup(name, node, true, render)
}

func (r *componentRegistry) lookup(nameHint string, node *schemaNode, force bool, render func() map[string]any) string {
	if !shareable(node) && !force {
		return ""
	}
	digest := node.Digest()
	if digest == "" {
		return ""
	}
	entry, ok := r.entries[digest]
	if !ok {
		entry = &componentEntry{count: 1}
		r.entries[digest] = entry
	}
	if force {
		entry.force = true
	}
	if !entry.force && entry.count < 2 {
		return ""
	}
	if entry.name == "" {
		entry.name = r.uniqueName(nameHint)
		entry.schema = render()
	}
	return fmt.Sprintf("#/components/schemas/%s", entry.name)
}

func (r *componentRegistry) uniqueName(name string) string {
	safe := sanitizeComponentName(name)
	if safe == "" {
		safe = "Schema"
	}
	if _, exists := r.usedNames[safe]; !exists {
		r.usedNames[safe] = struct{}{}
		return safe
	}
	suffix := 1
	for {
		candidate := fmt.Sprintf("%s%d", safe, suffix)
		if _, exists := r.usedNames[candidate]; !exists {
			r.usedNames[candidate] = struct{}{}
			return candidate
		}
		suffix++
	}
}

func (r *componentRegistry) componentsMap() map[string]any {
	out := map[string]any{}
	for _, entry := range r.entries {
		if entry.name == "" {
			continue
		}
		out[entry.name] = entry.schema
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = strings.Trim(componentNameRegexp.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
