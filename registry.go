package opts

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-optionbuilder/schema"
)

// RenderFunc produces the markup for one setting.
type RenderFunc func(rc *RenderContext) (Fragment, error)

// ValidateFunc is the dedicated rule of a type. It records problems on fc and
// returns the safe value.
type ValidateFunc func(fc *FieldContext, value any) any

// TypeHandler pairs the renderer and rule of a type tag. Either side may be
// nil: a missing renderer shows the "type does not exist" placeholder and a
// missing rule falls back to the generic sanitizer.
type TypeHandler struct {
	Render   RenderFunc
	Validate ValidateFunc
}

// TypeRegistry maps type tags to handlers.
type TypeRegistry struct {
	mu       sync.RWMutex
	handlers map[schema.TypeTag]TypeHandler
}

// NewTypeRegistry constructs an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		handlers: make(map[schema.TypeTag]TypeHandler),
	}
}

// DefaultTypeRegistry returns a fresh registry holding every built-in type.
func DefaultTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	for tag, handler := range builtinHandlers() {
		r.handlers[tag] = handler
	}
	return r
}

// Register stores handler under tag guarding against duplicates.
func (r *TypeRegistry) Register(tag schema.TypeTag, handler TypeHandler) error {
	tag = tag.Normalize()
	if tag == "" {
		return fmt.Errorf("opts: type tag must not be empty")
	}
	if handler.Render == nil && handler.Validate == nil {
		return fmt.Errorf("opts: type %q has neither renderer nor rule", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[schema.TypeTag]TypeHandler)
	}
	if _, exists := r.handlers[tag]; exists {
		return fmt.Errorf("opts: type %q already registered", tag)
	}
	r.handlers[tag] = handler
	return nil
}

// Replace stores handler under tag, overriding any existing entry.
func (r *TypeRegistry) Replace(tag schema.TypeTag, handler TypeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[schema.TypeTag]TypeHandler)
	}
	r.handlers[tag.Normalize()] = handler
}

// Lookup returns the handler registered for tag.
func (r *TypeRegistry) Lookup(tag schema.TypeTag) (TypeHandler, bool) {
	if r == nil {
		return TypeHandler{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[tag.Normalize()]
	return handler, ok
}

// Has reports whether tag is registered.
func (r *TypeRegistry) Has(tag schema.TypeTag) bool {
	_, ok := r.Lookup(tag)
	return ok
}

// Clone returns a shallow copy of the registry.
func (r *TypeRegistry) Clone() *TypeRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &TypeRegistry{
		handlers: make(map[schema.TypeTag]TypeHandler, len(r.handlers)),
	}
	for tag, handler := range r.handlers {
		clone.handlers[tag] = handler
	}
	return clone
}

// Tags returns registered tags sorted alphabetically.
func (r *TypeRegistry) Tags() []schema.TypeTag {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]schema.TypeTag, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

func (r *TypeRegistry) rule(tag schema.TypeTag) (ValidateFunc, bool) {
	handler, ok := r.Lookup(tag)
	if !ok || handler.Validate == nil {
		return nil, false
	}
	return handler.Validate, true
}

func (r *TypeRegistry) renderer(tag schema.TypeTag) (RenderFunc, bool) {
	handler, ok := r.Lookup(tag)
	if !ok || handler.Render == nil {
		return nil, false
	}
	return handler.Render, true
}

func builtinHandlers() map[schema.TypeTag]TypeHandler {
	rules := builtinRules()
	renderers := builtinRenderers()
	out := make(map[schema.TypeTag]TypeHandler, len(rules))
	for tag, rule := range rules {
		out[tag] = TypeHandler{Validate: rule, Render: renderers[tag]}
	}
	for tag, render := range renderers {
		if _, ok := out[tag]; !ok {
			out[tag] = TypeHandler{Render: render}
		}
	}
	return out
}
