package opts

import (
	"testing"

	"github.com/goliatone/go-optionbuilder/schema"
)

func TestDefaultRegistryCoversBuiltinTypes(t *testing.T) {
	registry := DefaultTypeRegistry()
	for _, tag := range schema.BuiltinTypes() {
		handler, ok := registry.Lookup(tag)
		if !ok || handler.Render == nil {
			t.Fatalf("expected renderer for %s", tag)
		}
	}
	if !registry.Has(schema.TypeURL) {
		t.Fatalf("expected validation-only url type")
	}
	if handler, _ := registry.Lookup(schema.TypeURL); handler.Render != nil {
		t.Fatalf("url type must not render")
	}
}

func TestRegisterGuardsDuplicates(t *testing.T) {
	registry := NewTypeRegistry()
	rule := func(_ *FieldContext, value any) any { return value }

	if err := registry.Register(" Rating ", TypeHandler{Validate: rule}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !registry.Has("rating") {
		t.Fatalf("expected tag to be normalized")
	}
	if err := registry.Register("rating", TypeHandler{Validate: rule}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("", TypeHandler{Validate: rule}); err == nil {
		t.Fatalf("expected empty tag to fail")
	}
	if err := registry.Register("empty", TypeHandler{}); err == nil {
		t.Fatalf("expected handler without sides to fail")
	}
}

func TestRegistryCloneIsIndependent(t *testing.T) {
	registry := NewTypeRegistry()
	registry.Replace("rating", TypeHandler{Validate: func(_ *FieldContext, value any) any { return value }})

	clone := registry.Clone()
	clone.Replace("stars", TypeHandler{Validate: func(_ *FieldContext, value any) any { return value }})

	if registry.Has("stars") {
		t.Fatalf("clone must not leak into the original")
	}
	tags := clone.Tags()
	if len(tags) != 2 || tags[0] != "rating" || tags[1] != "stars" {
		t.Fatalf("unexpected clone tags %v", tags)
	}
}

func TestCustomTypeDispatch(t *testing.T) {
	registry := DefaultTypeRegistry()
	if err := registry.Register("rating", TypeHandler{
		Validate: func(fc *FieldContext, value any) any {
			if n, ok := PositiveInt(value); ok && n <= 5 {
				return n
			}
			fc.Error("invalid_rating", "ratings run from 1 to 5")
			return ""
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	v := NewValidator(WithRegistry(registry))

	out, diags := v.ValidateSetting("4", "rating", "score")
	if out != int64(4) || len(diags) != 0 {
		t.Fatalf("expected 4 without diagnostics, got %v %v", out, diags)
	}
	out, diags = v.ValidateSetting("9", "rating", "score")
	if out != "" || !diags.HasErrors() || diags[0].Code != "invalid_rating" {
		t.Fatalf("expected rating error, got %v %v", out, diags)
	}
}
