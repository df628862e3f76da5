package opts

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateSchemaDocumentSections(t *testing.T) {
	v := NewValidator()
	out := v.ValidateSchemaDocument(map[string]any{
		"sections": []any{
			map[string]any{"title": "Colors!"},
			map[string]any{"id": "layout"},
			map[string]any{},
			map[string]any{"id": "Header Area", "title": "<em>Header</em><script>x()</script>"},
		},
	})
	want := []any{
		map[string]any{"id": "colors_", "title": "Colors!"},
		map[string]any{"id": "layout", "title": "layout"},
		map[string]any{"id": "header_area", "title": "<em>Header</em>"},
	}
	if !reflect.DeepEqual(out["sections"], want) {
		t.Fatalf("unexpected sections: %#v", out["sections"])
	}
}

func TestValidateSchemaDocumentSettings(t *testing.T) {
	v := NewValidator()
	out := v.ValidateSchemaDocument(map[string]any{
		"settings": map[string]any{
			"1": map[string]any{
				"id":      "Logo Rows",
				"label":   `<strong>Logos</strong><script>alert(1)</script>`,
				"type":    "list-item\n",
				"rows":    "-4",
				"secret":  "dropped",
				"section": " general ",
				"choices": []any{
					map[string]any{"label": "<b>One</b>", "value": "<i>1</i>", "extra": "x"},
				},
				"settings": []any{
					map[string]any{"id": "Title", "type": "text", "std": map[string]any{"a": "<b>x</b>", "b": ""}},
				},
			},
			"2": map[string]any{"id": "empty_rows", "rows": "abc"},
		},
	})

	settings, ok := out["settings"].([]any)
	if !ok || len(settings) != 2 {
		t.Fatalf("expected two settings, got %#v", out["settings"])
	}
	first := settings[0].(map[string]any)
	if _, ok := first["secret"]; ok {
		t.Fatalf("unknown key kept: %#v", first)
	}
	if first["id"] != "logo_rows" {
		t.Fatalf("unexpected id %v", first["id"])
	}
	if first["label"] != "<strong>Logos</strong>" {
		t.Fatalf("unexpected label %q", first["label"])
	}
	if first["type"] != "list-item" || first["section"] != "general" {
		t.Fatalf("unexpected plain fields: %#v", first)
	}
	if first["rows"] != int64(4) {
		t.Fatalf("expected rows 4, got %#v", first["rows"])
	}
	choices := first["choices"].([]any)
	if !reflect.DeepEqual(choices[0], map[string]any{"label": "<b>One</b>", "value": "1"}) {
		t.Fatalf("unexpected choice: %#v", choices[0])
	}
	nested := first["settings"].([]any)[0].(map[string]any)
	if nested["id"] != "title" || !reflect.DeepEqual(nested["std"], map[string]any{"a": "x"}) {
		t.Fatalf("unexpected nested setting: %#v", nested)
	}
	if second := settings[1].(map[string]any); second["rows"] != "" {
		t.Fatalf("expected non-numeric rows to clear, got %#v", second["rows"])
	}
}

func TestValidateSchemaDocumentContextualHelp(t *testing.T) {
	v := NewValidator()
	out := v.ValidateSchemaDocument(map[string]any{
		"contextual_help": map[string]any{
			"content": []any{
				map[string]any{"title": "Getting Started", "content": `<p>Read <a href="https://example.com" onclick="x()">docs</a></p>`},
			},
			"sidebar": "<script>x()</script>Need help?",
			"ignored": "value",
		},
	})
	help, ok := out["contextual_help"].(map[string]any)
	if !ok {
		t.Fatalf("expected contextual help, got %#v", out)
	}
	content := help["content"].([]any)[0].(map[string]any)
	if content["id"] != "getting_started" || content["title"] != "Getting Started" {
		t.Fatalf("unexpected help tab: %#v", content)
	}
	if body := content["content"].(string); strings.Contains(body, "onclick") || !strings.Contains(body, `href="https://example.com"`) {
		t.Fatalf("unexpected help content %q", content["content"])
	}
	if help["sidebar"] != "Need help?" {
		t.Fatalf("unexpected sidebar %q", help["sidebar"])
	}
	if _, ok := help["ignored"]; ok {
		t.Fatalf("unknown help key kept")
	}
}

func TestValidateSchemaDocumentEmpty(t *testing.T) {
	out := NewValidator().ValidateSchemaDocument(map[string]any{"sections": []any{map[string]any{}}})
	if len(out) != 0 {
		t.Fatalf("expected empty document, got %#v", out)
	}
}
