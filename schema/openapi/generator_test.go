package openapi

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-optionbuilder/schema"
)

func themeGroup() schema.Group {
	return schema.Group{
		ID: "theme_options",
		Pages: []schema.Page{{
			ID:    "general",
			Title: "General",
			Settings: []schema.Setting{
				{ID: "intro", Type: schema.TypeTextblock, Description: "Welcome"},
				{ID: "body_font", Type: schema.TypeTypography, Label: "Body"},
				{ID: "heading_font", Type: schema.TypeTypography, Label: "Headings", Condition: "body_font:not()"},
				{ID: "logo_size", Type: schema.TypeNumericSlider, MinMaxStep: "10,200,5", Default: "50"},
				{ID: "gap", Type: schema.TypeNumericSlider},
				{ID: "layout", Type: schema.TypeSelect, Choices: []schema.Choice{{Value: "left", Label: "Left"}, {Value: "right", Label: "Right"}}},
				{ID: "logos", Type: schema.TypeListItem},
				{ID: "pages", Type: schema.TypePageCheckbox},
			},
		}},
	}
}

func TestNewGeneratorOptions(t *testing.T) {
	custom := NewGenerator(
		WithOpenAPIVersion("3.1.0"),
		WithInfo("Custom Service", "2.0.0", WithInfoDescription("custom schema")),
		WithOperation("/settings", "POST", "saveSettings", WithOperationSummary("Save settings")),
		WithContentType("application/x-www-form-urlencoded"),
		WithResponse("201", "Created"),
	)

	cfg := custom.config
	if got := cfg.openAPIVersion; got != "3.1.0" {
		t.Fatalf("expected openapi version 3.1.0, got %q", got)
	}
	if got := cfg.info.Title; got != "Custom Service" {
		t.Fatalf("expected info title Custom Service, got %q", got)
	}
	if got := cfg.info.Description; got != "custom schema" {
		t.Fatalf("expected info description custom schema, got %q", got)
	}
	if got := cfg.operation.Method; got != "post" {
		t.Fatalf("expected method post, got %q", got)
	}
	if got := cfg.operation.Summary; got != "Save settings" {
		t.Fatalf("expected operation summary, got %q", got)
	}
	if got := cfg.contentType; got != "application/x-www-form-urlencoded" {
		t.Fatalf("expected form content type, got %q", got)
	}
	if got := cfg.responses["201"].Description; got != "Created" {
		t.Fatalf("expected response description Created, got %q", got)
	}
	if _, exists := cfg.responses["200"]; !exists {
		t.Fatalf("expected default 200 response to remain configured")
	}
}

func TestGenerateDefaultsFromGroup(t *testing.T) {
	doc, err := Generate(themeGroup())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	info := doc["info"].(map[string]any)
	if info["title"] != "theme_options" {
		t.Fatalf("expected title from group id, got %v", info["title"])
	}
	paths := doc["paths"].(map[string]any)
	item, ok := paths["/options/theme_options"].(map[string]any)
	if !ok {
		t.Fatalf("expected group path, got %v", paths)
	}
	operation := item["put"].(map[string]any)
	if operation["operationId"] != "put:/options/theme_options" {
		t.Fatalf("unexpected operation id %v", operation["operationId"])
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("document must marshal: %v", err)
	}
}

func TestGenerateDescribesSettings(t *testing.T) {
	doc, err := Generate(themeGroup())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	values := requestValues(t, doc)

	if _, ok := values["intro"]; ok {
		t.Fatalf("textblock must not be described")
	}

	slider := values["logo_size"].(map[string]any)
	if slider["type"] != "number" || slider["minimum"] != 10.0 || slider["maximum"] != 200.0 || slider["multipleOf"] != 5.0 {
		t.Fatalf("unexpected slider schema %v", slider)
	}
	if slider["default"] != "50" || slider["x-option-type"] != "numeric-slider" {
		t.Fatalf("expected default and type annotations, got %v", slider)
	}

	gap := values["gap"].(map[string]any)
	if _, bounded := gap["minimum"]; bounded || gap["type"] != "number" {
		t.Fatalf("expected unbounded number without a declared range, got %v", gap)
	}

	layout := values["layout"].(map[string]any)
	enum, _ := layout["enum"].([]any)
	if len(enum) != 2 || enum[0] != "left" {
		t.Fatalf("expected choice enum, got %v", layout["enum"])
	}

	pages := values["pages"].(map[string]any)
	entry := pages["additionalProperties"].(map[string]any)
	if entry["type"] != "integer" || entry["minimum"] != 1.0 {
		t.Fatalf("expected positive integer ids, got %v", entry)
	}

	logos := values["logos"].(map[string]any)
	row := logos["items"].(map[string]any)
	columns := row["properties"].(map[string]any)
	for _, id := range []string{"title", "image", "link", "description"} {
		if _, ok := columns[id]; !ok {
			t.Fatalf("expected list-item column %s, got %v", id, columns)
		}
	}
}

func TestGenerateSharesRepeatedShapes(t *testing.T) {
	doc, err := Generate(themeGroup())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	components := doc["components"].(map[string]any)["schemas"].(map[string]any)
	typography, ok := components["Typography"].(map[string]any)
	if !ok {
		t.Fatalf("expected Typography component, got %v", components)
	}
	if _, ok := typography["properties"].(map[string]any)["font-family"]; !ok {
		t.Fatalf("expected typography parts in component")
	}

	values := requestValues(t, doc)
	for _, id := range []string{"body_font", "heading_font"} {
		property := values[id].(map[string]any)
		allOf, _ := property["allOf"].([]any)
		if len(allOf) != 1 || allOf[0].(map[string]any)["$ref"] != "#/components/schemas/Typography" {
			t.Fatalf("expected %s to reference the shared shape, got %v", id, property)
		}
	}
	heading := values["heading_font"].(map[string]any)
	if heading["title"] != "Headings" || heading["x-condition"] != "body_font:not()" || heading["x-operator"] != "and" {
		t.Fatalf("expected annotations beside the reference, got %v", heading)
	}
}

func TestGenerateRootComponent(t *testing.T) {
	doc, err := Generate(themeGroup(), WithRootComponent("ThemeOptions"), WithOperation("/theme", "", ""))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	operation := doc["paths"].(map[string]any)["/theme"].(map[string]any)["put"].(map[string]any)
	content := operation["requestBody"].(map[string]any)["content"].(map[string]any)
	body := content["application/json"].(map[string]any)["schema"].(map[string]any)
	if body["$ref"] != "#/components/schemas/ThemeOptions" {
		t.Fatalf("expected root reference, got %v", body)
	}
	components := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := components["ThemeOptions"]; !ok {
		t.Fatalf("expected root component, got %v", components)
	}
}

func TestGenerateRequiresGroupID(t *testing.T) {
	if _, err := Generate(schema.Group{}); err == nil {
		t.Fatalf("expected error for group without id")
	}
}

func TestTypeName(t *testing.T) {
	cases := map[schema.TypeTag]string{
		schema.TypeLinkColor:  "LinkColor",
		schema.TypeTypography: "Typography",
		schema.TypeBoxShadow:  "BoxShadow",
	}
	for tag, want := range cases {
		if got := typeName(tag); got != want {
			t.Fatalf("typeName(%s) = %q, want %q", tag, got, want)
		}
	}
}

func requestValues(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	for _, item := range doc["paths"].(map[string]any) {
		for _, op := range item.(map[string]any) {
			content := op.(map[string]any)["requestBody"].(map[string]any)["content"].(map[string]any)
			body := content["application/json"].(map[string]any)["schema"].(map[string]any)
			values := body["properties"].(map[string]any)["values"].(map[string]any)
			return values["properties"].(map[string]any)
		}
	}
	t.Fatalf("document has no operation")
	return nil
}
