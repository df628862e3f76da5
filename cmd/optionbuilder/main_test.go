package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `id: theme_options
pages:
  - id: general
    title: General
    sections:
      - id: header
        title: Header
    settings:
      - id: logo_color
        type: colorpicker
        label: Logo color
        section: header
        std: "#336699"
      - id: logo_size
        type: numeric-slider
        label: Logo size
        section: header
        min_max_step: "10,200,5"
        std: "40"
      - id: custom_css
        type: css
        label: Custom CSS
        section: header
`

type workspace struct {
	dir        string
	config     string
	schema     string
	stylesheet string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dir:        dir,
		config:     filepath.Join(dir, "optionbuilder.yaml"),
		schema:     filepath.Join(dir, "theme.yaml"),
		stylesheet: filepath.Join(dir, "dynamic.css"),
	}
	cfg := "version: 1\n" +
		"store:\n  driver: sqlite\n  path: " + filepath.Join(dir, "opb.db") + "\n" +
		"stylesheet:\n  path: " + ws.stylesheet + "\n" +
		"logging:\n  console:\n    level: none\n"
	files := map[string]string{ws.config: cfg, ws.schema: testSchema, ws.stylesheet: "body { margin: 0; }\n"}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return ws
}

func (ws workspace) write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(ws.dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func (ws workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	argv := append([]string{appName, "--config", ws.config, "--schema", ws.schema}, args...)
	err := app.Run(ContextWithEnv(context.Background()), argv)
	return out.String(), err
}

func TestSchemaLint(t *testing.T) {
	ws := newWorkspace(t)
	if out, err := ws.run(t, "schema", "lint", ws.schema); err != nil {
		t.Fatalf("lint failed: %v\n%s", err, out)
	}
	bad := ws.write(t, "bad.yaml", "pages:\n  - title: No id\n")
	out, err := ws.run(t, "schema", "lint", bad)
	if err == nil {
		t.Fatalf("expected lint failure")
	}
	if !strings.Contains(out, "bad.yaml") {
		t.Fatalf("issues not reported: %s", out)
	}
}

func TestValidateSaveAndCSS(t *testing.T) {
	ws := newWorkspace(t)
	sub := ws.write(t, "submission.json", `{"values": {
		"logo_color": "not-a-color",
		"logo_size": "50",
		"custom_css": ".logo { color: {{logo_size}}px; }"
	}}`)

	out, err := ws.run(t, "validate", sub)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "invalid_hex_or_rgba") {
		t.Fatalf("expected color diagnostic: %s", out)
	}

	if out, err = ws.run(t, "validate", "--save", sub); err != nil {
		t.Fatalf("validate --save: %v\n%s", err, out)
	}
	css, err := os.ReadFile(ws.stylesheet)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(css), "/* BEGIN custom_css */") || !strings.Contains(string(css), ".logo { color: 50px; }") {
		t.Fatalf("css block missing:\n%s", css)
	}

	out, err = ws.run(t, "values", "get", "logo_size")
	if err != nil {
		t.Fatalf("values get: %v", err)
	}
	if strings.TrimSpace(out) != `"50"` {
		t.Fatalf("unexpected value: %q", out)
	}
}

func TestFormSubmission(t *testing.T) {
	ws := newWorkspace(t)
	form := ws.write(t, "submission.txt", "theme_options%5Blogo_color%5D=%23ff0000&theme_options%5Blogo_size%5D=999")
	out, err := ws.run(t, "validate", form)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, `"logo_color": "#ff0000"`) || !strings.Contains(out, "invalid_numeric_slider") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestValuesSetAndLayouts(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "values", "set", "logo_color", "#00ff00")
	if err != nil {
		t.Fatalf("values set: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"logo_color"`) {
		t.Fatalf("change not reported: %s", out)
	}

	if out, err = ws.run(t, "layouts", "create", "Summer Look"); err != nil || strings.TrimSpace(out) != "summer-look" {
		t.Fatalf("create: %q %v", out, err)
	}
	if _, err = ws.run(t, "layouts", "create", "Winter"); err != nil {
		t.Fatalf("create: %v", err)
	}
	// saving refreshes the active winter snapshot only
	if _, err = ws.run(t, "values", "set", "logo_color", "#0000ff"); err != nil {
		t.Fatalf("values set: %v", err)
	}
	out, err = ws.run(t, "layouts", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "  summer-look") || !strings.Contains(out, "* winter") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	if _, err = ws.run(t, "layouts", "activate", "summer-look"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	out, err = ws.run(t, "values", "get", "logo_color")
	if err != nil || strings.TrimSpace(out) != `"#00ff00"` {
		t.Fatalf("snapshot not applied: %q %v", out, err)
	}

	if out, err = ws.run(t, "layouts", "delete", "winter"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "layouts removed") {
		t.Fatalf("expected collapse: %q", out)
	}
}

func TestRender(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "render", "general")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `id="setting_logo_color"`) || !strings.Contains(out, `value="#336699"`) {
		t.Fatalf("unexpected markup: %s", out)
	}
	out, err = ws.run(t, "render", "--json", "general")
	if err != nil {
		t.Fatalf("render --json: %v", err)
	}
	if !strings.Contains(out, `"numeric-slider"`) {
		t.Fatalf("bindings missing: %s", out)
	}
}

func TestDumpConfig(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "dumpconfig")
	if err != nil {
		t.Fatalf("dumpconfig: %v", err)
	}
	if !strings.Contains(out, "driver: sqlite") {
		t.Fatalf("actual config not dumped: %s", out)
	}
	out, err = ws.run(t, "dumpconfig", "--default")
	if err != nil || !strings.Contains(out, "driver: memory") {
		t.Fatalf("default config not dumped: %q %v", out, err)
	}
}

func TestSchemaOpenAPI(t *testing.T) {
	ws := newWorkspace(t)
	out, err := ws.run(t, "schema", "openapi", "--root-component", "ThemeOptions")
	if err != nil {
		t.Fatalf("openapi: %v\n%s", err, out)
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.OpenAPI != "3.0.3" || doc.Info.Title != "theme_options" {
		t.Fatalf("unexpected header: %+v", doc)
	}
	if _, ok := doc.Paths["/options/theme_options"]["put"]; !ok {
		t.Fatalf("expected put operation, got %v", doc.Paths)
	}
	if _, ok := doc.Components.Schemas["ThemeOptions"]; !ok {
		t.Fatalf("expected root component, got %v", doc.Components.Schemas)
	}
}
