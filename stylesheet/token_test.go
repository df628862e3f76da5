package stylesheet

import (
	"testing"

	"github.com/goliatone/go-optionbuilder/schema"
)

func typesOf(types map[string]schema.TypeTag) TypeLookup {
	return func(id string) schema.TypeTag { return types[id] }
}

func TestTokens(t *testing.T) {
	tokens := Tokens("a { color: {{link|hover}}; border: {{frame}}; } {{not valid!}}")
	if len(tokens) != 2 {
		t.Fatalf("expected two tokens, got %+v", tokens)
	}
	if tokens[0].OptionID != "link" || tokens[0].SubKey != "hover" || tokens[0].Raw != "{{link|hover}}" {
		t.Fatalf("unexpected first token %+v", tokens[0])
	}
	if tokens[1].OptionID != "frame" || tokens[1].SubKey != "" {
		t.Fatalf("unexpected second token %+v", tokens[1])
	}
}

func TestResolveTokenComposites(t *testing.T) {
	values := schema.ValueSet{
		"measure": []any{"12", "em"},
		"frame":   map[string]any{"width": "2", "style": "solid", "color": "#000"},
		"shadow":  map[string]any{"color": "#111", "offset-x": "1px", "inset": "inset", "blur-radius": ""},
		"size":    map[string]any{"width": "10", "height": "20", "unit": "%"},
		"pad":     map[string]any{"top": "1", "left": "4", "unit": "em"},
		"font": map[string]any{
			"font-color":  "#222",
			"font-family": "times",
			"font-size":   "14px",
			"font-weight": "bold",
		},
		"bg": map[string]any{
			"background-color":    "#fff",
			"background-image":    "a.png",
			"background-repeat":   "no-repeat",
			"background-position": "left top",
			"background-size":     "cover",
		},
		"links": map[string]any{"link": "#00f", "hover": ""},
		"color": "#abc",
	}
	types := typesOf(map[string]schema.TypeTag{
		"measure": schema.TypeMeasurement,
		"frame":   schema.TypeBorder,
		"shadow":  schema.TypeBoxShadow,
		"size":    schema.TypeDimension,
		"pad":     schema.TypeSpacing,
		"font":    schema.TypeTypography,
		"bg":      schema.TypeBackground,
		"links":   schema.TypeLinkColor,
		"color":   schema.TypeColorpicker,
	})

	cases := []struct {
		id, sub, want string
	}{
		{"measure", "", "12em"},
		{"frame", "", "2px solid #000"},
		{"shadow", "", "inset 1px #111"},
		{"size", "", "10% 20%"},
		{"pad", "", "1em 4em"},
		{"font", "", "color: #222;\nfont-family: \"Times New Roman\", sans-serif;\nfont-size: 14px;\nfont-weight: bold;"},
		{"bg", "", "background: #fff url(\"a.png\") no-repeat left top;\n  background-size: cover;"},
		{"links", "link", "#00f"},
		{"links", "hover", "inherit"},
		{"color", "", "#abc"},
		{"frame", "style", "solid"},
	}
	for _, tc := range cases {
		if got := ResolveToken(tc.id, tc.sub, values, types); got != tc.want {
			t.Fatalf("%s|%s: expected %q, got %q", tc.id, tc.sub, tc.want, got)
		}
	}
}

func TestResolveTokenFallbacks(t *testing.T) {
	types := typesOf(map[string]schema.TypeTag{
		"frame":   schema.TypeBorder,
		"shadow":  schema.TypeBoxShadow,
		"color":   schema.TypeColorpicker,
		"alpha":   schema.TypeColorpickerOpacity,
		"links":   schema.TypeLinkColor,
		"text":    schema.TypeText,
		"measure": schema.TypeMeasurement,
	})
	values := schema.ValueSet{"frame": map[string]any{"unit": "px"}, "measure": []any{"", "em"}}
	cases := []struct {
		id, sub, want string
	}{
		{"frame", "", "inherit"},
		{"shadow", "", "none"},
		{"color", "", "inherit"},
		{"alpha", "", "inherit"},
		{"links", "visited", "inherit"},
		{"links", "", ""},
		{"text", "", ""},
		{"measure", "", ""},
		{"unknown", "", ""},
	}
	for _, tc := range cases {
		if got := ResolveToken(tc.id, tc.sub, values, types); got != tc.want {
			t.Fatalf("%s|%s: expected %q, got %q", tc.id, tc.sub, tc.want, got)
		}
	}
}

func TestResolverHooks(t *testing.T) {
	r := Resolver{
		Attachment: func(id int64) (string, bool) {
			if id == 7 {
				return "https://cdn.example.com/7.png", true
			}
			return "", false
		},
		Fallback: func(fallback, optionID string, tag schema.TypeTag, subKey string) string {
			if optionID == "text" {
				return "initial"
			}
			return fallback
		},
		Filter: func(value, optionID string) string {
			if optionID == "logo" {
				return value + "?v=1"
			}
			return value
		},
		FontFamilies: func() []schema.Choice {
			return []schema.Choice{{Value: "open-sans", Label: `"Open Sans", sans-serif`}}
		},
	}
	types := typesOf(map[string]schema.TypeTag{
		"logo": schema.TypeUpload,
		"text": schema.TypeText,
		"font": schema.TypeTypography,
	})
	values := schema.ValueSet{"logo": "7", "font": map[string]any{"font-family": "open-sans"}}

	if got := r.Resolve("logo", "", values, types); got != "https://cdn.example.com/7.png?v=1" {
		t.Fatalf("unexpected logo %q", got)
	}
	if got := r.Resolve("text", "", values, types); got != "initial" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := r.Resolve("font", "", values, types); got != `font-family: "Open Sans", sans-serif;` {
		t.Fatalf("unexpected font %q", got)
	}
}

func TestExpandTokens(t *testing.T) {
	values := schema.ValueSet{"color": "#abc"}
	types := typesOf(map[string]schema.TypeTag{"color": schema.TypeColorpicker, "shadow": schema.TypeBoxShadow})
	got := ExpandTokens("a { color: {{color}}; }\nb { color: {{color}}; box-shadow: {{shadow}}; }", values, types)
	want := "a { color: #abc; }\nb { color: #abc; box-shadow: none; }"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
