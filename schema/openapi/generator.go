package openapi

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-optionbuilder/schema"
)

const (
	colorPattern   = `^(#([a-fA-F0-9]{6}|[a-fA-F0-9]{3})|rgba\(\s*[0-9]{1,3}\s*,\s*[0-9]{1,3}\s*,\s*[0-9]{1,3}\s*,\s*[0-9]*(\.[0-9]+)?\s*\))$`
	numericPattern = `^-?[0-9]+(\.[0-9]+)?$`
)

// Generator renders the OpenAPI document describing a save request for an
// option group: the submitted values keyed by setting id plus the row shapes
// of repeatable settings.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator with the provided options applied over
// the defaults.
func NewGenerator(options ...GeneratorOption) *Generator {
	cfg := defaultGeneratorConfig()
	for _, option := range options {
		if option != nil {
			option(&cfg)
		}
	}
	return &Generator{config: cfg}
}

// Generate is a shorthand for NewGenerator(options...).Generate(group).
func Generate(group schema.Group, options ...GeneratorOption) (map[string]any, error) {
	return NewGenerator(options...).Generate(group)
}

// Generate builds the document for group. Settings that hold no value are
// left out.
func (g *Generator) Generate(group schema.Group) (map[string]any, error) {
	if strings.TrimSpace(group.ID) == "" {
		return nil, fmt.Errorf("openapi: option group id is required")
	}
	cfg := g.config
	if cfg.info.Title == "" {
		cfg.info.Title = group.ID
	}
	if cfg.operation.Path == "" {
		cfg.operation.Path = "/options/" + group.ID
	}
	return newOpenAPIDocumentBuilder(cfg, submissionNode(group)).build()
}

func submissionNode(group schema.Group) *schemaNode {
	values := newObjectNode()
	shapes := newObjectNode()
	shapes.Additional = &schemaNode{Type: "string"}
	shapes.Description = "Column declarations of repeatable settings, keyed by setting id."
	for _, setting := range group.Settings() {
		if !setting.Type.HoldsValue() {
			continue
		}
		values.Properties[setting.ID] = settingNode(setting)
	}
	root := newObjectNode()
	root.Properties["values"] = values
	root.Properties["shapes"] = shapes
	return root
}

// settingNode maps a setting to the schema of the value its validator
// keeps.
func settingNode(setting schema.Setting) *schemaNode {
	node := valueNode(setting)
	node.Title = setting.Label
	node.Description = setting.Description
	if !schema.IsEmpty(setting.Default) {
		node.Default = setting.Default
	}
	node.extend("x-option-type", string(setting.Type))
	if setting.Condition != "" {
		node.extend("x-condition", setting.Condition)
		node.extend("x-operator", setting.OperatorOrDefault())
	}
	return node
}

func valueNode(setting schema.Setting) *schemaNode {
	tag := setting.Type
	switch {
	case tag.IsReferenceCheckbox():
		return &schemaNode{Type: "object", Additional: referenceNode(), hint: typeName(tag)}
	case tag.IsReferenceSelect():
		return referenceNode()
	case tag.IsRepeatable():
		return rowsNode(setting)
	}

	switch tag {
	case schema.TypeText, schema.TypeTextarea, schema.TypeTextareaSimple,
		schema.TypeCSS, schema.TypeJavascript, schema.TypeGallery, schema.TypeUpload:
		return &schemaNode{Type: "string"}
	case schema.TypeColorpicker, schema.TypeColorpickerOpacity:
		return colorNode()
	case schema.TypeDatePicker:
		return &schemaNode{Type: "string", Format: "date"}
	case schema.TypeDateTimePicker:
		return &schemaNode{Type: "string", Format: "date-time"}
	case schema.TypeNumericSlider:
		if !setting.HasRange() {
			return &schemaNode{Type: "number"}
		}
		r := setting.Range()
		return &schemaNode{Type: "number", Minimum: float(r.Min), Maximum: float(r.Max), MultipleOf: float(r.Step)}
	case schema.TypeOnOff, schema.TypeRadio, schema.TypeRadioImage, schema.TypeSelect, schema.TypeSidebarSelect:
		return choiceNode(setting.Choices)
	case schema.TypeCheckbox:
		return &schemaNode{Type: "object", Additional: choiceNode(setting.Choices)}
	case schema.TypeGoogleFonts:
		return googleFontsNode()
	case schema.TypeMeasurement:
		return compositeNode(tag, map[string]*schemaNode{
			"0": {Type: "string", Pattern: numericPattern},
			"1": choiceNode(schema.MeasurementUnits()),
		})
	case schema.TypeDimension:
		return axisNode(tag, "width", "height")
	case schema.TypeSpacing:
		return axisNode(tag, "top", "right", "bottom", "left")
	case schema.TypeLinkColor:
		parts := map[string]*schemaNode{}
		for _, state := range []string{"link", "hover", "active", "visited", "focus"} {
			parts[state] = colorNode()
		}
		return compositeNode(tag, parts)
	case schema.TypeBackground:
		return compositeNode(tag, map[string]*schemaNode{
			"background-color":      colorNode(),
			"background-repeat":     choiceNode(schema.BackgroundRepeat()),
			"background-attachment": choiceNode(schema.BackgroundAttachment()),
			"background-position":   choiceNode(schema.BackgroundPositions()),
			"background-size":       {Type: "string"},
			"background-image":      {Type: "string"},
		})
	case schema.TypeBorder:
		return compositeNode(tag, map[string]*schemaNode{
			"width": {Type: "integer", Minimum: float(0)},
			"unit":  choiceNode(schema.MeasurementUnits()),
			"style": choiceNode(schema.BorderStyles()),
			"color": colorNode(),
		})
	case schema.TypeBoxShadow:
		return compositeNode(tag, map[string]*schemaNode{
			"inset":         {Type: "string", Enum: []any{"inset"}},
			"offset-x":      {Type: "string"},
			"offset-y":      {Type: "string"},
			"blur-radius":   {Type: "string"},
			"spread-radius": {Type: "string"},
			"color":         colorNode(),
		})
	case schema.TypeTypography:
		return compositeNode(tag, map[string]*schemaNode{
			"font-color":      colorNode(),
			"font-family":     choiceNode(schema.FontFamilies()),
			"font-size":       choiceNode(schema.FontSizes()),
			"font-style":      choiceNode(schema.FontStyles()),
			"font-variant":    choiceNode(schema.FontVariants()),
			"font-weight":     choiceNode(schema.FontWeights()),
			"letter-spacing":  choiceNode(schema.LetterSpacing()),
			"line-height":     choiceNode(schema.LineHeights()),
			"text-decoration": choiceNode(schema.TextDecorations()),
			"text-transform":  choiceNode(schema.TextTransforms()),
		})
	}
	// Host-registered types have no known shape.
	return &schemaNode{}
}

func referenceNode() *schemaNode {
	return &schemaNode{Type: "integer", Minimum: float(1)}
}

func colorNode() *schemaNode {
	return &schemaNode{Type: "string", Pattern: colorPattern}
}

func choiceNode(choices []schema.Choice) *schemaNode {
	node := &schemaNode{Type: "string"}
	for _, choice := range choices {
		node.Enum = append(node.Enum, choice.Value)
	}
	return node
}

func compositeNode(tag schema.TypeTag, parts map[string]*schemaNode) *schemaNode {
	node := newObjectNode()
	node.Properties = parts
	node.hint = typeName(tag)
	return node
}

func axisNode(tag schema.TypeTag, axes ...string) *schemaNode {
	parts := map[string]*schemaNode{"unit": choiceNode(schema.MeasurementUnits())}
	for _, axis := range axes {
		parts[axis] = &schemaNode{Type: "string", Pattern: numericPattern}
	}
	return compositeNode(tag, parts)
}

func googleFontsNode() *schemaNode {
	row := newObjectNode()
	row.Properties["family"] = &schemaNode{Type: "string"}
	row.Properties["variants"] = &schemaNode{Type: "array", Items: &schemaNode{Type: "string"}}
	row.Properties["subsets"] = &schemaNode{Type: "array", Items: &schemaNode{Type: "string"}}
	row.hint = "GoogleFont"
	return &schemaNode{Type: "array", Items: row, hint: "GoogleFonts"}
}

// rowsNode describes the records of a repeatable setting using its declared
// columns.
func rowsNode(setting schema.Setting) *schemaNode {
	columns, _ := schema.RowSettings(setting, nil)
	row := newObjectNode()
	row.hint = typeName(setting.Type) + "Row"
	for _, column := range columns {
		if !column.Type.HoldsValue() {
			continue
		}
		node := settingNode(column)
		if setting.Type == schema.TypeSocialLinks && column.ID == "href" {
			node.Format = "uri"
		}
		row.Properties[column.ID] = node
	}
	return &schemaNode{Type: "array", Items: row}
}

// typeName turns a type tag into a component name: "link-color" becomes
// "LinkColor".
func typeName(tag schema.TypeTag) string {
	return strings.ReplaceAll(cases.Title(language.Und).String(strings.ReplaceAll(string(tag), "-", " ")), " ", "")
}
