package opts

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/condition"
	"github.com/goliatone/go-optionbuilder/internal/formdecode"
	"github.com/goliatone/go-optionbuilder/schema"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var fieldTemplates = template.Must(
	template.New("fields").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.gohtml"),
)

// Widget kinds requested through bindings.
const (
	BindColorpicker    = "colorpicker"
	BindDatePicker     = "datepicker"
	BindDateTimePicker = "datetimepicker"
	BindNumericSlider  = "numeric-slider"
)

// Binding asks the host to attach a client-side widget to an element.
type Binding struct {
	FieldID string         `json:"field_id"`
	Kind    string         `json:"kind"`
	Config  map[string]any `json:"config,omitempty"`
}

// Fragment is rendered markup plus the widget bindings it needs.
type Fragment struct {
	Markup   template.HTML `json:"markup"`
	Bindings []Binding     `json:"bindings,omitempty"`
}

// Append concatenates other onto f.
func (f *Fragment) Append(other Fragment) {
	f.Markup += other.Markup
	f.Bindings = append(f.Bindings, other.Bindings...)
}

// Bind records a widget binding.
func (f *Fragment) Bind(fieldID, kind string, config map[string]any) {
	f.Bindings = append(f.Bindings, Binding{FieldID: fieldID, Kind: kind, Config: config})
}

// RenderContext carries one setting and its resolved value into a renderer.
type RenderContext struct {
	Setting   schema.Setting
	Value     any
	FieldID   string
	FieldName string
	Group     string

	renderer *Renderer
}

// Execute runs one of the built-in field templates.
func (rc *RenderContext) Execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := rc.renderer.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("opts: render %s for %s: %w", name, rc.FieldID, err)
	}
	return template.HTML(buf.String()), nil
}

// Nested renders a sub-setting, such as a row column, through the registry.
func (rc *RenderContext) Nested(setting schema.Setting, value any, fieldID, fieldName string) (Fragment, error) {
	return rc.renderer.Render(&RenderContext{
		Setting:   setting,
		Value:     value,
		FieldID:   fieldID,
		FieldName: fieldName,
		Group:     rc.Group,
		renderer:  rc.renderer,
	})
}

func (rc *RenderContext) view() fieldView {
	return fieldView{
		ID:          rc.FieldID,
		Name:        rc.FieldName,
		Type:        string(rc.Setting.Type),
		Class:       rc.Setting.CSSClass,
		Label:       rc.Setting.Label,
		Description: richText(rc.Setting.Description),
		Value:       schema.Stringify(rc.Value),
		Std:         schema.Stringify(rc.Setting.Default),
		Group:       rc.Group,
	}
}

// frame wraps inner in the description and inner wrappers every type shares.
func (rc *RenderContext) frame(inner template.HTML) (Fragment, error) {
	markup, err := rc.Execute("frame", frameView{
		Type:        string(rc.Setting.Type),
		Description: richText(rc.Setting.Description),
		Inner:       inner,
	})
	return Fragment{Markup: markup}, err
}

type fieldView struct {
	ID, Name, Type, Class string
	Key, Label, Kind      string
	Value, Std            string
	Description           template.HTML
	Rows                  int
	Readonly              bool
	Choices               []choiceView
	Parts                 []fieldView
	Items                 []template.HTML
	Shape, Group, Note    string
	Sortable              bool
	Min, Max, Step        string
	PostID, Image, Title  string
	Empty                 string
}

type choiceView struct {
	ID, Name, Value, Label, Src string
	Selected                    bool
}

type frameView struct {
	Type        string
	Description template.HTML
	Inner       template.HTML
}

type settingView struct {
	ID, Class           string
	Condition, Operator string
	Hidden, ShowLabel   bool
	Label               template.HTML
	Inner               template.HTML
}

type sectionView struct {
	ID, Title string
	Inner     template.HTML
}

func richText(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return template.HTML(SanitizeHTML(s, TrustStandard))
}

// Renderer walks a schema and produces form markup.
type Renderer struct {
	registry *TypeRegistry
	tmpl     *template.Template
	engine   *condition.Engine
	log      *zap.Logger
	images   func(int64) (string, bool)
}

// NewRenderer builds a renderer over the configured registry. Initial
// visibility uses the rule evaluator when WithEvaluator or
// WithRuleConditions is set.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := applyOptions(opts)
	log := cfg.logger.Named("renderer")
	engineOpts := []condition.Option{
		condition.WithSeedPolicy(cfg.seed),
		condition.WithLogger(cfg.logger),
	}
	if cfg.ruleClauses {
		clauses, err := NewRuleClauses(opts...)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, condition.WithClauseEvaluator(clauses))
	}
	return &Renderer{
		registry: cfg.registry,
		tmpl:     fieldTemplates,
		engine:   condition.NewEngine(engineOpts...),
		log:      log,
		images:   cfg.attachments,
	}, nil
}

// Render dispatches rc to the renderer registered for its type. Unknown types
// render a placeholder.
func (r *Renderer) Render(rc *RenderContext) (Fragment, error) {
	rc.renderer = r
	if rc.Value == nil {
		rc.Value = rc.Setting.Default
	}
	render, ok := r.registry.renderer(rc.Setting.Type.Normalize())
	if !ok {
		r.log.Debug("no renderer for type", zap.String("field", rc.FieldID), zap.String("type", string(rc.Setting.Type)))
		markup, err := rc.Execute("missing", nil)
		return Fragment{Markup: markup}, err
	}
	return render(rc)
}

// RenderSetting renders setting inside its labelled wrapper. visible sets the
// initial display state.
func (r *Renderer) RenderSetting(group string, setting schema.Setting, value any, visible bool) (Fragment, error) {
	inner, err := r.Render(&RenderContext{
		Setting:   setting,
		Value:     value,
		FieldID:   setting.ID,
		FieldName: fmt.Sprintf("%s[%s]", group, setting.ID),
		Group:     group,
	})
	if err != nil {
		return Fragment{}, err
	}
	view := settingView{
		ID:        setting.ID,
		Class:     wrapperClass(setting.CSSClass),
		Hidden:    !visible,
		ShowLabel: setting.Type != schema.TypeTextblock && setting.Type != schema.TypeTab && setting.Label != "",
		Label:     richText(setting.Label),
		Inner:     inner.Markup,
	}
	if strings.TrimSpace(setting.Condition) != "" {
		view.Condition = setting.Condition
		if op := strings.ToLower(setting.Operator); op == "and" || op == "or" {
			view.Operator = setting.Operator
		}
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "setting", view); err != nil {
		return Fragment{}, fmt.Errorf("opts: render setting %s: %w", setting.ID, err)
	}
	return Fragment{Markup: template.HTML(buf.String()), Bindings: inner.Bindings}, nil
}

// RenderPage renders the sections of one page. Settings with a condition
// start hidden when it evaluates false against values.
func (r *Renderer) RenderPage(ctx context.Context, g schema.Group, pageID string, values schema.ValueSet) (Fragment, error) {
	var page *schema.Page
	for i := range g.Pages {
		if g.Pages[i].ID == pageID {
			page = &g.Pages[i]
			break
		}
	}
	if page == nil {
		return Fragment{}, fmt.Errorf("opts: page %q not found in group %s", pageID, g.ID)
	}

	all := g.Settings()
	visibility, err := r.engine.Visibility(ctx, all, condition.FormState(all, values))
	if err != nil {
		r.log.Debug("condition evaluation reported errors", zap.String("page", pageID), zap.Error(err))
	}

	var out Fragment
	bySection := map[string]*Fragment{}
	var order []string
	for _, section := range page.Sections {
		bySection[section.ID] = &Fragment{}
		order = append(order, section.ID)
	}
	for _, setting := range page.Settings {
		visible, conditioned := visibility[setting.ID]
		frag, err := r.RenderSetting(g.ID, setting, values[setting.ID], visible || !conditioned)
		if err != nil {
			return Fragment{}, err
		}
		target, ok := bySection[setting.Section]
		if !ok {
			target = &Fragment{}
			bySection[setting.Section] = target
			order = append(order, setting.Section)
		}
		target.Append(frag)
	}

	titles := map[string]string{}
	for _, section := range page.Sections {
		titles[section.ID] = section.Title
	}
	for _, id := range order {
		body := bySection[id]
		var buf bytes.Buffer
		if err := r.tmpl.ExecuteTemplate(&buf, "section", sectionView{ID: id, Title: titles[id], Inner: body.Markup}); err != nil {
			return Fragment{}, fmt.Errorf("opts: render section %s: %w", id, err)
		}
		out.Append(Fragment{Markup: template.HTML(buf.String()), Bindings: body.Bindings})
	}
	return out, nil
}

func wrapperClass(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return "format-settings"
	}
	for i, field := range fields {
		fields[i] = field + "-wrap"
	}
	return "format-settings " + strings.Join(fields, " ")
}

func builtinRenderers() map[schema.TypeTag]RenderFunc {
	renderers := map[schema.TypeTag]RenderFunc{
		schema.TypeBackground:         renderBackground,
		schema.TypeBorder:             renderBorder,
		schema.TypeBoxShadow:          renderBoxShadow,
		schema.TypeCheckbox:           renderCheckbox,
		schema.TypeColorpicker:        renderColor,
		schema.TypeColorpickerOpacity: renderColor,
		schema.TypeCSS:                renderTextarea,
		schema.TypeJavascript:         renderTextarea,
		schema.TypeTextarea:           renderTextarea,
		schema.TypeTextareaSimple:     renderTextarea,
		schema.TypeDatePicker:         renderDate,
		schema.TypeDateTimePicker:     renderDate,
		schema.TypeDimension:          axisRenderer("width", "height"),
		schema.TypeSpacing:            axisRenderer("top", "right", "bottom", "left"),
		schema.TypeGallery:            renderGallery,
		schema.TypeGoogleFonts:        renderGoogleFonts,
		schema.TypeLinkColor:          renderLinkColor,
		schema.TypeListItem:           renderRows,
		schema.TypeSlider:             renderRows,
		schema.TypeSocialLinks:        renderRows,
		schema.TypeMeasurement:        renderMeasurement,
		schema.TypeNumericSlider:      renderNumericSlider,
		schema.TypeOnOff:              renderOnOff,
		schema.TypeRadio:              renderRadio,
		schema.TypeRadioImage:         renderRadio,
		schema.TypeSelect:             renderSelect,
		schema.TypeSidebarSelect:      renderSelect,
		schema.TypeTab:                renderTab,
		schema.TypeText:               renderText,
		schema.TypeTextblock:          renderTextblock,
		schema.TypeTextblockTitled:    renderTextblock,
		schema.TypeTypography:         renderTypography,
		schema.TypeUpload:             renderUpload,
	}
	for _, tag := range schema.BuiltinTypes() {
		switch {
		case tag.IsReferenceCheckbox():
			renderers[tag] = renderCheckbox
		case tag.IsReferenceSelect():
			renderers[tag] = renderSelect
		}
	}
	return renderers
}

func renderText(rc *RenderContext) (Fragment, error) {
	inner, err := rc.Execute("input", rc.view())
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderTextarea(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	view.Rows = rc.Setting.Rows
	if view.Rows <= 0 {
		view.Rows = 15
	}
	switch rc.Setting.Type {
	case schema.TypeCSS, schema.TypeJavascript:
		view.Class = strings.TrimSpace("opb-code-editor " + view.Class)
	}
	inner, err := rc.Execute("textarea", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderColor(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	var config map[string]any
	if rc.Setting.Type == schema.TypeColorpickerOpacity {
		view.Class = strings.TrimSpace(view.Class + " opb-colorpicker-opacity")
		config = map[string]any{"opacity": true}
	}
	inner, err := rc.Execute("color", view)
	if err != nil {
		return Fragment{}, err
	}
	frag, err := rc.frame(inner)
	frag.Bind(rc.FieldID, BindColorpicker, config)
	return frag, err
}

func renderDate(rc *RenderContext) (Fragment, error) {
	kind, format := BindDatePicker, "yy-mm-dd"
	if rc.Setting.Type == schema.TypeDateTimePicker {
		kind, format = BindDateTimePicker, "yy-mm-dd HH:mm"
	}
	if rc.Setting.DateFormat != "" {
		format = rc.Setting.DateFormat
	}
	inner, err := rc.Execute("input", rc.view())
	if err != nil {
		return Fragment{}, err
	}
	frag, err := rc.frame(inner)
	frag.Bind(rc.FieldID, kind, map[string]any{"date_format": format})
	return frag, err
}

func renderNumericSlider(rc *RenderContext) (Fragment, error) {
	rng := rc.Setting.Range()
	view := rc.view()
	view.Min = formatFloat(rng.Min)
	view.Max = formatFloat(rng.Max)
	view.Step = formatFloat(rng.Step)
	inner, err := rc.Execute("numeric-slider", view)
	if err != nil {
		return Fragment{}, err
	}
	frag, err := rc.frame(inner)
	frag.Bind(rc.FieldID, BindNumericSlider, map[string]any{"min": rng.Min, "max": rng.Max, "step": rng.Step})
	return frag, err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func choiceViews(fieldID string, choices []schema.Choice, selected func(string) bool) []choiceView {
	out := make([]choiceView, 0, len(choices))
	for i, choice := range choices {
		out = append(out, choiceView{
			ID:       fmt.Sprintf("%s-%d", fieldID, i),
			Value:    choice.Value,
			Label:    choice.Label,
			Src:      choice.ImageSrc,
			Selected: selected(choice.Value),
		})
	}
	return out
}

func equals(current string) func(string) bool {
	return func(v string) bool { return v == current }
}

func renderSelect(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	choices := rc.Setting.Choices
	if rc.Setting.Type.IsReferenceSelect() || rc.Setting.Type == schema.TypeSidebarSelect {
		choices = append([]schema.Choice{{Value: "", Label: "-- Choose One --"}}, choices...)
	}
	view.Choices = choiceViews(rc.FieldID, choices, equals(view.Value))
	inner, err := rc.Execute("select", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderRadio(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	choices := rc.Setting.Choices
	name := "radio"
	if rc.Setting.Type == schema.TypeRadioImage {
		name = "radio-image"
		if len(choices) == 0 {
			choices = schema.RadioImages()
		}
	}
	view.Choices = choiceViews(rc.FieldID, choices, equals(view.Value))
	inner, err := rc.Execute(name, view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderOnOff(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	if view.Value == "" {
		view.Value = "on"
	}
	choices := rc.Setting.Choices
	if len(choices) == 0 {
		choices = []schema.Choice{{Value: "on", Label: "On"}, {Value: "off", Label: "Off"}}
	}
	view.Choices = choiceViews(rc.FieldID, choices, equals(view.Value))
	inner, err := rc.Execute("on-off", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderCheckbox(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	checked := map[string]bool{}
	for _, v := range asMap(rc.Value) {
		checked[schema.Stringify(v)] = true
	}
	for _, v := range indexedValues(rc.Value) {
		checked[v] = true
	}
	view.Choices = choiceViews(rc.FieldID, rc.Setting.Choices, func(v string) bool { return checked[v] })
	for i := range view.Choices {
		key := strconv.Itoa(i)
		if rc.Setting.Type.IsReferenceCheckbox() {
			key = view.Choices[i].Value
		}
		view.Choices[i].Name = fmt.Sprintf("%s[%s]", rc.FieldName, key)
	}
	if rc.Setting.Type.IsReferenceCheckbox() {
		view.Empty = "No items found"
	}
	inner, err := rc.Execute("checkbox", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func indexedValues(value any) []string {
	var out []string
	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			out = append(out, schema.Stringify(item))
		}
	case []string:
		out = append(out, typed...)
	}
	return out
}

func renderUpload(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	view.Class = strings.TrimSpace("upload " + view.Class)
	if id, ok := PositiveInt(rc.Value); ok && rc.renderer.images != nil {
		if src, found := rc.renderer.images(id); found {
			view.Image = src
		}
	} else if isImageURL(view.Value) {
		view.Image = view.Value
	}
	inner, err := rc.Execute("upload", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func isImageURL(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func renderGallery(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	for _, id := range strings.Split(view.Value, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		item := template.HTML(template.HTMLEscapeString(id))
		if n, ok := PositiveInt(id); ok && rc.renderer.images != nil {
			if src, found := rc.renderer.images(n); found {
				item = template.HTML(fmt.Sprintf(`<img src="%s" width="75" height="75" />`, template.HTMLEscapeString(src)))
			}
		}
		view.Items = append(view.Items, item)
	}
	inner, err := rc.Execute("gallery", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func renderTab(rc *RenderContext) (Fragment, error) {
	markup, err := rc.Execute("tab", rc.view())
	return Fragment{Markup: markup}, err
}

func renderTextblock(rc *RenderContext) (Fragment, error) {
	name := "textblock"
	if rc.Setting.Type == schema.TypeTextblockTitled {
		name = "textblock-titled"
	}
	markup, err := rc.Execute(name, rc.view())
	return Fragment{Markup: markup}, err
}

// part describes one input of a composite type.
type part struct {
	key, label, kind string
	choices          []schema.Choice
}

func renderComposite(rc *RenderContext, parts []part, pickerID func(key string) string) (Fragment, error) {
	view := rc.view()
	values := asMap(rc.Value)
	if values == nil {
		values = indexed(rc.Value)
	}
	std := asMap(rc.Setting.Default)
	var bindings []Binding
	for _, p := range parts {
		pv := fieldView{
			Key:   p.key,
			Label: p.label,
			Kind:  p.kind,
			Name:  fmt.Sprintf("%s[%s]", rc.FieldName, p.key),
			ID:    fmt.Sprintf("%s-%s", rc.FieldID, p.key),
			Value: schema.Stringify(values[p.key]),
			Std:   schema.Stringify(std[p.key]),
		}
		switch p.kind {
		case "color":
			pv.ID = pickerID(p.key)
			bindings = append(bindings, Binding{FieldID: pv.ID, Kind: BindColorpicker})
		case "select":
			choices := append([]schema.Choice{{Value: "", Label: p.label}}, p.choices...)
			pv.Choices = choiceViews(pv.ID, choices, equals(pv.Value))
		}
		view.Parts = append(view.Parts, pv)
	}
	inner, err := rc.Execute("composite", view)
	if err != nil {
		return Fragment{}, err
	}
	frag, err := rc.frame(inner)
	frag.Bindings = append(frag.Bindings, bindings...)
	return frag, err
}

func (rc *RenderContext) picker(string) string { return rc.FieldID + "-picker" }

func renderBackground(rc *RenderContext) (Fragment, error) {
	return renderComposite(rc, []part{
		{key: "background-color", label: "Background color", kind: "color"},
		{key: "background-repeat", label: "background-repeat", kind: "select", choices: schema.BackgroundRepeat()},
		{key: "background-attachment", label: "background-attachment", kind: "select", choices: schema.BackgroundAttachment()},
		{key: "background-position", label: "background-position", kind: "select", choices: schema.BackgroundPositions()},
		{key: "background-size", label: "background-size", kind: "input"},
		{key: "background-image", label: "background-image", kind: "input"},
	}, rc.picker)
}

func renderBorder(rc *RenderContext) (Fragment, error) {
	return renderComposite(rc, []part{
		{key: "width", label: "width", kind: "input"},
		{key: "unit", label: "unit", kind: "select", choices: schema.MeasurementUnits()},
		{key: "style", label: "style", kind: "select", choices: schema.BorderStyles()},
		{key: "color", label: "Border color", kind: "color"},
	}, rc.picker)
}

func renderBoxShadow(rc *RenderContext) (Fragment, error) {
	return renderComposite(rc, []part{
		{key: "inset", label: "inset", kind: "checkbox"},
		{key: "offset-x", label: "offset-x", kind: "input"},
		{key: "offset-y", label: "offset-y", kind: "input"},
		{key: "blur-radius", label: "blur-radius", kind: "input"},
		{key: "spread-radius", label: "spread-radius", kind: "input"},
		{key: "color", label: "Shadow color", kind: "color"},
	}, rc.picker)
}

func axisRenderer(axes ...string) RenderFunc {
	return func(rc *RenderContext) (Fragment, error) {
		parts := make([]part, 0, len(axes)+1)
		for _, axis := range axes {
			parts = append(parts, part{key: axis, label: axis, kind: "input"})
		}
		parts = append(parts, part{key: "unit", label: "unit", kind: "select", choices: schema.MeasurementUnits()})
		return renderComposite(rc, parts, rc.picker)
	}
}

var linkColorStates = []schema.Choice{
	{Value: "link", Label: "Standard"},
	{Value: "hover", Label: "Hover"},
	{Value: "active", Label: "Active"},
	{Value: "visited", Label: "Visited"},
	{Value: "focus", Label: "Focus"},
}

func renderLinkColor(rc *RenderContext) (Fragment, error) {
	parts := make([]part, 0, len(linkColorStates))
	for _, state := range linkColorStates {
		parts = append(parts, part{key: state.Value, label: state.Label, kind: "color"})
	}
	return renderComposite(rc, parts, func(key string) string {
		return rc.FieldID + "-picker-" + key
	})
}

func renderMeasurement(rc *RenderContext) (Fragment, error) {
	return renderComposite(rc, []part{
		{key: "0", label: "value", kind: "input"},
		{key: "1", label: "unit", kind: "select", choices: schema.MeasurementUnits()},
	}, rc.picker)
}

func renderTypography(rc *RenderContext) (Fragment, error) {
	return renderComposite(rc, []part{
		{key: "font-color", label: "Font color", kind: "color"},
		{key: "font-family", label: "font-family", kind: "select", choices: schema.FontFamilies()},
		{key: "font-size", label: "font-size", kind: "select", choices: schema.FontSizes()},
		{key: "font-style", label: "font-style", kind: "select", choices: schema.FontStyles()},
		{key: "font-variant", label: "font-variant", kind: "select", choices: schema.FontVariants()},
		{key: "font-weight", label: "font-weight", kind: "select", choices: schema.FontWeights()},
		{key: "letter-spacing", label: "letter-spacing", kind: "select", choices: schema.LetterSpacing()},
		{key: "line-height", label: "line-height", kind: "select", choices: schema.LineHeights()},
		{key: "text-decoration", label: "text-decoration", kind: "select", choices: schema.TextDecorations()},
		{key: "text-transform", label: "text-transform", kind: "select", choices: schema.TextTransforms()},
	}, rc.picker)
}

// renderRows renders list-item, slider and social-links values one row per
// record, carrying the column shape in a hidden field for validation.
func renderRows(rc *RenderContext) (Fragment, error) {
	columns, _ := schema.RowSettings(rc.Setting, nil)
	shape, err := schema.EncodeShape(columns)
	if err != nil {
		return Fragment{}, fmt.Errorf("opts: encode row shape for %s: %w", rc.FieldID, err)
	}
	view := rc.view()
	view.Shape = shape
	view.Sortable = !strings.Contains(" "+rc.Setting.CSSClass+" ", " nopb-sortable ")
	if view.Sortable {
		view.Note = "You can re-order with drag & drop, the order will update after saving."
	}

	var bindings []Binding
	for i, raw := range rowsOf(rc.Value) {
		record := asMap(raw)
		rowView := fieldView{Title: schema.Stringify(record["title"])}
		if rc.Setting.Type == schema.TypeSocialLinks {
			rowView.Title = schema.Stringify(record["name"])
		}
		for _, column := range columns {
			frag, err := rc.Nested(column, record[column.ID],
				fmt.Sprintf("%s_%s_%d", rc.FieldID, column.ID, i),
				fmt.Sprintf("%s[%d][%s]", rc.FieldName, i, column.ID),
			)
			if err != nil {
				return Fragment{}, err
			}
			rowView.Items = append(rowView.Items, frag.Markup)
			bindings = append(bindings, frag.Bindings...)
		}
		row, err := rc.Execute("row", rowView)
		if err != nil {
			return Fragment{}, err
		}
		view.Items = append(view.Items, row)
	}

	inner, err := rc.Execute("rows", view)
	if err != nil {
		return Fragment{}, err
	}
	frag, err := rc.frame(inner)
	frag.Bindings = append(frag.Bindings, bindings...)
	return frag, err
}

func renderGoogleFonts(rc *RenderContext) (Fragment, error) {
	view := rc.view()
	for i, raw := range rowsOf(rc.Value) {
		record := asMap(raw)
		parts := []fieldView{
			{Key: "family", Label: "family", Kind: "input", Value: schema.Stringify(record["family"])},
			{Key: "variants", Label: "variants", Kind: "input", Value: joinValues(record["variants"])},
			{Key: "subsets", Label: "subsets", Kind: "input", Value: joinValues(record["subsets"])},
		}
		for j := range parts {
			parts[j].Name = fmt.Sprintf("%s[%d][%s]", rc.FieldName, i, parts[j].Key)
			parts[j].ID = fmt.Sprintf("%s-%d-%s", rc.FieldID, i, parts[j].Key)
		}
		row, err := rc.Execute("composite", fieldView{Parts: parts})
		if err != nil {
			return Fragment{}, err
		}
		view.Items = append(view.Items, row)
	}
	view.Sortable = false
	inner, err := rc.Execute("rows", view)
	if err != nil {
		return Fragment{}, err
	}
	return rc.frame(inner)
}

func joinValues(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return strings.Join(indexedValues(value), ",")
}

func rowsOf(value any) []any {
	switch value.(type) {
	case []any, []map[string]any, map[string]any:
	default:
		return nil
	}
	out := []any{}
	for _, row := range formdecode.Rows(value) {
		if asMap(row) != nil {
			out = append(out, row)
		}
	}
	return out
}
