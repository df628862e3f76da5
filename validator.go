package opts

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/internal/formdecode"
	"github.com/goliatone/go-optionbuilder/internal/pipeline"
	"github.com/goliatone/go-optionbuilder/schema"
)

// Validator runs submitted values through pre hooks, the dedicated type rule
// and post hooks.
type Validator struct {
	registry *TypeRegistry
	trust    Trust
	log      *zap.Logger
	pipe     *pipeline.Pipeline[any]
}

// NewValidator builds a validator over the configured type registry.
func NewValidator(opts ...Option) *Validator {
	cfg := applyOptions(opts)
	v := &Validator{
		registry: cfg.registry,
		trust:    cfg.trust,
		log:      cfg.logger.Named("validator"),
	}
	pipeOpts := []pipeline.Option[any]{pipeline.WithClone(cloneFieldValue)}
	for _, hook := range cfg.preHooks {
		pipeOpts = append(pipeOpts, pipeline.WithPreHook(plainHook(hook)))
	}
	for _, hook := range cfg.postHooks {
		pipeOpts = append(pipeOpts, pipeline.WithPostHook(plainHook(hook)))
	}
	v.pipe = pipeline.New(v.dispatch, pipeOpts...)
	return v
}

// Registry returns the type registry the validator dispatches through.
func (v *Validator) Registry() *TypeRegistry {
	return v.registry
}

// FieldContext is handed to type rules. It identifies the setting being
// validated and collects diagnostics.
type FieldContext struct {
	Setting schema.Setting
	FieldID string
	Type    schema.TypeTag
	Group   string
	Trust   Trust
	// Shape holds the row columns submitted next to a repeatable setting.
	Shape []schema.Setting

	validator *Validator
	diags     *Diagnostics
	rejected  bool
}

// Error records an error diagnostic for the current field.
func (fc *FieldContext) Error(code, message string) {
	fc.record(code, message, SeverityError)
	fc.rejected = true
}

// Warn records a warning diagnostic for the current field.
func (fc *FieldContext) Warn(code, message string) {
	fc.record(code, message, SeverityWarning)
}

func (fc *FieldContext) record(code, message string, severity Severity) {
	*fc.diags = append(*fc.diags, Diagnostic{
		Code:     code,
		Message:  message,
		Severity: severity,
		FieldID:  fc.FieldID,
	})
}

// Validate runs value through the whole pipeline as tag, reporting problems
// under fieldID. Composite rules use it for their parts.
func (fc *FieldContext) Validate(value any, tag schema.TypeTag, fieldID string) any {
	return fc.validateAs(schema.Setting{ID: fieldID, Type: tag}, value, fieldID)
}

// validateAs validates a nested value declared by setting, such as a row
// column, so its own range and sub-settings apply.
func (fc *FieldContext) validateAs(setting schema.Setting, value any, fieldID string) any {
	sub := &FieldContext{
		Setting:   setting,
		FieldID:   fieldID,
		Type:      setting.Type.Normalize(),
		Group:     fc.Group,
		Trust:     fc.Trust,
		validator: fc.validator,
		diags:     fc.diags,
	}
	out, _ := fc.validator.run(sub, value)
	return out
}

// ValidateSetting validates one value as tag. Empty values pass unchanged.
func (v *Validator) ValidateSetting(value any, tag schema.TypeTag, fieldID string) (any, Diagnostics) {
	return v.Validate(schema.Setting{ID: fieldID, Type: tag}, value, nil)
}

// Validate validates value against setting. shape is the submitted column
// list for repeatable settings and may be nil.
func (v *Validator) Validate(setting schema.Setting, value any, shape []schema.Setting) (any, Diagnostics) {
	var diags Diagnostics
	fc := v.fieldContext(setting, shape, "", &diags)
	out, _ := v.run(fc, value)
	return out, diags
}

func (v *Validator) fieldContext(setting schema.Setting, shape []schema.Setting, group string, diags *Diagnostics) *FieldContext {
	return &FieldContext{
		Setting:   setting,
		FieldID:   setting.ID,
		Type:      setting.Type.Normalize(),
		Group:     group,
		Trust:     v.trust,
		Shape:     shape,
		validator: v,
		diags:     diags,
	}
}

// run reports kept=false when a hook vetoed or failed.
func (v *Validator) run(fc *FieldContext, value any) (out any, kept bool) {
	if schema.IsEmpty(value) || fc.Type == "" || fc.FieldID == "" {
		return value, true
	}
	ctx := pipeline.Context{FieldID: fc.FieldID, Type: string(fc.Type), Group: fc.Group}
	res, err := v.pipe.Run(ctx, fieldValue{fc: fc, value: value})
	if err != nil {
		fc.Error(CodeHookFailed, err.Error())
		v.log.Debug("validation hook failed", zap.String("field", fc.FieldID), zap.Error(err))
		return nil, false
	}
	if res.Vetoed {
		fc.Warn(CodeVetoed, fmt.Sprintf("The %s value was rejected by a %s-validate hook.", fc.FieldID, res.Stage))
		return nil, false
	}
	return unwrapFieldValue(res.Value), true
}

// fieldValue lets the pipeline rule reach the field context while hooks see
// and replace plain values.
type fieldValue struct {
	fc    *FieldContext
	value any
}

func unwrapFieldValue(value any) any {
	if fv, ok := value.(fieldValue); ok {
		return fv.value
	}
	return value
}

func cloneFieldValue(value any) any {
	if fv, ok := value.(fieldValue); ok {
		fv.value = schema.CloneValue(fv.value)
		return fv
	}
	return schema.CloneValue(value)
}

// plainHook hides the field context from host hooks. A replacement is
// rewrapped so the rule still reaches the context.
func plainHook(hook ValidateHook) ValidateHook {
	if hook == nil {
		return nil
	}
	return func(ctx pipeline.Context, value any) (any, pipeline.Verdict, error) {
		fv, wrapped := value.(fieldValue)
		if !wrapped {
			return hook(ctx, value)
		}
		next, verdict, err := hook(ctx, fv.value)
		if verdict == pipeline.Replace {
			fv.value = next
			return fv, verdict, err
		}
		return value, verdict, err
	}
}

func (v *Validator) dispatch(_ pipeline.Context, input any) (any, error) {
	fv, ok := input.(fieldValue)
	if !ok {
		return input, nil
	}
	rule, found := v.registry.rule(fv.fc.Type)
	if !found {
		return validateUnknown(fv.fc, fv.value), nil
	}
	return rule(fv.fc, fv.value), nil
}

// Submission is one candidate ValueSet plus the row shapes the browser sent
// for repeatable settings.
type Submission struct {
	Values schema.ValueSet `json:"values"`
	// Shapes maps a repeatable setting id to its encoded column list.
	Shapes map[string]string `json:"shapes,omitempty"`
}

// SubmissionFromForm decodes bracket-notation form fields. Values live under
// group[...]; shapes come from the <id>_settings_array fields.
func SubmissionFromForm(group string, form url.Values) (Submission, error) {
	doc, err := formdecode.Decode(formdecode.FromValues(form))
	if err != nil {
		return Submission{}, fmt.Errorf("opts: decode submission: %w", err)
	}
	sub := Submission{Values: schema.ValueSet{}, Shapes: map[string]string{}}
	if values, ok := doc[group].(map[string]any); ok {
		sub.Values = schema.ValueSet(values)
	}
	for key, raw := range doc {
		id, ok := strings.CutSuffix(key, schema.ShapeSuffix)
		if !ok {
			continue
		}
		if blob, ok := raw.(string); ok {
			sub.Shapes[id] = blob
		}
	}
	return sub, nil
}

// ValidateValueSet validates every declared setting present in sub. Settings
// rejected outright keep their previous value; composite settings keep the
// parts that passed. Undeclared keys are dropped.
func (v *Validator) ValidateValueSet(g schema.Group, sub Submission, previous schema.ValueSet) (schema.ValueSet, Diagnostics) {
	out := schema.ValueSet{}
	var diags Diagnostics
	for _, setting := range g.Settings() {
		if !setting.Type.HoldsValue() {
			continue
		}
		raw, ok := sub.Values[setting.ID]
		if !ok {
			continue
		}
		var shape []schema.Setting
		if setting.Type.IsRepeatable() {
			shape = schema.DecodeShape(sub.Shapes[setting.ID])
		}
		var fieldDiags Diagnostics
		fc := v.fieldContext(setting, shape, g.ID, &fieldDiags)
		value, kept := v.run(fc, raw)
		diags = append(diags, fieldDiags...)

		if !kept || (fc.rejected && schema.IsEmpty(value)) {
			if old, had := previous[setting.ID]; had {
				out[setting.ID] = schema.CloneValue(old)
			}
			v.log.Debug("setting kept previous value", zap.String("field", setting.ID), zap.Strings("codes", fieldDiags.Codes()))
			continue
		}
		out[setting.ID] = value
	}
	return out, diags
}

// Narrower returns a function that re-validates a layout snapshot against g,
// dropping keys g no longer declares. Its signature matches layouts.NarrowFunc.
func (v *Validator) Narrower(g schema.Group) func(context.Context, schema.ValueSet) (schema.ValueSet, error) {
	return func(_ context.Context, snapshot schema.ValueSet) (schema.ValueSet, error) {
		out, diags := v.ValidateValueSet(g, Submission{Values: snapshot}, nil)
		for _, diag := range diags {
			v.log.Debug("layout snapshot diagnostic", zap.String("field", diag.FieldID), zap.String("code", diag.Code))
		}
		return out, nil
	}
}
