package opts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-optionbuilder/internal/formdecode"
	"github.com/goliatone/go-optionbuilder/schema"
)

func builtinRules() map[schema.TypeTag]ValidateFunc {
	rules := map[schema.TypeTag]ValidateFunc{
		schema.TypeBackground:         validateBackground,
		schema.TypeBorder:             validateBorder,
		schema.TypeBoxShadow:          validateBoxShadow,
		schema.TypeCheckbox:           validateCheckbox,
		schema.TypeColorpicker:        validateColor,
		schema.TypeColorpickerOpacity: validateColor,
		schema.TypeCSS:                validateCode,
		schema.TypeJavascript:         validateCode,
		schema.TypeDatePicker:         validateDate,
		schema.TypeDateTimePicker:     validateDate,
		schema.TypeDimension:          axisRule(codeDimensionPrefix),
		schema.TypeSpacing:            axisRule(codeSpacingPrefix),
		schema.TypeGallery:            validateGallery,
		schema.TypeGoogleFonts:        validateGoogleFonts,
		schema.TypeLinkColor:          validateLinkColor,
		schema.TypeMeasurement:        validateMeasurement,
		schema.TypeNumericSlider:      validateNumericSlider,
		schema.TypeText:               validateFreeText,
		schema.TypeTextarea:           validateFreeText,
		schema.TypeTextareaSimple:     validateFreeText,
		schema.TypeTypography:         validateTypography,
		schema.TypeUpload:             validateUpload,
		schema.TypeURL:                validateURL,
		schema.TypeListItem:           validateRows,
		schema.TypeSlider:             validateRows,
		schema.TypeSocialLinks:        validateRows,
		schema.TypeTab:                validateNothing,
		schema.TypeTextblock:          validateNothing,
		schema.TypeTextblockTitled:    validateNothing,
	}
	for _, tag := range []schema.TypeTag{schema.TypeOnOff, schema.TypeRadio, schema.TypeRadioImage, schema.TypeSelect, schema.TypeSidebarSelect} {
		rules[tag] = validatePlainText
	}
	for _, tag := range schema.BuiltinTypes() {
		switch {
		case tag.IsReferenceCheckbox():
			rules[tag] = validateReferenceCheckbox
		case tag.IsReferenceSelect():
			rules[tag] = validateReferenceSelect
		}
	}
	return rules
}

func validateColor(fc *FieldContext, value any) any {
	s, ok := value.(string)
	if ok && ValidColor(s) {
		return s
	}
	fc.Error(CodeInvalidColor, fmt.Sprintf("The %s Colorpicker only allows valid hexadecimal or rgba values.", fc.FieldID))
	return ""
}

func validateCode(fc *FieldContext, value any) any {
	return SanitizeCode(stringOf(value), fc.Trust)
}

func validateFreeText(fc *FieldContext, value any) any {
	return SanitizeHTML(stringOf(value), fc.Trust)
}

func validatePlainText(_ *FieldContext, value any) any {
	return SanitizeText(value)
}

func validateNothing(_ *FieldContext, _ any) any {
	return nil
}

func validateURL(_ *FieldContext, value any) any {
	return SanitizeURL(value)
}

func validateUpload(_ *FieldContext, value any) any {
	if id, ok := PositiveInt(value); ok {
		return id
	}
	return SanitizeURL(value)
}

func validateGallery(_ *FieldContext, value any) any {
	return strings.TrimSpace(SanitizeText(value))
}

func validateDate(_ *FieldContext, value any) any {
	s := SanitizeText(value)
	if _, ok := ParseDate(s); ok {
		return s
	}
	return ""
}

func validateNumericSlider(fc *FieldContext, value any) any {
	if IsNumeric(value) {
		n, err := strconv.ParseFloat(strings.TrimSpace(stringOf(value)), 64)
		if err == nil && (!fc.Setting.HasRange() || fc.Setting.Range().Contains(n)) {
			return value
		}
	}
	fc.Error(CodeInvalidNumericSlider, numericMessage("numeric slider", fc.FieldID))
	return ""
}

func validateReferenceCheckbox(_ *FieldContext, value any) any {
	entries := asMap(value)
	if entries == nil {
		entries = indexed(value)
	}
	out := map[string]any{}
	for _, key := range sortedKeys(entries) {
		if id, ok := PositiveInt(entries[key]); ok {
			out[key] = id
		}
	}
	return out
}

func validateReferenceSelect(_ *FieldContext, value any) any {
	if id, ok := PositiveInt(value); ok {
		return id
	}
	return ""
}

func validateCheckbox(_ *FieldContext, value any) any {
	entries := asMap(value)
	if entries == nil {
		entries = indexed(value)
	}
	out := map[string]any{}
	for _, key := range sortedKeys(entries) {
		if schema.IsEmpty(entries[key]) {
			continue
		}
		if text := SanitizeText(entries[key]); text != "" {
			out[key] = text
		}
	}
	return out
}

func validateBackground(fc *FieldContext, value any) any {
	return composite(fc, value, func(key string, part any) any {
		switch key {
		case "background-color":
			return fc.Validate(part, schema.TypeColorpicker, fc.FieldID)
		case "background-image":
			return fc.Validate(part, schema.TypeUpload, fc.FieldID)
		}
		return SanitizeText(part)
	})
}

func validateBorder(fc *FieldContext, value any) any {
	return composite(fc, value, func(key string, part any) any {
		switch key {
		case "width":
			if !IsNumeric(part) {
				fc.Error(CodeInvalidBorderWidth, numericMessage("width", fc.FieldID))
				return nil
			}
			return absInt(part)
		case "color":
			return fc.Validate(part, schema.TypeColorpicker, fc.FieldID)
		}
		return SanitizeText(part)
	})
}

func validateBoxShadow(fc *FieldContext, value any) any {
	return composite(fc, value, func(key string, part any) any {
		switch key {
		case "inset":
			return "inset"
		case "color":
			return fc.Validate(part, schema.TypeColorpicker, fc.FieldID)
		}
		return SanitizeText(part)
	})
}

func validateTypography(fc *FieldContext, value any) any {
	return composite(fc, value, func(key string, part any) any {
		if key == "font-color" {
			return fc.Validate(part, schema.TypeColorpicker, fc.FieldID)
		}
		return sanitizeNested(part, SanitizeText)
	})
}

func validateLinkColor(fc *FieldContext, value any) any {
	return composite(fc, value, func(key string, part any) any {
		return fc.Validate(part, schema.TypeColorpicker, fc.FieldID+"-"+key)
	})
}

// axisRule validates dimension and spacing: every key but unit must be
// numeric, and a failing key is dropped with a code naming it.
func axisRule(codePrefix string) ValidateFunc {
	return func(fc *FieldContext, value any) any {
		return composite(fc, value, func(key string, part any) any {
			if key == "unit" {
				return SanitizeText(part)
			}
			if !IsNumeric(part) {
				fc.Error(codePrefix+key, numericMessage(key, fc.FieldID))
				return nil
			}
			return SanitizeText(part)
		})
	}
}

func validateMeasurement(_ *FieldContext, value any) any {
	entries := asMap(value)
	if entries == nil {
		entries = indexed(value)
	}
	out := map[string]any{}
	for _, key := range sortedKeys(entries) {
		if text := SanitizeText(entries[key]); text != "" {
			out[key] = text
		}
	}
	return out
}

// googleFontsTemplateRow is the hidden row the admin form clones.
const googleFontsTemplateRow = "%key%"

func validateGoogleFonts(_ *FieldContext, value any) any {
	if entries := asMap(value); entries != nil {
		trimmed := make(map[string]any, len(entries))
		for key, row := range entries {
			if key != googleFontsTemplateRow {
				trimmed[key] = row
			}
		}
		value = trimmed
	}
	out := []any{}
	for _, row := range formdecode.Rows(value) {
		clean := sanitizeNested(row, SanitizeText)
		if !schema.IsEmpty(clean) {
			out = append(out, clean)
		}
	}
	return out
}

// validateRows validates each record of a repeatable setting column by
// column. Records left without a value are dropped.
func validateRows(fc *FieldContext, value any) any {
	columns, fromShape := schema.RowSettings(fc.Setting, fc.Shape)
	if !fromShape {
		fc.validator.log.Debug("row shape empty, using declared columns",
			zap.String("field", fc.FieldID),
			zap.Int("columns", len(columns)),
		)
	}
	out := []any{}
	for i, raw := range formdecode.Rows(value) {
		record := asMap(raw)
		if record == nil {
			continue
		}
		clean := map[string]any{}
		for _, column := range columns {
			part, ok := record[column.ID]
			if !ok {
				continue
			}
			if fc.Type == schema.TypeSocialLinks && column.ID == "href" {
				column.Type = schema.TypeURL
			}
			fieldID := fmt.Sprintf("%s_%s_%d", fc.FieldID, column.ID, i)
			if result := fc.validateAs(column, part, fieldID); !schema.IsEmpty(result) {
				clean[column.ID] = result
			}
		}
		if len(clean) > 0 {
			out = append(out, clean)
		}
	}
	return out
}

func validateUnknown(fc *FieldContext, value any) any {
	fc.Warn(CodeUnknownType, fmt.Sprintf("The %s option type has no validation rule; its value was sanitized as plain text.", fc.Type))
	return sanitizeNested(value, SanitizeTextarea)
}

// composite runs part on every non-empty key of a map value and keeps the
// non-empty results.
func composite(fc *FieldContext, value any, part func(key string, v any) any) any {
	entries := asMap(value)
	if entries == nil {
		fc.validator.log.Debug("composite value is not a map",
			zap.String("field", fc.FieldID),
			zap.String("type", string(fc.Type)),
		)
		return map[string]any{}
	}
	out := map[string]any{}
	for _, key := range sortedKeys(entries) {
		if schema.IsEmpty(entries[key]) {
			continue
		}
		if result := part(key, entries[key]); !schema.IsEmpty(result) {
			out[key] = result
		}
	}
	return out
}

func sanitizeNested(value any, text func(any) string) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			if clean := sanitizeNested(item, text); !schema.IsEmpty(clean) {
				out[key] = clean
			}
		}
		return out
	case schema.ValueSet:
		return sanitizeNested(map[string]any(typed), text)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if clean := sanitizeNested(item, text); !schema.IsEmpty(clean) {
				out = append(out, clean)
			}
		}
		return out
	case []string:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			if clean := text(item); clean != "" {
				out = append(out, clean)
			}
		}
		return out
	}
	return text(value)
}

func asMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case schema.ValueSet:
		return typed
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return out
	}
	return nil
}

// indexed turns a sequence into a map keyed by position.
func indexed(value any) map[string]any {
	out := map[string]any{}
	switch typed := value.(type) {
	case []any:
		for i, item := range typed {
			out[strconv.Itoa(i)] = item
		}
	case []string:
		for i, item := range typed {
			out[strconv.Itoa(i)] = item
		}
	default:
		if !schema.IsEmpty(value) {
			out["0"] = value
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
