package opts

import (
	"github.com/goliatone/go-optionbuilder/internal/formdecode"
	"github.com/goliatone/go-optionbuilder/schema"
)

// schemaFieldRules sanitize the keys of a setting declaration. Nested
// "settings" are handled by validateSettingDeclarations itself.
var schemaFieldRules = map[string]func(value any) any{
	"label":        richSchemaField,
	"desc":         richSchemaField,
	"id":           func(value any) any { return schema.SanitizeID(SanitizeHTML(stringOf(value), TrustStandard)) },
	"type":         plainSchemaField,
	"post_type":    plainSchemaField,
	"taxonomy":     plainSchemaField,
	"min_max_step": plainSchemaField,
	"class":        plainSchemaField,
	"condition":    plainSchemaField,
	"operator":     plainSchemaField,
	"section":      plainSchemaField,
	"std":          func(value any) any { return sanitizeNested(value, SanitizeText) },
	"choices":      func(value any) any { return validateChoiceDeclarations(value) },
	"rows": func(value any) any {
		if n := absInt(value); n > 0 {
			return n
		}
		return ""
	},
}

func plainSchemaField(value any) any {
	return SanitizeText(value)
}

func richSchemaField(value any) any {
	return SanitizeHTML(stringOf(value), TrustStandard)
}

// ValidateSchemaDocument sanitizes a user-edited schema document: sections,
// settings (recursively) and contextual help. Unknown keys are dropped.
func (v *Validator) ValidateSchemaDocument(doc map[string]any) map[string]any {
	out := map[string]any{}

	if sections := validateTitled(doc["sections"]); len(sections) > 0 {
		safe := make([]any, 0, len(sections))
		for _, section := range sections {
			safe = append(safe, section.safe)
		}
		out["sections"] = safe
	}
	if settings, ok := doc["settings"]; ok {
		out["settings"] = v.validateSettingDeclarations(settings)
	}

	if help := asMap(doc["contextual_help"]); help != nil {
		safe := map[string]any{}
		if entries := validateTitled(help["content"]); len(entries) > 0 {
			content := make([]any, 0, len(entries))
			for _, entry := range entries {
				if body, ok := entry.raw["content"]; ok {
					entry.safe["content"] = SanitizeHTML(stringOf(body), TrustStandard)
				}
				content = append(content, entry.safe)
			}
			safe["content"] = content
		}
		if sidebar, ok := help["sidebar"]; ok {
			safe["sidebar"] = SanitizeHTML(stringOf(sidebar), TrustStandard)
		}
		if len(safe) > 0 {
			out["contextual_help"] = safe
		}
	}
	return out
}

type titledRecord struct {
	safe map[string]any
	raw  map[string]any
}

// validateTitled handles the {id, title} records of sections and help
// tabs: a missing title takes the raw id, a missing id takes the title, and
// ids are sanitized last. Records with neither are skipped.
func validateTitled(value any) []titledRecord {
	var out []titledRecord
	for _, raw := range formdecode.Rows(value) {
		record := asMap(raw)
		if record == nil {
			continue
		}
		id, title := stringOf(record["id"]), stringOf(record["title"])
		if id == "" && title == "" {
			continue
		}
		if title == "" {
			title = id
		} else if id == "" {
			id = title
		}
		out = append(out, titledRecord{
			safe: map[string]any{
				"id":    schema.SanitizeID(SanitizeHTML(id, TrustStandard)),
				"title": SanitizeHTML(title, TrustStandard),
			},
			raw: record,
		})
	}
	return out
}

func (v *Validator) validateSettingDeclarations(value any) []any {
	out := []any{}
	for _, raw := range formdecode.Rows(value) {
		record := asMap(raw)
		if record == nil {
			continue
		}
		safe := map[string]any{}
		for _, key := range sortedKeys(record) {
			if key == "settings" {
				safe[key] = v.validateSettingDeclarations(record[key])
				continue
			}
			if rule, ok := schemaFieldRules[key]; ok {
				safe[key] = rule(record[key])
			}
		}
		out = append(out, safe)
	}
	return out
}

func validateChoiceDeclarations(value any) []any {
	out := []any{}
	for _, raw := range formdecode.Rows(value) {
		record := asMap(raw)
		if record == nil {
			continue
		}
		safe := map[string]any{}
		if label, ok := record["label"]; ok {
			safe["label"] = SanitizeHTML(stringOf(label), TrustStandard)
		}
		for _, key := range []string{"value", "src"} {
			if item, ok := record[key]; ok {
				safe[key] = SanitizeText(item)
			}
		}
		out = append(out, safe)
	}
	return out
}
