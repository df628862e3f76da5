package schema

import "strings"

// TitleSetting is the required first column of every list-item and slider row.
func TitleSetting() Setting {
	return Setting{
		ID:       "title",
		Label:    "Title",
		Type:     TypeText,
		CSSClass: "option-builder-setting-title",
	}
}

// DefaultListItemSettings are the columns of a list-item row when the host
// declares none.
func DefaultListItemSettings() []Setting {
	return []Setting{
		{ID: "image", Label: "Image", Type: TypeUpload},
		{ID: "link", Label: "Link", Type: TypeText},
		{ID: "description", Label: "Description", Type: TypeTextareaSimple, Rows: 10},
	}
}

// DefaultSliderSettings are the columns of a slider row when the host
// declares none.
func DefaultSliderSettings() []Setting {
	return []Setting{
		{ID: "image", Label: "Image", Type: TypeUpload},
		{ID: "link", Label: "Link", Type: TypeText},
		{ID: "description", Label: "Description", Type: TypeTextareaSimple, Rows: 10},
	}
}

// DefaultSocialLinksSettings are the columns of a social-links row.
func DefaultSocialLinksSettings() []Setting {
	return []Setting{
		{ID: "name", Label: "Name", Type: TypeText, CSSClass: "option-builder-setting-title"},
		{ID: "title", Label: "Title Attribute", Type: TypeText},
		{ID: "href", Label: "Link", Type: TypeText},
	}
}

// DefaultSubSettings returns the compiled-in columns for a repeatable type.
func DefaultSubSettings(setting Setting) []Setting {
	switch setting.Type {
	case TypeListItem:
		return DefaultListItemSettings()
	case TypeSlider:
		return DefaultSliderSettings()
	case TypeSocialLinks:
		return DefaultSocialLinksSettings()
	}
	return nil
}

// legacySliderTypes maps old slider column types onto current tags.
var legacySliderTypes = map[string]TypeTag{
	"input":    TypeText,
	"textarea": TypeTextareaSimple,
	"image":    TypeUpload,
}

// ConvertLegacySlider rewrites slider columns that still use the old
// name/type vocabulary.
func ConvertLegacySlider(columns []Setting) []Setting {
	out := make([]Setting, 0, len(columns))
	for _, column := range columns {
		if mapped, ok := legacySliderTypes[strings.ToLower(string(column.Type))]; ok {
			column.Type = mapped
		}
		out = append(out, column)
	}
	return out
}

// RowSettings resolves the columns used to validate rows of setting. The
// submitted shape wins when it is non-empty; otherwise the declared
// sub-settings apply, then the compiled-in defaults. List-item and slider
// rows always start with the title column.
func RowSettings(setting Setting, submitted []Setting) (columns []Setting, fromShape bool) {
	switch {
	case len(submitted) > 0:
		columns, fromShape = submitted, true
	case len(setting.SubSettings) > 0:
		columns = setting.SubSettings
	default:
		columns = DefaultSubSettings(setting)
	}
	if setting.Type == TypeSlider {
		columns = ConvertLegacySlider(columns)
	}
	if setting.Type == TypeListItem || setting.Type == TypeSlider {
		columns = withTitle(columns)
	}
	return columns, fromShape
}

func withTitle(columns []Setting) []Setting {
	for _, column := range columns {
		if column.ID == "title" {
			return columns
		}
	}
	out := make([]Setting, 0, len(columns)+1)
	out = append(out, TitleSetting())
	return append(out, columns...)
}
