package schema

import "strings"

// TypeTag names a setting type. The set below is the built-in catalogue; hosts
// may register additional tags through the type registry.
type TypeTag string

const (
	TypeBackground             TypeTag = "background"
	TypeBorder                 TypeTag = "border"
	TypeBoxShadow              TypeTag = "box-shadow"
	TypeCategoryCheckbox       TypeTag = "category-checkbox"
	TypeCategorySelect         TypeTag = "category-select"
	TypeCheckbox               TypeTag = "checkbox"
	TypeColorpicker            TypeTag = "colorpicker"
	TypeColorpickerOpacity     TypeTag = "colorpicker-opacity"
	TypeCSS                    TypeTag = "css"
	TypeCustomPostTypeCheckbox TypeTag = "custom-post-type-checkbox"
	TypeCustomPostTypeSelect   TypeTag = "custom-post-type-select"
	TypeDatePicker             TypeTag = "date-picker"
	TypeDateTimePicker         TypeTag = "date-time-picker"
	TypeDimension              TypeTag = "dimension"
	TypeGallery                TypeTag = "gallery"
	TypeGoogleFonts            TypeTag = "google-fonts"
	TypeJavascript             TypeTag = "javascript"
	TypeLinkColor              TypeTag = "link-color"
	TypeListItem               TypeTag = "list-item"
	TypeMeasurement            TypeTag = "measurement"
	TypeNumericSlider          TypeTag = "numeric-slider"
	TypeOnOff                  TypeTag = "on-off"
	TypePageCheckbox           TypeTag = "page-checkbox"
	TypePageSelect             TypeTag = "page-select"
	TypePostCheckbox           TypeTag = "post-checkbox"
	TypePostSelect             TypeTag = "post-select"
	TypeRadio                  TypeTag = "radio"
	TypeRadioImage             TypeTag = "radio-image"
	TypeSelect                 TypeTag = "select"
	TypeSidebarSelect          TypeTag = "sidebar-select"
	TypeSlider                 TypeTag = "slider"
	TypeSocialLinks            TypeTag = "social-links"
	TypeSpacing                TypeTag = "spacing"
	TypeTab                    TypeTag = "tab"
	TypeTagCheckbox            TypeTag = "tag-checkbox"
	TypeTagSelect              TypeTag = "tag-select"
	TypeTaxonomyCheckbox       TypeTag = "taxonomy-checkbox"
	TypeTaxonomySelect         TypeTag = "taxonomy-select"
	TypeText                   TypeTag = "text"
	TypeTextarea               TypeTag = "textarea"
	TypeTextareaSimple         TypeTag = "textarea-simple"
	TypeTextblock              TypeTag = "textblock"
	TypeTextblockTitled        TypeTag = "textblock-titled"
	TypeTypography             TypeTag = "typography"
	TypeUpload                 TypeTag = "upload"

	// TypeURL is validation-only; social-links rows validate href with it.
	TypeURL TypeTag = "url"
)

// BuiltinTypes lists the renderable type tags in catalogue order.
func BuiltinTypes() []TypeTag {
	return []TypeTag{
		TypeBackground, TypeBorder, TypeBoxShadow, TypeCategoryCheckbox,
		TypeCategorySelect, TypeCheckbox, TypeColorpicker, TypeColorpickerOpacity,
		TypeCSS, TypeCustomPostTypeCheckbox, TypeCustomPostTypeSelect,
		TypeDatePicker, TypeDateTimePicker, TypeDimension, TypeGallery,
		TypeGoogleFonts, TypeJavascript, TypeLinkColor, TypeListItem,
		TypeMeasurement, TypeNumericSlider, TypeOnOff, TypePageCheckbox,
		TypePageSelect, TypePostCheckbox, TypePostSelect, TypeRadio,
		TypeRadioImage, TypeSelect, TypeSidebarSelect, TypeSlider,
		TypeSocialLinks, TypeSpacing, TypeTab, TypeTagCheckbox, TypeTagSelect,
		TypeTaxonomyCheckbox, TypeTaxonomySelect, TypeText, TypeTextarea,
		TypeTextareaSimple, TypeTextblock, TypeTextblockTitled, TypeTypography,
		TypeUpload,
	}
}

// Normalize lowercases and trims a tag.
func (t TypeTag) Normalize() TypeTag {
	return TypeTag(strings.ToLower(strings.TrimSpace(string(t))))
}

func (t TypeTag) String() string {
	return string(t)
}

// IsReferenceCheckbox reports whether t stores a map of object ids.
func (t TypeTag) IsReferenceCheckbox() bool {
	switch t {
	case TypeCategoryCheckbox, TypeCustomPostTypeCheckbox, TypePageCheckbox,
		TypePostCheckbox, TypeTagCheckbox, TypeTaxonomyCheckbox:
		return true
	}
	return false
}

// IsReferenceSelect reports whether t stores a single object id.
func (t TypeTag) IsReferenceSelect() bool {
	switch t {
	case TypeCategorySelect, TypeCustomPostTypeSelect, TypePageSelect,
		TypePostSelect, TypeTagSelect, TypeTaxonomySelect:
		return true
	}
	return false
}

// IsRepeatable reports whether t stores a sequence of sub-setting records.
func (t TypeTag) IsRepeatable() bool {
	return t == TypeListItem || t == TypeSlider || t == TypeSocialLinks
}

// HoldsValue reports whether settings of type t contribute to a ValueSet.
func (t TypeTag) HoldsValue() bool {
	switch t {
	case TypeTab, TypeTextblock, TypeTextblockTitled:
		return false
	}
	return true
}
