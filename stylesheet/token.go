package stylesheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-optionbuilder/schema"
)

var tokenPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_\-#|=]+)\}\}`)

// Token is a parsed {{optionId}} or {{optionId|subKey}} placeholder.
type Token struct {
	Raw      string
	OptionID string
	SubKey   string
}

// Tokens returns the placeholders found in body in order of appearance.
func Tokens(body string) []Token {
	var out []Token
	for _, match := range tokenPattern.FindAllStringSubmatch(body, -1) {
		parts := strings.SplitN(match[1], "|", 3)
		token := Token{Raw: match[0], OptionID: parts[0]}
		if len(parts) > 1 {
			token.SubKey = parts[1]
		}
		out = append(out, token)
	}
	return out
}

// TypeLookup returns the declared type of a setting id.
type TypeLookup func(optionID string) schema.TypeTag

// Resolver turns setting values into CSS-ready strings.
type Resolver struct {
	// Attachment maps a numeric media id to its URL. Upload and
	// background-image values holding ids are replaced when it reports ok.
	Attachment func(id int64) (url string, ok bool)
	// FontFamilies lists the recognized typography families. Defaults to
	// schema.FontFamilies.
	FontFamilies func() []schema.Choice
	// Fallback overrides the value used when a token resolves empty.
	Fallback func(fallback, optionID string, tag schema.TypeTag, subKey string) string
	// Filter post-processes every resolved value.
	Filter func(value, optionID string) string
}

// ResolveToken resolves one placeholder against values using the default
// Resolver.
func ResolveToken(optionID, subKey string, values schema.ValueSet, typeOf TypeLookup) string {
	return Resolver{}.Resolve(optionID, subKey, values, typeOf)
}

// ExpandTokens substitutes every placeholder in body using the default
// Resolver.
func ExpandTokens(body string, values schema.ValueSet, typeOf TypeLookup) string {
	return Resolver{}.Expand(body, values, typeOf)
}

// Expand substitutes every placeholder in body.
func (r Resolver) Expand(body string, values schema.ValueSet, typeOf TypeLookup) string {
	seen := map[string]struct{}{}
	for _, token := range Tokens(body) {
		if _, done := seen[token.Raw]; done {
			continue
		}
		seen[token.Raw] = struct{}{}
		body = strings.ReplaceAll(body, token.Raw, r.Resolve(token.OptionID, token.SubKey, values, typeOf))
	}
	return body
}

// Resolve returns the CSS value for optionID (and subKey when set). Empty
// results fall back to inherit for colors, borders and link colors, none for
// box shadows, and "" otherwise.
func (r Resolver) Resolve(optionID, subKey string, values schema.ValueSet, typeOf TypeLookup) string {
	var tag schema.TypeTag
	if typeOf != nil {
		tag = typeOf(optionID)
	}
	raw := values[optionID]

	var value string
	switch typed := raw.(type) {
	case map[string]any, []any:
		if subKey != "" {
			value = schema.Stringify(lookup(typed, subKey))
		} else {
			value = r.composite(tag, typed)
		}
	default:
		value = schema.Stringify(typed)
	}

	if tag == schema.TypeUpload {
		value = r.attachment(value)
	}

	if value == "" {
		fallback := fallbackFor(tag, subKey)
		if r.Fallback != nil {
			fallback = r.Fallback(fallback, optionID, tag, subKey)
		}
		value = fallback
	}
	if r.Filter != nil {
		value = r.Filter(value, optionID)
	}
	return value
}

func fallbackFor(tag schema.TypeTag, subKey string) string {
	if subKey != "" {
		if tag == schema.TypeLinkColor {
			return "inherit"
		}
		return ""
	}
	switch tag {
	case schema.TypeBorder, schema.TypeColorpicker, schema.TypeColorpickerOpacity:
		return "inherit"
	case schema.TypeBoxShadow:
		return "none"
	}
	return ""
}

var boxShadowOrder = []string{"inset", "offset-x", "offset-y", "blur-radius", "spread-radius", "color"}

var typographyProps = []string{
	"font-size", "font-style", "font-variant", "font-weight", "letter-spacing",
	"line-height", "text-decoration", "text-transform",
}

func (r Resolver) composite(tag schema.TypeTag, value any) string {
	field := func(key string) string { return schema.Stringify(lookup(value, key)) }
	unit := field("unit")
	if unit == "" {
		unit = "px"
	}
	withUnit := func(keys ...string) []string {
		var out []string
		for _, key := range keys {
			if v := field(key); v != "" {
				out = append(out, v+unit)
			}
		}
		return out
	}

	switch tag {
	case schema.TypeMeasurement:
		amount := field("0")
		if amount == "" {
			return ""
		}
		measureUnit := field("1")
		if measureUnit == "" {
			measureUnit = "px"
		}
		return amount + measureUnit
	case schema.TypeBorder:
		parts := withUnit("width")
		for _, key := range []string{"style", "color"} {
			if v := field(key); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, " ")
	case schema.TypeBoxShadow:
		var parts []string
		for _, key := range orderedKeys(value, boxShadowOrder) {
			if v := field(key); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, " ")
	case schema.TypeDimension:
		return strings.Join(withUnit("width", "height"), " ")
	case schema.TypeSpacing:
		return strings.Join(withUnit("top", "right", "bottom", "left"), " ")
	case schema.TypeTypography:
		return r.typography(field)
	case schema.TypeBackground:
		return r.background(field)
	}
	return ""
}

func (r Resolver) typography(field func(string) string) string {
	var lines []string
	if v := field("font-color"); v != "" {
		lines = append(lines, "color: "+v+";")
	}
	if key := field("font-family"); key != "" {
		families := schema.FontFamilies
		if r.FontFamilies != nil {
			families = r.FontFamilies
		}
		for _, family := range families() {
			if family.Value == key {
				lines = append(lines, "font-family: "+family.Label+";")
				break
			}
		}
	}
	for _, prop := range typographyProps {
		if v := field(prop); v != "" {
			lines = append(lines, prop+": "+v+";")
		}
	}
	return strings.Join(lines, "\n")
}

func (r Resolver) background(field func(string) string) string {
	var parts []string
	if v := field("background-color"); v != "" {
		parts = append(parts, v)
	}
	if v := field("background-image"); v != "" {
		parts = append(parts, `url("`+r.attachment(v)+`")`)
	}
	for _, key := range []string{"background-repeat", "background-attachment", "background-position"} {
		if v := field(key); v != "" {
			parts = append(parts, v)
		}
	}
	out := ""
	if len(parts) > 0 {
		out = "background: " + strings.Join(parts, " ") + ";"
	}
	if size := field("background-size"); size != "" {
		if out != "" {
			out += "\n  "
		}
		out += "background-size: " + size + ";"
	}
	return out
}

func (r Resolver) attachment(value string) string {
	if r.Attachment == nil || value == "" {
		return value
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return value
	}
	if url, ok := r.Attachment(id); ok {
		return url
	}
	return value
}

// lookup reads key from a map, or a numeric key from a slice.
func lookup(value any, key string) any {
	switch typed := value.(type) {
	case map[string]any:
		return typed[key]
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(typed) {
			return nil
		}
		return typed[i]
	}
	return nil
}

// orderedKeys lists the keys of value: known keys first in the given order,
// then the rest sorted. Slices yield their indices.
func orderedKeys(value any, known []string) []string {
	switch typed := value.(type) {
	case map[string]any:
		var out []string
		seen := map[string]struct{}{}
		for _, key := range known {
			if _, ok := typed[key]; ok {
				out = append(out, key)
				seen[key] = struct{}{}
			}
		}
		var rest []string
		for key := range typed {
			if _, ok := seen[key]; !ok {
				rest = append(rest, key)
			}
		}
		sort.Strings(rest)
		return append(out, rest...)
	case []any:
		out := make([]string, len(typed))
		for i := range typed {
			out[i] = strconv.Itoa(i)
		}
		return out
	}
	return nil
}
