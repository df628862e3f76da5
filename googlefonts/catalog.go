package googlefonts

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/maruel/natural"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Font is one catalogue entry as returned by the Web Fonts API.
type Font struct {
	Family   string   `json:"family"`
	Variants []string `json:"variants,omitempty"`
	Subsets  []string `json:"subsets,omitempty"`
}

// Catalog maps normalized font ids to fonts.
type Catalog map[string]Font

// Selection is one row of a google-fonts setting value.
type Selection struct {
	Family   string   `json:"family"`
	Variants []string `json:"variants,omitempty"`
	Subsets  []string `json:"subsets,omitempty"`
}

// Selections maps a google-fonts setting id to its selected rows.
type Selections map[string][]Selection

var invalidIDChars = regexp.MustCompile(`[^a-z0-9_\-]`)

// FontID lowercases family, strips accents and drops everything outside
// [a-z0-9_-]. "Crimson Pró" becomes "crimsonpro".
func FontID(family string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		family,
	)
	if err != nil {
		stripped = family
	}
	return invalidIDChars.ReplaceAllString(strings.ToLower(stripped), "")
}

// NewCatalog keys fonts by FontID. Fonts without a family or whose id
// normalizes empty are skipped; later duplicates win.
func NewCatalog(fonts []Font) Catalog {
	out := make(Catalog, len(fonts))
	for _, font := range fonts {
		if font.Family == "" {
			continue
		}
		if id := FontID(font.Family); id != "" {
			out[id] = font
		}
	}
	return out
}

// Normalized re-keys the catalogue by family name with spaces as '+', the
// form used in stylesheet URLs.
func (c Catalog) Normalized() map[string]Font {
	out := make(map[string]Font, len(c))
	for _, font := range c {
		out[strings.ReplaceAll(font.Family, " ", "+")] = font
	}
	return out
}

// Lookup finds a font by id or family name.
func (c Catalog) Lookup(family string) (Font, bool) {
	if font, ok := c[family]; ok {
		return font, true
	}
	font, ok := c[FontID(family)]
	return font, ok
}

// Families lists the catalogue family names alphabetically.
func (c Catalog) Families() []string {
	out := make([]string, 0, len(c))
	for _, font := range c {
		out = append(out, font.Family)
	}
	sort.Strings(out)
	return out
}

// SelectionsFrom reads google-fonts rows from a stored value. Rows without a
// family are skipped; the "%key%" template row never reaches storage.
func SelectionsFrom(rows []any) []Selection {
	var out []Selection
	for _, raw := range rows {
		row, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		family, _ := row["family"].(string)
		if family == "" {
			continue
		}
		out = append(out, Selection{
			Family:   family,
			Variants: stringList(row["variants"]),
			Subsets:  stringList(row["subsets"]),
		})
	}
	return out
}

func stringList(value any) []string {
	var out []string
	switch typed := value.(type) {
	case []string:
		out = append(out, typed...)
	case []any:
		for _, item := range typed {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Sort(natural.StringSlice(keys))
		for _, key := range keys {
			if s, ok := typed[key].(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case string:
		if typed != "" {
			out = append(out, typed)
		}
	}
	return out
}
