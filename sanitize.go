package opts

import (
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-optionbuilder/schema"
)

var (
	hexColor  = regexp.MustCompile(`(?i)^#([a-f0-9]{6}|[a-f0-9]{3})$`)
	rgbaColor = regexp.MustCompile(`(?i)^rgba\(\s*([0-9]{1,3})\s*,\s*([0-9]{1,3})\s*,\s*([0-9]{1,3})\s*,\s*([0-9]*(?:\.[0-9]+)?)\s*\)$`)
	octets    = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
)

// ValidColor reports whether s is #rgb, #rrggbb or rgba(r,g,b,a) with
// channels in 0-255 and alpha in 0-1 with at most four decimals.
func ValidColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	m := rgbaColor.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	for _, channel := range m[1:4] {
		n, err := strconv.Atoi(channel)
		if err != nil || n > 255 {
			return false
		}
	}
	alpha := m[4]
	if alpha == "" || alpha == "." {
		return false
	}
	if dot := strings.IndexByte(alpha, '.'); dot >= 0 && len(alpha)-dot-1 > 4 {
		return false
	}
	a, err := strconv.ParseFloat(alpha, 64)
	return err == nil && a >= 0 && a <= 1
}

// IsNumeric accepts numbers and strings holding a finite decimal number.
func IsNumeric(value any) bool {
	switch typed := value.(type) {
	case int, int64, int32, uint, uint64:
		return true
	case float64:
		return !math.IsNaN(typed) && !math.IsInf(typed, 0)
	case string:
		s := strings.TrimLeft(typed, " \t\n\r\v\f")
		if s == "" {
			return false
		}
		lower := strings.ToLower(strings.TrimLeft(s, "+-"))
		if strings.HasPrefix(lower, "inf") || strings.HasPrefix(lower, "nan") || strings.HasPrefix(lower, "0x") {
			return false
		}
		_, err := strconv.ParseFloat(strings.TrimRight(s, " \t\n\r\v\f"), 64)
		return err == nil
	}
	return false
}

// PositiveInt returns value as an integer when it is a whole number above 0.
func PositiveInt(value any) (int64, bool) {
	var n int64
	switch typed := value.(type) {
	case int:
		n = int64(typed)
	case int64:
		n = typed
	case float64:
		if typed != math.Trunc(typed) {
			return 0, false
		}
		n = int64(typed)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	return n, n > 0
}

// absInt mirrors absint: the integer part of a numeric value, made positive.
func absInt(value any) int64 {
	var f float64
	switch typed := value.(type) {
	case int:
		f = float64(typed)
	case int64:
		f = float64(typed)
	case float64:
		f = typed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	return int64(math.Abs(math.Trunc(f)))
}

var stripTags = bluemonday.StrictPolicy()

// SanitizeText strips markup, line breaks, tabs and percent-encoded octets,
// and collapses whitespace.
func SanitizeText(value any) string {
	s := sanitizeMarkupless(value)
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeTextarea is SanitizeText that keeps line breaks.
func SanitizeTextarea(value any) string {
	s := strings.ReplaceAll(sanitizeMarkupless(value), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func sanitizeMarkupless(value any) string {
	s := stringOf(value)
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = html.UnescapeString(stripTags.Sanitize(s))
	return octets.ReplaceAllString(s, "")
}

// htmlPolicy builds the free-text allow-list. Elevated trust adds script,
// style and iframe elements on top of the user-content policy.
func htmlPolicy(trust Trust) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyles("display", "visibility").Globally()
	p.AllowAttrs("class", "id").Globally()
	if trust != TrustElevated {
		return p
	}
	p.AllowElements("script", "style", "iframe", "noscript")
	p.AllowAttrs("async", "charset", "defer", "src", "type").OnElements("script")
	p.AllowAttrs("media", "type").OnElements("style")
	p.AllowAttrs("align", "allowfullscreen", "frameborder", "height", "longdesc",
		"marginheight", "marginwidth", "name", "sandbox", "scrolling", "src",
		"srcdoc", "style", "width").OnElements("iframe")
	p.AllowUnsafe(true)
	return p
}

var (
	standardPolicy = htmlPolicy(TrustStandard)
	elevatedPolicy = htmlPolicy(TrustElevated)
)

// SanitizeHTML passes s through the allow-list for trust.
func SanitizeHTML(s string, trust Trust) string {
	if trust == TrustElevated {
		return elevatedPolicy.Sanitize(s)
	}
	return standardPolicy.Sanitize(s)
}

// codeEntities are the escapes undone for css and javascript bodies. "<" stays
// escaped so markup can never be reintroduced.
var codeEntities = strings.NewReplacer("&gt;", ">", "&amp;", "&", "&#34;", `"`, "&#39;", "'", "&quot;", `"`)

// SanitizeCode cleans a css or javascript body through the allow-list for
// trust. Elevated trust keeps script, style and iframe elements; anything
// else outside the list is stripped at either level.
func SanitizeCode(s string, trust Trust) string {
	return codeEntities.Replace(SanitizeHTML(s, trust))
}

var allowedSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "ftps": true, "mailto": true,
	"news": true, "irc": true, "gopher": true, "nntp": true, "feed": true,
	"telnet": true, "mms": true, "rtsp": true, "sms": true, "svn": true,
	"tel": true, "fax": true, "xmpp": true, "webcal": true, "urn": true,
}

var unsafeURLChars = regexp.MustCompile("[\\x00-\\x20\\x7f<>\"{}|\\\\^`]")

// SanitizeURL cleans a URL for storage. Relative references are kept,
// scheme-less hosts get http://, and disallowed schemes yield "".
func SanitizeURL(value any) string {
	s := strings.TrimSpace(stringOf(value))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", "%20")
	s = unsafeURLChars.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(s, "/"), strings.HasPrefix(s, "#"), strings.HasPrefix(s, "?"):
		return s
	}
	u, err := url.Parse(s)
	if err == nil && u.Scheme == "" {
		s = "http://" + s
		u, err = url.Parse(s)
	}
	if err != nil || !allowedSchemes[strings.ToLower(u.Scheme)] {
		return ""
	}
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"01/02/2006 15:04",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"15:04",
}

// ParseDate reports whether s is a date or date-time in one of the accepted
// layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringOf(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return schema.Stringify(value)
}
