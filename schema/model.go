package schema

import (
	"strconv"
	"strings"
)

// Choice is one selectable option of a choice-bearing setting.
type Choice struct {
	Value    string `json:"value" yaml:"value" toml:"value"`
	Label    string `json:"label" yaml:"label" toml:"label"`
	ImageSrc string `json:"src,omitempty" yaml:"src,omitempty" toml:"src,omitempty"`
}

// Setting is the atomic schema node.
type Setting struct {
	ID          string    `json:"id" yaml:"id" toml:"id"`
	Type        TypeTag   `json:"type" yaml:"type" toml:"type"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Description string    `json:"desc,omitempty" yaml:"desc,omitempty" toml:"desc,omitempty"`
	Default     any       `json:"std,omitempty" yaml:"std,omitempty" toml:"std,omitempty"`
	Section     string    `json:"section,omitempty" yaml:"section,omitempty" toml:"section,omitempty"`
	Choices     []Choice  `json:"choices,omitempty" yaml:"choices,omitempty" toml:"choices,omitempty"`
	SubSettings []Setting `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
	Condition   string    `json:"condition,omitempty" yaml:"condition,omitempty" toml:"condition,omitempty"`
	Operator    string    `json:"operator,omitempty" yaml:"operator,omitempty" toml:"operator,omitempty"`
	CSSClass    string    `json:"class,omitempty" yaml:"class,omitempty" toml:"class,omitempty"`
	Rows        int       `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
	PostType    string    `json:"post_type,omitempty" yaml:"post_type,omitempty" toml:"post_type,omitempty"`
	Taxonomy    string    `json:"taxonomy,omitempty" yaml:"taxonomy,omitempty" toml:"taxonomy,omitempty"`
	MinMaxStep  string    `json:"min_max_step,omitempty" yaml:"min_max_step,omitempty" toml:"min_max_step,omitempty"`
	DateFormat  string    `json:"date_format,omitempty" yaml:"date_format,omitempty" toml:"date_format,omitempty"`
}

// Section groups settings for navigation.
type Section struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Title string `json:"title" yaml:"title" toml:"title"`
}

// Page is one admin screen of an option group.
type Page struct {
	ID       string    `json:"id" yaml:"id" toml:"id"`
	Title    string    `json:"title" yaml:"title" toml:"title"`
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty" toml:"sections,omitempty"`
	Settings []Setting `json:"settings,omitempty" yaml:"settings,omitempty" toml:"settings,omitempty"`
}

// Group is the set of pages persisted under one option group key.
type Group struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Pages []Page `json:"pages" yaml:"pages" toml:"pages"`
}

// NumericRange is the parsed form of min_max_step.
type NumericRange struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultNumericRange applies when a numeric slider declares no range.
var DefaultNumericRange = NumericRange{Min: 0, Max: 100, Step: 1}

// HasRange reports whether the setting declares min_max_step.
func (s Setting) HasRange() bool {
	return strings.TrimSpace(s.MinMaxStep) != ""
}

// Range parses MinMaxStep ("min,max,step"). Missing or malformed parts fall
// back to DefaultNumericRange.
func (s Setting) Range() NumericRange {
	out := DefaultNumericRange
	if !s.HasRange() {
		return out
	}
	parts := strings.Split(s.MinMaxStep, ",")
	targets := []*float64{&out.Min, &out.Max, &out.Step}
	for i, part := range parts {
		if i >= len(targets) {
			break
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		*targets[i] = value
	}
	if out.Step <= 0 {
		out.Step = DefaultNumericRange.Step
	}
	if out.Max < out.Min {
		out.Min, out.Max = out.Max, out.Min
	}
	return out
}

// Contains reports whether v lies within the range bounds.
func (r NumericRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// OperatorOrDefault returns the lowercased operator, "and" when unset.
func (s Setting) OperatorOrDefault() string {
	op := strings.ToLower(strings.TrimSpace(s.Operator))
	if op == "" {
		return "and"
	}
	return op
}

// ChoiceValues returns the declared choice values in order.
func (s Setting) ChoiceValues() []string {
	values := make([]string, 0, len(s.Choices))
	for _, choice := range s.Choices {
		values = append(values, choice.Value)
	}
	return values
}

// Settings returns every setting of the group in declaration order.
func (g Group) Settings() []Setting {
	var out []Setting
	for _, page := range g.Pages {
		out = append(out, page.Settings...)
	}
	return out
}
