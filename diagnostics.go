package opts

import "fmt"

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes reported by the built-in type rules.
const (
	CodeInvalidColor         = "invalid_hex_or_rgba"
	CodeInvalidBorderWidth   = "invalid_border_width"
	CodeInvalidNumericSlider = "invalid_numeric_slider"
	CodeUnknownType          = "opb_validate_setting_error"
	CodeHookFailed           = "opb_validate_hook_error"
	CodeVetoed               = "opb_validate_vetoed"
	codeDimensionPrefix      = "invalid_dimension_"
	codeSpacingPrefix        = "invalid_spacing_"
)

// Diagnostic is one user-visible validation message.
type Diagnostic struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	FieldID  string   `json:"field_id"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s [%s]: %s", d.Severity, d.FieldID, d.Code, d.Message)
}

// Diagnostics accumulates messages while a batch is validated.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Codes lists diagnostic codes in the order they were recorded.
func (d Diagnostics) Codes() []string {
	out := make([]string, 0, len(d))
	for _, diag := range d {
		out = append(out, diag.Code)
	}
	return out
}

// Errors returns only error diagnostics.
func (d Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Severity == SeverityError {
			out = append(out, diag)
		}
	}
	return out
}

func numericMessage(input, fieldID string) string {
	return fmt.Sprintf("The %s input field for %s only allows numeric values.", input, fieldID)
}
