package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidSetting marks a declaration that was skipped during normalization.
var ErrInvalidSetting = errors.New("schema: invalid setting declaration")

// SchemaError describes one skipped declaration. Schema errors never abort
// loading; they are collected and reported next to the normalized group.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidSetting
}

func schemaError(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
