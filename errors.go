package linkpage

import (
	"fmt"
	"strings"
)

// ValidationError describes a page-file validation failure with enough
// context to point the author at the offending field.
type ValidationError struct {
	File    string // Source file path
	Field   string // Dotted field path (e.g., "sections[2].layout")
	Message string // Error message
	Hint    string // Helpful suggestion
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Format returns a nicely formatted error message.
func (e *ValidationError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("❌ Error in %s\n\n", e.File))
	if e.Field != "" {
		b.WriteString(fmt.Sprintf("Field %s: %s\n", e.Field, e.Message))
	} else {
		b.WriteString(e.Message + "\n")
	}

	if e.Hint != "" {
		b.WriteString(fmt.Sprintf("\n💡 Tip: %s\n", e.Hint))
	}

	return b.String()
}

// NewValidationError creates a new ValidationError.
func NewValidationError(file, field, message string) *ValidationError {
	return &ValidationError{
		File:    file,
		Field:   field,
		Message: message,
	}
}

// WithHint adds a helpful hint to the error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

// ParseWarning reports a recoverable issue found while parsing a page file,
// such as an unknown section or layout variant that will render nothing.
type ParseWarning struct {
	Field   string
	Message string
}

func (w ParseWarning) String() string {
	if w.Field == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}
