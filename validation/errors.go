package validation

import (
	stderrors "errors"
	"strings"
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders "field: message".
func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// Errors is the error returned when one or more fields fail validation.
type Errors struct {
	Fields []FieldError `json:"fields"`
}

// Error joins all field errors.
func (e *Errors) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.String()
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Has reports whether the named field failed.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// AsErrors extracts *Errors from an error chain.
func AsErrors(err error) (*Errors, bool) {
	var verr *Errors
	if stderrors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
