package errors

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// FieldError is a single schema violation inside a book list.
// Index is the position of the offending element in the input array,
// or -1 when the violation concerns the document as a whole.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String renders the violation as "[index].field: message".
func (f FieldError) String() string {
	if f.Index < 0 {
		if f.Field == "" {
			return f.Message
		}
		return fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("[%d].%s: %s", f.Index, f.Field, f.Message)
}

// ValidationError collects every violation found while validating a book list.
// Validation is all-or-nothing: when this error is returned no books are.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError returns a ValidationError with violations sorted by
// index and then field name, or nil if there are none.
func NewValidationError(fields []FieldError) *ValidationError {
	if len(fields) == 0 {
		return nil
	}
	sorted := slices.Clone(fields)
	slices.SortStableFunc(sorted, func(a, b FieldError) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return strings.Compare(a.Field, b.Field)
	})
	return &ValidationError{Fields: sorted}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrCodeInvalidBookData, strings.Join(parts, "; "))
}

// Summary returns a short human-readable description.
func (e *ValidationError) Summary() string {
	if len(e.Fields) == 1 {
		return "invalid book data: " + e.Fields[0].String()
	}
	return fmt.Sprintf("invalid book data: %d violations", len(e.Fields))
}

// Code returns the error code for this error type.
func (e *ValidationError) Code() Code {
	return ErrCodeInvalidBookData
}
