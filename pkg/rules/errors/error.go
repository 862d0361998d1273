// Package errors reports configuration defects found while building a
// rule policy.
//
// These errors are fatal: a policy that produced any of them must not be
// used to evaluate rows. They are kept apart from row violations, which
// are ordinary data findings and never surface as Go errors.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes a policy construction failure.
type ErrorType string

const (
	ErrorTypePattern  ErrorType = "pattern"  // Format pattern failed to compile
	ErrorTypePassword ErrorType = "password" // Password policy missing or out of range
	ErrorTypeLimit    ErrorType = "limit"    // Length limit out of range
)

// Error describes one policy defect.
type Error struct {
	Type       ErrorType // Category of error
	Field      string    // Policy field that caused it, e.g. "policy.login_pattern"
	Message    string    // Error message
	Cause      error     // Underlying error, if any
	Suggestion string    // Suggested fix (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Field))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorList accumulates every defect found so they can be reported
// together instead of one per attempt.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error.
func (el *ErrorList) AddError(errType ErrorType, field, message string, cause error) {
	el.Add(&Error{
		Type:    errType,
		Field:   field,
		Message: message,
		Cause:   cause,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, field, message, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	if el.Count() == 1 {
		return "invalid rule policy: " + el.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid rule policy: found %d error(s):\n", el.Count()))
	for _, err := range el.Errors {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains at least one error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
