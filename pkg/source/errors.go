package source

import "fmt"

// ParseError reports malformed input at a position in a file.
type ParseError struct {
	Path  string
	Line  int
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Cause)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Cause)
	default:
		return e.Cause.Error()
	}
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
