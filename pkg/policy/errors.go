package policy

import "fmt"

// ParseError represents a malformed directive in the policy source.
// Unknown directives are ignored, but a numeric directive whose value does
// not parse aborts the whole reload.
type ParseError struct {
	Path  string // policy source path
	Line  int    // 1-based line number
	Text  string // trimmed offending line
	Cause error  // underlying error (typically a strconv error)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("policy parse error at %s:%d (%q): %v", e.Path, e.Line, e.Text, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// newParseError creates a ParseError for a malformed directive.
func newParseError(path string, line int, text string, cause error) *ParseError {
	return &ParseError{
		Path:  path,
		Line:  line,
		Text:  text,
		Cause: cause,
	}
}
