package archive

import "fmt"

// ArchiveError represents a failure in the audit archive backend.
type ArchiveError struct {
	Operation string // operation that failed ("open", "store", "query", ...)
	Cause     error  // underlying error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	return fmt.Sprintf("audit archive error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// NewArchiveError creates a new ArchiveError.
func NewArchiveError(operation string, cause error) *ArchiveError {
	return &ArchiveError{
		Operation: operation,
		Cause:     cause,
	}
}
