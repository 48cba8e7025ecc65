package errors

import (
	"errors"
	"fmt"
)

// Sentinel causes for input errors. Use errors.Is to test for them.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrUnreadable   = errors.New("file unreadable")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrNotArray     = errors.New("not a JSON array")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
	ErrNoBenchmarks = errors.New("no benchmarks found")
)

// NoIndex marks an InputError that is not tied to a single entry.
const NoIndex = -1

// InputError is a fatal problem with a benchmark input file.
// It names the file and, when known, the entry, benchmark and field.
type InputError struct {
	Path    string
	Index   int
	Name    string
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *InputError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel cause.
func (e *InputError) Unwrap() error {
	return e.Err
}

// NewFileError reports a problem with the file as a whole.
func NewFileError(path string, cause error, format string, args ...any) *InputError {
	return &InputError{
		Path:    path,
		Index:   NoIndex,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// NewEntryError reports a problem with one entry of the file.
func NewEntryError(path string, index int, name, field string, cause error, format string, args ...any) *InputError {
	return &InputError{
		Path:    path,
		Index:   index,
		Name:    name,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}
