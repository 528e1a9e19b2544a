// Package errors provides structured error handling for tabkit
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal engine errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeColumnNotFound represents references to absent column names
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeTypeMismatch represents operations applied to incompatible value kinds
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeAmbiguousPivot represents pivot collisions where one output cell
	// would receive more than one value
	ErrorTypeAmbiguousPivot ErrorType = "ambiguous_pivot"
	// ErrorTypeMalformedRow represents rows whose field count does not match the header
	ErrorTypeMalformedRow ErrorType = "malformed_row"
	// ErrorTypeParse represents fields that cannot be parsed as their declared kind
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeLocaleConflict represents reader locale options that collide with
	// the field delimiter
	ErrorTypeLocaleConflict ErrorType = "locale_conflict"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithColumn records the offending column name
func (e *Error) WithColumn(name string) *Error {
	return e.WithDetail("column", name)
}

// WithRow records the offending zero-based row index
func (e *Error) WithRow(index int) *Error {
	return e.WithDetail("row", index)
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// ColumnNotFound creates a column_not_found error carrying the column name
func ColumnNotFound(name string) *Error {
	e := Newf(ErrorTypeColumnNotFound, "column %q does not exist", name)
	return e.WithColumn(name)
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
