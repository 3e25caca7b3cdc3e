package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

// ErrTypeParsing marks dataset load failures.
const ErrTypeParsing ErrorType = "PARSING"

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func newParsingError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeParsing,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Dataset load failures.

// NewMissingColumnError reports a required column absent from the source header.
func NewMissingColumnError(source, column string) *AppError {
	return newParsingError(fmt.Sprintf("required column %q is missing", column), nil).
		WithContext("source", source).
		WithContext("column", column)
}

// NewUnreadableSourceError reports a data source that could not be read at all.
func NewUnreadableSourceError(source string, cause error) *AppError {
	return newParsingError("data source is unreadable", cause).
		WithContext("source", source)
}

// NewInvalidValueError reports a cell that could not be converted to its column type.
func NewInvalidValueError(source, column string, row int, value string, cause error) *AppError {
	return newParsingError(fmt.Sprintf("invalid %s value %q on row %d", column, value, row), cause).
		WithContext("source", source).
		WithContext("column", column).
		WithContext("row", row)
}

// IsLoadError reports whether err is a dataset load failure.
func IsLoadError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ErrTypeParsing
}
