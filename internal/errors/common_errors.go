package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeRender     ErrorType = "RENDER"
)

// Sentinel errors for malformed inputs. Wrap them in an AppError to carry
// the sheet or column involved; errors.Is still matches.
var (
	ErrSheetNotFound  = stderrors.New("sheet not found")
	ErrHeaderNotFound = stderrors.New("header row not found")
	ErrColumnNotFound = stderrors.New("column not found")
	ErrNoRows         = stderrors.New("no data rows")
	ErrUnknownYear    = stderrors.New("year not in dataset")
)

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

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNotFound, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewRenderError creates an error raised while building charts or pages
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// SheetNotFound reports a missing worksheet in a workbook
func SheetNotFound(workbook, sheet string) *AppError {
	return NewParsingError(fmt.Sprintf("sheet %q not found in %s", sheet, workbook), ErrSheetNotFound).
		WithContext("workbook", workbook).
		WithContext("sheet", sheet)
}

// ColumnNotFound reports a required column missing from a table
func ColumnNotFound(table, column string) *AppError {
	return NewParsingError(fmt.Sprintf("column %q not found in %s", column, table), ErrColumnNotFound).
		WithContext("table", table).
		WithContext("column", column)
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Is mirrors the standard library for callers importing this package by name.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As mirrors the standard library for callers importing this package by name.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }
