package domain

import (
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrInvalidFilename = "INVALID_FILENAME"
	ErrFileRead        = "FILE_READ_ERROR"
	ErrAnalysis        = "ANALYSIS_ERROR"
	ErrAuthentication  = "AUTHENTICATION_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrStorage         = "STORAGE_ERROR"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
)

// ParseError represents a filename that does not match the naming convention
type ParseError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a new ParseError
func NewParseError(filename, message string) *ParseError {
	return &ParseError{
		Filename: filename,
		Message:  message,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
