package errors

import (
	"fmt"
	"runtime"
	"time"
)

// ErrorType represents the category of a processing error.
type ErrorType string

const (
	DirectiveError  ErrorType = "directive_error"
	StrategyError   ErrorType = "strategy_error"
	ValidationError ErrorType = "validation_error"
	ProcessingError ErrorType = "processing_error"
	FileError       ErrorType = "file_error"
	InternalError   ErrorType = "internal_error"
)

// AppError represents a structured application error.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	File       string                 `json:"file,omitempty"`
	Line       int                    `json:"line,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
	InnerError error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the inner error.
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError.
func New(errType ErrorType, code, message string) *AppError {
	err := &AppError{
		Type:      errType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}

	if _, file, line, ok := runtime.Caller(1); ok {
		err.File = file
		err.Line = line
	}

	return err
}

// Newf creates a new AppError with a formatted message.
func Newf(errType ErrorType, code, format string, args ...interface{}) *AppError {
	return New(errType, code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, errType ErrorType, code, message string) *AppError {
	appErr := New(errType, code, message)
	appErr.InnerError = err
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// NewInvalidDirectiveError creates a directive parsing error.
func NewInvalidDirectiveError(message string) *AppError {
	return New(DirectiveError, "INVALID_DIRECTIVE", message)
}

// NewUnknownStrategyError creates an error for an unregistered strategy name.
func NewUnknownStrategyError(strategy string) *AppError {
	return Newf(StrategyError, "UNKNOWN_STRATEGY", "unknown strategy %q", strategy)
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return New(ValidationError, "VALIDATION_FAILED", message)
}

// NewProcessingError creates a processing error.
func NewProcessingError(message string) *AppError {
	return New(ProcessingError, "PROCESSING_FAILED", message)
}

// NewFileNotFoundError creates a file lookup error.
func NewFileNotFoundError(path string) *AppError {
	return Newf(FileError, "FILE_NOT_FOUND", "document file not found: %s", path)
}

// NewFileExtensionError creates an error for a wrong file association.
func NewFileExtensionError(path, expected string) *AppError {
	return Newf(FileError, "WRONG_FILE_EXTENSION", "file %s must have %s extension", path, expected)
}

// IsType checks if the error is of a specific type.
func IsType(err error, errType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errType
	}
	return false
}

// IsCode checks if the error has a specific code.
func IsCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
