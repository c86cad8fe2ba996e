package common

import (
	"errors"
	"fmt"
)

// Error codes surfaced to API clients. Each maps to exactly one HTTP status
// at the server boundary; nothing below the handlers knows about HTTP.
const (
	CodeUnsupportedFileType = "unsupported_file_type"
	CodeMissingFile         = "missing_file"
	CodeExtractionFailure   = "extraction_failure"
	CodeInvalidAIResponse   = "invalid_ai_response"
	CodeMalformedJSON       = "malformed_json"
	CodeInvalidEntityData   = "invalid_entity_data"
	CodeEntityNotFound      = "entity_not_found"
	CodeDatabase            = "database_error"
	CodeInternal            = "internal_error"
	CodeConfig              = "config_error"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError with an optional cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf extracts the application error code from err, walking the wrap
// chain. Unknown errors report CodeInternal.
func CodeOf(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return CodeInternal
}
