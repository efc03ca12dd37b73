package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternalServer   = errors.New("internal server error")
	ErrSchema           = errors.New("required column missing from input")
	ErrInsufficientData = errors.New("insufficient data for computation")
	ErrConfiguration    = errors.New("invalid configuration")
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeSchema           = "SCHEMA_ERROR"
	ErrCodeRowRejected      = "ROW_REJECTED"
	ErrCodeInsufficientData = "INSUFFICIENT_DATA"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
)

// NewSchemaError reports a required canonical column missing entirely from
// the input. Fatal for the whole ingestion run.
func NewSchemaError(column string) *AppError {
	return NewAppError(ErrCodeSchema, fmt.Sprintf("required column %q missing from input", column))
}

// NewInsufficientDataError reports a computation that lacks the minimum
// sample size. Non-fatal for other computations in the same run.
func NewInsufficientDataError(message string, details ...string) *AppError {
	return NewAppError(ErrCodeInsufficientData, message, details...)
}

// NewConfigurationError reports invalid configuration for a specific call.
func NewConfigurationError(message string, details ...string) *AppError {
	return NewAppError(ErrCodeConfiguration, message, details...)
}

// IsInsufficientData reports whether err carries the INSUFFICIENT_DATA code.
func IsInsufficientData(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeInsufficientData
	}
	return false
}
