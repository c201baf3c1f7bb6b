package models

import (
	"fmt"
	"net/http"
)

// ErrorSource points at the request field an error is about.
type ErrorSource struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError is a domain failure carrying the HTTP status it maps to.
type AppError struct {
	StatusCode int
	Message    string
	Sources    []ErrorSource
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with an explicit status code.
func NewAppError(statusCode int, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message}
}

func NewValidationError(message string, sources ...ErrorSource) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Sources: sources}
}

func NewUnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message)
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

// NewInternalError hides err behind a generic message; err is kept for logging.
func NewInternalError(err error) *AppError {
	return &AppError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Something went wrong!",
		Err:        err,
	}
}
