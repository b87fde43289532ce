// Package apperror carries the uniform error object every handler path
// terminates in: a message, an HTTP status, and an optional field-error list.
package apperror

import "net/http"

// FieldError names a single violated rule on one payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ItemErrors groups the violations of one item in a bulk payload.
type ItemErrors struct {
	ID     string       `json:"id,omitempty"`
	Errors []FieldError `json:"errors"`
}

type AppError struct {
	Message    string
	StatusCode int
	Errors     interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func New(message string, statusCode int) *AppError {
	return &AppError{Message: message, StatusCode: statusCode}
}

// Validation wraps an aggregated violation list into a 400.
func Validation(errs interface{}) *AppError {
	return &AppError{
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Errors:     errs,
	}
}

// Duplicate reports a unique-field collision as a 400 with a field error.
func Duplicate(field, message string) *AppError {
	return &AppError{
		Message:    "Duplicate field error",
		StatusCode: http.StatusBadRequest,
		Errors:     []FieldError{{Field: field, Message: message}},
	}
}

func NotFound(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusNotFound}
}

func BadRequest(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusBadRequest}
}

func Internal(message string) *AppError {
	return &AppError{Message: message, StatusCode: http.StatusInternalServerError}
}
