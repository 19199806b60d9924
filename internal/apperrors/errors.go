// internal/apperrors/errors.go
package apperrors

import (
	"fmt"
	"net/http"
)

// AppError is the typed error services return. The handler layer normalizes
// it into the bilingual envelope; anything that is not an AppError collapses
// to INTERNAL_ERROR.
type AppError struct {
	Status  int
	Code    string
	Args    []interface{}
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code string, args ...interface{}) *AppError {
	return &AppError{Status: status, Code: code, Args: args}
}

func BadRequest(code string, args ...interface{}) *AppError {
	return New(http.StatusBadRequest, code, args...)
}

func Unauthorized(code string, args ...interface{}) *AppError {
	return New(http.StatusUnauthorized, code, args...)
}

func Forbidden(code string, args ...interface{}) *AppError {
	return New(http.StatusForbidden, code, args...)
}

func NotFound(code string, args ...interface{}) *AppError {
	return New(http.StatusNotFound, code, args...)
}

func Conflict(code string, args ...interface{}) *AppError {
	return New(http.StatusConflict, code, args...)
}

func Internal(code string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: code, Err: err}
}

// WithDetails attaches extra payload (validation errors and the like).
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}
