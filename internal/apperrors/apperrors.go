// Package apperrors defines the error taxonomy shared by the stores and the
// HTTP layer. Every error carries the status it maps to at the boundary.
package apperrors

import "net/http"

type Error struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code, message string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// Validation rejects bad input shape or length.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, "validation_error", message)
}

// Capacity rejects a create past the per-owner item cap.
func Capacity(message string) *Error {
	return New(http.StatusBadRequest, "capacity_exceeded", message)
}

// Boundary rejects a move past the top or bottom of the list.
func Boundary(message string) *Error {
	return New(http.StatusBadRequest, "boundary", message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, "not_found", message)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "unauthorized"
	}
	return New(http.StatusUnauthorized, "unauthorized", message)
}

// Conflict signals a concurrent collision (order swap race, duplicate email).
func Conflict(code, message string, details interface{}) *Error {
	err := New(http.StatusConflict, code, message)
	err.Details = details
	return err
}

func Internal(message string) *Error {
	if message == "" {
		message = "internal server error"
	}
	return New(http.StatusInternalServerError, "internal_error", message)
}
