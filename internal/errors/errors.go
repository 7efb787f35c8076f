// Package errors provides the error type shared by every layer of the Lumen client.
// The API client maps every failed backend call onto an AppError so callers
// handle exactly one shape: a message fit for the user plus a code to branch on.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured client error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// FromStatus maps a non-2xx backend status onto the matching sentinel and
// replaces its message with the one the server supplied.
func FromStatus(status int, message string) *AppError {
	var sentinel *AppError
	switch {
	case status == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusConflict:
		sentinel = ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		sentinel = ErrInvalidInput
	case status >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrUnexpectedStatus
	}
	err := WithMessage(sentinel, message)
	err.StatusCode = status
	return err
}

// Message returns the user-facing message of err. Errors that are not an
// AppError collapse to the generic internal message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}

// Status returns the HTTP status to render err with.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Transport and backend errors.
var (
	ErrNetwork          = &AppError{Code: "NETWORK_ERROR", Message: "Network error. Please check your connection.", StatusCode: http.StatusBadGateway}
	ErrDecode           = &AppError{Code: "DECODE_ERROR", Message: "Unexpected response from server", StatusCode: http.StatusBadGateway}
	ErrServer           = &AppError{Code: "SERVER_ERROR", Message: "Server error", StatusCode: http.StatusBadGateway}
	ErrUnexpectedStatus = &AppError{Code: "UNEXPECTED_STATUS", Message: "An error occurred", StatusCode: http.StatusBadGateway}
)

// Authentication & authorization errors.
var (
	ErrUnauthorized     = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrNotAuthenticated = &AppError{Code: "NOT_AUTHENTICATED", Message: "Please log in to continue", StatusCode: http.StatusUnauthorized}
	ErrForbidden        = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict     = &AppError{Code: "CONFLICT", Message: "Conflict", StatusCode: http.StatusConflict}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred", StatusCode: http.StatusInternalServerError}
)

// Local state errors.
var (
	ErrStorage        = &AppError{Code: "STORAGE_ERROR", Message: "Failed to access local storage", StatusCode: http.StatusInternalServerError}
	ErrNoFileSelected = &AppError{Code: "NO_FILE_SELECTED", Message: "Please select a file to upload", StatusCode: http.StatusBadRequest}
	ErrUploadBusy     = &AppError{Code: "UPLOAD_IN_PROGRESS", Message: "An upload is already in progress", StatusCode: http.StatusConflict}
)
