// Package errors provides custom error types for the Carteira API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
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

// Identity provider errors. The codes form the fixed set the error
// translator localizes for display.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrWrongPassword     = &AppError{Code: "WRONG_PASSWORD", Message: "Incorrect password", StatusCode: http.StatusUnauthorized}
	ErrEmailInUse        = &AppError{Code: "EMAIL_IN_USE", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidEmail      = &AppError{Code: "INVALID_EMAIL", Message: "Invalid email address", StatusCode: http.StatusBadRequest}
	ErrWeakPassword      = &AppError{Code: "WEAK_PASSWORD", Message: "Password does not meet strength requirements", StatusCode: http.StatusBadRequest}
	ErrExpiredActionCode = &AppError{Code: "EXPIRED_ACTION_CODE", Message: "The reset code has expired", StatusCode: http.StatusBadRequest}
	ErrInvalidActionCode = &AppError{Code: "INVALID_ACTION_CODE", Message: "Invalid or expired reset code", StatusCode: http.StatusBadRequest}
	ErrTooManyRequests   = &AppError{Code: "TOO_MANY_REQUESTS", Message: "Too many attempts, try again later", StatusCode: http.StatusTooManyRequests}
	ErrMissingPassword   = &AppError{Code: "MISSING_PASSWORD", Message: "Password is required", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Asset store and mail delivery errors.
var (
	ErrAssetNotFound     = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrAssetStore        = &AppError{Code: "ASSET_STORE_FAILED", Message: "Asset store operation failed", StatusCode: http.StatusInternalServerError}
	ErrMailerUnavailable = &AppError{Code: "MAILER_UNAVAILABLE", Message: "Could not send email", StatusCode: http.StatusBadGateway}
)
