// Package errors provides custom error types for the SwatchX API.
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Incorrect email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound         = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail       = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrWrongPassword        = &AppError{Code: "WRONG_PASSWORD", Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
	ErrNoSecurityQuestions  = &AppError{Code: "NO_SECURITY_QUESTIONS", Message: "No security questions found for this account. Please contact support.", StatusCode: http.StatusBadRequest}
	ErrWrongSecurityAnswers = &AppError{Code: "WRONG_SECURITY_ANSWERS", Message: "One or more security answers are incorrect", StatusCode: http.StatusBadRequest}
)

// Expense errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrAttachmentNotFound = &AppError{Code: "ATTACHMENT_NOT_FOUND", Message: "Expense has no attachment", StatusCode: http.StatusNotFound}
	ErrInvalidAttachment  = &AppError{Code: "INVALID_ATTACHMENT", Message: "Attachment type is not allowed", StatusCode: http.StatusBadRequest}
	ErrAttachmentTooLarge = &AppError{Code: "ATTACHMENT_TOO_LARGE", Message: "Attachment exceeds the maximum allowed size", StatusCode: http.StatusBadRequest}
)

// Reference entity errors.
var (
	ErrBusinessUnitNotFound = &AppError{Code: "BUSINESS_UNIT_NOT_FOUND", Message: "Business unit not found", StatusCode: http.StatusNotFound}
	ErrTruckNotFound        = &AppError{Code: "TRUCK_NOT_FOUND", Message: "Truck not found", StatusCode: http.StatusNotFound}
	ErrTrailerNotFound      = &AppError{Code: "TRAILER_NOT_FOUND", Message: "Trailer not found", StatusCode: http.StatusNotFound}
	ErrFuelStationNotFound  = &AppError{Code: "FUEL_STATION_NOT_FOUND", Message: "Fuel station not found", StatusCode: http.StatusNotFound}
	ErrDuplicateReference   = &AppError{Code: "DUPLICATE_REFERENCE", Message: "An entry with this value already exists", StatusCode: http.StatusConflict}
	ErrReferenceInUse       = &AppError{Code: "REFERENCE_IN_USE", Message: "Cannot delete: expenses reference this entry", StatusCode: http.StatusBadRequest}
)
