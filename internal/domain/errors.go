package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors so transports can map them to
// the right status and clients can branch on the failure class.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeNotVerified        ErrorCode = "NOT_VERIFIED"
	CodeVehicleUnavailable ErrorCode = "VEHICLE_UNAVAILABLE"
	CodeInvalidState       ErrorCode = "INVALID_STATE"
)

// AppError is a typed application error carrying a machine-readable code.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing entity by type and identifier.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError reports a lost optimistic-concurrency race or a
// one-shot operation attempted twice.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewForbiddenError reports an actor acting on a resource it does not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError reports a missing or invalid identity.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewNotVerifiedError reports a renter whose identity documents have not
// been verified. Kept distinct from validation failures so callers can
// route the user to the verification flow.
func NewNotVerifiedError(message string) *AppError {
	return &AppError{Code: CodeNotVerified, Message: message}
}

// NewVehicleUnavailableError reports a vehicle that cannot be allocated,
// including the case of losing an allocation race.
func NewVehicleUnavailableError(message string) *AppError {
	return &AppError{Code: CodeVehicleUnavailable, Message: message}
}

// NewInvalidStateError reports a lifecycle transition that is not legal
// from the entity's current state.
func NewInvalidStateError(current, target string) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", current, target),
	}
}

// CodeOf extracts the ErrorCode from err, or empty if err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
