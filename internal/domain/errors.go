package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable classification of an application error.
type ErrorCode string

const (
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"
	CodeForbidden  ErrorCode = "FORBIDDEN"
	CodeConflict   ErrorCode = "CONFLICT"
	CodeInternal   ErrorCode = "INTERNAL"

	CodeInvalidDateRange    ErrorCode = "INVALID_DATE_RANGE"
	CodePropertyUnavailable ErrorCode = "PROPERTY_UNAVAILABLE"
	CodeDateConflict        ErrorCode = "DATE_CONFLICT"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeBookingNotPending   ErrorCode = "BOOKING_NOT_PENDING"
	CodeAmountMismatch      ErrorCode = "AMOUNT_MISMATCH"
	CodeNotBookingOwner     ErrorCode = "NOT_BOOKING_OWNER"
	CodeBookingNotCompleted ErrorCode = "BOOKING_NOT_COMPLETED"
	CodeDuplicateReview     ErrorCode = "DUPLICATE_REVIEW"
	CodeInvalidRating       ErrorCode = "INVALID_RATING"
)

// Error is a typed, caller-recoverable application error. Every
// precondition failure in the booking core surfaces as one of these so
// the HTTP layer can map it to a distinguishable response.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates an application error with an explicit code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewValidationError creates a generic validation error.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error for an entity and its identifier.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewConflictError creates a conflict error (e.g. optimistic lock failure).
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// NewInvalidTransitionError creates an error for an illegal status transition.
func NewInvalidTransitionError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// CodeOf returns the error code of err if it is an application error,
// or CodeInternal otherwise.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err is an application error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
