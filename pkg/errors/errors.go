package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrShopInactive
	ErrStaffCannotPerformService
	ErrConflict
	ErrImmutable
	ErrTooManyRequests
	ErrInternal
)

var codeNames = map[ErrorCode]string{
	ErrNotFound:                  "NOT_FOUND",
	ErrValidation:                "VALIDATION_FAILED",
	ErrShopInactive:              "SHOP_INACTIVE",
	ErrStaffCannotPerformService: "STAFF_CANNOT_PERFORM_SERVICE",
	ErrConflict:                  "CONFLICT",
	ErrImmutable:                 "IMMUTABLE_BOOKING",
	ErrTooManyRequests:           "TOO_MANY_REQUESTS",
	ErrInternal:                  "INTERNAL_ERROR",
}

func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// HTTPStatus maps the error code to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrNotFound, ErrShopInactive:
		return http.StatusNotFound
	case ErrValidation, ErrStaffCannotPerformService, ErrImmutable:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Details: details,
	}
}

func ShopInactive() *AppError {
	return &AppError{
		Code:    ErrShopInactive,
		Message: "Shop is not active",
	}
}

func StaffCannotPerformService() *AppError {
	return &AppError{
		Code:    ErrStaffCannotPerformService,
		Message: "Selected staff member cannot perform this service",
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Immutable(status string) *AppError {
	return &AppError{
		Code:    ErrImmutable,
		Message: fmt.Sprintf("Booking is %s and can no longer be modified", status),
	}
}

func TooManyRequests() *AppError {
	return &AppError{
		Code:    ErrTooManyRequests,
		Message: "Too many requests",
	}
}
