package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeRefundCapExceeded    = "REFUND_CAP_EXCEEDED"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeMissingReference     = "MISSING_REFERENCE"
	ErrCodeMissingAuthorization = "MISSING_AUTHORIZATION"
	ErrCodeMissingCapture       = "MISSING_CAPTURE"
	ErrCodeInvalidState         = "INVALID_STATE"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewMissingReferenceError(orderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingReference,
		Message: fmt.Sprintf("order %s has no payment reference", orderID),
	}
}

func NewMissingAuthorizationError(orderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingAuthorization,
		Message: fmt.Sprintf("order %s has no authorization", orderID),
	}
}

func NewMissingCaptureError(orderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingCapture,
		Message: fmt.Sprintf("order %s has no capture", orderID),
	}
}

func NewInvalidStateError(current, expected string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("invalid state: order is %s, expected %s", current, expected),
	}
}

func NewInvalidAmountError(amount string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %s", amount),
	}
}

func NewRefundCapExceededError(amount, cap Money) *DomainError {
	return &DomainError{
		Code:    ErrCodeRefundCapExceeded,
		Message: fmt.Sprintf("refund of %s exceeds the allowed maximum of %s", amount, cap),
	}
}

func NewInvalidTransitionError(from, to OrderStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewOrderNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("order %s not found", id),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
