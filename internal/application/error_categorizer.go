package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	// Context errors are network/timeout issues
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeOrderNotFound,
			domain.ErrCodeMissingRequiredField:
			return CategoryClientError
		case domain.ErrCodeInvalidAmount,
			domain.ErrCodeRefundCapExceeded,
			domain.ErrCodeInvalidTransition,
			domain.ErrCodeInvalidState,
			domain.ErrCodeMissingReference,
			domain.ErrCodeMissingAuthorization,
			domain.ErrCodeMissingCapture:
			return CategoryBusinessRule
		}
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput:
			return CategoryClientError
		case ErrCodeInvalidState:
			return CategoryBusinessRule
		case ErrCodeProviderDown:
			return CategoryTransient
		case ErrCodeInternal:
			return CategoryInfrastructure
		}
	}

	if _, ok := amazon.IsTransportError(err); ok {
		return CategoryTransient
	}

	if provErr, ok := amazon.IsProviderError(err); ok {
		if provErr.StatusCode >= 500 {
			return CategoryTransient
		}
		switch provErr.Code {
		case "RequestThrottled", "ServiceUnavailable", "InternalServerError":
			return CategoryTransient
		case "InvalidOrderReferenceId", "InvalidAuthorizationId",
			"InvalidCaptureId", "InvalidRefundId":
			return CategoryClientError
		default:
			return CategoryPermanent
		}
	}

	if errors.Is(err, amazon.ErrMalformedResponse) {
		return CategoryTransient
	}

	// Default: transient is the safe fallback
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeOrderNotFound:
			return http.StatusNotFound
		case domain.ErrCodeInvalidAmount,
			domain.ErrCodeMissingRequiredField:
			return http.StatusBadRequest
		default:
			return http.StatusConflict
		}
	}

	if provErr, ok := amazon.IsProviderError(err); ok {
		if provErr.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	}

	if _, ok := amazon.IsTransportError(err); ok {
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if provErr, ok := amazon.IsProviderError(err); ok {
		return provErr.Code
	}

	if _, ok := amazon.IsTransportError(err); ok {
		return ErrCodeProviderDown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return ErrCodeInternal
}
