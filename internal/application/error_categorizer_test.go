package application

import (
	"context"
	"errors"
	"testing"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: "USD"}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"deadline exceeded", context.DeadlineExceeded, CategoryTransient},
		{"order not found", domain.NewOrderNotFoundError("1042"), CategoryClientError},
		{"refund cap", domain.NewRefundCapExceededError(usd("150.00"), usd("100.00")), CategoryBusinessRule},
		{"internal", NewInternalError(errors.New("db down")), CategoryInfrastructure},
		{"throttled", &amazon.ProviderError{Code: "RequestThrottled", StatusCode: 503}, CategoryTransient},
		{"declined", &amazon.ProviderError{Code: "TransactionAmountExceeded", StatusCode: 400}, CategoryPermanent},
		{"bad reference", &amazon.ProviderError{Code: "InvalidOrderReferenceId", StatusCode: 400}, CategoryClientError},
		{"transport", &amazon.TransportError{Op: "Authorize", Err: errors.New("dial tcp")}, CategoryTransient},
		{"malformed response", amazon.ErrMalformedResponse, CategoryTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeError(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&amazon.TransportError{Op: "Capture", Err: errors.New("timeout")}))
	assert.True(t, IsRetryable(NewInternalError(errors.New("db down"))))

	assert.False(t, IsRetryable(domain.NewOrderNotFoundError("1042")))
	assert.False(t, IsRetryable(&amazon.ProviderError{Code: "InvalidPaymentMethod", StatusCode: 400}))
}
