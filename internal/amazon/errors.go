package amazon

import (
	"errors"
	"fmt"
)

// DefaultErrorCode is used when the provider reports a failure without a
// usable error code.
const DefaultErrorCode = "amazon_error_response"

// ProviderError is a structured failure the provider itself reported:
// declines, invalid parameters, throttling. Distinct from transport
// failures so callers can branch on the provider's code.
type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("amazon error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// TransportError covers DNS, connection, and timeout failures where no
// provider response was obtained at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("amazon transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrMalformedResponse is returned when a provider response cannot be
// parsed. A response carrying a DOCTYPE is rejected outright.
var ErrMalformedResponse = errors.New("malformed provider response")

func IsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}

func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	ok := errors.As(err, &te)
	return te, ok
}
