// Package amazon implements the remote Amazon Pay API client: the legacy
// signed-query MWS/XML generation and the v2 JSON generation behind one
// interface, selected per order by the API version that created it.
package amazon

import (
	"context"

	"github.com/commercekit/amazonpay-gateway/internal/address"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// Authorization, capture, and reference states share one vocabulary across
// both API generations; the v2 client translates its charge states into
// these.
const (
	StatePending   = "Pending"
	StateOpen      = "Open"
	StateDeclined  = "Declined"
	StateSuspended = "Suspended"
	StateCompleted = "Completed"
	StateClosed    = "Closed"
	StateCanceled  = "Canceled"
	StateDraft     = "Draft"
)

// Decline reason codes the provider returns on authorization failures.
const (
	ReasonInvalidPaymentMethod = "InvalidPaymentMethod"
	ReasonAmazonRejected       = "AmazonRejected"
	ReasonProcessingFailure    = "ProcessingFailure"
	ReasonTransactionTimedOut  = "TransactionTimedOut"
)

type AuthorizeRequest struct {
	ReferenceID              string
	AuthorizationReferenceID string
	Amount                   domain.Money
	CaptureNow               bool
	SellerAuthorizationNote  string
	// TransactionTimeoutMins, when set, asks the provider to resolve the
	// authorization out-of-band within the given window instead of
	// synchronously. The deferred flow uses 1440.
	TransactionTimeoutMins *int
}

type AuthorizationDetails struct {
	AuthorizationID string
	// AuthorizationReferenceID is the merchant-side reference the
	// authorization was created with; it embeds the order id.
	AuthorizationReferenceID string
	ReferenceID              string
	State                    string
	ReasonCode               string
	Amount                   domain.Money
	CaptureNow               bool
	// CaptureID is set when CaptureNow produced an immediate capture.
	CaptureID string
}

type CaptureRequest struct {
	AuthorizationID    string
	CaptureReferenceID string
	Amount             domain.Money
	SellerCaptureNote  string
}

type CaptureDetails struct {
	CaptureID          string
	CaptureReferenceID string
	State              string
	ReasonCode         string
	Amount             domain.Money
}

type RefundRequest struct {
	CaptureID         string
	RefundReferenceID string
	Amount            domain.Money
	SellerRefundNote  string
}

type RefundDetails struct {
	RefundID          string
	RefundReferenceID string
	State             string
	ReasonCode        string
	Amount            domain.Money
}

type Buyer struct {
	Name  string
	Email string
}

type OrderReferenceDetails struct {
	ReferenceID string
	State       string
	ReasonCode  string
	Buyer       Buyer
	Destination address.Raw
}

// Client is the port to the remote payment provider. Implementations block
// for at most their configured timeout and return either parsed details or
// a typed failure (*ProviderError, *TransportError, ErrMalformedResponse).
type Client interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizationDetails, error)
	GetAuthorizationDetails(ctx context.Context, authorizationID string) (*AuthorizationDetails, error)
	CloseAuthorization(ctx context.Context, authorizationID string) error

	Capture(ctx context.Context, req CaptureRequest) (*CaptureDetails, error)
	GetCaptureDetails(ctx context.Context, captureID string) (*CaptureDetails, error)

	Refund(ctx context.Context, req RefundRequest) (*RefundDetails, error)
	GetRefundDetails(ctx context.Context, refundID string) (*RefundDetails, error)

	GetOrderReferenceDetails(ctx context.Context, referenceID, accessToken string) (*OrderReferenceDetails, error)
	CancelOrderReference(ctx context.Context, referenceID, reason string) error
	CloseOrderReference(ctx context.Context, referenceID string) error
}

// Selector picks the client generation an order was created with.
type Selector struct {
	Legacy Client
	V2     Client
}

func (s Selector) For(version domain.APIVersion) Client {
	if version == domain.APIVersionV2 && s.V2 != nil {
		return s.V2
	}
	return s.Legacy
}
