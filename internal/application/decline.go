package application

import "github.com/commercekit/amazonpay-gateway/internal/amazon"

// DeclineKind classifies an authorization decline by what the buyer can do
// about it.
type DeclineKind int

const (
	// DeclineSoft means the buyer can fix it by picking another payment
	// instrument on the same order.
	DeclineSoft DeclineKind = iota
	// DeclineHard means the provider rejected the buyer outright; the
	// order reference is unusable.
	DeclineHard
	// DeclineTimeout means the provider gave no decision within its
	// window. Recoverable once, hard on the second occurrence.
	DeclineTimeout
	// DeclineGeneric covers reason codes with no specific handling.
	DeclineGeneric
)

// ClassifyDecline maps a provider decline reason onto its handling path.
func ClassifyDecline(reasonCode string) DeclineKind {
	switch reasonCode {
	case amazon.ReasonInvalidPaymentMethod:
		return DeclineSoft
	case amazon.ReasonAmazonRejected, amazon.ReasonProcessingFailure:
		return DeclineHard
	case amazon.ReasonTransactionTimedOut:
		return DeclineTimeout
	default:
		return DeclineGeneric
	}
}
