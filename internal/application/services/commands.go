package services

import "github.com/commercekit/amazonpay-gateway/internal/domain"

type AuthorizeCommand struct {
	OrderID string
	// CaptureNow overrides the configured capture mode when set.
	CaptureNow *bool
}

type CaptureCommand struct {
	OrderID string
	// Amount defaults to the order total.
	Amount *domain.Money
}

type RefundCommand struct {
	OrderID string
	Amount  domain.Money
	Reason  string
}

// OutcomeKind tags the result of an authorization attempt.
type OutcomeKind int

const (
	// OutcomeOK - funds are reserved, or captured when capture-now ran.
	OutcomeOK OutcomeKind = iota
	// OutcomeSoftDecline - the buyer must pick another instrument; the
	// order is on hold and the reference stays usable.
	OutcomeSoftDecline
	// OutcomeHardDecline - the provider rejected the buyer; the order is
	// cancelled and the buyer is redirected to restart checkout.
	OutcomeHardDecline
	// OutcomeRetryAsync - no decision yet; it will arrive via a
	// notification or the scheduled re-check.
	OutcomeRetryAsync
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeSoftDecline:
		return "soft_decline"
	case OutcomeHardDecline:
		return "hard_decline"
	case OutcomeRetryAsync:
		return "retry_async"
	default:
		return "unknown"
	}
}

// AuthorizeOutcome is the tagged result of an authorization attempt.
// Declines are outcomes, not errors; the error return is reserved for
// failures to reach a decision at all.
type AuthorizeOutcome struct {
	Kind       OutcomeKind
	Order      *domain.OrderPayment
	ReasonCode string
	// RedirectURL is set on hard declines: where to send the buyer.
	RedirectURL string
}
