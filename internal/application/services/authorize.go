package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// Authorize reserves funds against an order's confirmed payment reference.
// Declines come back as tagged outcomes; the error return means no
// decision could be reached (transport failure, unknown order).
func (s *Orchestrator) Authorize(ctx context.Context, cmd AuthorizeCommand) (*AuthorizeOutcome, error) {
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ReferenceID == nil {
		return nil, domain.NewMissingReferenceError(order.OrderID)
	}

	captureNow := s.settings.CaptureMode == domain.CaptureImmediate
	if cmd.CaptureNow != nil {
		captureNow = *cmd.CaptureNow
	}

	if s.settings.AuthorizationMode == domain.AuthModeAsync {
		return s.authorizeDeferred(ctx, order, captureNow)
	}
	return s.authorizeSync(ctx, order, captureNow)
}

func (s *Orchestrator) authorizeSync(ctx context.Context, order *domain.OrderPayment, captureNow bool) (*AuthorizeOutcome, error) {
	attempt := order.TimedOutTimes + 1
	details, err := s.client(order).Authorize(ctx, amazon.AuthorizeRequest{
		ReferenceID:              *order.ReferenceID,
		AuthorizationReferenceID: authorizationReferenceID(order.OrderID, attempt),
		Amount:                   order.Total,
		CaptureNow:               captureNow,
		SellerAuthorizationNote:  s.settings.StoreName,
	})
	if err != nil {
		return nil, err
	}

	return s.applyAuthorization(ctx, order, details)
}

// authorizeDeferred asks the provider to decide within its long window
// instead of synchronously. The order goes on hold and a re-check is
// scheduled; the final outcome arrives via notification or the re-check.
func (s *Orchestrator) authorizeDeferred(ctx context.Context, order *domain.OrderPayment, captureNow bool) (*AuthorizeOutcome, error) {
	s.note(ctx, order.OrderID, "Payment is being validated by Amazon")

	attempt := order.TimedOutTimes + 1
	timeout := asyncTimeoutMins
	details, err := s.client(order).Authorize(ctx, amazon.AuthorizeRequest{
		ReferenceID:              *order.ReferenceID,
		AuthorizationReferenceID: authorizationReferenceID(order.OrderID, attempt),
		Amount:                   order.Total,
		CaptureNow:               captureNow,
		SellerAuthorizationNote:  s.settings.StoreName,
		TransactionTimeoutMins:   &timeout,
	})
	if err != nil {
		return nil, err
	}

	return s.applyAuthorization(ctx, order, details)
}

// ProcessAsyncAuth runs the deferred authorization flow explicitly: the
// order goes on hold while the provider validates the payment within its
// long window, and a re-check is scheduled.
func (s *Orchestrator) ProcessAsyncAuth(ctx context.Context, orderID string) (*AuthorizeOutcome, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ReferenceID == nil {
		return nil, domain.NewMissingReferenceError(order.OrderID)
	}

	return s.authorizeDeferred(ctx, order, s.settings.CaptureMode == domain.CaptureImmediate)
}

// applyAuthorization folds one authorization result into the order and
// returns the outcome. Used for fresh attempts, scheduled re-checks, and
// notifications alike.
func (s *Orchestrator) applyAuthorization(ctx context.Context, order *domain.OrderPayment, details *amazon.AuthorizationDetails) (*AuthorizeOutcome, error) {
	switch details.State {
	case amazon.StateOpen:
		return s.authorizationOpened(ctx, order, details)

	case amazon.StatePending:
		return s.authorizationPending(ctx, order, details)

	case amazon.StateClosed, amazon.StateCompleted:
		if details.CaptureNow && details.CaptureID != "" {
			return s.authorizationCaptured(ctx, order, details)
		}
		return s.authorizationFailed(ctx, order, details.ReasonCode)

	case amazon.StateDeclined:
		return s.authorizationDeclined(ctx, order, details)

	default:
		s.logger.Warn("unexpected authorization state",
			"order_id", order.OrderID, "state", details.State, "reason", details.ReasonCode)
		return s.authorizationFailed(ctx, order, details.ReasonCode)
	}
}

func (s *Orchestrator) authorizationOpened(ctx context.Context, order *domain.OrderPayment, details *amazon.AuthorizationDetails) (*AuthorizeOutcome, error) {
	order.RecordAuthorization(details.AuthorizationID, details.State)
	order.ClearTimeout()
	if order.Status != domain.StatusProcessing {
		if err := order.MarkProcessing(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, fmt.Sprintf("Authorized payment (Authorization ID: %s)", details.AuthorizationID))
	s.logger.Info("authorization open", "order_id", order.OrderID, "authorization_id", details.AuthorizationID)

	return &AuthorizeOutcome{Kind: OutcomeOK, Order: order}, nil
}

// authorizationCaptured handles capture-now results, where the provider
// reports the authorization already closed with an attached capture.
func (s *Orchestrator) authorizationCaptured(ctx context.Context, order *domain.OrderPayment, details *amazon.AuthorizationDetails) (*AuthorizeOutcome, error) {
	order.RecordAuthorization(details.AuthorizationID, details.State)
	order.RecordCapture(details.CaptureID, amazon.StateCompleted)
	order.ClearTimeout()
	if err := order.Complete(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, fmt.Sprintf("Captured payment (Capture ID: %s)", details.CaptureID))
	s.notifyCompleted(ctx, order)

	return &AuthorizeOutcome{Kind: OutcomeOK, Order: order}, nil
}

func (s *Orchestrator) authorizationPending(ctx context.Context, order *domain.OrderPayment, details *amazon.AuthorizationDetails) (*AuthorizeOutcome, error) {
	order.RecordAuthorization(details.AuthorizationID, details.State)
	if order.Status == domain.StatusPending || order.Status == domain.StatusFailed {
		if err := order.MarkOnHold(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.scheduleRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, "Awaiting payment authorization decision")

	return &AuthorizeOutcome{Kind: OutcomeRetryAsync, Order: order}, nil
}

func (s *Orchestrator) authorizationDeclined(ctx context.Context, order *domain.OrderPayment, details *amazon.AuthorizationDetails) (*AuthorizeOutcome, error) {
	order.RecordAuthorization(details.AuthorizationID, details.State)

	switch application.ClassifyDecline(details.ReasonCode) {
	case application.DeclineSoft:
		return s.softDecline(ctx, order, details.ReasonCode)
	case application.DeclineHard:
		return s.hardDecline(ctx, order, details.ReasonCode)
	case application.DeclineTimeout:
		return s.timeoutDecline(ctx, order)
	default:
		return s.authorizationFailed(ctx, order, details.ReasonCode)
	}
}

// softDecline holds the order and tells the buyer to pick another payment
// instrument. The payment reference stays usable.
func (s *Orchestrator) softDecline(ctx context.Context, order *domain.OrderPayment, reason string) (*AuthorizeOutcome, error) {
	if order.Status != domain.StatusOnHold {
		if err := order.MarkOnHold(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, fmt.Sprintf("Authorization declined (%s); buyer asked to update payment method", reason))
	if err := s.notifier.PaymentOnHold(ctx, order.OrderID, order.BuyerEmail); err != nil {
		s.logger.Warn("failed to notify buyer of held payment", "order_id", order.OrderID, "error", err)
	}

	return &AuthorizeOutcome{Kind: OutcomeSoftDecline, Order: order, ReasonCode: reason}, nil
}

// hardDecline cancels the payment reference and the order, and sends the
// buyer back to the cart to start over.
func (s *Orchestrator) hardDecline(ctx context.Context, order *domain.OrderPayment, reason string) (*AuthorizeOutcome, error) {
	if order.ReferenceID != nil {
		if err := s.client(order).CancelOrderReference(ctx, *order.ReferenceID, reason); err != nil {
			s.logger.Warn("failed to cancel payment reference after hard decline",
				"order_id", order.OrderID, "error", err)
		}
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, fmt.Sprintf("Authorization declined by Amazon (%s); order cancelled", reason))
	if err := s.notifier.PaymentDeclined(ctx, order.OrderID, order.BuyerEmail); err != nil {
		s.logger.Warn("failed to notify buyer of declined payment", "order_id", order.OrderID, "error", err)
	}

	return &AuthorizeOutcome{
		Kind:        OutcomeHardDecline,
		Order:       order,
		ReasonCode:  reason,
		RedirectURL: declineRedirectURL(s.settings.CartURL),
	}, nil
}

// timeoutDecline implements the two-strikes rule: the second timeout is a
// hard decline and nothing further is scheduled. A first timeout either
// falls back to the deferred flow (async mode) or is recorded with a
// re-check scheduled (sync mode).
func (s *Orchestrator) timeoutDecline(ctx context.Context, order *domain.OrderPayment) (*AuthorizeOutcome, error) {
	times := order.RecordTimeout()
	if times >= 2 {
		s.note(ctx, order.OrderID, "Authorization timed out again; giving up")
		return s.hardDecline(ctx, order, amazon.ReasonTransactionTimedOut)
	}

	if s.settings.AuthorizationMode == domain.AuthModeAsync {
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, application.NewInternalError(err)
		}
		s.note(ctx, order.OrderID, "Authorization timed out; retrying with a longer decision window")

		outcome, err := s.authorizeDeferred(ctx, order, s.settings.CaptureMode == domain.CaptureImmediate)
		if err != nil {
			return nil, err
		}
		if outcome.ReasonCode == "" {
			outcome.ReasonCode = amazon.ReasonTransactionTimedOut
		}
		return outcome, nil
	}

	if order.Status == domain.StatusPending {
		if err := order.MarkOnHold(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.scheduleRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, "Authorization timed out; payment will be re-checked")

	return &AuthorizeOutcome{
		Kind:       OutcomeRetryAsync,
		Order:      order,
		ReasonCode: amazon.ReasonTransactionTimedOut,
	}, nil
}

// authorizationFailed covers declines and states with no recovery path
// that do not warrant cancelling the payment reference.
func (s *Orchestrator) authorizationFailed(ctx context.Context, order *domain.OrderPayment, reason string) (*AuthorizeOutcome, error) {
	if order.Status != domain.StatusFailed {
		if err := order.Fail(); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, order.OrderID)
	s.note(ctx, order.OrderID, fmt.Sprintf("Authorization failed (%s)", reason))

	return &AuthorizeOutcome{Kind: OutcomeHardDecline, Order: order, ReasonCode: reason}, nil
}

func (s *Orchestrator) notifyCompleted(ctx context.Context, order *domain.OrderPayment) {
	if err := s.notifier.PaymentCompleted(ctx, order.OrderID, order.BuyerEmail); err != nil {
		s.logger.Warn("failed to notify buyer of completed payment", "order_id", order.OrderID, "error", err)
	}
}

// declineRedirectURL marks the cart URL so the storefront can explain the
// decline without leaking the reason.
func declineRedirectURL(cartURL string) string {
	u, err := url.Parse(cartURL)
	if err != nil {
		return cartURL
	}
	q := u.Query()
	q.Set("amazon_declined", "true")
	u.RawQuery = q.Encode()
	return u.String()
}
