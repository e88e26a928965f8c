package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/amazon/sns"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// HandleNotification reconciles one verified provider notification against
// the order it concerns. Notifications are authoritative: they clear the
// timeout flag and unschedule pending re-checks when they settle the
// outcome. Unknown orders are logged and dropped, not failed, since the
// provider retries deliveries.
func (s *Orchestrator) HandleNotification(ctx context.Context, n *sns.Notification) error {
	details, err := amazon.ParseNotificationData([]byte(n.NotificationData))
	if err != nil {
		return err
	}

	switch {
	case details.Authorization != nil:
		return s.reconcileAuthorization(ctx, details.Authorization)
	case details.Capture != nil:
		return s.reconcileCapture(ctx, details.Capture)
	case details.Refund != nil:
		return s.reconcileRefund(ctx, details.Refund)
	case details.OrderReference != nil:
		return s.reconcileReference(ctx, details.OrderReference)
	}
	return nil
}

// reconcileAuthorization folds an asynchronous authorization outcome into
// the order. The authorization reference id embeds the order id.
func (s *Orchestrator) reconcileAuthorization(ctx context.Context, details *amazon.AuthorizationDetails) error {
	order, ok := s.lookupOrder(ctx, details.AuthorizationReferenceID, details.ReferenceID)
	if !ok {
		return nil
	}

	switch details.State {
	case amazon.StateClosed, amazon.StateCompleted:
		if details.CaptureNow && details.CaptureID != "" {
			_, err := s.authorizationCaptured(ctx, order, details)
			return err
		}
		// Closed without a capture: funds released, nothing to collect.
		order.RecordAuthorization(details.AuthorizationID, details.State)
		order.ClearTimeout()
		if err := s.orders.Update(ctx, order); err != nil {
			return application.NewInternalError(err)
		}
		s.cancelRecheck(ctx, order.OrderID)
		s.note(ctx, order.OrderID, "Authorization closed by Amazon")
		return nil

	case amazon.StateOpen:
		_, err := s.authorizationOpened(ctx, order, details)
		return err

	case amazon.StateDeclined:
		_, err := s.authorizationDeclined(ctx, order, details)
		return err

	case amazon.StatePending:
		// Not authoritative; the scheduled re-check keeps watching.
		order.RecordAuthorization(details.AuthorizationID, details.State)
		if err := s.orders.Update(ctx, order); err != nil {
			return application.NewInternalError(err)
		}
		return nil
	}

	s.logger.Warn("unhandled authorization notification state", "state", details.State)
	return nil
}

func (s *Orchestrator) reconcileCapture(ctx context.Context, details *amazon.CaptureDetails) error {
	order, ok := s.lookupOrder(ctx, details.CaptureReferenceID, "")
	if !ok {
		return nil
	}

	order.RecordCapture(details.CaptureID, details.State)

	switch details.State {
	case amazon.StateCompleted:
		if order.Status != domain.StatusCompleted {
			if err := order.Complete(); err != nil {
				return err
			}
			s.note(ctx, order.OrderID, fmt.Sprintf("Capture completed (Capture ID: %s)", details.CaptureID))
			s.notifyCompleted(ctx, order)
		}
	case amazon.StateDeclined:
		s.note(ctx, order.OrderID, fmt.Sprintf("Capture declined (%s)", details.ReasonCode))
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}
	return nil
}

func (s *Orchestrator) reconcileRefund(ctx context.Context, details *amazon.RefundDetails) error {
	order, ok := s.lookupOrder(ctx, details.RefundReferenceID, "")
	if !ok {
		return nil
	}

	switch details.State {
	case amazon.StateCompleted:
		s.note(ctx, order.OrderID, fmt.Sprintf("Refund completed (Refund ID: %s)", details.RefundID))
	case amazon.StateDeclined:
		s.note(ctx, order.OrderID, fmt.Sprintf("Refund declined (%s)", details.ReasonCode))
	}
	return nil
}

func (s *Orchestrator) reconcileReference(ctx context.Context, details *amazon.OrderReferenceDetails) error {
	order, ok := s.lookupOrder(ctx, "", details.ReferenceID)
	if !ok {
		return nil
	}

	order.ReferenceState = &details.State
	if details.State == amazon.StateClosed || details.State == amazon.StateCanceled {
		s.cancelRecheck(ctx, order.OrderID)
		s.note(ctx, order.OrderID, fmt.Sprintf("Payment reference %s by Amazon", details.State))
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}
	return nil
}

// lookupOrder resolves the order a notification concerns. Merchant-side
// object references embed the order id; the provider reference id is the
// fallback lookup key.
func (s *Orchestrator) lookupOrder(ctx context.Context, merchantRef, referenceID string) (*domain.OrderPayment, bool) {
	if merchantRef != "" {
		if order, err := s.orders.FindByID(ctx, orderIDFromReference(merchantRef)); err == nil {
			return order, true
		}
	}
	if referenceID != "" {
		if order, err := s.orders.FindByReferenceID(ctx, referenceID); err == nil {
			return order, true
		}
	}
	s.logger.Warn("notification for unknown order",
		"merchant_reference", merchantRef, "reference_id", referenceID)
	return nil, false
}

// orderIDFromReference strips the object suffix from a merchant reference
// like "1042-A01", leaving the order id.
func orderIDFromReference(ref string) string {
	if i := strings.LastIndex(ref, "-"); i > 0 {
		return ref[:i]
	}
	return ref
}
