package services

import (
	"context"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// CloseAuthorization releases reserved funds without capturing them.
func (s *Orchestrator) CloseAuthorization(ctx context.Context, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.AuthorizationID == nil {
		return domain.NewMissingAuthorizationError(order.OrderID)
	}

	if err := s.client(order).CloseAuthorization(ctx, *order.AuthorizationID); err != nil {
		return err
	}

	order.RecordAuthorization(*order.AuthorizationID, "Closed")
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}

	s.note(ctx, orderID, "Authorization closed; reserved funds released")
	s.logger.Info("authorization closed", "order_id", orderID)
	return nil
}

// CloseReference closes the payment reference after fulfilment. No further
// authorizations can be created against it; refunds stay possible.
func (s *Orchestrator) CloseReference(ctx context.Context, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ReferenceID == nil {
		return domain.NewMissingReferenceError(order.OrderID)
	}

	if err := s.client(order).CloseOrderReference(ctx, *order.ReferenceID); err != nil {
		return err
	}

	order.ReferenceState = nil
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}

	s.note(ctx, orderID, "Payment reference closed")
	return nil
}

// CancelReference cancels the payment reference, for example when the
// buyer abandons the order before authorization.
func (s *Orchestrator) CancelReference(ctx context.Context, orderID, reason string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ReferenceID == nil {
		return domain.NewMissingReferenceError(order.OrderID)
	}

	if err := s.client(order).CancelOrderReference(ctx, *order.ReferenceID, reason); err != nil {
		return err
	}

	if !order.IsTerminal() {
		if err := order.Cancel(); err != nil {
			return err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}

	s.cancelRecheck(ctx, orderID)
	s.note(ctx, orderID, "Payment reference cancelled")
	return nil
}
