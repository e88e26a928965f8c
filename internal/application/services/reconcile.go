package services

import (
	"context"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// CheckPendingAuthorization is the scheduled re-check: it refetches the
// authorization and folds the current state into the order. A still
// pending authorization re-schedules itself; anything authoritative
// settles the order and stops the loop.
func (s *Orchestrator) CheckPendingAuthorization(ctx context.Context, orderID string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeOrderNotFound) {
			s.cancelRecheck(ctx, orderID)
			return nil
		}
		return err
	}

	if order.IsTerminal() || order.AuthorizationID == nil {
		s.cancelRecheck(ctx, orderID)
		return nil
	}

	details, err := s.client(order).GetAuthorizationDetails(ctx, *order.AuthorizationID)
	if err != nil {
		// The provider could not be asked; leave the schedule in place
		// and let the next due run try again.
		s.scheduleRecheck(ctx, orderID)
		return err
	}

	_, err = s.applyAuthorization(ctx, order, details)
	return err
}
