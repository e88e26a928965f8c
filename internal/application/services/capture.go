package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// Capture collects funds reserved by an earlier authorization. With no
// explicit amount the full order total is captured.
func (s *Orchestrator) Capture(ctx context.Context, cmd CaptureCommand) (*domain.OrderPayment, error) {
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := order.CanCapture(); err != nil {
		return nil, err
	}

	amount := order.Total
	if cmd.Amount != nil {
		amount = *cmd.Amount
	}

	details, err := s.client(order).Capture(ctx, amazon.CaptureRequest{
		AuthorizationID:    *order.AuthorizationID,
		CaptureReferenceID: captureReferenceID(order.OrderID),
		Amount:             amount,
		SellerCaptureNote:  s.settings.StoreName,
	})
	if err != nil {
		if provErr, ok := amazon.IsProviderError(err); ok {
			s.note(ctx, order.OrderID, fmt.Sprintf("Capture failed: %s", provErr.Message))
		}
		return nil, err
	}

	captureID := details.CaptureID
	if captureID == "" {
		// The capture id mirrors the authorization id with the object
		// type flipped.
		captureID = strings.Replace(*order.AuthorizationID, "-A", "-C", 1)
	}
	order.RecordCapture(captureID, details.State)

	switch details.State {
	case amazon.StateCompleted:
		if err := order.Complete(); err != nil {
			return nil, err
		}
		// No further authorizations can run against the reference once
		// payment is collected.
		if order.ReferenceID != nil {
			if err := s.client(order).CloseOrderReference(ctx, *order.ReferenceID); err != nil {
				s.logger.Warn("failed to close payment reference after capture",
					"order_id", order.OrderID, "error", err)
			}
		}
		s.note(ctx, order.OrderID, fmt.Sprintf("Captured payment (Capture ID: %s)", captureID))
		s.notifyCompleted(ctx, order)
	case amazon.StatePending:
		s.note(ctx, order.OrderID, fmt.Sprintf("Capture pending (Capture ID: %s)", captureID))
	case amazon.StateDeclined:
		s.note(ctx, order.OrderID, fmt.Sprintf("Capture declined (%s)", details.ReasonCode))
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("capture processed",
		"order_id", order.OrderID, "capture_id", captureID, "state", details.State)
	return order, nil
}
