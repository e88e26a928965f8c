package services

import (
	"context"
	"fmt"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/google/uuid"
)

// Refund returns funds from a captured payment. The cumulative refund cap
// is validated before any provider call is made.
func (s *Orchestrator) Refund(ctx context.Context, cmd RefundCommand) (*domain.Refund, error) {
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CaptureID == nil {
		return nil, domain.NewMissingCaptureError(order.OrderID)
	}

	refundedSoFar, err := s.orders.RefundedTotal(ctx, order.OrderID)
	if err != nil {
		return nil, application.NewInternalError(err)
	}
	if err := domain.ValidateRefund(order.Region, order.Total, refundedSoFar, cmd.Amount.Amount); err != nil {
		return nil, err
	}

	details, err := s.client(order).Refund(ctx, amazon.RefundRequest{
		CaptureID:         *order.CaptureID,
		RefundReferenceID: refundReferenceID(order.OrderID, uniqueRefundSeq()),
		Amount:            cmd.Amount,
		SellerRefundNote:  cmd.Reason,
	})
	if err != nil {
		return nil, err
	}

	refund := domain.Refund{
		RefundID:  details.RefundID,
		Amount:    cmd.Amount,
		Note:      cmd.Reason,
		CreatedAt: s.now(),
	}
	if err := s.orders.AddRefund(ctx, order.OrderID, refund); err != nil {
		return nil, application.NewInternalError(err)
	}

	// Only a full refund flips the order status.
	if refundedSoFar.Add(cmd.Amount.Amount).GreaterThanOrEqual(order.Total.Amount) {
		if err := order.MarkRefunded(); err == nil {
			if err := s.orders.Update(ctx, order); err != nil {
				return nil, application.NewInternalError(err)
			}
		}
	}

	s.note(ctx, order.OrderID, fmt.Sprintf("Refunded %s (Refund ID: %s)", cmd.Amount.String(), details.RefundID))
	s.logger.Info("refund processed",
		"order_id", order.OrderID, "refund_id", details.RefundID, "state", details.State)
	return &refund, nil
}

// uniqueRefundSeq feeds the refund reference id. Several refunds may run
// against one order, so a random component keeps references unique.
func uniqueRefundSeq() int {
	return int(uuid.New().ID() % 90)
}
