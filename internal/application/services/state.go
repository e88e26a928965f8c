package services

import (
	"context"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// OrderState is the provider-side view of an order's payment objects.
type OrderState struct {
	OrderID            string  `json:"order_id"`
	Status             string  `json:"status"`
	ReferenceID        *string `json:"reference_id,omitempty"`
	ReferenceState     *string `json:"reference_state,omitempty"`
	AuthorizationID    *string `json:"authorization_id,omitempty"`
	AuthorizationState *string `json:"authorization_state,omitempty"`
	CaptureID          *string `json:"capture_id,omitempty"`
	CaptureState       *string `json:"capture_state,omitempty"`
}

// ReferenceState reports the order's payment state, serving cached
// provider states when present. Pass refresh to force a round trip.
func (s *Orchestrator) ReferenceState(ctx context.Context, orderID string, refresh bool) (*OrderState, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if refresh {
		if err := s.refreshStates(ctx, order); err != nil {
			return nil, err
		}
	}

	return &OrderState{
		OrderID:            order.OrderID,
		Status:             string(order.Status),
		ReferenceID:        order.ReferenceID,
		ReferenceState:     order.ReferenceState,
		AuthorizationID:    order.AuthorizationID,
		AuthorizationState: order.AuthorizationState,
		CaptureID:          order.CaptureID,
		CaptureState:       order.CaptureState,
	}, nil
}

// refreshStates drops the cached states and refetches whichever payment
// objects the order has ids for.
func (s *Orchestrator) refreshStates(ctx context.Context, order *domain.OrderPayment) error {
	order.InvalidateCachedStates()
	client := s.client(order)

	if order.ReferenceID != nil {
		ref, err := client.GetOrderReferenceDetails(ctx, *order.ReferenceID, "")
		if err != nil {
			return err
		}
		order.ReferenceState = &ref.State
	}
	if order.AuthorizationID != nil {
		auth, err := client.GetAuthorizationDetails(ctx, *order.AuthorizationID)
		if err != nil {
			return err
		}
		order.AuthorizationState = &auth.State
	}
	if order.CaptureID != nil {
		capture, err := client.GetCaptureDetails(ctx, *order.CaptureID)
		if err != nil {
			return err
		}
		order.CaptureState = &capture.State
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return application.NewInternalError(err)
	}
	return nil
}
