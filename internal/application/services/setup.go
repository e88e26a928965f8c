package services

import (
	"context"
	"fmt"

	"github.com/commercekit/amazonpay-gateway/internal/address"
	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// CheckoutContext carries the buyer-consent handles through the call
// chain. The reference id and access token come from the hosted checkout
// widget; nothing here lives in session state.
type CheckoutContext struct {
	ReferenceID string
	// AccessToken unlocks buyer details on the legacy generation. Empty
	// for v2, where the charge permission carries them.
	AccessToken string
}

type SetupOrderCommand struct {
	OrderID    string
	Total      domain.Money
	APIVersion domain.APIVersion
	Checkout   CheckoutContext
}

// SetupResult is the registered order plus the buyer details fetched from
// the provider, with the shipping address normalized for the storefront.
type SetupResult struct {
	Order   *domain.OrderPayment
	Buyer   amazon.Buyer
	Address address.Normalized
}

// SetupOrder registers a store order against a buyer-consented payment
// reference and pulls the buyer's details from the provider.
func (s *Orchestrator) SetupOrder(ctx context.Context, cmd SetupOrderCommand) (*SetupResult, error) {
	if cmd.Checkout.ReferenceID == "" {
		return nil, domain.NewMissingRequiredFieldError("reference ID")
	}

	order, err := domain.NewOrderPayment(cmd.OrderID, cmd.Total, s.settings.Region, cmd.APIVersion)
	if err != nil {
		return nil, err
	}

	ref, err := s.clients.For(cmd.APIVersion).GetOrderReferenceDetails(ctx, cmd.Checkout.ReferenceID, cmd.Checkout.AccessToken)
	if err != nil {
		return nil, err
	}

	// A Draft reference means the buyer never finished the widget flow;
	// there is no consent to pay against yet.
	if ref.State == amazon.StateDraft {
		return nil, domain.NewInvalidStateError(ref.State, amazon.StateOpen)
	}

	order.SetReference(ref.ReferenceID)
	if cmd.APIVersion == domain.APIVersionV2 {
		order.SetChargePermission(ref.ReferenceID)
	}
	order.BuyerEmail = ref.Buyer.Email

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.note(ctx, order.OrderID, fmt.Sprintf("Amazon Pay reference created (Reference ID: %s)", ref.ReferenceID))
	s.logger.Info("order registered", "order_id", order.OrderID, "reference_id", ref.ReferenceID)

	return &SetupResult{
		Order:   order,
		Buyer:   ref.Buyer,
		Address: address.Format(ref.Destination),
	}, nil
}
