package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/application/services"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

type setupOrderRequest struct {
	OrderID     string `json:"order_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	APIVersion  int    `json:"api_version"`
	ReferenceID string `json:"reference_id"`
	AccessToken string `json:"access_token"`
}

type setupOrderResponse struct {
	OrderID     string `json:"order_id"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	BuyerName   string `json:"buyer_name,omitempty"`
	BuyerEmail  string `json:"buyer_email,omitempty"`

	Address addressResponse `json:"shipping_address"`
}

type addressResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

// SetupOrder registers an order against a buyer-consented payment
// reference.
func (h *Handlers) SetupOrder(w http.ResponseWriter, r *http.Request) {
	var req setupOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		rest.WriteError(w, domain.NewInvalidAmountError(req.Amount), h.logger)
		return
	}

	version := domain.APIVersion(req.APIVersion)
	if version == 0 {
		version = domain.APIVersionLegacy
	}

	result, err := h.orchestrator.SetupOrder(r.Context(), services.SetupOrderCommand{
		OrderID:    req.OrderID,
		Total:      domain.Money{Amount: amount, Currency: req.Currency},
		APIVersion: version,
		Checkout: services.CheckoutContext{
			ReferenceID: req.ReferenceID,
			AccessToken: req.AccessToken,
		},
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, setupOrderResponse{
		OrderID:     result.Order.OrderID,
		ReferenceID: *result.Order.ReferenceID,
		Status:      string(result.Order.Status),
		BuyerName:   result.Buyer.Name,
		BuyerEmail:  result.Buyer.Email,
		Address: addressResponse{
			FirstName: result.Address.FirstName,
			LastName:  result.Address.LastName,
			Company:   result.Address.Company,
			Address1:  result.Address.Address1,
			Address2:  result.Address.Address2,
			City:      result.Address.City,
			State:     result.Address.State,
			Postcode:  result.Address.Postcode,
			Country:   result.Address.Country,
			Phone:     result.Address.Phone,
		},
	})
}
