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

type refundRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Reason   string `json:"reason,omitempty"`
}

type refundResponse struct {
	OrderID  string `json:"order_id"`
	RefundID string `json:"refund_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (h *Handlers) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		rest.WriteError(w, domain.NewInvalidAmountError(req.Amount), h.logger)
		return
	}

	orderID := r.PathValue("id")
	refund, err := h.orchestrator.Refund(r.Context(), services.RefundCommand{
		OrderID: orderID,
		Amount:  domain.Money{Amount: amount, Currency: req.Currency},
		Reason:  req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, refundResponse{
		OrderID:  orderID,
		RefundID: refund.RefundID,
		Amount:   refund.Amount.Amount.StringFixed(2),
		Currency: refund.Amount.Currency,
	})
}
