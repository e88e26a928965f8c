package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/application/services"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
	"github.com/shopspring/decimal"
)

type captureRequest struct {
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type captureResponse struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	CaptureID    string `json:"capture_id,omitempty"`
	CaptureState string `json:"capture_state,omitempty"`
}

// Capture collects funds reserved by an earlier authorization. Omitting
// the amount captures the full order total.
func (h *Handlers) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	cmd := services.CaptureCommand{OrderID: r.PathValue("id")}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			rest.WriteError(w, domain.NewInvalidAmountError(req.Amount), h.logger)
			return
		}
		cmd.Amount = &domain.Money{Amount: amount, Currency: req.Currency}
	}

	order, err := h.orchestrator.Capture(r.Context(), cmd)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	resp := captureResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	}
	if order.CaptureID != nil {
		resp.CaptureID = *order.CaptureID
	}
	if order.CaptureState != nil {
		resp.CaptureState = *order.CaptureState
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}
