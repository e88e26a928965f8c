package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
)

type actionResponse struct {
	OrderID string `json:"order_id"`
	Action  string `json:"action"`
}

// CloseAuthorization releases reserved funds without capturing them.
func (h *Handlers) CloseAuthorization(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if err := h.orchestrator.CloseAuthorization(r.Context(), orderID); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, actionResponse{OrderID: orderID, Action: "authorization_closed"})
}

// CloseReference closes the payment reference after fulfilment.
func (h *Handlers) CloseReference(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if err := h.orchestrator.CloseReference(r.Context(), orderID); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, actionResponse{OrderID: orderID, Action: "reference_closed"})
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelReference cancels the payment reference and the order.
func (h *Handlers) CancelReference(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}

	orderID := r.PathValue("id")
	if err := h.orchestrator.CancelReference(r.Context(), orderID, req.Reason); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, actionResponse{OrderID: orderID, Action: "reference_cancelled"})
}
