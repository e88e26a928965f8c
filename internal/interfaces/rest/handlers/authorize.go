package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/application/services"
	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
	"github.com/commercekit/amazonpay-gateway/internal/monitor"
)

type authorizeRequest struct {
	CaptureNow *bool `json:"capture_now,omitempty"`
}

type authorizeResponse struct {
	OrderID     string `json:"order_id"`
	Outcome     string `json:"outcome"`
	Status      string `json:"status"`
	ReasonCode  string `json:"reason_code,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Authorize reserves funds for the order. Declines are reported as
// outcomes with status 200; only undecided failures map to errors.
func (h *Handlers) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, application.NewInvalidInputError(err), h.logger)
		return
	}
	h.authorize(w, r, req.CaptureNow)
}

// AuthorizeAndCapture authorizes and captures in a single provider call.
func (h *Handlers) AuthorizeAndCapture(w http.ResponseWriter, r *http.Request) {
	captureNow := true
	h.authorize(w, r, &captureNow)
}

func (h *Handlers) authorize(w http.ResponseWriter, r *http.Request, captureNow *bool) {
	outcome, err := h.orchestrator.Authorize(r.Context(), services.AuthorizeCommand{
		OrderID:    r.PathValue("id"),
		CaptureNow: captureNow,
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	monitor.AuthorizationOutcomes.WithLabelValues(outcome.Kind.String()).Inc()
	rest.WriteJSON(w, http.StatusOK, authorizeResponse{
		OrderID:     outcome.Order.OrderID,
		Outcome:     outcome.Kind.String(),
		Status:      string(outcome.Order.Status),
		ReasonCode:  outcome.ReasonCode,
		RedirectURL: outcome.RedirectURL,
	})
}
