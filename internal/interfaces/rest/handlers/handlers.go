// Package handlers exposes the gateway operations over HTTP.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/amazon/sns"
	"github.com/commercekit/amazonpay-gateway/internal/application/services"
)

type Handlers struct {
	orchestrator *services.Orchestrator
	verifier     *sns.Verifier
	logger       *slog.Logger
}

func NewHandlers(orchestrator *services.Orchestrator, verifier *sns.Verifier, logger *slog.Logger) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		verifier:     verifier,
		logger:       logger,
	}
}

// Register wires every route onto the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/orders", h.SetupOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/authorize", h.Authorize)
	mux.HandleFunc("POST /api/v1/orders/{id}/authorize-and-capture", h.AuthorizeAndCapture)
	mux.HandleFunc("POST /api/v1/orders/{id}/capture", h.Capture)
	mux.HandleFunc("POST /api/v1/orders/{id}/refund", h.Refund)
	mux.HandleFunc("POST /api/v1/orders/{id}/close-authorization", h.CloseAuthorization)
	mux.HandleFunc("POST /api/v1/orders/{id}/close", h.CloseReference)
	mux.HandleFunc("POST /api/v1/orders/{id}/cancel", h.CancelReference)
	mux.HandleFunc("GET /api/v1/orders/{id}/reference-state", h.OrderState)
	mux.HandleFunc("POST /ipn", h.IPN)
}
