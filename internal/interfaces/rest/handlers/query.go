package handlers

import (
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/interfaces/rest"
)

// OrderState reports the provider-side payment state. Cached states are
// served unless refresh=true forces a provider round trip.
func (h *Handlers) OrderState(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"

	state, err := h.orchestrator.ReferenceState(r.Context(), r.PathValue("id"), refresh)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, state)
}
