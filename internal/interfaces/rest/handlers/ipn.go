package handlers

import (
	"io"
	"net/http"

	"github.com/commercekit/amazonpay-gateway/internal/amazon/sns"
	"github.com/commercekit/amazonpay-gateway/internal/monitor"
)

const maxIPNBody = 1 << 20

// IPN receives the provider's asynchronous payment notifications. A
// message that fails signature verification or carries an invalid
// payload is rejected with 400; once a payload is accepted, processing
// failures still return 200 so the publisher does not retry what it
// already delivered.
func (h *Handlers) IPN(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIPNBody))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	msg, err := sns.ParseMessage(body)
	if err != nil {
		h.logger.Warn("malformed notification dropped", "error", err)
		http.Error(w, "malformed notification", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(r.Context(), msg); err != nil {
		h.logger.Warn("notification failed verification",
			"message_id", msg.MessageID, "error", err)
		http.Error(w, "verification failed", http.StatusBadRequest)
		return
	}

	switch msg.Type {
	case "SubscriptionConfirmation":
		// Confirmation is done out of band by visiting the URL; record
		// it so the operator can.
		h.logger.Info("subscription confirmation received",
			"topic", msg.TopicArn, "subscribe_url", msg.SubscribeURL)
		w.WriteHeader(http.StatusOK)
		return

	case "Notification":
		notification, err := sns.DecodeNotification(msg)
		if err != nil {
			h.logger.Warn("notification payload rejected",
				"message_id", msg.MessageID, "error", err)
			http.Error(w, "invalid notification payload", http.StatusBadRequest)
			return
		}

		if err := h.orchestrator.HandleNotification(r.Context(), notification); err != nil {
			h.logger.Error("notification processing failed",
				"message_id", msg.MessageID,
				"type", notification.NotificationType,
				"error", err)
			monitor.NotificationsProcessed.WithLabelValues(notification.NotificationType, "error").Inc()
		} else {
			monitor.NotificationsProcessed.WithLabelValues(notification.NotificationType, "ok").Inc()
		}
		w.WriteHeader(http.StatusOK)
		return

	default:
		h.logger.Info("ignoring notification type", "type", msg.Type)
		w.WriteHeader(http.StatusOK)
	}
}
