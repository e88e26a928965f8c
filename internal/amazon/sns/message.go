// Package sns verifies and decodes the provider's notification messages:
// signature checks against the publisher's certificate, then extraction of
// the payment event nested inside the message body.
package sns

import (
	"encoding/json"
	"fmt"
)

// Message is one notification envelope as delivered to the webhook
// endpoint. Field casing differs between delivery paths, so the alternate
// spellings are merged after decode.
type Message struct {
	Type             string `json:"Type"`
	MessageID        string `json:"MessageId"`
	TopicArn         string `json:"TopicArn"`
	Subject          string `json:"Subject"`
	Message          string `json:"Message"`
	Timestamp        string `json:"Timestamp"`
	Signature        string `json:"Signature"`
	SignatureVersion string `json:"SignatureVersion"`
	SigningCertURL   string `json:"SigningCertURL"`
	SubscribeURL     string `json:"SubscribeURL"`
	Token            string `json:"Token"`

	// Alternate casings seen in the wild.
	SigningCertURLAlt string `json:"SigningCertUrl"`
	SubscribeURLAlt   string `json:"SubscribeUrl"`
}

// ParseMessage decodes a raw notification body and normalizes the
// alternate field casings.
func ParseMessage(body []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("invalid notification body: %w", err)
	}
	if msg.SigningCertURL == "" {
		msg.SigningCertURL = msg.SigningCertURLAlt
	}
	if msg.SubscribeURL == "" {
		msg.SubscribeURL = msg.SubscribeURLAlt
	}
	return &msg, nil
}

// Notification is the payment event nested inside Message.Message. The
// inner NotificationData is itself an XML document in the legacy response
// format.
type Notification struct {
	NotificationType        string `json:"NotificationType"`
	NotificationReferenceID string `json:"NotificationReferenceId"`
	SellerID                string `json:"SellerId"`
	ReleaseEnvironment      string `json:"ReleaseEnvironment"`
	NotificationData        string `json:"NotificationData"`
}

// Notification types carried in payment messages.
const (
	NotificationOrderReference = "OrderReferenceNotification"
	NotificationAuthorization  = "PaymentAuthorize"
	NotificationCapture        = "PaymentCapture"
	NotificationRefund         = "PaymentRefund"
)

// DecodeNotification extracts the payment event from a verified message.
// Every inner field except ReleaseEnvironment is required; a payload
// missing one is rejected rather than partially applied.
func DecodeNotification(msg *Message) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal([]byte(msg.Message), &n); err != nil {
		return nil, fmt.Errorf("invalid notification payload: %w", err)
	}

	required := []struct {
		name  string
		value string
	}{
		{"NotificationType", n.NotificationType},
		{"NotificationReferenceId", n.NotificationReferenceID},
		{"SellerId", n.SellerID},
		{"NotificationData", n.NotificationData},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, fmt.Errorf("notification payload missing %s", field.name)
		}
	}
	return &n, nil
}
