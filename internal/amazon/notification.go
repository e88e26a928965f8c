package amazon

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Notification data payloads put the detail block directly under the root
// element instead of inside a result wrapper.

type xmlNotificationEnvelope struct {
	XMLName xml.Name

	AuthorizationDetails  *xmlAuthorizationDetails  `xml:"AuthorizationDetails"`
	CaptureDetails        *xmlCaptureDetails        `xml:"CaptureDetails"`
	RefundDetails         *xmlRefundDetails         `xml:"RefundDetails"`
	OrderReferenceDetails *xmlOrderReferenceDetails `xml:"OrderReference"`
}

// NotificationDetails is the decoded payload of one provider notification.
// Exactly one of the detail fields is set.
type NotificationDetails struct {
	Authorization  *AuthorizationDetails
	Capture        *CaptureDetails
	Refund         *RefundDetails
	OrderReference *OrderReferenceDetails
}

// ParseNotificationData decodes the XML document nested inside a verified
// notification message. DOCTYPE bodies are rejected the same way response
// bodies are.
func ParseNotificationData(data []byte) (*NotificationDetails, error) {
	if bytes.Contains(data, doctypeMarker) {
		return nil, fmt.Errorf("%w: DOCTYPE not allowed", ErrMalformedResponse)
	}

	var env xmlNotificationEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := &NotificationDetails{}
	switch {
	case env.AuthorizationDetails != nil:
		out.Authorization = toAuthorizationDetails(*env.AuthorizationDetails)
	case env.CaptureDetails != nil:
		out.Capture = toCaptureDetails(*env.CaptureDetails)
	case env.RefundDetails != nil:
		out.Refund = toRefundDetails(*env.RefundDetails)
	case env.OrderReferenceDetails != nil:
		out.OrderReference = toOrderReferenceDetails(*env.OrderReferenceDetails)
	default:
		return nil, fmt.Errorf("%w: no recognized detail block", ErrMalformedResponse)
	}
	return out, nil
}
