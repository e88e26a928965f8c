package amazon

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Legacy responses nest the same detail blocks under different result
// envelopes depending on which action produced them. One envelope struct
// carries every known shape; extraction probes them in priority order.

type xmlAmount struct {
	Amount       string `xml:"Amount"`
	CurrencyCode string `xml:"CurrencyCode"`
}

type xmlStatus struct {
	State      string `xml:"State"`
	ReasonCode string `xml:"ReasonCode"`
}

type xmlAuthorizationDetails struct {
	AmazonAuthorizationID    string    `xml:"AmazonAuthorizationId"`
	AuthorizationReferenceID string    `xml:"AuthorizationReferenceId"`
	AuthorizationAmount      xmlAmount `xml:"AuthorizationAmount"`
	AuthorizationStatus      xmlStatus `xml:"AuthorizationStatus"`
	CaptureNow               bool      `xml:"CaptureNow"`
	IDList                   struct {
		Members []string `xml:"member"`
	} `xml:"IdList"`
}

type xmlCaptureDetails struct {
	AmazonCaptureID    string    `xml:"AmazonCaptureId"`
	CaptureReferenceID string    `xml:"CaptureReferenceId"`
	CaptureAmount      xmlAmount `xml:"CaptureAmount"`
	CaptureStatus      xmlStatus `xml:"CaptureStatus"`
}

type xmlRefundDetails struct {
	AmazonRefundID    string    `xml:"AmazonRefundId"`
	RefundReferenceID string    `xml:"RefundReferenceId"`
	RefundAmount      xmlAmount `xml:"RefundAmount"`
	RefundStatus      xmlStatus `xml:"RefundStatus"`
}

type xmlDestination struct {
	PhysicalDestination xmlAddress `xml:"PhysicalDestination"`
}

type xmlAddress struct {
	Name          string `xml:"Name"`
	AddressLine1  string `xml:"AddressLine1"`
	AddressLine2  string `xml:"AddressLine2"`
	AddressLine3  string `xml:"AddressLine3"`
	City          string `xml:"City"`
	StateOrRegion string `xml:"StateOrRegion"`
	PostalCode    string `xml:"PostalCode"`
	CountryCode   string `xml:"CountryCode"`
	Phone         string `xml:"Phone"`
}

type xmlOrderReferenceDetails struct {
	AmazonOrderReferenceID string    `xml:"AmazonOrderReferenceId"`
	OrderReferenceStatus   xmlStatus `xml:"OrderReferenceStatus"`
	Buyer                  struct {
		Name  string `xml:"Name"`
		Email string `xml:"Email"`
	} `xml:"Buyer"`
	Destination xmlDestination `xml:"Destination"`
}

type authorizationResult struct {
	AuthorizationDetails xmlAuthorizationDetails `xml:"AuthorizationDetails"`
}

type captureResult struct {
	CaptureDetails xmlCaptureDetails `xml:"CaptureDetails"`
}

type refundResult struct {
	RefundDetails xmlRefundDetails `xml:"RefundDetails"`
}

type orderReferenceResult struct {
	OrderReferenceDetails xmlOrderReferenceDetails `xml:"OrderReferenceDetails"`
}

type xmlError struct {
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

type responseEnvelope struct {
	XMLName xml.Name

	AuthorizeResult                   *authorizationResult `xml:"AuthorizeResult"`
	AuthorizeOnBillingAgreementResult *authorizationResult `xml:"AuthorizeOnBillingAgreementResult"`
	GetAuthorizationDetailsResult     *authorizationResult `xml:"GetAuthorizationDetailsResult"`

	CaptureResult           *captureResult `xml:"CaptureResult"`
	GetCaptureDetailsResult *captureResult `xml:"GetCaptureDetailsResult"`

	RefundResult           *refundResult `xml:"RefundResult"`
	GetRefundDetailsResult *refundResult `xml:"GetRefundDetailsResult"`

	GetOrderReferenceDetailsResult *orderReferenceResult `xml:"GetOrderReferenceDetailsResult"`
	SetOrderReferenceDetailsResult *orderReferenceResult `xml:"SetOrderReferenceDetailsResult"`

	Error *xmlError `xml:"Error"`
}

var doctypeMarker = []byte("<!DOCTYPE")

// parseResponse parses a legacy XML body. Bodies carrying a DOCTYPE are
// rejected before any decoding, and encoding/xml performs no external
// entity loading.
func parseResponse(body []byte, statusCode int) (*responseEnvelope, error) {
	if bytes.Contains(body, doctypeMarker) {
		return nil, fmt.Errorf("%w: DOCTYPE not allowed", ErrMalformedResponse)
	}

	var env responseEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Error != nil && env.Error.Message != "" {
		code := env.Error.Code
		if code == "" {
			code = DefaultErrorCode
		}
		return nil, &ProviderError{
			Code:       code,
			Message:    env.Error.Message,
			StatusCode: statusCode,
		}
	}

	return &env, nil
}
