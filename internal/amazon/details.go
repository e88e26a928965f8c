package amazon

import (
	"github.com/commercekit/amazonpay-gateway/internal/address"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

// Extraction probes each known result envelope in a fixed priority order
// and uses the first one present.

func (env *responseEnvelope) authorizationDetails() *AuthorizationDetails {
	for _, r := range []*authorizationResult{
		env.AuthorizeResult,
		env.AuthorizeOnBillingAgreementResult,
		env.GetAuthorizationDetailsResult,
	} {
		if r != nil {
			return toAuthorizationDetails(r.AuthorizationDetails)
		}
	}
	return nil
}

func (env *responseEnvelope) captureDetails() *CaptureDetails {
	for _, r := range []*captureResult{
		env.CaptureResult,
		env.GetCaptureDetailsResult,
	} {
		if r != nil {
			return toCaptureDetails(r.CaptureDetails)
		}
	}
	return nil
}

func (env *responseEnvelope) refundDetails() *RefundDetails {
	for _, r := range []*refundResult{
		env.RefundResult,
		env.GetRefundDetailsResult,
	} {
		if r != nil {
			return toRefundDetails(r.RefundDetails)
		}
	}
	return nil
}

func (env *responseEnvelope) orderReferenceDetails() *OrderReferenceDetails {
	for _, r := range []*orderReferenceResult{
		env.GetOrderReferenceDetailsResult,
		env.SetOrderReferenceDetailsResult,
	} {
		if r != nil {
			return toOrderReferenceDetails(r.OrderReferenceDetails)
		}
	}
	return nil
}

func toAuthorizationDetails(d xmlAuthorizationDetails) *AuthorizationDetails {
	out := &AuthorizationDetails{
		AuthorizationID:          d.AmazonAuthorizationID,
		AuthorizationReferenceID: d.AuthorizationReferenceID,
		State:                    d.AuthorizationStatus.State,
		ReasonCode:               d.AuthorizationStatus.ReasonCode,
		Amount:                   toMoney(d.AuthorizationAmount),
		CaptureNow:               d.CaptureNow,
	}
	if len(d.IDList.Members) > 0 {
		out.CaptureID = d.IDList.Members[0]
	}
	return out
}

func toCaptureDetails(d xmlCaptureDetails) *CaptureDetails {
	return &CaptureDetails{
		CaptureID:          d.AmazonCaptureID,
		CaptureReferenceID: d.CaptureReferenceID,
		State:              d.CaptureStatus.State,
		ReasonCode:         d.CaptureStatus.ReasonCode,
		Amount:             toMoney(d.CaptureAmount),
	}
}

func toRefundDetails(d xmlRefundDetails) *RefundDetails {
	return &RefundDetails{
		RefundID:          d.AmazonRefundID,
		RefundReferenceID: d.RefundReferenceID,
		State:             d.RefundStatus.State,
		ReasonCode:        d.RefundStatus.ReasonCode,
		Amount:            toMoney(d.RefundAmount),
	}
}

func toOrderReferenceDetails(d xmlOrderReferenceDetails) *OrderReferenceDetails {
	a := d.Destination.PhysicalDestination
	return &OrderReferenceDetails{
		ReferenceID: d.AmazonOrderReferenceID,
		State:       d.OrderReferenceStatus.State,
		ReasonCode:  d.OrderReferenceStatus.ReasonCode,
		Buyer: Buyer{
			Name:  d.Buyer.Name,
			Email: d.Buyer.Email,
		},
		Destination: address.Raw{
			Name:          a.Name,
			AddressLine1:  a.AddressLine1,
			AddressLine2:  a.AddressLine2,
			AddressLine3:  a.AddressLine3,
			City:          a.City,
			StateOrRegion: a.StateOrRegion,
			PostalCode:    a.PostalCode,
			CountryCode:   a.CountryCode,
			Phone:         a.Phone,
		},
	}
}

func toMoney(a xmlAmount) domain.Money {
	amount, err := decimal.NewFromString(a.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	return domain.Money{Amount: amount, Currency: a.CurrencyCode}
}
