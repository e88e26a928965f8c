package postgres

import (
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// toDomainModel: maps db model to domain entity
func toDomainModel(m OrderPaymentModel) *domain.OrderPayment {
	return domain.Reconstitute(
		m.OrderID,
		domain.Money{Amount: m.Total, Currency: m.Currency},
		domain.Region(m.Region),
		domain.APIVersion(m.APIVersion),
		domain.OrderStatus(m.Status),
		m.ReferenceID, m.AuthorizationID, m.CaptureID,
		m.ReferenceState, m.AuthorizationState, m.CaptureState,
		m.ChargePermissionID, m.ChargeID,
		m.BuyerEmail,
		m.TimedOut, m.TimedOutTimes,
		m.CreatedAt, m.UpdatedAt,
	)
}

// toDBModel: maps domain entity to db model
func toDBModel(o *domain.OrderPayment) *OrderPaymentModel {
	return &OrderPaymentModel{
		OrderID:            o.OrderID,
		Total:              o.Total.Amount,
		Currency:           o.Total.Currency,
		Region:             string(o.Region),
		APIVersion:         int(o.APIVersion),
		Status:             string(o.Status),
		ReferenceID:        o.ReferenceID,
		AuthorizationID:    o.AuthorizationID,
		CaptureID:          o.CaptureID,
		ReferenceState:     o.ReferenceState,
		AuthorizationState: o.AuthorizationState,
		CaptureState:       o.CaptureState,
		ChargePermissionID: o.ChargePermissionID,
		ChargeID:           o.ChargeID,
		BuyerEmail:         o.BuyerEmail,
		TimedOut:           o.TimedOut,
		TimedOutTimes:      o.TimedOutTimes,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toRefundModel(orderID string, r domain.Refund) *RefundModel {
	return &RefundModel{
		RefundID:  r.RefundID,
		OrderID:   orderID,
		Amount:    r.Amount.Amount,
		Currency:  r.Amount.Currency,
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
	}
}

func toScheduledCheckModel(c application.ScheduledCheck) ScheduledCheckModel {
	return ScheduledCheckModel{OrderID: c.OrderID, Kind: c.Kind, RunAt: c.RunAt}
}

func toScheduledCheck(m ScheduledCheckModel) application.ScheduledCheck {
	return application.ScheduledCheck{OrderID: m.OrderID, Kind: m.Kind, RunAt: m.RunAt}
}
