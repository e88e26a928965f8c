package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPaymentModel mirrors the order_payments table.
type OrderPaymentModel struct {
	OrderID    string
	Total      decimal.Decimal
	Currency   string
	Region     string
	APIVersion int
	Status     string

	ReferenceID     *string
	AuthorizationID *string
	CaptureID       *string

	ReferenceState     *string
	AuthorizationState *string
	CaptureState       *string

	ChargePermissionID *string
	ChargeID           *string

	BuyerEmail string

	TimedOut      bool
	TimedOutTimes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RefundModel mirrors the order_refunds table.
type RefundModel struct {
	RefundID  string
	OrderID   string
	Amount    decimal.Decimal
	Currency  string
	Note      string
	CreatedAt time.Time
}

// ScheduledCheckModel mirrors the scheduled_checks table. One row per
// order and kind; scheduling again moves run_at forward.
type ScheduledCheckModel struct {
	OrderID string
	Kind    string
	RunAt   time.Time
}
