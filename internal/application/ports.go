package application

import (
	"context"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderRepository is the port for persistence of order payment state.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.OrderPayment) error
	FindByID(ctx context.Context, orderID string) (*domain.OrderPayment, error)
	// FindByReferenceID resolves an order from its provider-side payment
	// reference id, the only handle some notifications carry.
	FindByReferenceID(ctx context.Context, referenceID string) (*domain.OrderPayment, error)
	Update(ctx context.Context, order *domain.OrderPayment) error
	AddRefund(ctx context.Context, orderID string, refund domain.Refund) error
	// RefundedTotal sums every recorded refund for the order.
	RefundedTotal(ctx context.Context, orderID string) (decimal.Decimal, error)
}

// NoteStore appends merchant-visible audit entries to an order.
type NoteStore interface {
	Add(ctx context.Context, orderID, note string) error
	FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderNote, error)
}

// Check kinds the reconciliation worker knows how to run.
const (
	CheckPendingAuthorization = "pending_authorization"
)

// ScheduledCheck is one deferred reconciliation task.
type ScheduledCheck struct {
	OrderID string
	Kind    string
	RunAt   time.Time
}

// ScheduleStore persists deferred checks. Scheduling the same order and
// kind twice replaces the earlier entry.
type ScheduleStore interface {
	Schedule(ctx context.Context, check ScheduledCheck) error
	Cancel(ctx context.Context, orderID, kind string) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]ScheduledCheck, error)
}

// Notifier tells the buyer about payment outcomes. Implementations must
// tolerate being called with an empty email and do nothing.
type Notifier interface {
	PaymentOnHold(ctx context.Context, orderID, email string) error
	PaymentDeclined(ctx context.Context, orderID, email string) error
	PaymentCompleted(ctx context.Context, orderID, email string) error
}

// MerchantSettings carries the merchant account configuration every
// operation needs. It is passed in explicitly so one process can serve
// several configurations side by side.
type MerchantSettings struct {
	SellerID          string
	StoreName         string
	Region            domain.Region
	Sandbox           bool
	CaptureMode       domain.CaptureMode
	AuthorizationMode domain.AuthorizationMode
	// CartURL is where a hard-declined buyer is sent to pick another
	// payment method.
	CartURL string
}
