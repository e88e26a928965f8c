// Package domain encodes the order payment annotation and its lifecycle.
// The store platform owns the order itself; this entity carries everything
// the gateway knows about the order's Amazon Pay state.
package domain

import (
	"slices"
	"time"
)

// OrderStatus mirrors the store-facing order status the gateway drives.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusOnHold     OrderStatus = "ON_HOLD"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
	StatusFailed     OrderStatus = "FAILED"
)

// OrderPayment annotates one store order with its Amazon Pay state. Cached
// *_state fields are trusted until explicitly cleared; a nil cached state
// means the next read must fetch fresh from the provider.
type OrderPayment struct {
	OrderID    string
	Total      Money
	Region     Region
	APIVersion APIVersion
	Status     OrderStatus

	ReferenceID     *string
	AuthorizationID *string
	CaptureID       *string

	ReferenceState     *string
	AuthorizationState *string
	CaptureState       *string

	// v2 generation annotations.
	ChargePermissionID *string
	ChargeID           *string

	BuyerEmail string

	TimedOut      bool
	TimedOutTimes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Refund is one fund return against an order's capture. An order may carry
// several over time; their ids are all persisted.
type Refund struct {
	RefundID  string
	Amount    Money
	Note      string
	CreatedAt time.Time
}

// OrderNote is one audit-trail entry, the merchant-visible record of every
// provider interaction.
type OrderNote struct {
	ID        string
	OrderID   string
	Note      string
	CreatedAt time.Time
}

func NewOrderPayment(orderID string, total Money, region Region, version APIVersion) (*OrderPayment, error) {
	if orderID == "" {
		return nil, NewMissingRequiredFieldError("order ID")
	}
	if total.Currency == "" {
		return nil, NewMissingRequiredFieldError("currency")
	}
	return &OrderPayment{
		OrderID:    orderID,
		Total:      total,
		Region:     region,
		APIVersion: version,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

func (o *OrderPayment) MarkOnHold() error {
	return o.transition(StatusOnHold)
}

func (o *OrderPayment) MarkProcessing() error {
	return o.transition(StatusProcessing)
}

// Complete marks payment collected. Reached when a capture reports
// Completed, either synchronously or via notification.
func (o *OrderPayment) Complete() error {
	return o.transition(StatusCompleted)
}

// Cancel is the hard-decline outcome.
func (o *OrderPayment) Cancel() error {
	return o.transition(StatusCancelled)
}

func (o *OrderPayment) MarkRefunded() error {
	return o.transition(StatusRefunded)
}

func (o *OrderPayment) Fail() error {
	return o.transition(StatusFailed)
}

func (o *OrderPayment) transition(target OrderStatus) error {
	if err := o.canTransitionTo(target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

func (o *OrderPayment) canTransitionTo(target OrderStatus) error {
	switch o.Status {
	case StatusPending:
		return o.allow(target, StatusOnHold, StatusProcessing, StatusCompleted, StatusCancelled, StatusFailed)
	case StatusOnHold:
		return o.allow(target, StatusProcessing, StatusCompleted, StatusCancelled, StatusFailed)
	case StatusProcessing:
		return o.allow(target, StatusCompleted, StatusCancelled, StatusRefunded, StatusFailed)
	case StatusCompleted:
		return o.allow(target, StatusRefunded)
	case StatusFailed:
		return o.allow(target, StatusOnHold, StatusCancelled)
	}
	return NewInvalidTransitionError(o.Status, target)
}

func (o *OrderPayment) allow(target OrderStatus, allowed ...OrderStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(o.Status, target)
}

// SetReference records the buyer-consented payment handle. For the legacy
// generation this is the order reference id; v2 stores the charge
// permission id alongside.
func (o *OrderPayment) SetReference(referenceID string) {
	o.ReferenceID = &referenceID
	state := "Open"
	o.ReferenceState = &state
}

func (o *OrderPayment) SetChargePermission(chargePermissionID string) {
	o.ChargePermissionID = &chargePermissionID
}

// RecordAuthorization stores the authorization id and caches its state.
func (o *OrderPayment) RecordAuthorization(authorizationID, state string) {
	o.AuthorizationID = &authorizationID
	o.AuthorizationState = &state
}

// RecordCapture stores the capture id and caches its state.
func (o *OrderPayment) RecordCapture(captureID, state string) {
	o.CaptureID = &captureID
	o.CaptureState = &state
}

func (o *OrderPayment) RecordCharge(chargeID string) {
	o.ChargeID = &chargeID
}

// RecordTimeout counts one TransactionTimedOut occurrence. The caller hard
// declines once this returns a count of two.
func (o *OrderPayment) RecordTimeout() int {
	o.TimedOut = true
	o.TimedOutTimes++
	return o.TimedOutTimes
}

// ClearTimeout resets the timed-out marker once an authoritative outcome
// arrives.
func (o *OrderPayment) ClearTimeout() {
	o.TimedOut = false
}

// InvalidateCachedStates drops every cached provider state. The next state
// read must go to the provider.
func (o *OrderPayment) InvalidateCachedStates() {
	o.ReferenceState = nil
	o.AuthorizationState = nil
	o.CaptureState = nil
}

// CanCapture reports whether a capture attempt is allowed: a prior
// authorization exists and its last known state is not a decline.
func (o *OrderPayment) CanCapture() error {
	if o.AuthorizationID == nil {
		return NewMissingAuthorizationError(o.OrderID)
	}
	if o.AuthorizationState != nil && *o.AuthorizationState == "Declined" {
		return NewInvalidStateError("Declined", "Open")
	}
	return nil
}

func (o *OrderPayment) IsTerminal() bool {
	switch o.Status {
	case StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// Reconstitute - Special constructor for loading from DB
func Reconstitute(
	orderID string,
	total Money,
	region Region,
	version APIVersion,
	status OrderStatus,
	referenceID, authorizationID, captureID *string,
	referenceState, authorizationState, captureState *string,
	chargePermissionID, chargeID *string,
	buyerEmail string,
	timedOut bool, timedOutTimes int,
	createdAt, updatedAt time.Time,
) *OrderPayment {
	return &OrderPayment{
		OrderID:            orderID,
		Total:              total,
		Region:             region,
		APIVersion:         version,
		Status:             status,
		ReferenceID:        referenceID,
		AuthorizationID:    authorizationID,
		CaptureID:          captureID,
		ReferenceState:     referenceState,
		AuthorizationState: authorizationState,
		CaptureState:       captureState,
		ChargePermissionID: chargePermissionID,
		ChargeID:           chargeID,
		BuyerEmail:         buyerEmail,
		TimedOut:           timedOut,
		TimedOutTimes:      timedOutTimes,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}
