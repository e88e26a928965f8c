package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Region identifies the Amazon Pay platform a merchant is registered with.
type Region string

const (
	RegionUS Region = "us"
	RegionGB Region = "gb"
	RegionEU Region = "eu"
	RegionJP Region = "jp"
)

// CaptureMode controls when funds are collected after authorization.
type CaptureMode string

const (
	CaptureImmediate     CaptureMode = "immediate"
	CaptureAuthorizeOnly CaptureMode = "authorize-only"
	CaptureManual        CaptureMode = "manual"
)

// AuthorizationMode selects the synchronous or deferred authorization flow.
type AuthorizationMode string

const (
	AuthModeSync  AuthorizationMode = "sync"
	AuthModeAsync AuthorizationMode = "async"
)

// APIVersion distinguishes the legacy MWS/XML flow from the v2 JSON flow.
// Stored per order so in-flight orders keep using the generation that
// created them.
type APIVersion int

const (
	APIVersionLegacy APIVersion = 1
	APIVersionV2     APIVersion = 2
)

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency is required")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// String renders the amount for order notes, e.g. "25.99 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
