package domain

import "github.com/shopspring/decimal"

var (
	usRefundMultiplier = decimal.NewFromFloat(1.15)
	usRefundHeadroom   = decimal.NewFromInt(75)
)

// MaxRefundable returns the ceiling on cumulative refunds for an order
// total. US-registered merchants may refund above the order total, up to
// the smaller of total*1.15 and total+75; every other region caps at the
// order total.
func MaxRefundable(region Region, total Money) Money {
	limit := total.Amount
	if region == RegionUS {
		byRate := total.Amount.Mul(usRefundMultiplier)
		byHeadroom := total.Amount.Add(usRefundHeadroom)
		limit = decimal.Min(byRate, byHeadroom)
	}
	return Money{Amount: limit, Currency: total.Currency}
}

// ValidateRefund checks a refund request against the regional limit before
// any network call is made. alreadyRefunded is the sum of prior refunds on
// the order.
func ValidateRefund(region Region, total Money, alreadyRefunded, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewInvalidAmountError(amount.String())
	}
	limit := MaxRefundable(region, total)
	if alreadyRefunded.Add(amount).GreaterThan(limit.Amount) {
		return NewRefundCapExceededError(Money{Amount: amount, Currency: total.Currency}, limit)
	}
	return nil
}
