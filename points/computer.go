// Package points converts between currency amounts and point counts using a
// rate snapshot. All functions are pure; a zero or missing denominator never
// panics and never produces NaN — it yields ok == false, which callers treat
// as "recompute once rates are loaded".
package points

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// ParseAmount parses raw form input as a non-negative decimal. Empty or
// non-numeric input returns ok == false rather than an error.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// AmountToPoints converts a purchase amount into points using the accrual
// snapshot. The result may be fractional; whether that is acceptable is the
// submitter's problem, not this function's.
func AmountToPoints(amount decimal.Decimal, snap models.RateSnapshot) (decimal.Decimal, bool) {
	unit, ok := snap.UnitValue()
	if !ok {
		return decimal.Zero, false
	}
	if amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount.Div(unit), true
}

// PointsToAmount converts a point count into a currency payout using the
// redemption snapshot, rounded to 2 decimal places.
func PointsToAmount(points decimal.Decimal, snap models.RateSnapshot) (decimal.Decimal, bool) {
	unit, ok := snap.UnitValue()
	if !ok {
		return decimal.Zero, false
	}
	if points.IsNegative() {
		return decimal.Zero, false
	}
	return points.Mul(unit).Round(2), true
}
