/*
discount.go - Monthly frequent-use discount

PURPOSE:
  Normal-variant riders earn a percentage discount once their paid-trip
  count for the calendar month crosses tier thresholds. All other
  variants get no discount, unconditionally.

TIERS (for the UPCOMING trip, i.e. completed paid trips + 1):
  trips  1-29  ->  0%
  trips 30-59  -> 20%
  trips 60-80  -> 25%
  trips 81+    ->  0%   (discount withdrawn for heavy use)

The rate is evaluated once per charge and never cached: the trip count
changes after every successful charge, so tier boundaries take effect on
the very next boarding.
*/
package fare

import "github.com/shopspring/decimal"

// =============================================================================
// FREQUENT USE DISCOUNT
// =============================================================================

var (
	rate20 = decimal.NewFromFloat(0.20)
	rate25 = decimal.NewFromFloat(0.25)
)

// FrequentUseDiscountRate returns the discount rate for the upcoming
// trip given the number of paid trips already completed this month.
func FrequentUseDiscountRate(tripsThisMonth int) decimal.Decimal {
	upcoming := tripsThisMonth + 1
	switch {
	case upcoming >= 30 && upcoming <= 59:
		return rate20
	case upcoming >= 60 && upcoming <= 80:
		return rate25
	default:
		return decimal.Zero
	}
}

// CalculateFareWithDiscount applies the monthly discount to a base fare,
// rounded half-up to the currency's minor unit.
func CalculateFareWithDiscount(base Amount, tripsThisMonth int) Amount {
	rate := FrequentUseDiscountRate(tripsThisMonth)
	if rate.IsZero() {
		return base
	}
	return base.Sub(base.Mul(rate)).Round()
}
