/*
policy.go - Per-variant fare policies

PURPOSE:
  One policy per card variant computes the fare for a boarding, or
  rejects it. Variants are rows in a strategy table of pure functions
  rather than distinct account types, keeping Account decoupled from
  policy logic.

RULE ORDER (for every restricted variant):
  1. Service window - restricted variants board Mon-Fri, hour [6,22)
  2. Spacing        - throttled variants wait >= 5 min between trips
  3. Daily cap      - trips 1-2 of the day get the discounted/free
                      rate, the 3rd+ pays full
  4. Fare formula   - per variant, given base fare B:
       Normal:        B minus frequent-use discount
       HalfFare:      B/2 while under the cap, else B
       FreeFare:      0 while under the cap, else the URBAN base fare
                      regardless of the line's class (intentional
                      cross-tariff asymmetry)
       FullFranchise: always 0, still window-gated

A rejection mutates nothing and records no trip.

SEE ALSO:
  - discount.go: Frequent-use tiers for the Normal variant
  - router.go: Applies the boarding gate before transfer eligibility
*/
package fare

import "time"

// DefaultServiceWindow bounds boardings for the restricted variants.
var DefaultServiceWindow = ServiceWindow{
	FirstDay: time.Monday,
	LastDay:  time.Friday,
	FromHour: 6,
	ToHour:   22,
}

// MinTripSpacing is the wait required between trips on throttled variants.
const MinTripSpacing = 5 * time.Minute

// DailyDiscountedTrips is how many trips per calendar day keep the
// discounted/free rate before the full tariff applies.
const DailyDiscountedTrips = 2

// =============================================================================
// FARE POLICY
// =============================================================================

// fareFunc computes the fare for an accepted boarding. capped is true
// once the day's discounted allowance is spent; monthlyPaid is the
// completed paid-trip count for the month.
type fareFunc func(tariffs *TariffTable, base Amount, capped bool, monthlyPaid int) Amount

// FarePolicy is the ruleset for one card variant.
type FarePolicy struct {
	Variant Variant

	// Window restricts when the card may board at all. Nil means
	// unrestricted.
	Window *ServiceWindow

	// MinSpacing is the required wait between consecutive trips.
	// Zero disables the rule. The first trip always passes.
	MinSpacing time.Duration

	// DailyCap is the number of discounted trips per calendar day.
	// Zero disables daily-cap mechanics.
	DailyCap int

	// TracksMonthlyUse marks variants whose paid trips advance the
	// frequent-use counter.
	TracksMonthlyUse bool

	// MarksTransferOrigin controls whether this variant's trips refresh
	// the transfer window. On for every variant by default; kept as a
	// flag so deployments can exclude franchise cards from transfer
	// chains without touching the router.
	MarksTransferOrigin bool

	fare fareFunc
}

// CheckBoarding enforces the service window. Applied before transfer
// eligibility: the window restricts who may board, independent of what
// they pay.
func (p *FarePolicy) CheckBoarding(now time.Time) error {
	if p.Window == nil {
		return nil
	}
	if !p.Window.Contains(now) {
		return &OutsideServiceHoursError{Variant: p.Variant, At: now, Window: *p.Window}
	}
	return nil
}

// ComputeFare applies spacing and daily-cap rules, then the variant
// formula. The caller has already passed CheckBoarding.
func (p *FarePolicy) ComputeFare(tariffs *TariffTable, base Amount, history *TripHistory, now time.Time) (Amount, error) {
	if p.MinSpacing > 0 {
		if minutes, ok := history.MinutesSinceLastTrip(now); ok {
			elapsed := time.Duration(minutes) * time.Minute
			if elapsed < p.MinSpacing {
				return ZeroAmount(), &SpacingError{Variant: p.Variant, Elapsed: elapsed, Required: p.MinSpacing}
			}
		}
	}

	capped := p.DailyCap > 0 && history.TripsToday(now) >= p.DailyCap
	return p.fare(tariffs, base, capped, history.TripsThisMonth(now)), nil
}

// SuggestedFare is ComputeFare without the spacing gate: the fare the
// rider would pay if they boarded now. Used for card-status queries.
func (p *FarePolicy) SuggestedFare(tariffs *TariffTable, base Amount, history *TripHistory, now time.Time) Amount {
	capped := p.DailyCap > 0 && history.TripsToday(now) >= p.DailyCap
	return p.fare(tariffs, base, capped, history.TripsThisMonth(now))
}

// =============================================================================
// POLICY TABLE
// =============================================================================

// PolicyTable holds one policy per variant.
type PolicyTable map[Variant]*FarePolicy

// NewPolicyTable builds the standard four-variant table.
func NewPolicyTable() PolicyTable {
	window := DefaultServiceWindow
	return PolicyTable{
		VariantNormal: {
			Variant:             VariantNormal,
			TracksMonthlyUse:    true,
			MarksTransferOrigin: true,
			fare: func(_ *TariffTable, base Amount, _ bool, monthlyPaid int) Amount {
				return CalculateFareWithDiscount(base, monthlyPaid)
			},
		},
		VariantHalfFare: {
			Variant:             VariantHalfFare,
			Window:              &window,
			MinSpacing:          MinTripSpacing,
			DailyCap:            DailyDiscountedTrips,
			MarksTransferOrigin: true,
			fare: func(_ *TariffTable, base Amount, capped bool, _ int) Amount {
				if capped {
					return base
				}
				return base.Half()
			},
		},
		VariantFreeFare: {
			Variant:             VariantFreeFare,
			Window:              &window,
			MinSpacing:          MinTripSpacing,
			DailyCap:            DailyDiscountedTrips,
			MarksTransferOrigin: true,
			fare: func(tariffs *TariffTable, _ Amount, capped bool, _ int) Amount {
				if capped {
					// Full rate for a capped free-fare trip is the urban
					// base fare, whatever line was boarded.
					return tariffs.Urban()
				}
				return ZeroAmount()
			},
		},
		VariantFullFranchise: {
			Variant:             VariantFullFranchise,
			Window:              &window,
			MarksTransferOrigin: true,
			fare: func(_ *TariffTable, _ Amount, _ bool, _ int) Amount {
				return ZeroAmount()
			},
		},
	}
}

// Get returns the policy for a variant.
func (pt PolicyTable) Get(v Variant) (*FarePolicy, error) {
	p, ok := pt[v]
	if !ok {
		return nil, ErrUnknownVariant
	}
	return p, nil
}
