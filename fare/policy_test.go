package fare_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fare-engine/fare"
)

// Monday 2024-10-14 10:00, inside the Mon-Fri 6-22 window.
var policyMonday = time.Date(2024, time.October, 14, 10, 0, 0, 0, time.UTC)

func policyFor(t *testing.T, v fare.Variant) *fare.FarePolicy {
	t.Helper()
	p, err := fare.NewPolicyTable().Get(v)
	require.NoError(t, err)
	return p
}

func historyWithTrips(times ...time.Time) *fare.TripHistory {
	h := fare.NewTripHistory()
	for _, at := range times {
		h.RecordTrip(fare.TripEvent{At: at, Line: "144", FareCharged: fare.NewAmount(790)})
	}
	return h
}

// =============================================================================
// SERVICE WINDOW
// =============================================================================

func TestPolicy_ServiceWindow_RestrictedVariants(t *testing.T) {
	saturday := time.Date(2024, time.October, 19, 10, 0, 0, 0, time.UTC)
	mondayEarly := time.Date(2024, time.October, 14, 5, 59, 0, 0, time.UTC)
	mondayLate := time.Date(2024, time.October, 14, 22, 0, 0, 0, time.UTC)

	for _, v := range []fare.Variant{fare.VariantHalfFare, fare.VariantFreeFare, fare.VariantFullFranchise} {
		p := policyFor(t, v)

		assert.NoError(t, p.CheckBoarding(policyMonday), "%s should board on a weekday morning", v)
		assert.ErrorIs(t, p.CheckBoarding(saturday), fare.ErrOutsideServiceHours, "%s on Saturday", v)
		assert.ErrorIs(t, p.CheckBoarding(mondayEarly), fare.ErrOutsideServiceHours, "%s at 5:59", v)
		assert.ErrorIs(t, p.CheckBoarding(mondayLate), fare.ErrOutsideServiceHours, "%s at 22:00 (exclusive bound)", v)
	}
}

func TestPolicy_ServiceWindow_SixAM_Inclusive(t *testing.T) {
	sixSharp := time.Date(2024, time.October, 14, 6, 0, 0, 0, time.UTC)
	p := policyFor(t, fare.VariantFreeFare)

	assert.NoError(t, p.CheckBoarding(sixSharp))
}

func TestPolicy_Normal_Unrestricted(t *testing.T) {
	sundayNight := time.Date(2024, time.October, 13, 23, 30, 0, 0, time.UTC)
	p := policyFor(t, fare.VariantNormal)

	assert.NoError(t, p.CheckBoarding(sundayNight))
}

// =============================================================================
// SPACING
// =============================================================================

func TestPolicy_Spacing_FirstTripAlwaysPasses(t *testing.T) {
	p := policyFor(t, fare.VariantHalfFare)

	_, err := p.ComputeFare(fare.DefaultTariffs(), fare.NewAmount(1580), fare.NewTripHistory(), policyMonday)

	assert.NoError(t, err)
}

func TestPolicy_Spacing_RejectsUnderFiveMinutes(t *testing.T) {
	tariffs := fare.DefaultTariffs()

	for _, v := range []fare.Variant{fare.VariantHalfFare, fare.VariantFreeFare} {
		p := policyFor(t, v)
		h := historyWithTrips(policyMonday)

		_, err := p.ComputeFare(tariffs, fare.NewAmount(1580), h, policyMonday.Add(4*time.Minute))
		assert.ErrorIs(t, err, fare.ErrTooSoonSinceLastTrip, "%s at 4 minutes", v)

		var spacing *fare.SpacingError
		require.ErrorAs(t, err, &spacing)
		assert.Equal(t, 5*time.Minute, spacing.Required)

		_, err = p.ComputeFare(tariffs, fare.NewAmount(1580), h, policyMonday.Add(5*time.Minute))
		assert.NoError(t, err, "%s at exactly 5 minutes", v)
	}
}

func TestPolicy_Spacing_NotAppliedToNormalOrFullFranchise(t *testing.T) {
	tariffs := fare.DefaultTariffs()
	h := historyWithTrips(policyMonday)
	soon := policyMonday.Add(time.Minute)

	_, err := policyFor(t, fare.VariantNormal).ComputeFare(tariffs, fare.NewAmount(1580), h, soon)
	assert.NoError(t, err)

	_, err = policyFor(t, fare.VariantFullFranchise).ComputeFare(tariffs, fare.NewAmount(1580), h, soon)
	assert.NoError(t, err)
}

// =============================================================================
// DAILY CAP AND FARE FORMULAS
// =============================================================================

func TestPolicy_HalfFare_HalvesUntilDailyCap(t *testing.T) {
	p := policyFor(t, fare.VariantHalfFare)
	tariffs := fare.DefaultTariffs()
	base := fare.NewAmount(1580)

	// Trips 1 and 2 of the day: half fare.
	h := fare.NewTripHistory()
	got, err := p.ComputeFare(tariffs, base, h, policyMonday)
	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(790)))

	h = historyWithTrips(policyMonday)
	got, err = p.ComputeFare(tariffs, base, h, policyMonday.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(790)))

	// Third trip of the day: full fare, computed directly (not 790*2).
	h = historyWithTrips(policyMonday, policyMonday.Add(10*time.Minute))
	got, err = p.ComputeFare(tariffs, base, h, policyMonday.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(1580)))
}

func TestPolicy_HalfFare_Interurban(t *testing.T) {
	p := policyFor(t, fare.VariantHalfFare)

	got, err := p.ComputeFare(fare.DefaultTariffs(), fare.NewAmount(3000), fare.NewTripHistory(), policyMonday)

	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(1500)))
}

func TestPolicy_FreeFare_FreeUntilCap_ThenUrbanBase(t *testing.T) {
	// GIVEN: A free-fare card already at its two free trips today
	// WHEN: Boarding an INTERURBAN line (base 3000)
	// THEN: The capped fare is the URBAN base (1580), not the line's own
	//       tariff - the cross-tariff asymmetry is intentional

	p := policyFor(t, fare.VariantFreeFare)
	tariffs := fare.DefaultTariffs()

	got, err := p.ComputeFare(tariffs, fare.NewAmount(3000), fare.NewTripHistory(), policyMonday)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "first trip rides free")

	h := historyWithTrips(policyMonday, policyMonday.Add(10*time.Minute))
	got, err = p.ComputeFare(tariffs, fare.NewAmount(3000), h, policyMonday.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(1580)),
		"capped free-fare trip pays urban base, got %s", got)
}

func TestPolicy_FullFranchise_AlwaysZero(t *testing.T) {
	p := policyFor(t, fare.VariantFullFranchise)
	h := historyWithTrips(policyMonday, policyMonday.Add(1*time.Minute), policyMonday.Add(2*time.Minute))

	got, err := p.ComputeFare(fare.DefaultTariffs(), fare.NewAmount(3000), h, policyMonday.Add(3*time.Minute))

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestPolicy_Normal_AppliesFrequentUseDiscount(t *testing.T) {
	p := policyFor(t, fare.VariantNormal)
	h := fare.NewTripHistory()
	for i := 0; i < 29; i++ {
		h.RecordPaidTrip(policyMonday.Add(time.Duration(-i) * time.Hour))
	}

	got, err := p.ComputeFare(fare.DefaultTariffs(), fare.NewAmount(1580), h, policyMonday)

	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(1264)), "30th trip gets 20%%, got %s", got)
}

// =============================================================================
// DAILY CAP COUNTS ALL TRIPS, NOT ONLY DISCOUNTED ONES
// =============================================================================

func TestPolicy_DailyCap_CountsTransfersToo(t *testing.T) {
	p := policyFor(t, fare.VariantHalfFare)
	h := fare.NewTripHistory()
	h.RecordTrip(fare.TripEvent{At: policyMonday, Line: "144", FareCharged: fare.NewAmount(790)})
	h.RecordTrip(fare.TripEvent{At: policyMonday.Add(10 * time.Minute), Line: "102", IsTransfer: true, FareCharged: fare.ZeroAmount()})

	got, err := p.ComputeFare(fare.DefaultTariffs(), fare.NewAmount(1580), h, policyMonday.Add(30*time.Minute))

	require.NoError(t, err)
	assert.True(t, got.Equal(fare.NewAmount(1580)), "third boarding of the day pays full")
}
