package fare_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/fare-engine/fare"
)

// Monday 2024-10-14 10:00, well inside the Mon-Sat 7-22 window.
var transferMonday = time.Date(2024, time.October, 14, 10, 0, 0, 0, time.UTC)

func TestTransferWindow_NoPriorTrip_NotEligible(t *testing.T) {
	w := fare.NewTransferWindow()

	assert.False(t, w.IsTransferEligible("102", transferMonday))
}

func TestTransferWindow_DifferentLineWithinWindow_Eligible(t *testing.T) {
	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", transferMonday)

	assert.True(t, w.IsTransferEligible("102", transferMonday.Add(30*time.Minute)))
}

func TestTransferWindow_SameLine_NotEligible(t *testing.T) {
	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", transferMonday)

	assert.False(t, w.IsTransferEligible("144", transferMonday.Add(30*time.Minute)))
}

func TestTransferWindow_SixtyMinuteBoundary(t *testing.T) {
	// The boundary is exclusive: 59m59s is a transfer, exactly 60m is not.
	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", transferMonday)

	assert.True(t, w.IsTransferEligible("102", transferMonday.Add(60*time.Minute-time.Second)))
	assert.False(t, w.IsTransferEligible("102", transferMonday.Add(60*time.Minute)))
	assert.False(t, w.IsTransferEligible("102", transferMonday.Add(61*time.Minute)))
}

func TestTransferWindow_SundayAndOffHours_NotEligible(t *testing.T) {
	sundayMorning := time.Date(2024, time.October, 13, 10, 0, 0, 0, time.UTC)
	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", sundayMorning)

	assert.False(t, w.IsTransferEligible("102", sundayMorning.Add(30*time.Minute)),
		"no transfers on Sundays")

	earlyMonday := time.Date(2024, time.October, 14, 6, 30, 0, 0, time.UTC)
	w2 := fare.NewTransferWindow()
	w2.RecordChargedTrip("144", earlyMonday)
	assert.False(t, w2.IsTransferEligible("102", earlyMonday.Add(15*time.Minute)),
		"transfer window opens at 7:00")
}

func TestTransferWindow_SaturdayWithinHours_Eligible(t *testing.T) {
	saturday := time.Date(2024, time.October, 19, 10, 0, 0, 0, time.UTC)
	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", saturday)

	assert.True(t, w.IsTransferEligible("102", saturday.Add(30*time.Minute)))
}

func TestTransferWindow_RefreshesOnEveryChargedTrip(t *testing.T) {
	// GIVEN: A trip on 144, then a transfer onto 102
	// WHEN: Boarding 144 again within 60 minutes of the 102 trip
	// THEN: Still a transfer - the window resets on every trip, so chains
	//       are unbounded as long as each hop changes line and stays <60m

	w := fare.NewTransferWindow()
	w.RecordChargedTrip("144", transferMonday)

	hop1 := transferMonday.Add(50 * time.Minute)
	assert.True(t, w.IsTransferEligible("102", hop1))
	w.RecordChargedTrip("102", hop1)

	hop2 := hop1.Add(50 * time.Minute) // 100 minutes after the first boarding
	assert.True(t, w.IsTransferEligible("144", hop2))
}

func TestTransferWindow_Restore(t *testing.T) {
	w := fare.RestoreTransferWindow("144", transferMonday)

	line, at, ok := w.Last()
	assert.True(t, ok)
	assert.Equal(t, fare.LineID("144"), line)
	assert.Equal(t, transferMonday, at)
	assert.True(t, w.IsTransferEligible("102", transferMonday.Add(10*time.Minute)))
}
