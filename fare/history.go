/*
history.go - Append-only trip log per account

PURPOSE:
  TripHistory records every validated boarding and derives the counters
  the fare rules depend on: trips today (daily caps), paid trips this
  month (frequent-use discount), and minutes since the last trip
  (spacing rule).

ORDERING GUARANTEE:
  The log is append-only and strictly time-ordered because the Clock is
  monotonic within a session. No reordering or deletion is supported.

TWO LOGS:
  - trips:     every successful charge, including free and transfer trips
  - paidTrips: only fares > 0 on variants that track the monthly counter

SEE ALSO:
  - discount.go: Consumes TripsThisMonth
  - policy.go: Consumes TripsToday and MinutesSinceLastTrip
*/
package fare

import "time"

// =============================================================================
// TRIP HISTORY
// =============================================================================

// TripHistory keeps the per-account boarding log. Not safe for
// concurrent use on its own; the owning Account serializes access.
type TripHistory struct {
	trips     []TripEvent
	paidTrips []time.Time
}

func NewTripHistory() *TripHistory {
	return &TripHistory{}
}

// RestoreTripHistory rebuilds a history from persisted events,
// oldest first.
func RestoreTripHistory(events []TripEvent) *TripHistory {
	h := &TripHistory{trips: append([]TripEvent(nil), events...)}
	for _, ev := range events {
		if ev.Paid {
			h.paidTrips = append(h.paidTrips, ev.At)
		}
	}
	return h
}

// RecordTrip appends a boarding marker used for spacing and daily-cap
// checks. Recorded even when the trip ends up free.
func (h *TripHistory) RecordTrip(ev TripEvent) {
	h.trips = append(h.trips, ev)
}

// RecordPaidTrip appends to the monthly frequent-use log.
func (h *TripHistory) RecordPaidTrip(at time.Time) {
	h.paidTrips = append(h.paidTrips, at)
}

// TripsToday counts trips on the same local calendar date as now.
func (h *TripHistory) TripsToday(now time.Time) int {
	n := 0
	for _, ev := range h.trips {
		if SameDay(ev.At, now) {
			n++
		}
	}
	return n
}

// TripsThisMonth counts paid trips sharing now's month and year.
func (h *TripHistory) TripsThisMonth(now time.Time) int {
	n := 0
	for _, at := range h.paidTrips {
		if SameMonth(at, now) {
			n++
		}
	}
	return n
}

// MinutesSinceLastTrip returns the elapsed whole minutes since the most
// recent trip. ok is false when the history is empty.
func (h *TripHistory) MinutesSinceLastTrip(now time.Time) (minutes int, ok bool) {
	if len(h.trips) == 0 {
		return 0, false
	}
	last := h.trips[len(h.trips)-1].At
	return int(now.Sub(last) / time.Minute), true
}

// Events returns a copy of the full trip log, oldest first.
func (h *TripHistory) Events() []TripEvent {
	return append([]TripEvent(nil), h.trips...)
}

// Len returns the total number of recorded trips.
func (h *TripHistory) Len() int { return len(h.trips) }
