/*
transfer.go - Free-transfer window tracking

PURPOSE:
  A rider who boards a second, different line shortly after a charged
  trip travels free: the trip is a transfer. TransferWindow keeps the
  last charged line and timestamp per account and decides eligibility.

ELIGIBILITY:
  - a prior charged trip exists
  - the new line differs from the immediately preceding one
  - strictly less than 60 minutes elapsed (exactly 60 rejects)
  - boarding happens Monday-Saturday, local hour [7,22)

CHAINING:
  The record is refreshed after every charged trip, transfers included,
  so chains of unlimited length are possible as long as each hop is
  under 60 minutes and on a different line than the previous one.

SEE ALSO:
  - router.go: Queries eligibility before computing a fare
*/
package fare

import "time"

// TransferWindowDuration is the rolling window within which a
// different-line boarding is free. The boundary is exclusive.
const TransferWindowDuration = 60 * time.Minute

// TransferServiceWindow bounds when transfers are granted at all.
var TransferServiceWindow = ServiceWindow{
	FirstDay: time.Monday,
	LastDay:  time.Saturday,
	FromHour: 7,
	ToHour:   22,
}

// =============================================================================
// TRANSFER WINDOW
// =============================================================================

// TransferWindow tracks the last charged line per account. Not safe for
// concurrent use on its own; the owning Account serializes access.
type TransferWindow struct {
	lastLine LineID
	lastAt   time.Time
	valid    bool
}

func NewTransferWindow() *TransferWindow {
	return &TransferWindow{}
}

// RestoreTransferWindow rebuilds transfer state from the most recent
// persisted trip event.
func RestoreTransferWindow(line LineID, at time.Time) *TransferWindow {
	return &TransferWindow{lastLine: line, lastAt: at, valid: true}
}

// RecordChargedTrip refreshes the window. Called after every
// successfully charged trip, free or paid.
func (w *TransferWindow) RecordChargedTrip(line LineID, now time.Time) {
	w.lastLine = line
	w.lastAt = now
	w.valid = true
}

// IsTransferEligible reports whether boarding line at now qualifies as
// a free transfer.
func (w *TransferWindow) IsTransferEligible(line LineID, now time.Time) bool {
	if !w.valid {
		return false
	}
	if line == w.lastLine {
		return false
	}
	if now.Sub(w.lastAt) >= TransferWindowDuration {
		return false
	}
	return TransferServiceWindow.Contains(now)
}

// Last returns the last charged line and timestamp. ok is false when no
// trip has been charged yet.
func (w *TransferWindow) Last() (line LineID, at time.Time, ok bool) {
	return w.lastLine, w.lastAt, w.valid
}
