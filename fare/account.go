/*
account.go - The card aggregate

PURPOSE:
  Account bundles everything the engine knows about one physical card:
  identity, variant, the money ledger, the trip history, and the
  transfer-window state. All mutation goes through Account or the
  router - the underlying parts are never handed out mutable.

CONCURRENCY:
  Many independent validators may present the same card within
  milliseconds of each other. Each Account carries its own mutex, and
  every state-changing operation (TopUp, ChargeTrip) runs inside it, so
  concurrent attempts on one card are serialized while different cards
  proceed in parallel. Fare eligibility depends on strict temporal
  ordering of the previous trip, so last-write-wins is not acceptable.

CONSTRUCTION:
  An initial balance outside [0, ceiling] is clamped to 0 with a
  warning - matching the card printer's behavior of issuing an empty
  card rather than refusing the order.

SEE ALSO:
  - ledger.go: Money state
  - router.go: Trip charging
*/
package fare

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/fare-engine/logging"
)

// =============================================================================
// ACCOUNT
// =============================================================================

type Account struct {
	mu sync.Mutex

	id       AccountID
	variant  Variant
	ledger   *AccountLedger
	history  *TripHistory
	transfer *TransferWindow
}

// NewAccount creates an account with a validated initial balance. Values
// outside [0, BalanceCeiling] are clamped to 0 with a warning-level
// diagnostic, not a hard failure.
func NewAccount(id AccountID, variant Variant, initial Amount, log *logging.Logger) *Account {
	if log == nil {
		log = logging.NewNoOpLogger()
	}
	if initial.IsNegative() || initial.GreaterThan(BalanceCeiling) {
		log.Warn("initial balance out of range, clamping to 0",
			zap.String("account", string(id)),
			zap.String("requested", initial.String()),
			zap.String("ceiling", BalanceCeiling.String()))
		initial = ZeroAmount()
	}
	return &Account{
		id:       id,
		variant:  variant,
		ledger:   NewLedger(initial),
		history:  NewTripHistory(),
		transfer: NewTransferWindow(),
	}
}

// RestoreAccount rebuilds an aggregate from persisted state. The trip
// events must be ordered oldest first; transfer state is derived from
// the most recent event.
func RestoreAccount(id AccountID, variant Variant, balance, pendingCredit Amount, events []TripEvent) *Account {
	a := &Account{
		id:       id,
		variant:  variant,
		ledger:   RestoreLedger(balance, pendingCredit),
		history:  RestoreTripHistory(events),
		transfer: NewTransferWindow(),
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		a.transfer = RestoreTransferWindow(last.Line, last.At)
	}
	return a
}

func (a *Account) ID() AccountID    { return a.id }
func (a *Account) Variant() Variant { return a.variant }

func (a *Account) Balance() Amount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Balance()
}

func (a *Account) PendingCredit() Amount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.PendingCredit()
}

// TopUp credits one of the accepted denominations (see
// ValidTopUpAmounts). All-or-nothing.
func (a *Account) TopUp(amount Amount) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.TopUp(amount)
}

// TripsToday returns the number of boardings on now's calendar date.
func (a *Account) TripsToday(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.TripsToday(now)
}

// TripsThisMonth returns the paid-trip count for now's month.
func (a *Account) TripsThisMonth(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.TripsThisMonth(now)
}

// TripEvents returns a copy of the boarding log, oldest first.
func (a *Account) TripEvents() []TripEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.Events()
}

// Snapshot captures the externally visible state in one locked read.
type Snapshot struct {
	ID             AccountID
	Variant        Variant
	Balance        Amount
	PendingCredit  Amount
	TripsToday     int
	TripsThisMonth int
	TotalTrips     int
}

func (a *Account) Snapshot(now time.Time) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ID:             a.id,
		Variant:        a.variant,
		Balance:        a.ledger.Balance(),
		PendingCredit:  a.ledger.PendingCredit(),
		TripsToday:     a.history.TripsToday(now),
		TripsThisMonth: a.history.TripsThisMonth(now),
		TotalTrips:     a.history.Len(),
	}
}
