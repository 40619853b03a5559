/*
router.go - Charge orchestration

PURPOSE:
  Router is the "bus line" side of the system: it receives a card and a
  tariff class, consults the policy table, the transfer window, and the
  ledger, and either emits a Ticket or a typed rejection.

CHARGE SEQUENCE:
  1. Validate the account and line
  2. Boarding gate: the variant's service window (applies even when the
     trip would ride free as a transfer)
  3. Transfer eligibility - an eligible transfer forces fare 0
  4. Otherwise the variant policy computes the fare
  5. Ledger charge (floor check, pending-credit drain)
  6. Trip bookkeeping: history, paid-trip counter, transfer window
  7. Ticket

  Steps 1-5 can reject; a rejection leaves every piece of state exactly
  as it was. Steps 6-7 cannot fail.

CONCURRENCY:
  The whole sequence runs under the account's mutex, so two validators
  scanning the same card back-to-back are serialized. Different cards
  are independent.

SEE ALSO:
  - policy.go: Fare computation
  - transfer.go: Transfer eligibility
*/
package fare

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/fare-engine/logging"
)

// =============================================================================
// ROUTER
// =============================================================================

type Router struct {
	tariffs  *TariffTable
	policies PolicyTable
	clock    Clock
	log      *logging.Logger
}

// NewRouter wires a router with the standard policy table. A nil logger
// disables logging.
func NewRouter(tariffs *TariffTable, clock Clock, log *logging.Logger) *Router {
	if log == nil {
		log = logging.NewNoOpLogger()
	}
	return &Router{
		tariffs:  tariffs,
		policies: NewPolicyTable(),
		clock:    clock,
		log:      log,
	}
}

// Tariffs exposes the router's tariff table for status queries.
func (r *Router) Tariffs() *TariffTable { return r.tariffs }

// ChargeTrip processes one card presentation. Returns a Ticket on
// success or a typed rejection; rejections leave balance, trip history,
// and transfer state untouched.
func (r *Router) ChargeTrip(acct *Account, line LineID, cls TariffClass) (*Ticket, error) {
	if acct == nil {
		return nil, ErrInvalidAccount
	}
	if line == "" {
		return nil, ErrUnknownLine
	}
	base, err := r.tariffs.Base(cls)
	if err != nil {
		return nil, err
	}
	policy, err := r.policies.Get(acct.Variant())
	if err != nil {
		return nil, err
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	now := r.clock.Now()

	// Boarding rights are checked before the transfer short-circuit:
	// a restricted card outside its window may not board at any price.
	if err := policy.CheckBoarding(now); err != nil {
		r.logRejection(acct, line, now, err)
		return nil, err
	}

	isTransfer := acct.transfer.IsTransferEligible(line, now)

	fare := ZeroAmount()
	if !isTransfer {
		fare, err = policy.ComputeFare(r.tariffs, base, acct.history, now)
		if err != nil {
			r.logRejection(acct, line, now, err)
			return nil, err
		}
	}

	negative := acct.ledger.Balance().Sub(fare).IsNegative()

	if err := acct.ledger.Charge(fare); err != nil {
		if fundsErr, ok := err.(*InsufficientFundsError); ok {
			fundsErr.AccountID = acct.id
		}
		r.logRejection(acct, line, now, err)
		return nil, err
	}

	paid := policy.TracksMonthlyUse && fare.IsPositive()
	acct.history.RecordTrip(TripEvent{
		At:          now,
		Line:        line,
		FareCharged: fare,
		IsTransfer:  isTransfer,
		Paid:        paid,
	})
	if paid {
		acct.history.RecordPaidTrip(now)
	}
	if policy.MarksTransferOrigin {
		acct.transfer.RecordChargedTrip(line, now)
	}

	ticket := r.buildTicket(acct, line, fare, isTransfer, negative, now)
	r.log.Debug("trip charged",
		zap.String("account", string(acct.id)),
		zap.String("line", string(line)),
		zap.String("fare", fare.String()),
		zap.Bool("transfer", isTransfer))
	return ticket, nil
}

func (r *Router) buildTicket(acct *Account, line LineID, fare Amount, isTransfer, negative bool, now time.Time) *Ticket {
	balance := acct.ledger.Balance()
	total := fare
	if negative {
		total = fare.Add(balance.Abs())
	}
	return &Ticket{
		ID:               TicketID(uuid.NewString()),
		AccountID:        acct.id,
		Variant:          acct.variant,
		Line:             line,
		FareCharged:      fare,
		ResultingBalance: balance,
		NegativeBalance:  negative,
		TotalAmountDue:   total,
		IsTransfer:       isTransfer,
		IssuedAt:         now,
	}
}

func (r *Router) logRejection(acct *Account, line LineID, now time.Time, err error) {
	r.log.Info("charge rejected",
		zap.String("account", string(acct.id)),
		zap.String("variant", string(acct.variant)),
		zap.String("line", string(line)),
		zap.Time("at", now),
		zap.String("reason", RejectionCode(err)))
}

// =============================================================================
// TRIP STATUS - Card-status query for validators and kiosks
// =============================================================================

// TripStatus is a read-only snapshot of what the next boarding would
// look like: how many trips were made today, whether the card may
// travel right now, and the fare it would pay.
type TripStatus struct {
	TripsToday    int
	MayTravel     bool
	SuggestedFare Amount
}

// TripStatus computes the status for boarding a line of the given class
// now. Nothing is mutated.
func (r *Router) TripStatus(acct *Account, cls TariffClass) (TripStatus, error) {
	if acct == nil {
		return TripStatus{}, ErrInvalidAccount
	}
	base, err := r.tariffs.Base(cls)
	if err != nil {
		return TripStatus{}, err
	}
	policy, err := r.policies.Get(acct.Variant())
	if err != nil {
		return TripStatus{}, err
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	now := r.clock.Now()
	may := policy.CheckBoarding(now) == nil
	if may && policy.MinSpacing > 0 {
		if minutes, ok := acct.history.MinutesSinceLastTrip(now); ok {
			may = time.Duration(minutes)*time.Minute >= policy.MinSpacing
		}
	}
	return TripStatus{
		TripsToday:    acct.history.TripsToday(now),
		MayTravel:     may,
		SuggestedFare: policy.SuggestedFare(r.tariffs, base, acct.history, now),
	}, nil
}
