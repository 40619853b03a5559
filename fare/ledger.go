/*
ledger.go - Balance arithmetic with ceiling/floor enforcement

PURPOSE:
  AccountLedger owns the card balance and pending credit and is the only
  place they mutate. It knows nothing about trips, policies, or tickets -
  decoupling the overflow rule (a reload cap with carry-over) from trip
  semantics keeps it independently testable.

INVARIANTS:
  1. FLOOR <= balance <= CEILING at all times
  2. pendingCredit >= 0
  3. pendingCredit > 0 only while balance == CEILING
  4. A failed TopUp or Charge changes nothing

OVERFLOW RULE:
  Top-ups that would push the balance past the ceiling are clamped; the
  excess is held as pending credit, never dropped. Each later charge
  frees headroom and opportunistically drains pending credit into it.

EXAMPLE:
  balance 55000, TopUp(3000)  -> balance 56000, pending 2000
  Charge(1580)                -> balance 56000, pending 420

SEE ALSO:
  - account.go: Aggregate owning one ledger per card
  - router.go: Invokes Charge during trip processing
*/
package fare

// Balance bounds in tariff-system currency units.
var (
	BalanceFloor   = NewAmount(-1200)
	BalanceCeiling = NewAmount(56000)
)

// validTopUps is the fixed allow-list of reload denominations.
var validTopUps = []int64{2000, 3000, 4000, 5000, 8000, 10000, 15000, 20000, 25000, 30000}

// ValidTopUpAmounts returns the accepted reload denominations, smallest first.
func ValidTopUpAmounts() []Amount {
	out := make([]Amount, len(validTopUps))
	for i, v := range validTopUps {
		out[i] = NewAmount(v)
	}
	return out
}

// =============================================================================
// ACCOUNT LEDGER
// =============================================================================

// AccountLedger holds the mutable money state of one card.
// Not safe for concurrent use on its own; the owning Account serializes
// access (see account.go).
type AccountLedger struct {
	balance       Amount
	pendingCredit Amount
}

// NewLedger creates a ledger with the given starting balance.
// The caller validates the starting balance (see NewAccount).
func NewLedger(initial Amount) *AccountLedger {
	return &AccountLedger{balance: initial, pendingCredit: ZeroAmount()}
}

// RestoreLedger rebuilds a ledger from persisted state.
func RestoreLedger(balance, pendingCredit Amount) *AccountLedger {
	return &AccountLedger{balance: balance, pendingCredit: pendingCredit}
}

func (l *AccountLedger) Balance() Amount       { return l.balance }
func (l *AccountLedger) PendingCredit() Amount { return l.pendingCredit }

// TopUp credits one of the accepted denominations. Any pending credit is
// drained into available headroom first; if the new total would exceed
// the ceiling, the balance is clamped and the excess becomes pending
// credit. Returns ErrInvalidTopUpAmount for other amounts, untouched state.
func (l *AccountLedger) TopUp(amount Amount) error {
	if !isValidTopUp(amount) {
		return ErrInvalidTopUpAmount
	}

	l.drainPending()

	total := l.balance.Add(amount)
	if total.GreaterThan(BalanceCeiling) {
		l.pendingCredit = l.pendingCredit.Add(total.Sub(BalanceCeiling))
		l.balance = BalanceCeiling
		return nil
	}
	l.balance = total
	return nil
}

// Charge debits a fare. Fails without state change when the amount is
// negative or the resulting balance would breach the floor. On success
// the freed headroom is refilled from pending credit.
func (l *AccountLedger) Charge(amount Amount) error {
	if amount.IsNegative() {
		return ErrNegativeCharge
	}

	newBalance := l.balance.Sub(amount)
	if newBalance.LessThan(BalanceFloor) {
		return &InsufficientFundsError{
			Balance:   l.balance,
			Requested: amount,
			Floor:     BalanceFloor,
		}
	}

	l.balance = newBalance
	l.drainPending()
	return nil
}

// drainPending moves pending credit into the balance, limited by the
// headroom below the ceiling.
func (l *AccountLedger) drainPending() {
	if !l.pendingCredit.IsPositive() {
		return
	}
	headroom := BalanceCeiling.Sub(l.balance)
	if !headroom.IsPositive() {
		return
	}
	drain := l.pendingCredit.Min(headroom)
	l.balance = l.balance.Add(drain)
	l.pendingCredit = l.pendingCredit.Sub(drain)
}

func isValidTopUp(amount Amount) bool {
	for _, v := range validTopUps {
		if amount.Equal(NewAmount(v)) {
			return true
		}
	}
	return false
}
