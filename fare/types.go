/*
Package fare implements a stored-value transit card and the fare-decision
engine applied when the card is presented to a vehicle validator.

PURPOSE:
  This package contains the account-state machine and the charging rules:
  a single mutable balance subjected to per-variant fare policies, daily
  trip caps, inter-trip spacing, service windows, a rolling free-transfer
  window, monthly frequent-rider discounts, and an overflow mechanism for
  top-ups above the balance ceiling.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A currency quantity with 2-decimal semantics
  - Variant: The card type (Normal, HalfFare, FreeFare, FullFranchise)
  - TripEvent: An immutable record of one validated trip
  - Ticket: The receipt returned for every successful charge

DESIGN PRINCIPLES:
  1. Immutability: TripEvents and Tickets are never modified once created
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Determinism: All time-dependent rules read from an injected Clock
  4. Atomicity: A rejected operation leaves no partial state behind

USAGE:
  acct := fare.NewAccount("card-1", fare.VariantNormal, fare.NewAmount(5000), nil)
  router := fare.NewRouter(fare.DefaultTariffs(), fare.NewSystemClock(), nil)
  ticket, err := router.ChargeTrip(acct, "144", fare.TariffUrban)

SEE ALSO:
  - ledger.go: Balance mutation with ceiling/floor enforcement
  - policy.go: Per-variant fare computation
  - router.go: Charge orchestration
*/
package fare

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Currency quantity (tariff-system units, 2-decimal semantics)
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

func NewAmountFromFloat(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func MustParseAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Value: decimal.Zero}
	}
	return Amount{Value: d}
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) Abs() Amount                  { return Amount{Value: a.Value.Abs()} }
func (a Amount) Half() Amount                 { return Amount{Value: a.Value.Div(decimal.NewFromInt(2)).Round(2)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) Round() Amount                { return Amount{Value: a.Value.Round(2)} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) String() string { return "$" + a.Value.StringFixed(2) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AccountID string
type LineID string
type TicketID string

// =============================================================================
// CARD VARIANT
// =============================================================================

// Variant selects the fare policy applied to an account. Variants are
// a tag dispatched through a policy table (see policy.go), not distinct
// account types.
type Variant string

const (
	VariantNormal        Variant = "normal"
	VariantHalfFare      Variant = "half_fare"
	VariantFreeFare      Variant = "free_fare"
	VariantFullFranchise Variant = "full_franchise"
)

// ParseVariant maps a stored/wire string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantNormal, VariantHalfFare, VariantFreeFare, VariantFullFranchise:
		return Variant(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// =============================================================================
// TRIP EVENT - One validated boarding
// =============================================================================

// TripEvent is appended exactly once per successful charge. Immutable.
type TripEvent struct {
	At          time.Time
	Line        LineID
	FareCharged Amount
	IsTransfer  bool
	// Paid marks events that advance the monthly frequent-use counter.
	Paid bool
}

// =============================================================================
// TICKET - Receipt for a successful charge
// =============================================================================

// Ticket is created once per successful charge and returned to the
// caller. The engine never stores tickets; persistence is an external
// collaborator's concern.
type Ticket struct {
	ID               TicketID
	AccountID        AccountID
	Variant          Variant
	Line             LineID
	FareCharged      Amount
	ResultingBalance Amount
	NegativeBalance  bool
	// TotalAmountDue is the fare plus any balance deficit the rider
	// now carries. Equals FareCharged while the balance is non-negative.
	TotalAmountDue Amount
	IsTransfer     bool
	IssuedAt       time.Time
}

func (t *Ticket) String() string {
	return fmt.Sprintf("Ticket - Date: %s, Fare: %s, Remaining Balance: %s, Line: %s",
		t.IssuedAt.Format("02/01/2006 15:04:05"), t.FareCharged, t.ResultingBalance, t.Line)
}
