/*
errors.go - Centralized error types for the fare engine

PURPOSE:
  All rejection reasons in one place. Every rule violation is a
  recoverable, caller-visible outcome - never fatal. A rejected charge
  or top-up leaves balance, trip history, and transfer state untouched.

ERROR CATEGORIES:
  1. Top-up errors    - Invalid denomination
  2. Charge errors    - Balance floor breach, negative amount
  3. Policy errors    - Service window, trip spacing
  4. Lookup errors    - Unknown account, variant, or line

USAGE:
  Callers branch on sentinels:

    if errors.Is(err, fare.ErrOutsideServiceHours) {
        // show the allowed window to the rider
    }

SEE ALSO:
  - ledger.go: Returns top-up/charge errors
  - policy.go: Returns service-window/spacing errors
*/
package fare

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTopUpAmount is returned when a top-up amount is not one
	// of the accepted denominations. No state change.
	ErrInvalidTopUpAmount = errors.New("invalid top-up amount")

	// ErrInsufficientFunds is returned when a charge would push the
	// balance below the permitted floor. No state change.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeCharge is returned for charge attempts with a negative
	// amount.
	ErrNegativeCharge = errors.New("charge amount cannot be negative")

	// ErrOutsideServiceHours is returned when a restricted variant
	// attempts to board outside its allowed window. No trip is recorded.
	ErrOutsideServiceHours = errors.New("outside allowed service hours")

	// ErrTooSoonSinceLastTrip is returned when the minimum spacing
	// between consecutive trips has not elapsed.
	ErrTooSoonSinceLastTrip = errors.New("too soon since last trip")

	// ErrInvalidAccount is returned for a nil or unknown account reference.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrUnknownVariant is returned when parsing an unrecognized card variant.
	ErrUnknownVariant = errors.New("unknown card variant")

	// ErrUnknownLine is returned for an empty or unregistered bus line.
	ErrUnknownLine = errors.New("unknown bus line")

	// ErrUnknownTariffClass is returned for a tariff class with no base fare.
	ErrUnknownTariffClass = errors.New("unknown tariff class")

	// ErrDuplicateAccount is returned when registering an account id twice.
	ErrDuplicateAccount = errors.New("account already registered")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError reports how far a charge would breach the floor.
type InsufficientFundsError struct {
	AccountID AccountID
	Balance   Amount
	Requested Amount
	Floor     Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s, floor %s",
		e.Balance, e.Requested, e.Floor)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// OutsideServiceHoursError carries the window the rider must wait for.
type OutsideServiceHoursError struct {
	Variant Variant
	At      time.Time
	Window  ServiceWindow
}

func (e *OutsideServiceHoursError) Error() string {
	return fmt.Sprintf("%s card may not travel at %s (allowed %s)",
		e.Variant, e.At.Format("Mon 15:04"), e.Window)
}

func (e *OutsideServiceHoursError) Unwrap() error { return ErrOutsideServiceHours }

// SpacingError reports how long the rider must still wait.
type SpacingError struct {
	Variant  Variant
	Elapsed  time.Duration
	Required time.Duration
}

func (e *SpacingError) Error() string {
	return fmt.Sprintf("%s card must wait %s between trips (only %s elapsed)",
		e.Variant, e.Required, e.Elapsed.Truncate(time.Second))
}

func (e *SpacingError) Unwrap() error { return ErrTooSoonSinceLastTrip }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is a business-rule rejection
// rather than an internal failure. API layers map these to 4xx codes.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTopUpAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNegativeCharge) ||
		errors.Is(err, ErrOutsideServiceHours) ||
		errors.Is(err, ErrTooSoonSinceLastTrip) ||
		errors.Is(err, ErrUnknownVariant) ||
		errors.Is(err, ErrUnknownLine) ||
		errors.Is(err, ErrUnknownTariffClass) ||
		errors.Is(err, ErrDuplicateAccount)
}

// IsNotFound reports whether the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInvalidAccount)
}

// RejectionCode returns a stable machine-readable code for a rejection,
// suitable for wire serialization and metrics labels.
func RejectionCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTopUpAmount):
		return "invalid_topup_amount"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrNegativeCharge):
		return "negative_charge"
	case errors.Is(err, ErrOutsideServiceHours):
		return "outside_service_hours"
	case errors.Is(err, ErrTooSoonSinceLastTrip):
		return "too_soon_since_last_trip"
	case errors.Is(err, ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, ErrUnknownVariant):
		return "unknown_variant"
	case errors.Is(err, ErrUnknownLine):
		return "unknown_line"
	case errors.Is(err, ErrUnknownTariffClass):
		return "unknown_tariff_class"
	case errors.Is(err, ErrDuplicateAccount):
		return "duplicate_account"
	default:
		return "internal"
	}
}
