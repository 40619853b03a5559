/*
tariff.go - Base fares per tariff class

PURPOSE:
  A line belongs to one of two tariff classes, each with a base fare.
  The table is a pure lookup with no lifecycle; deployments may override
  the defaults from configuration.

DEFAULTS:
  Urban      1580
  Interurban 3000
*/
package fare

import "strings"

// TariffClass selects a line's base fare.
type TariffClass string

const (
	TariffUrban      TariffClass = "urban"
	TariffInterurban TariffClass = "interurban"
)

// ParseTariffClass maps a wire string to a TariffClass.
func ParseTariffClass(s string) (TariffClass, error) {
	switch TariffClass(strings.ToLower(s)) {
	case TariffUrban, TariffInterurban:
		return TariffClass(strings.ToLower(s)), nil
	}
	return "", ErrUnknownTariffClass
}

// =============================================================================
// TARIFF TABLE
// =============================================================================

// TariffTable maps tariff classes to base fares. Immutable after
// construction.
type TariffTable struct {
	base map[TariffClass]Amount
}

// DefaultTariffs returns the standard tariff table.
func DefaultTariffs() *TariffTable {
	return NewTariffTable(NewAmount(1580), NewAmount(3000))
}

// NewTariffTable builds a table with explicit base fares.
func NewTariffTable(urban, interurban Amount) *TariffTable {
	return &TariffTable{base: map[TariffClass]Amount{
		TariffUrban:      urban,
		TariffInterurban: interurban,
	}}
}

// Base returns the undiscounted fare for a tariff class.
func (t *TariffTable) Base(cls TariffClass) (Amount, error) {
	b, ok := t.base[cls]
	if !ok {
		return ZeroAmount(), ErrUnknownTariffClass
	}
	return b, nil
}

// Urban returns the urban base fare. The free-fare policy charges this
// for capped trips regardless of the boarded line's class.
func (t *TariffTable) Urban() Amount {
	return t.base[TariffUrban]
}
