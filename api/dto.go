/*
dto.go - Wire representations

PURPOSE:
  JSON shapes for the validator-facing API. Core types never cross the
  wire directly: amounts are serialized as fixed 2-decimal strings and
  timestamps as RFC3339.
*/
package api

import (
	"time"

	"github.com/warp/fare-engine/fare"
)

// =============================================================================
// REQUESTS
// =============================================================================

type CreateAccountRequest struct {
	ID             string `json:"id"`
	Variant        string `json:"variant"`
	InitialBalance int64  `json:"initial_balance"`
}

type TopUpRequest struct {
	Amount int64 `json:"amount"`
}

type ChargeRequest struct {
	Line        string `json:"line"`
	TariffClass string `json:"tariff_class"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type AccountResponse struct {
	ID             string `json:"id"`
	Variant        string `json:"variant"`
	Balance        string `json:"balance"`
	PendingCredit  string `json:"pending_credit"`
	TripsToday     int    `json:"trips_today"`
	TripsThisMonth int    `json:"trips_this_month"`
	TotalTrips     int    `json:"total_trips"`
}

func toAccountResponse(snap fare.Snapshot) AccountResponse {
	return AccountResponse{
		ID:             string(snap.ID),
		Variant:        string(snap.Variant),
		Balance:        snap.Balance.Value.StringFixed(2),
		PendingCredit:  snap.PendingCredit.Value.StringFixed(2),
		TripsToday:     snap.TripsToday,
		TripsThisMonth: snap.TripsThisMonth,
		TotalTrips:     snap.TotalTrips,
	}
}

type TicketResponse struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	Variant          string    `json:"variant"`
	Line             string    `json:"line"`
	FareCharged      string    `json:"fare_charged"`
	ResultingBalance string    `json:"resulting_balance"`
	NegativeBalance  bool      `json:"negative_balance"`
	TotalAmountDue   string    `json:"total_amount_due"`
	IsTransfer       bool      `json:"is_transfer"`
	IssuedAt         time.Time `json:"issued_at"`
}

func toTicketResponse(t *fare.Ticket) TicketResponse {
	return TicketResponse{
		ID:               string(t.ID),
		AccountID:        string(t.AccountID),
		Variant:          string(t.Variant),
		Line:             string(t.Line),
		FareCharged:      t.FareCharged.Value.StringFixed(2),
		ResultingBalance: t.ResultingBalance.Value.StringFixed(2),
		NegativeBalance:  t.NegativeBalance,
		TotalAmountDue:   t.TotalAmountDue.Value.StringFixed(2),
		IsTransfer:       t.IsTransfer,
		IssuedAt:         t.IssuedAt,
	}
}

type TripStatusResponse struct {
	TripsToday    int    `json:"trips_today"`
	MayTravel     bool   `json:"may_travel"`
	SuggestedFare string `json:"suggested_fare"`
}

type TariffsResponse struct {
	Urban        string   `json:"urban"`
	Interurban   string   `json:"interurban"`
	ValidTopUps  []string `json:"valid_topups"`
	TransferMins int      `json:"transfer_window_minutes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
